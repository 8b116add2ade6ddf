package randtext

import (
	"fmt"
	"strings"
)

// IssueKind classifies a Lint finding.
type IssueKind string

const (
	IssueUnterminatedGroup IssueKind = "unterminated_group"
	IssueEmptyGroup        IssueKind = "empty_group"
	IssueNestedGroup       IssueKind = "nested_group"
	IssueZeroWeight        IssueKind = "zero_weight"
	IssueStrayBackslash    IssueKind = "stray_backslash"
)

// Issue is a construct that Expand accepts but probably isn't what the
// author meant. Pos is a byte offset into the template.
type Issue struct {
	Pos     int       `json:"pos"`
	Kind    IssueKind `json:"kind"`
	Message string    `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%d: %s: %s", i.Pos, i.Kind, i.Message)
}

const strayMessage = `backslash is not followed by < > | or \ and is kept as-is`

// Lint reports the malformed or suspicious constructs in template, in
// order of appearance. A clean template yields nil.
func Lint(template string) []Issue {
	var issues []Issue
	add := func(pos int, kind IssueKind, format string, args ...any) {
		issues = append(issues, Issue{Pos: pos, Kind: kind, Message: fmt.Sprintf(format, args...)})
	}

	for seg := range scan(template) {
		switch seg.kind {
		case segStray:
			add(seg.pos, IssueStrayBackslash, strayMessage)

		case segEmptyGroup:
			add(seg.pos, IssueEmptyGroup, "empty group <> is copied literally")

		case segUnterminated:
			add(seg.pos, IssueUnterminatedGroup, "group is never closed and is copied literally")
			for _, at := range seg.strays {
				add(at, IssueStrayBackslash, strayMessage)
			}

		case segGroup:
			if seg.nested {
				add(seg.pos, IssueNestedGroup, "groups do not nest; the inner < is literal text")
			}
			for _, at := range seg.strays {
				add(at, IssueStrayBackslash, strayMessage)
			}
			for _, f := range seg.fragments {
				if zeroWeight(f) {
					add(seg.pos, IssueZeroWeight, "option %q has weight 0, which counts as literal text with weight 1", f)
				}
			}
		}
	}

	return issues
}

func zeroWeight(fragment string) bool {
	i := strings.LastIndexByte(fragment, ':')
	if i < 0 {
		return false
	}
	s := strings.TrimPrefix(strings.TrimSpace(fragment[i+1:]), "+")
	if s == "" {
		return false
	}
	return strings.Trim(s, "0") == ""
}
