package sprite

import (
	"fmt"
	"regexp"

	"github.com/jwebster45206/burrow/pkg/randtext"
)

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// ValidID reports whether id is lowercase snake_case.
func ValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

// Validate checks a level's structure and returns every problem found.
func Validate(l *Level) []error {
	var errs []error
	addf := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !ValidID(l.ID) {
		addf("level id %q should be lowercase snake_case", l.ID)
	}
	if len(l.Sprites) == 0 {
		addf("level %q has no sprites", l.ID)
	}

	seen := make(map[string]bool, len(l.Sprites))
	for i, s := range l.Sprites {
		switch {
		case s.ID == "":
			addf("sprite %d has no id", i)
		case !ValidID(s.ID):
			addf("sprite id %q should be lowercase snake_case", s.ID)
		case seen[s.ID]:
			addf("sprite id %q is used more than once", s.ID)
		}
		seen[s.ID] = true

		if !s.Kind.Valid() {
			addf("sprite %q has unknown kind %q", s.ID, s.Kind)
			continue
		}

		switch s.Kind {
		case KindNPC:
			if s.IsSelectable() && s.Text == "" {
				addf("npc %q is selectable but has no text", s.ID)
			}
		case KindHole:
			if s.HoleTarget == "" {
				addf("hole %q has no hole_target", s.ID)
			} else if !ValidID(s.HoleTarget) {
				addf("hole %q target %q should be lowercase snake_case", s.ID, s.HoleTarget)
			}
		default:
			if s.Text != "" {
				addf("%s %q has text but can never be selected", s.Kind, s.ID)
			}
		}
	}

	return errs
}

// TemplateIssue is a randtext lint finding tied to the sprite it came from.
type TemplateIssue struct {
	SpriteID string         `json:"sprite_id"`
	Issue    randtext.Issue `json:"issue"`
}

func (t TemplateIssue) String() string {
	return t.SpriteID + ": " + t.Issue.String()
}

// Lint runs randtext.Lint over every sprite template in the level.
func Lint(l *Level) []TemplateIssue {
	var out []TemplateIssue
	for _, s := range l.Sprites {
		if s.Text == "" {
			continue
		}
		for _, issue := range randtext.Lint(s.Text) {
			out = append(out, TemplateIssue{SpriteID: s.ID, Issue: issue})
		}
	}
	return out
}
