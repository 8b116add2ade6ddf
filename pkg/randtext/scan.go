package randtext

import (
	"iter"
	"strings"
)

type segmentKind int

const (
	// segLiteral is text copied to the output as-is.
	segLiteral segmentKind = iota
	// segStray is a backslash that does not start a known escape.
	segStray
	// segGroup is a closed, non-empty choice group.
	segGroup
	// segEmptyGroup is "<>".
	segEmptyGroup
	// segUnterminated is a "<" that never found its ">".
	segUnterminated
)

// segment is one piece of a scanned template.
type segment struct {
	kind segmentKind
	pos  int

	// text is the literal output for segLiteral and segStray, and the
	// decoded group body for segGroup and segUnterminated.
	text string

	// fragments are the unescaped-pipe separated option fragments of a
	// segGroup, with escapes already decoded.
	fragments []string

	// nested records whether an unescaped "<" appeared inside the group.
	nested bool

	// strays are the offsets of unknown escapes inside the group.
	strays []int
}

// cursor walks a template one byte at a time. All delimiters are ASCII, so
// multi-byte UTF-8 sequences are copied through untouched.
type cursor struct {
	src string
	pos int
}

func (c *cursor) done() bool {
	return c.pos >= len(c.src)
}

func (c *cursor) peek() (byte, bool) {
	if c.done() {
		return 0, false
	}
	return c.src[c.pos], true
}

func (c *cursor) advance() {
	c.pos++
}

func isEscapable(ch byte) bool {
	switch ch {
	case '<', '>', '|', '\\':
		return true
	}
	return false
}

// scan yields the segments of template in a single left-to-right pass.
func scan(template string) iter.Seq[segment] {
	return func(yield func(segment) bool) {
		c := cursor{src: template}
		for !c.done() {
			start := c.pos
			ch, _ := c.peek()

			switch ch {
			case '\\':
				c.advance()
				if next, ok := c.peek(); ok && isEscapable(next) {
					c.advance()
					if !yield(segment{kind: segLiteral, pos: start, text: template[start+1 : c.pos]}) {
						return
					}
					continue
				}
				// Only the backslash is consumed; the next character is
				// scanned on its own.
				if !yield(segment{kind: segStray, pos: start, text: `\`}) {
					return
				}

			case '<':
				c.advance()
				if !yield(captureGroup(&c, start)) {
					return
				}

			default:
				for !c.done() {
					if b := template[c.pos]; b == '\\' || b == '<' {
						break
					}
					c.advance()
				}
				if !yield(segment{kind: segLiteral, pos: start, text: template[start:c.pos]}) {
					return
				}
			}
		}
	}
}

// captureGroup reads a choice group body. The cursor must sit just past the
// opening "<" at offset start.
func captureGroup(c *cursor, start int) segment {
	var body, option strings.Builder
	seg := segment{pos: start}

	for {
		ch, ok := c.peek()
		if !ok {
			seg.kind = segUnterminated
			seg.text = body.String()
			return seg
		}
		at := c.pos
		c.advance()

		switch ch {
		case '\\':
			if next, ok := c.peek(); ok && isEscapable(next) {
				c.advance()
				body.WriteByte(next)
				option.WriteByte(next)
				continue
			}
			seg.strays = append(seg.strays, at)
			body.WriteByte(ch)
			option.WriteByte(ch)

		case '>':
			if body.Len() == 0 {
				seg.kind = segEmptyGroup
				return seg
			}
			seg.kind = segGroup
			seg.text = body.String()
			seg.fragments = append(seg.fragments, option.String())
			return seg

		case '|':
			body.WriteByte(ch)
			seg.fragments = append(seg.fragments, option.String())
			option.Reset()

		case '<':
			seg.nested = true
			fallthrough

		default:
			body.WriteByte(ch)
			option.WriteByte(ch)
		}
	}
}
