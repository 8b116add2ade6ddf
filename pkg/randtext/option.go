package randtext

import (
	"strconv"
	"strings"
)

// Option is one alternative of a choice group.
type Option struct {
	Text   string `json:"text"`
	Weight int    `json:"weight"`
}

// weight reports the effective weight. Anything below 1 counts as 1 so a
// group's total weight is never zero.
func (o Option) weight() int {
	if o.Weight < 1 {
		return 1
	}
	return o.Weight
}

// ParseOption splits a raw option fragment into its text and weight.
//
// The weight is read from the text after the last colon, and only when
// that text, trimmed of surrounding whitespace, is a positive base-10
// integer. Otherwise the whole fragment is the text and the weight is 1.
//
//	ParseOption("rare:30")    // {Text: "rare", Weight: 30}
//	ParseOption("a:b")        // {Text: "a:b", Weight: 1}
//	ParseOption("text:5:10")  // {Text: "text:5", Weight: 10}
func ParseOption(fragment string) Option {
	if i := strings.LastIndexByte(fragment, ':'); i >= 0 {
		if w, ok := parseWeight(fragment[i+1:]); ok {
			return Option{Text: fragment[:i], Weight: w}
		}
	}
	return Option{Text: fragment, Weight: 1}
}

// parseWeight accepts an optional leading '+' like the rest of the game's
// numeric fields, and caps weights at 32 bits.
func parseWeight(s string) (int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return int(n), true
}

// Pick selects one option's text with probability Weight/total.
//
// A single draw r in [0, total) is walked down the options in order,
// subtracting each weight until it falls below one. An empty list yields "".
func Pick(options []Option, src Source) string {
	if len(options) == 0 {
		return ""
	}

	total := 0
	for _, o := range options {
		total += o.weight()
	}

	roll := src.IntN(total)
	for _, o := range options {
		w := o.weight()
		if roll < w {
			return o.Text
		}
		roll -= w
	}

	// Only reachable when the source broke its [0, n) contract.
	return options[0].Text
}
