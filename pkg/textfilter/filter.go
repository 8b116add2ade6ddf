package textfilter

import (
	"regexp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultReplacements maps words that should not appear in family-rated
// levels to something a rat could say in front of kids.
var DefaultReplacements = map[string]string{
	"fuck":         "fudge",
	"motherfucker": "mother-trucker",
	"shit":         "shoot",
	"bullshit":     "baloney",
	"damn":         "dang",
	"goddamn":      "gosh-dang",
	"hell":         "heck",
	"ass":          "butt",
	"asshole":      "jerk",
	"dumbass":      "dummy",
	"bitch":        "jerk",
	"bastard":      "jerk",
	"crap":         "crud",
	"piss":         "ticked",
	"dick":         "jerk",
	"prick":        "jerk",
}

// Filter replaces profanity while keeping the case pattern of the
// original word. It is safe for concurrent use.
type Filter struct {
	pattern      *regexp.Regexp
	replacements map[string]string
}

// New builds a Filter from DefaultReplacements.
func New() *Filter {
	return NewWithReplacements(DefaultReplacements)
}

// NewWithReplacements builds a Filter from a word → replacement map. Keys
// are matched case-insensitively on word boundaries, with an optional
// plural "s" or "es".
func NewWithReplacements(replacements map[string]string) *Filter {
	words := make([]string, 0, len(replacements))
	lower := make(map[string]string, len(replacements))
	for word, repl := range replacements {
		w := strings.ToLower(word)
		words = append(words, regexp.QuoteMeta(w))
		lower[w] = repl
	}
	// Longest first so "asshole" wins over "ass".
	slices.SortFunc(words, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	f := &Filter{replacements: lower}
	if len(words) > 0 {
		f.pattern = regexp.MustCompile(`(?i)\b(` + strings.Join(words, "|") + `)(e?s)?\b`)
	}
	return f
}

// FilterText replaces every listed word in text.
func (f *Filter) FilterText(text string) string {
	if f.pattern == nil {
		return text
	}
	return f.pattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := f.pattern.FindStringSubmatch(match)
		word, suffix := sub[1], sub[2]
		repl, ok := f.replacements[strings.ToLower(word)]
		if !ok {
			return match
		}
		return preserveCase(word, repl) + suffix
	})
}

// ContainsProfanity reports whether text has any listed word.
func (f *Filter) ContainsProfanity(text string) bool {
	return f.pattern != nil && f.pattern.MatchString(text)
}

func preserveCase(original, replacement string) string {
	// Casers carry state, so each call gets its own.
	title := cases.Title(language.English)
	switch {
	case original == "":
		return replacement
	case strings.ToUpper(original) == original:
		return strings.ToUpper(replacement)
	case strings.ToLower(original) == original:
		return strings.ToLower(replacement)
	case title.String(strings.ToLower(original)) == original:
		return title.String(replacement)
	}

	// Mixed case: copy the pattern letter by letter, lowercase past the end.
	orig := []rune(original)
	out := make([]rune, 0, len(replacement))
	for i, r := range []rune(replacement) {
		if i < len(orig) && unicode.IsUpper(orig[i]) {
			out = append(out, unicode.ToUpper(r))
		} else {
			out = append(out, unicode.ToLower(r))
		}
	}
	return string(out)
}

// ShouldFilterContent reports whether a level's content rating calls for
// filtering.
func ShouldFilterContent(rating string) bool {
	switch strings.ToUpper(strings.TrimSpace(rating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	}
	return false
}

// Normalize returns text in Unicode NFC so that composed and decomposed
// spellings of the same line compare equal.
func Normalize(text string) string {
	return norm.NFC.String(text)
}
