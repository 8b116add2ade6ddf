package randtext

import (
	"math/rand/v2"
	"strings"
	"sync"
)

// Source supplies uniformly distributed integers in [0, n).
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource draws from the math/rand/v2 top-level generator, which is
// safe for concurrent use.
type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

// ConstSource always returns the same value, clamped to [0, n).
// ConstSource(0) makes every group pick its first option.
type ConstSource int

func (s ConstSource) IntN(n int) int {
	switch {
	case int(s) < 0:
		return 0
	case int(s) >= n:
		return n - 1
	}
	return int(s)
}

// NewSeededSource returns a deterministic PCG-backed source.
// The returned source is not safe for concurrent use.
func NewSeededSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed>>16|7))
}

type lockedSource struct {
	mu  sync.Mutex
	src Source
}

func (l *lockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}

// Locked wraps src so it can be shared between goroutines.
func Locked(src Source) Source {
	return &lockedSource{src: src}
}

// Expander expands templates using its Source.
type Expander struct {
	src Source
}

// ExpanderOption configures an Expander.
type ExpanderOption func(*Expander)

// WithSource sets the random source. A nil source keeps the default.
func WithSource(src Source) ExpanderOption {
	return func(e *Expander) {
		if src != nil {
			e.src = src
		}
	}
}

// WithSeed uses a deterministic source seeded with seed.
//
// Two expanders built with the same seed produce the same lines for the
// same sequence of templates.
func WithSeed(seed uint64) ExpanderOption {
	return WithSource(NewSeededSource(seed))
}

// New creates an Expander. By default it draws from the process-wide
// math/rand/v2 generator.
func New(opts ...ExpanderOption) *Expander {
	e := &Expander{src: globalSource{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand resolves every choice group in template and decodes escapes.
// It never fails: malformed groups are copied to the output literally.
func (e *Expander) Expand(template string) string {
	var out strings.Builder
	out.Grow(len(template))

	for seg := range scan(template) {
		switch seg.kind {
		case segGroup:
			out.WriteString(e.resolve(seg.fragments))
		case segEmptyGroup:
			out.WriteString("<>")
		case segUnterminated:
			out.WriteByte('<')
			out.WriteString(seg.text)
		default:
			out.WriteString(seg.text)
		}
	}

	return out.String()
}

func (e *Expander) resolve(fragments []string) string {
	options := make([]Option, len(fragments))
	for i, f := range fragments {
		options[i] = ParseOption(f)
	}
	return Pick(options, e.src)
}

var defaultExpander = New()

// Expand expands template with the package-level Expander.
func Expand(template string) string {
	return defaultExpander.Expand(template)
}
