/*
Package randtext expands weighted random text templates.

# Overview

Dialogue and flavor lines are authored as a single template string. Each
choice group in the template is replaced by one of its options, picked at
random, so the same sprite can say something slightly different every time
it is clicked.

	line := randtext.Expand("<Hi|Hello|Oi>, <traveler|stranger>.")
	// line: "Oi, traveler." (for example)

# Syntax

  - <a|b|c> picks one of a, b or c with equal probability
  - <common:70|rare:30> weights options; weights are relative
  - \< \> \| \\ are literal <, >, | and \
  - any other backslash is kept as a literal backslash

An option's weight is taken from the text after its last colon, and only when
that text is a positive base-10 integer. Everything else, including a colon
followed by words, zero or a negative number, stays part of the option text
with weight 1:

	<Note: run|walk>      // options "Note: run" and "walk", weight 1 each
	<text:5:10|other>     // option "text:5" has weight 10

Groups do not nest. The first unescaped > closes the group and an inner <
is an ordinary character.

# Malformed templates

Expansion never fails. An empty group <> is copied through unchanged, and an
unterminated group such as "abc<def" is emitted as-is with no selection.
Use Lint to find these constructs before they ship.

# Randomness

An Expander draws from a Source. The package-level Expand uses the
goroutine-safe math/rand/v2 top-level generator. For reproducible output
pass WithSeed, or WithSource for a custom generator:

	exp := randtext.New(randtext.WithSeed(42))
	line := exp.Expand("<left|right>")

	exp = randtext.New(randtext.WithSource(randtext.ConstSource(0)))
	line = exp.Expand("<first|second>") // always "first"

# Thread Safety

Expander holds no state of its own. It is safe for concurrent use whenever
its Source is; seeded sources created by WithSeed are not.
*/
package randtext
