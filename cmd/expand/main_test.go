package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/burrow/pkg/randtext"
)

func TestExpand(t *testing.T) {
	var out bytes.Buffer
	exp := randtext.New(randtext.WithSource(randtext.ConstSource(1)))

	require.NoError(t, expand(&out, exp, "<Squeak|Eek>, \\<3", 3))
	assert.Equal(t, "Eek, <3\nEek, <3\nEek, <3\n", out.String())

	assert.Error(t, expand(&out, exp, "x", 0))
}

func TestExpand_SeededRepeatable(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, expand(&first, randtext.New(randtext.WithSeed(5)), "<a|b|c|d|e>", 8))
	require.NoError(t, expand(&second, randtext.New(randtext.WithSeed(5)), "<a|b|c|d|e>", 8))
	assert.Equal(t, first.String(), second.String())
	assert.Len(t, strings.Split(strings.TrimSpace(first.String()), "\n"), 8)
}

func TestLint(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, lint(&out, "<fine|ok:2>"))
	assert.Equal(t, "ok\n", out.String())

	out.Reset()
	err := lint(&out, "<> <open")
	require.Error(t, err)
	assert.Equal(t, "2 template issues", err.Error())
	assert.Contains(t, out.String(), "0: empty_group:")
	assert.Contains(t, out.String(), "3: unterminated_group:")
}
