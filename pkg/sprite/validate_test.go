package sprite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/burrow/pkg/randtext"
)

func TestValidate_TestdataIsClean(t *testing.T) {
	for _, name := range []string{"sewer_entrance.json", "deep_tunnels.yaml"} {
		l, err := LoadLevel(filepath.Join("testdata", name), true)
		require.NoError(t, err)
		assert.Empty(t, Validate(l), name)
		assert.Empty(t, Lint(l), name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		level    Level
		contains []string
	}{
		{
			name:     "bad level id and no sprites",
			level:    Level{ID: "Bad-Level"},
			contains: []string{"lowercase snake_case", "no sprites"},
		},
		{
			name: "sprite id problems",
			level: Level{ID: "ok", Sprites: []Sprite{
				{Kind: KindCoin},
				{ID: "BadID", Kind: KindCoin},
				{ID: "dup", Kind: KindCoin},
				{ID: "dup", Kind: KindCoin},
			}},
			contains: []string{"has no id", `"BadID"`, "more than once"},
		},
		{
			name: "kind rules",
			level: Level{ID: "ok", Sprites: []Sprite{
				{ID: "mystery", Kind: "dragon"},
				{ID: "mute", Kind: KindNPC},
				{ID: "pit", Kind: KindHole},
				{ID: "pit_two", Kind: KindHole, HoleTarget: "Next Level"},
				{ID: "chatty_fern", Kind: KindPlant, Text: "hello"},
			}},
			contains: []string{"unknown kind", "no text", "no hole_target", `"Next Level"`, "never be selected"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.level)
			require.Len(t, errs, len(tt.contains))
			for i, want := range tt.contains {
				assert.Contains(t, errs[i].Error(), want)
			}
		})
	}
}

func TestLint(t *testing.T) {
	l := &Level{ID: "x", Sprites: []Sprite{
		{ID: "a", Kind: KindNPC, Text: "<fine|ok>"},
		{ID: "b", Kind: KindNPC, Text: "<broken"},
		{ID: "c", Kind: KindHole, HoleTarget: "y"},
	}}

	issues := Lint(l)
	require.Len(t, issues, 1)
	assert.Equal(t, "b", issues[0].SpriteID)
	assert.Equal(t, randtext.IssueUnterminatedGroup, issues[0].Issue.Kind)
	assert.Equal(t, "b: 0: unterminated_group: group is never closed and is copied literally", issues[0].String())
}

func TestValidID(t *testing.T) {
	assert.True(t, ValidID("a"))
	assert.True(t, ValidID("deep_tunnels_2"))
	assert.False(t, ValidID("deep_"))
	assert.False(t, ValidID("2deep"))
	assert.False(t, ValidID(""))
}
