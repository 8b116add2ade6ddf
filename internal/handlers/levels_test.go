package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/burrow/internal/storage"
	"github.com/jwebster45206/burrow/pkg/sprite"
)

func testLevels() []*sprite.Level {
	no := false
	return []*sprite.Level{
		{
			ID:     "sewer_entrance",
			Name:   "Sewer Entrance",
			Map:    "sewer.map",
			Rating: "PG",
			Sprites: []sprite.Sprite{
				{ID: "grumpy_rat", Kind: sprite.KindNPC, Text: "<Go to hell|Scram>, pal", VoiceLine: "voice2_grumble"},
				{ID: "sleepy_rat", Kind: sprite.KindNPC, Selectable: &no, Text: "Zzz"},
				{ID: "down_hole", Kind: sprite.KindHole, HoleTarget: "deep_tunnels"},
				{ID: "broken_hole", Kind: sprite.KindHole, HoleTarget: "nowhere"},
				{ID: "dead_end", Kind: sprite.KindHole},
				{ID: "fern", Kind: sprite.KindPlant},
			},
		},
		{
			ID:     "deep_tunnels",
			Name:   "Deep Tunnels",
			Rating: "R",
			Sprites: []sprite.Sprite{
				{ID: "old_rat", Kind: sprite.KindNPC, Text: "<Damn|Eek>! <open"},
				{ID: "up_hole", Kind: sprite.KindHole, HoleTarget: "sewer_entrance"},
			},
		},
	}
}

func newTestStorage() *storage.MockStorage {
	m := storage.NewMockStorage()
	for _, l := range testLevels() {
		m.AddLevel(l)
	}
	return m
}

func TestLevelHandler_List(t *testing.T) {
	h := NewLevelHandler(newTestStorage(), testLogger())

	rr := doJSON(t, h, http.MethodGet, "/v1/levels", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp LevelListResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, []string{"deep_tunnels", "sewer_entrance"}, resp.Levels)

	rr = doJSON(t, NewLevelHandler(storage.NewMockStorage(), testLogger()), http.MethodGet, "/v1/levels/", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"levels":[]}`, rr.Body.String())
}

func TestLevelHandler_Get(t *testing.T) {
	h := NewLevelHandler(newTestStorage(), testLogger())

	rr := doJSON(t, h, http.MethodGet, "/v1/levels/sewer_entrance", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp LevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Sewer Entrance", resp.Level.Name)
	assert.Equal(t, "maps/sewer.map#Scene", resp.MapAsset)
	assert.Empty(t, resp.TemplateIssues)

	rr = doJSON(t, h, http.MethodGet, "/v1/levels/deep_tunnels", "")
	require.Equal(t, http.StatusOK, rr.Code)
	resp = LevelResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "maps/deep_tunnels.map#Scene", resp.MapAsset)
	require.Len(t, resp.TemplateIssues, 1)
	assert.Equal(t, "old_rat", resp.TemplateIssues[0].SpriteID)
}

func TestLevelHandler_Errors(t *testing.T) {
	h := NewLevelHandler(newTestStorage(), testLogger())

	rr := doJSON(t, h, http.MethodGet, "/v1/levels/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, h, http.MethodPost, "/v1/levels", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
