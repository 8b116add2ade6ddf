package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/burrow/internal/storage"
	"github.com/jwebster45206/burrow/pkg/randtext"
	"github.com/jwebster45206/burrow/pkg/session"
	"github.com/jwebster45206/burrow/pkg/sprite"
	"github.com/jwebster45206/burrow/pkg/textfilter"
)

func newSessionHandler(store storage.Storage, rating string) *SessionHandler {
	exp := randtext.New(randtext.WithSource(randtext.ConstSource(0)))
	return NewSessionHandler(store, exp, textfilter.New(), rating, testLogger())
}

func createSession(t *testing.T, h http.Handler, level string) *session.Session {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/v1/sessions", `{"level":"`+level+`"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var s session.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&s))
	require.NotEqual(t, uuid.Nil, s.ID)
	return &s
}

func interact(t *testing.T, h http.Handler, id uuid.UUID, spriteID string) (*InteractResponse, int) {
	t.Helper()
	rr := doJSON(t, h, http.MethodPost, "/v1/sessions/"+id.String()+"/interact", `{"sprite":"`+spriteID+`"}`)
	if rr.Code != http.StatusOK {
		return nil, rr.Code
	}
	var resp InteractResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return &resp, rr.Code
}

func TestSessionHandler_Create(t *testing.T) {
	h := newSessionHandler(newTestStorage(), "PG13")

	s := createSession(t, h, "sewer_entrance")
	assert.Equal(t, "sewer_entrance", s.Level)
	assert.Equal(t, []string{"sewer_entrance"}, s.Visited)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "unknown level", body: `{"level":"nowhere"}`, status: http.StatusBadRequest},
		{name: "missing level", body: `{}`, status: http.StatusBadRequest},
		{name: "bad json", body: `{"level":`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, h, http.MethodPost, "/v1/sessions", tt.body)
			assert.Equal(t, tt.status, rr.Code)
		})
	}

	rr := doJSON(t, h, http.MethodGet, "/v1/sessions", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))
}

func TestSessionHandler_ReadDelete(t *testing.T) {
	h := newSessionHandler(newTestStorage(), "PG13")
	s := createSession(t, h, "deep_tunnels")
	path := "/v1/sessions/" + s.ID.String()

	rr := doJSON(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var loaded session.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&loaded))
	assert.Equal(t, s.ID, loaded.ID)

	rr = doJSON(t, h, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, h, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/v1/sessions/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, h, http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, DELETE", rr.Header().Get("Allow"))

	rr = doJSON(t, h, http.MethodGet, path+"/elsewhere", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionHandler_InteractWalkthrough(t *testing.T) {
	h := newSessionHandler(newTestStorage(), "R")
	s := createSession(t, h, "sewer_entrance")

	resp, code := interact(t, h, s.ID, "grumpy_rat")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, sprite.ActionTalk, resp.Interaction.Action)
	assert.Equal(t, "Go to heck, pal", resp.Interaction.Text, "sewer_entrance is rated PG")
	assert.Equal(t, "sounds/voice2_grumble.wav", resp.Interaction.Sound)
	assert.Equal(t, 1, resp.Session.Talks)
	assert.Empty(t, resp.MapAsset)

	resp, code = interact(t, h, s.ID, "dead_end")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, sprite.ActionNone, resp.Interaction.Action)
	assert.Equal(t, "sewer_entrance", resp.Session.Level)

	resp, code = interact(t, h, s.ID, "down_hole")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, sprite.ActionTravel, resp.Interaction.Action)
	assert.Equal(t, "sounds/warp.wav", resp.Interaction.Sound)
	assert.Equal(t, "maps/deep_tunnels.map#Scene", resp.MapAsset)
	assert.Equal(t, "deep_tunnels", resp.Session.Level)
	assert.Equal(t, []string{"sewer_entrance", "deep_tunnels"}, resp.Session.Visited)

	resp, code = interact(t, h, s.ID, "old_rat")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Damn! <open", resp.Interaction.Text, "deep_tunnels is rated R")
	assert.Equal(t, 2, resp.Session.Talks)

	_, code = interact(t, h, s.ID, "grumpy_rat")
	assert.Equal(t, http.StatusNotFound, code, "grumpy_rat lives in the previous level")

	rr := doJSON(t, h, http.MethodGet, "/v1/sessions/"+s.ID.String()+"/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var history HistoryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&history))
	require.Len(t, history.Lines, 2)
	assert.Equal(t, "Damn! <open", history.Lines[0].Text)
	assert.Equal(t, "deep_tunnels", history.Lines[0].Level)
	assert.Equal(t, "Go to heck, pal", history.Lines[1].Text)
	assert.Equal(t, "grumpy_rat", history.Lines[1].SpriteID)

	rr = doJSON(t, h, http.MethodGet, "/v1/sessions/"+s.ID.String()+"/history?limit=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	history = HistoryResponse{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&history))
	assert.Len(t, history.Lines, 1)
}

func TestSessionHandler_InteractErrors(t *testing.T) {
	h := newSessionHandler(newTestStorage(), "R")
	s := createSession(t, h, "sewer_entrance")

	tests := []struct {
		name   string
		sprite string
		status int
	}{
		{name: "unselectable npc", sprite: "sleepy_rat", status: http.StatusConflict},
		{name: "plant", sprite: "fern", status: http.StatusConflict},
		{name: "unknown sprite", sprite: "ghost", status: http.StatusNotFound},
		{name: "hole to missing level", sprite: "broken_hole", status: http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, code := interact(t, h, s.ID, tt.sprite)
			assert.Equal(t, tt.status, code)
		})
	}

	_, code := interact(t, h, uuid.New(), "grumpy_rat")
	assert.Equal(t, http.StatusNotFound, code)

	rr := doJSON(t, h, http.MethodGet, "/v1/sessions/"+s.ID.String()+"/interact", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "POST", rr.Header().Get("Allow"))

	rr = doJSON(t, h, http.MethodGet, "/v1/sessions/"+s.ID.String()+"/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"lines":[]}`, rr.Body.String(), "failed interactions leave no history")
}

func TestSessionHandler_DefaultRating(t *testing.T) {
	store := storage.NewMockStorage()
	store.AddLevel(&sprite.Level{
		ID:      "unrated",
		Sprites: []sprite.Sprite{{ID: "rat", Kind: sprite.KindNPC, Text: "<damn|drat>"}},
	})

	for rating, expected := range map[string]string{"PG13": "dang", "R": "damn"} {
		t.Run(rating, func(t *testing.T) {
			h := newSessionHandler(store, rating)
			s := createSession(t, h, "unrated")
			resp, code := interact(t, h, s.ID, "rat")
			require.Equal(t, http.StatusOK, code)
			assert.Equal(t, expected, resp.Interaction.Text)
		})
	}
}

func TestSessionHandler_HistoryBadLimit(t *testing.T) {
	h := newSessionHandler(newTestStorage(), "R")
	s := createSession(t, h, "sewer_entrance")

	for _, limit := range []string{"abc", "-1"} {
		rr := doJSON(t, h, http.MethodGet, "/v1/sessions/"+s.ID.String()+"/history?limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code, "limit=%s", limit)
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	h := newSessionHandler(newTestStorage(), "PG13")
	s := createSession(t, h, "sewer_entrance")
	base := "/v1/sessions/" + s.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		allow  string
	}{
		{name: "collection", method: http.MethodPut, path: "/v1/sessions", allow: "POST"},
		{name: "session", method: http.MethodPut, path: base, allow: "GET, DELETE"},
		{name: "session post", method: http.MethodPost, path: base, allow: "GET, DELETE"},
		{name: "interact", method: http.MethodPut, path: base + "/interact", allow: "POST"},
		{name: "history", method: http.MethodPut, path: base + "/history", allow: "GET"},
		{name: "history delete", method: http.MethodDelete, path: base + "/history", allow: "GET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, h, tt.method, tt.path, `{}`)
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, tt.allow, rr.Header().Get("Allow"))
		})
	}
}

func TestSessionHandler_ConcurrentInteractions(t *testing.T) {
	h := newSessionHandler(newTestStorage(), "R")
	s := createSession(t, h, "sewer_entrance")
	path := "/v1/sessions/" + s.ID.String()

	const clicks = 10
	var wg sync.WaitGroup
	for range clicks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rr := doJSON(t, h, http.MethodPost, path+"/interact", `{"sprite":"grumpy_rat"}`)
			assert.Equal(t, http.StatusOK, rr.Code)
		}()
	}
	wg.Wait()

	rr := doJSON(t, h, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var loaded session.Session
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&loaded))
	assert.Equal(t, clicks, loaded.Talks, "every click is counted")

	rr = doJSON(t, h, http.MethodGet, path+"/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var history HistoryResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&history))
	assert.Len(t, history.Lines, clicks)
}
