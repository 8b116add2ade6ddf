package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/burrow/internal/logger"
	"github.com/jwebster45206/burrow/internal/storage"
	"github.com/jwebster45206/burrow/pkg/session"
	"github.com/jwebster45206/burrow/pkg/sprite"
	"github.com/jwebster45206/burrow/pkg/textfilter"
)

type CreateSessionRequest struct {
	Level string `json:"level"`
}

type InteractRequest struct {
	Sprite string `json:"sprite"`
}

type InteractResponse struct {
	Interaction sprite.Interaction `json:"interaction"`
	Session     *session.Session   `json:"session"`
	MapAsset    string             `json:"map_asset,omitempty"`
}

type HistoryResponse struct {
	Lines []session.Line `json:"lines"`
}

type SessionHandler struct {
	storage       storage.Storage
	expander      sprite.Expander
	filter        *textfilter.Filter
	defaultRating string
	logger        *slog.Logger
}

// NewSessionHandler creates a session handler. defaultRating applies to
// levels that do not declare their own rating.
func NewSessionHandler(storage storage.Storage, expander sprite.Expander, filter *textfilter.Filter, defaultRating string, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		storage:       storage,
		expander:      expander,
		filter:        filter,
		defaultRating: defaultRating,
		logger:        logger,
	}
}

// ServeHTTP handles HTTP requests for play sessions
// Routes:
// POST /v1/sessions                 - Start a session in a level
// GET /v1/sessions/{id}             - Read a session
// DELETE /v1/sessions/{id}          - Delete a session and its history
// POST /v1/sessions/{id}/interact   - Click a sprite in the current level
// GET /v1/sessions/{id}/history     - Recent dialogue lines, newest first
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	idStr, action, _ := strings.Cut(path, "/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	log := logger.WithSession(h.logger, id.String())

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, id, log)
	case action == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id, log)
	case action == "interact" && r.Method == http.MethodPost:
		h.handleInteract(w, r, id, log)
	case action == "history" && r.Method == http.MethodGet:
		h.handleHistory(w, r, id, log)
	default:
		allow, ok := sessionRouteMethods[action]
		if !ok {
			writeError(w, log, http.StatusNotFound, "Not found")
			return
		}
		w.Header().Set("Allow", allow)
		writeError(w, log, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: "+allow)
	}
}

// sessionRouteMethods lists the methods served under /v1/sessions/{id}.
var sessionRouteMethods = map[string]string{
	"":         "GET, DELETE",
	"interact": http.MethodPost,
	"history":  http.MethodGet,
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("Invalid create session request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if req.Level == "" {
		writeError(w, h.logger, http.StatusBadRequest, "level is required")
		return
	}

	if _, err := h.storage.GetLevel(r.Context(), req.Level); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, h.logger, http.StatusBadRequest, "Unknown level: "+req.Level)
			return
		}
		h.logger.Error("Failed to load level", "error", err, "level", req.Level)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load level")
		return
	}

	s := session.New(req.Level)
	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return
	}

	h.logger.Info("Session created", "session_id", s.ID.String(), "level", s.Level)
	writeJSON(w, h.logger, http.StatusCreated, s)
}

// loadSession writes the error response itself and returns nil on failure.
func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) *session.Session {
	s, err := h.storage.LoadSession(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, log, http.StatusNotFound, "Session not found")
		return nil
	}
	if err != nil {
		log.Error("Failed to load session", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to load session")
		return nil
	}
	return s
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	if s := h.loadSession(w, r, id, log); s != nil {
		writeJSON(w, log, http.StatusOK, s)
	}
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		log.Error("Failed to delete session", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	log.Info("Session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// interactError carries the response for an interaction that was refused
// before the session changed.
type interactError struct {
	status  int
	message string
}

func (e *interactError) Error() string { return e.message }

func (h *SessionHandler) handleInteract(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	var req InteractRequest
	if err := decodeBody(w, r, &req); err != nil {
		log.Warn("Invalid interact request", "error", err)
		writeError(w, log, http.StatusBadRequest, err.Error())
		return
	}

	var (
		in       sprite.Interaction
		line     *session.Line
		mapAsset string
	)

	// The update may be replayed if another click on the same session
	// lands first, so everything it computes is reset on each run.
	s, err := h.storage.UpdateSession(r.Context(), id, func(s *session.Session) error {
		line, mapAsset = nil, ""

		level, err := h.storage.GetLevel(r.Context(), s.Level)
		if err != nil {
			log.Error("Failed to load current level", "error", err, "level", s.Level)
			return &interactError{http.StatusInternalServerError, "Failed to load current level"}
		}

		target, err := level.Sprite(req.Sprite)
		if err != nil {
			return &interactError{http.StatusNotFound, "Sprite not found in level " + level.ID}
		}

		in, err = sprite.Interact(target, h.expander)
		if errors.Is(err, sprite.ErrNotSelectable) {
			return &interactError{http.StatusConflict, "Sprite cannot be selected"}
		}
		if err != nil {
			log.Error("Interaction failed", "error", err, "sprite", req.Sprite)
			return &interactError{http.StatusInternalServerError, "Interaction failed"}
		}

		switch in.Action {
		case sprite.ActionTalk:
			rating := level.Rating
			if rating == "" {
				rating = h.defaultRating
			}
			if textfilter.ShouldFilterContent(rating) {
				in.Text = h.filter.FilterText(in.Text)
			}
			s.Talks++
			line = &session.Line{Level: level.ID, SpriteID: target.ID, Text: in.Text, At: time.Now()}

		case sprite.ActionTravel:
			next, err := h.storage.GetLevel(r.Context(), in.Level)
			if errors.Is(err, storage.ErrNotFound) {
				log.Warn("Hole leads to unknown level", "sprite", target.ID, "target", in.Level)
				return &interactError{http.StatusUnprocessableEntity, "Hole leads to unknown level: " + in.Level}
			}
			if err != nil {
				log.Error("Failed to load target level", "error", err, "target", in.Level)
				return &interactError{http.StatusInternalServerError, "Failed to load target level"}
			}
			s.Travel(next.ID)
			mapAsset = next.MapAsset()
			log.Info("Session travelled", "from", level.ID, "to", next.ID)
		}
		return nil
	})

	var ie *interactError
	switch {
	case errors.As(err, &ie):
		writeError(w, log, ie.status, ie.message)
		return
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, log, http.StatusNotFound, "Session not found")
		return
	case errors.Is(err, storage.ErrConflict):
		log.Warn("Session update conflict", "error", err)
		writeError(w, log, http.StatusConflict, "Session is busy, try again")
		return
	case err != nil:
		log.Error("Failed to update session", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if line != nil {
		if err := h.storage.AppendLine(r.Context(), s.ID, *line); err != nil {
			log.Error("Failed to append history line", "error", err)
			writeError(w, log, http.StatusInternalServerError, "Failed to record dialogue")
			return
		}
	}

	writeJSON(w, log, http.StatusOK, InteractResponse{Interaction: in, Session: s, MapAsset: mapAsset})
}

func (h *SessionHandler) handleHistory(w http.ResponseWriter, r *http.Request, id uuid.UUID, log *slog.Logger) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, log, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	if h.loadSession(w, r, id, log) == nil {
		return
	}

	lines, err := h.storage.History(r.Context(), id, limit)
	if err != nil {
		log.Error("Failed to read history", "error", err)
		writeError(w, log, http.StatusInternalServerError, "Failed to read history")
		return
	}
	if lines == nil {
		lines = []session.Line{}
	}
	writeJSON(w, log, http.StatusOK, HistoryResponse{Lines: lines})
}
