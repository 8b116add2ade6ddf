package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/burrow/internal/storage"
	"github.com/jwebster45206/burrow/pkg/sprite"
)

type LevelListResponse struct {
	Levels []string `json:"levels"`
}

type LevelResponse struct {
	Level          *sprite.Level          `json:"level"`
	MapAsset       string                 `json:"map_asset"`
	TemplateIssues []sprite.TemplateIssue `json:"template_issues,omitempty"`
}

type LevelHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewLevelHandler(storage storage.Storage, logger *slog.Logger) *LevelHandler {
	return &LevelHandler{
		storage: storage,
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for levels
// Routes:
// GET /v1/levels      - List level ids
// GET /v1/levels/{id} - Read a level with its scene asset and template lint
func (h *LevelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/levels"), "/")
	if id == "" {
		h.handleList(w, r)
		return
	}
	h.handleGet(w, r, id)
}

func (h *LevelHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := h.storage.ListLevels(r.Context())
	if err != nil {
		h.logger.Error("Failed to list levels", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list levels")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, h.logger, http.StatusOK, LevelListResponse{Levels: ids})
}

func (h *LevelHandler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	level, err := h.storage.GetLevel(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, h.logger, http.StatusNotFound, "Level not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to load level", "error", err, "level", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load level")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, LevelResponse{
		Level:          level,
		MapAsset:       level.MapAsset(),
		TemplateIssues: sprite.Lint(level),
	})
}
