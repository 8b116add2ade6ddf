package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jwebster45206/burrow/pkg/randtext"
	"github.com/jwebster45206/burrow/pkg/textfilter"
)

const maxExpandCount = 20

// ExpandRequest asks for one or more renderings of a template.
type ExpandRequest struct {
	Template string  `json:"template"`
	Seed     *uint64 `json:"seed,omitempty"`
	Count    int     `json:"count,omitempty"`
	Rating   string  `json:"rating,omitempty"`
}

type ExpandResponse struct {
	Results []string `json:"results"`
}

type LintRequest struct {
	Template string `json:"template"`
}

type LintResponse struct {
	Issues []randtext.Issue `json:"issues"`
}

// TemplateHandler serves template expansion and linting.
type TemplateHandler struct {
	expander *randtext.Expander
	filter   *textfilter.Filter
	logger   *slog.Logger
}

func NewTemplateHandler(expander *randtext.Expander, filter *textfilter.Filter, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		expander: expander,
		filter:   filter,
		logger:   logger,
	}
}

// ServeHTTP handles HTTP requests for templates
// Routes:
// POST /v1/expand - Render a template
// POST /v1/lint   - Report malformed constructs in a template
func (h *TemplateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	switch r.URL.Path {
	case "/v1/expand":
		h.handleExpand(w, r)
	case "/v1/lint":
		h.handleLint(w, r)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *TemplateHandler) handleExpand(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("Invalid expand request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	count := min(max(req.Count, 1), maxExpandCount)

	exp := h.expander
	if req.Seed != nil {
		exp = randtext.New(randtext.WithSeed(*req.Seed))
	}

	filter := textfilter.ShouldFilterContent(req.Rating)
	results := make([]string, count)
	for i := range results {
		line := exp.Expand(req.Template)
		if filter {
			line = h.filter.FilterText(line)
		}
		results[i] = line
	}

	h.logger.Debug("Expanded template",
		"count", count,
		"seeded", req.Seed != nil,
		"filtered", filter)
	writeJSON(w, h.logger, http.StatusOK, ExpandResponse{Results: results})
}

func (h *TemplateHandler) handleLint(w http.ResponseWriter, r *http.Request) {
	var req LintRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.logger.Warn("Invalid lint request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	issues := randtext.Lint(req.Template)
	if issues == nil {
		issues = []randtext.Issue{}
	}
	writeJSON(w, h.logger, http.StatusOK, LintResponse{Issues: issues})
}
