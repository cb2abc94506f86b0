// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/watchkeep/pkg/logger"
)

// SummaryHandler serves the published aggregate snapshot.
type SummaryHandler struct {
	deps Dependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps Dependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// HandleGetSummary handles GET /summary requests. The snapshot is read from
// the content store, not recomputed; an upload that just happened may not be
// reflected yet.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_summary"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.Summary(r.Context())
	if err != nil {
		logger.Get().Error(r.Context(), "summary read failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
