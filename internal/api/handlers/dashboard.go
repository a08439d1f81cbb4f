package handlers

import (
	"net/http"

	"github.com/rentledger/rentledger/internal/api/middleware"
	"github.com/rentledger/rentledger/internal/service"
)

type DashboardHandler struct {
	refresher *service.RefresherService
}

func NewDashboardHandler(refresher *service.RefresherService) *DashboardHandler {
	return &DashboardHandler{refresher: refresher}
}

// Summary serves the composed financial summary. All-or-nothing: a failure in
// any underlying query yields an error response with no partial fields.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.refresher.Summary(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load financial data")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
