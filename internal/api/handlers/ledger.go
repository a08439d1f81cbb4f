package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/api/middleware"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/service"
	"github.com/shopspring/decimal"
)

type LedgerHandler struct {
	svc *service.LedgerService
}

func NewLedgerHandler(svc *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{svc: svc}
}

type createEntryRequest struct {
	TenantID  string           `json:"tenant_id"`
	Amount    decimal.Decimal  `json:"amount"`
	EntryType domain.EntryType `json:"entry_type"`
	Category  string           `json:"category"`
	Notes     string           `json:"notes,omitempty"`
}

func (h *LedgerHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant_id")
		return
	}

	entry := &domain.LedgerEntry{
		UserID:    user.ID,
		TenantID:  tenantID,
		Amount:    req.Amount,
		EntryType: req.EntryType,
		Category:  req.Category,
		Notes:     req.Notes,
	}
	if err := h.svc.Record(r.Context(), entry); err != nil {
		switch {
		case errors.Is(err, service.ErrEntryTenantRequired),
			errors.Is(err, service.ErrEntryAmountRequired),
			errors.Is(err, service.ErrEntryTypeInvalid):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrTenantUnknown):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

type recentActivityResponse struct {
	Entries []domain.EntryWithTenant `json:"entries"`
	Count   int                      `json:"count"`
}

// Recent serves the dashboard's activity feed: the newest entries first.
func (h *LedgerHandler) Recent(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.svc.RecentActivity(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.EntryWithTenant{}
	}

	writeJSON(w, http.StatusOK, recentActivityResponse{Entries: entries, Count: len(entries)})
}

type attentionResponse struct {
	Overdue []domain.TenantBalance `json:"overdue"`
	Count   int                    `json:"count"`
}

// Attention serves the "needs attention" list: tenants with negative
// balances, most negative first. An empty list is the all-good state.
func (h *LedgerHandler) Attention(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	overdue, err := h.svc.Attention(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, attentionResponse{Overdue: overdue, Count: len(overdue)})
}
