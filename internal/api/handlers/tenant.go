package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/api/middleware"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/service"
	"github.com/shopspring/decimal"
)

type TenantHandler struct {
	svc *service.TenantService
}

func NewTenantHandler(svc *service.TenantService) *TenantHandler {
	return &TenantHandler{svc: svc}
}

type tenantRequest struct {
	Name         string              `json:"tenant_name"`
	Status       domain.TenantStatus `json:"status,omitempty"`
	MonthlyRent  decimal.Decimal     `json:"monthly_rent"`
	RentDueDay   int                 `json:"rent_due_day"`
	Utilities    domain.Utilities    `json:"utilities,omitempty"`
	MovedOutDate *string             `json:"moved_out_date,omitempty"`
	LastSeenDate *string             `json:"last_seen_date,omitempty"`
}

func (req *tenantRequest) toInput() (service.TenantInput, error) {
	in := service.TenantInput{
		Name:        req.Name,
		Status:      req.Status,
		MonthlyRent: req.MonthlyRent,
		RentDueDay:  req.RentDueDay,
		Utilities:   req.Utilities,
	}
	parseDate := func(s *string) (*time.Time, error) {
		if s == nil || *s == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", *s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	var err error
	if in.MovedOutDate, err = parseDate(req.MovedOutDate); err != nil {
		return in, err
	}
	if in.LastSeenDate, err = parseDate(req.LastSeenDate); err != nil {
		return in, err
	}
	return in, nil
}

type tenantListResponse struct {
	Tenants []domain.Tenant `json:"tenants"`
	Count   int             `json:"count"`
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter, err := service.ParseTenantFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tenants, err := h.svc.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tenants == nil {
		tenants = []domain.Tenant{}
	}

	writeJSON(w, http.StatusOK, tenantListResponse{Tenants: tenants, Count: len(tenants)})
}

func (h *TenantHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	tenant, err := h.svc.GetByID(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	tenant, err := h.svc.Create(r.Context(), user.ID, in)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, tenant)
}

func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	var req tenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	tenant, err := h.svc.Update(r.Context(), id, user.ID, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTenantNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case isValidationError(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, tenant)
}

func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tenant id")
		return
	}

	if err := h.svc.Delete(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TenantHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	data, err := h.svc.ExportCSV(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := "tenants_export_" + time.Now().Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrTenantNameRequired) ||
		errors.Is(err, service.ErrRentNegative) ||
		errors.Is(err, service.ErrDueDayOutOfRange) ||
		errors.Is(err, service.ErrStatusInvalid) ||
		errors.Is(err, service.ErrUtilityUnknown)
}
