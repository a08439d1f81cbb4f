package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/api/middleware"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/service"
	"github.com/shopspring/decimal"
)

type ChargeHandler struct {
	svc *service.ChargeService
}

func NewChargeHandler(svc *service.ChargeService) *ChargeHandler {
	return &ChargeHandler{svc: svc}
}

type chargeRequest struct {
	TenantID string          `json:"tenant_id"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date,omitempty"`
	Utility  string          `json:"utility,omitempty"`
	Method   string          `json:"method,omitempty"`
}

func (req *chargeRequest) parse() (uuid.UUID, time.Time, error) {
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return uuid.Nil, time.Time{}, errors.New("invalid tenant_id")
	}
	var date time.Time
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			return uuid.Nil, time.Time{}, errors.New("invalid date, expected YYYY-MM-DD")
		}
	}
	return tenantID, date, nil
}

// monthRange reads an optional ?month=YYYY-MM query, defaulting to the
// current month.
func monthRange(r *http.Request) (time.Time, time.Time, error) {
	month := r.URL.Query().Get("month")
	if month == "" {
		from, to := domain.MonthWindow(time.Now())
		return from, to, nil
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid month, expected YYYY-MM")
	}
	from, to := domain.MonthWindow(t)
	return from, to, nil
}

func chargeStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrChargeAmountInvalid),
		errors.Is(err, service.ErrPaymentAmountInvalid):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTenantUnknown):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (h *ChargeHandler) CreateRentCharge(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tenantID, date, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	charge := &domain.RentCharge{
		UserID:      user.ID,
		TenantID:    tenantID,
		Amount:      req.Amount,
		ChargeMonth: date,
	}
	if err := h.svc.RecordRentCharge(r.Context(), charge); err != nil {
		writeError(w, chargeStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, charge)
}

func (h *ChargeHandler) ListRentCharges(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := monthRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	charges, err := h.svc.ListRentCharges(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if charges == nil {
		charges = []domain.RentCharge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"charges": charges, "count": len(charges)})
}

func (h *ChargeHandler) CreateUtilityCharge(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tenantID, date, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	charge := &domain.UtilityCharge{
		UserID:     user.ID,
		TenantID:   tenantID,
		Amount:     req.Amount,
		ChargeDate: date,
		Utility:    req.Utility,
	}
	if err := h.svc.RecordUtilityCharge(r.Context(), charge); err != nil {
		writeError(w, chargeStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, charge)
}

func (h *ChargeHandler) ListUtilityCharges(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := monthRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	charges, err := h.svc.ListUtilityCharges(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if charges == nil {
		charges = []domain.UtilityCharge{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"charges": charges, "count": len(charges)})
}

func (h *ChargeHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req chargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tenantID, date, err := req.parse()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment := &domain.Payment{
		UserID:      user.ID,
		TenantID:    tenantID,
		Amount:      req.Amount,
		PaymentDate: date,
		Method:      req.Method,
	}
	if err := h.svc.RecordPayment(r.Context(), payment); err != nil {
		writeError(w, chargeStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

func (h *ChargeHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	from, to, err := monthRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, err := h.svc.ListPayments(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"payments": payments, "count": len(payments)})
}
