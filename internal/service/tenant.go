package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrTenantNotFound      = errors.New("tenant not found")
	ErrTenantNameRequired  = errors.New("tenant_name is required")
	ErrRentNegative        = errors.New("monthly_rent must not be negative")
	ErrDueDayOutOfRange    = errors.New("rent_due_day must be between 1 and 31")
	ErrStatusInvalid       = errors.New("status is not a known tenant status")
	ErrUtilityUnknown      = errors.New("utilities contains an unknown utility")
	ErrTenantFilterInvalid = errors.New("filter is not a known tenant status")
)

// TenantFilter selects a listing scope: the zero value lists everything.
type TenantFilter struct {
	Status *domain.TenantStatus
}

// ParseTenantFilter maps the query-string filter ("all" or a status) to a
// listing scope.
func ParseTenantFilter(s string) (TenantFilter, error) {
	if s == "" || s == "all" {
		return TenantFilter{}, nil
	}
	status := domain.TenantStatus(s)
	if !status.Valid() {
		return TenantFilter{}, ErrTenantFilterInvalid
	}
	return TenantFilter{Status: &status}, nil
}

// TenantInput carries the add/edit form fields.
type TenantInput struct {
	Name         string
	Status       domain.TenantStatus
	MonthlyRent  decimal.Decimal
	RentDueDay   int
	Utilities    domain.Utilities
	MovedOutDate *time.Time
	LastSeenDate *time.Time
}

// TenantService is the directory over the owner's tenant collection:
// list-with-filter, create, update, delete.
type TenantService struct {
	store  domain.TenantStore
	logger *zap.Logger
}

func NewTenantService(ts domain.TenantStore, logger *zap.Logger) *TenantService {
	return &TenantService{store: ts, logger: logger}
}

func (s *TenantService) List(ctx context.Context, userID uuid.UUID, filter TenantFilter) ([]domain.Tenant, error) {
	return s.store.List(ctx, userID, filter.Status)
}

func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Tenant, error) {
	t, err := s.store.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

// validate rejects bad input locally, before any store call.
func validateTenantInput(in *TenantInput) error {
	if in.Name == "" {
		return ErrTenantNameRequired
	}
	if in.MonthlyRent.IsNegative() {
		return ErrRentNegative
	}
	if in.RentDueDay < 1 || in.RentDueDay > 31 {
		return ErrDueDayOutOfRange
	}
	if in.Status != "" && !in.Status.Valid() {
		return ErrStatusInvalid
	}
	if !in.Utilities.Known() {
		return ErrUtilityUnknown
	}
	return nil
}

// Create adds an Active tenant. The caller re-queries the listing afterwards
// rather than inserting optimistically.
func (s *TenantService) Create(ctx context.Context, userID uuid.UUID, in TenantInput) (*domain.Tenant, error) {
	if err := validateTenantInput(&in); err != nil {
		return nil, err
	}

	t := &domain.Tenant{
		UserID:      userID,
		Name:        in.Name,
		Status:      domain.StatusActive,
		MonthlyRent: in.MonthlyRent,
		RentDueDay:  in.RentDueDay,
		Utilities:   in.Utilities,
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("user_id", userID.String()))
	return t, nil
}

// Update applies the edit form. Switching status clears the inapplicable date
// field and defaults the applicable one to today when absent. Concurrent edits
// are not reconciled; last write wins.
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, in TenantInput) (*domain.Tenant, error) {
	if err := validateTenantInput(&in); err != nil {
		return nil, err
	}

	t, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	t.Name = in.Name
	if in.Status != "" {
		t.Status = in.Status
	}
	t.MonthlyRent = in.MonthlyRent
	t.RentDueDay = in.RentDueDay
	t.Utilities = in.Utilities
	if in.MovedOutDate != nil {
		t.MovedOutDate = in.MovedOutDate
	}
	if in.LastSeenDate != nil {
		t.LastSeenDate = in.LastSeenDate
	}
	t.ApplyStatusDates(time.Now())

	if err := s.store.Update(ctx, t); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

// Delete is irreversible; dependent charge, payment and ledger rows cascade at
// the storage layer. Confirmation is the caller's concern.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTenantNotFound
		}
		return err
	}
	s.logger.Info("tenant deleted",
		zap.String("tenant_id", id.String()),
		zap.String("user_id", userID.String()))
	return nil
}
