package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/store"
	"go.uber.org/zap"
)

var (
	ErrChargeAmountInvalid  = errors.New("amount must be greater than zero")
	ErrPaymentAmountInvalid = errors.New("amount must be greater than zero")
)

// ChargeService records rent charges, utility charges and payments, each
// paired with its ledger entry. The pair is two sequential inserts: if the
// ledger append fails the charge row is removed again (named compensation),
// so the ledger and the charge tables cannot drift apart silently.
type ChargeService struct {
	rents    domain.RentChargeStore
	utils    domain.UtilityChargeStore
	payments domain.PaymentStore
	ledger   domain.LedgerStore
	tenants  domain.TenantStore
	logger   *zap.Logger
}

func NewChargeService(rs domain.RentChargeStore, us domain.UtilityChargeStore, ps domain.PaymentStore, ls domain.LedgerStore, ts domain.TenantStore, logger *zap.Logger) *ChargeService {
	return &ChargeService{rents: rs, utils: us, payments: ps, ledger: ls, tenants: ts, logger: logger}
}

func (s *ChargeService) tenantExists(ctx context.Context, tenantID, userID uuid.UUID) error {
	if _, err := s.tenants.GetByID(ctx, tenantID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTenantUnknown
		}
		return err
	}
	return nil
}

// RecordRentCharge inserts the charge row, then the matching negative ledger
// entry.
func (s *ChargeService) RecordRentCharge(ctx context.Context, c *domain.RentCharge) error {
	if !c.Amount.IsPositive() {
		return ErrChargeAmountInvalid
	}
	if err := s.tenantExists(ctx, c.TenantID, c.UserID); err != nil {
		return err
	}
	if c.ChargeMonth.IsZero() {
		first, _ := domain.MonthWindow(time.Now())
		c.ChargeMonth = first
	}

	if err := s.rents.Create(ctx, c); err != nil {
		return err
	}

	entry := &domain.LedgerEntry{
		UserID:    c.UserID,
		TenantID:  c.TenantID,
		Amount:    c.Amount.Neg(),
		EntryDate: c.ChargeMonth,
		EntryType: domain.EntryCharge,
		Category:  "Rent",
	}
	if err := s.ledger.Create(ctx, entry); err != nil {
		if derr := s.rents.Delete(ctx, c.ID, c.UserID); derr != nil {
			s.logger.Error("rent charge compensation failed: charge row left behind",
				zap.String("charge_id", c.ID.String()), zap.Error(derr))
		}
		return err
	}
	return nil
}

// RecordUtilityCharge inserts the charge row, then the matching negative
// ledger entry categorized by utility.
func (s *ChargeService) RecordUtilityCharge(ctx context.Context, c *domain.UtilityCharge) error {
	if !c.Amount.IsPositive() {
		return ErrChargeAmountInvalid
	}
	if err := s.tenantExists(ctx, c.TenantID, c.UserID); err != nil {
		return err
	}
	if c.ChargeDate.IsZero() {
		c.ChargeDate = time.Now()
	}

	if err := s.utils.Create(ctx, c); err != nil {
		return err
	}

	category := c.Utility
	if category == "" {
		category = "Utilities"
	}
	entry := &domain.LedgerEntry{
		UserID:    c.UserID,
		TenantID:  c.TenantID,
		Amount:    c.Amount.Neg(),
		EntryDate: c.ChargeDate,
		EntryType: domain.EntryCharge,
		Category:  category,
	}
	if err := s.ledger.Create(ctx, entry); err != nil {
		if derr := s.utils.Delete(ctx, c.ID, c.UserID); derr != nil {
			s.logger.Error("utility charge compensation failed: charge row left behind",
				zap.String("charge_id", c.ID.String()), zap.Error(derr))
		}
		return err
	}
	return nil
}

// RecordPayment inserts the payment row, then the matching positive ledger
// entry.
func (s *ChargeService) RecordPayment(ctx context.Context, p *domain.Payment) error {
	if !p.Amount.IsPositive() {
		return ErrPaymentAmountInvalid
	}
	if err := s.tenantExists(ctx, p.TenantID, p.UserID); err != nil {
		return err
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}

	if err := s.payments.Create(ctx, p); err != nil {
		return err
	}

	entry := &domain.LedgerEntry{
		UserID:    p.UserID,
		TenantID:  p.TenantID,
		Amount:    p.Amount,
		EntryDate: p.PaymentDate,
		EntryType: domain.EntryPayment,
		Category:  "Payment",
		Notes:     p.Method,
	}
	if err := s.ledger.Create(ctx, entry); err != nil {
		if derr := s.payments.Delete(ctx, p.ID, p.UserID); derr != nil {
			s.logger.Error("payment compensation failed: payment row left behind",
				zap.String("payment_id", p.ID.String()), zap.Error(derr))
		}
		return err
	}
	return nil
}

func (s *ChargeService) ListRentCharges(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.RentCharge, error) {
	return s.rents.ListByMonth(ctx, userID, from, to)
}

func (s *ChargeService) ListUtilityCharges(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.UtilityCharge, error) {
	return s.utils.ListByDateRange(ctx, userID, from, to)
}

func (s *ChargeService) ListPayments(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Payment, error) {
	return s.payments.ListByDateRange(ctx, userID, from, to)
}
