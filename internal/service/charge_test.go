package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type chargeFixture struct {
	svc      *ChargeService
	tenants  *mockTenantStore
	rents    *mockRentChargeStore
	utils    *mockUtilityChargeStore
	payments *mockPaymentStore
	ledger   *mockLedgerStore

	userID   uuid.UUID
	tenantID uuid.UUID
}

func newChargeFixture(t *testing.T) *chargeFixture {
	t.Helper()
	f := &chargeFixture{
		tenants:  newMockTenantStore(),
		rents:    &mockRentChargeStore{},
		utils:    &mockUtilityChargeStore{},
		payments: &mockPaymentStore{},
		ledger:   newMockLedgerStore(),
		userID:   uuid.New(),
	}
	f.svc = NewChargeService(f.rents, f.utils, f.payments, f.ledger, f.tenants, zap.NewNop())

	tn := &domain.Tenant{UserID: f.userID, Name: "Maria", Status: domain.StatusActive}
	if err := f.tenants.Create(context.Background(), tn); err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	f.tenantID = tn.ID
	return f
}

func TestChargeService_RecordRentCharge(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the charge and its negative ledger entry", func(t *testing.T) {
		f := newChargeFixture(t)
		c := &domain.RentCharge{
			UserID:      f.userID,
			TenantID:    f.tenantID,
			Amount:      decimal.RequireFromString("8500"),
			ChargeMonth: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		}
		if err := f.svc.RecordRentCharge(ctx, c); err != nil {
			t.Fatalf("RecordRentCharge: %v", err)
		}

		if len(f.rents.charges) != 1 {
			t.Fatalf("rent charges = %d, want 1", len(f.rents.charges))
		}
		if len(f.ledger.entries) != 1 {
			t.Fatalf("ledger entries = %d, want 1", len(f.ledger.entries))
		}
		e := f.ledger.entries[0]
		if e.Amount.String() != "-8500" {
			t.Errorf("ledger amount = %s, want -8500", e.Amount)
		}
		if e.EntryType != domain.EntryCharge || e.Category != "Rent" {
			t.Errorf("entry = %s/%s, want charge/Rent", e.EntryType, e.Category)
		}
	})

	t.Run("missing month defaults to the current one", func(t *testing.T) {
		f := newChargeFixture(t)
		c := &domain.RentCharge{
			UserID:   f.userID,
			TenantID: f.tenantID,
			Amount:   decimal.RequireFromString("8500"),
		}
		if err := f.svc.RecordRentCharge(ctx, c); err != nil {
			t.Fatalf("RecordRentCharge: %v", err)
		}
		first, _ := domain.MonthWindow(time.Now())
		if !c.ChargeMonth.Equal(first) {
			t.Errorf("charge month = %v, want %v", c.ChargeMonth, first)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		f := newChargeFixture(t)
		for _, amount := range []string{"0", "-100"} {
			c := &domain.RentCharge{
				UserID:   f.userID,
				TenantID: f.tenantID,
				Amount:   decimal.RequireFromString(amount),
			}
			if err := f.svc.RecordRentCharge(ctx, c); err != ErrChargeAmountInvalid {
				t.Errorf("amount %s: err = %v, want ErrChargeAmountInvalid", amount, err)
			}
		}
		if len(f.rents.charges) != 0 {
			t.Error("no charge row should be written")
		}
	})

	t.Run("unknown tenant rejected", func(t *testing.T) {
		f := newChargeFixture(t)
		c := &domain.RentCharge{
			UserID:   f.userID,
			TenantID: uuid.New(),
			Amount:   decimal.RequireFromString("8500"),
		}
		if err := f.svc.RecordRentCharge(ctx, c); err != ErrTenantUnknown {
			t.Errorf("err = %v, want ErrTenantUnknown", err)
		}
	})

	t.Run("ledger failure removes the charge row again", func(t *testing.T) {
		f := newChargeFixture(t)
		f.ledger.createErr = errors.New("ledger down")

		c := &domain.RentCharge{
			UserID:   f.userID,
			TenantID: f.tenantID,
			Amount:   decimal.RequireFromString("8500"),
		}
		if err := f.svc.RecordRentCharge(ctx, c); err == nil {
			t.Fatal("expected the ledger failure to surface")
		}
		if len(f.rents.charges) != 0 {
			t.Error("charge row should be compensated away")
		}
	})
}

func TestChargeService_RecordUtilityCharge(t *testing.T) {
	ctx := context.Background()

	t.Run("ledger entry is categorized by utility", func(t *testing.T) {
		f := newChargeFixture(t)
		c := &domain.UtilityCharge{
			UserID:     f.userID,
			TenantID:   f.tenantID,
			Amount:     decimal.RequireFromString("950"),
			Utility:    "Electric",
			ChargeDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		}
		if err := f.svc.RecordUtilityCharge(ctx, c); err != nil {
			t.Fatalf("RecordUtilityCharge: %v", err)
		}

		e := f.ledger.entries[0]
		if e.Category != "Electric" {
			t.Errorf("category = %q, want Electric", e.Category)
		}
		if e.Amount.String() != "-950" {
			t.Errorf("amount = %s, want -950", e.Amount)
		}
	})

	t.Run("missing utility falls back to the generic category", func(t *testing.T) {
		f := newChargeFixture(t)
		c := &domain.UtilityCharge{
			UserID:   f.userID,
			TenantID: f.tenantID,
			Amount:   decimal.RequireFromString("500"),
		}
		if err := f.svc.RecordUtilityCharge(ctx, c); err != nil {
			t.Fatalf("RecordUtilityCharge: %v", err)
		}
		if got := f.ledger.entries[0].Category; got != "Utilities" {
			t.Errorf("category = %q, want Utilities", got)
		}
	})

	t.Run("ledger failure removes the charge row again", func(t *testing.T) {
		f := newChargeFixture(t)
		f.ledger.createErr = errors.New("ledger down")

		c := &domain.UtilityCharge{
			UserID:   f.userID,
			TenantID: f.tenantID,
			Amount:   decimal.RequireFromString("950"),
			Utility:  "Water",
		}
		if err := f.svc.RecordUtilityCharge(ctx, c); err == nil {
			t.Fatal("expected the ledger failure to surface")
		}
		if len(f.utils.charges) != 0 {
			t.Error("charge row should be compensated away")
		}
	})
}

func TestChargeService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the payment and its positive ledger entry", func(t *testing.T) {
		f := newChargeFixture(t)
		p := &domain.Payment{
			UserID:      f.userID,
			TenantID:    f.tenantID,
			Amount:      decimal.RequireFromString("5000"),
			Method:      "GCash",
			PaymentDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		}
		if err := f.svc.RecordPayment(ctx, p); err != nil {
			t.Fatalf("RecordPayment: %v", err)
		}

		if len(f.payments.payments) != 1 {
			t.Fatalf("payments = %d, want 1", len(f.payments.payments))
		}
		e := f.ledger.entries[0]
		if e.Amount.String() != "5000" {
			t.Errorf("amount = %s, want 5000", e.Amount)
		}
		if e.EntryType != domain.EntryPayment || e.Category != "Payment" {
			t.Errorf("entry = %s/%s, want payment/Payment", e.EntryType, e.Category)
		}
		if e.Notes != "GCash" {
			t.Errorf("notes = %q, want the payment method", e.Notes)
		}
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		f := newChargeFixture(t)
		p := &domain.Payment{
			UserID:   f.userID,
			TenantID: f.tenantID,
			Amount:   decimal.Zero,
		}
		if err := f.svc.RecordPayment(ctx, p); err != ErrPaymentAmountInvalid {
			t.Errorf("err = %v, want ErrPaymentAmountInvalid", err)
		}
	})

	t.Run("ledger failure removes the payment row again", func(t *testing.T) {
		f := newChargeFixture(t)
		f.ledger.createErr = errors.New("ledger down")

		p := &domain.Payment{
			UserID:   f.userID,
			TenantID: f.tenantID,
			Amount:   decimal.RequireFromString("5000"),
		}
		if err := f.svc.RecordPayment(ctx, p); err == nil {
			t.Fatal("expected the ledger failure to surface")
		}
		if len(f.payments.payments) != 0 {
			t.Error("payment row should be compensated away")
		}
	})
}
