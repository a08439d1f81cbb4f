package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryCharge  EntryType = "charge"
	EntryPayment EntryType = "payment"
)

// LedgerEntry is a signed monetary record against a tenant. Negative means
// money owed by the tenant, positive a credit. Append-only.
type LedgerEntry struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	TenantID  uuid.UUID       `json:"tenant_id"`
	Amount    decimal.Decimal `json:"amount"`
	EntryDate time.Time       `json:"entry_date"`
	EntryType EntryType       `json:"entry_type"`
	Category  string          `json:"category"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryWithTenant joins a ledger entry with its tenant's display name.
type EntryWithTenant struct {
	LedgerEntry
	TenantName string `json:"tenant_name"`
}

type RentCharge struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Amount      decimal.Decimal `json:"amount"`
	ChargeMonth time.Time       `json:"charge_month"`
	CreatedAt   time.Time       `json:"created_at"`
}

type UtilityCharge struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	Amount     decimal.Decimal `json:"amount"`
	ChargeDate time.Time       `json:"charge_date"`
	Utility    string          `json:"utility"`
	CreatedAt  time.Time       `json:"created_at"`
}

type Payment struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"payment_date"`
	Method      string          `json:"method,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TenantBalance is a tenant's net position over its ledger entries.
type TenantBalance struct {
	TenantID uuid.UUID       `json:"tenant_id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
}

// FinancialSummary is the dashboard's composed month view.
type FinancialSummary struct {
	TotalMonthlyRent   decimal.Decimal `json:"total_monthly_rent"`
	RentChargesTotal   decimal.Decimal `json:"rent_charges_total"`
	UtilitiesTotal     decimal.Decimal `json:"utilities_total"`
	PaymentsTotal      decimal.Decimal `json:"payments_total"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	ActiveTenantCount  int             `json:"active_tenant_count"`
	ComputedAt         time.Time       `json:"computed_at"`
}

// AmountOrZero coerces numeric text to a decimal, treating malformed input
// as a zero contribution rather than a fatal error.
func AmountOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// MonthWindow returns the first and last calendar day of t's month,
// both inclusive.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1)
	return first, last
}
