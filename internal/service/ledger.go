package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrEntryTenantRequired = errors.New("tenant_id is required")
	ErrEntryAmountRequired = errors.New("amount is required")
	ErrEntryTypeInvalid    = errors.New("entry_type must be charge or payment")
	ErrTenantUnknown       = errors.New("tenant not found")
)

// Aggregation is the reduced view of a ledger: per-tenant net balances, the
// overdue subset (most negative first), and the signed global total.
type Aggregation struct {
	PerTenant        map[uuid.UUID]domain.TenantBalance `json:"per_tenant"`
	Overdue          []domain.TenantBalance             `json:"overdue"`
	OutstandingTotal decimal.Decimal                    `json:"outstanding_total"`
}

// Aggregate reduces a flat entry list into per-tenant balances. Pure: same
// input always yields the same output, and the empty list yields the empty
// "all good" state. Overdue ties keep the tenants' first-seen input order.
func Aggregate(entries []domain.EntryWithTenant) Aggregation {
	agg := Aggregation{
		PerTenant:        make(map[uuid.UUID]domain.TenantBalance, len(entries)),
		Overdue:          []domain.TenantBalance{},
		OutstandingTotal: decimal.Zero,
	}

	var order []uuid.UUID
	for _, e := range entries {
		b, ok := agg.PerTenant[e.TenantID]
		if !ok {
			b = domain.TenantBalance{TenantID: e.TenantID, Name: e.TenantName}
			order = append(order, e.TenantID)
		}
		b.Balance = b.Balance.Add(e.Amount)
		agg.PerTenant[e.TenantID] = b
		agg.OutstandingTotal = agg.OutstandingTotal.Add(e.Amount)
	}

	for _, id := range order {
		if b := agg.PerTenant[id]; b.Balance.IsNegative() {
			agg.Overdue = append(agg.Overdue, b)
		}
	}
	sort.SliceStable(agg.Overdue, func(i, j int) bool {
		return agg.Overdue[i].Balance.LessThan(agg.Overdue[j].Balance)
	})

	return agg
}

// LedgerService owns the append-only ledger and its derived views.
type LedgerService struct {
	ledgerStore domain.LedgerStore
	tenantStore domain.TenantStore
	logger      *zap.Logger
}

func NewLedgerService(ls domain.LedgerStore, ts domain.TenantStore, logger *zap.Logger) *LedgerService {
	return &LedgerService{ledgerStore: ls, tenantStore: ts, logger: logger}
}

func (s *LedgerService) Record(ctx context.Context, e *domain.LedgerEntry) error {
	if e.TenantID == uuid.Nil {
		return ErrEntryTenantRequired
	}
	if e.Amount.IsZero() {
		return ErrEntryAmountRequired
	}
	if e.EntryType != domain.EntryCharge && e.EntryType != domain.EntryPayment {
		return ErrEntryTypeInvalid
	}
	if e.EntryDate.IsZero() {
		e.EntryDate = time.Now()
	}

	if _, err := s.tenantStore.GetByID(ctx, e.TenantID, e.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTenantUnknown
		}
		return err
	}
	return s.ledgerStore.Create(ctx, e)
}

// Attention returns the owner's overdue tenants, most negative balance first.
func (s *LedgerService) Attention(ctx context.Context, userID uuid.UUID) ([]domain.TenantBalance, error) {
	entries, err := s.ledgerStore.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Aggregate(entries).Overdue, nil
}

// RecentActivity returns the newest ledger entries for the activity feed.
func (s *LedgerService) RecentActivity(ctx context.Context, userID uuid.UUID, limit int) ([]domain.EntryWithTenant, error) {
	return s.ledgerStore.ListRecent(ctx, userID, limit)
}
