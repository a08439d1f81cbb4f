package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SummaryService composes the dashboard's financial summary from independent
// time-windowed queries.
type SummaryService struct {
	tenants  domain.TenantStore
	rents    domain.RentChargeStore
	utils    domain.UtilityChargeStore
	payments domain.PaymentStore
	ledger   domain.LedgerStore
	logger   *zap.Logger

	now func() time.Time
}

func NewSummaryService(ts domain.TenantStore, rs domain.RentChargeStore, us domain.UtilityChargeStore, ps domain.PaymentStore, ls domain.LedgerStore, logger *zap.Logger) *SummaryService {
	return &SummaryService{
		tenants:  ts,
		rents:    rs,
		utils:    us,
		payments: ps,
		ledger:   ls,
		logger:   logger,
		now:      time.Now,
	}
}

// Summarize fans out the five underlying queries concurrently and joins them
// into a single summary. The period is the first through last calendar day of
// the current month, inclusive. All-or-nothing: if any query fails no summary
// is produced and the other results are discarded.
func (s *SummaryService) Summarize(ctx context.Context, userID uuid.UUID) (*domain.FinancialSummary, error) {
	now := s.now()
	from, to := domain.MonthWindow(now)

	var (
		active      []domain.Tenant
		rentCharges []domain.RentCharge
		utilCharges []domain.UtilityCharge
		payments    []domain.Payment
		entries     []domain.EntryWithTenant
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		active, err = s.tenants.ListActive(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		rentCharges, err = s.rents.ListByMonth(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		utilCharges, err = s.utils.ListByDateRange(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		payments, err = s.payments.ListByDateRange(gctx, userID, from, to)
		return err
	})
	g.Go(func() (err error) {
		entries, err = s.ledger.ListByOwner(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("summary query failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	summary := composeSummary(active, rentCharges, utilCharges, payments, entries)
	summary.ComputedAt = now
	return summary, nil
}

// composeSummary is the pure join over the five result sets. No ordering
// dependency exists between them.
func composeSummary(active []domain.Tenant, rentCharges []domain.RentCharge, utilCharges []domain.UtilityCharge, payments []domain.Payment, entries []domain.EntryWithTenant) *domain.FinancialSummary {
	sum := &domain.FinancialSummary{
		TotalMonthlyRent: decimal.Zero,
		RentChargesTotal: decimal.Zero,
		UtilitiesTotal:   decimal.Zero,
		PaymentsTotal:    decimal.Zero,
	}

	for _, t := range active {
		sum.TotalMonthlyRent = sum.TotalMonthlyRent.Add(t.MonthlyRent)
	}
	sum.ActiveTenantCount = len(active)

	for _, c := range rentCharges {
		sum.RentChargesTotal = sum.RentChargesTotal.Add(c.Amount)
	}
	for _, c := range utilCharges {
		sum.UtilitiesTotal = sum.UtilitiesTotal.Add(c.Amount)
	}
	for _, p := range payments {
		sum.PaymentsTotal = sum.PaymentsTotal.Add(p.Amount)
	}

	sum.OutstandingBalance = Aggregate(entries).OutstandingTotal
	return sum
}
