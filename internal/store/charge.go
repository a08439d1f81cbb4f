package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/domain"
)

type RentChargeStore struct {
	db *pgxpool.Pool
}

func NewRentChargeStore(db *pgxpool.Pool) *RentChargeStore {
	return &RentChargeStore{db: db}
}

func (s *RentChargeStore) Create(ctx context.Context, c *domain.RentCharge) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO rent_charges (user_id, tenant_id, amount, charge_month)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.UserID, c.TenantID, c.Amount.StringFixed(2), c.ChargeMonth,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *RentChargeStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM rent_charges WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RentChargeStore) ListByMonth(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.RentCharge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, tenant_id, amount::text, charge_month, created_at
		 FROM rent_charges
		 WHERE user_id = $1 AND charge_month >= $2 AND charge_month <= $3
		 ORDER BY charge_month`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []domain.RentCharge
	for rows.Next() {
		var c domain.RentCharge
		var amount string
		if err := rows.Scan(&c.ID, &c.UserID, &c.TenantID, &amount, &c.ChargeMonth, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Amount = domain.AmountOrZero(amount)
		charges = append(charges, c)
	}
	return charges, rows.Err()
}

type UtilityChargeStore struct {
	db *pgxpool.Pool
}

func NewUtilityChargeStore(db *pgxpool.Pool) *UtilityChargeStore {
	return &UtilityChargeStore{db: db}
}

func (s *UtilityChargeStore) Create(ctx context.Context, c *domain.UtilityCharge) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO utility_charges (user_id, tenant_id, amount, charge_date, utility)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.UserID, c.TenantID, c.Amount.StringFixed(2), c.ChargeDate, c.Utility,
	).Scan(&c.ID, &c.CreatedAt)
}

func (s *UtilityChargeStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM utility_charges WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UtilityChargeStore) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.UtilityCharge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, tenant_id, amount::text, charge_date, COALESCE(utility, ''), created_at
		 FROM utility_charges
		 WHERE user_id = $1 AND charge_date >= $2 AND charge_date <= $3
		 ORDER BY charge_date`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []domain.UtilityCharge
	for rows.Next() {
		var c domain.UtilityCharge
		var amount string
		if err := rows.Scan(&c.ID, &c.UserID, &c.TenantID, &amount, &c.ChargeDate, &c.Utility, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Amount = domain.AmountOrZero(amount)
		charges = append(charges, c)
	}
	return charges, rows.Err()
}
