package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/domain"
)

type TenantStore struct {
	db *pgxpool.Pool
}

func NewTenantStore(db *pgxpool.Pool) *TenantStore {
	return &TenantStore{db: db}
}

func (s *TenantStore) Create(ctx context.Context, t *domain.Tenant) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO tenants (user_id, tenant_name, status, monthly_rent, rent_due_day, utilities, moved_out_date, last_seen_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		t.UserID, t.Name, t.Status, t.MonthlyRent.StringFixed(2), t.RentDueDay,
		[]string(t.Utilities), t.MovedOutDate, t.LastSeenDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

const tenantColumns = `id, user_id, tenant_name, status, monthly_rent::text, rent_due_day,
	        utilities, moved_out_date, last_seen_date, created_at, updated_at`

func scanTenant(row pgx.Row) (*domain.Tenant, error) {
	t := &domain.Tenant{}
	var rent string
	var utilities []string
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Status, &rent, &t.RentDueDay,
		&utilities, &t.MovedOutDate, &t.LastSeenDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.MonthlyRent = domain.AmountOrZero(rent)
	t.Utilities = domain.NormalizeUtilities(utilities)
	return t, nil
}

func (s *TenantStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Tenant, error) {
	t, err := scanTenant(s.db.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantStore) List(ctx context.Context, userID uuid.UUID, status *domain.TenantStatus) ([]domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE user_id = $1`
	args := []any{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY tenant_name`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []domain.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

func (s *TenantStore) ListActive(ctx context.Context, userID uuid.UUID) ([]domain.Tenant, error) {
	active := domain.StatusActive
	return s.List(ctx, userID, &active)
}

func (s *TenantStore) Update(ctx context.Context, t *domain.Tenant) error {
	err := s.db.QueryRow(ctx,
		`UPDATE tenants
		 SET tenant_name = $3, status = $4, monthly_rent = $5, rent_due_day = $6,
		     utilities = $7, moved_out_date = $8, last_seen_date = $9, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2
		 RETURNING updated_at`,
		t.ID, t.UserID, t.Name, t.Status, t.MonthlyRent.StringFixed(2), t.RentDueDay,
		[]string(t.Utilities), t.MovedOutDate, t.LastSeenDate,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the tenant row; charge, payment and ledger rows follow via
// the schema's ON DELETE CASCADE.
func (s *TenantStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
