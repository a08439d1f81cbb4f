package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/domain"
)

type LedgerStore struct {
	db *pgxpool.Pool
}

func NewLedgerStore(db *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Create(ctx context.Context, e *domain.LedgerEntry) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO ledger_entries (user_id, tenant_id, amount, entry_date, entry_type, category, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.UserID, e.TenantID, e.Amount.StringFixed(2), e.EntryDate, e.EntryType, e.Category, e.Notes,
	).Scan(&e.ID, &e.CreatedAt)
}

func (s *LedgerStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM ledger_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const entryColumns = `e.id, e.user_id, e.tenant_id, e.amount::text, e.entry_date,
	        e.entry_type, e.category, COALESCE(e.notes, ''), e.created_at, t.tenant_name`

func scanEntry(rows pgx.Rows) (domain.EntryWithTenant, error) {
	var e domain.EntryWithTenant
	var amount string
	err := rows.Scan(&e.ID, &e.UserID, &e.TenantID, &amount, &e.EntryDate,
		&e.EntryType, &e.Category, &e.Notes, &e.CreatedAt, &e.TenantName)
	if err != nil {
		return e, err
	}
	e.Amount = domain.AmountOrZero(amount)
	return e, nil
}

// ListByOwner returns the owner's full unwindowed ledger in insertion order,
// which keeps aggregation tie-breaking stable.
func (s *LedgerStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]domain.EntryWithTenant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM ledger_entries e
		 INNER JOIN tenants t ON t.id = e.tenant_id
		 WHERE e.user_id = $1
		 ORDER BY e.created_at, e.id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.EntryWithTenant
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *LedgerStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.EntryWithTenant, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+entryColumns+`
		 FROM ledger_entries e
		 INNER JOIN tenants t ON t.id = e.tenant_id
		 WHERE e.user_id = $1
		 ORDER BY e.entry_date DESC, e.created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.EntryWithTenant
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
