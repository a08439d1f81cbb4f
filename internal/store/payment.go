package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/domain"
)

type PaymentStore struct {
	db *pgxpool.Pool
}

func NewPaymentStore(db *pgxpool.Pool) *PaymentStore {
	return &PaymentStore{db: db}
}

func (s *PaymentStore) Create(ctx context.Context, p *domain.Payment) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO payments (user_id, tenant_id, amount, payment_date, method)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 RETURNING id, created_at`,
		p.UserID, p.TenantID, p.Amount.StringFixed(2), p.PaymentDate, p.Method,
	).Scan(&p.ID, &p.CreatedAt)
}

func (s *PaymentStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM payments WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PaymentStore) ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]domain.Payment, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, tenant_id, amount::text, payment_date, COALESCE(method, ''), created_at
		 FROM payments
		 WHERE user_id = $1 AND payment_date >= $2 AND payment_date <= $3
		 ORDER BY payment_date`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var amount string
		if err := rows.Scan(&p.ID, &p.UserID, &p.TenantID, &amount, &p.PaymentDate, &p.Method, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Amount = domain.AmountOrZero(amount)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
