package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentledger/rentledger/internal/domain"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO users_profile (id, email, country, city, tier, currency_code, currency_symbol)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
		 RETURNING created_at, updated_at`,
		u.ID, u.Email, u.Country, u.City, u.Tier, u.CurrencyCode, u.CurrencySymbol,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u := &domain.User{}
	var city *string
	err := s.db.QueryRow(ctx,
		`SELECT id, email, country, city, tier, currency_code, currency_symbol, created_at, updated_at
		 FROM users_profile WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.Country, &city, &u.Tier, &u.CurrencyCode, &u.CurrencySymbol, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if city != nil {
		u.City = *city
	}
	return u, nil
}

func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users_profile WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *UserStore) CreateLegalAcceptance(ctx context.Context, la *domain.LegalAcceptance) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO legal_acceptance (user_id, terms_accepted, privacy_accepted, accepted_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET terms_accepted = EXCLUDED.terms_accepted,
		     privacy_accepted = EXCLUDED.privacy_accepted,
		     accepted_at = EXCLUDED.accepted_at`,
		la.UserID, la.TermsAccepted, la.PrivacyAccepted, la.AcceptedAt,
	)
	return err
}

func (s *UserStore) GetLegalAcceptance(ctx context.Context, userID uuid.UUID) (*domain.LegalAcceptance, error) {
	la := &domain.LegalAcceptance{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, terms_accepted, privacy_accepted, accepted_at
		 FROM legal_acceptance WHERE user_id = $1`,
		userID,
	).Scan(&la.UserID, &la.TermsAccepted, &la.PrivacyAccepted, &la.AcceptedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return la, nil
}
