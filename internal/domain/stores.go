package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AccountStore interface {
	Create(ctx context.Context, a *Account) error
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserStore interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateLegalAcceptance(ctx context.Context, la *LegalAcceptance) error
	GetLegalAcceptance(ctx context.Context, userID uuid.UUID) (*LegalAcceptance, error)
}

type TenantStore interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Tenant, error)
	List(ctx context.Context, userID uuid.UUID, status *TenantStatus) ([]Tenant, error)
	ListActive(ctx context.Context, userID uuid.UUID) ([]Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
}

type LedgerStore interface {
	Create(ctx context.Context, e *LedgerEntry) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]EntryWithTenant, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]EntryWithTenant, error)
}

type RentChargeStore interface {
	Create(ctx context.Context, c *RentCharge) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	ListByMonth(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]RentCharge, error)
}

type UtilityChargeStore interface {
	Create(ctx context.Context, c *UtilityCharge) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]UtilityCharge, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	ListByDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]Payment, error)
}
