package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is the auth identity. The password hash never leaves the server.
type Account struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// User is the profile row created alongside an account at signup.
// Identity fields are immutable after signup; profile fields belong to the owner.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Country        string    `json:"country"`
	City           string    `json:"city,omitempty"`
	Tier           string    `json:"tier"`
	CurrencyCode   string    `json:"currency_code"`
	CurrencySymbol string    `json:"currency_symbol"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type LegalAcceptance struct {
	UserID          uuid.UUID `json:"user_id"`
	TermsAccepted   bool      `json:"terms_accepted"`
	PrivacyAccepted bool      `json:"privacy_accepted"`
	AcceptedAt      time.Time `json:"accepted_at"`
}

// NewProfile derives the signup defaults from the chosen country.
// PH accounts get PHP and the Cebu office city, everyone else USD.
func NewProfile(accountID uuid.UUID, email, country string) *User {
	u := &User{
		ID:             accountID,
		Email:          email,
		Country:        country,
		Tier:           "bronze",
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
	}
	if country == "PH" {
		u.City = "Cebu"
		u.CurrencyCode = "PHP"
		u.CurrencySymbol = "₱"
	}
	return u
}
