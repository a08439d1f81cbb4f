package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TenantStatus string

const (
	StatusActive            TenantStatus = "Active"
	StatusMovedOut          TenantStatus = "Moved Out"
	StatusLeftWithoutNotice TenantStatus = "Left Without Notice"
)

func (s TenantStatus) Valid() bool {
	switch s {
	case StatusActive, StatusMovedOut, StatusLeftWithoutNotice:
		return true
	}
	return false
}

// KnownUtilities is the fixed set offered by the tenant form.
var KnownUtilities = []string{"Electric", "Water", "Wi-Fi"}

// Utilities is the canonical set type for a tenant's included utilities.
// Historical rows stored it either as an array or as a comma-joined string,
// so both shapes normalize to the same value at the boundary.
type Utilities []string

// NormalizeUtilities canonicalizes a raw utilities value: trims whitespace,
// drops empties, preserves first-seen order, removes duplicates.
func NormalizeUtilities(raw []string) Utilities {
	var out Utilities
	seen := make(map[string]bool, len(raw))
	for _, u := range raw {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// ParseUtilities accepts the comma-joined string shape.
func ParseUtilities(s string) Utilities {
	if s == "" {
		return nil
	}
	return NormalizeUtilities(strings.Split(s, ","))
}

func (u *Utilities) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*u = NormalizeUtilities(list)
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*u = ParseUtilities(joined)
	return nil
}

// Known reports whether every utility is in the fixed enum.
func (u Utilities) Known() bool {
	for _, v := range u {
		found := false
		for _, k := range KnownUtilities {
			if v == k {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (u Utilities) String() string {
	return strings.Join(u, ", ")
}

type Tenant struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Name         string          `json:"tenant_name"`
	Status       TenantStatus    `json:"status"`
	MonthlyRent  decimal.Decimal `json:"monthly_rent"`
	RentDueDay   int             `json:"rent_due_day"`
	Utilities    Utilities       `json:"utilities"`
	MovedOutDate *time.Time      `json:"moved_out_date,omitempty"`
	LastSeenDate *time.Time      `json:"last_seen_date,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ApplyStatusDates enforces the status/date invariant: the date matching the
// status is kept (defaulting to now when absent), the other is cleared.
func (t *Tenant) ApplyStatusDates(now time.Time) {
	switch t.Status {
	case StatusMovedOut:
		if t.MovedOutDate == nil {
			d := now
			t.MovedOutDate = &d
		}
		t.LastSeenDate = nil
	case StatusLeftWithoutNotice:
		if t.LastSeenDate == nil {
			d := now
			t.LastSeenDate = &d
		}
		t.MovedOutDate = nil
	default:
		t.MovedOutDate = nil
		t.LastSeenDate = nil
	}
}
