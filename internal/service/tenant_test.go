package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func validInput() TenantInput {
	return TenantInput{
		Name:        "Maria Santos",
		MonthlyRent: decimal.RequireFromString("8500.00"),
		RentDueDay:  5,
		Utilities:   domain.NormalizeUtilities([]string{"Electric", "Water"}),
	}
}

func TestParseTenantFilter(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantStatus *domain.TenantStatus
		wantErr    error
	}{
		{"empty means all", "", nil, nil},
		{"all keyword", "all", nil, nil},
		{"active", "Active", ptrStatus(domain.StatusActive), nil},
		{"moved out", "Moved Out", ptrStatus(domain.StatusMovedOut), nil},
		{"left without notice", "Left Without Notice", ptrStatus(domain.StatusLeftWithoutNotice), nil},
		{"unknown", "Evicted", nil, ErrTenantFilterInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseTenantFilter(tt.in)
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if (f.Status == nil) != (tt.wantStatus == nil) {
				t.Fatalf("status = %v, want %v", f.Status, tt.wantStatus)
			}
			if f.Status != nil && *f.Status != *tt.wantStatus {
				t.Errorf("status = %v, want %v", *f.Status, *tt.wantStatus)
			}
		})
	}
}

func ptrStatus(s domain.TenantStatus) *domain.TenantStatus { return &s }

func TestTenantService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates an active tenant", func(t *testing.T) {
		ts := newMockTenantStore()
		svc := NewTenantService(ts, zap.NewNop())

		tn, err := svc.Create(ctx, userID, validInput())
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if tn.Status != domain.StatusActive {
			t.Errorf("status = %q, new tenants must start Active", tn.Status)
		}
		if tn.ID == uuid.Nil {
			t.Error("id should be assigned")
		}
	})

	t.Run("create always starts active regardless of input", func(t *testing.T) {
		ts := newMockTenantStore()
		svc := NewTenantService(ts, zap.NewNop())

		in := validInput()
		in.Status = domain.StatusMovedOut
		tn, err := svc.Create(ctx, userID, in)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if tn.Status != domain.StatusActive {
			t.Errorf("status = %q, want Active", tn.Status)
		}
	})

	t.Run("empty name rejected before the store is touched", func(t *testing.T) {
		ts := newMockTenantStore()
		svc := NewTenantService(ts, zap.NewNop())

		in := validInput()
		in.Name = ""
		if _, err := svc.Create(ctx, userID, in); err != ErrTenantNameRequired {
			t.Errorf("err = %v, want ErrTenantNameRequired", err)
		}
		if len(ts.tenants) != 0 {
			t.Error("store should not be called for invalid input")
		}
	})

	t.Run("negative rent rejected", func(t *testing.T) {
		svc := NewTenantService(newMockTenantStore(), zap.NewNop())
		in := validInput()
		in.MonthlyRent = decimal.RequireFromString("-1")
		if _, err := svc.Create(ctx, userID, in); err != ErrRentNegative {
			t.Errorf("err = %v, want ErrRentNegative", err)
		}
	})

	t.Run("due day out of range rejected", func(t *testing.T) {
		svc := NewTenantService(newMockTenantStore(), zap.NewNop())
		for _, day := range []int{0, 32, -1} {
			in := validInput()
			in.RentDueDay = day
			if _, err := svc.Create(ctx, userID, in); err != ErrDueDayOutOfRange {
				t.Errorf("day %d: err = %v, want ErrDueDayOutOfRange", day, err)
			}
		}
	})

	t.Run("unknown utility rejected", func(t *testing.T) {
		svc := NewTenantService(newMockTenantStore(), zap.NewNop())
		in := validInput()
		in.Utilities = domain.Utilities{"Gas"}
		if _, err := svc.Create(ctx, userID, in); err != ErrUtilityUnknown {
			t.Errorf("err = %v, want ErrUtilityUnknown", err)
		}
	})
}

func TestTenantService_Update(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	seed := func(ts *mockTenantStore) uuid.UUID {
		svc := NewTenantService(ts, zap.NewNop())
		tn, err := svc.Create(ctx, userID, validInput())
		if err != nil {
			t.Fatalf("seed tenant: %v", err)
		}
		return tn.ID
	}

	t.Run("moving out sets the date and clears the other", func(t *testing.T) {
		ts := newMockTenantStore()
		id := seed(ts)
		svc := NewTenantService(ts, zap.NewNop())

		in := validInput()
		in.Status = domain.StatusMovedOut
		tn, err := svc.Update(ctx, id, userID, in)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if tn.MovedOutDate == nil {
			t.Error("MovedOutDate should default to today")
		}
		if tn.LastSeenDate != nil {
			t.Error("LastSeenDate should be cleared")
		}
	})

	t.Run("left without notice keeps an explicit last seen date", func(t *testing.T) {
		ts := newMockTenantStore()
		id := seed(ts)
		svc := NewTenantService(ts, zap.NewNop())

		lastSeen := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
		in := validInput()
		in.Status = domain.StatusLeftWithoutNotice
		in.LastSeenDate = &lastSeen
		tn, err := svc.Update(ctx, id, userID, in)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if tn.LastSeenDate == nil || !tn.LastSeenDate.Equal(lastSeen) {
			t.Errorf("LastSeenDate = %v, want %v", tn.LastSeenDate, lastSeen)
		}
		if tn.MovedOutDate != nil {
			t.Error("MovedOutDate should be cleared")
		}
	})

	t.Run("returning to active clears both dates", func(t *testing.T) {
		ts := newMockTenantStore()
		id := seed(ts)
		svc := NewTenantService(ts, zap.NewNop())

		in := validInput()
		in.Status = domain.StatusMovedOut
		if _, err := svc.Update(ctx, id, userID, in); err != nil {
			t.Fatalf("Update: %v", err)
		}

		in.Status = domain.StatusActive
		tn, err := svc.Update(ctx, id, userID, in)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if tn.MovedOutDate != nil || tn.LastSeenDate != nil {
			t.Error("active tenant should carry no status dates")
		}
	})

	t.Run("unknown tenant", func(t *testing.T) {
		svc := NewTenantService(newMockTenantStore(), zap.NewNop())
		if _, err := svc.Update(ctx, uuid.New(), userID, validInput()); err != ErrTenantNotFound {
			t.Errorf("err = %v, want ErrTenantNotFound", err)
		}
	})

	t.Run("another owner cannot update", func(t *testing.T) {
		ts := newMockTenantStore()
		id := seed(ts)
		svc := NewTenantService(ts, zap.NewNop())

		if _, err := svc.Update(ctx, id, uuid.New(), validInput()); err != ErrTenantNotFound {
			t.Errorf("err = %v, want ErrTenantNotFound", err)
		}
	})
}

func TestTenantService_Delete(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	ts := newMockTenantStore()
	svc := NewTenantService(ts, zap.NewNop())

	tn, err := svc.Create(ctx, userID, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, tn.ID, uuid.New()); err != ErrTenantNotFound {
		t.Errorf("foreign owner delete: err = %v, want ErrTenantNotFound", err)
	}
	if err := svc.Delete(ctx, tn.ID, userID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, tn.ID, userID); err != ErrTenantNotFound {
		t.Errorf("second delete: err = %v, want ErrTenantNotFound", err)
	}
}

func TestTenantService_ExportCSV(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	ts := newMockTenantStore()
	svc := NewTenantService(ts, zap.NewNop())

	if _, err := svc.Create(ctx, userID, validInput()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	out, err := svc.ExportCSV(ctx, userID)
	if err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}

	csv := string(out)
	if !strings.Contains(csv, "tenant_name") {
		t.Error("header row missing")
	}
	if strings.Contains(csv, "user_id") {
		t.Error("owner column must not be exported")
	}
	if !strings.Contains(csv, "Maria Santos") {
		t.Error("tenant row missing")
	}
	if !strings.Contains(csv, "\"Electric, Water\"") {
		t.Error("utilities should be comma-joined")
	}
}
