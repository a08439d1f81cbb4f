package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var exportHeader = []string{
	"id", "tenant_name", "status", "monthly_rent", "rent_due_day",
	"utilities", "moved_out_date", "last_seen_date", "created_at",
}

// ExportCSV renders the owner's full tenant collection as CSV. The owner
// column is omitted and utilities are comma-joined, matching the export file
// the dashboard used to download.
func (s *TenantService) ExportCSV(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	tenants, err := s.store.List(ctx, userID, nil)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}

	formatDate := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02")
	}

	for _, t := range tenants {
		record := []string{
			t.ID.String(),
			t.Name,
			string(t.Status),
			t.MonthlyRent.StringFixed(2),
			strconv.Itoa(t.RentDueDay),
			t.Utilities.String(),
			formatDate(t.MovedOutDate),
			formatDate(t.LastSeenDate),
			t.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
