package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestRefresherService_Summary(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("serves the cached snapshot within the interval", func(t *testing.T) {
		f := newSummaryFixture()
		r := NewRefresherService(f.svc, zap.NewNop())
		r.SetInterval(time.Minute)

		first, err := r.Summary(ctx, userID)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}

		// A backend failure now must not matter; the cache answers.
		f.ledger.listErr = errors.New("ledger down")
		second, err := r.Summary(ctx, userID)
		if err != nil {
			t.Fatalf("Summary from cache: %v", err)
		}
		if first != second {
			t.Error("expected the same cached snapshot")
		}
	})

	t.Run("stale snapshot triggers recomputation", func(t *testing.T) {
		f := newSummaryFixture()
		r := NewRefresherService(f.svc, zap.NewNop())
		r.SetInterval(time.Minute)

		first, err := r.Summary(ctx, userID)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}
		// Age the snapshot past the interval.
		first.ComputedAt = time.Now().Add(-2 * time.Minute)

		second, err := r.Summary(ctx, userID)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}
		if first == second {
			t.Error("stale snapshot should be replaced")
		}
	})

	t.Run("on-demand failure surfaces when nothing is cached", func(t *testing.T) {
		f := newSummaryFixture()
		f.ledger.listErr = errors.New("ledger down")
		r := NewRefresherService(f.svc, zap.NewNop())

		if _, err := r.Summary(ctx, userID); err == nil {
			t.Error("expected the query failure to surface")
		}
	})

	t.Run("background run keeps the stale snapshot on failure", func(t *testing.T) {
		f := newSummaryFixture()
		r := NewRefresherService(f.svc, zap.NewNop())
		r.SetInterval(time.Minute)

		snap, err := r.Summary(ctx, userID)
		if err != nil {
			t.Fatalf("Summary: %v", err)
		}

		f.ledger.listErr = errors.New("ledger down")
		r.run(ctx)

		r.mu.RLock()
		kept := r.snapshots[userID]
		r.mu.RUnlock()
		if kept != snap {
			t.Error("failed refresh should keep the previous snapshot")
		}
	})

	t.Run("idle owners fall out of the refresh set", func(t *testing.T) {
		f := newSummaryFixture()
		r := NewRefresherService(f.svc, zap.NewNop())
		r.SetInterval(time.Minute)

		if _, err := r.Summary(ctx, userID); err != nil {
			t.Fatalf("Summary: %v", err)
		}

		r.mu.Lock()
		r.watched[userID] = time.Now().Add(-time.Hour)
		r.mu.Unlock()

		r.run(ctx)

		r.mu.RLock()
		_, stillWatched := r.watched[userID]
		_, stillCached := r.snapshots[userID]
		r.mu.RUnlock()
		if stillWatched || stillCached {
			t.Error("idle owner should be evicted from the refresh set")
		}
	})
}

func TestRefresherService_StartStop(t *testing.T) {
	f := newSummaryFixture()
	r := NewRefresherService(f.svc, zap.NewNop())
	r.SetInterval(10 * time.Millisecond)

	r.Start()
	time.Sleep(30 * time.Millisecond)
	r.Stop() // must not hang or panic
}
