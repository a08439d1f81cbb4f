package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"go.uber.org/zap"
)

const defaultRefreshInterval = 30 * time.Second

// RefresherService keeps dashboard summaries warm. Owners are tracked on
// every summary request; the ticker recomputes their snapshots so a dashboard
// poll inside the interval is served from cache. Overlapping recomputations
// overwrite the same snapshot and are benign.
type RefresherService struct {
	summary *SummaryService
	logger  *zap.Logger

	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup

	mu        sync.RWMutex
	snapshots map[uuid.UUID]*domain.FinancialSummary
	watched   map[uuid.UUID]time.Time
}

func NewRefresherService(summary *SummaryService, logger *zap.Logger) *RefresherService {
	return &RefresherService{
		summary:   summary,
		logger:    logger,
		interval:  defaultRefreshInterval,
		stopCh:    make(chan struct{}),
		snapshots: make(map[uuid.UUID]*domain.FinancialSummary),
		watched:   make(map[uuid.UUID]time.Time),
	}
}

func (s *RefresherService) SetInterval(d time.Duration) {
	s.interval = d
}

// Start runs the refresher on a periodic schedule in a background goroutine.
func (s *RefresherService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.logger.Info("summary refresher started", zap.Duration("interval", s.interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				s.run(ctx)
				cancel()
			case <-s.stopCh:
				s.logger.Info("summary refresher stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the refresher.
func (s *RefresherService) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

// Summary returns the cached snapshot when it is newer than the refresh
// interval, otherwise computes one on demand. Either way the owner is marked
// for background refreshing.
func (s *RefresherService) Summary(ctx context.Context, userID uuid.UUID) (*domain.FinancialSummary, error) {
	s.mu.Lock()
	s.watched[userID] = time.Now()
	cached := s.snapshots[userID]
	s.mu.Unlock()

	if cached != nil && time.Since(cached.ComputedAt) < s.interval {
		return cached, nil
	}

	fresh, err := s.summary.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.snapshots[userID] = fresh
	s.mu.Unlock()
	return fresh, nil
}

func (s *RefresherService) run(ctx context.Context) {
	// Owners idle for ten intervals fall out of the refresh set.
	cutoff := time.Now().Add(-10 * s.interval)

	s.mu.Lock()
	owners := make([]uuid.UUID, 0, len(s.watched))
	for id, seen := range s.watched {
		if seen.Before(cutoff) {
			delete(s.watched, id)
			delete(s.snapshots, id)
			continue
		}
		owners = append(owners, id)
	}
	s.mu.Unlock()

	for _, id := range owners {
		fresh, err := s.summary.Summarize(ctx, id)
		if err != nil {
			// Keep the stale snapshot; the next tick retries.
			s.logger.Warn("summary refresh failed",
				zap.String("user_id", id.String()), zap.Error(err))
			continue
		}
		s.mu.Lock()
		s.snapshots[id] = fresh
		s.mu.Unlock()
	}
}
