package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pillarhq/userd/internal/users/metrics"
	"github.com/pillarhq/userd/internal/users/store"
)

// StatsService periodically refreshes slow-moving gauges that are computed
// from the database, currently the active-user count.
type StatsService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewStatsService creates a new stats service with the given interval.
// If interval is 0 or negative, defaults to 1 minute.
func NewStatsService(store store.Store, logger *slog.Logger, interval time.Duration) *StatsService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &StatsService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to
// gracefully shut down.
func (s *StatsService) Start() {
	go s.run()
	s.Logger.Info("stats service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker. Blocks until any
// in-progress refresh finishes.
func (s *StatsService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("stats service stopped")
}

func (s *StatsService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Refresh immediately on startup
	s.refresh()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-s.stopCh:
			return
		}
	}
}

func (s *StatsService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := s.Store.Users().CountActiveUsers(ctx)
	if err != nil {
		s.Logger.Error("failed to count active users", "error", err)
		return
	}

	metrics.SetActiveUsers(count)
	s.Logger.Debug("refreshed active user gauge", "count", count)
}
