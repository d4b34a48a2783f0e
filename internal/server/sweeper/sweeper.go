// Package sweeper periodically purges expired sessions.
package sweeper

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/sessions"
)

type Sweeper struct {
	store    sessions.Store
	interval time.Duration
	metrics  *metrics.Metrics
	logger   logging.Logger
	now      func() time.Time
}

// New returns a Sweeper; m may be nil.
func New(store sessions.Store, interval time.Duration, m *metrics.Metrics, l logging.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		metrics:  m,
		logger:   l.With("module", "sweeper"),
		now:      time.Now,
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info(ctx, "Starting session sweeper", "interval", s.interval.String())

	for {
		select {
		case <-ticker.C:
			_, _ = s.SweepOnce(ctx)
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping session sweeper...")
			return
		}
	}
}

// SweepOnce removes the sessions that have expired by now.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.store.SweepExpired(ctx, s.now())
	if err != nil {
		s.logger.Error(ctx, "session sweep failed", "error", err)
		if s.metrics != nil {
			s.metrics.SweepFailures.Inc()
		}
		return 0, err
	}

	if n > 0 {
		s.logger.Info(ctx, "expired sessions removed", "count", n)
	} else {
		s.logger.Debug(ctx, "no expired sessions")
	}
	if s.metrics != nil {
		s.metrics.SessionsSwept.Add(float64(n))
	}
	return n, nil
}
