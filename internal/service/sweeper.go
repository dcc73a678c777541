package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/todofuken-quiz-bot/internal/metrics"
)

// Sweeper periodically drops sessions idle for longer than ttl.
type Sweeper struct {
	schedule string
	ttl      time.Duration
	stores   []IdleEvicter
	logger   *zap.Logger
}

func NewSweeper(schedule string, ttl time.Duration, logger *zap.Logger, stores ...IdleEvicter) *Sweeper {
	return &Sweeper{
		schedule: schedule,
		ttl:      ttl,
		stores:   stores,
		logger:   logger,
	}
}

// Start runs the sweep on schedule until ctx is done.
func (s *Sweeper) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.schedule, func() {
		if n := s.Sweep(time.Now()); n > 0 {
			s.logger.Info("evicted idle sessions", zap.Int("count", n))
		}
	})
	if err != nil {
		s.logger.Error("failed to add sweep job", zap.String("schedule", s.schedule), zap.Error(err))
		return
	}

	c.Start()
	s.logger.Info("session sweeper started", zap.String("schedule", s.schedule), zap.Duration("ttl", s.ttl))

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("session sweeper stopped")
}

// Sweep evicts every session last used before now-ttl and returns the count.
func (s *Sweeper) Sweep(now time.Time) int {
	cutoff := now.Add(-s.ttl)

	total := 0
	for _, st := range s.stores {
		total += st.EvictIdle(cutoff)
	}
	metrics.SessionsEvicted.Add(float64(total))

	return total
}
