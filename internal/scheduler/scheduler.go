// Package scheduler runs periodic maintenance jobs. The only job today is
// the quote expiry sweep; acceptance always re-checks validity itself, so
// the sweep is cosmetic bookkeeping that keeps listed statuses honest.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/skyharborlabs/skyharbor/internal/clock"
	quotedomain "github.com/skyharborlabs/skyharbor/internal/quote/domain"
	quoterepo "github.com/skyharborlabs/skyharbor/internal/quote/repository"
)

const sweepInterval = time.Hour

type Scheduler struct {
	log    *zap.Logger
	clock  clock.Clock
	quotes quotedomain.Repository

	stop chan struct{}
	done chan struct{}
}

type SchedulerParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

func NewScheduler(p SchedulerParam) *Scheduler {
	return &Scheduler{
		log:    p.Log.Named("scheduler"),
		clock:  p.Clock,
		quotes: quoterepo.NewRepository(p.DB),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// ExpireQuotesJob sweeps lapsed pending and sent quotes into the expired
// state. Safe to run concurrently across replicas: the update is a single
// conditional statement.
func (s *Scheduler) ExpireQuotesJob(ctx context.Context) error {
	now := s.clock.Now(ctx)
	expired, err := s.quotes.ExpireStale(ctx, now)
	if err != nil {
		s.log.Error("quote expiry sweep failed", zap.Error(err))
		return err
	}
	if expired > 0 {
		s.log.Info("expired stale quotes", zap.Int64("count", expired))
	}
	return nil
}

func (s *Scheduler) run() {
	defer close(s.done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			_ = s.ExpireQuotesJob(context.Background())
		}
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(NewScheduler),
	fx.Invoke(func(lc fx.Lifecycle, s *Scheduler) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := s.ExpireQuotesJob(ctx); err != nil {
					return err
				}
				go s.run()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				close(s.stop)
				select {
				case <-s.done:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			},
		})
	}),
)
