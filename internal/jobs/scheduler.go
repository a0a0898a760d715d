// Package jobs runs periodic maintenance next to the API.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Expirer cancels pending bookings whose start already passed.
type Expirer interface {
	Execute(ctx context.Context) (int, error)
}

type Scheduler struct {
	sched  gocron.Scheduler
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &Scheduler{sched: s, logger: logger}, nil
}

// AddBookingExpiry runs the expirer every interval. A run still in progress
// makes the next one wait.
func (s *Scheduler) AddBookingExpiry(expirer Expirer, interval time.Duration) error {
	_, err := s.sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			n, err := expirer.Execute(ctx)
			if err != nil {
				s.logger.Error("booking expiry job", zap.Error(err))
				return
			}
			if n > 0 {
				s.logger.Info("booking expiry job", zap.Int("expired", n))
			}
		}),
		gocron.WithName("booking-expiry"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule booking expiry: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.sched.Start()
}

func (s *Scheduler) Shutdown() error {
	return s.sched.Shutdown()
}
