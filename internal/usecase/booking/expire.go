package booking

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

const expireBatchSize = 100

// ExpireBookings cancels pending bookings whose start time passed without
// the tutor answering.
type ExpireBookings struct {
	repo       domain.Repository
	transition *TransitionBooking
	logger     *zap.Logger
}

func NewExpireBookings(repo domain.Repository, transition *TransitionBooking, logger *zap.Logger) *ExpireBookings {
	return &ExpireBookings{repo: repo, transition: transition, logger: logger}
}

func (uc *ExpireBookings) Execute(ctx context.Context) (int, error) {
	bookings, err := uc.repo.ListExpirable(ctx, uc.transition.now(), expireBatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range bookings {
		b := &bookings[i]
		err := uc.transition.apply(ctx, session.System{}, b, domain.EventExpire)
		switch {
		case err == nil:
			expired++
		case httperr.IsBusiness(err, "booking_changed"):
			// Someone acted on it first.
		default:
			uc.logger.Warn("expire booking", zap.Uint("booking_id", b.ID), zap.Error(err))
		}
	}

	if expired > 0 {
		uc.logger.Info("expired stale bookings", zap.Int("count", expired))
	}
	return expired, nil
}
