package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/notify"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

type TransitionBooking struct {
	repo     domain.Repository
	policy   domain.Policy
	audit    *audit.Dispatcher
	notifier *notify.Dispatcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewTransitionBooking(
	repo domain.Repository,
	policy domain.Policy,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TransitionBooking {
	return &TransitionBooking{
		repo:     repo,
		policy:   policy,
		audit:    audit,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute moves the booking to target, picking the event from the actor's
// role.
func (uc *TransitionBooking) Execute(
	ctx context.Context,
	actor session.Principal,
	bookingID uint,
	target string,
) (*models.Booking, error) {

	status := domain.Status(target)
	if !status.Valid() {
		return nil, httperr.Validation("invalid_status", "unknown status "+target)
	}

	b, err := loadBooking(ctx, uc.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.IsParticipant(b, actor) {
		return nil, httperr.Forbidden("not_participant", "not your booking")
	}

	ev, err := domain.EventFor(status, actor, b)
	if err != nil {
		return nil, err
	}

	if err := uc.apply(ctx, actor, b, ev); err != nil {
		return nil, err
	}
	return b, nil
}

func (uc *TransitionBooking) apply(
	ctx context.Context,
	actor session.Principal,
	b *models.Booking,
	ev domain.Event,
) error {

	prevStatus := domain.Status(b.Status)
	prevPayment := domain.PaymentStatus(b.PaymentStatus)

	if err := domain.Apply(b, actor, ev, uc.now(), uc.policy); err != nil {
		return err
	}

	if err := uc.repo.SaveTransition(ctx, b, prevStatus, prevPayment); err != nil {
		if errors.Is(err, domain.ErrStale) {
			return httperr.InvalidTransition("booking_changed", "booking was modified by someone else, reload it")
		}
		return err
	}

	uc.metrics.BookingTransition(string(ev))

	uc.audit.Dispatch(audit.Event{
		UserID:   userIDOf(actor),
		Action:   "booking_" + string(ev),
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]string{"from": string(prevStatus), "to": b.Status},
	})
	uc.notifier.Notify(notify.StatusChanged(b, actor.UserID()))

	uc.logger.Info("booking transition",
		zap.Uint("booking_id", b.ID),
		zap.String("event", string(ev)),
		zap.String("from", string(prevStatus)),
		zap.String("to", b.Status),
		zap.String("actor", actor.Role()),
	)
	return nil
}

func loadBooking(ctx context.Context, repo domain.Repository, id uint) (*models.Booking, error) {
	b, err := repo.GetBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("booking_not_found", "booking not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}
