package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/notify"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

const manualProvider = "manual"

// Payments drives the payment axis of a booking. Status is never touched.
type Payments struct {
	repo     domain.Repository
	gateway  domain.PaymentGateway
	currency string
	audit    *audit.Dispatcher
	notifier *notify.Dispatcher
	logger   *zap.Logger
	now      func() time.Time
}

func NewPayments(
	repo domain.Repository,
	gateway domain.PaymentGateway,
	currency string,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	logger *zap.Logger,
) *Payments {
	return &Payments{
		repo:     repo,
		gateway:  gateway,
		currency: currency,
		audit:    audit,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Start opens a payment with the provider and stores its reference on the
// booking.
func (uc *Payments) Start(
	ctx context.Context,
	actor session.Principal,
	bookingID uint,
) (*domain.PaymentSession, error) {

	b, err := loadBooking(ctx, uc.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckPayable(b, actor); err != nil {
		return nil, err
	}

	req := domain.PaymentRequest{
		BookingID:      b.ID,
		Amount:         b.Price,
		Currency:       uc.currency,
		Description:    describe(b),
		IdempotencyKey: fmt.Sprintf("booking-%d-%d", b.ID, b.UpdatedAt.UnixNano()),
	}
	if b.Student != nil {
		req.PayerEmail = b.Student.Email
	}

	ps, err := uc.gateway.CreatePayment(ctx, req)
	if err != nil {
		uc.logger.Error("create payment", zap.Uint("booking_id", b.ID), zap.String("provider", uc.gateway.Name()), zap.Error(err))
		return nil, httperr.Unavailable("payment_provider_unavailable", "payment provider is unavailable, try again")
	}

	b.PaymentProvider = ps.Provider
	b.PaymentIntentID = ps.Reference
	if err := uc.repo.SavePaymentReference(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userIDOf(actor),
		Action:   "payment_started",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]string{"provider": ps.Provider, "reference": ps.Reference},
	})

	return ps, nil
}

// Confirm marks the booking paid. A stored reference is verified with the
// provider first; without one only the manual provider may settle.
func (uc *Payments) Confirm(
	ctx context.Context,
	actor session.Principal,
	bookingID uint,
) (*models.Booking, error) {

	b, err := loadBooking(ctx, uc.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckPayable(b, actor); err != nil {
		return nil, err
	}

	switch {
	case b.PaymentIntentID != "":
		paid, err := uc.gateway.IsPaid(ctx, b.PaymentIntentID)
		if err != nil {
			uc.logger.Error("verify payment", zap.Uint("booking_id", b.ID), zap.Error(err))
			return nil, httperr.Unavailable("payment_provider_unavailable", "could not verify the payment, try again")
		}
		if !paid {
			return nil, httperr.PaymentRequired("payment_not_completed", "the provider has not settled this payment yet")
		}
	case uc.gateway.Name() != manualProvider:
		return nil, httperr.PaymentRequired("payment_not_started", "start a payment for this booking first")
	default:
		b.PaymentProvider = manualProvider
	}

	prevStatus := domain.Status(b.Status)
	prevPayment := domain.PaymentStatus(b.PaymentStatus)
	if err := domain.MarkPaid(b, actor, uc.now()); err != nil {
		return nil, err
	}
	if err := uc.repo.SaveTransition(ctx, b, prevStatus, prevPayment); err != nil {
		if errors.Is(err, domain.ErrStale) {
			return nil, httperr.InvalidTransition("booking_changed", "booking was modified by someone else, reload it")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   userIDOf(actor),
		Action:   "booking_paid",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"amount": b.Price, "provider": b.PaymentProvider},
	})
	uc.notifier.Notify(notify.PaymentReceived(b))

	uc.logger.Info("booking paid", zap.Uint("booking_id", b.ID), zap.Float64("amount", b.Price))
	return b, nil
}

func describe(b *models.Booking) string {
	subject := "Tutoring"
	if b.Subject != nil && b.Subject.Name != "" {
		subject = b.Subject.Name
	}
	return fmt.Sprintf("%s session on %s %s-%s", subject, b.Date, b.StartTime, b.EndTime)
}

func userIDOf(p session.Principal) *uint {
	id := p.UserID()
	if id == 0 {
		return nil
	}
	return &id
}
