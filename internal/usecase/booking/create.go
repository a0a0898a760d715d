package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/tutor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/notify"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
	"github.com/BruksfildServices01/tutor-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	TutorID   uint
	SubjectID uint

	Date      string
	StartTime string
	EndTime   string
	Duration  float64

	Notes string
}

type SlotLocker interface {
	Acquire(ctx context.Context, key string) (func(), error)
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	locker   SlotLocker
	audit    *audit.Dispatcher
	notifier *notify.Dispatcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	locker SlotLocker,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CreateBooking {
	if locker == nil {
		locker = cache.NoopLocker{}
	}
	return &CreateBooking{
		repo:     repo,
		locker:   locker,
		audit:    audit,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	actor session.Principal,
	in CreateBookingInput,
) (*models.Booking, error) {

	student, ok := actor.(session.Student)
	if !ok {
		return nil, httperr.Forbidden("students_only", "only students can book sessions")
	}

	// --------------------------------------------------
	// Tutor + subject
	// --------------------------------------------------
	tutor, err := uc.repo.GetTutor(ctx, in.TutorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("tutor_not_found", "tutor not found")
	}
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetSubject(ctx, in.SubjectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.Validation("invalid_subject", "subject not found")
		}
		return nil, err
	}
	if !teaches(tutor, in.SubjectID) {
		return nil, httperr.Validation("subject_not_offered", "tutor does not teach this subject")
	}

	// --------------------------------------------------
	// Window (tutor timezone) + price
	// --------------------------------------------------
	window, err := domain.ParseWindow(domain.SlotRequest{
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Duration:  in.Duration,
	}, timezone.Location(tutor.Timezone))
	if err != nil {
		uc.metrics.BookingAttempt("rejected")
		return nil, err
	}

	price, err := domain.Price(tutor.HourlyRate, window.Duration)
	if err != nil {
		uc.metrics.BookingAttempt("rejected")
		return nil, err
	}

	// --------------------------------------------------
	// Per (tutor, date) lock
	// --------------------------------------------------
	release, err := uc.locker.Acquire(ctx, cache.SlotKey(tutor.ID, window.Date))
	switch {
	case errors.Is(err, cache.ErrLockBusy):
		uc.metrics.BookingAttempt("busy")
		return nil, httperr.Unavailable("slot_busy", "this tutor is being booked right now, try again")
	case err != nil:
		uc.logger.Warn("slot lock unavailable, relying on database", zap.Uint("tutor_id", tutor.ID), zap.Error(err))
	default:
		defer release()
	}

	b := &models.Booking{
		StudentID:     student.ID,
		TutorID:       tutor.ID,
		SubjectID:     in.SubjectID,
		Date:          window.Date,
		StartTime:     window.StartTime,
		EndTime:       window.EndTime,
		StartAt:       window.Start,
		EndAt:         window.End,
		Duration:      window.Duration,
		Status:        string(domain.InitialStatus()),
		PaymentStatus: string(domain.PaymentPending),
		Price:         price,
		Notes:         in.Notes,
	}

	// --------------------------------------------------
	// Validate + insert, retried once on transient failures
	// --------------------------------------------------
	err = uc.insert(ctx, b, window)
	if err != nil && httperr.IsRetryable(err) {
		uc.metrics.BookingRetry()
		uc.logger.Info("retrying booking insert", zap.Uint("tutor_id", tutor.ID), zap.Error(err))
		b.ID = 0
		err = uc.insert(ctx, b, window)
	}
	if err != nil {
		return nil, uc.fail(err)
	}

	uc.metrics.BookingAttempt("created")

	created, err := uc.repo.GetBooking(ctx, b.ID)
	if err != nil {
		uc.logger.Warn("reload created booking", zap.Uint("booking_id", b.ID), zap.Error(err))
		b.Tutor = tutor
		created = b
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &student.ID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &created.ID,
		Metadata: map[string]any{
			"tutor_id": created.TutorID,
			"date":     created.Date,
			"start":    created.StartTime,
			"end":      created.EndTime,
			"price":    created.Price,
		},
	})
	uc.notifier.Notify(notify.BookingRequested(created))

	uc.logger.Info("booking created",
		zap.Uint("booking_id", created.ID),
		zap.Uint("tutor_id", created.TutorID),
		zap.Uint("student_id", created.StudentID),
	)

	return created, nil
}

func (uc *CreateBooking) insert(ctx context.Context, b *models.Booking, w domain.Window) error {
	return uc.repo.WithTutorLock(ctx, b.TutorID, func(tx domain.Repository) error {
		availability, err := tx.ListAvailability(ctx, b.TutorID)
		if err != nil {
			return err
		}
		existing, err := tx.ListBlockingForDate(ctx, b.TutorID, b.Date)
		if err != nil {
			return err
		}

		if err := domain.ValidateSlot(availability, w, existing, uc.now()); err != nil {
			return err
		}

		return tx.CreateBooking(ctx, b)
	})
}

func (uc *CreateBooking) fail(err error) error {
	switch {
	case httperr.IsExclusionConflict(err):
		uc.metrics.BookingAttempt("conflict")
		return httperr.SlotConflict("time_conflict", "this time slot is already booked")
	case httperr.IsRetryable(err):
		uc.metrics.BookingAttempt("error")
		return httperr.Unavailable("booking_contention", "could not reserve the slot, try again")
	case httperr.IsKind(err, httperr.KindSlotConflict):
		uc.metrics.BookingAttempt("conflict")
	case httperr.IsKind(err, httperr.KindValidation):
		uc.metrics.BookingAttempt("rejected")
	default:
		uc.metrics.BookingAttempt("error")
	}
	return err
}

func teaches(tutor *models.User, subjectID uint) bool {
	if len(tutor.Subjects) == 0 {
		return true
	}
	for _, s := range tutor.Subjects {
		if s.ID == subjectID {
			return true
		}
	}
	return false
}
