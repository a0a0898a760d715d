package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

// ErrStale is returned by SaveTransition when the stored booking no longer
// has the status it was read with.
var ErrStale = errors.New("booking changed concurrently")

var ErrNotFound = errors.New("not found")

type Period struct {
	From time.Time
	To   time.Time
}

type Repository interface {
	// -------- Tutor / Subject --------
	GetTutor(ctx context.Context, id uint) (*models.User, error)
	GetSubject(ctx context.Context, id uint) (*models.Subject, error)
	ListAvailability(ctx context.Context, tutorID uint) ([]models.AvailabilitySlot, error)

	// -------- Booking (create / conflict) --------

	// WithTutorLock runs fn in one transaction holding the tutor's row lock.
	// The Repository passed to fn is bound to that transaction.
	WithTutorLock(ctx context.Context, tutorID uint, fn func(tx Repository) error) error
	ListBlockingForDate(ctx context.Context, tutorID uint, date string) ([]models.Booking, error)
	CreateBooking(ctx context.Context, b *models.Booking) error

	// -------- Booking (state change) --------
	GetBooking(ctx context.Context, id uint) (*models.Booking, error)
	SaveTransition(ctx context.Context, b *models.Booking, prevStatus Status, prevPayment PaymentStatus) error
	SavePaymentReference(ctx context.Context, b *models.Booking) error
	ListExpirable(ctx context.Context, now time.Time, limit int) ([]models.Booking, error)

	// -------- Listing --------
	ListForStudent(ctx context.Context, studentID uint) ([]models.Booking, error)
	ListForTutor(ctx context.Context, tutorID uint, period *Period) ([]models.Booking, error)
	ListAll(ctx context.Context, period *Period, limit int) ([]models.Booking, error)
}
