package review

import (
	"context"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type Repository interface {
	// WithinTx runs fn in a single transaction; the Repository given to fn
	// is bound to it.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	GetBookingForUpdate(ctx context.Context, bookingID uint) (*models.Booking, error)
	ReviewExists(ctx context.Context, bookingID uint) (bool, error)
	LockTutor(ctx context.Context, tutorID uint) (*models.User, error)
	CreateReview(ctx context.Context, r *models.Review) error
	ListTutorRatings(ctx context.Context, tutorID uint) ([]int, error)
	UpdateTutorAggregate(ctx context.Context, tutorID uint, agg Aggregate) error

	ListForTutor(ctx context.Context, tutorID uint) ([]models.Review, error)
	ListForStudent(ctx context.Context, studentID uint) ([]models.Review, error)
}
