package review

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/notify"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

type CreateReviewInput struct {
	BookingID uint
	Rating    int
	Comment   string
}

// CacheInvalidator drops cached tutor listings after a rating change.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

type CreateReview struct {
	repo     domain.Repository
	cache    CacheInvalidator
	audit    *audit.Dispatcher
	notifier *notify.Dispatcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

func NewCreateReview(
	repo domain.Repository,
	cache CacheInvalidator,
	audit *audit.Dispatcher,
	notifier *notify.Dispatcher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CreateReview {
	return &CreateReview{
		repo:     repo,
		cache:    cache,
		audit:    audit,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Execute stores the review and recomputes the tutor's rating in the same
// transaction, with the booking and the tutor row locked.
func (uc *CreateReview) Execute(
	ctx context.Context,
	actor session.Principal,
	in CreateReviewInput,
) (*models.Review, error) {

	student, ok := actor.(session.Student)
	if !ok {
		return nil, httperr.NotEligible("not_booking_student", "only students can review sessions")
	}

	comment, err := domain.ValidateInput(in.Rating, in.Comment)
	if err != nil {
		return nil, err
	}

	var (
		review *models.Review
		tutor  *models.User
	)

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		b, err := tx.GetBookingForUpdate(ctx, in.BookingID)
		if errors.Is(err, booking.ErrNotFound) {
			return httperr.NotFoundErr("booking_not_found", "booking not found")
		}
		if err != nil {
			return err
		}

		exists, err := tx.ReviewExists(ctx, b.ID)
		if err != nil {
			return err
		}
		if err := domain.CheckEligibility(b, student.ID, exists); err != nil {
			return err
		}

		tutor, err = tx.LockTutor(ctx, b.TutorID)
		if err != nil {
			return err
		}

		review = &models.Review{
			BookingID: b.ID,
			StudentID: student.ID,
			TutorID:   b.TutorID,
			Rating:    in.Rating,
			Comment:   comment,
		}
		if err := tx.CreateReview(ctx, review); err != nil {
			return err
		}

		ratings, err := tx.ListTutorRatings(ctx, b.TutorID)
		if err != nil {
			return err
		}
		agg := domain.Recompute(ratings)
		if err := tx.UpdateTutorAggregate(ctx, b.TutorID, agg); err != nil {
			return err
		}

		tutor.AverageRating = agg.Average
		tutor.TotalReviews = agg.Count
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.ReviewCreated()
	if uc.cache != nil {
		if err := uc.cache.InvalidateAll(ctx); err != nil {
			uc.logger.Warn("invalidate tutor cache", zap.Error(err))
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &student.ID,
		Action:   "review_created",
		Entity:   "review",
		EntityID: &review.ID,
		Metadata: map[string]any{"booking_id": review.BookingID, "rating": review.Rating},
	})
	uc.notifier.Notify(notify.ReviewPosted(tutor, review))

	uc.logger.Info("review created",
		zap.Uint("review_id", review.ID),
		zap.Uint("tutor_id", review.TutorID),
		zap.Float64("average_rating", tutor.AverageRating),
		zap.Int("total_reviews", tutor.TotalReviews),
	)

	return review, nil
}
