package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx review.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReviewGormRepository{db: tx})
	})
}

func (r *ReviewGormRepository) GetBookingForUpdate(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, bookingID).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *ReviewGormRepository) ReviewExists(
	ctx context.Context,
	bookingID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// LockTutor takes the tutor's row lock so concurrent reviews recompute the
// aggregate one after another.
func (r *ReviewGormRepository) LockTutor(
	ctx context.Context,
	tutorID uint,
) (*models.User, error) {

	var tutor models.User
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&tutor, tutorID).Error; err != nil {
		return nil, notFound(err)
	}
	return &tutor, nil
}

func (r *ReviewGormRepository) CreateReview(
	ctx context.Context,
	rv *models.Review,
) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return httperr.DuplicateReview("this session has already been reviewed")
		}
		return err
	}
	return nil
}

func (r *ReviewGormRepository) ListTutorRatings(
	ctx context.Context,
	tutorID uint,
) ([]int, error) {

	var ratings []int
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("tutor_id = ?", tutorID).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ReviewGormRepository) UpdateTutorAggregate(
	ctx context.Context,
	tutorID uint,
	agg review.Aggregate,
) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", tutorID).
		Updates(map[string]any{
			"average_rating": agg.Average,
			"total_reviews":  agg.Count,
		}).Error
}

func (r *ReviewGormRepository) ListForTutor(
	ctx context.Context,
	tutorID uint,
) ([]models.Review, error) {

	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("Student", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "profile_picture")
		}).
		Where("tutor_id = ?", tutorID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewGormRepository) ListForStudent(
	ctx context.Context,
	studentID uint,
) ([]models.Review, error) {

	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

var _ review.Repository = (*ReviewGormRepository)(nil)
