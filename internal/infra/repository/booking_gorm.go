package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

var blockingStatuses = []string{
	string(domain.StatusPending),
	string(domain.StatusConfirmed),
}

// --------------------------------------------------
// Tutor / Subject
// --------------------------------------------------

func (r *BookingGormRepository) GetTutor(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var tutor models.User
	if err := r.db.WithContext(ctx).
		Preload("Subjects").
		Where("id = ? AND role = ?", id, models.RoleTutor).
		First(&tutor).Error; err != nil {
		return nil, notFound(err)
	}
	return &tutor, nil
}

func (r *BookingGormRepository) GetSubject(
	ctx context.Context,
	id uint,
) (*models.Subject, error) {

	var subject models.Subject
	if err := r.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &subject, nil
}

func (r *BookingGormRepository) ListAvailability(
	ctx context.Context,
	tutorID uint,
) ([]models.AvailabilitySlot, error) {

	var slots []models.AvailabilitySlot
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("weekday ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

func (r *BookingGormRepository) WithTutorLock(
	ctx context.Context,
	tutorID uint,
	fn func(tx domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tutor models.User
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND role = ?", tutorID, models.RoleTutor).
			First(&tutor).Error; err != nil {
			return notFound(err)
		}

		return fn(&BookingGormRepository{db: tx})
	})
}

func (r *BookingGormRepository) ListBlockingForDate(
	ctx context.Context,
	tutorID uint,
	date string,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where("tutor_id = ? AND date = ? AND status IN ?", tutorID, date, blockingStatuses).
		Order("start_at ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Tutor").
		Preload("Subject").
		First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// SaveTransition writes the lifecycle columns of b only if the stored row
// still has prevStatus and prevPayment.
func (r *BookingGormRepository) SaveTransition(
	ctx context.Context,
	b *models.Booking,
	prevStatus domain.Status,
	prevPayment domain.PaymentStatus,
) error {

	res := r.db.WithContext(ctx).
		Model(b).
		Where("status = ? AND payment_status = ?", string(prevStatus), string(prevPayment)).
		Select("status", "payment_status", "cancelled_by", "cancelled_at", "completed_at", "paid_at", "updated_at").
		Updates(b)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStale
	}
	return nil
}

func (r *BookingGormRepository) SavePaymentReference(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).
		Model(b).
		Select("payment_provider", "payment_intent_id", "updated_at").
		Updates(b).Error
}

func (r *BookingGormRepository) ListExpirable(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Tutor").
		Preload("Subject").
		Where("status = ? AND start_at <= ?", string(domain.StatusPending), now).
		Order("start_at ASC").
		Limit(limit).
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *BookingGormRepository) ListForStudent(
	ctx context.Context,
	studentID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Tutor").
		Preload("Subject").
		Where("student_id = ?", studentID).
		Order("start_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListForTutor(
	ctx context.Context,
	tutorID uint,
	period *domain.Period,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Subject").
		Where("tutor_id = ?", tutorID)

	q = withinPeriod(q, period)

	var bookings []models.Booking
	if err := q.Order("start_at ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListAll(
	ctx context.Context,
	period *domain.Period,
	limit int,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Tutor").
		Preload("Subject")

	q = withinPeriod(q, period)

	var bookings []models.Booking
	if err := q.Order("start_at DESC").Limit(limit).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)

// withinPeriod applies whichever bounds of p are set.
func withinPeriod(q *gorm.DB, p *domain.Period) *gorm.DB {
	if p == nil {
		return q
	}
	if !p.From.IsZero() {
		q = q.Where("start_at >= ?", p.From)
	}
	if !p.To.IsZero() {
		q = q.Where("start_at < ?", p.To)
	}
	return q
}
