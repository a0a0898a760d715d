package booking

import (
	"context"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/export"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

const adminListLimit = 500

type QueryBookings struct {
	repo domain.Repository
}

func NewQueryBookings(repo domain.Repository) *QueryBookings {
	return &QueryBookings{repo: repo}
}

// List returns the actor's own bookings: as student, as tutor (optionally
// within period) or everything for admins.
func (uc *QueryBookings) List(
	ctx context.Context,
	actor session.Principal,
	period *domain.Period,
) ([]models.Booking, error) {

	switch p := actor.(type) {
	case session.Student:
		return uc.repo.ListForStudent(ctx, p.ID)
	case session.Tutor:
		return uc.repo.ListForTutor(ctx, p.ID, period)
	case session.Admin:
		return uc.repo.ListAll(ctx, period, adminListLimit)
	default:
		return nil, httperr.Forbidden("action_not_allowed", "cannot list bookings")
	}
}

func (uc *QueryBookings) Get(
	ctx context.Context,
	actor session.Principal,
	bookingID uint,
) (*models.Booking, error) {

	b, err := loadBooking(ctx, uc.repo, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.IsParticipant(b, actor) {
		return nil, httperr.Forbidden("not_participant", "not your booking")
	}
	return b, nil
}

// Receipt renders the PDF receipt of a paid booking.
func (uc *QueryBookings) Receipt(
	ctx context.Context,
	actor session.Principal,
	bookingID uint,
) ([]byte, error) {

	b, err := uc.Get(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	if domain.PaymentStatus(b.PaymentStatus) != domain.PaymentPaid {
		return nil, httperr.PaymentRequired("booking_not_paid", "receipts are issued for paid bookings")
	}
	return export.Receipt(b)
}

// Export renders the tutor's bookings, or all bookings for admins, as an
// XLSX workbook.
func (uc *QueryBookings) Export(
	ctx context.Context,
	actor session.Principal,
	period *domain.Period,
) ([]byte, error) {

	switch actor.(type) {
	case session.Tutor, session.Admin:
	default:
		return nil, httperr.Forbidden("tutors_only", "only tutors can export bookings")
	}

	bookings, err := uc.List(ctx, actor, period)
	if err != nil {
		return nil, err
	}
	return export.BookingsWorkbook(bookings)
}
