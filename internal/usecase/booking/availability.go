package booking

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/timezone"
)

const defaultSlotHours = 1.0

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

// Execute lists the start times on date where a session of duration hours
// can still be booked with the tutor.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	tutorID uint,
	date string,
	duration float64,
) ([]domain.TimeSlot, error) {

	if duration == 0 {
		duration = defaultSlotHours
	}
	if err := domain.ValidateDuration(duration); err != nil {
		return nil, err
	}

	tutor, err := uc.repo.GetTutor(ctx, tutorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("tutor_not_found", "tutor not found")
	}
	if err != nil {
		return nil, err
	}

	day, err := domain.ParseDate(date, timezone.Location(tutor.Timezone))
	if err != nil {
		return nil, err
	}

	availability, err := uc.repo.ListAvailability(ctx, tutorID)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.ListBlockingForDate(ctx, tutorID, date)
	if err != nil {
		return nil, err
	}

	span := time.Duration(duration * float64(time.Hour))
	return domain.FreeSlots(availability, day, span, existing, uc.now()), nil
}
