package tutor

import (
	"context"

	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

// ProfileUpdate carries the fields a user may change on their profile. Nil
// fields are left as they are.
type ProfileUpdate struct {
	Name         *string
	Bio          *string
	Timezone     *string
	HourlyRate   *float64
	SubjectIDs   *[]uint
	Availability *[]models.AvailabilitySlot
}

type Repository interface {
	Search(ctx context.Context, f Filter) ([]models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	CountSubjects(ctx context.Context, ids []uint) (int64, error)
	UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) error
	SetProfilePicture(ctx context.Context, userID uint, url string) error
}
