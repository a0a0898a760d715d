package tutor

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/tutor"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
	"github.com/BruksfildServices01/tutor-scheduler/internal/timezone"
)

type UpdateProfileInput struct {
	Name         *string
	Bio          *string
	Timezone     *string
	HourlyRate   *float64
	SubjectIDs   *[]uint
	Availability *[]domain.DayAvailability
}

type Profiles struct {
	repo   domain.Repository
	cache  Cache
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewProfiles(repo domain.Repository, cache Cache, audit *audit.Dispatcher, logger *zap.Logger) *Profiles {
	return &Profiles{repo: repo, cache: cache, audit: audit, logger: logger}
}

func (uc *Profiles) Get(ctx context.Context, userID uint) (*models.User, error) {
	u, err := uc.repo.GetUser(ctx, userID)
	if errors.Is(err, booking.ErrNotFound) {
		return nil, httperr.NotFoundErr("user_not_found", "user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update applies the changes in, all or nothing. Rate, subjects and
// availability are tutor fields.
func (uc *Profiles) Update(
	ctx context.Context,
	actor session.Principal,
	userID uint,
	in UpdateProfileInput,
) (*models.User, error) {

	if !session.IsSelf(actor, userID) && !session.IsAdmin(actor) {
		return nil, httperr.Forbidden("not_self", "you can only edit your own profile")
	}

	user, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	upd, err := uc.buildUpdate(ctx, user, in)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateProfile(ctx, userID, upd); err != nil {
		return nil, err
	}

	if user.IsTutor() && uc.cache != nil {
		if err := uc.cache.InvalidateAll(ctx); err != nil {
			uc.logger.Warn("invalidate tutor cache", zap.Error(err))
		}
	}

	actorID := actor.UserID()
	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "profile_updated",
		Entity:   "user",
		EntityID: &user.ID,
	})

	return uc.Get(ctx, userID)
}

func (uc *Profiles) buildUpdate(ctx context.Context, user *models.User, in UpdateProfileInput) (domain.ProfileUpdate, error) {
	var upd domain.ProfileUpdate

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return upd, httperr.Validation("invalid_name", "name cannot be empty")
		}
		upd.Name = &name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		upd.Bio = &bio
	}
	if in.Timezone != nil {
		if !timezone.IsValid(*in.Timezone) {
			return upd, httperr.Validation("invalid_timezone", "unknown timezone")
		}
		upd.Timezone = in.Timezone
	}

	if !user.IsTutor() {
		if in.HourlyRate != nil || in.SubjectIDs != nil || in.Availability != nil {
			return upd, httperr.Validation("tutor_only_field", "only tutors have a rate, subjects and availability")
		}
		return upd, nil
	}

	if in.HourlyRate != nil {
		if *in.HourlyRate < 0 {
			return upd, httperr.InvalidRate("hourly rate must be a non-negative number")
		}
		rate := booking.RoundCents(*in.HourlyRate)
		upd.HourlyRate = &rate
	}

	if in.SubjectIDs != nil {
		ids := dedupe(*in.SubjectIDs)
		if len(ids) > 0 {
			n, err := uc.repo.CountSubjects(ctx, ids)
			if err != nil {
				return upd, err
			}
			if n != int64(len(ids)) {
				return upd, httperr.Validation("invalid_subject", "one or more subjects do not exist")
			}
		}
		upd.SubjectIDs = &ids
	}

	if in.Availability != nil {
		rows, err := domain.Flatten(user.ID, *in.Availability)
		if err != nil {
			return upd, err
		}
		upd.Availability = &rows
	}

	return upd, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
