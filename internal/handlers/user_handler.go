package handlers

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/tutor"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tutor-scheduler/internal/imaging"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
	tutoruc "github.com/BruksfildServices01/tutor-scheduler/internal/usecase/tutor"
)

type TutorSearcher interface {
	Execute(ctx context.Context, f tutor.Filter) ([]models.User, error)
}

type ProfileService interface {
	Get(ctx context.Context, userID uint) (*models.User, error)
	Update(ctx context.Context, actor session.Principal, userID uint, in tutoruc.UpdateProfileInput) (*models.User, error)
}

type AvatarUploader interface {
	Execute(ctx context.Context, actor session.Principal, userID uint, raw []byte) (string, error)
}

type UserHandler struct {
	search   TutorSearcher
	profiles ProfileService
	avatars  AvatarUploader
}

func NewUserHandler(search TutorSearcher, profiles ProfileService, avatars AvatarUploader) *UserHandler {
	return &UserHandler{search: search, profiles: profiles, avatars: avatars}
}

type UpdateProfileRequest struct {
	Name         *string                  `json:"name" binding:"omitempty,max=100"`
	Bio          *string                  `json:"bio" binding:"omitempty,max=2000"`
	Timezone     *string                  `json:"timezone" binding:"omitempty,tz"`
	HourlyRate   *float64                 `json:"hourlyRate"`
	Subjects     *[]uint                  `json:"subjects"`
	Availability *[]tutor.DayAvailability `json:"availability" binding:"omitempty,dive"`
}

// profileResponse adds the weekly schedule grouped by day name.
type profileResponse struct {
	*models.User
	Schedule []tutor.DayAvailability `json:"schedule"`
}

func newProfileResponse(u *models.User) profileResponse {
	return profileResponse{User: u, Schedule: tutor.Group(u.Availability)}
}

func (h *UserHandler) SearchTutors(c *gin.Context) {
	f, err := tutor.ParseFilter(c.Query("subject"), c.Query("rating"), c.Query("price"), c.Query("name"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	tutors, err := h.search.Execute(c.Request.Context(), f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, tutors)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	u, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, newProfileResponse(u))
}

func (h *UserHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.profiles.Update(c.Request.Context(), p, id, tutoruc.UpdateProfileInput{
		Name:         req.Name,
		Bio:          req.Bio,
		Timezone:     req.Timezone,
		HourlyRate:   req.HourlyRate,
		SubjectIDs:   req.Subjects,
		Availability: req.Availability,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, newProfileResponse(u))
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("avatar")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Send the picture in the avatar form field")
		return
	}
	if fh.Size > imaging.MaxUploadSize {
		httperr.BadRequest(c, "image_too_large", "picture must be at most 5 MB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, imaging.MaxUploadSize+1))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	url, err := h.avatars.Execute(c.Request.Context(), p, id, raw)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"profilePicture": url})
}

// --------- Availability ---------

func (h *UserHandler) GetAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	u, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, tutor.Group(u.Availability))
}

type AvailabilityUpdateRequest struct {
	Days []tutor.DayAvailability `json:"days" binding:"required,dive"`
}

// ReplaceAvailability swaps the whole weekly schedule.
func (h *UserHandler) ReplaceAvailability(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req AvailabilityUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.profiles.Update(c.Request.Context(), p, id, tutoruc.UpdateProfileInput{
		Availability: &req.Days,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, tutor.Group(u.Availability))
}
