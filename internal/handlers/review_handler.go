package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
	reviewuc "github.com/BruksfildServices01/tutor-scheduler/internal/usecase/review"
)

type ReviewCreator interface {
	Execute(ctx context.Context, actor session.Principal, in reviewuc.CreateReviewInput) (*models.Review, error)
}

type ReviewLister interface {
	ForTutor(ctx context.Context, tutorID uint) ([]models.Review, error)
	Mine(ctx context.Context, actor session.Principal) ([]models.Review, error)
}

type ReviewHandler struct {
	create ReviewCreator
	list   ReviewLister
}

func NewReviewHandler(create ReviewCreator, list ReviewLister) *ReviewHandler {
	return &ReviewHandler{create: create, list: list}
}

type CreateReviewRequest struct {
	Booking uint   `json:"booking" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.create.Execute(c.Request.Context(), p, reviewuc.CreateReviewInput{
		BookingID: req.Booking,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, r)
}

func (h *ReviewHandler) Mine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	reviews, err := h.list.Mine(c.Request.Context(), p)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, reviews)
}

func (h *ReviewHandler) ForTutor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.list.ForTutor(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, reviews)
}
