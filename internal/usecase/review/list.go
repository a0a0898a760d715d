package review

import (
	"context"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/review"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

type ListReviews struct {
	repo domain.Repository
}

func NewListReviews(repo domain.Repository) *ListReviews {
	return &ListReviews{repo: repo}
}

func (uc *ListReviews) ForTutor(ctx context.Context, tutorID uint) ([]models.Review, error) {
	return uc.repo.ListForTutor(ctx, tutorID)
}

// Mine lists the reviews written by a student, or received by a tutor.
func (uc *ListReviews) Mine(ctx context.Context, actor session.Principal) ([]models.Review, error) {
	switch p := actor.(type) {
	case session.Student:
		return uc.repo.ListForStudent(ctx, p.ID)
	case session.Tutor:
		return uc.repo.ListForTutor(ctx, p.ID)
	default:
		return nil, httperr.Forbidden("action_not_allowed", "no reviews for this account")
	}
}
