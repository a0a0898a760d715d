package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/tutor-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/tutor"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/imaging"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

// ObjectStore uploads public files and returns their URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type UploadAvatar struct {
	repo   domain.Repository
	store  ObjectStore
	cache  Cache
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewUploadAvatar(repo domain.Repository, store ObjectStore, cache Cache, audit *audit.Dispatcher, logger *zap.Logger) *UploadAvatar {
	return &UploadAvatar{repo: repo, store: store, cache: cache, audit: audit, logger: logger}
}

// Execute resizes raw to a square WebP, uploads it and stores its URL on the
// user.
func (uc *UploadAvatar) Execute(ctx context.Context, actor session.Principal, userID uint, raw []byte) (string, error) {
	if !session.IsSelf(actor, userID) {
		return "", httperr.Forbidden("not_self", "you can only change your own picture")
	}
	if uc.store == nil {
		return "", httperr.Unavailable("storage_disabled", "picture uploads are not configured")
	}

	img, err := imaging.Avatar(raw)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return "", httperr.Validation("image_too_large", "picture must be at most 5 MB")
	case errors.Is(err, imaging.ErrUnsupported):
		return "", httperr.Validation("invalid_image", "picture must be a JPEG, PNG or WebP image")
	case err != nil:
		return "", err
	}

	key := fmt.Sprintf("avatars/%d/%d.webp", userID, time.Now().UnixNano())
	url, err := uc.store.Put(ctx, key, img, imaging.ContentType)
	if err != nil {
		uc.logger.Error("upload avatar", zap.Uint("user_id", userID), zap.Error(err))
		return "", httperr.Unavailable("storage_unavailable", "could not store the picture, try again")
	}

	if err := uc.repo.SetProfilePicture(ctx, userID, url); err != nil {
		return "", err
	}

	if uc.cache != nil {
		if err := uc.cache.InvalidateAll(ctx); err != nil {
			uc.logger.Warn("invalidate tutor cache", zap.Error(err))
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "avatar_updated",
		Entity:   "user",
		EntityID: &userID,
	})
	return url, nil
}
