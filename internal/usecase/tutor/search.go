package tutor

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/tutor"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

// Cache stores tutor listings by filter key.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	InvalidateAll(ctx context.Context) error
}

type SearchTutors struct {
	repo   domain.Repository
	cache  Cache
	logger *zap.Logger
}

func NewSearchTutors(repo domain.Repository, cache Cache, logger *zap.Logger) *SearchTutors {
	return &SearchTutors{repo: repo, cache: cache, logger: logger}
}

// Execute returns the tutors matching f. Cache failures fall through to the
// database.
func (uc *SearchTutors) Execute(ctx context.Context, f domain.Filter) ([]models.User, error) {
	key := f.CacheKey()

	if uc.cache != nil {
		var cached []models.User
		hit, err := uc.cache.Get(ctx, key, &cached)
		if err != nil {
			uc.logger.Warn("tutor cache read", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return cached, nil
		}
	}

	tutors, err := uc.repo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	if tutors == nil {
		tutors = []models.User{}
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, tutors); err != nil {
			uc.logger.Warn("tutor cache write", zap.String("key", key), zap.Error(err))
		}
	}
	return tutors, nil
}
