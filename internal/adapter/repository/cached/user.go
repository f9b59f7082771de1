package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"directory-service/internal/adapter/cache"
	domain "directory-service/internal/domain/user"
	"directory-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with a view cache.
// It wraps a persistent repository and caches the denormalized single-user view.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserViewCache
	log    *zap.Logger
	group  singleflight.Group
}

var _ user.Repository = (*CachedUserRepository)(nil)

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache makes every call a pass-through.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserViewCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// Create delegates to the DB repository.
func (r *CachedUserRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	return r.dbRepo.Create(ctx, u)
}

// GetByID delegates to the DB repository. Password checks must see the stored row.
func (r *CachedUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.dbRepo.GetByID(ctx, id)
}

// GetByEmail delegates to the DB repository.
func (r *CachedUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.GetByEmail(ctx, email)
}

// GetView retrieves a user view using the cache-aside pattern.
func (r *CachedUserRepository) GetView(ctx context.Context, id string) (*domain.View, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cached != nil {
			r.log.Debug("user view retrieved from cache", zap.String("id", id))
			return cached, nil
		}
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do("user:view:"+id, func() (any, error) {
		if r.cache != nil {
			cached, err := r.cache.Get(ctx, id)
			if err == nil && cached != nil {
				r.log.Debug("user view retrieved from cache after single-flight wait", zap.String("id", id))
				return cached, nil
			}
		}

		v, err := r.dbRepo.GetView(ctx, id)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, v); err != nil {
				r.log.Warn("failed to cache user view", zap.String("id", id), zap.Error(err))
			}
		}

		return v, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.View), nil
}

// ListViews delegates to the DB repository.
func (r *CachedUserRepository) ListViews(ctx context.Context) ([]domain.View, error) {
	return r.dbRepo.ListViews(ctx)
}

// List delegates to the DB repository.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.List(ctx)
}

// Update updates the user in DB and invalidates the cached view.
func (r *CachedUserRepository) Update(ctx context.Context, id string, changes domain.Changes) error {
	if err := r.dbRepo.Update(ctx, id, changes); err != nil {
		return err
	}
	r.invalidate(ctx, id, "update")
	return nil
}

// UpdatePassword updates the password in DB and invalidates the cached view.
func (r *CachedUserRepository) UpdatePassword(ctx context.Context, id, password string) error {
	if err := r.dbRepo.UpdatePassword(ctx, id, password); err != nil {
		return err
	}
	r.invalidate(ctx, id, "password update")
	return nil
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id, op string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache after "+op, zap.String("id", id), zap.Error(err))
	}
}
