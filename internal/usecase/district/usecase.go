package district

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "directory-service/internal/domain/district"
	"directory-service/internal/usecase/validation"
)

// Repository defines the interface for district data access operations.
// Implementations return apperrors.ErrInvalidID for ids they cannot parse
// and a NotFoundError for ids that do not resolve.
type Repository interface {
	Create(ctx context.Context, d *domain.District) (string, error)
	GetByID(ctx context.Context, id string) (*domain.District, error)
	Update(ctx context.Context, d *domain.District) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.District, error)
}

// ViewInvalidator drops cached user views, which embed district names.
type ViewInvalidator interface {
	Purge(ctx context.Context) error
}

// Usecase implements district management.
type Usecase struct {
	repo     Repository
	views    ViewInvalidator // optional
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a district usecase. views may be nil when caching is disabled.
func New(r Repository, views ViewInvalidator, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, views: views, log: log, validate: validation.New()}
}

// CreateDistrict stores a new district.
func (uc *Usecase) CreateDistrict(ctx context.Context, in CreateDistrictRequest) (*District, error) {
	uc.log.Info("creating district", zap.String("name", in.Name))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	id, err := uc.repo.Create(ctx, &domain.District{Name: in.Name})
	if err != nil {
		uc.log.Error("failed to create district", zap.Error(err))
		return nil, err
	}

	return &District{ID: id, Name: in.Name}, nil
}

// UpdateDistrict renames an existing district.
func (uc *Usecase) UpdateDistrict(ctx context.Context, in UpdateDistrictRequest) (*District, error) {
	uc.log.Info("updating district", zap.String("id", in.ID), zap.String("name", in.Name))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	if _, err := uc.repo.GetByID(ctx, in.ID); err != nil {
		uc.log.Warn("district lookup failed", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	if err := uc.repo.Update(ctx, &domain.District{ID: in.ID, Name: in.Name}); err != nil {
		uc.log.Error("failed to update district", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	uc.purgeViews(ctx)
	return &District{ID: in.ID, Name: in.Name}, nil
}

// DeleteDistrict removes a district. Places referencing it are left as they are.
func (uc *Usecase) DeleteDistrict(ctx context.Context, in DeleteDistrictRequest) error {
	uc.log.Info("deleting district", zap.String("id", in.ID))

	if _, err := uc.repo.GetByID(ctx, in.ID); err != nil {
		uc.log.Warn("district lookup failed", zap.String("id", in.ID), zap.Error(err))
		return err
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		uc.log.Error("failed to delete district", zap.String("id", in.ID), zap.Error(err))
		return err
	}

	uc.purgeViews(ctx)
	return nil
}

// ListDistricts returns every district.
func (uc *Usecase) ListDistricts(ctx context.Context) ([]District, error) {
	districts, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list districts", zap.Error(err))
		return nil, err
	}

	out := make([]District, len(districts))
	for i, d := range districts {
		out[i] = District{ID: d.ID, Name: d.Name}
	}
	return out, nil
}

func (uc *Usecase) purgeViews(ctx context.Context) {
	if uc.views == nil {
		return
	}
	if err := uc.views.Purge(ctx); err != nil {
		uc.log.Warn("failed to purge cached user views", zap.Error(err))
	}
}
