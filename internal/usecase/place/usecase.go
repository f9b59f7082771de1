package place

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	districtdomain "directory-service/internal/domain/district"
	domain "directory-service/internal/domain/place"
	"directory-service/internal/usecase/validation"
)

// Repository defines the interface for place data access operations.
type Repository interface {
	Create(ctx context.Context, p *domain.Place) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Place, error)
	Update(ctx context.Context, p *domain.Place) error
	Delete(ctx context.Context, id string) error
	// ListViews returns places joined with their district names,
	// restricted to one district when districtID is not empty.
	ListViews(ctx context.Context, districtID string) ([]domain.View, error)
}

// DistrictFinder resolves district references.
type DistrictFinder interface {
	GetByID(ctx context.Context, id string) (*districtdomain.District, error)
}

// ViewInvalidator drops cached user views, which embed place names.
type ViewInvalidator interface {
	Purge(ctx context.Context) error
}

// Usecase implements place management.
type Usecase struct {
	repo      Repository
	districts DistrictFinder
	views     ViewInvalidator // optional
	log       *zap.Logger
	validate  *validator.Validate
}

// New creates a place usecase. views may be nil when caching is disabled.
func New(r Repository, districts DistrictFinder, views ViewInvalidator, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:      r,
		districts: districts,
		views:     views,
		log:       log,
		validate:  validation.New(),
	}
}

// CreatePlace stores a new place after checking that its district exists.
func (uc *Usecase) CreatePlace(ctx context.Context, in CreatePlaceRequest) (*Place, error) {
	uc.log.Info("creating place", zap.String("name", in.Name), zap.String("district_id", in.DistrictID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	if _, err := uc.districts.GetByID(ctx, in.DistrictID); err != nil {
		uc.log.Warn("district lookup failed", zap.String("district_id", in.DistrictID), zap.Error(err))
		return nil, err
	}

	id, err := uc.repo.Create(ctx, &domain.Place{Name: in.Name, DistrictID: in.DistrictID})
	if err != nil {
		uc.log.Error("failed to create place", zap.Error(err))
		return nil, err
	}

	return &Place{ID: id, Name: in.Name, DistrictID: in.DistrictID}, nil
}

// UpdatePlace replaces the name and district of an existing place.
func (uc *Usecase) UpdatePlace(ctx context.Context, in UpdatePlaceRequest) (*Place, error) {
	uc.log.Info("updating place",
		zap.String("id", in.ID),
		zap.String("name", in.Name),
		zap.String("district_id", in.DistrictID),
	)

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	if _, err := uc.repo.GetByID(ctx, in.ID); err != nil {
		uc.log.Warn("place lookup failed", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	if _, err := uc.districts.GetByID(ctx, in.DistrictID); err != nil {
		uc.log.Warn("district lookup failed", zap.String("district_id", in.DistrictID), zap.Error(err))
		return nil, err
	}

	p := &domain.Place{ID: in.ID, Name: in.Name, DistrictID: in.DistrictID}
	if err := uc.repo.Update(ctx, p); err != nil {
		uc.log.Error("failed to update place", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	uc.purgeViews(ctx)
	return &Place{ID: p.ID, Name: p.Name, DistrictID: p.DistrictID}, nil
}

// DeletePlace removes a place. Users referencing it are left as they are.
func (uc *Usecase) DeletePlace(ctx context.Context, in DeletePlaceRequest) error {
	uc.log.Info("deleting place", zap.String("id", in.ID))

	if _, err := uc.repo.GetByID(ctx, in.ID); err != nil {
		uc.log.Warn("place lookup failed", zap.String("id", in.ID), zap.Error(err))
		return err
	}

	if err := uc.repo.Delete(ctx, in.ID); err != nil {
		uc.log.Error("failed to delete place", zap.String("id", in.ID), zap.Error(err))
		return err
	}

	uc.purgeViews(ctx)
	return nil
}

// ListPlaces returns places with district names attached.
func (uc *Usecase) ListPlaces(ctx context.Context, in ListPlacesRequest) ([]PlaceView, error) {
	views, err := uc.repo.ListViews(ctx, in.DistrictID)
	if err != nil {
		uc.log.Error("failed to list places", zap.String("district_id", in.DistrictID), zap.Error(err))
		return nil, err
	}

	out := make([]PlaceView, len(views))
	for i, v := range views {
		out[i] = PlaceView{
			ID:           v.ID,
			Name:         v.Name,
			DistrictID:   v.DistrictID,
			DistrictName: v.DistrictName,
		}
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
