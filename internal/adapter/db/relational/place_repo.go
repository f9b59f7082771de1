package relational

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "directory-service/internal/domain/place"
	apperrors "directory-service/pkg/errors"
)

var errPlaceNotFound = apperrors.NewNotFoundError("place", "Place not found")

// PlaceRepo implements the place Repository using GORM.
type PlaceRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewPlaceRepo creates a new instance of PlaceRepo.
func NewPlaceRepo(db *gorm.DB, log *zap.Logger) *PlaceRepo {
	return &PlaceRepo{db: db, log: log}
}

// Create inserts a new place. The district reference is stored as given.
func (r *PlaceRepo) Create(ctx context.Context, p *domain.Place) (string, error) {
	if p == nil {
		return "", errors.New("place cannot be nil")
	}
	districtID, err := parseID(p.DistrictID)
	if err != nil {
		return "", err
	}

	model := PlaceSchema{PlaceName: p.Name, DistrictID: districtID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		r.log.Error("failed to create place in db", zap.Error(err))
		return "", fmt.Errorf("failed to create place: %w", err)
	}

	r.log.Info("place created in db", zap.Int64("id", model.PlaceID))
	return formatID(model.PlaceID), nil
}

// GetByID retrieves a place by id.
func (r *PlaceRepo) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	rowID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var model PlaceSchema
	if err := r.db.WithContext(ctx).First(&model, rowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPlaceNotFound
		}
		r.log.Error("failed to get place from db", zap.Error(err), zap.Int64("id", rowID))
		return nil, fmt.Errorf("failed to get place: %w", err)
	}

	return &domain.Place{
		ID:         formatID(model.PlaceID),
		Name:       model.PlaceName,
		DistrictID: formatID(model.DistrictID),
	}, nil
}

// Update replaces the name and district of a place.
func (r *PlaceRepo) Update(ctx context.Context, p *domain.Place) error {
	if p == nil {
		return errors.New("place cannot be nil")
	}
	rowID, err := parseID(p.ID)
	if err != nil {
		return err
	}
	districtID, err := parseID(p.DistrictID)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&PlaceSchema{}).
		Where("place_id = ?", rowID).
		Updates(map[string]any{"place_name": p.Name, "district_id": districtID})
	if res.Error != nil {
		r.log.Error("failed to update place in db", zap.Error(res.Error), zap.Int64("id", rowID))
		return fmt.Errorf("failed to update place: %w", res.Error)
	}

	r.log.Info("place updated in db", zap.Int64("id", rowID))
	return nil
}

// Delete removes a place. Users keep their place_id.
func (r *PlaceRepo) Delete(ctx context.Context, id string) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&PlaceSchema{}, rowID)
	if res.Error != nil {
		r.log.Error("failed to delete place in db", zap.Error(res.Error), zap.Int64("id", rowID))
		return fmt.Errorf("failed to delete place: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errPlaceNotFound
	}

	r.log.Info("place deleted in db", zap.Int64("id", rowID))
	return nil
}

// ListViews returns places with their district preloaded.
func (r *PlaceRepo) ListViews(ctx context.Context, districtID string) ([]domain.View, error) {
	q := r.db.WithContext(ctx).Preload("District").Order("place_id")
	if districtID != "" {
		rowID, err := parseID(districtID)
		if err != nil {
			return nil, err
		}
		q = q.Where("district_id = ?", rowID)
	}

	var models []PlaceSchema
	if err := q.Find(&models).Error; err != nil {
		r.log.Error("failed to list places from db", zap.Error(err), zap.String("district_id", districtID))
		return nil, fmt.Errorf("failed to list places: %w", err)
	}

	out := make([]domain.View, len(models))
	for i, m := range models {
		out[i] = domain.View{
			ID:           formatID(m.PlaceID),
			Name:         m.PlaceName,
			DistrictID:   formatID(m.DistrictID),
			DistrictName: m.District.DistrictName,
		}
	}
	return out, nil
}
