package relational

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "directory-service/internal/domain/district"
	apperrors "directory-service/pkg/errors"
)

var errDistrictNotFound = apperrors.NewNotFoundError("district", "District not found")

// DistrictRepo implements the district Repository using GORM.
type DistrictRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewDistrictRepo creates a new instance of DistrictRepo.
func NewDistrictRepo(db *gorm.DB, log *zap.Logger) *DistrictRepo {
	return &DistrictRepo{db: db, log: log}
}

// Create inserts a new district.
func (r *DistrictRepo) Create(ctx context.Context, d *domain.District) (string, error) {
	if d == nil {
		return "", errors.New("district cannot be nil")
	}

	model := DistrictSchema{DistrictName: d.Name}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create district in db", zap.Error(err))
		return "", fmt.Errorf("failed to create district: %w", err)
	}

	r.log.Info("district created in db", zap.Int64("id", model.DistrictID))
	return formatID(model.DistrictID), nil
}

// GetByID retrieves a district by id.
func (r *DistrictRepo) GetByID(ctx context.Context, id string) (*domain.District, error) {
	rowID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var model DistrictSchema
	if err := r.db.WithContext(ctx).First(&model, rowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errDistrictNotFound
		}
		r.log.Error("failed to get district from db", zap.Error(err), zap.Int64("id", rowID))
		return nil, fmt.Errorf("failed to get district: %w", err)
	}

	return toDistrict(model), nil
}

// Update renames a district.
func (r *DistrictRepo) Update(ctx context.Context, d *domain.District) error {
	if d == nil {
		return errors.New("district cannot be nil")
	}
	rowID, err := parseID(d.ID)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).
		Model(&DistrictSchema{}).
		Where("district_id = ?", rowID).
		Update("district_name", d.Name)
	if res.Error != nil {
		r.log.Error("failed to update district in db", zap.Error(res.Error), zap.Int64("id", rowID))
		return fmt.Errorf("failed to update district: %w", res.Error)
	}

	r.log.Info("district updated in db", zap.Int64("id", rowID))
	return nil
}

// Delete removes a district. Places keep their district_id.
func (r *DistrictRepo) Delete(ctx context.Context, id string) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Delete(&DistrictSchema{}, rowID)
	if res.Error != nil {
		r.log.Error("failed to delete district in db", zap.Error(res.Error), zap.Int64("id", rowID))
		return fmt.Errorf("failed to delete district: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errDistrictNotFound
	}

	r.log.Info("district deleted in db", zap.Int64("id", rowID))
	return nil
}

// List returns every district ordered by id.
func (r *DistrictRepo) List(ctx context.Context) ([]domain.District, error) {
	var models []DistrictSchema
	if err := r.db.WithContext(ctx).Order("district_id").Find(&models).Error; err != nil {
		r.log.Error("failed to list districts from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list districts: %w", err)
	}

	out := make([]domain.District, len(models))
	for i, m := range models {
		out[i] = *toDistrict(m)
	}
	return out, nil
}

func toDistrict(m DistrictSchema) *domain.District {
	return &domain.District{ID: formatID(m.DistrictID), Name: m.DistrictName}
}
