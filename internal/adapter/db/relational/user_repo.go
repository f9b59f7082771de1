package relational

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "directory-service/internal/domain/user"
	apperrors "directory-service/pkg/errors"
)

var (
	errUserNotFound = apperrors.NewNotFoundError("user", "User not found")
	errEmailTaken   = apperrors.NewAlreadyExistsError("user", "Email already registered")
)

// UserRepo implements the user Repository using GORM.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// Create inserts a new user record into the database.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}
	placeID, err := parseID(u.PlaceID)
	if err != nil {
		return "", err
	}

	model := UserSchema{
		UserName:     u.FullName,
		UserEmail:    u.Email,
		UserPassword: u.Password,
		UserPhoto:    u.Photo,
		UserStatus:   u.Status,
		PlaceID:      placeID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", errEmailTaken
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.Int64("id", model.UserID), zap.String("email", u.Email))
	return formatID(model.UserID), nil
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	rowID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, rowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		r.log.Error("failed to get user by id from db", zap.Error(err), zap.Int64("id", rowID))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return toUser(model), nil
}

// GetByEmail retrieves a user by exact email. It returns nil, nil when
// no user has that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserSchema
	err := r.db.WithContext(ctx).Where("user_email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toUser(model), nil
}

// GetView retrieves a user with place and district names attached.
func (r *UserRepo) GetView(ctx context.Context, id string) (*domain.View, error) {
	rowID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var model UserSchema
	if err := r.db.WithContext(ctx).Preload("Place.District").First(&model, rowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errUserNotFound
		}
		r.log.Error("failed to get user view from db", zap.Error(err), zap.Int64("id", rowID))
		return nil, fmt.Errorf("failed to get user view: %w", err)
	}

	v := toView(model)
	return &v, nil
}

// ListViews returns every user with place and district names attached.
func (r *UserRepo) ListViews(ctx context.Context) ([]domain.View, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Preload("Place.District").Order("user_id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]domain.View, len(models))
	for i, m := range models {
		out[i] = toView(m)
	}
	return out, nil
}

// List returns every stored user row, ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("user_id").Find(&models).Error; err != nil {
		r.log.Error("failed to list user rows from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]domain.User, len(models))
	for i, m := range models {
		out[i] = *toUser(m)
	}
	return out, nil
}

// Update applies the supplied fields of a partial update.
func (r *UserRepo) Update(ctx context.Context, id string, changes domain.Changes) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	updates := map[string]any{}
	if changes.FullName != nil {
		updates["user_name"] = *changes.FullName
	}
	if changes.Email != nil {
		updates["user_email"] = *changes.Email
	}
	if changes.PlaceID != nil {
		placeID, err := parseID(*changes.PlaceID)
		if err != nil {
			return err
		}
		updates["place_id"] = placeID
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("user_id = ?", rowID).Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return errEmailTaken
		}
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", rowID))
		return fmt.Errorf("failed to update user: %w", res.Error)
	}

	r.log.Info("user updated in db", zap.Int64("id", rowID))
	return nil
}

// UpdatePassword replaces the stored password.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, password string) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&UserSchema{}).Where("user_id = ?", rowID).Update("user_password", password)
	if res.Error != nil {
		r.log.Error("failed to update user password in db", zap.Error(res.Error), zap.Int64("id", rowID))
		return fmt.Errorf("failed to update user password: %w", res.Error)
	}

	r.log.Info("user password updated in db", zap.Int64("id", rowID))
	return nil
}

func toUser(m UserSchema) *domain.User {
	return &domain.User{
		ID:       formatID(m.UserID),
		FullName: m.UserName,
		Email:    m.UserEmail,
		Password: m.UserPassword,
		Photo:    m.UserPhoto,
		PlaceID:  formatID(m.PlaceID),
		Status:   m.UserStatus,
	}
}

// toView flattens a preloaded user. A dangling place leaves the names empty.
func toView(m UserSchema) domain.View {
	return domain.View{
		ID:           formatID(m.UserID),
		FullName:     m.UserName,
		Email:        m.UserEmail,
		Photo:        m.UserPhoto,
		PlaceID:      formatID(m.PlaceID),
		PlaceName:    m.Place.PlaceName,
		DistrictID:   formatID(m.Place.DistrictID),
		DistrictName: m.Place.District.DistrictName,
		Status:       m.UserStatus,
	}
}
