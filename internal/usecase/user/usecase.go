package user

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	placedomain "directory-service/internal/domain/place"
	domain "directory-service/internal/domain/user"
	"directory-service/internal/usecase/validation"
	apperrors "directory-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer so the relational and document stores
// can be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (string, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // nil, nil when absent
	GetView(ctx context.Context, id string) (*domain.View, error)
	ListViews(ctx context.Context) ([]domain.View, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, changes domain.Changes) error
	UpdatePassword(ctx context.Context, id, password string) error
}

// PlaceFinder resolves place references.
type PlaceFinder interface {
	GetByID(ctx context.Context, id string) (*placedomain.Place, error)
}

// PhotoStore persists uploaded photos and returns the stored path.
type PhotoStore interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	Remove(ctx context.Context, stored string) error
}

var (
	errEmailTaken        = apperrors.NewAlreadyExistsError("user", "Email already registered")
	errWrongPassword     = apperrors.NewValidationError("", "Old password is incorrect")
	errWrongCredentials  = apperrors.NewUnauthorizedError("Invalid email or password")
	errEmailCheckFailure = apperrors.NewInternalError("failed to validate email uniqueness", nil)
)

// Usecase implements user registration, profile reads and updates, and login.
type Usecase struct {
	repo     Repository
	places   PlaceFinder
	photos   PhotoStore
	log      *zap.Logger
	validate *validator.Validate
}

// New creates a user usecase.
func New(r Repository, places PlaceFinder, photos PhotoStore, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:     r,
		places:   places,
		photos:   photos,
		log:      log,
		validate: validation.New(),
	}
}

// CreateUser registers a user: the email must be unused and the place must exist.
// The photo, when present, is written before the user record.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	uc.log.Info("creating user", zap.String("email", in.Email), zap.String("place_id", in.PlaceID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	if err := uc.ensureEmailFree(ctx, in.Email, ""); err != nil {
		return nil, err
	}

	if _, err := uc.places.GetByID(ctx, in.PlaceID); err != nil {
		uc.log.Warn("place lookup failed", zap.String("place_id", in.PlaceID), zap.Error(err))
		return nil, err
	}

	var photoPath string
	if in.Photo != nil {
		path, err := uc.photos.Save(ctx, in.Photo.Filename, in.Photo.Content)
		if err != nil {
			uc.log.Error("failed to store photo", zap.String("filename", in.Photo.Filename), zap.Error(err))
			return nil, err
		}
		photoPath = path
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		FullName: in.FullName,
		Email:    in.Email,
		Password: in.Password,
		Photo:    photoPath,
		PlaceID:  in.PlaceID,
		Status:   domain.StatusActive,
	})
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		uc.discardPhoto(ctx, photoPath)
		return nil, err
	}

	return &CreateUserResponse{ID: id, Photo: photoPath}, nil
}

// GetUser returns one user with place and district names attached.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*domain.View, error) {
	v, err := uc.repo.GetView(ctx, in.ID)
	if err != nil {
		uc.log.Warn("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	return v, nil
}

// ListUsers returns every user with place and district names attached.
func (uc *Usecase) ListUsers(ctx context.Context) ([]domain.View, error) {
	views, err := uc.repo.ListViews(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return views, nil
}

// ListUserRecords returns every stored user as is, password included.
func (uc *Usecase) ListUserRecords(ctx context.Context) ([]domain.User, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list user records", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update. A supplied place is re-validated and a
// supplied email must not belong to another user.
func (uc *Usecase) UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.View, error) {
	uc.log.Info("updating user", zap.String("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("user lookup failed", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}

	if in.Email != nil && *in.Email != current.Email {
		if err := uc.ensureEmailFree(ctx, *in.Email, current.ID); err != nil {
			return nil, err
		}
	}

	if in.PlaceID != nil {
		if _, err := uc.places.GetByID(ctx, *in.PlaceID); err != nil {
			uc.log.Warn("place lookup failed", zap.String("place_id", *in.PlaceID), zap.Error(err))
			return nil, err
		}
	}

	changes := domain.Changes{FullName: in.FullName, Email: in.Email, PlaceID: in.PlaceID}
	if !changes.IsEmpty() {
		if err := uc.repo.Update(ctx, current.ID, changes); err != nil {
			uc.log.Error("failed to update user", zap.String("id", in.ID), zap.Error(err))
			return nil, err
		}
	}

	return uc.repo.GetView(ctx, current.ID)
}

// ChangePassword replaces the password when the old one matches exactly.
func (uc *Usecase) ChangePassword(ctx context.Context, in ChangePasswordRequest) error {
	uc.log.Info("changing password", zap.String("id", in.ID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return validation.Format(err)
	}

	current, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		uc.log.Warn("user lookup failed", zap.String("id", in.ID), zap.Error(err))
		return err
	}

	if current.Password != in.OldPassword {
		uc.log.Warn("old password mismatch", zap.String("id", in.ID))
		return errWrongPassword
	}

	if err := uc.repo.UpdatePassword(ctx, current.ID, in.NewPassword); err != nil {
		uc.log.Error("failed to update password", zap.String("id", in.ID), zap.Error(err))
		return err
	}
	return nil
}

// Login checks an email/password pair by exact match.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	uc.log.Info("login attempt", zap.String("email", in.Email))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, validation.Format(err)
	}

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to look up user by email", zap.String("email", in.Email), zap.Error(err))
		return nil, err
	}
	if u == nil || u.Password != in.Password {
		uc.log.Warn("login rejected", zap.String("email", in.Email))
		return nil, errWrongCredentials
	}

	return &LoginResponse{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Status:   u.Status,
	}, nil
}

// ensureEmailFree fails when email belongs to a user other than selfID.
func (uc *Usecase) ensureEmailFree(ctx context.Context, email, selfID string) error {
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", email), zap.Error(err))
		return errEmailCheckFailure
	}
	if existing != nil && existing.ID != selfID {
		uc.log.Warn("email already exists", zap.String("email", email), zap.String("existing_id", existing.ID))
		return errEmailTaken
	}
	return nil
}

// discardPhoto removes a photo written for a user that was never stored.
func (uc *Usecase) discardPhoto(ctx context.Context, stored string) {
	if stored == "" {
		return
	}
	if err := uc.photos.Remove(ctx, stored); err != nil {
		uc.log.Warn("failed to remove orphaned photo", zap.String("path", stored), zap.Error(err))
	}
}
