package user

import (
	"context"

	domain "directory-service/internal/domain/user"
)

// Service defines the user operations used by the transport layer.
type Service interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	GetUser(ctx context.Context, in GetUserRequest) (*domain.View, error)
	ListUsers(ctx context.Context) ([]domain.View, error)
	ListUserRecords(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, in UpdateUserRequest) (*domain.View, error)
	ChangePassword(ctx context.Context, in ChangePasswordRequest) error
	Login(ctx context.Context, in LoginRequest) (*LoginResponse, error)
}

var _ Service = (*Usecase)(nil)
