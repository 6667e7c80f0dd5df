package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkravets/filehub/internal/common"
	"github.com/mkravets/filehub/internal/models"
	"github.com/mkravets/filehub/internal/repositories/users"
)

// UserService handles registration and identity lookups.
type UserService struct {
	users users.Repository
}

func NewUserService(users users.Repository) *UserService {
	return &UserService{users: users}
}

// Register creates a new user with a bcrypt-hashed password. A taken email
// yields common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" {
		return nil, common.NewMissingFieldError("email")
	}
	if password == "" {
		return nil, common.NewMissingFieldError("password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user, err := s.users.Create(ctx, &models.User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// GetByID returns the user with the given id, or common.ErrNotFound.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}
