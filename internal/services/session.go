// Package services contains the business logic invoked by the HTTP layer:
// session handling, registration, upload orchestration, and content reads.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkravets/filehub/internal/cache"
	"github.com/mkravets/filehub/internal/common"
	"github.com/mkravets/filehub/internal/repositories/users"
)

// authKeyPrefix namespaces session entries in the shared cache.
const authKeyPrefix = "auth_"

// tokenEntropyBytes is the amount of randomness in an issued token.
const tokenEntropyBytes = 32

// SessionService issues, resolves, and revokes opaque session tokens backed
// by the expiring cache.
type SessionService struct {
	users users.Repository
	cache cache.Cache
	ttl   time.Duration
}

// NewSessionService constructs a SessionService with the given token lifetime.
func NewSessionService(users users.Repository, c cache.Cache, ttl time.Duration) *SessionService {
	return &SessionService{users: users, cache: c, ttl: ttl}
}

// Login verifies the credentials and, on success, issues a new token mapped
// to the user id for the configured TTL. Unknown emails and wrong passwords
// are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthenticated
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", common.ErrUnauthenticated
	}

	token, err := common.NewURLSafeToken(tokenEntropyBytes)
	if err != nil {
		return "", common.ErrInternal
	}

	if err := s.cache.Set(ctx, authKeyPrefix+token, user.ID, s.ttl); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return token, nil
}

// Resolve maps a token to the user id it was issued for. A missing or
// expired token yields common.ErrUnauthenticated.
func (s *SessionService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", common.ErrUnauthenticated
	}

	userID, err := s.cache.Get(ctx, authKeyPrefix+token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthenticated
		}
		return "", fmt.Errorf("resolving session: %w", err)
	}

	return userID, nil
}

// Logout revokes the token. Revoking a token that no longer resolves fails
// with common.ErrUnauthenticated.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if _, err := s.Resolve(ctx, token); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, authKeyPrefix+token); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
