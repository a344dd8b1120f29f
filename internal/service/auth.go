// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, enforces rules, orchestrates
//	Repository (data layer)  → reads/writes the database
//
// AuthService is the heart of this app. It orchestrates registration, login,
// logout, and per-request identity resolution, using three collaborators it
// never constructs itself:
//
//	AuthHandler (HTTP) → AuthService → UserRepository (credential store)
//	                                 ↘ PasswordService (bcrypt)
//	                                 ↘ TokenService (JWT)
//
// Dependency injection via the constructor means tests swap in fakes and the
// service has zero knowledge of HTTP, SQL, or chi.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nafis/movielog/internal/apperror"
	"github.com/nafis/movielog/internal/auth"
	"github.com/nafis/movielog/internal/model"
	"github.com/nafis/movielog/internal/repository"
)

// MinPasswordLength is the registration floor: 7 characters fail, 8 pass.
const MinPasswordLength = 8

// AuthService handles the authentication business logic.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Called from the composition root in server.go.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a new account.
//
// RULES:
//   - username and email are required and must be unused
//   - password must be at least MinPasswordLength characters
//
// On success the user is persisted with a bcrypt hash — the plaintext never
// leaves this function, is never logged, and is never stored. Registration
// does NOT log the user in; the caller must go through Login to get a token.
//
// The GetByUsername pre-check gives a clean error on the common case, but
// the real uniqueness guarantee is the database UNIQUE constraint: if two
// registrations race past the pre-check, the repository returns ErrConflict
// for the loser.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	// Friendly fast path; the UNIQUE constraint is the actual enforcement.
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("username", "username already taken")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking username %q: %w", username, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err // lost a registration race — surface the conflict as-is
		}
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Login verifies credentials and issues a fresh token bound to the user.
//
// ONE ERROR FOR EVERY CREDENTIAL FAILURE:
// Unknown username and wrong password both return InvalidCredentials. If the
// errors differed, an attacker could enumerate which usernames exist by
// watching which error comes back. Storage faults are the exception — they
// propagate as-is and surface as a server error, never masked as bad
// credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", nil, apperror.InvalidCredentials()
		}
		return "", nil, fmt.Errorf("service/auth: looking up %q: %w", username, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return "", nil, apperror.InvalidCredentials()
	}

	// fresh=true: this token came straight from a password check.
	token, err := s.tokens.Issue(user.ID, true)
	if err != nil {
		return "", nil, fmt.Errorf("service/auth: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return token, user, nil
}

// Logout always succeeds, token or no token, valid or not — calling it twice
// is the same as calling it once.
//
// KNOWN LIMITATION, ON PURPOSE:
// Tokens are stateless and there is no revocation list, so the server cannot
// invalidate one before it expires. Logout is purely a signal to the caller
// to discard the token client-side (the HTTP handler clears the cookie).
// A future denylist would hook in here.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	if ident, err := s.tokens.Verify(tokenStr); err == nil {
		s.logger.Info("user logged out", slog.String("userID", ident.UserID))
	}
	return nil
}

// ResolveIdentity turns a raw token string into a user ID.
//
// Two modes:
//   - required=false: absent or invalid token → ("", nil). The request
//     proceeds anonymously.
//   - required=true: absent or invalid token → ErrUnauthorized.
//
// All token-layer detail (expired, malformed, bad signature) collapses to
// Unauthorized here; clients have no use for the distinction and logs
// already captured it.
func (s *AuthService) ResolveIdentity(tokenStr string, required bool) (string, error) {
	if tokenStr == "" {
		if required {
			return "", apperror.Unauthorized("authentication required")
		}
		return "", nil
	}

	ident, err := s.tokens.Verify(tokenStr)
	if err != nil {
		if required {
			s.logger.Debug("token rejected", slog.String("reason", err.Error()))
			return "", apperror.Unauthorized("invalid or expired token")
		}
		return "", nil
	}

	return ident.UserID, nil
}

// GetUserByID returns the user for the given internal ID. Used by /api/me
// after the middleware has verified the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}
