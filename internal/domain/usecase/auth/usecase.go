package auth

import (
	"errors"
	"time"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/model"
)

// ErrInvalidCredentials covers every authentication failure: unknown user,
// wrong password, missing, malformed or expired token. Callers must not
// distinguish between them.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrDuplicateUser is returned when a username or email is already taken.
var ErrDuplicateUser = errors.New("username or email already exists")

type UseCase interface {
	// Signup creates a new non-admin account
	Signup(dto model.SignupDTO) error

	// Login verifies the credentials and returns the user plus a signed token
	Login(dto model.LoginDTO) (*model.UserResponse, string, error)

	// Verify resolves a token to its account, uniformly failing with
	// ErrInvalidCredentials
	Verify(token string) (*entity.User, error)

	// TokenDuration returns the configured token lifetime, used for cookie expiry
	TokenDuration() time.Duration

	// EnsureAdminAccount seeds the bootstrap admin account when it is missing
	EnsureAdminAccount(username, email, password string) error
}
