package user

import (
	"errors"

	"city-api/internal/domain/model"
)

// ErrUserNotFound is returned when the target account does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUser is returned when a username or email is already taken.
var ErrDuplicateUser = errors.New("username or email already exists")

// ErrProtectedUser is returned when an operation targets the bootstrap admin
// account, which cannot be modified or removed.
var ErrProtectedUser = errors.New("the admin account cannot be modified")

type UseCase interface {
	// ListUsers returns every account without credential hashes
	ListUsers() ([]model.UserResponse, error)

	// CreateUser creates an account on behalf of an admin
	CreateUser(dto model.CreateUserDTO) (*model.UserResponse, error)

	// UpdateUser applies the non-empty fields of the DTO to an account
	UpdateUser(id uint, dto model.UpdateUserDTO) (*model.UserResponse, error)

	// DeleteUser removes an account
	DeleteUser(id uint) error

	// Dashboard returns the admin dashboard summary
	Dashboard(adminUsername string) (*model.DashboardResponse, error)
}
