package db

import (
	"city-api/internal/domain/entity"
)

type UserGateway interface {
	// FindAll returns every account
	FindAll() ([]entity.User, error)

	// FindByID returns the account with the given id, or nil
	FindByID(id uint) (*entity.User, error)

	// FindByUsername returns the account with the given username, or nil
	FindByUsername(username string) (*entity.User, error)

	// FindByUsernameOrEmail returns the first account matching either value, or nil
	FindByUsernameOrEmail(username string, email string) (*entity.User, error)

	// Create persists a new account
	Create(user entity.User) (*entity.User, error)

	// Update persists changes to an existing account
	Update(user entity.User) (*entity.User, error)

	// DeleteByID removes an account
	DeleteByID(id uint) error

	// Count returns the total number of accounts
	Count() (int64, error)
}
