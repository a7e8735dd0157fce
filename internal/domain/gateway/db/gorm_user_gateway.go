package db

import (
	"errors"

	"city-api/internal/domain/entity"

	"gorm.io/gorm"
)

type GormUserGateway struct {
	DB *gorm.DB
}

var _ UserGateway = (*GormUserGateway)(nil)

func NewGormUserGateway(db *gorm.DB) *GormUserGateway {
	return &GormUserGateway{DB: db}
}

// FindAll returns every account
func (gateway *GormUserGateway) FindAll() ([]entity.User, error) {
	var users []entity.User
	err := gateway.DB.Order("id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindByID returns the account with the given id, or nil
func (gateway *GormUserGateway) FindByID(id uint) (*entity.User, error) {
	return gateway.findOne("id = ?", id)
}

// FindByUsername returns the account with the given username, or nil
func (gateway *GormUserGateway) FindByUsername(username string) (*entity.User, error) {
	return gateway.findOne("username = ?", username)
}

// FindByUsernameOrEmail returns the first account matching either value, or nil
func (gateway *GormUserGateway) FindByUsernameOrEmail(username string, email string) (*entity.User, error) {
	var user entity.User
	err := gateway.DB.Where("username = ? OR email = ?", username, email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (gateway *GormUserGateway) findOne(query string, arg any) (*entity.User, error) {
	var user entity.User
	err := gateway.DB.Where(query, arg).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a new account
func (gateway *GormUserGateway) Create(user entity.User) (*entity.User, error) {
	err := gateway.DB.Create(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to an existing account
func (gateway *GormUserGateway) Update(user entity.User) (*entity.User, error) {
	err := gateway.DB.Save(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteByID removes an account
func (gateway *GormUserGateway) DeleteByID(id uint) error {
	return gateway.DB.Delete(&entity.User{}, id).Error
}

// Count returns the total number of accounts
func (gateway *GormUserGateway) Count() (int64, error) {
	var count int64
	err := gateway.DB.Model(&entity.User{}).Count(&count).Error
	return count, err
}
