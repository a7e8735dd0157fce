package user

import (
	"fmt"
	"strings"
	"sync"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/gateway/db"
	"city-api/internal/domain/model"

	"golang.org/x/crypto/bcrypt"
)

type userUseCase struct {
	userGateway       db.UserGateway
	cityGateway       db.CityGateway
	protectedUsername string
}

// NewUserUseCase creates the admin user management use case. protectedUsername
// names the bootstrap admin account that update and delete must refuse.
func NewUserUseCase(userGateway db.UserGateway, cityGateway db.CityGateway, protectedUsername string) UseCase {
	return &userUseCase{
		userGateway:       userGateway,
		cityGateway:       cityGateway,
		protectedUsername: protectedUsername,
	}
}

// ListUsers returns every account without credential hashes
func (uc *userUseCase) ListUsers() ([]model.UserResponse, error) {
	users, err := uc.userGateway.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = toUserResponse(u)
	}
	return responses, nil
}

// CreateUser creates an account on behalf of an admin
func (uc *userUseCase) CreateUser(dto model.CreateUserDTO) (*model.UserResponse, error) {
	if dto.Username == "" || dto.Email == "" || dto.Password == "" {
		return nil, fmt.Errorf("username, email and password are required")
	}

	existing, err := uc.userGateway.FindByUsernameOrEmail(dto.Username, dto.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := uc.userGateway.Create(entity.User{
		Username: dto.Username,
		Email:    dto.Email,
		Password: string(hash),
		IsAdmin:  dto.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	response := toUserResponse(*created)
	return &response, nil
}

// UpdateUser applies the non-empty fields of the DTO to an account
func (uc *userUseCase) UpdateUser(id uint, dto model.UpdateUserDTO) (*model.UserResponse, error) {
	target, err := uc.userGateway.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if uc.isProtected(target) {
		return nil, ErrProtectedUser
	}

	if dto.Username != "" {
		target.Username = dto.Username
	}
	if dto.Email != "" {
		target.Email = dto.Email
	}
	if dto.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		target.Password = string(hash)
	}
	if dto.IsAdmin != nil {
		target.IsAdmin = *dto.IsAdmin
	}

	updated, err := uc.userGateway.Update(*target)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	response := toUserResponse(*updated)
	return &response, nil
}

// DeleteUser removes an account
func (uc *userUseCase) DeleteUser(id uint) error {
	target, err := uc.userGateway.FindByID(id)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}
	if uc.isProtected(target) {
		return ErrProtectedUser
	}

	if err := uc.userGateway.DeleteByID(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Dashboard returns the admin dashboard summary with counts gathered in parallel
func (uc *userUseCase) Dashboard(adminUsername string) (*model.DashboardResponse, error) {
	var wg sync.WaitGroup
	var userCount, cityCount, termCount int64
	var userErr, cityErr, termErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		userCount, userErr = uc.userGateway.Count()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		cityCount, cityErr = uc.cityGateway.CountAll()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		termCount, termErr = uc.cityGateway.CountSearchTerms()
	}()

	wg.Wait()

	if userErr != nil {
		return nil, fmt.Errorf("failed to count users: %w", userErr)
	}
	if cityErr != nil {
		return nil, fmt.Errorf("failed to count cities: %w", cityErr)
	}
	if termErr != nil {
		return nil, fmt.Errorf("failed to count search terms: %w", termErr)
	}

	return &model.DashboardResponse{
		Message:     "Admin dashboard data",
		AdminUser:   adminUsername,
		UserCount:   userCount,
		CityCount:   cityCount,
		SearchTerms: termCount,
	}, nil
}

func (uc *userUseCase) isProtected(target *entity.User) bool {
	return strings.EqualFold(target.Username, uc.protectedUsername)
}

func toUserResponse(u entity.User) model.UserResponse {
	return model.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}
