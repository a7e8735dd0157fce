package auth

import (
	"fmt"
	"time"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/gateway/db"
	"city-api/internal/domain/model"
	"city-api/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload issued on login.
type Claims struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type authUseCase struct {
	userGateway   db.UserGateway
	jwtSecret     []byte
	tokenDuration time.Duration
}

func NewAuthUseCase(userGateway db.UserGateway, jwtSecret string, tokenDuration time.Duration) UseCase {
	if tokenDuration <= 0 {
		tokenDuration = 7 * 24 * time.Hour
	}
	return &authUseCase{
		userGateway:   userGateway,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
	}
}

// Signup creates a new non-admin account
func (uc *authUseCase) Signup(dto model.SignupDTO) error {
	if dto.Username == "" || dto.Email == "" || dto.Password == "" {
		return fmt.Errorf("username, email and password are required")
	}

	existing, err := uc.userGateway.FindByUsernameOrEmail(dto.Username, dto.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing users: %w", err)
	}
	if existing != nil {
		return ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = uc.userGateway.Create(entity.User{
		Username: dto.Username,
		Email:    dto.Email,
		Password: string(hash),
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Login verifies the credentials and returns the user plus a signed token
func (uc *authUseCase) Login(dto model.LoginDTO) (*model.UserResponse, string, error) {
	user, err := uc.userGateway.FindByUsername(dto.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.signToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return &model.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsAdmin:  user.IsAdmin,
	}, token, nil
}

func (uc *authUseCase) signToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(uc.tokenDuration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
}

// Verify resolves a token to its account. Every failure collapses into
// ErrInvalidCredentials so callers cannot tell malformed from expired.
func (uc *authUseCase) Verify(token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidCredentials
	}

	user, err := uc.userGateway.FindByID(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// TokenDuration returns the configured token lifetime
func (uc *authUseCase) TokenDuration() time.Duration {
	return uc.tokenDuration
}

// EnsureAdminAccount seeds the bootstrap admin account when it is missing.
// An empty password skips seeding entirely.
func (uc *authUseCase) EnsureAdminAccount(username, email, password string) error {
	if password == "" {
		log.Warn("admin password not configured, skipping bootstrap admin account")
		return nil
	}

	existing, err := uc.userGateway.FindByUsername(username)
	if err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = uc.userGateway.Create(entity.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		IsAdmin:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Infof("bootstrap admin account %q created", username)
	return nil
}
