package controller

import (
	"errors"
	"net/http"
	"time"

	"city-api/internal/application/middleware"
	"city-api/internal/domain/model"
	"city-api/internal/domain/usecase/auth"

	"github.com/labstack/echo/v4"
)

type AuthController struct {
	api          *echo.Group
	useCase      auth.UseCase
	secureCookie bool
}

// NewAuthController creates the credential lifecycle controller. secureCookie
// controls the Secure/SameSite flags on the session cookie and should be true
// in production.
func NewAuthController(api *echo.Group, useCase auth.UseCase, secureCookie bool) *AuthController {
	return &AuthController{api: api, useCase: useCase, secureCookie: secureCookie}
}

// InitAuthRoutes initializes auth routes
func (controller *AuthController) InitAuthRoutes() {
	controller.api.POST("/auth/signup", controller.Signup)
	controller.api.POST("/auth/login", controller.Login)
	controller.api.POST("/auth/logout", controller.Logout)
	controller.api.GET("/auth/status", controller.Status)
}

// Signup godoc
// @Summary Create an account
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.SignupDTO true "New account data"
// @Success 201 {object} map[string]string "User created successfully"
// @Failure 400 {object} map[string]string "Invalid body or duplicate username/email"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/signup [post]
func (controller *AuthController) Signup(c echo.Context) error {
	var dto model.SignupDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	err := controller.useCase.Signup(dto)
	if errors.Is(err, auth.ErrDuplicateUser) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Username or email already exists"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error creating user"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// Login godoc
// @Summary Authenticate
// @Description Verify credentials and set the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body model.LoginDTO true "Login credentials"
// @Success 200 {object} model.LoginResponse "Authenticated user"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (controller *AuthController) Login(c echo.Context) error {
	var dto model.LoginDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	user, token, err := controller.useCase.Login(dto)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Error logging in"})
	}

	c.SetCookie(controller.sessionCookie(token, controller.useCase.TokenDuration()))
	return c.JSON(http.StatusOK, model.LoginResponse{User: *user})
}

// Status godoc
// @Summary Check session status
// @Description Report whether the caller holds a valid session and who they are
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthStatusResponse "Authenticated"
// @Failure 401 {object} model.AuthStatusResponse "Not authenticated"
// @Router /auth/status [get]
func (controller *AuthController) Status(c echo.Context) error {
	user, err := controller.useCase.Verify(middleware.ExtractToken(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, model.AuthStatusResponse{Authenticated: false})
	}

	return c.JSON(http.StatusOK, model.AuthStatusResponse{
		Authenticated: true,
		User: &model.UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			IsAdmin:  user.IsAdmin,
		},
	})
}

// Logout godoc
// @Summary Log out
// @Description Clear the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out successfully"
// @Router /auth/logout [post]
func (controller *AuthController) Logout(c echo.Context) error {
	cookie := controller.sessionCookie("", -time.Hour)
	c.SetCookie(cookie)
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

func (controller *AuthController) sessionCookie(token string, maxAge time.Duration) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if controller.secureCookie {
		sameSite = http.SameSiteNoneMode
	}

	return &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   controller.secureCookie,
		SameSite: sameSite,
		MaxAge:   int(maxAge.Seconds()),
	}
}
