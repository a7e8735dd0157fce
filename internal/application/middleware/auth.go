package middleware

import (
	"net/http"
	"strings"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/usecase/auth"

	"github.com/labstack/echo/v4"
)

// UserContextKey is where the authenticated user is stored on the echo context.
const UserContextKey = "authUser"

// TokenCookieName is the session cookie set on login.
const TokenCookieName = "token"

// AuthMiddleware gates routes behind a valid session token.
type AuthMiddleware struct {
	authUseCase auth.UseCase
}

func NewAuthMiddleware(authUseCase auth.UseCase) *AuthMiddleware {
	return &AuthMiddleware{authUseCase: authUseCase}
}

// Authenticate resolves the session token from the cookie or the
// Authorization header and attaches the account to the request context.
// Missing, malformed and expired tokens all get the same 401 response.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.authUseCase.Verify(ExtractToken(c))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		}

		c.Set(UserContextKey, user)
		return next(c)
	}
}

// RequireAdmin additionally requires the authenticated account to hold the
// admin flag. It must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Authentication required"})
		}
		if !user.IsAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "Admin access required"})
		}
		return next(c)
	}
}

// ExtractToken reads the session token from the cookie or a Bearer header.
func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// CurrentUser returns the account attached by Authenticate, or nil.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(UserContextKey).(*entity.User)
	return user
}
