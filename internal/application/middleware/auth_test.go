package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/model"
	"city-api/internal/domain/usecase/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAuthUseCase struct {
	verifyFn func(token string) (*entity.User, error)
}

func (m *mockAuthUseCase) Signup(dto model.SignupDTO) error { return nil }

func (m *mockAuthUseCase) Login(dto model.LoginDTO) (*model.UserResponse, string, error) {
	return nil, "", nil
}

func (m *mockAuthUseCase) Verify(token string) (*entity.User, error) {
	if m.verifyFn != nil {
		return m.verifyFn(token)
	}
	return nil, auth.ErrInvalidCredentials
}

func (m *mockAuthUseCase) TokenDuration() time.Duration { return time.Hour }

func (m *mockAuthUseCase) EnsureAdminAccount(username, email, password string) error { return nil }

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func runRequest(t *testing.T, handler echo.HandlerFunc, setup func(req *http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec
}

func TestAuthenticateWithoutCredentials(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthUseCase{})

	rec := runRequest(t, m.Authenticate(okHandler), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Authentication required"}`, rec.Body.String())
}

func TestAuthenticateWithCookie(t *testing.T) {
	alice := &entity.User{ID: 7, Username: "alice"}
	m := NewAuthMiddleware(&mockAuthUseCase{
		verifyFn: func(token string) (*entity.User, error) {
			assert.Equal(t, "valid-token", token)
			return alice, nil
		},
	})

	var seen *entity.User
	handler := m.Authenticate(func(c echo.Context) error {
		seen = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})

	rec := runRequest(t, handler, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "valid-token"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alice, seen)
}

func TestAuthenticateWithBearerHeader(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthUseCase{
		verifyFn: func(token string) (*entity.User, error) {
			assert.Equal(t, "header-token", token)
			return &entity.User{ID: 7}, nil
		},
	})

	rec := runRequest(t, m.Authenticate(okHandler), func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer header-token")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateCookieTakesPrecedence(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthUseCase{
		verifyFn: func(token string) (*entity.User, error) {
			assert.Equal(t, "cookie-token", token)
			return &entity.User{ID: 7}, nil
		},
	})

	rec := runRequest(t, m.Authenticate(okHandler), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthUseCase{})

	rec := runRequest(t, m.Authenticate(okHandler), func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "garbage"})
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdminForbidsRegularUser(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthUseCase{
		verifyFn: func(token string) (*entity.User, error) {
			return &entity.User{ID: 7, Username: "alice"}, nil
		},
	})

	handler := m.Authenticate(m.RequireAdmin(okHandler))
	rec := runRequest(t, handler, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "valid"})
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Admin access required"}`, rec.Body.String())
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthUseCase{
		verifyFn: func(token string) (*entity.User, error) {
			return &entity.User{ID: 1, Username: "admin", IsAdmin: true}, nil
		},
	})

	handler := m.Authenticate(m.RequireAdmin(okHandler))
	rec := runRequest(t, handler, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "valid"})
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdminWithoutAuthenticate(t *testing.T) {
	m := NewAuthMiddleware(&mockAuthUseCase{})

	rec := runRequest(t, m.RequireAdmin(okHandler), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
