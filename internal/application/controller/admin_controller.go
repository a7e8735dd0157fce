package controller

import (
	"errors"
	"net/http"

	"city-api/internal/application/middleware"
	"city-api/internal/domain/model"
	"city-api/internal/domain/usecase/user"
	"city-api/pkg/util/numberutils"

	"github.com/labstack/echo/v4"
)

type AdminController struct {
	api     *echo.Group
	useCase user.UseCase
	auth    *middleware.AuthMiddleware
}

func NewAdminController(api *echo.Group, useCase user.UseCase, auth *middleware.AuthMiddleware) *AdminController {
	return &AdminController{api: api, useCase: useCase, auth: auth}
}

// InitAdminRoutes initializes admin routes, all behind the admin gate
func (controller *AdminController) InitAdminRoutes() {
	admin := controller.api.Group("/admin", controller.auth.Authenticate, controller.auth.RequireAdmin)
	admin.GET("/dashboard", controller.Dashboard)
	admin.GET("/users", controller.ListUsers)
	admin.POST("/users", controller.CreateUser)
	admin.PUT("/users/:id", controller.UpdateUser)
	admin.DELETE("/users/:id", controller.DeleteUser)
}

// Dashboard godoc
// @Summary Admin dashboard
// @Description Return dashboard counters for the admin panel
// @Tags admin
// @Produce json
// @Success 200 {object} model.DashboardResponse "Dashboard data"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/dashboard [get]
func (controller *AdminController) Dashboard(c echo.Context) error {
	adminUser := middleware.CurrentUser(c)

	response, err := controller.useCase.Dashboard(adminUser.Username)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, response)
}

// ListUsers godoc
// @Summary List users
// @Description Return every account without credential hashes
// @Tags admin
// @Produce json
// @Success 200 {array} model.UserResponse "Accounts"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users [get]
func (controller *AdminController) ListUsers(c echo.Context) error {
	users, err := controller.useCase.ListUsers()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create a user
// @Description Create an account on behalf of an admin
// @Tags admin
// @Accept json
// @Produce json
// @Param user body model.CreateUserDTO true "New account data"
// @Success 201 {object} model.UserResponse "Created account"
// @Failure 400 {object} map[string]string "Invalid body or duplicate username/email"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Admin access required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users [post]
func (controller *AdminController) CreateUser(c echo.Context) error {
	var dto model.CreateUserDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	created, err := controller.useCase.CreateUser(dto)
	if errors.Is(err, user.ErrDuplicateUser) {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Username or email already exists"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateUser godoc
// @Summary Update a user
// @Description Apply the non-empty fields of the body to an account; the bootstrap admin account is protected
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param user body model.UpdateUserDTO true "Fields to update"
// @Success 200 {object} model.UserResponse "Updated account"
// @Failure 400 {object} map[string]string "Invalid id or body"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Admin access required or protected account"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users/{id} [put]
func (controller *AdminController) UpdateUser(c echo.Context) error {
	id, err := numberutils.ToIntWithError(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid user id"})
	}

	var dto model.UpdateUserDTO
	if err := c.Bind(&dto); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body"})
	}

	updated, err := controller.useCase.UpdateUser(uint(id), dto)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	case errors.Is(err, user.ErrProtectedUser):
		return c.JSON(http.StatusForbidden, map[string]string{"message": "The admin account cannot be modified"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Remove an account; the bootstrap admin account is protected
// @Tags admin
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} map[string]string "User deleted successfully"
// @Failure 400 {object} map[string]string "Invalid id"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 403 {object} map[string]string "Admin access required or protected account"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/users/{id} [delete]
func (controller *AdminController) DeleteUser(c echo.Context) error {
	id, err := numberutils.ToIntWithError(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid user id"})
	}

	err = controller.useCase.DeleteUser(uint(id))
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	case errors.Is(err, user.ErrProtectedUser):
		return c.JSON(http.StatusForbidden, map[string]string{"message": "The admin account cannot be modified"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
