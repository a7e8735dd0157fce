package controller

import (
	"net/http"

	"city-api/internal/application/middleware"
	"city-api/internal/domain/entity"
	"city-api/internal/domain/model"
	"city-api/internal/domain/usecase/city"

	"github.com/labstack/echo/v4"
)

type CityController struct {
	api     *echo.Group
	useCase city.UseCase
	auth    *middleware.AuthMiddleware
}

func NewCityController(api *echo.Group, useCase city.UseCase, auth *middleware.AuthMiddleware) *CityController {
	return &CityController{api: api, useCase: useCase, auth: auth}
}

// InitCityRoutes initializes city routes
func (controller *CityController) InitCityRoutes() {
	controller.api.GET("/cities/search", controller.SearchCities, controller.auth.Authenticate)
	controller.api.DELETE("/cities/:id", controller.DeleteCity, controller.auth.Authenticate)
}

// SearchCities godoc
// @Summary Search and aggregate cities
// @Description Search cities by name and return them enriched with temperature, attractions and forecast
// @Tags cities
// @Accept json
// @Produce json
// @Param cityName query string true "City name to search"
// @Param categories query string true "URL-encoded JSON array of attraction category codes"
// @Success 200 {object} model.CitySearchResponse "Enriched cities"
// @Failure 400 {object} map[string]string "Missing city name or malformed categories"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities/search [get]
func (controller *CityController) SearchCities(c echo.Context) error {
	cityName := c.QueryParam("cityName")
	if cityName == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Please enter a city name to search"})
	}

	categories, err := entity.ParseCategories(c.QueryParam("categories"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "categories must be a URL-encoded JSON array of known category codes"})
	}

	cities, err := controller.useCase.SearchCities(cityName, categories)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, model.CitySearchResponse{Cities: cities})
}

// DeleteCity godoc
// @Summary Delete a city snapshot
// @Description Delete a persisted city snapshot by id, exact name, case-insensitive name or substring match
// @Tags cities
// @Accept json
// @Produce json
// @Param id path string true "City id or name"
// @Success 200 {object} model.DeleteCityResponse "Deletion confirmation"
// @Failure 401 {object} map[string]string "Authentication required"
// @Failure 404 {object} map[string]string "City not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /cities/{id} [delete]
func (controller *CityController) DeleteCity(c echo.Context) error {
	identifier := c.Param("id")

	response, err := controller.useCase.DeleteCity(identifier)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if response == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "City not found"})
	}

	return c.JSON(http.StatusOK, response)
}
