package api

import (
	"city-api/internal/domain/entity"
	"city-api/internal/domain/model/external"
)

// PlacesGateway defines the interface for the external city, weather and
// attraction APIs
type PlacesGateway interface {
	// SearchCities searches for cities by name prefix
	SearchCities(cityName string) ([]external.GeoDBCityDTO, error)

	// GetCurrentTemperature returns the current temperature in Celsius for a coordinate pair
	GetCurrentTemperature(latitude, longitude float64) (float64, error)

	// GetAttractions returns points of interest around a coordinate pair for the given categories
	GetAttractions(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error)

	// GetForecast returns the multi-day forecast for a coordinate pair
	GetForecast(latitude, longitude float64) (*external.ForecastResponse, error)
}
