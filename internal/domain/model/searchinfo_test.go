package model

import (
	"testing"

	"city-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFactory() *SearchInfoFactory {
	return NewSearchInfoFactory(SearchInfoConfig{
		RapidAPIKey:       "rapid-key",
		RapidAPIHost:      "rapid-host",
		WeatherAPIKey:     "weather-key",
		OpenTripMapAPIKey: "otm-key",
	})
}

func TestCitySearchInfo(t *testing.T) {
	info := testFactory().CitySearch("paris")

	require.False(t, info.IsZero())
	assert.Equal(t, "/cities", info.Path)
	assert.Equal(t, "paris", info.Query["namePrefix"])
	assert.Equal(t, "6", info.Query["limit"])
	assert.Equal(t, "rapid-host", info.Headers["X-RapidAPI-Host"])
	assert.Equal(t, "rapid-key", info.Headers["X-RapidAPI-Key"])
}

func TestCitySearchEmptyNameIsZero(t *testing.T) {
	assert.True(t, testFactory().CitySearch("").IsZero())
}

func TestCurrentWeatherInfo(t *testing.T) {
	info := testFactory().CurrentWeather(48.8566, 2.3522)

	assert.Equal(t, "/current.json", info.Path)
	assert.Equal(t, "48.8566,2.3522", info.Query["q"])
	assert.Equal(t, "weather-key", info.Query["key"])

	assert.True(t, testFactory().CurrentWeather(0, 0).IsZero())
}

func TestAttractionsInfoScalesLimitWithCategories(t *testing.T) {
	categories := []entity.AttractionCategory{
		entity.CategoryHistoric,
		entity.CategoryCultural,
		entity.CategorySport,
	}
	info := testFactory().Attractions(48.8566, 2.3522, categories)

	assert.Equal(t, "/radius", info.Path)
	assert.Equal(t, "historic,cultural,sport", info.Query["kinds"])
	assert.Equal(t, "1500", info.Query["limit"])
	assert.Equal(t, "json", info.Query["format"])
	assert.Equal(t, "5000", info.Query["radius"])
	assert.Equal(t, "48.8566", info.Query["lat"])
	assert.Equal(t, "2.3522", info.Query["lon"])
	assert.Equal(t, "otm-key", info.Query["apikey"])
}

func TestAttractionsInfoZeroCases(t *testing.T) {
	factory := testFactory()
	categories := []entity.AttractionCategory{entity.CategoryHistoric}

	assert.True(t, factory.Attractions(0, 0, categories).IsZero())
	assert.True(t, factory.Attractions(48.8566, 2.3522, nil).IsZero())
}

func TestForecastInfo(t *testing.T) {
	info := testFactory().Forecast(48.8566, 2.3522)

	assert.Equal(t, "/forecast.json", info.Path)
	assert.Equal(t, "3", info.Query["days"])
	assert.Equal(t, "48.8566,2.3522", info.Query["q"])

	assert.True(t, testFactory().Forecast(0, 0).IsZero())
}

func TestFactoryConfigOverrides(t *testing.T) {
	factory := NewSearchInfoFactory(SearchInfoConfig{
		CityLimit:     10,
		ForecastDays:  7,
		RadiusMeters:  1000,
		CategoryLimit: 50,
	})

	assert.Equal(t, "10", factory.CitySearch("rome").Query["limit"])
	assert.Equal(t, "7", factory.Forecast(41.9, 12.5).Query["days"])

	info := factory.Attractions(41.9, 12.5, []entity.AttractionCategory{entity.CategoryNatural})
	assert.Equal(t, "1000", info.Query["radius"])
	assert.Equal(t, "50", info.Query["limit"])
}

func TestCacheKeyIsDeterministic(t *testing.T) {
	info := SearchInfo{
		Path:    "/radius",
		Query:   map[string]string{"lon": "2.3522", "lat": "48.8566", "apikey": "secret"},
		Headers: map[string]string{"X-RapidAPI-Key": "secret"},
	}

	key := info.CacheKey("https://api.example.com/")
	assert.Equal(t, "https://api.example.com/radius?apikey=secret&lat=48.8566&lon=2.3522", key)

	for i := 0; i < 20; i++ {
		assert.Equal(t, key, info.CacheKey("https://api.example.com/"))
	}
}

func TestCacheKeyWithoutQuery(t *testing.T) {
	info := SearchInfo{Path: "/cities"}
	assert.Equal(t, "https://api.example.com/cities", info.CacheKey("https://api.example.com"))
}
