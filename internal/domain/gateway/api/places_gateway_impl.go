package api

import (
	"context"
	"errors"
	"fmt"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/model"
	"city-api/internal/domain/model/external"
	"city-api/pkg/http"
	"city-api/pkg/log"
	"city-api/pkg/redis"
)

// UpstreamCacheName is the named cache holding raw upstream responses keyed
// by request URL.
const UpstreamCacheName = "upstream"

// PlacesGatewayConfig carries the base URLs of the three upstreams plus the
// search-info configuration.
type PlacesGatewayConfig struct {
	GeoDBBaseURL       string
	WeatherBaseURL     string
	OpenTripMapBaseURL string
	SearchInfo         model.SearchInfoConfig
	ClientOptions      http.ClientOptions
}

// placesGatewayImpl implements the PlacesGateway interface. Successful
// upstream responses are cached by request URL so concurrent and repeated
// aggregations skip redundant external calls.
type placesGatewayImpl struct {
	geoDBClient       *http.Client
	weatherClient     *http.Client
	openTripMapClient *http.Client
	factory           *model.SearchInfoFactory
	cache             *redis.Cache
	config            PlacesGatewayConfig
}

// NewPlacesGateway creates a new instance of PlacesGateway. The cache is
// optional; passing nil disables response caching.
func NewPlacesGateway(config PlacesGatewayConfig, cache *redis.Cache) PlacesGateway {
	return &placesGatewayImpl{
		geoDBClient:       http.NewHttpClient(config.GeoDBBaseURL, config.ClientOptions),
		weatherClient:     http.NewHttpClient(config.WeatherBaseURL, config.ClientOptions),
		openTripMapClient: http.NewHttpClient(config.OpenTripMapBaseURL, config.ClientOptions),
		factory:           model.NewSearchInfoFactory(config.SearchInfo),
		cache:             cache,
		config:            config,
	}
}

// SearchCities searches for cities by name prefix
func (g *placesGatewayImpl) SearchCities(cityName string) ([]external.GeoDBCityDTO, error) {
	info := g.factory.CitySearch(cityName)
	if info.IsZero() {
		return nil, errors.New("city name is required")
	}

	var cached external.GeoDBCitiesResponse
	cacheKey := info.CacheKey(g.config.GeoDBBaseURL)
	if g.cacheGet(cacheKey, &cached) {
		return cached.Data, nil
	}

	successResp, errResp, _, err := g.geoDBClient.Request().
		WithMethod(http.GET).
		WithPath(info.Path).
		WithQueryParams(info.Query).
		WithHeaders(info.Headers).
		WithSuccessResp(&external.GeoDBCitiesResponse{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err == nil {
		response := successResp.(*external.GeoDBCitiesResponse)
		g.cacheSet(cacheKey, response)
		return response.Data, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.APIErrorResponse)
		return nil, fmt.Errorf("city search failed: %s", errorResponse.Message)
	}

	return nil, err
}

// GetCurrentTemperature returns the current temperature in Celsius for a coordinate pair
func (g *placesGatewayImpl) GetCurrentTemperature(latitude, longitude float64) (float64, error) {
	info := g.factory.CurrentWeather(latitude, longitude)
	if info.IsZero() {
		return 0, errors.New("latitude and longitude are required")
	}

	var cached external.CurrentWeatherResponse
	cacheKey := info.CacheKey(g.config.WeatherBaseURL)
	if g.cacheGet(cacheKey, &cached) {
		return cached.Current.TempC, nil
	}

	successResp, errResp, _, err := g.weatherClient.Request().
		WithMethod(http.GET).
		WithPath(info.Path).
		WithQueryParams(info.Query).
		WithSuccessResp(&external.CurrentWeatherResponse{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err == nil {
		response := successResp.(*external.CurrentWeatherResponse)
		g.cacheSet(cacheKey, response)
		return response.Current.TempC, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.APIErrorResponse)
		return 0, fmt.Errorf("current weather fetch failed: %s", errorResponse.Message)
	}

	return 0, err
}

// GetAttractions returns points of interest around a coordinate pair for the given categories
func (g *placesGatewayImpl) GetAttractions(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
	info := g.factory.Attractions(latitude, longitude, categories)
	if info.IsZero() {
		return nil, errors.New("latitude, longitude and categories are required")
	}

	var cached entity.AttractionList
	cacheKey := info.CacheKey(g.config.OpenTripMapBaseURL)
	if g.cacheGet(cacheKey, &cached) {
		return cached, nil
	}

	successResp, errResp, _, err := g.openTripMapClient.Request().
		WithMethod(http.GET).
		WithPath(info.Path).
		WithQueryParams(info.Query).
		WithSuccessResp(&entity.AttractionList{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err == nil {
		response := successResp.(*entity.AttractionList)
		g.cacheSet(cacheKey, response)
		return *response, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.APIErrorResponse)
		return nil, fmt.Errorf("attractions fetch failed: %s", errorResponse.Error)
	}

	return nil, err
}

// GetForecast returns the multi-day forecast for a coordinate pair
func (g *placesGatewayImpl) GetForecast(latitude, longitude float64) (*external.ForecastResponse, error) {
	info := g.factory.Forecast(latitude, longitude)
	if info.IsZero() {
		return nil, errors.New("latitude and longitude are required")
	}

	var cached external.ForecastResponse
	cacheKey := info.CacheKey(g.config.WeatherBaseURL)
	if g.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	successResp, errResp, _, err := g.weatherClient.Request().
		WithMethod(http.GET).
		WithPath(info.Path).
		WithQueryParams(info.Query).
		WithSuccessResp(&external.ForecastResponse{}).
		WithErrorResp(&external.APIErrorResponse{}).
		Execute()

	if err == nil {
		response := successResp.(*external.ForecastResponse)
		g.cacheSet(cacheKey, response)
		return response, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.APIErrorResponse)
		return nil, fmt.Errorf("forecast fetch failed: %s", errorResponse.Message)
	}

	return nil, err
}

// cacheGet reads a cached upstream response. Cache failures only disable the
// shortcut, they never fail the call.
func (g *placesGatewayImpl) cacheGet(key string, dest any) bool {
	if g.cache == nil {
		return false
	}

	found, err := g.cache.Get(context.Background(), key, dest)
	if err != nil {
		log.Warnf("upstream cache read failed for %s: %v", key, err)
		return false
	}
	return found
}

func (g *placesGatewayImpl) cacheSet(key string, value any) {
	if g.cache == nil {
		return
	}

	if err := g.cache.Set(context.Background(), key, value); err != nil {
		log.Warnf("upstream cache write failed for %s: %v", key, err)
	}
}
