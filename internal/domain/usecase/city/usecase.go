package city

import (
	"time"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/model"
)

type UseCase interface {
	// SearchCities returns deduplicated, fully-enriched cities for a search
	// term and category selection, serving from persisted snapshots when the
	// term was aggregated before
	SearchCities(searchTerm string, categories []entity.AttractionCategory) ([]*model.CityView, error)

	// DeleteCity removes a snapshot resolved by id, exact name,
	// case-insensitive name or substring match
	DeleteCity(identifier string) (*model.DeleteCityResponse, error)

	// EnqueueRefreshCandidates enqueues every snapshot with empty or failed
	// attractions for re-fetching and returns how many were enqueued
	EnqueueRefreshCandidates(requestID string) (int, error)

	// RefreshCityAttractions re-fetches the full attraction universe for one
	// snapshot and persists the result
	RefreshCityAttractions(city entity.City) error

	// PurgeStaleSnapshots removes snapshots not updated within the retention
	// window and returns how many were removed
	PurgeStaleSnapshots(retention time.Duration) (int64, error)
}
