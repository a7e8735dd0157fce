package db

import (
	"time"

	"city-api/internal/domain/entity"
)

type CityGateway interface {
	// FindBySearchTerm returns all snapshots produced by an exact search term match
	FindBySearchTerm(term string) ([]entity.City, error)

	// InsertMany persists a batch of freshly aggregated snapshots
	InsertMany(cities []entity.City) error

	// UpdateAttractions replaces the attractions blob of the snapshot
	// identified by name and latitude
	UpdateAttractions(name string, latitude float64, attractions entity.AttractionList) error

	// FindByIDOrName resolves a deletion target by internal id, exact name,
	// case-insensitive name or substring match, in that preference order.
	// Returns nil when nothing matches.
	FindByIDOrName(identifier string) (*entity.City, error)

	// DeleteByID removes a snapshot
	DeleteByID(id uint) error

	// FindRefreshCandidates returns snapshots whose attractions are empty or
	// carry the fetch-failure marker, scanning forward from lastID
	FindRefreshCandidates(lastID uint, size int) ([]entity.City, error)

	// DeleteOlderThan removes snapshots not updated since the cutoff and
	// returns how many were removed
	DeleteOlderThan(cutoff time.Time) (int64, error)

	// CountAll returns the total number of snapshots
	CountAll() (int64, error)

	// CountSearchTerms returns the number of distinct search terms
	CountSearchTerms() (int64, error)
}
