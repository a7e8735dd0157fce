package db

import (
	"errors"
	"time"

	"city-api/internal/domain/entity"
	"city-api/pkg/util/numberutils"

	"gorm.io/gorm"
)

type GormCityGateway struct {
	DB *gorm.DB
}

var _ CityGateway = (*GormCityGateway)(nil)

func NewGormCityGateway(db *gorm.DB) *GormCityGateway {
	return &GormCityGateway{DB: db}
}

// FindBySearchTerm returns all snapshots produced by an exact search term match
func (gateway *GormCityGateway) FindBySearchTerm(term string) ([]entity.City, error) {
	var cities []entity.City
	err := gateway.DB.Where("search_term = ?", term).Order("id").Find(&cities).Error
	if err != nil {
		return nil, err
	}
	return cities, nil
}

// InsertMany persists a batch of freshly aggregated snapshots
func (gateway *GormCityGateway) InsertMany(cities []entity.City) error {
	if len(cities) == 0 {
		return nil
	}
	return gateway.DB.Create(&cities).Error
}

// UpdateAttractions replaces the attractions blob of the snapshot identified
// by name and latitude
func (gateway *GormCityGateway) UpdateAttractions(name string, latitude float64, attractions entity.AttractionList) error {
	return gateway.DB.Model(&entity.City{}).
		Where("name = ? AND latitude = ?", name, latitude).
		Update("attractions", attractions).Error
}

// FindByIDOrName resolves a deletion target by internal id, exact name,
// case-insensitive name or substring match, in that preference order
func (gateway *GormCityGateway) FindByIDOrName(identifier string) (*entity.City, error) {
	if numberutils.IsInt(identifier) {
		city, err := gateway.findOne("id = ?", numberutils.ToInt(identifier))
		if err != nil || city != nil {
			return city, err
		}
	}

	city, err := gateway.findOne("name = ?", identifier)
	if err != nil || city != nil {
		return city, err
	}

	city, err = gateway.findOne("LOWER(name) = LOWER(?)", identifier)
	if err != nil || city != nil {
		return city, err
	}

	return gateway.findOne("name ILIKE ?", "%"+identifier+"%")
}

func (gateway *GormCityGateway) findOne(query string, arg any) (*entity.City, error) {
	var city entity.City
	err := gateway.DB.Where(query, arg).Order("id").First(&city).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &city, nil
}

// DeleteByID removes a snapshot
func (gateway *GormCityGateway) DeleteByID(id uint) error {
	return gateway.DB.Delete(&entity.City{}, id).Error
}

// refreshCandidatePredicate matches snapshots whose attractions are missing,
// hold a legacy non-array shape, are empty, or carry the fetch-failure marker.
// jsonb_array_length raises an error on scalars and objects, so empty arrays
// are matched by equality and legacy shapes via jsonb_typeof instead.
const refreshCandidatePredicate = "attractions IS NULL OR jsonb_typeof(attractions) <> 'array' OR attractions = '[]'::jsonb OR attractions @> ?"

func (gateway *GormCityGateway) refreshCandidateQuery(lastID uint, size int) *gorm.DB {
	return gateway.DB.
		Where("id > ?", lastID).
		Where(refreshCandidatePredicate, `[{"_fetchFailed": true}]`).
		Order("id").
		Limit(size)
}

// FindRefreshCandidates returns snapshots whose attractions are absent, empty
// or carry the fetch-failure marker, scanning forward from lastID with keyset
// pagination
func (gateway *GormCityGateway) FindRefreshCandidates(lastID uint, size int) ([]entity.City, error) {
	var cities []entity.City
	err := gateway.refreshCandidateQuery(lastID, size).Find(&cities).Error
	if err != nil {
		return nil, err
	}
	return cities, nil
}

// DeleteOlderThan removes snapshots not updated since the cutoff
func (gateway *GormCityGateway) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := gateway.DB.Where("updated_at < ?", cutoff).Delete(&entity.City{})
	return result.RowsAffected, result.Error
}

// CountAll returns the total number of snapshots
func (gateway *GormCityGateway) CountAll() (int64, error) {
	var count int64
	err := gateway.DB.Model(&entity.City{}).Count(&count).Error
	return count, err
}

// CountSearchTerms returns the number of distinct search terms
func (gateway *GormCityGateway) CountSearchTerms() (int64, error) {
	var count int64
	err := gateway.DB.Model(&entity.City{}).Distinct("search_term").Count(&count).Error
	return count, err
}
