package city

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/gateway/queue"
	"city-api/internal/domain/model"
	"city-api/internal/domain/model/external"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPlacesGateway struct {
	searchCitiesFn  func(cityName string) ([]external.GeoDBCityDTO, error)
	temperatureFn   func(latitude, longitude float64) (float64, error)
	attractionsFn   func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error)
	forecastFn      func(latitude, longitude float64) (*external.ForecastResponse, error)
	mu              sync.Mutex
	attractionCalls int
}

func (m *mockPlacesGateway) SearchCities(cityName string) ([]external.GeoDBCityDTO, error) {
	if m.searchCitiesFn != nil {
		return m.searchCitiesFn(cityName)
	}
	return nil, nil
}

func (m *mockPlacesGateway) GetCurrentTemperature(latitude, longitude float64) (float64, error) {
	if m.temperatureFn != nil {
		return m.temperatureFn(latitude, longitude)
	}
	return 20, nil
}

func (m *mockPlacesGateway) GetAttractions(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
	m.mu.Lock()
	m.attractionCalls++
	m.mu.Unlock()
	if m.attractionsFn != nil {
		return m.attractionsFn(latitude, longitude, categories)
	}
	return entity.AttractionList{}, nil
}

func (m *mockPlacesGateway) GetForecast(latitude, longitude float64) (*external.ForecastResponse, error) {
	if m.forecastFn != nil {
		return m.forecastFn(latitude, longitude)
	}
	return &external.ForecastResponse{}, nil
}

type mockCityGateway struct {
	findBySearchTermFn      func(term string) ([]entity.City, error)
	insertManyFn            func(cities []entity.City) error
	updateAttractionsFn     func(name string, latitude float64, attractions entity.AttractionList) error
	findByIDOrNameFn        func(identifier string) (*entity.City, error)
	deleteByIDFn            func(id uint) error
	findRefreshCandidatesFn func(lastID uint, size int) ([]entity.City, error)
	deleteOlderThanFn       func(cutoff time.Time) (int64, error)
}

func (m *mockCityGateway) FindBySearchTerm(term string) ([]entity.City, error) {
	if m.findBySearchTermFn != nil {
		return m.findBySearchTermFn(term)
	}
	return nil, nil
}

func (m *mockCityGateway) InsertMany(cities []entity.City) error {
	if m.insertManyFn != nil {
		return m.insertManyFn(cities)
	}
	return nil
}

func (m *mockCityGateway) UpdateAttractions(name string, latitude float64, attractions entity.AttractionList) error {
	if m.updateAttractionsFn != nil {
		return m.updateAttractionsFn(name, latitude, attractions)
	}
	return nil
}

func (m *mockCityGateway) FindByIDOrName(identifier string) (*entity.City, error) {
	if m.findByIDOrNameFn != nil {
		return m.findByIDOrNameFn(identifier)
	}
	return nil, nil
}

func (m *mockCityGateway) DeleteByID(id uint) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(id)
	}
	return nil
}

func (m *mockCityGateway) FindRefreshCandidates(lastID uint, size int) ([]entity.City, error) {
	if m.findRefreshCandidatesFn != nil {
		return m.findRefreshCandidatesFn(lastID, size)
	}
	return nil, nil
}

func (m *mockCityGateway) DeleteOlderThan(cutoff time.Time) (int64, error) {
	if m.deleteOlderThanFn != nil {
		return m.deleteOlderThanFn(cutoff)
	}
	return 0, nil
}

func (m *mockCityGateway) CountAll() (int64, error)         { return 0, nil }
func (m *mockCityGateway) CountSearchTerms() (int64, error) { return 0, nil }

type mockQueueSender struct {
	sendBatchFn func(ctx context.Context, queueName string, messages []queue.BatchMessage) (*queue.BatchResult, error)
}

func (m *mockQueueSender) SendMessage(ctx context.Context, queueName string, body any) error {
	return nil
}

func (m *mockQueueSender) SendMessageBatch(ctx context.Context, queueName string, messages []queue.BatchMessage) (*queue.BatchResult, error) {
	if m.sendBatchFn != nil {
		return m.sendBatchFn(ctx, queueName, messages)
	}
	ids := make([]string, len(messages))
	for i, msg := range messages {
		ids[i] = msg.MessageID
	}
	return &queue.BatchResult{Successful: ids}, nil
}

func newTestUseCase(apiGateway *mockPlacesGateway, dbGateway *mockCityGateway, sender *mockQueueSender) UseCase {
	if apiGateway == nil {
		apiGateway = &mockPlacesGateway{}
	}
	if dbGateway == nil {
		dbGateway = &mockCityGateway{}
	}
	if sender == nil {
		sender = &mockQueueSender{}
	}
	return NewCityUseCase("attraction-refresh", 2, sender, apiGateway, dbGateway)
}

func parisDTO() external.GeoDBCityDTO {
	return external.GeoDBCityDTO{
		Name:       "Paris",
		Country:    "France",
		Population: 2161000,
		Latitude:   48.8566,
		Longitude:  2.3522,
	}
}

func TestSearchCitiesRejectsEmptyTerm(t *testing.T) {
	uc := newTestUseCase(nil, nil, nil)

	_, err := uc.SearchCities("", nil)
	assert.Error(t, err)
}

func TestSearchCitiesFreshAggregation(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		searchCitiesFn: func(cityName string) ([]external.GeoDBCityDTO, error) {
			assert.Equal(t, "paris", cityName)
			return []external.GeoDBCityDTO{parisDTO()}, nil
		},
		temperatureFn: func(latitude, longitude float64) (float64, error) {
			return 23.5, nil
		},
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			// Fresh snapshots always fetch the full category universe.
			assert.Len(t, categories, 6)
			return entity.AttractionList{{Name: "Louvre", Kinds: "cultural"}}, nil
		},
	}
	var inserted []entity.City
	dbGateway := &mockCityGateway{
		insertManyFn: func(cities []entity.City) error {
			inserted = cities
			return nil
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	views, err := uc.SearchCities("paris", []entity.AttractionCategory{entity.CategoryCultural})
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, "Paris48.8566", view.ID)
	assert.Equal(t, 23.5, view.CurrentTemp)
	assert.Equal(t, []string{"Louvre"}, view.DisplayAttractions["Cultural"])

	require.Len(t, inserted, 1)
	assert.Equal(t, "paris", inserted[0].SearchTerm)
	assert.Equal(t, view.Attractions, inserted[0].Attractions)
}

func TestSearchCitiesDeduplicatesByNameAndLatitude(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		searchCitiesFn: func(cityName string) ([]external.GeoDBCityDTO, error) {
			first := parisDTO()
			first.Population = 100
			second := parisDTO()
			second.Population = 2161000
			other := external.GeoDBCityDTO{Name: "Paris", Country: "United States", Latitude: 33.66, Longitude: -95.55}
			return []external.GeoDBCityDTO{first, other, second}, nil
		},
	}
	uc := newTestUseCase(apiGateway, nil, nil)

	views, err := uc.SearchCities("paris", nil)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// The colliding city keeps the first position but the last value wins.
	assert.Equal(t, "France", views[0].CountryName)
	assert.Equal(t, int64(2161000), views[0].Population)
	assert.Equal(t, "United States", views[1].CountryName)
}

func TestSearchCitiesLookupFailureReturnsEmpty(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		searchCitiesFn: func(cityName string) ([]external.GeoDBCityDTO, error) {
			return nil, errors.New("upstream unavailable")
		},
	}
	uc := newTestUseCase(apiGateway, nil, nil)

	views, err := uc.SearchCities("paris", nil)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestSearchCitiesPartialFailuresDegradePerField(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		searchCitiesFn: func(cityName string) ([]external.GeoDBCityDTO, error) {
			return []external.GeoDBCityDTO{parisDTO()}, nil
		},
		temperatureFn: func(latitude, longitude float64) (float64, error) {
			return 0, errors.New("weather down")
		},
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			return nil, errors.New("places down")
		},
		forecastFn: func(latitude, longitude float64) (*external.ForecastResponse, error) {
			return nil, errors.New("forecast down")
		},
	}
	uc := newTestUseCase(apiGateway, nil, nil)

	views, err := uc.SearchCities("paris", []entity.AttractionCategory{entity.CategoryHistoric})
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, model.NoDataAvailable, view.CurrentTemp)
	assert.True(t, view.Attractions.HasFetchFailure())
	assert.Equal(t, []string{"Failed to fetch attractions"}, view.DisplayAttractions["Error"])
	assert.Empty(t, view.Forecast)
}

func TestSearchCitiesFailureIsolatedPerCity(t *testing.T) {
	lyon := external.GeoDBCityDTO{Name: "Lyon", Country: "France", Latitude: 45.76, Longitude: 4.83}
	apiGateway := &mockPlacesGateway{
		searchCitiesFn: func(cityName string) ([]external.GeoDBCityDTO, error) {
			return []external.GeoDBCityDTO{parisDTO(), lyon}, nil
		},
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			if latitude == 45.76 {
				return nil, errors.New("places down")
			}
			return entity.AttractionList{{Name: "Louvre", Kinds: "cultural"}}, nil
		},
	}
	uc := newTestUseCase(apiGateway, nil, nil)

	views, err := uc.SearchCities("france", []entity.AttractionCategory{entity.CategoryCultural})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.False(t, views[0].Attractions.HasFetchFailure())
	assert.True(t, views[1].Attractions.HasFetchFailure())
}

func TestSearchCitiesSnapshotHitRefreshesVolatileFields(t *testing.T) {
	stored := entity.City{
		ID:          7,
		SearchTerm:  "paris",
		Name:        "Paris",
		CountryName: "France",
		Latitude:    48.8566,
		Longitude:   2.3522,
		Attractions: entity.AttractionList{{Name: "Louvre", Kinds: "cultural"}},
	}
	apiGateway := &mockPlacesGateway{
		temperatureFn: func(latitude, longitude float64) (float64, error) {
			return 18.0, nil
		},
	}
	dbGateway := &mockCityGateway{
		findBySearchTermFn: func(term string) ([]entity.City, error) {
			return []entity.City{stored}, nil
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	views, err := uc.SearchCities("paris", []entity.AttractionCategory{entity.CategoryCultural})
	require.NoError(t, err)
	require.Len(t, views, 1)

	assert.Equal(t, 18.0, views[0].CurrentTemp)
	assert.Equal(t, []string{"Louvre"}, views[0].DisplayAttractions["Cultural"])
	// Stored attractions are good, so the places API is never called.
	assert.Zero(t, apiGateway.attractionCalls)
}

func TestSearchCitiesSnapshotRefetchesEmptyAttractions(t *testing.T) {
	stored := entity.City{
		SearchTerm: "paris",
		Name:       "Paris",
		Latitude:   48.8566,
		Longitude:  2.3522,
	}
	apiGateway := &mockPlacesGateway{
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			return entity.AttractionList{{Name: "Louvre", Kinds: "cultural"}}, nil
		},
	}
	var writtenBack entity.AttractionList
	dbGateway := &mockCityGateway{
		findBySearchTermFn: func(term string) ([]entity.City, error) {
			return []entity.City{stored}, nil
		},
		updateAttractionsFn: func(name string, latitude float64, attractions entity.AttractionList) error {
			assert.Equal(t, "Paris", name)
			assert.Equal(t, 48.8566, latitude)
			writtenBack = attractions
			return nil
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	views, err := uc.SearchCities("paris", []entity.AttractionCategory{entity.CategoryCultural})
	require.NoError(t, err)

	assert.Equal(t, 1, apiGateway.attractionCalls)
	require.Len(t, writtenBack, 1)
	assert.Equal(t, "Louvre", writtenBack[0].Name)
	assert.Equal(t, []string{"Louvre"}, views[0].DisplayAttractions["Cultural"])
}

func TestSearchCitiesSnapshotRefetchesFailureMarker(t *testing.T) {
	stored := entity.City{
		SearchTerm:  "paris",
		Name:        "Paris",
		Latitude:    48.8566,
		Attractions: entity.NewFetchFailureMarker("Failed to fetch attractions"),
	}
	apiGateway := &mockPlacesGateway{
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			return entity.AttractionList{{Name: "Louvre", Kinds: "cultural"}}, nil
		},
	}
	dbGateway := &mockCityGateway{
		findBySearchTermFn: func(term string) ([]entity.City, error) {
			return []entity.City{stored}, nil
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	views, err := uc.SearchCities("paris", []entity.AttractionCategory{entity.CategoryCultural})
	require.NoError(t, err)

	assert.Equal(t, 1, apiGateway.attractionCalls)
	assert.False(t, views[0].Attractions.HasFetchFailure())
}

func TestSearchCitiesSnapshotFailedRefetchSkipsWriteBack(t *testing.T) {
	stored := entity.City{SearchTerm: "paris", Name: "Paris", Latitude: 48.8566}
	apiGateway := &mockPlacesGateway{
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			return nil, errors.New("places down")
		},
	}
	dbGateway := &mockCityGateway{
		findBySearchTermFn: func(term string) ([]entity.City, error) {
			return []entity.City{stored}, nil
		},
		updateAttractionsFn: func(name string, latitude float64, attractions entity.AttractionList) error {
			t.Fatal("failure marker must not be written back")
			return nil
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	views, err := uc.SearchCities("paris", []entity.AttractionCategory{entity.CategoryCultural})
	require.NoError(t, err)
	assert.True(t, views[0].Attractions.HasFetchFailure())
}

func TestSearchCitiesLookupErrorFallsBackToFresh(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		searchCitiesFn: func(cityName string) ([]external.GeoDBCityDTO, error) {
			return []external.GeoDBCityDTO{parisDTO()}, nil
		},
	}
	dbGateway := &mockCityGateway{
		findBySearchTermFn: func(term string) ([]entity.City, error) {
			return nil, errors.New("database down")
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	views, err := uc.SearchCities("paris", nil)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestSearchCitiesPersistenceFailureStillReturnsResults(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		searchCitiesFn: func(cityName string) ([]external.GeoDBCityDTO, error) {
			return []external.GeoDBCityDTO{parisDTO()}, nil
		},
	}
	dbGateway := &mockCityGateway{
		insertManyFn: func(cities []entity.City) error {
			return errors.New("database down")
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	views, err := uc.SearchCities("paris", nil)
	require.NoError(t, err)
	assert.Len(t, views, 1)
}

func TestDeleteCityNotFound(t *testing.T) {
	uc := newTestUseCase(nil, &mockCityGateway{}, nil)

	resp, err := uc.DeleteCity("atlantis")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestDeleteCitySuccess(t *testing.T) {
	var deletedID uint
	dbGateway := &mockCityGateway{
		findByIDOrNameFn: func(identifier string) (*entity.City, error) {
			return &entity.City{ID: 42, Name: "Paris", CountryName: "France"}, nil
		},
		deleteByIDFn: func(id uint) error {
			deletedID = id
			return nil
		},
	}
	uc := newTestUseCase(nil, dbGateway, nil)

	resp, err := uc.DeleteCity("Paris")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, uint(42), deletedID)
	assert.Equal(t, "City 'Paris' deleted successfully", resp.Message)
	assert.Equal(t, "France", resp.DeletedCity.CountryName)
}

func TestDeleteCityEmptyIdentifier(t *testing.T) {
	uc := newTestUseCase(nil, nil, nil)

	_, err := uc.DeleteCity("")
	assert.Error(t, err)
}

func TestEnqueueRefreshCandidatesPaginates(t *testing.T) {
	pages := map[uint][]entity.City{
		0: {{ID: 1, Name: "Paris"}, {ID: 2, Name: "Lyon"}},
		2: {{ID: 5, Name: "Nice"}},
		5: {},
	}
	dbGateway := &mockCityGateway{
		findRefreshCandidatesFn: func(lastID uint, size int) ([]entity.City, error) {
			assert.Equal(t, 2, size)
			return pages[lastID], nil
		},
	}
	var batches [][]queue.BatchMessage
	sender := &mockQueueSender{
		sendBatchFn: func(ctx context.Context, queueName string, messages []queue.BatchMessage) (*queue.BatchResult, error) {
			assert.Equal(t, "attraction-refresh", queueName)
			batches = append(batches, messages)
			ids := make([]string, len(messages))
			for i, msg := range messages {
				ids[i] = msg.MessageID
			}
			return &queue.BatchResult{Successful: ids}, nil
		},
	}
	uc := newTestUseCase(nil, dbGateway, sender)

	enqueued, err := uc.EnqueueRefreshCandidates("req-123")
	require.NoError(t, err)
	assert.Equal(t, 3, enqueued)
	require.Len(t, batches, 2)
	assert.Equal(t, "req-123-1", batches[0][0].MessageID)
	assert.Equal(t, "req-123-5", batches[1][0].MessageID)
}

func TestEnqueueRefreshCandidatesScanFailure(t *testing.T) {
	dbGateway := &mockCityGateway{
		findRefreshCandidatesFn: func(lastID uint, size int) ([]entity.City, error) {
			return nil, errors.New("database down")
		},
	}
	uc := newTestUseCase(nil, dbGateway, nil)

	enqueued, err := uc.EnqueueRefreshCandidates("req-123")
	assert.Error(t, err)
	assert.Zero(t, enqueued)
}

func TestRefreshCityAttractions(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			assert.Len(t, categories, 6)
			return entity.AttractionList{{Name: "Louvre", Kinds: "cultural"}}, nil
		},
	}
	var updated entity.AttractionList
	dbGateway := &mockCityGateway{
		updateAttractionsFn: func(name string, latitude float64, attractions entity.AttractionList) error {
			updated = attractions
			return nil
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	err := uc.RefreshCityAttractions(entity.City{Name: "Paris", Latitude: 48.8566})
	require.NoError(t, err)
	require.Len(t, updated, 1)
}

func TestRefreshCityAttractionsFetchFailure(t *testing.T) {
	apiGateway := &mockPlacesGateway{
		attractionsFn: func(latitude, longitude float64, categories []entity.AttractionCategory) (entity.AttractionList, error) {
			return nil, errors.New("places down")
		},
	}
	dbGateway := &mockCityGateway{
		updateAttractionsFn: func(name string, latitude float64, attractions entity.AttractionList) error {
			t.Fatal("failed refresh must not touch the snapshot")
			return nil
		},
	}
	uc := newTestUseCase(apiGateway, dbGateway, nil)

	assert.Error(t, uc.RefreshCityAttractions(entity.City{Name: "Paris"}))
}

func TestPurgeStaleSnapshots(t *testing.T) {
	var cutoff time.Time
	dbGateway := &mockCityGateway{
		deleteOlderThanFn: func(c time.Time) (int64, error) {
			cutoff = c
			return 4, nil
		},
	}
	uc := newTestUseCase(nil, dbGateway, nil)

	removed, err := uc.PurgeStaleSnapshots(48 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(4), removed)
	assert.WithinDuration(t, time.Now().Add(-48*time.Hour), cutoff, time.Minute)
}
