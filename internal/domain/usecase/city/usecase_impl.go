package city

import (
	"context"
	"errors"
	"fmt"
	"time"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/gateway/api"
	"city-api/internal/domain/gateway/db"
	"city-api/internal/domain/gateway/queue"
	"city-api/internal/domain/model"
	"city-api/pkg/log"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const attractionsFailureMessage = "Failed to fetch attractions"

type cityUseCase struct {
	queueName   string
	batchSize   int
	apiGateway  api.PlacesGateway
	dbGateway   db.CityGateway
	queueSender queue.Sender
}

func NewCityUseCase(queueName string, batchSize int, queueSender queue.Sender, apiGateway api.PlacesGateway, dbGateway db.CityGateway) UseCase {
	return &cityUseCase{
		queueName:   queueName,
		batchSize:   batchSize,
		queueSender: queueSender,
		apiGateway:  apiGateway,
		dbGateway:   dbGateway,
	}
}

// SearchCities returns deduplicated, fully-enriched cities for a search term
// and category selection
func (uc *cityUseCase) SearchCities(searchTerm string, categories []entity.AttractionCategory) ([]*model.CityView, error) {
	if searchTerm == "" {
		return nil, errors.New("city name is required")
	}

	stored, err := uc.dbGateway.FindBySearchTerm(searchTerm)
	if err != nil {
		// A broken read-through lookup must not block fresh aggregation.
		log.Error("snapshot lookup failed, falling back to fresh aggregation",
			zap.String("search_term", searchTerm), zap.Error(err))
		stored = nil
	}

	if len(stored) > 0 {
		return uc.enrichFromSnapshots(stored, categories), nil
	}

	return uc.aggregateFresh(searchTerm, categories), nil
}

// enrichFromSnapshots rebuilds views from persisted snapshots. Temperature
// and forecast are always refreshed because they are time-sensitive;
// attractions are re-fetched only when the stored blob is empty or carries
// the fetch-failure marker, and the refreshed blob is written back.
func (uc *cityUseCase) enrichFromSnapshots(stored []entity.City, categories []entity.AttractionCategory) []*model.CityView {
	views := make([]*model.CityView, len(stored))
	for i, record := range stored {
		views[i] = model.NewCityView(record)
	}

	var group errgroup.Group
	for _, view := range views {
		view := view
		group.Go(func() error {
			uc.fetchTemperature(view)
			return nil
		})
		group.Go(func() error {
			uc.fetchForecast(view)
			return nil
		})
		group.Go(func() error {
			if len(view.Attractions) != 0 && !view.Attractions.HasFetchFailure() {
				return nil
			}
			if uc.fetchAttractions(view) {
				if err := uc.dbGateway.UpdateAttractions(view.Name, view.Latitude, view.Attractions); err != nil {
					log.Error("attractions write-back failed",
						zap.String("city", view.Name), zap.Error(err))
				}
			}
			return nil
		})
	}
	_ = group.Wait()

	for _, view := range views {
		view.PopulateDisplayAttractions(categories)
	}
	return views
}

// aggregateFresh looks the term up in the city API, enriches every unique
// result and persists the snapshots. Attractions are fetched for the full
// category universe so future searches with other selections reuse the same
// snapshot.
func (uc *cityUseCase) aggregateFresh(searchTerm string, categories []entity.AttractionCategory) []*model.CityView {
	results, err := uc.apiGateway.SearchCities(searchTerm)
	if err != nil {
		// An unreachable city lookup degrades to zero results.
		log.Error("city lookup failed", zap.String("search_term", searchTerm), zap.Error(err))
		return []*model.CityView{}
	}

	views := make([]*model.CityView, 0, len(results))
	for _, dto := range results {
		record := entity.City{
			SearchTerm:  searchTerm,
			Name:        dto.Name,
			CountryName: dto.Country,
			Population:  dto.Population,
			Latitude:    dto.Latitude,
			Longitude:   dto.Longitude,
		}
		views = append(views, model.NewCityView(record))
	}
	views = dedupeByID(views)

	var group errgroup.Group
	for _, view := range views {
		view := view
		group.Go(func() error {
			uc.fetchTemperature(view)
			return nil
		})
		group.Go(func() error {
			uc.fetchAttractions(view)
			return nil
		})
		group.Go(func() error {
			uc.fetchForecast(view)
			return nil
		})
	}
	_ = group.Wait()

	records := make([]entity.City, len(views))
	for i, view := range views {
		records[i] = view.ToEntity()
	}
	if err := uc.dbGateway.InsertMany(records); err != nil {
		// Persistence problems never block returning fresh data.
		log.Error("snapshot persistence failed", zap.String("search_term", searchTerm), zap.Error(err))
	}

	for _, view := range views {
		view.PopulateDisplayAttractions(categories)
	}
	return views
}

// fetchTemperature fills the current temperature, degrading to the no-data
// sentinel on failure.
func (uc *cityUseCase) fetchTemperature(view *model.CityView) {
	temp, err := uc.apiGateway.GetCurrentTemperature(view.Latitude, view.Longitude)
	if err != nil {
		log.Warnf("temperature fetch failed for %s: %v", view.Name, err)
		view.CurrentTemp = model.NoDataAvailable
		return
	}
	view.CurrentTemp = temp
}

// fetchAttractions fills attractions for the full category universe and
// reports whether the fetch succeeded. On failure the attractions become the
// fetch-failure marker.
func (uc *cityUseCase) fetchAttractions(view *model.CityView) bool {
	attractions, err := uc.apiGateway.GetAttractions(view.Latitude, view.Longitude, entity.AllAttractionCategories())
	if err != nil {
		log.Warnf("attractions fetch failed for %s: %v", view.Name, err)
		view.Attractions = entity.NewFetchFailureMarker(attractionsFailureMessage)
		return false
	}
	view.Attractions = attractions
	return true
}

// fetchForecast fills the multi-day forecast, degrading to an empty forecast
// on failure.
func (uc *cityUseCase) fetchForecast(view *model.CityView) {
	forecast, err := uc.apiGateway.GetForecast(view.Latitude, view.Longitude)
	if err != nil {
		log.Warnf("forecast fetch failed for %s: %v", view.Name, err)
		view.Forecast = []model.ForecastDay{}
		return
	}
	view.ExtractForecast(*forecast)
}

// dedupeByID drops cities whose name+latitude identity collides. The first
// occurrence keeps its position and the last colliding value wins it.
func dedupeByID(views []*model.CityView) []*model.CityView {
	position := make(map[string]int, len(views))
	unique := make([]*model.CityView, 0, len(views))

	for _, view := range views {
		if idx, exists := position[view.ID]; exists {
			unique[idx] = view
			continue
		}
		position[view.ID] = len(unique)
		unique = append(unique, view)
	}
	return unique
}

// DeleteCity removes a snapshot resolved by id, exact name, case-insensitive
// name or substring match
func (uc *cityUseCase) DeleteCity(identifier string) (*model.DeleteCityResponse, error) {
	if identifier == "" {
		return nil, errors.New("city identifier is required")
	}

	target, err := uc.dbGateway.FindByIDOrName(identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve city %q: %w", identifier, err)
	}
	if target == nil {
		return nil, nil
	}

	if err := uc.dbGateway.DeleteByID(target.ID); err != nil {
		return nil, fmt.Errorf("failed to delete city %q: %w", target.Name, err)
	}

	return &model.DeleteCityResponse{
		Message: fmt.Sprintf("City '%s' deleted successfully", target.Name),
		DeletedCity: &model.DeletedRef{
			Name:        target.Name,
			CountryName: target.CountryName,
		},
	}, nil
}

// EnqueueRefreshCandidates walks every snapshot with empty or failed
// attractions using keyset pagination and enqueues them in batches
func (uc *cityUseCase) EnqueueRefreshCandidates(requestID string) (int, error) {
	ctx := context.Background()
	var lastID uint
	enqueued := 0

	for {
		candidates, err := uc.dbGateway.FindRefreshCandidates(lastID, uc.batchSize)
		if err != nil {
			return enqueued, fmt.Errorf("failed to scan refresh candidates: %w", err)
		}
		if len(candidates) == 0 {
			return enqueued, nil
		}

		messages := make([]queue.BatchMessage, len(candidates))
		for i, candidate := range candidates {
			messages[i] = queue.BatchMessage{
				MessageID: fmt.Sprintf("%s-%d", requestID, candidate.ID),
				Body:      candidate,
			}
		}

		result, err := uc.queueSender.SendMessageBatch(ctx, uc.queueName, messages)
		if err != nil {
			return enqueued, fmt.Errorf("failed to enqueue refresh batch: %w", err)
		}
		if len(result.Failed) > 0 {
			log.Warnf("failed to enqueue %d of %d refresh candidates", len(result.Failed), len(messages))
		}
		enqueued += len(result.Successful)

		lastID = candidates[len(candidates)-1].ID
	}
}

// RefreshCityAttractions re-fetches the full attraction universe for one
// snapshot and persists the result
func (uc *cityUseCase) RefreshCityAttractions(city entity.City) error {
	attractions, err := uc.apiGateway.GetAttractions(city.Latitude, city.Longitude, entity.AllAttractionCategories())
	if err != nil {
		return fmt.Errorf("failed to refresh attractions for %s: %w", city.Name, err)
	}

	if err := uc.dbGateway.UpdateAttractions(city.Name, city.Latitude, attractions); err != nil {
		return fmt.Errorf("failed to persist refreshed attractions for %s: %w", city.Name, err)
	}

	log.Infof("refreshed %d attractions for city %s", len(attractions), city.Name)
	return nil
}

// PurgeStaleSnapshots removes snapshots not updated within the retention window
func (uc *cityUseCase) PurgeStaleSnapshots(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	removed, err := uc.dbGateway.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge stale snapshots: %w", err)
	}
	return removed, nil
}
