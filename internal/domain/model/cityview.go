package model

import (
	"strings"

	"city-api/internal/domain/entity"
	"city-api/internal/domain/model/external"
)

// AttractionPerCategoryLimit caps how many attraction names each category
// collects in the display projection.
const AttractionPerCategoryLimit = 5

// NoDataAvailable stands in for the current temperature when the weather
// upstream could not be reached.
const NoDataAvailable = "No data available"

// DisplayErrorKey is the display projection key used when attractions carry
// the fetch-failure marker.
const DisplayErrorKey = "Error"

// ForecastDay is one entry of the multi-day forecast.
type ForecastDay struct {
	Date    string  `json:"date"`
	AvgTemp float64 `json:"avgTemp"`
}

// CityView is the fully-enriched city returned to callers. It is built fresh
// from an upstream payload or reconstructed from a persisted snapshot; the
// display projection is recomputed per request and never persisted.
type CityView struct {
	ID                 string                 `json:"id"`
	SearchTerm         string                 `json:"searchTerm"`
	Name               string                 `json:"name"`
	CountryName        string                 `json:"countryName"`
	Population         int64                  `json:"population"`
	Latitude           float64                `json:"latitude"`
	Longitude          float64                `json:"longitude"`
	CurrentTemp        any                    `json:"currentTemp"`
	Attractions        entity.AttractionList  `json:"attractions"`
	DisplayAttractions map[string][]string    `json:"displayAttractions"`
	Forecast           []ForecastDay          `json:"forecast"`
}

// NewCityView reconstructs a view from a persisted snapshot. Temperature,
// forecast and display projection start empty and are filled per request.
func NewCityView(city entity.City) *CityView {
	attractions := city.Attractions
	if attractions == nil {
		attractions = entity.AttractionList{}
	}
	return &CityView{
		ID:                 city.SnapshotID(),
		SearchTerm:         city.SearchTerm,
		Name:               city.Name,
		CountryName:        city.CountryName,
		Population:         city.Population,
		Latitude:           city.Latitude,
		Longitude:          city.Longitude,
		CurrentTemp:        float64(0),
		Attractions:        attractions,
		DisplayAttractions: map[string][]string{},
		Forecast:           []ForecastDay{},
	}
}

// ToEntity converts the view into its persisted form.
func (v *CityView) ToEntity() entity.City {
	return entity.City{
		SearchTerm:  v.SearchTerm,
		Name:        v.Name,
		CountryName: v.CountryName,
		Population:  v.Population,
		Latitude:    v.Latitude,
		Longitude:   v.Longitude,
		Attractions: v.Attractions,
	}
}

// PopulateDisplayAttractions computes the per-category display projection.
//
// Attractions are walked in upstream order; each one lands in the first
// selected category its kinds match, until that category reaches its cap.
// A capped category is removed from the matching set so later attractions
// skip it. When attractions carry the fetch-failure marker, the projection is
// a single error-labeled entry instead.
func (v *CityView) PopulateDisplayAttractions(selected []entity.AttractionCategory) {
	if v.DisplayAttractions == nil {
		v.DisplayAttractions = map[string][]string{}
	}

	if v.Attractions.HasFetchFailure() {
		v.DisplayAttractions = map[string][]string{
			DisplayErrorKey: {v.Attractions.FailureMessage()},
		}
		return
	}

	if len(v.Attractions) == 0 || len(selected) == 0 {
		return
	}

	catsToMatch := make([]entity.AttractionCategory, len(selected))
	copy(catsToMatch, selected)

	for _, attraction := range v.Attractions {
		if attraction.Name == "" || len(catsToMatch) == 0 {
			continue
		}

		matching, ok := firstMatchingCategory(attraction.Kinds, catsToMatch)
		if !ok {
			continue
		}

		displayKey := entity.CategoryDisplayNames[matching]
		if len(v.DisplayAttractions[displayKey]) < AttractionPerCategoryLimit {
			v.DisplayAttractions[displayKey] = append(v.DisplayAttractions[displayKey], attraction.Name)
		} else {
			catsToMatch = removeCategory(catsToMatch, matching)
		}
	}
}

// ExtractForecast maps the upstream forecast payload onto the view.
func (v *CityView) ExtractForecast(resp external.ForecastResponse) {
	forecast := make([]ForecastDay, 0, len(resp.Forecast.ForecastDay))
	for _, day := range resp.Forecast.ForecastDay {
		forecast = append(forecast, ForecastDay{
			Date:    day.Date,
			AvgTemp: day.Day.AvgTempC,
		})
	}
	v.Forecast = forecast
}

func firstMatchingCategory(kinds string, categories []entity.AttractionCategory) (entity.AttractionCategory, bool) {
	kindSet := map[string]bool{}
	for _, kind := range strings.Split(kinds, ",") {
		if kind != "" {
			kindSet[kind] = true
		}
	}

	for _, category := range categories {
		if kindSet[string(category)] {
			return category, true
		}
	}
	return "", false
}

func removeCategory(categories []entity.AttractionCategory, target entity.AttractionCategory) []entity.AttractionCategory {
	filtered := categories[:0]
	for _, category := range categories {
		if category != target {
			filtered = append(filtered, category)
		}
	}
	return filtered
}
