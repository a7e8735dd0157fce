package model

import (
	"sort"
	"strconv"
	"strings"

	"city-api/internal/domain/entity"
	"city-api/pkg/util/numberutils"
)

// SearchInfo is a value object describing one upstream request: the path on
// the upstream base URL, its query parameters and headers. A zero SearchInfo
// means required parameters were missing and the caller must not issue the
// request.
type SearchInfo struct {
	Path    string
	Query   map[string]string
	Headers map[string]string
}

// IsZero reports whether the SearchInfo is the no-op value.
func (s SearchInfo) IsZero() bool {
	return s.Path == ""
}

// CacheKey builds a deterministic response-cache key from the base URL, path
// and sorted query parameters. Credentials in headers are deliberately left out.
func (s SearchInfo) CacheKey(baseURL string) string {
	keys := make([]string, 0, len(s.Query))
	for k := range s.Query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString(s.Path)
	for i, k := range keys {
		if i == 0 {
			b.WriteString("?")
		} else {
			b.WriteString("&")
		}
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(s.Query[k])
	}
	return b.String()
}

// SearchInfoConfig carries the upstream credentials and tuning knobs used by
// the factory.
type SearchInfoConfig struct {
	RapidAPIKey       string
	RapidAPIHost      string
	CityLimit         int
	WeatherAPIKey     string
	ForecastDays      int
	OpenTripMapAPIKey string
	RadiusMeters      int
	CategoryLimit     int
}

// SearchInfoFactory builds SearchInfo values for each of the four upstream
// calls: city lookup, current weather, attractions and forecast.
type SearchInfoFactory struct {
	config SearchInfoConfig
}

// NewSearchInfoFactory creates a factory with the provided configuration.
func NewSearchInfoFactory(config SearchInfoConfig) *SearchInfoFactory {
	if config.CityLimit == 0 {
		config.CityLimit = 6
	}
	if config.ForecastDays == 0 {
		config.ForecastDays = 3
	}
	if config.RadiusMeters == 0 {
		config.RadiusMeters = 5000
	}
	if config.CategoryLimit == 0 {
		config.CategoryLimit = 500
	}
	return &SearchInfoFactory{config: config}
}

// CitySearch builds the city lookup request for a name prefix.
func (f *SearchInfoFactory) CitySearch(cityName string) SearchInfo {
	if cityName == "" {
		return SearchInfo{}
	}
	return SearchInfo{
		Path: "/cities",
		Query: map[string]string{
			"namePrefix": cityName,
			"limit":      strconv.Itoa(f.config.CityLimit),
		},
		Headers: map[string]string{
			"X-RapidAPI-Host": f.config.RapidAPIHost,
			"X-RapidAPI-Key":  f.config.RapidAPIKey,
		},
	}
}

// CurrentWeather builds the current temperature request for a coordinate pair.
func (f *SearchInfoFactory) CurrentWeather(latitude, longitude float64) SearchInfo {
	if latitude == 0 && longitude == 0 {
		return SearchInfo{}
	}
	return SearchInfo{
		Path: "/current.json",
		Query: map[string]string{
			"q":   coordinateQuery(latitude, longitude),
			"key": f.config.WeatherAPIKey,
		},
	}
}

// Attractions builds the places request for a coordinate pair and category
// set. The result limit scales with the number of requested categories.
func (f *SearchInfoFactory) Attractions(latitude, longitude float64, categories []entity.AttractionCategory) SearchInfo {
	if (latitude == 0 && longitude == 0) || len(categories) == 0 {
		return SearchInfo{}
	}

	kinds := make([]string, len(categories))
	for i, category := range categories {
		kinds[i] = string(category)
	}

	return SearchInfo{
		Path: "/radius",
		Query: map[string]string{
			"kinds":  strings.Join(kinds, ","),
			"format": "json",
			"limit":  strconv.Itoa(f.config.CategoryLimit * len(categories)),
			"lat":    numberutils.FormatFloat(latitude),
			"lon":    numberutils.FormatFloat(longitude),
			"radius": strconv.Itoa(f.config.RadiusMeters),
			"apikey": f.config.OpenTripMapAPIKey,
		},
	}
}

// Forecast builds the multi-day forecast request for a coordinate pair.
func (f *SearchInfoFactory) Forecast(latitude, longitude float64) SearchInfo {
	if latitude == 0 && longitude == 0 {
		return SearchInfo{}
	}
	return SearchInfo{
		Path: "/forecast.json",
		Query: map[string]string{
			"q":    coordinateQuery(latitude, longitude),
			"days": strconv.Itoa(f.config.ForecastDays),
			"key":  f.config.WeatherAPIKey,
		},
	}
}

func coordinateQuery(latitude, longitude float64) string {
	return numberutils.FormatFloat(latitude) + "," + numberutils.FormatFloat(longitude)
}
