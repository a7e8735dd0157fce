package external

// CurrentWeatherResponse represents the response from the current weather API
type CurrentWeatherResponse struct {
	Current CurrentConditionDTO `json:"current"`
}

// CurrentConditionDTO carries the current conditions of a location
type CurrentConditionDTO struct {
	TempC float64 `json:"temp_c"`
}

// ForecastResponse represents the response from the weather forecast API
type ForecastResponse struct {
	Forecast ForecastDTO `json:"forecast"`
}

// ForecastDTO wraps the per-day forecast entries
type ForecastDTO struct {
	ForecastDay []ForecastDayDTO `json:"forecastday"`
}

// ForecastDayDTO represents the forecast for a single day
type ForecastDayDTO struct {
	Date string        `json:"date"`
	Day  ForecastTemps `json:"day"`
}

// ForecastTemps carries the aggregated temperatures for a forecast day
type ForecastTemps struct {
	AvgTempC float64 `json:"avgtemp_c"`
}
