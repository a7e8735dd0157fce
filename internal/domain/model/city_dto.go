package model

// CitySearchResponse wraps the enriched cities returned by a search
type CitySearchResponse struct {
	Cities []*CityView `json:"cities"`
}

// DeleteCityResponse confirms a snapshot deletion
type DeleteCityResponse struct {
	Message     string      `json:"message"`
	DeletedCity *DeletedRef `json:"deletedCity,omitempty"`
}

// DeletedRef identifies the snapshot that was removed
type DeletedRef struct {
	Name        string `json:"name"`
	CountryName string `json:"countryName"`
}
