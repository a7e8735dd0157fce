package external

// GeoDBCitiesResponse represents the response from the GeoDB cities API
type GeoDBCitiesResponse struct {
	Data []GeoDBCityDTO `json:"data"`
}

// GeoDBCityDTO represents a single city returned by the GeoDB cities API
type GeoDBCityDTO struct {
	Name       string  `json:"name"`
	Country    string  `json:"country"`
	Population int64   `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// APIErrorResponse represents error responses from the external APIs
type APIErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
