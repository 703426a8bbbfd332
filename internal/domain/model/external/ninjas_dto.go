package external

// NinjasCityResponse is one match returned by the API Ninjas city endpoint.
type NinjasCityResponse struct {
	Name       string   `json:"name"`
	Country    *string  `json:"country"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Population *int64   `json:"population"`
	IsCapital  bool     `json:"is_capital"`
}

// NinjasErrorResponse represents error responses from API Ninjas
type NinjasErrorResponse struct {
	Error string `json:"error"`
}
