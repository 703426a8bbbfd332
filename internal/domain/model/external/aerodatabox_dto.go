package external

// AirportSearchResponse is the result of an airport search by location.
type AirportSearchResponse struct {
	Items []AirportItem `json:"items"`
}

type AirportItem struct {
	ICAO         string    `json:"icao"`
	IATA         *string   `json:"iata"`
	Name         *string   `json:"name"`
	ShortName    string    `json:"shortName"`
	Municipality string    `json:"municipalityName"`
	CountryCode  string    `json:"countryCode"`
	TimeZone     *string   `json:"timeZone"`
	Location     *Location `json:"location"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FlightArrivalsResponse lists the movements of an airport within a time window.
type FlightArrivalsResponse struct {
	Arrivals []FlightItem `json:"arrivals"`
}

type FlightItem struct {
	Number          *string   `json:"number"`
	CodeshareStatus string    `json:"codeshareStatus"`
	Status          string    `json:"status"`
	IsCargo         bool      `json:"isCargo"`
	Movement        *Movement `json:"movement"`
}

type Movement struct {
	ScheduledTime *ScheduledTime `json:"scheduledTime"`
	Terminal      string         `json:"terminal"`
}

// ScheduledTime holds the provider's local and UTC renderings, e.g. "2024-05-02 14:35+02:00".
type ScheduledTime struct {
	UTC   *string `json:"utc"`
	Local *string `json:"local"`
}

// AeroDataBoxErrorResponse represents error responses from AeroDataBox
type AeroDataBoxErrorResponse struct {
	Message string `json:"message"`
}
