package external

// ForecastResponse is the OpenWeatherMap 5 day / 3 hour forecast.
type ForecastResponse struct {
	Code string         `json:"cod"`
	List []ForecastItem `json:"list"`
}

// ForecastItem is one 3 hour slot. Rain and Snow are only present when precipitation is expected;
// every other measurement is required and stays nil when the API leaves it out.
type ForecastItem struct {
	Dt         int64              `json:"dt"`
	DtTxt      *string            `json:"dt_txt"`
	Main       *ForecastMain      `json:"main"`
	Weather    []ForecastWeather  `json:"weather"`
	Wind       *ForecastWind      `json:"wind"`
	Rain       map[string]float64 `json:"rain"`
	Snow       map[string]float64 `json:"snow"`
	Pop        *float64           `json:"pop"`
	Visibility *int64             `json:"visibility"`
}

type ForecastMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike float64  `json:"feels_like"`
	Humidity  int      `json:"humidity"`
}

type ForecastWeather struct {
	ID          *int64 `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
}

type ForecastWind struct {
	Speed *float64 `json:"speed"`
	Deg   int      `json:"deg"`
}

// OpenWeatherErrorResponse represents error responses from OpenWeatherMap
type OpenWeatherErrorResponse struct {
	Code    any    `json:"cod"`
	Message string `json:"message"`
}
