package api

import (
	"context"

	"go-ingest/internal/domain/model/external"
)

// ForecastGateway fetches the OpenWeatherMap 5 day / 3 hour forecast
type ForecastGateway interface {
	GetForecast(ctx context.Context, lat, lon float64) ([]external.ForecastItem, error)
}
