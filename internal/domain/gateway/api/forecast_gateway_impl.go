package api

import (
	"context"
	"fmt"
	"strconv"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/model/external"
	"go-ingest/pkg/http"
)

// forecastGatewayImpl implements the ForecastGateway interface
type forecastGatewayImpl struct {
	httpClient *http.Client
	apiKey     string
	units      string
}

// NewForecastGateway creates a new instance of ForecastGateway with HTTP client
func NewForecastGateway(baseUrl, apiKey, units string, clientOptions http.ClientOptions) ForecastGateway {
	if units == "" {
		units = "metric"
	}
	return &forecastGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		apiKey:     apiKey,
		units:      units,
	}
}

// GetForecast gets the forecast slots for a location
func (g *forecastGatewayImpl) GetForecast(ctx context.Context, lat, lon float64) ([]external.ForecastItem, error) {
	successResp, errResp, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath("/data/2.5/forecast").
		WithQueryParams(map[string]string{
			"lat":   strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":   strconv.FormatFloat(lon, 'f', -1, 64),
			"appid": g.apiKey,
			"units": g.units,
		}).
		WithSuccessResp(&external.ForecastResponse{}).
		WithErrorResp(&external.OpenWeatherErrorResponse{}).
		Execute()

	if err == nil {
		if successResp == nil {
			return nil, nil
		}
		return successResp.(*external.ForecastResponse).List, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.OpenWeatherErrorResponse)
		return nil, fmt.Errorf("%w: forecast (%v,%v): status %d: %s", errs.ErrSourceUnavailable, lat, lon, status, errorResponse.Message)
	}
	return nil, fmt.Errorf("%w: forecast (%v,%v): %w", errs.ErrSourceUnavailable, lat, lon, err)
}
