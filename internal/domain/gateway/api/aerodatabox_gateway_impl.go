package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/model/external"
	"go-ingest/pkg/http"
)

const aeroDataBoxWindowLayout = "2006-01-02T15:04"

// AeroDataBoxOptions holds the search parameters sent on every call
type AeroDataBoxOptions struct {
	APIKey   string
	Host     string
	RadiusKm int
	Limit    int
}

// aeroDataBoxGatewayImpl implements both AirportGateway and FlightGateway
type aeroDataBoxGatewayImpl struct {
	httpClient *http.Client
	opts       AeroDataBoxOptions
}

// NewAeroDataBoxGateway creates the AeroDataBox gateway with HTTP client
func NewAeroDataBoxGateway(baseUrl string, opts AeroDataBoxOptions, clientOptions http.ClientOptions) AeroDataBoxGateway {
	if opts.RadiusKm <= 0 {
		opts.RadiusKm = 50
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	return &aeroDataBoxGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		opts:       opts,
	}
}

func (g *aeroDataBoxGatewayImpl) headers() map[string]string {
	headers := map[string]string{"x-rapidapi-key": g.opts.APIKey}
	if g.opts.Host != "" {
		headers["x-rapidapi-host"] = g.opts.Host
	}
	return headers
}

// SearchByLocation returns the airports with flight information around lat/lon
func (g *aeroDataBoxGatewayImpl) SearchByLocation(ctx context.Context, lat, lon float64) ([]external.AirportItem, error) {
	successResp, errResp, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath("/airports/search/location").
		WithQueryParams(map[string]string{
			"lat":                strconv.FormatFloat(lat, 'f', -1, 64),
			"lon":                strconv.FormatFloat(lon, 'f', -1, 64),
			"radiusKm":           strconv.Itoa(g.opts.RadiusKm),
			"limit":              strconv.Itoa(g.opts.Limit),
			"withFlightInfoOnly": "true",
		}).
		WithHeaders(g.headers()).
		WithSuccessResp(&external.AirportSearchResponse{}).
		WithErrorResp(&external.AeroDataBoxErrorResponse{}).
		Execute()

	if err == nil {
		if successResp == nil {
			return nil, nil
		}
		return successResp.(*external.AirportSearchResponse).Items, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.AeroDataBoxErrorResponse)
		return nil, fmt.Errorf("%w: airport search (%v,%v): status %d: %s", errs.ErrSourceUnavailable, lat, lon, status, errorResponse.Message)
	}
	return nil, fmt.Errorf("%w: airport search (%v,%v): %w", errs.ErrSourceUnavailable, lat, lon, err)
}

// GetArrivals returns the arrivals of an airport inside the window
func (g *aeroDataBoxGatewayImpl) GetArrivals(ctx context.Context, iata string, from, to time.Time) ([]external.FlightItem, error) {
	path := fmt.Sprintf("/flights/airports/iata/%s/%s/%s",
		url.PathEscape(iata), from.Format(aeroDataBoxWindowLayout), to.Format(aeroDataBoxWindowLayout))

	successResp, errResp, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath(path).
		WithQueryParams(map[string]string{
			"withLeg":        "false",
			"direction":      "Arrival",
			"withCancelled":  "false",
			"withCodeshared": "true",
			"withCargo":      "false",
			"withPrivate":    "false",
			"withLocation":   "false",
		}).
		WithHeaders(g.headers()).
		WithSuccessResp(&external.FlightArrivalsResponse{}).
		WithErrorResp(&external.AeroDataBoxErrorResponse{}).
		Execute()

	if err == nil {
		if successResp == nil {
			return nil, nil
		}
		return successResp.(*external.FlightArrivalsResponse).Arrivals, nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.AeroDataBoxErrorResponse)
		return nil, fmt.Errorf("%w: arrivals %s: status %d: %s", errs.ErrSourceUnavailable, iata, status, errorResponse.Message)
	}
	return nil, fmt.Errorf("%w: arrivals %s: %w", errs.ErrSourceUnavailable, iata, err)
}
