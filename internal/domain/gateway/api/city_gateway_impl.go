package api

import (
	"context"
	"fmt"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/model/external"
	"go-ingest/pkg/http"
)

// cityGatewayImpl implements the CityGateway interface
type cityGatewayImpl struct {
	httpClient *http.Client
	apiKey     string
}

// NewCityGateway creates a new instance of CityGateway with HTTP client
func NewCityGateway(baseUrl, apiKey string, clientOptions http.ClientOptions) CityGateway {
	return &cityGatewayImpl{
		httpClient: http.NewHttpClient(baseUrl, clientOptions),
		apiKey:     apiKey,
	}
}

// SearchCity searches for cities by name
func (g *cityGatewayImpl) SearchCity(ctx context.Context, name string) ([]external.NinjasCityResponse, error) {
	successResp, errResp, status, err := g.httpClient.Request().
		WithContext(ctx).
		WithMethod(http.GET).
		WithPath("/v1/city").
		WithQueryParams(map[string]string{"name": name}).
		WithHeaders(map[string]string{"X-Api-Key": g.apiKey}).
		WithSuccessResp(&[]external.NinjasCityResponse{}).
		WithErrorResp(&external.NinjasErrorResponse{}).
		Execute()

	if err == nil {
		if successResp == nil {
			return nil, nil
		}
		return *successResp.(*[]external.NinjasCityResponse), nil
	}

	if errResp != nil {
		errorResponse := errResp.(*external.NinjasErrorResponse)
		return nil, fmt.Errorf("%w: city lookup %q: status %d: %s", errs.ErrSourceUnavailable, name, status, errorResponse.Error)
	}
	return nil, fmt.Errorf("%w: city lookup %q: %w", errs.ErrSourceUnavailable, name, err)
}
