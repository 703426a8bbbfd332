package api

import (
	"context"

	"go-ingest/internal/domain/model/external"
)

// CityGateway looks cities up by name on API Ninjas
type CityGateway interface {
	// SearchCity returns every match for name, best match first. An empty slice means not found.
	SearchCity(ctx context.Context, name string) ([]external.NinjasCityResponse, error)
}
