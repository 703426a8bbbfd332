package airport

import (
	"context"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/model"
)

// Result carries the persisted airports and the city links built in one run.
type Result struct {
	Airports []entity.Airport
	Links    []entity.CityAirport
}

type UseCase interface {
	// Extract searches airports around every persisted city, syncs airports and the city_airports bridge
	Extract(ctx context.Context) (Result, []model.SyncResult, error)
}
