package flight

import (
	"context"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/model"
)

type UseCase interface {
	// Extract records the operated arrivals of every persisted airport and returns the flights table
	Extract(ctx context.Context) ([]entity.Flight, model.SyncResult, error)
}
