package weather

import (
	"context"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/model"
)

type UseCase interface {
	// Extract records the current forecast slots of every persisted city
	Extract(ctx context.Context) ([]entity.Weather, model.SyncResult, error)
}
