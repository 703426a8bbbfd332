package city

import (
	"context"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/model"
)

type UseCase interface {
	// Extract looks every name up, syncs the cities table and returns it with surrogate ids
	Extract(ctx context.Context, names []string) ([]entity.City, model.SyncResult, error)
}
