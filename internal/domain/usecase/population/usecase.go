package population

import (
	"context"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/model"
)

type UseCase interface {
	// Extract records today's population of every persisted city
	Extract(ctx context.Context) ([]entity.Population, model.SyncResult, error)
}
