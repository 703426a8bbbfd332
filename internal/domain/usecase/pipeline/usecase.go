package pipeline

import (
	"context"

	"go-ingest/internal/domain/model"
)

type UseCase interface {
	// Run executes every stage for cityNames under a new request id
	Run(ctx context.Context, cityNames []string) (model.IngestResponseDTO, error)

	// RunEntities executes the named stages in dependency order. An empty requestID gets a generated one,
	// empty cityNames fall back to the configured list and empty entities select every stage.
	RunEntities(ctx context.Context, requestID string, cityNames []string, entities []string) (model.IngestResponseDTO, error)
}
