package db

import (
	"context"

	"go-ingest/internal/domain/model"
)

// MemoryHealthDBGateway reports the in-process store, which is up while the process is.
type MemoryHealthDBGateway struct{}

var _ HealthDBGateway = MemoryHealthDBGateway{}

func (MemoryHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	if err := ctx.Err(); err != nil {
		return downStatus(err)
	}
	return upStatus("memory")
}
