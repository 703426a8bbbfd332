package syncer

import (
	"context"
	"time"

	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/record"
)

type UseCase interface {
	// Sync appends the rows of newRecords whose composite key over keyColumns
	// is not yet present in table. Existing rows are never rewritten.
	Sync(ctx context.Context, table string, newRecords record.Set, keyColumns []string) (model.SyncResult, error)
}

// Metrics receives the outcome of every successful Sync.
type Metrics interface {
	ObserveSync(table string, appended, duplicates, collisions int, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveSync(string, int, int, int, time.Duration) {}
