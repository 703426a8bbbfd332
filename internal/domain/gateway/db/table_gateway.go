package db

import (
	"context"
	"fmt"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

// TableGateway is the persistent store tables are synchronized into.
type TableGateway interface {
	// ReadTable returns every row of name with the table's column list.
	// A table that does not exist yields an empty set.
	ReadTable(ctx context.Context, name string) (record.Set, error)
	// AppendRows inserts all rows in one transaction, or none of them.
	AppendRows(ctx context.Context, name string, rows record.Set) error
}

// TableOptions tunes the behaviour shared by every TableGateway.
type TableOptions struct {
	// CreateMissing creates an absent table on first append instead of failing with ErrTableNotFound.
	CreateMissing bool
	// BatchSize bounds the rows sent per statement where the backend batches.
	BatchSize int
}

func (o TableOptions) batchSize() int {
	if o.BatchSize <= 0 {
		return 500
	}
	return o.BatchSize
}

// checkColumns fails with ErrSchemaMismatch unless every column of rows exists in the table.
func checkColumns(name string, tableColumns []string, rows record.Set) error {
	known := make(map[string]struct{}, len(tableColumns))
	for _, c := range tableColumns {
		known[c] = struct{}{}
	}
	for _, c := range rows.Columns {
		if _, ok := known[c]; !ok {
			return fmt.Errorf("%w: table %s has no column %q", errs.ErrSchemaMismatch, name, c)
		}
	}
	return nil
}

func storeError(op, name string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", errs.ErrStoreUnavailable, op, name, err)
}
