package db

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

type memoryTable struct {
	columns []string
	id      string
	nextID  int64
	rows    []record.Record
}

// MemoryTableGateway keeps tables in process memory. Known tables get a
// surrogate id column assigned on append, like the SQL backends.
type MemoryTableGateway struct {
	mu     sync.RWMutex
	opts   TableOptions
	tables map[string]*memoryTable
}

var _ TableGateway = (*MemoryTableGateway)(nil)

func NewMemoryTableGateway(opts TableOptions) *MemoryTableGateway {
	return &MemoryTableGateway{opts: opts, tables: make(map[string]*memoryTable)}
}

func (gateway *MemoryTableGateway) ReadTable(ctx context.Context, name string) (record.Set, error) {
	if err := ctx.Err(); err != nil {
		return record.Set{}, storeError("read", name, err)
	}

	gateway.mu.RLock()
	defer gateway.mu.RUnlock()

	t, ok := gateway.tables[name]
	if !ok {
		return record.Set{}, nil
	}

	set := record.NewSet(append([]string(nil), t.columns...))
	set.Rows = make([]record.Record, 0, len(t.rows))
	for _, row := range t.rows {
		set.Append(maps.Clone(row))
	}
	return set, nil
}

func (gateway *MemoryTableGateway) AppendRows(ctx context.Context, name string, rows record.Set) error {
	if err := ctx.Err(); err != nil {
		return storeError("append", name, err)
	}
	if err := rows.Validate(); err != nil {
		return err
	}

	gateway.mu.Lock()
	defer gateway.mu.Unlock()

	t, ok := gateway.tables[name]
	if !ok {
		if !gateway.opts.CreateMissing {
			return fmt.Errorf("%w: %s", errs.ErrTableNotFound, name)
		}
		t = newMemoryTable(name, rows.Columns)
		gateway.tables[name] = t
	}
	if err := checkColumns(name, t.columns, rows); err != nil {
		return err
	}

	appended := make([]record.Record, 0, rows.Len())
	next := t.nextID
	for _, row := range rows.Rows {
		stored := make(record.Record, len(t.columns))
		for _, c := range t.columns {
			stored[c] = row[c]
		}
		if t.id != "" {
			next++
			stored[t.id] = next
		}
		appended = append(appended, stored)
	}
	t.nextID = next
	t.rows = append(t.rows, appended...)
	return nil
}

func newMemoryTable(name string, columns []string) *memoryTable {
	t := &memoryTable{columns: append([]string(nil), columns...)}
	if known, ok := entity.LookupTable(name); ok {
		t.columns = append([]string(nil), known.Columns...)
		if known.ID != "" {
			t.id = known.ID
			t.columns = append([]string{known.ID}, t.columns...)
		}
	}
	return t
}
