package syncer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/gateway/lock"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/record"
	"go-ingest/pkg/log"
	"go-ingest/pkg/msg"
)

type syncUseCase struct {
	store   db.TableGateway
	locker  lock.TableLocker
	metrics Metrics
}

// NewSyncUseCase binds the engine to store. A nil locker falls back to an
// in-process lock per table, a nil metrics discards observations.
func NewSyncUseCase(store db.TableGateway, locker lock.TableLocker, metrics Metrics) UseCase {
	if locker == nil {
		locker = lock.NewLocalTableLocker()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &syncUseCase{
		store:   store,
		locker:  locker,
		metrics: metrics,
	}
}

func (uc *syncUseCase) Sync(ctx context.Context, table string, newRecords record.Set, keyColumns []string) (model.SyncResult, error) {
	result := model.SyncResult{Table: table, Received: newRecords.Len()}

	if err := validate(newRecords, keyColumns); err != nil {
		return result, fmt.Errorf("sync %s: %w", table, err)
	}

	started := time.Now()
	unlock, err := uc.locker.Lock(ctx, table)
	if err != nil {
		return result, fmt.Errorf("sync %s: lock table: %w", table, err)
	}
	defer unlock()

	existing, err := uc.store.ReadTable(ctx, table)
	if err != nil {
		return result, fmt.Errorf("sync %s: %w", table, err)
	}

	if len(existing.Columns) > 0 {
		if err := checkSubset(newRecords.Columns, existing.Columns); err != nil {
			return result, fmt.Errorf("sync %s: %w", table, err)
		}
	}

	d, err := diff(existing, newRecords, keyColumns)
	if err != nil {
		return result, fmt.Errorf("sync %s: %w", table, err)
	}

	result.Present = d.present
	result.Duplicates = d.duplicates
	result.Collisions = len(d.collisions)

	for _, c := range d.collisions {
		log.Warn(msg.GetMessage("sync.collision", c.key, table),
			zap.String("table", table),
			zap.String("first", c.existing),
			zap.String("second", c.incoming))
	}

	if len(d.selected) == 0 {
		log.Debug(msg.GetMessage("sync.nothing", table))
		uc.metrics.ObserveSync(table, 0, result.Present+result.Duplicates, result.Collisions, time.Since(started))
		return result, nil
	}

	log.Debug(msg.GetMessage("sync.start", len(d.selected), table))
	if err := uc.store.AppendRows(ctx, table, record.NewSet(newRecords.Columns, d.selected...)); err != nil {
		return result, fmt.Errorf("sync %s: %w", table, err)
	}

	result.Appended = len(d.selected)
	uc.metrics.ObserveSync(table, result.Appended, result.Present+result.Duplicates, result.Collisions, time.Since(started))
	log.Info(msg.GetMessage("sync.appended", result.Appended, table, result.Present, result.Duplicates),
		zap.String("table", table),
		zap.Int("appended", result.Appended))

	return result, nil
}

func validate(newRecords record.Set, keyColumns []string) error {
	if len(keyColumns) == 0 {
		return fmt.Errorf("%w: no key columns given", errs.ErrKeyColumnMissing)
	}
	if err := newRecords.Validate(); err != nil {
		return err
	}
	if newRecords.Len() == 0 {
		return nil
	}
	for _, c := range keyColumns {
		if !newRecords.HasColumn(c) {
			return fmt.Errorf("%w: %q", errs.ErrKeyColumnMissing, c)
		}
	}
	return nil
}

// checkSubset fails unless every incoming column exists in the persisted table.
func checkSubset(columns, tableColumns []string) error {
	known := make(map[string]struct{}, len(tableColumns))
	for _, c := range tableColumns {
		known[c] = struct{}{}
	}
	for _, c := range columns {
		if _, ok := known[c]; !ok {
			return fmt.Errorf("%w: column %q is not in the table", errs.ErrSchemaMismatch, c)
		}
	}
	return nil
}
