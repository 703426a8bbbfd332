// Package extract holds what the per-entity extractors share: run options,
// skip accounting and reads of the parent tables.
package extract

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/pkg/log"
	"go-ingest/pkg/msg"
	"go-ingest/pkg/util/fanout"
)

// SkipRecorder counts records dropped before they reach the sync engine.
type SkipRecorder interface {
	SkippedRecord(table string)
}

// Options tunes an extractor run.
type Options struct {
	// Concurrency bounds the upstream calls in flight.
	Concurrency int
	// Clock returns the run instant. Defaults to time.Now.
	Clock func() time.Time
	// Skips is notified of every malformed upstream item.
	Skips SkipRecorder
}

func (o Options) Now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock()
}

// Skip logs and counts an upstream item that cannot become a record.
func (o Options) Skip(table string, err error) {
	log.Warn(msg.GetMessage("ingest.skipped", table, err), zap.String("table", table), zap.Error(err))
	if o.Skips != nil {
		o.Skips.SkippedRecord(table)
	}
}

// Malformed builds an ErrMalformedRecord with context.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrMalformedRecord, fmt.Sprintf(format, args...))
}

// Batch is what one upstream call contributes to a record set.
type Batch[T any] struct {
	Items   []T
	Skipped int
}

// Collect fans fn out over parents and concatenates the batches in parent order.
func Collect[P, T any](ctx context.Context, o Options, parents []P, fn func(ctx context.Context, parent P) (Batch[T], error)) (Batch[T], error) {
	batches, err := fanout.Map(ctx, o.Concurrency, parents, fn)
	if err != nil {
		return Batch[T]{}, err
	}

	var out Batch[T]
	for _, b := range batches {
		out.Items = append(out.Items, b.Items...)
		out.Skipped += b.Skipped
	}
	return out, nil
}

// ReadCities returns the persisted cities with their surrogate ids.
func ReadCities(ctx context.Context, store db.TableGateway) ([]entity.City, error) {
	set, err := store.ReadTable(ctx, entity.CityTable)
	if err != nil {
		return nil, err
	}
	return entity.CitiesFromSet(set)
}

// ReadAirports returns the persisted airports with their surrogate ids.
func ReadAirports(ctx context.Context, store db.TableGateway) ([]entity.Airport, error) {
	set, err := store.ReadTable(ctx, entity.AirportTable)
	if err != nil {
		return nil, err
	}
	return entity.AirportsFromSet(set)
}
