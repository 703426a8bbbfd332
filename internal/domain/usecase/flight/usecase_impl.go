package flight

import (
	"context"
	"fmt"
	"time"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/gateway/api"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/model/external"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/syncer"
)

const (
	QueryTimeLayout   = "2006-01-02 15:04:05"
	LandingTimeLayout = "2006-01-02 15:04"

	// operatorStatus marks the operating carrier's row among codeshares
	operatorStatus = "IsOperator"
)

// scheduledLayouts are the renderings AeroDataBox uses for scheduled times
var scheduledLayouts = []string{
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339,
	"2006-01-02 15:04",
}

// Window is the arrival range queried, relative to the run instant.
type Window struct {
	From time.Duration
	To   time.Duration
}

// DefaultWindow looks 24 to 36 hours ahead.
func DefaultWindow() Window {
	return Window{From: 24 * time.Hour, To: 36 * time.Hour}
}

type flightUseCase struct {
	apiGateway api.FlightGateway
	syncer     syncer.UseCase
	store      db.TableGateway
	window     Window
	opts       extract.Options
}

func NewFlightUseCase(apiGateway api.FlightGateway, syncUseCase syncer.UseCase, store db.TableGateway, window Window, opts extract.Options) UseCase {
	if window.To <= window.From {
		window = DefaultWindow()
	}
	return &flightUseCase{
		apiGateway: apiGateway,
		syncer:     syncUseCase,
		store:      store,
		window:     window,
		opts:       opts,
	}
}

func (uc *flightUseCase) Extract(ctx context.Context) ([]entity.Flight, model.SyncResult, error) {
	result := model.SyncResult{Table: entity.FlightTable}

	airports, err := extract.ReadAirports(ctx, uc.store)
	if err != nil {
		return nil, result, fmt.Errorf("failed to read airports: %w", err)
	}

	now := uc.opts.Now()
	queryTime := now.Format(QueryTimeLayout)
	from, to := now.Add(uc.window.From), now.Add(uc.window.To)

	batch, err := extract.Collect(ctx, uc.opts, airports, func(ctx context.Context, airport entity.Airport) (extract.Batch[entity.Flight], error) {
		items, err := uc.apiGateway.GetArrivals(ctx, airport.IATA, from, to)
		if err != nil {
			return extract.Batch[entity.Flight]{}, err
		}

		var batch extract.Batch[entity.Flight]
		for _, item := range items {
			if item.CodeshareStatus != operatorStatus {
				continue
			}
			flight, err := toFlight(airport.ID, queryTime, item)
			if err != nil {
				uc.opts.Skip(entity.FlightTable, err)
				batch.Skipped++
				continue
			}
			batch.Items = append(batch.Items, flight)
		}
		return batch, nil
	})
	if err != nil {
		return nil, result, err
	}

	result, err = uc.syncer.Sync(ctx, entity.FlightTable, entity.ToSet(entity.FlightColumns, batch.Items), entity.FlightKey)
	result.Skipped = batch.Skipped
	if err != nil {
		return nil, result, err
	}

	set, err := uc.store.ReadTable(ctx, entity.FlightTable)
	if err != nil {
		return nil, result, fmt.Errorf("failed to read back flights: %w", err)
	}
	flights, err := entity.FlightsFromSet(set)
	if err != nil {
		return nil, result, err
	}
	return flights, result, nil
}

func toFlight(airportID int64, queryTime string, item external.FlightItem) (entity.Flight, error) {
	if item.Number == nil || *item.Number == "" {
		return entity.Flight{}, extract.Malformed("arrival has no flight number")
	}
	if item.Movement == nil || item.Movement.ScheduledTime == nil ||
		item.Movement.ScheduledTime.Local == nil || item.Movement.ScheduledTime.UTC == nil {
		return entity.Flight{}, extract.Malformed("flight %s has no scheduled time", *item.Number)
	}

	local, err := landingTime(*item.Movement.ScheduledTime.Local)
	if err != nil {
		return entity.Flight{}, extract.Malformed("flight %s: %v", *item.Number, err)
	}
	utc, err := landingTime(*item.Movement.ScheduledTime.UTC)
	if err != nil {
		return entity.Flight{}, extract.Malformed("flight %s: %v", *item.Number, err)
	}

	return entity.Flight{
		AirportID:      airportID,
		QueryTime:      queryTime,
		Number:         *item.Number,
		LandingTime:    local,
		LandingTimeUTC: utc,
	}, nil
}

// landingTime keeps the wall clock of a scheduled time, dropping its offset
func landingTime(value string) (string, error) {
	for _, layout := range scheduledLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(LandingTimeLayout), nil
		}
	}
	return "", fmt.Errorf("unparseable scheduled time %q", value)
}
