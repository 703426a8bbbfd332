package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/gateway/queue"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/usecase/airport"
	"go-ingest/internal/domain/usecase/city"
	"go-ingest/internal/domain/usecase/flight"
	"go-ingest/internal/domain/usecase/population"
	"go-ingest/internal/domain/usecase/weather"
	"go-ingest/pkg/log"
	"go-ingest/pkg/msg"
)

// ErrUnknownEntity is returned when a requested entity names no stage.
var ErrUnknownEntity = errors.New("unknown entity")

// Stages are the extractors run in dependency order.
type Stages struct {
	Cities      city.UseCase
	Airports    airport.UseCase
	Populations population.UseCase
	Weathers    weather.UseCase
	Flights     flight.UseCase
}

// Options configures a pipeline.
type Options struct {
	// DefaultCities is used when a run names no cities.
	DefaultCities []string
	// EventsQueue receives one SyncEventDTO per table that gained rows and a RunFailedEventDTO
	// when a stage aborts the run. Empty disables publishing.
	EventsQueue string
	Sender      queue.Sender
}

type pipelineUseCase struct {
	stages Stages
	opts   Options
}

func NewPipelineUseCase(stages Stages, opts Options) UseCase {
	return &pipelineUseCase{
		stages: stages,
		opts:   opts,
	}
}

func (uc *pipelineUseCase) Run(ctx context.Context, cityNames []string) (model.IngestResponseDTO, error) {
	return uc.RunEntities(ctx, "", cityNames, nil)
}

func (uc *pipelineUseCase) RunEntities(ctx context.Context, requestID string, cityNames []string, entities []string) (model.IngestResponseDTO, error) {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	response := model.IngestResponseDTO{RequestID: requestID, Results: []model.SyncResult{}}

	selected, err := selectStages(entities)
	if err != nil {
		return response, err
	}
	if len(cityNames) == 0 {
		cityNames = uc.opts.DefaultCities
	}

	log.Info(msg.GetMessage("ingest.start", requestID, len(cityNames)),
		zap.String("request_id", requestID),
		zap.Strings("entities", selected))

	for _, stage := range selected {
		results, err := uc.runStage(ctx, stage, cityNames)
		response.Results = append(response.Results, results...)
		if err != nil {
			log.Error(msg.GetMessage("ingest.failed", requestID, stage),
				zap.String("request_id", requestID),
				zap.String("stage", stage),
				zap.Error(err))
			uc.publish(ctx, response)
			uc.publishFailure(ctx, response, stage, err)
			return response, fmt.Errorf("stage %s: %w", stage, err)
		}
	}

	uc.publish(ctx, response)
	log.Info(msg.GetMessage("ingest.end", requestID),
		zap.String("request_id", requestID),
		zap.Int("tables", len(response.Results)))
	return response, nil
}

func (uc *pipelineUseCase) runStage(ctx context.Context, stage string, cityNames []string) ([]model.SyncResult, error) {
	switch stage {
	case entity.CityTable:
		_, result, err := uc.stages.Cities.Extract(ctx, cityNames)
		return []model.SyncResult{result}, err
	case entity.AirportTable:
		_, results, err := uc.stages.Airports.Extract(ctx)
		return results, err
	case entity.PopulationTable:
		_, result, err := uc.stages.Populations.Extract(ctx)
		return []model.SyncResult{result}, err
	case entity.WeatherTable:
		_, result, err := uc.stages.Weathers.Extract(ctx)
		return []model.SyncResult{result}, err
	case entity.FlightTable:
		_, result, err := uc.stages.Flights.Extract(ctx)
		return []model.SyncResult{result}, err
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, stage)
}

// order lists the stages as they must run. Airports also fill city_airports.
var order = []string{
	entity.CityTable,
	entity.AirportTable,
	entity.PopulationTable,
	entity.WeatherTable,
	entity.FlightTable,
}

// selectStages resolves requested entities into stages in run order.
func selectStages(entities []string) ([]string, error) {
	if len(entities) == 0 {
		return order, nil
	}

	wanted := make(map[string]bool, len(entities))
	for _, e := range entities {
		name := strings.ToLower(strings.TrimSpace(e))
		if name == entity.CityAirportTable {
			name = entity.AirportTable
		}
		if !isStage(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, e)
		}
		wanted[name] = true
	}

	selected := make([]string, 0, len(wanted))
	for _, stage := range order {
		if wanted[stage] {
			selected = append(selected, stage)
		}
	}
	return selected, nil
}

// ValidateEntities fails with ErrUnknownEntity when a name selects no stage.
func ValidateEntities(entities []string) error {
	_, err := selectStages(entities)
	return err
}

func isStage(name string) bool {
	for _, stage := range order {
		if stage == name {
			return true
		}
	}
	return false
}

// publish sends a sync event per table that gained rows. Failures are logged only.
func (uc *pipelineUseCase) publish(ctx context.Context, response model.IngestResponseDTO) {
	if uc.opts.Sender == nil || uc.opts.EventsQueue == "" {
		return
	}

	var messages []queue.BatchMessage
	for _, result := range response.Results {
		if result.Appended == 0 {
			continue
		}
		messages = append(messages, queue.BatchMessage{
			MessageID: fmt.Sprintf("%s-%s", response.RequestID, result.Table),
			Body:      model.SyncEventDTO{RequestID: response.RequestID, Result: result},
		})
	}
	if len(messages) == 0 {
		return
	}

	sent, err := uc.opts.Sender.SendMessageBatch(ctx, uc.opts.EventsQueue, messages)
	if err != nil {
		log.Warn("Failed to publish sync events",
			zap.String("request_id", response.RequestID),
			zap.Error(err))
		return
	}
	if len(sent.Failed) > 0 {
		log.Warn("Some sync events were not published",
			zap.String("request_id", response.RequestID),
			zap.Strings("failed", sent.Failed))
	}
}

func (uc *pipelineUseCase) publishFailure(ctx context.Context, response model.IngestResponseDTO, stage string, cause error) {
	if uc.opts.Sender == nil || uc.opts.EventsQueue == "" {
		return
	}

	event := model.RunFailedEventDTO{
		RequestID: response.RequestID,
		Stage:     stage,
		Error:     cause.Error(),
		Results:   response.Results,
	}
	if err := uc.opts.Sender.SendMessage(ctx, uc.opts.EventsQueue, event); err != nil {
		log.Warn("Failed to publish run failure event",
			zap.String("request_id", response.RequestID),
			zap.String("stage", stage),
			zap.Error(err))
	}
}
