package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/gateway/queue"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/model/external"
	"go-ingest/internal/domain/usecase/airport"
	"go-ingest/internal/domain/usecase/city"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/flight"
	"go-ingest/internal/domain/usecase/population"
	"go-ingest/internal/domain/usecase/syncer"
	"go-ingest/internal/domain/usecase/weather"
)

func ptr[T any](v T) *T { return &v }

type fakeUpstream struct {
	forecastErr error
}

func (fakeUpstream) SearchCity(_ context.Context, name string) ([]external.NinjasCityResponse, error) {
	if name != "Berlin" {
		return nil, nil
	}
	return []external.NinjasCityResponse{{
		Name: "Berlin", Country: ptr("DE"), Latitude: ptr(52.52), Longitude: ptr(13.405), Population: ptr(int64(3644826)),
	}}, nil
}

func (fakeUpstream) SearchByLocation(context.Context, float64, float64) ([]external.AirportItem, error) {
	return []external.AirportItem{{ICAO: "EDDB", IATA: ptr("BER"), Name: ptr("Berlin Brandenburg"), TimeZone: ptr("Europe/Berlin")}}, nil
}

func (fakeUpstream) GetArrivals(context.Context, string, time.Time, time.Time) ([]external.FlightItem, error) {
	return []external.FlightItem{{
		Number:          ptr("LH 123"),
		CodeshareStatus: "IsOperator",
		Movement: &external.Movement{ScheduledTime: &external.ScheduledTime{
			Local: ptr("2024-05-02 14:35+02:00"),
			UTC:   ptr("2024-05-02 12:35Z"),
		}},
	}}, nil
}

func (u fakeUpstream) GetForecast(context.Context, float64, float64) ([]external.ForecastItem, error) {
	if u.forecastErr != nil {
		return nil, u.forecastErr
	}
	return []external.ForecastItem{{
		DtTxt:      ptr("2024-05-02 12:00:00"),
		Main:       &external.ForecastMain{Temp: ptr(14.0)},
		Weather:    []external.ForecastWeather{{ID: ptr(int64(800)), Main: "Clear", Description: "clear sky"}},
		Wind:       &external.ForecastWind{Speed: ptr(2.0)},
		Pop:        ptr(0.0),
		Visibility: ptr(int64(10000)),
	}}, nil
}

type fakeSender struct {
	mu       sync.Mutex
	queue    string
	messages []queue.BatchMessage
	singles  []any
}

func (s *fakeSender) SendMessage(_ context.Context, queueName string, body any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = queueName
	s.singles = append(s.singles, body)
	return nil
}

func (s *fakeSender) SendMessageBatch(_ context.Context, queueName string, messages []queue.BatchMessage) (*queue.BatchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = queueName
	s.messages = append(s.messages, messages...)
	return &queue.BatchResult{}, nil
}

func newPipeline(upstream fakeUpstream, opts Options) (UseCase, db.TableGateway) {
	store := db.NewMemoryTableGateway(db.TableOptions{CreateMissing: true})
	engine := syncer.NewSyncUseCase(store, nil, nil)
	extractOpts := extract.Options{
		Concurrency: 2,
		Clock:       func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}

	stages := Stages{
		Cities:      city.NewCityUseCase(upstream, engine, store, extractOpts),
		Airports:    airport.NewAirportUseCase(upstream, engine, store, extractOpts),
		Populations: population.NewPopulationUseCase(upstream, engine, store, extractOpts),
		Weathers:    weather.NewWeatherUseCase(upstream, engine, store, extractOpts),
		Flights:     flight.NewFlightUseCase(upstream, engine, store, flight.DefaultWindow(), extractOpts),
	}
	return NewPipelineUseCase(stages, opts), store
}

func tables(results []model.SyncResult) []string {
	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Table
	}
	return names
}

func TestRun_AllStages(t *testing.T) {
	sender := &fakeSender{}
	uc, store := newPipeline(fakeUpstream{}, Options{EventsQueue: "sync-events", Sender: sender})
	ctx := context.Background()

	response, err := uc.Run(ctx, []string{"Berlin"})
	require.NoError(t, err)

	assert.NotEmpty(t, response.RequestID)
	assert.Equal(t, []string{
		entity.CityTable, entity.AirportTable, entity.CityAirportTable,
		entity.PopulationTable, entity.WeatherTable, entity.FlightTable,
	}, tables(response.Results))
	for _, r := range response.Results {
		assert.Equal(t, 1, r.Appended, r.Table)
	}

	assert.Equal(t, "sync-events", sender.queue)
	require.Len(t, sender.messages, 6)
	assert.Equal(t, response.RequestID+"-cities", sender.messages[0].MessageID)

	for _, name := range entity.Names() {
		set, err := store.ReadTable(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 1, set.Len(), name)
	}

	// re-running the same instant appends nothing and publishes nothing
	again, err := uc.Run(ctx, []string{"Berlin"})
	require.NoError(t, err)
	for _, r := range again.Results {
		assert.Equal(t, 0, r.Appended, r.Table)
	}
	assert.Len(t, sender.messages, 6)
}

func TestRunEntities_SubsetRunsInOrder(t *testing.T) {
	uc, _ := newPipeline(fakeUpstream{}, Options{DefaultCities: []string{"Berlin"}})

	response, err := uc.RunEntities(context.Background(), "req-1", nil, []string{"populations", " Cities "})
	require.NoError(t, err)

	assert.Equal(t, "req-1", response.RequestID)
	assert.Equal(t, []string{entity.CityTable, entity.PopulationTable}, tables(response.Results))
	assert.Equal(t, 1, response.Results[1].Appended)
}

func TestRunEntities_BridgeSelectsAirports(t *testing.T) {
	selected, err := selectStages([]string{"city_airports"})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.AirportTable}, selected)
}

func TestRunEntities_UnknownEntity(t *testing.T) {
	uc, _ := newPipeline(fakeUpstream{}, Options{})

	_, err := uc.RunEntities(context.Background(), "", []string{"Berlin"}, []string{"trains"})
	assert.True(t, errors.Is(err, ErrUnknownEntity))
}

func TestRun_StageErrorAborts(t *testing.T) {
	upstream := fakeUpstream{forecastErr: fmt.Errorf("%w: status 401", errs.ErrSourceUnavailable)}
	sender := &fakeSender{}
	uc, store := newPipeline(upstream, Options{EventsQueue: "sync-events", Sender: sender})
	ctx := context.Background()

	response, err := uc.Run(ctx, []string{"Berlin"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "stage weathers")
	assert.Equal(t, entity.WeatherTable, response.Results[len(response.Results)-1].Table)

	set, err := store.ReadTable(ctx, entity.FlightTable)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	// the stages before weathers still announce their rows, then one failure event follows
	assert.Len(t, sender.messages, 4)
	require.Len(t, sender.singles, 1)
	failure, ok := sender.singles[0].(model.RunFailedEventDTO)
	require.True(t, ok)
	assert.Equal(t, response.RequestID, failure.RequestID)
	assert.Equal(t, entity.WeatherTable, failure.Stage)
	assert.Contains(t, failure.Error, "status 401")
	assert.Len(t, failure.Results, 5)
}

func TestRun_SuccessPublishesNoFailure(t *testing.T) {
	sender := &fakeSender{}
	uc, _ := newPipeline(fakeUpstream{}, Options{EventsQueue: "sync-events", Sender: sender})

	_, err := uc.Run(context.Background(), []string{"Berlin"})
	require.NoError(t, err)
	assert.Empty(t, sender.singles)
}

func TestValidateEntities(t *testing.T) {
	assert.NoError(t, ValidateEntities(nil))
	assert.NoError(t, ValidateEntities([]string{"weathers", "city_airports"}))
	assert.True(t, errors.Is(ValidateEntities([]string{"flights", "boats"}), ErrUnknownEntity))
}
