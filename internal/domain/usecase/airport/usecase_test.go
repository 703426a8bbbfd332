package airport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/model/external"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/syncer"
)

type fakeAirportGateway struct {
	byLatitude map[float64][]external.AirportItem
	err        error
}

func (g fakeAirportGateway) SearchByLocation(_ context.Context, lat, _ float64) ([]external.AirportItem, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.byLatitude[lat], nil
}

func ptr[T any](v T) *T { return &v }

func item(name, iata, tz string) external.AirportItem {
	return external.AirportItem{ICAO: "X" + iata, Name: ptr(name), IATA: ptr(iata), TimeZone: ptr(tz)}
}

func setup(t *testing.T, gateway fakeAirportGateway) (UseCase, db.TableGateway) {
	t.Helper()
	store := db.NewMemoryTableGateway(db.TableOptions{CreateMissing: true})
	require.NoError(t, store.AppendRows(context.Background(), entity.CityTable, entity.ToSet(entity.CityColumns, []entity.City{
		{Name: "Berlin", Country: "DE", Latitude: 52.52, Longitude: 13.405},
		{Name: "Potsdam", Country: "DE", Latitude: 52.39, Longitude: 13.06},
	})))
	return NewAirportUseCase(gateway, syncer.NewSyncUseCase(store, nil, nil), store, extract.Options{Concurrency: 2}), store
}

func TestExtract_SyncsAirportsAndBridge(t *testing.T) {
	gateway := fakeAirportGateway{byLatitude: map[float64][]external.AirportItem{
		52.52: {item("Berlin Brandenburg", "BER", "Europe/Berlin"), {ICAO: "EDAZ", Name: ptr("Schoenhagen")}},
		52.39: {item("Berlin Brandenburg", "BER", "Europe/Berlin"), item("Leipzig/Halle", "LEJ", "Europe/Berlin")},
	}}
	uc, store := setup(t, gateway)
	ctx := context.Background()

	got, results, err := uc.Extract(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, entity.AirportTable, results[0].Table)
	assert.Equal(t, 2, results[0].Appended)
	assert.Equal(t, 1, results[0].Skipped)
	assert.Equal(t, entity.CityAirportTable, results[1].Table)
	assert.Equal(t, 3, results[1].Appended)

	require.Len(t, got.Airports, 2)
	assert.Equal(t, entity.Airport{ID: 1, Name: "Berlin Brandenburg", IATA: "BER", TimeZone: "Europe/Berlin"}, got.Airports[0])
	assert.Equal(t, []entity.CityAirport{
		{CityID: 1, AirportID: 1},
		{CityID: 2, AirportID: 1},
		{CityID: 2, AirportID: 2},
	}, got.Links)

	// bridge rows are never duplicated on a second run
	_, again, err := uc.Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again[0].Appended)
	assert.Equal(t, 0, again[1].Appended)

	set, err := store.ReadTable(ctx, entity.CityAirportTable)
	require.NoError(t, err)
	assert.Equal(t, 3, set.Len())
}

func TestExtract_NewAirportKeepsExistingIDs(t *testing.T) {
	gateway := fakeAirportGateway{byLatitude: map[float64][]external.AirportItem{
		52.52: {item("Berlin Brandenburg", "BER", "Europe/Berlin")},
	}}
	uc, _ := setup(t, gateway)
	ctx := context.Background()

	_, _, err := uc.Extract(ctx)
	require.NoError(t, err)

	gateway.byLatitude[52.39] = []external.AirportItem{item("Paris Charles de Gaulle", "CDG", "Europe/Paris")}
	got, results, err := uc.Extract(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, results[0].Appended)
	assert.Equal(t, 1, results[0].Present)
	require.Len(t, got.Airports, 2)
	assert.Equal(t, "CDG", got.Airports[1].IATA)
	assert.Equal(t, int64(2), got.Airports[1].ID)
}

func TestExtract_SourceUnavailable(t *testing.T) {
	uc, _ := setup(t, fakeAirportGateway{err: fmt.Errorf("%w: 503", errs.ErrSourceUnavailable)})

	_, _, err := uc.Extract(context.Background())
	assert.True(t, errors.Is(err, errs.ErrSourceUnavailable))
}

func TestUnique_FirstSeenWins(t *testing.T) {
	a := entity.Airport{Name: "A", IATA: "AAA", TimeZone: "UTC"}
	b := entity.Airport{Name: "B", IATA: "BBB", TimeZone: "UTC"}

	got := unique([]sighting{{cityID: 1, airport: a}, {cityID: 2, airport: b}, {cityID: 3, airport: a}})
	assert.Equal(t, []entity.Airport{a, b}, got)
}
