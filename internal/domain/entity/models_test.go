package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

func TestTables(t *testing.T) {
	assert.Equal(t, []string{CityTable, AirportTable, CityAirportTable, PopulationTable, WeatherTable, FlightTable}, Names())
	assert.Len(t, AllModels(), len(Tables()))

	for _, table := range Tables() {
		for _, key := range table.Key {
			assert.Contains(t, table.Columns, key, table.Name)
		}
	}

	bridge, ok := LookupTable(CityAirportTable)
	require.True(t, ok)
	assert.Empty(t, bridge.ID)

	_, ok = LookupTable("trains")
	assert.False(t, ok)
}

func TestToSet(t *testing.T) {
	cities := []City{{ID: 9, Name: "Berlin", Country: "DE", Latitude: 52.52, Longitude: 13.405}}

	set := ToSet(CityColumns, cities)
	assert.Equal(t, CityColumns, set.Columns)
	require.Equal(t, 1, set.Len())
	_, hasID := set.Rows[0]["city_id"]
	assert.False(t, hasID)
	assert.Equal(t, "Berlin", set.Rows[0]["city_name"])
}

func TestCitiesFromSet(t *testing.T) {
	set := record.NewSet(append([]string{"city_id"}, CityColumns...),
		record.Record{"city_id": int64(1), "city_name": "Berlin", "country": "DE", "latitude": 52.52, "longitude": 13.405},
	)
	cities, err := CitiesFromSet(set)
	require.NoError(t, err)
	assert.Equal(t, City{ID: 1, Name: "Berlin", Country: "DE", Latitude: 52.52, Longitude: 13.405}, cities[0])

	set.Rows[0]["country"] = nil
	_, err = CitiesFromSet(set)
	assert.True(t, errors.Is(err, errs.ErrSchemaMismatch))
	assert.Contains(t, err.Error(), `"country"`)
}
