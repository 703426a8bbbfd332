package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

func TestMemoryTableGateway_ReadAbsentTable(t *testing.T) {
	gateway := NewMemoryTableGateway(TableOptions{})

	set, err := gateway.ReadTable(context.Background(), entity.CityTable)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Empty(t, set.Columns)
}

func TestMemoryTableGateway_AppendWithoutCreateMissing(t *testing.T) {
	gateway := NewMemoryTableGateway(TableOptions{})

	err := gateway.AppendRows(context.Background(), entity.AirportTable, airports("BER"))
	assert.True(t, errors.Is(err, errs.ErrTableNotFound))
}

func TestMemoryTableGateway_AssignsSurrogateIDs(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryTableGateway(TableOptions{CreateMissing: true})

	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("BER", "CDG")))
	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("LHR")))

	set, err := gateway.ReadTable(ctx, entity.AirportTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"airport_id", "airport_name", "iata", "time_zone"}, set.Columns)

	got, err := entity.AirportsFromSet(set)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "CDG", got[1].IATA)
	assert.Equal(t, int64(3), got[2].ID)
}

func TestMemoryTableGateway_BridgeTableHasNoID(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryTableGateway(TableOptions{CreateMissing: true})

	rows := entity.ToSet(entity.CityAirportColumns, []entity.CityAirport{{CityID: 1, AirportID: 2}})
	require.NoError(t, gateway.AppendRows(ctx, entity.CityAirportTable, rows))

	set, err := gateway.ReadTable(ctx, entity.CityAirportTable)
	require.NoError(t, err)
	assert.Equal(t, entity.CityAirportColumns, set.Columns)
	assert.Equal(t, record.Record{"city_id": int64(1), "airport_id": int64(2)}, set.Rows[0])
}

func TestMemoryTableGateway_UnknownTableKeepsColumns(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryTableGateway(TableOptions{CreateMissing: true})

	rows := record.NewSet([]string{"a", "b"}, record.Record{"a": "x", "b": 1})
	require.NoError(t, gateway.AppendRows(ctx, "scratch", rows))

	set, err := gateway.ReadTable(ctx, "scratch")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, set.Columns)
	assert.Equal(t, record.Record{"a": "x", "b": 1}, set.Rows[0])
}

func TestMemoryTableGateway_RejectsUnknownColumn(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryTableGateway(TableOptions{CreateMissing: true})
	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("BER")))

	rows := record.NewSet([]string{"iata", "gate"}, record.Record{"iata": "CDG", "gate": "A1"})
	err := gateway.AppendRows(ctx, entity.AirportTable, rows)
	assert.True(t, errors.Is(err, errs.ErrSchemaMismatch))

	set, err := gateway.ReadTable(ctx, entity.AirportTable)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestMemoryTableGateway_ReadReturnsCopies(t *testing.T) {
	ctx := context.Background()
	gateway := NewMemoryTableGateway(TableOptions{CreateMissing: true})
	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("BER")))

	set, err := gateway.ReadTable(ctx, entity.AirportTable)
	require.NoError(t, err)
	set.Rows[0]["iata"] = "XXX"

	again, err := gateway.ReadTable(ctx, entity.AirportTable)
	require.NoError(t, err)
	assert.Equal(t, "BER", again.Rows[0]["iata"])
}

func TestMemoryHealthDBGateway(t *testing.T) {
	health := MemoryHealthDBGateway{}.Health(context.Background())
	assert.Equal(t, "UP", string(health.Status))
	assert.Equal(t, "memory", health.Details["driver"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "DOWN", string(MemoryHealthDBGateway{}.Health(ctx).Status))
}
