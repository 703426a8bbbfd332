package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "ingest.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func airports(iatas ...string) record.Set {
	set := record.NewSet(entity.AirportColumns)
	for _, iata := range iatas {
		set.Append(entity.Airport{Name: iata + " Airport", IATA: iata, TimeZone: "Europe/Berlin"}.Record())
	}
	return set
}

func TestSQLCTableGateway_ReadAbsentTable(t *testing.T) {
	gateway := NewSQLCTableGateway(openSQLite(t), SQLite, TableOptions{})

	set, err := gateway.ReadTable(context.Background(), entity.CityTable)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestSQLCTableGateway_AppendCreatesKnownTable(t *testing.T) {
	ctx := context.Background()
	gateway := NewSQLCTableGateway(openSQLite(t), SQLite, TableOptions{CreateMissing: true})

	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("BER", "CDG")))
	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("LHR")))

	set, err := gateway.ReadTable(ctx, entity.AirportTable)
	require.NoError(t, err)
	assert.Equal(t, []string{"airport_id", "airport_name", "iata", "time_zone"}, set.Columns)

	got, err := entity.AirportsFromSet(set)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, entity.Airport{ID: 1, Name: "BER Airport", IATA: "BER", TimeZone: "Europe/Berlin"}, got[0])
	assert.Equal(t, "CDG", got[1].IATA)
	assert.Equal(t, int64(3), got[2].ID)
	assert.Equal(t, "LHR", got[2].IATA)
}

func TestSQLCTableGateway_ReadEmptyTableKeepsColumns(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	for _, ddl := range SQLite.SchemaStatements() {
		_, err := db.Exec(ddl)
		require.NoError(t, err)
	}
	gateway := NewSQLCTableGateway(db, SQLite, TableOptions{})

	set, err := gateway.ReadTable(ctx, entity.PopulationTable)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
	assert.Equal(t, []string{"population_id", "city_id", "population", "query_time"}, set.Columns)
}

func TestSQLCTableGateway_MissingTableWithoutCreate(t *testing.T) {
	gateway := NewSQLCTableGateway(openSQLite(t), SQLite, TableOptions{})

	err := gateway.AppendRows(context.Background(), entity.AirportTable, airports("BER"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrTableNotFound))
}

func TestSQLCTableGateway_UnknownColumn(t *testing.T) {
	ctx := context.Background()
	gateway := NewSQLCTableGateway(openSQLite(t), SQLite, TableOptions{CreateMissing: true})
	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("BER")))

	rows := record.NewSet([]string{"iata", "runways"}, record.Record{"iata": "CDG", "runways": 4})
	err := gateway.AppendRows(ctx, entity.AirportTable, rows)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSchemaMismatch))
}

func TestSQLCTableGateway_AppendIsAtomic(t *testing.T) {
	ctx := context.Background()
	gateway := NewSQLCTableGateway(openSQLite(t), SQLite, TableOptions{CreateMissing: true})
	require.NoError(t, gateway.AppendRows(ctx, entity.AirportTable, airports("BER")))

	// The second CDG violates the unique iata constraint.
	err := gateway.AppendRows(ctx, entity.AirportTable, airports("CDG", "CDG"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrStoreUnavailable))

	set, err := gateway.ReadTable(ctx, entity.AirportTable)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestSQLCTableGateway_InfersUnknownTable(t *testing.T) {
	ctx := context.Background()
	gateway := NewSQLCTableGateway(openSQLite(t), SQLite, TableOptions{CreateMissing: true})

	rows := record.NewSet([]string{"code", "score", "label"},
		record.Record{"code": 7, "score": 1.5, "label": "a"},
		record.Record{"code": 8, "score": 2.0, "label": "b"},
	)
	require.NoError(t, gateway.AppendRows(ctx, "scores", rows))

	set, err := gateway.ReadTable(ctx, "scores")
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	assert.Equal(t, record.Record{"code": int64(7), "score": 1.5, "label": "a"}, set.Rows[0])
}

func TestSQLCTableGateway_RejectsInvalidIdentifier(t *testing.T) {
	gateway := NewSQLCTableGateway(openSQLite(t), SQLite, TableOptions{CreateMissing: true})

	_, err := gateway.ReadTable(context.Background(), `cities"; DROP TABLE x; --`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSchemaMismatch))
}

func TestSQLCHealthDBGateway(t *testing.T) {
	db := openSQLite(t)
	health := NewSQLCHealthDBGateway(db, "sqlite").Health(context.Background())
	assert.Equal(t, "UP", string(health.Status))

	require.NoError(t, db.Close())
	health = NewSQLCHealthDBGateway(db, "sqlite").Health(context.Background())
	assert.Equal(t, "DOWN", string(health.Status))
}
