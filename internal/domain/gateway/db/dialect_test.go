package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/record"
)

func TestInsertSQL(t *testing.T) {
	query, err := Postgres.InsertSQL("airports", []string{"airport_name", "iata"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "airports" ("airport_name", "iata") VALUES ($1, $2)`, query)

	query, err = SQLite.InsertSQL("airports", []string{"airport_name", "iata"})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "airports" ("airport_name", "iata") VALUES (?, ?)`, query)

	_, err = SQLite.InsertSQL("airports", []string{"iata; --"})
	assert.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("postgresql")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name)

	d, err = DialectFor("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name)

	_, err = DialectFor("mysql")
	assert.Error(t, err)
}

func TestCreateTableSQL(t *testing.T) {
	ddl, err := Postgres.CreateTableSQL(entity.FlightTable, record.Set{})
	require.NoError(t, err)
	assert.Contains(t, ddl, `"flight_id" BIGSERIAL PRIMARY KEY`)
	assert.Contains(t, ddl, `UNIQUE ("airport_id", "flight_number", "landing_time")`)

	set := record.NewSet([]string{"n", "f", "b", "s"}, record.Record{"n": 1, "f": 1.5, "b": true, "s": "x"})
	ddl, err = Postgres.CreateTableSQL("misc", set)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "misc" ("n" BIGINT, "f" DOUBLE PRECISION, "b" BOOLEAN, "s" TEXT)`, ddl)
}

func TestSchemaStatementsCoverEveryTable(t *testing.T) {
	for _, d := range []Dialect{Postgres, SQLite} {
		statements := d.SchemaStatements()
		require.Len(t, statements, len(entity.Tables()))
		for i, table := range entity.Tables() {
			assert.Contains(t, statements[i], `"`+table.Name+`"`)
			for _, c := range table.Columns {
				assert.Contains(t, statements[i], `"`+c+`"`)
			}
		}
	}
}
