package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-ingest/internal/domain/record"
)

// postgresDSN returns GO_INGEST_TEST_PG_DSN or skips the test.
func postgresDSN(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres tests skipped in short mode")
	}
	dsn := os.Getenv("GO_INGEST_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("GO_INGEST_TEST_PG_DSN not set")
	}
	return dsn
}

func uniqueTable(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// exerciseGateway runs the shared contract against a Postgres backed gateway.
func exerciseGateway(t *testing.T, gateway TableGateway, drop func(name string)) {
	ctx := context.Background()
	table := uniqueTable("gw_test")
	t.Cleanup(func() { drop(table) })

	set, err := gateway.ReadTable(ctx, table)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	rows := record.NewSet([]string{"iata", "rank"},
		record.Record{"iata": "BER", "rank": 1},
		record.Record{"iata": "CDG", "rank": 2},
	)
	require.NoError(t, gateway.AppendRows(ctx, table, rows))
	require.NoError(t, gateway.AppendRows(ctx, table, record.NewSet([]string{"iata", "rank"}, record.Record{"iata": "LHR", "rank": 3})))

	set, err = gateway.ReadTable(ctx, table)
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	assert.Equal(t, []string{"iata", "rank"}, set.Columns)
	assert.Equal(t, "CDG", set.Rows[1]["iata"])
	assert.EqualValues(t, 3, set.Rows[2]["rank"])
}

func TestPgxTableGateway(t *testing.T) {
	dsn := postgresDSN(t)
	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	gateway := NewPgxTableGateway(pool, TableOptions{CreateMissing: true})
	exerciseGateway(t, gateway, func(name string) {
		_, _ = pool.Exec(context.Background(), `DROP TABLE IF EXISTS "`+name+`"`)
	})

	health := NewPgxHealthDBGateway(pool).Health(context.Background())
	assert.Equal(t, "UP", string(health.Status))
}

func TestGormTableGateway(t *testing.T) {
	dsn := postgresDSN(t)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	for _, upsert := range []bool{false, true} {
		t.Run(fmt.Sprintf("native upsert %v", upsert), func(t *testing.T) {
			gateway := NewGormTableGateway(db, Postgres, TableOptions{CreateMissing: true}, upsert)
			exerciseGateway(t, gateway, func(name string) {
				_ = db.Exec(`DROP TABLE IF EXISTS "` + name + `"`).Error
			})
		})
	}

	health := NewGormHealthDBGateway(db).Health(context.Background())
	assert.Equal(t, "UP", string(health.Status))
}
