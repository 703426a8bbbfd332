package db

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-ingest/internal/domain/model"
)

type PgxHealthDBGateway struct {
	Pool *pgxpool.Pool
}

var _ HealthDBGateway = (*PgxHealthDBGateway)(nil)

func NewPgxHealthDBGateway(pool *pgxpool.Pool) *PgxHealthDBGateway {
	return &PgxHealthDBGateway{Pool: pool}
}

func (gateway *PgxHealthDBGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := gateway.Pool.Ping(ctx); err != nil {
		return downStatus(err)
	}

	status := upStatus("pgx")
	stat := gateway.Pool.Stat()
	status.Details["total_conns"] = strconv.Itoa(int(stat.TotalConns()))
	status.Details["idle_conns"] = strconv.Itoa(int(stat.IdleConns()))
	return status
}
