package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

// PgxTableGateway stores tables on Postgres through a pgx pool, appending with COPY.
type PgxTableGateway struct {
	Pool    *pgxpool.Pool
	Options TableOptions
}

var _ TableGateway = (*PgxTableGateway)(nil)

func NewPgxTableGateway(pool *pgxpool.Pool, opts TableOptions) *PgxTableGateway {
	return &PgxTableGateway{Pool: pool, Options: opts}
}

func (gateway *PgxTableGateway) exists(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, name string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, Postgres.ExistsQuery(), name).Scan(&exists)
	return exists, err
}

// ReadTable reads the whole table.
func (gateway *PgxTableGateway) ReadTable(ctx context.Context, name string) (record.Set, error) {
	query, err := Postgres.SelectAllSQL(name)
	if err != nil {
		return record.Set{}, err
	}

	exists, err := gateway.exists(ctx, gateway.Pool, name)
	if err != nil {
		return record.Set{}, storeError("read", name, err)
	}
	if !exists {
		return record.Set{}, nil
	}

	rows, err := gateway.Pool.Query(ctx, query)
	if err != nil {
		return record.Set{}, storeError("read", name, err)
	}
	defer rows.Close()

	set := record.NewSet(fieldNames(rows.FieldDescriptions()))
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return record.Set{}, storeError("read", name, err)
		}
		row := make(record.Record, len(set.Columns))
		for i, c := range set.Columns {
			row[c] = normalize(values[i])
		}
		set.Append(row)
	}
	if err := rows.Err(); err != nil {
		return record.Set{}, storeError("read", name, err)
	}
	return set, nil
}

// AppendRows copies rows into the table within one transaction.
func (gateway *PgxTableGateway) AppendRows(ctx context.Context, name string, rows record.Set) error {
	if err := rows.Validate(); err != nil {
		return err
	}
	if _, err := QuoteIdent(name); err != nil {
		return err
	}
	if _, err := quoteAll(rows.Columns); err != nil {
		return err
	}

	tx, err := gateway.Pool.Begin(ctx)
	if err != nil {
		return storeError("append", name, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := gateway.ensureTable(ctx, tx, name, rows); err != nil {
		return err
	}

	values := make([][]any, len(rows.Rows))
	for i, row := range rows.Rows {
		values[i] = rows.Values(row)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{name}, rows.Columns, pgx.CopyFromRows(values))
	if err != nil {
		return storeError("append", name, err)
	}
	if int(copied) != len(values) {
		return storeError("append", name, fmt.Errorf("copied %d of %d rows", copied, len(values)))
	}

	if err := tx.Commit(ctx); err != nil {
		return storeError("append", name, err)
	}
	return nil
}

func (gateway *PgxTableGateway) ensureTable(ctx context.Context, tx pgx.Tx, name string, rows record.Set) error {
	exists, err := gateway.exists(ctx, tx, name)
	if err != nil {
		return storeError("append", name, err)
	}
	if !exists {
		if !gateway.Options.CreateMissing {
			return fmt.Errorf("%w: %s", errs.ErrTableNotFound, name)
		}
		ddl, err := Postgres.CreateTableSQL(name, rows)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return storeError("create", name, err)
		}
	}

	query, err := Postgres.ColumnsSQL(name)
	if err != nil {
		return err
	}
	probe, err := tx.Query(ctx, query)
	if err != nil {
		return storeError("append", name, err)
	}
	columns := fieldNames(probe.FieldDescriptions())
	probe.Close()
	if err := probe.Err(); err != nil {
		return storeError("append", name, err)
	}
	return checkColumns(name, columns, rows)
}

func fieldNames(fields []pgconn.FieldDescription) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}
