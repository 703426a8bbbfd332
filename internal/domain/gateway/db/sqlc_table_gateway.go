package db

import (
	"context"
	"database/sql"
	"fmt"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

// SQLCTableGateway stores tables through database/sql, on Postgres (lib/pq) or SQLite.
type SQLCTableGateway struct {
	DB      *sql.DB
	Dialect Dialect
	Options TableOptions
}

var _ TableGateway = (*SQLCTableGateway)(nil)

func NewSQLCTableGateway(db *sql.DB, dialect Dialect, opts TableOptions) *SQLCTableGateway {
	return &SQLCTableGateway{DB: db, Dialect: dialect, Options: opts}
}

func (gateway *SQLCTableGateway) exists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, name string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx, gateway.Dialect.ExistsQuery(), name).Scan(&exists)
	return exists, err
}

// ReadTable reads the whole table.
func (gateway *SQLCTableGateway) ReadTable(ctx context.Context, name string) (record.Set, error) {
	query, err := gateway.Dialect.SelectAllSQL(name)
	if err != nil {
		return record.Set{}, err
	}

	exists, err := gateway.exists(ctx, gateway.DB, name)
	if err != nil {
		return record.Set{}, storeError("read", name, err)
	}
	if !exists {
		return record.Set{}, nil
	}

	rows, err := gateway.DB.QueryContext(ctx, query)
	if err != nil {
		return record.Set{}, storeError("read", name, err)
	}
	defer func() { _ = rows.Close() }()

	set, err := scanRows(rows)
	if err != nil {
		return record.Set{}, storeError("read", name, err)
	}
	return set, nil
}

// AppendRows inserts rows inside a single transaction with one prepared statement.
func (gateway *SQLCTableGateway) AppendRows(ctx context.Context, name string, rows record.Set) error {
	if err := rows.Validate(); err != nil {
		return err
	}
	insert, err := gateway.Dialect.InsertSQL(name, rows.Columns)
	if err != nil {
		return err
	}

	tx, err := gateway.DB.BeginTx(ctx, nil)
	if err != nil {
		return storeError("append", name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := gateway.ensureTable(ctx, tx, name, rows); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return storeError("append", name, err)
	}
	defer func() { _ = stmt.Close() }()

	for i, row := range rows.Rows {
		if _, err := stmt.ExecContext(ctx, rows.Values(row)...); err != nil {
			return storeError("append", name, fmt.Errorf("row %d: %w", i, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return storeError("append", name, err)
	}
	return nil
}

// ensureTable checks that name exists with compatible columns, creating it when allowed.
func (gateway *SQLCTableGateway) ensureTable(ctx context.Context, tx *sql.Tx, name string, rows record.Set) error {
	exists, err := gateway.exists(ctx, tx, name)
	if err != nil {
		return storeError("append", name, err)
	}

	if !exists {
		if !gateway.Options.CreateMissing {
			return fmt.Errorf("%w: %s", errs.ErrTableNotFound, name)
		}
		ddl, err := gateway.Dialect.CreateTableSQL(name, rows)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return storeError("create", name, err)
		}
	}

	query, err := gateway.Dialect.ColumnsSQL(name)
	if err != nil {
		return err
	}
	probe, err := tx.QueryContext(ctx, query)
	if err != nil {
		return storeError("append", name, err)
	}
	columns, err := probe.Columns()
	_ = probe.Close()
	if err != nil {
		return storeError("append", name, err)
	}
	return checkColumns(name, columns, rows)
}
