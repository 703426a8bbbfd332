package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

// GormTableGateway stores tables through GORM. With NativeUpsert the insert
// also carries ON CONFLICT DO NOTHING over the tables' composite unique keys.
type GormTableGateway struct {
	DB           *gorm.DB
	Dialect      Dialect
	Options      TableOptions
	NativeUpsert bool
}

var _ TableGateway = (*GormTableGateway)(nil)

func NewGormTableGateway(db *gorm.DB, dialect Dialect, opts TableOptions, nativeUpsert bool) *GormTableGateway {
	return &GormTableGateway{DB: db, Dialect: dialect, Options: opts, NativeUpsert: nativeUpsert}
}

// ReadTable reads the whole table.
func (gateway *GormTableGateway) ReadTable(ctx context.Context, name string) (record.Set, error) {
	query, err := gateway.Dialect.SelectAllSQL(name)
	if err != nil {
		return record.Set{}, err
	}

	db := gateway.DB.WithContext(ctx)
	if !db.Migrator().HasTable(name) {
		if err := db.Error; err != nil {
			return record.Set{}, storeError("read", name, err)
		}
		return record.Set{}, nil
	}

	rows, err := db.Raw(query).Rows()
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

// AppendRows inserts rows in batches inside one transaction.
func (gateway *GormTableGateway) AppendRows(ctx context.Context, name string, rows record.Set) error {
	if err := rows.Validate(); err != nil {
		return err
	}
	if _, err := QuoteIdent(name); err != nil {
		return err
	}

	values := make([]map[string]interface{}, len(rows.Rows))
	for i, row := range rows.Rows {
		values[i] = map[string]interface{}(row)
	}

	err := gateway.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := gateway.ensureTable(tx, name, rows); err != nil {
			return err
		}

		insert := tx.Table(name)
		if gateway.NativeUpsert {
			insert = insert.Clauses(clause.OnConflict{DoNothing: true})
		}
		if err := insert.CreateInBatches(values, gateway.Options.batchSize()).Error; err != nil {
			return storeError("append", name, err)
		}
		return nil
	})

	if err != nil && !isDomainError(err) {
		return storeError("append", name, err)
	}
	return err
}

func (gateway *GormTableGateway) ensureTable(tx *gorm.DB, name string, rows record.Set) error {
	migrator := tx.Migrator()
	if !migrator.HasTable(name) {
		if !gateway.Options.CreateMissing {
			return fmt.Errorf("%w: %s", errs.ErrTableNotFound, name)
		}
		ddl, err := gateway.Dialect.CreateTableSQL(name, rows)
		if err != nil {
			return err
		}
		if err := tx.Exec(ddl).Error; err != nil {
			return storeError("create", name, err)
		}
	}

	columnTypes, err := migrator.ColumnTypes(name)
	if err != nil {
		return storeError("append", name, err)
	}
	columns := make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		columns[i] = ct.Name()
	}
	return checkColumns(name, columns, rows)
}

func isDomainError(err error) bool {
	return errors.Is(err, errs.ErrStoreUnavailable) ||
		errors.Is(err, errs.ErrSchemaMismatch) ||
		errors.Is(err, errs.ErrTableNotFound)
}
