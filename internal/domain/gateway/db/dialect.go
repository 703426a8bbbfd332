package db

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Dialect captures the SQL differences between the supported databases.
type Dialect struct {
	Name        string
	existsQuery string
	placeholder func(n int) string
	types       columnTypes
}

type columnTypes struct {
	integer string
	real    string
	boolean string
	text    string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		existsQuery: `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1)`,
		placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		types:       columnTypes{integer: "BIGINT", real: "DOUBLE PRECISION", boolean: "BOOLEAN", text: "TEXT"},
	}
	SQLite = Dialect{
		Name:        "sqlite",
		existsQuery: `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`,
		placeholder: func(int) string { return "?" },
		types:       columnTypes{integer: "INTEGER", real: "REAL", boolean: "INTEGER", text: "TEXT"},
	}
)

// DialectFor returns the dialect registered under driver.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// QuoteIdent validates name and returns it double quoted.
func QuoteIdent(name string) (string, error) {
	if !identPattern.MatchString(name) {
		return "", fmt.Errorf("%w: invalid identifier %q", errs.ErrSchemaMismatch, name)
	}
	return `"` + name + `"`, nil
}

func quoteAll(names []string) (string, error) {
	quoted := make([]string, len(names))
	for i, n := range names {
		q, err := QuoteIdent(n)
		if err != nil {
			return "", err
		}
		quoted[i] = q
	}
	return strings.Join(quoted, ", "), nil
}

// ExistsQuery returns a query that takes the table name and yields one boolean.
func (d Dialect) ExistsQuery() string {
	return d.existsQuery
}

// SelectAllSQL reads a whole table ordered by its first column.
func (d Dialect) SelectAllSQL(table string) (string, error) {
	t, err := QuoteIdent(table)
	if err != nil {
		return "", err
	}
	return "SELECT * FROM " + t + " ORDER BY 1", nil
}

// ColumnsSQL selects no rows but exposes the column list.
func (d Dialect) ColumnsSQL(table string) (string, error) {
	t, err := QuoteIdent(table)
	if err != nil {
		return "", err
	}
	return "SELECT * FROM " + t + " WHERE 1 = 0", nil
}

// InsertSQL builds a single row insert over columns.
func (d Dialect) InsertSQL(table string, columns []string) (string, error) {
	t, err := QuoteIdent(table)
	if err != nil {
		return "", err
	}
	cols, err := quoteAll(columns)
	if err != nil {
		return "", err
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t, cols, strings.Join(placeholders, ", ")), nil
}

// CreateTableSQL returns the DDL for table. Known tables get their declared
// schema, anything else gets column types inferred from the first row.
func (d Dialect) CreateTableSQL(table string, set record.Set) (string, error) {
	if ddl, ok := d.schema()[table]; ok {
		return ddl, nil
	}

	t, err := QuoteIdent(table)
	if err != nil {
		return "", err
	}
	var sample record.Record
	if len(set.Rows) > 0 {
		sample = set.Rows[0]
	}
	defs := make([]string, len(set.Columns))
	for i, c := range set.Columns {
		q, err := QuoteIdent(c)
		if err != nil {
			return "", err
		}
		defs[i] = q + " " + d.typeOf(sample[c])
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", t, strings.Join(defs, ", ")), nil
}

func (d Dialect) typeOf(v any) string {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return d.types.integer
	case float32, float64:
		return d.types.real
	case bool:
		return d.types.boolean
	default:
		return d.types.text
	}
}
