// Package record models the flat, column-oriented rows that extractors
// produce and the store persists.
package record

import (
	"fmt"
	"strconv"

	"go-ingest/internal/domain/errs"
)

// Record maps a column name to its value.
type Record map[string]any

// Set is an ordered collection of records sharing the same columns.
type Set struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// NewSet builds a set over the given columns.
func NewSet(columns []string, rows ...Record) Set {
	return Set{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (s Set) Len() int {
	return len(s.Rows)
}

// Append adds a row at the end of the set.
func (s *Set) Append(r Record) {
	s.Rows = append(s.Rows, r)
}

// HasColumn reports whether the set declares column.
func (s Set) HasColumn(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Validate checks that every row carries exactly the declared columns.
func (s Set) Validate() error {
	for i, row := range s.Rows {
		if len(row) != len(s.Columns) {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", errs.ErrSchemaMismatch, i, len(row), len(s.Columns))
		}
		for _, c := range s.Columns {
			if _, ok := row[c]; !ok {
				return fmt.Errorf("%w: row %d has no column %q", errs.ErrSchemaMismatch, i, c)
			}
		}
	}
	return nil
}

// Values returns the row values in column order.
func (s Set) Values(r Record) []any {
	values := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		values[i] = r[c]
	}
	return values
}

// Project returns a copy of the set reduced to the given columns.
func (s Set) Project(columns ...string) Set {
	out := Set{Columns: columns, Rows: make([]Record, 0, len(s.Rows))}
	for _, row := range s.Rows {
		projected := make(Record, len(columns))
		for _, c := range columns {
			projected[c] = row[c]
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// String returns the column value as text.
func (r Record) String(column string) (string, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case []byte:
		return string(t), true
	default:
		return FormatValue(v), true
	}
}

// Int64 returns the column value coerced to int64.
func (r Record) Int64(column string) (int64, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case int64:
		return t, true
	case uint:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		return int64(t), true
	case float32:
		return int64(t), float32(int64(t)) == t
	case float64:
		return int64(t), float64(int64(t)) == t
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		return n, err == nil
	case []byte:
		n, err := strconv.ParseInt(string(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// Float64 returns the column value coerced to float64.
func (r Record) Float64(column string) (float64, bool) {
	v, ok := r[column]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	case []byte:
		f, err := strconv.ParseFloat(string(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
