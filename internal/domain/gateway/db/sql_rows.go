package db

import (
	"database/sql"

	"go-ingest/internal/domain/record"
)

// scanRows drains rows into a record set, turning driver byte slices into strings.
func scanRows(rows *sql.Rows) (record.Set, error) {
	columns, err := rows.Columns()
	if err != nil {
		return record.Set{}, err
	}

	set := record.NewSet(columns)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return record.Set{}, err
		}

		row := make(record.Record, len(columns))
		for i, c := range columns {
			row[c] = normalize(values[i])
		}
		set.Append(row)
	}
	return set, rows.Err()
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
