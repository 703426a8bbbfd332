package entity

import (
	"fmt"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/record"
)

// Table describes a persisted relation: the columns an extractor writes
// and the composite key that identifies a logical row.
type Table struct {
	Name    string
	ID      string
	Columns []string
	Key     []string
}

// Tables lists every relation in dependency order.
func Tables() []Table {
	return []Table{
		{Name: CityTable, ID: "city_id", Columns: CityColumns, Key: CityKey},
		{Name: AirportTable, ID: "airport_id", Columns: AirportColumns, Key: AirportKey},
		{Name: CityAirportTable, Columns: CityAirportColumns, Key: CityAirportKey},
		{Name: PopulationTable, ID: "population_id", Columns: PopulationColumns, Key: PopulationKey},
		{Name: WeatherTable, ID: "weather_id", Columns: WeatherColumns, Key: WeatherKey},
		{Name: FlightTable, ID: "flight_id", Columns: FlightColumns, Key: FlightKey},
	}
}

// LookupTable finds a relation by name.
func LookupTable(name string) (Table, bool) {
	for _, t := range Tables() {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// Names returns the relation names in dependency order.
func Names() []string {
	tables := Tables()
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names
}

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&City{},
		&Airport{},
		&CityAirport{},
		&Population{},
		&Weather{},
		&Flight{},
	}
}

// recorder is implemented by every entity.
type recorder interface {
	Record() record.Record
}

// ToSet converts entities into a record set over columns.
func ToSet[T recorder](columns []string, items []T) record.Set {
	s := record.NewSet(columns)
	s.Rows = make([]record.Record, 0, len(items))
	for _, item := range items {
		s.Append(item.Record())
	}
	return s
}

func decodeSet[T any](s record.Set, decode func(record.Record) (T, error)) ([]T, error) {
	items := make([]T, 0, len(s.Rows))
	for _, row := range s.Rows {
		item, err := decode(row)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// decoder reads typed columns from a stored row, keeping the first failure.
type decoder struct {
	table string
	row   record.Record
	err   error
}

func (d *decoder) fail(column string) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: table %s column %q missing or of unexpected type (%T)",
			errs.ErrSchemaMismatch, d.table, column, d.row[column])
	}
}

func (d *decoder) int64(column string) int64 {
	v, ok := d.row.Int64(column)
	if !ok {
		d.fail(column)
	}
	return v
}

func (d *decoder) float64(column string) float64 {
	v, ok := d.row.Float64(column)
	if !ok {
		d.fail(column)
	}
	return v
}

func (d *decoder) string(column string) string {
	v, ok := d.row.String(column)
	if !ok {
		d.fail(column)
	}
	return v
}
