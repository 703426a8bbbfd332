package entity

import (
	"go-ingest/internal/domain/record"
)

const AirportTable = "airports"

var (
	AirportColumns = []string{"airport_name", "iata", "time_zone"}
	AirportKey     = []string{"iata"}
)

type Airport struct {
	ID       int64  `json:"airportId" gorm:"column:airport_id;primaryKey;autoIncrement"`
	Name     string `json:"airportName" gorm:"column:airport_name;type:text;not null"`
	IATA     string `json:"iata" gorm:"column:iata;type:text;not null;uniqueIndex:idx_airports_key"`
	TimeZone string `json:"timeZone" gorm:"column:time_zone;type:text;not null"`
}

func (Airport) TableName() string {
	return AirportTable
}

func (a Airport) Record() record.Record {
	return record.Record{
		"airport_name": a.Name,
		"iata":         a.IATA,
		"time_zone":    a.TimeZone,
	}
}

func AirportFromRecord(r record.Record) (Airport, error) {
	d := decoder{table: AirportTable, row: r}
	airport := Airport{
		ID:       d.int64("airport_id"),
		Name:     d.string("airport_name"),
		IATA:     d.string("iata"),
		TimeZone: d.string("time_zone"),
	}
	return airport, d.err
}

func AirportsFromSet(s record.Set) ([]Airport, error) {
	return decodeSet(s, AirportFromRecord)
}
