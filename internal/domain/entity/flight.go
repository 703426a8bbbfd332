package entity

import (
	"go-ingest/internal/domain/record"
)

const FlightTable = "flights"

var (
	FlightColumns = []string{"airport_id", "query_time", "flight_number", "landing_time", "landing_time_utc"}
	FlightKey     = []string{"airport_id", "flight_number", "landing_time"}
)

// Flight is a scheduled arrival at an airport.
type Flight struct {
	ID             int64  `json:"flightId" gorm:"column:flight_id;primaryKey;autoIncrement"`
	AirportID      int64  `json:"airportId" gorm:"column:airport_id;not null;uniqueIndex:idx_flights_key,priority:1"`
	QueryTime      string `json:"queryTime" gorm:"column:query_time;type:text;not null"`
	Number         string `json:"flightNumber" gorm:"column:flight_number;type:text;not null;uniqueIndex:idx_flights_key,priority:2"`
	LandingTime    string `json:"landingTime" gorm:"column:landing_time;type:text;not null;uniqueIndex:idx_flights_key,priority:3"`
	LandingTimeUTC string `json:"landingTimeUtc" gorm:"column:landing_time_utc;type:text;not null"`
}

func (Flight) TableName() string {
	return FlightTable
}

func (f Flight) Record() record.Record {
	return record.Record{
		"airport_id":       f.AirportID,
		"query_time":       f.QueryTime,
		"flight_number":    f.Number,
		"landing_time":     f.LandingTime,
		"landing_time_utc": f.LandingTimeUTC,
	}
}

func FlightFromRecord(r record.Record) (Flight, error) {
	d := decoder{table: FlightTable, row: r}
	flight := Flight{
		ID:             d.int64("flight_id"),
		AirportID:      d.int64("airport_id"),
		QueryTime:      d.string("query_time"),
		Number:         d.string("flight_number"),
		LandingTime:    d.string("landing_time"),
		LandingTimeUTC: d.string("landing_time_utc"),
	}
	return flight, d.err
}

func FlightsFromSet(s record.Set) ([]Flight, error) {
	return decodeSet(s, FlightFromRecord)
}
