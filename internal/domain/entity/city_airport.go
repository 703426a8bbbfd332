package entity

import (
	"go-ingest/internal/domain/record"
)

const CityAirportTable = "city_airports"

var (
	CityAirportColumns = []string{"city_id", "airport_id"}
	CityAirportKey     = []string{"city_id", "airport_id"}
)

// CityAirport links a city to an airport within its search radius.
type CityAirport struct {
	CityID    int64 `json:"cityId" gorm:"column:city_id;primaryKey;autoIncrement:false"`
	AirportID int64 `json:"airportId" gorm:"column:airport_id;primaryKey;autoIncrement:false"`
}

func (CityAirport) TableName() string {
	return CityAirportTable
}

func (ca CityAirport) Record() record.Record {
	return record.Record{
		"city_id":    ca.CityID,
		"airport_id": ca.AirportID,
	}
}

func CityAirportFromRecord(r record.Record) (CityAirport, error) {
	d := decoder{table: CityAirportTable, row: r}
	link := CityAirport{
		CityID:    d.int64("city_id"),
		AirportID: d.int64("airport_id"),
	}
	return link, d.err
}

func CityAirportsFromSet(s record.Set) ([]CityAirport, error) {
	return decodeSet(s, CityAirportFromRecord)
}
