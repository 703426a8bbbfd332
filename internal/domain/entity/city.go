package entity

import (
	"go-ingest/internal/domain/record"
)

const CityTable = "cities"

var (
	CityColumns = []string{"city_name", "country", "latitude", "longitude"}
	CityKey     = []string{"city_name", "country"}
)

type City struct {
	ID        int64   `json:"cityId" gorm:"column:city_id;primaryKey;autoIncrement"`
	Name      string  `json:"cityName" gorm:"column:city_name;type:text;not null;uniqueIndex:idx_cities_key,priority:1"`
	Country   string  `json:"country" gorm:"column:country;type:text;not null;uniqueIndex:idx_cities_key,priority:2"`
	Latitude  float64 `json:"latitude" gorm:"column:latitude;type:double precision;not null"`
	Longitude float64 `json:"longitude" gorm:"column:longitude;type:double precision;not null"`
}

func (City) TableName() string {
	return CityTable
}

// Record returns the row without its surrogate id.
func (c City) Record() record.Record {
	return record.Record{
		"city_name": c.Name,
		"country":   c.Country,
		"latitude":  c.Latitude,
		"longitude": c.Longitude,
	}
}

func CityFromRecord(r record.Record) (City, error) {
	d := decoder{table: CityTable, row: r}
	city := City{
		ID:        d.int64("city_id"),
		Name:      d.string("city_name"),
		Country:   d.string("country"),
		Latitude:  d.float64("latitude"),
		Longitude: d.float64("longitude"),
	}
	return city, d.err
}

func CitiesFromSet(s record.Set) ([]City, error) {
	return decodeSet(s, CityFromRecord)
}
