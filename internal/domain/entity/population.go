package entity

import (
	"go-ingest/internal/domain/record"
)

const PopulationTable = "populations"

var (
	PopulationColumns = []string{"city_id", "population", "query_time"}
	PopulationKey     = []string{"city_id", "query_time"}
)

type Population struct {
	ID         int64  `json:"populationId" gorm:"column:population_id;primaryKey;autoIncrement"`
	CityID     int64  `json:"cityId" gorm:"column:city_id;not null;uniqueIndex:idx_populations_key,priority:1"`
	Population int64  `json:"population" gorm:"column:population;not null"`
	QueryTime  string `json:"queryTime" gorm:"column:query_time;type:text;not null;uniqueIndex:idx_populations_key,priority:2"`
}

func (Population) TableName() string {
	return PopulationTable
}

func (p Population) Record() record.Record {
	return record.Record{
		"city_id":    p.CityID,
		"population": p.Population,
		"query_time": p.QueryTime,
	}
}

func PopulationFromRecord(r record.Record) (Population, error) {
	d := decoder{table: PopulationTable, row: r}
	population := Population{
		ID:         d.int64("population_id"),
		CityID:     d.int64("city_id"),
		Population: d.int64("population"),
		QueryTime:  d.string("query_time"),
	}
	return population, d.err
}

func PopulationsFromSet(s record.Set) ([]Population, error) {
	return decodeSet(s, PopulationFromRecord)
}
