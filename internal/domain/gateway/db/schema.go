package db

import (
	"fmt"

	"go-ingest/internal/domain/entity"
)

func (d Dialect) schema() map[string]string {
	id := "BIGSERIAL PRIMARY KEY"
	float := "DOUBLE PRECISION"
	integer := "BIGINT"
	if d.Name == SQLite.Name {
		id = "INTEGER PRIMARY KEY AUTOINCREMENT"
		float = "REAL"
		integer = "INTEGER"
	}

	return map[string]string{
		entity.CityTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "cities" (
	"city_id" %[1]s,
	"city_name" TEXT NOT NULL,
	"country" TEXT NOT NULL,
	"latitude" %[2]s NOT NULL,
	"longitude" %[2]s NOT NULL,
	UNIQUE ("city_name", "country")
)`, id, float),
		entity.AirportTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "airports" (
	"airport_id" %[1]s,
	"airport_name" TEXT NOT NULL,
	"iata" TEXT NOT NULL UNIQUE,
	"time_zone" TEXT NOT NULL
)`, id),
		entity.CityAirportTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "city_airports" (
	"city_id" %[1]s NOT NULL,
	"airport_id" %[1]s NOT NULL,
	PRIMARY KEY ("city_id", "airport_id")
)`, integer),
		entity.PopulationTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "populations" (
	"population_id" %[1]s,
	"city_id" %[2]s NOT NULL,
	"population" %[2]s NOT NULL,
	"query_time" TEXT NOT NULL,
	UNIQUE ("city_id", "query_time")
)`, id, integer),
		entity.WeatherTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "weathers" (
	"weather_id" %[1]s,
	"city_id" %[2]s NOT NULL,
	"query_time" TEXT NOT NULL,
	"forecast_time" TEXT NOT NULL,
	"temperature" %[3]s,
	"weather" TEXT,
	"weather_desc" TEXT,
	"weather_ident" %[2]s,
	"wind" %[3]s,
	"rain" %[3]s NOT NULL DEFAULT 0,
	"snow" %[3]s NOT NULL DEFAULT 0,
	"pop" %[3]s,
	"visibility" %[2]s,
	UNIQUE ("city_id", "query_time", "forecast_time")
)`, id, integer, float),
		entity.FlightTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "flights" (
	"flight_id" %[1]s,
	"airport_id" %[2]s NOT NULL,
	"query_time" TEXT NOT NULL,
	"flight_number" TEXT NOT NULL,
	"landing_time" TEXT NOT NULL,
	"landing_time_utc" TEXT NOT NULL,
	UNIQUE ("airport_id", "flight_number", "landing_time")
)`, id, integer),
	}
}

// SchemaStatements returns the DDL of every entity table in dependency order.
func (d Dialect) SchemaStatements() []string {
	ddl := d.schema()
	tables := entity.Tables()
	statements := make([]string, 0, len(tables))
	for _, t := range tables {
		statements = append(statements, ddl[t.Name])
	}
	return statements
}
