package entity

import (
	"go-ingest/internal/domain/record"
)

const WeatherTable = "weathers"

var (
	WeatherColumns = []string{
		"city_id", "query_time", "forecast_time", "temperature", "weather", "weather_desc",
		"weather_ident", "wind", "rain", "snow", "pop", "visibility",
	}
	WeatherKey = []string{"city_id", "query_time", "forecast_time"}
)

// Weather is one forecast slot observed at QueryTime.
type Weather struct {
	ID           int64   `json:"weatherId" gorm:"column:weather_id;primaryKey;autoIncrement"`
	CityID       int64   `json:"cityId" gorm:"column:city_id;not null;uniqueIndex:idx_weathers_key,priority:1"`
	QueryTime    string  `json:"queryTime" gorm:"column:query_time;type:text;not null;uniqueIndex:idx_weathers_key,priority:2"`
	ForecastTime string  `json:"forecastTime" gorm:"column:forecast_time;type:text;not null;uniqueIndex:idx_weathers_key,priority:3"`
	Temperature  float64 `json:"temperature" gorm:"column:temperature;type:double precision"`
	Category     string  `json:"weather" gorm:"column:weather;type:text"`
	Description  string  `json:"weatherDesc" gorm:"column:weather_desc;type:text"`
	Ident        int64   `json:"weatherIdent" gorm:"column:weather_ident"`
	Wind         float64 `json:"wind" gorm:"column:wind;type:double precision"`
	Rain         float64 `json:"rain" gorm:"column:rain;type:double precision;not null;default:0"`
	Snow         float64 `json:"snow" gorm:"column:snow;type:double precision;not null;default:0"`
	Pop          float64 `json:"pop" gorm:"column:pop;type:double precision"`
	Visibility   int64   `json:"visibility" gorm:"column:visibility"`
}

func (Weather) TableName() string {
	return WeatherTable
}

func (w Weather) Record() record.Record {
	return record.Record{
		"city_id":       w.CityID,
		"query_time":    w.QueryTime,
		"forecast_time": w.ForecastTime,
		"temperature":   w.Temperature,
		"weather":       w.Category,
		"weather_desc":  w.Description,
		"weather_ident": w.Ident,
		"wind":          w.Wind,
		"rain":          w.Rain,
		"snow":          w.Snow,
		"pop":           w.Pop,
		"visibility":    w.Visibility,
	}
}

func WeatherFromRecord(r record.Record) (Weather, error) {
	d := decoder{table: WeatherTable, row: r}
	weather := Weather{
		ID:           d.int64("weather_id"),
		CityID:       d.int64("city_id"),
		QueryTime:    d.string("query_time"),
		ForecastTime: d.string("forecast_time"),
		Temperature:  d.float64("temperature"),
		Category:     d.string("weather"),
		Description:  d.string("weather_desc"),
		Ident:        d.int64("weather_ident"),
		Wind:         d.float64("wind"),
		Rain:         d.float64("rain"),
		Snow:         d.float64("snow"),
		Pop:          d.float64("pop"),
		Visibility:   d.int64("visibility"),
	}
	return weather, d.err
}

func WeathersFromSet(s record.Set) ([]Weather, error) {
	return decodeSet(s, WeatherFromRecord)
}
