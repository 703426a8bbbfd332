package weather

import (
	"context"
	"fmt"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/gateway/api"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/model/external"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/syncer"
)

// QueryTimeLayout renders the run instant stored with every forecast slot.
const QueryTimeLayout = "2006-01-02 15:04:05"

// precipitationWindow is the OpenWeatherMap volume key for the last 3 hours.
const precipitationWindow = "3h"

type weatherUseCase struct {
	apiGateway api.ForecastGateway
	syncer     syncer.UseCase
	store      db.TableGateway
	opts       extract.Options
}

func NewWeatherUseCase(apiGateway api.ForecastGateway, syncUseCase syncer.UseCase, store db.TableGateway, opts extract.Options) UseCase {
	return &weatherUseCase{
		apiGateway: apiGateway,
		syncer:     syncUseCase,
		store:      store,
		opts:       opts,
	}
}

func (uc *weatherUseCase) Extract(ctx context.Context) ([]entity.Weather, model.SyncResult, error) {
	result := model.SyncResult{Table: entity.WeatherTable}

	cities, err := extract.ReadCities(ctx, uc.store)
	if err != nil {
		return nil, result, fmt.Errorf("failed to read cities: %w", err)
	}

	queryTime := uc.opts.Now().Format(QueryTimeLayout)
	batch, err := extract.Collect(ctx, uc.opts, cities, func(ctx context.Context, city entity.City) (extract.Batch[entity.Weather], error) {
		items, err := uc.apiGateway.GetForecast(ctx, city.Latitude, city.Longitude)
		if err != nil {
			return extract.Batch[entity.Weather]{}, err
		}

		var batch extract.Batch[entity.Weather]
		for _, item := range items {
			weather, err := toWeather(city.ID, queryTime, item)
			if err != nil {
				uc.opts.Skip(entity.WeatherTable, err)
				batch.Skipped++
				continue
			}
			batch.Items = append(batch.Items, weather)
		}
		return batch, nil
	})
	if err != nil {
		return nil, result, err
	}

	result, err = uc.syncer.Sync(ctx, entity.WeatherTable, entity.ToSet(entity.WeatherColumns, batch.Items), entity.WeatherKey)
	result.Skipped = batch.Skipped
	if err != nil {
		return nil, result, err
	}
	return batch.Items, result, nil
}

// toWeather maps one forecast slot. Rain and snow default to 0 when the slot has no precipitation.
func toWeather(cityID int64, queryTime string, item external.ForecastItem) (entity.Weather, error) {
	switch {
	case item.DtTxt == nil:
		return entity.Weather{}, extract.Malformed("forecast slot %d has no dt_txt", item.Dt)
	case item.Main == nil:
		return entity.Weather{}, extract.Malformed("forecast slot %s has no main", *item.DtTxt)
	case len(item.Weather) == 0:
		return entity.Weather{}, extract.Malformed("forecast slot %s has no weather", *item.DtTxt)
	case item.Wind == nil:
		return entity.Weather{}, extract.Malformed("forecast slot %s has no wind", *item.DtTxt)
	}

	missing := requiredMissing(item)
	if missing != "" {
		return entity.Weather{}, extract.Malformed("forecast slot %s has no %s", *item.DtTxt, missing)
	}

	return entity.Weather{
		CityID:       cityID,
		QueryTime:    queryTime,
		ForecastTime: *item.DtTxt,
		Temperature:  *item.Main.Temp,
		Category:     item.Weather[0].Main,
		Description:  item.Weather[0].Description,
		Ident:        *item.Weather[0].ID,
		Wind:         *item.Wind.Speed,
		Rain:         item.Rain[precipitationWindow],
		Snow:         item.Snow[precipitationWindow],
		Pop:          *item.Pop,
		Visibility:   *item.Visibility,
	}, nil
}

// requiredMissing names the first measurement the slot left out, or "" when all are present.
func requiredMissing(item external.ForecastItem) string {
	switch {
	case item.Main.Temp == nil:
		return "main.temp"
	case item.Weather[0].ID == nil:
		return "weather.id"
	case item.Wind.Speed == nil:
		return "wind.speed"
	case item.Pop == nil:
		return "pop"
	case item.Visibility == nil:
		return "visibility"
	}
	return ""
}
