package population

import (
	"context"
	"fmt"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/gateway/api"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/syncer"
)

// QueryDayLayout keys one population observation per city and day.
const QueryDayLayout = "2006-01-02"

type populationUseCase struct {
	apiGateway api.CityGateway
	syncer     syncer.UseCase
	store      db.TableGateway
	opts       extract.Options
}

func NewPopulationUseCase(apiGateway api.CityGateway, syncUseCase syncer.UseCase, store db.TableGateway, opts extract.Options) UseCase {
	return &populationUseCase{
		apiGateway: apiGateway,
		syncer:     syncUseCase,
		store:      store,
		opts:       opts,
	}
}

func (uc *populationUseCase) Extract(ctx context.Context) ([]entity.Population, model.SyncResult, error) {
	result := model.SyncResult{Table: entity.PopulationTable}

	cities, err := extract.ReadCities(ctx, uc.store)
	if err != nil {
		return nil, result, fmt.Errorf("failed to read cities: %w", err)
	}

	queryDay := uc.opts.Now().Format(QueryDayLayout)
	batch, err := extract.Collect(ctx, uc.opts, cities, func(ctx context.Context, city entity.City) (extract.Batch[entity.Population], error) {
		matches, err := uc.apiGateway.SearchCity(ctx, city.Name)
		if err != nil {
			return extract.Batch[entity.Population]{}, err
		}
		if len(matches) == 0 || matches[0].Population == nil {
			uc.opts.Skip(entity.PopulationTable, extract.Malformed("no population for city %q", city.Name))
			return extract.Batch[entity.Population]{Skipped: 1}, nil
		}
		return extract.Batch[entity.Population]{Items: []entity.Population{{
			CityID:     city.ID,
			Population: *matches[0].Population,
			QueryTime:  queryDay,
		}}}, nil
	})
	if err != nil {
		return nil, result, err
	}

	result, err = uc.syncer.Sync(ctx, entity.PopulationTable, entity.ToSet(entity.PopulationColumns, batch.Items), entity.PopulationKey)
	result.Skipped = batch.Skipped
	if err != nil {
		return nil, result, err
	}
	return batch.Items, result, nil
}
