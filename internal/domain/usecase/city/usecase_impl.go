package city

import (
	"context"
	"fmt"
	"strings"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/gateway/api"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/model/external"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/syncer"
)

type cityUseCase struct {
	apiGateway api.CityGateway
	syncer     syncer.UseCase
	store      db.TableGateway
	opts       extract.Options
}

func NewCityUseCase(apiGateway api.CityGateway, syncUseCase syncer.UseCase, store db.TableGateway, opts extract.Options) UseCase {
	return &cityUseCase{
		apiGateway: apiGateway,
		syncer:     syncUseCase,
		store:      store,
		opts:       opts,
	}
}

func (uc *cityUseCase) Extract(ctx context.Context, names []string) ([]entity.City, model.SyncResult, error) {
	batch, err := extract.Collect(ctx, uc.opts, names, uc.lookup)
	if err != nil {
		return nil, model.SyncResult{Table: entity.CityTable}, err
	}

	result, err := uc.syncer.Sync(ctx, entity.CityTable, entity.ToSet(entity.CityColumns, batch.Items), entity.CityKey)
	result.Skipped = batch.Skipped
	if err != nil {
		return nil, result, err
	}

	cities, err := extract.ReadCities(ctx, uc.store)
	if err != nil {
		return nil, result, fmt.Errorf("failed to read back cities: %w", err)
	}
	return cities, result, nil
}

// lookup resolves one requested name, keeping the name as requested
func (uc *cityUseCase) lookup(ctx context.Context, name string) (extract.Batch[entity.City], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return extract.Batch[entity.City]{}, nil
	}

	matches, err := uc.apiGateway.SearchCity(ctx, name)
	if err != nil {
		return extract.Batch[entity.City]{}, err
	}

	city, err := toCity(name, matches)
	if err != nil {
		uc.opts.Skip(entity.CityTable, err)
		return extract.Batch[entity.City]{Skipped: 1}, nil
	}
	return extract.Batch[entity.City]{Items: []entity.City{city}}, nil
}

func toCity(name string, matches []external.NinjasCityResponse) (entity.City, error) {
	if len(matches) == 0 {
		return entity.City{}, extract.Malformed("city %q not found", name)
	}
	best := matches[0]
	if best.Country == nil || best.Latitude == nil || best.Longitude == nil {
		return entity.City{}, extract.Malformed("city %q has no country or coordinates", name)
	}
	return entity.City{
		Name:      name,
		Country:   *best.Country,
		Latitude:  *best.Latitude,
		Longitude: *best.Longitude,
	}, nil
}
