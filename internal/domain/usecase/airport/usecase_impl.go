package airport

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/gateway/api"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/model"
	"go-ingest/internal/domain/model/external"
	"go-ingest/internal/domain/usecase/extract"
	"go-ingest/internal/domain/usecase/syncer"
	"go-ingest/pkg/log"
)

// sighting is an airport found around a city, before it has an id
type sighting struct {
	cityID  int64
	airport entity.Airport
}

type airportUseCase struct {
	apiGateway api.AirportGateway
	syncer     syncer.UseCase
	store      db.TableGateway
	opts       extract.Options
}

func NewAirportUseCase(apiGateway api.AirportGateway, syncUseCase syncer.UseCase, store db.TableGateway, opts extract.Options) UseCase {
	return &airportUseCase{
		apiGateway: apiGateway,
		syncer:     syncUseCase,
		store:      store,
		opts:       opts,
	}
}

func (uc *airportUseCase) Extract(ctx context.Context) (Result, []model.SyncResult, error) {
	cities, err := extract.ReadCities(ctx, uc.store)
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to read cities: %w", err)
	}

	batch, err := extract.Collect(ctx, uc.opts, cities, uc.search)
	if err != nil {
		return Result{}, nil, err
	}

	airportResult, err := uc.syncer.Sync(ctx, entity.AirportTable, entity.ToSet(entity.AirportColumns, unique(batch.Items)), entity.AirportKey)
	airportResult.Skipped = batch.Skipped
	results := []model.SyncResult{airportResult}
	if err != nil {
		return Result{}, results, err
	}

	airports, err := extract.ReadAirports(ctx, uc.store)
	if err != nil {
		return Result{}, results, fmt.Errorf("failed to read back airports: %w", err)
	}

	links := link(batch.Items, airports)
	linkResult, err := uc.syncer.Sync(ctx, entity.CityAirportTable, entity.ToSet(entity.CityAirportColumns, links), entity.CityAirportKey)
	results = append(results, linkResult)
	if err != nil {
		return Result{}, results, err
	}

	return Result{Airports: airports, Links: links}, results, nil
}

func (uc *airportUseCase) search(ctx context.Context, city entity.City) (extract.Batch[sighting], error) {
	items, err := uc.apiGateway.SearchByLocation(ctx, city.Latitude, city.Longitude)
	if err != nil {
		return extract.Batch[sighting]{}, err
	}

	var batch extract.Batch[sighting]
	for _, item := range items {
		airport, err := toAirport(item)
		if err != nil {
			uc.opts.Skip(entity.AirportTable, err)
			batch.Skipped++
			continue
		}
		batch.Items = append(batch.Items, sighting{cityID: city.ID, airport: airport})
	}
	return batch, nil
}

func toAirport(item external.AirportItem) (entity.Airport, error) {
	if item.IATA == nil || strings.TrimSpace(*item.IATA) == "" {
		return entity.Airport{}, extract.Malformed("airport %q has no iata code", item.ICAO)
	}
	if item.Name == nil || item.TimeZone == nil {
		return entity.Airport{}, extract.Malformed("airport %s has no name or time zone", *item.IATA)
	}
	return entity.Airport{Name: *item.Name, IATA: *item.IATA, TimeZone: *item.TimeZone}, nil
}

// unique drops repeated airports, first seen wins
func unique(sightings []sighting) []entity.Airport {
	seen := make(map[entity.Airport]struct{}, len(sightings))
	airports := make([]entity.Airport, 0, len(sightings))
	for _, s := range sightings {
		if _, ok := seen[s.airport]; ok {
			continue
		}
		seen[s.airport] = struct{}{}
		airports = append(airports, s.airport)
	}
	return airports
}

// link joins sightings to persisted airports on iata
func link(sightings []sighting, airports []entity.Airport) []entity.CityAirport {
	ids := make(map[string]int64, len(airports))
	for _, a := range airports {
		ids[a.IATA] = a.ID
	}

	links := make([]entity.CityAirport, 0, len(sightings))
	for _, s := range sightings {
		id, ok := ids[s.airport.IATA]
		if !ok {
			log.Warn("Airport missing after sync", zap.String("iata", s.airport.IATA))
			continue
		}
		links = append(links, entity.CityAirport{CityID: s.cityID, AirportID: id})
	}
	return links
}
