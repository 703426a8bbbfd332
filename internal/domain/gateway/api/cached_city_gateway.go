package api

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-ingest/internal/domain/model/external"
	"go-ingest/pkg/log"
)

// LookupCache stores upstream answers between runs
type LookupCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// cachedCityGateway serves repeated city lookups from a cache. Cache failures
// are logged and fall through to the upstream.
type cachedCityGateway struct {
	next  CityGateway
	cache LookupCache
}

// NewCachedCityGateway wraps next with cache
func NewCachedCityGateway(next CityGateway, cache LookupCache) CityGateway {
	return &cachedCityGateway{next: next, cache: cache}
}

func (g *cachedCityGateway) SearchCity(ctx context.Context, name string) ([]external.NinjasCityResponse, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	var cached []external.NinjasCityResponse
	found, err := g.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("City cache read failed", zap.String("city", name), zap.Error(err))
	} else if found {
		return cached, nil
	}

	result, err := g.next.SearchCity(ctx, name)
	if err != nil {
		return nil, err
	}

	// Misses are not cached so that a city added upstream later is picked up.
	if len(result) > 0 {
		if err := g.cache.Set(ctx, key, result); err != nil {
			log.Warn("City cache write failed", zap.String("city", name), zap.Error(err))
		}
	}
	return result, nil
}
