package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/model/external"
	pkghttp "go-ingest/pkg/http"
)

func jsonServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCityGateway_SearchCity(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/city", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		if r.URL.Query().Get("name") == "Atlantis" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[{"name":"Berlin","country":"DE","latitude":52.5167,"longitude":13.3833,"population":3426354}]`))
	})
	gateway := NewCityGateway(server.URL, "key", pkghttp.ClientOptions{})

	cities, err := gateway.SearchCity(context.Background(), "Berlin")
	require.NoError(t, err)
	require.Len(t, cities, 1)
	assert.Equal(t, "DE", *cities[0].Country)
	assert.Equal(t, 52.5167, *cities[0].Latitude)
	assert.Equal(t, int64(3426354), *cities[0].Population)

	cities, err = gateway.SearchCity(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Empty(t, cities)
}

func TestCityGateway_UpstreamError(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid API Key."}`))
	})
	gateway := NewCityGateway(server.URL, "bad", pkghttp.ClientOptions{})

	_, err := gateway.SearchCity(context.Background(), "Berlin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "Invalid API Key.")
}

func TestCityGateway_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	gateway := NewCityGateway(server.URL, "key", pkghttp.ClientOptions{})

	_, err := gateway.SearchCity(context.Background(), "Berlin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrSourceUnavailable))
}

func TestAeroDataBox_SearchByLocation(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/airports/search/location", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "52.5167", q.Get("lat"))
		assert.Equal(t, "13.3833", q.Get("lon"))
		assert.Equal(t, "50", q.Get("radiusKm"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "true", q.Get("withFlightInfoOnly"))
		assert.Equal(t, "rapid", r.Header.Get("x-rapidapi-key"))
		_, _ = w.Write([]byte(`{"items":[{"icao":"EDDB","iata":"BER","name":"Berlin Brandenburg","timeZone":"Europe/Berlin"}]}`))
	})
	gateway := NewAeroDataBoxGateway(server.URL, AeroDataBoxOptions{APIKey: "rapid"}, pkghttp.ClientOptions{})

	items, err := gateway.SearchByLocation(context.Background(), 52.5167, 13.3833)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "BER", *items[0].IATA)
	assert.Equal(t, "Europe/Berlin", *items[0].TimeZone)
}

func TestAeroDataBox_GetArrivals(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights/airports/iata/BER/2024-05-02T10:00/2024-05-02T22:00", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Arrival", q.Get("direction"))
		assert.Equal(t, "true", q.Get("withCodeshared"))
		assert.Equal(t, "false", q.Get("withCargo"))
		_, _ = w.Write([]byte(`{"arrivals":[{"number":"LH 123","codeshareStatus":"IsOperator",
			"movement":{"scheduledTime":{"utc":"2024-05-02 12:35Z","local":"2024-05-02 14:35+02:00"}}}]}`))
	})
	gateway := NewAeroDataBoxGateway(server.URL, AeroDataBoxOptions{APIKey: "rapid"}, pkghttp.ClientOptions{})

	from := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)
	arrivals, err := gateway.GetArrivals(context.Background(), "BER", from, from.Add(12*time.Hour))
	require.NoError(t, err)
	require.Len(t, arrivals, 1)
	assert.Equal(t, "LH 123", *arrivals[0].Number)
	assert.Equal(t, "2024-05-02 14:35+02:00", *arrivals[0].Movement.ScheduledTime.Local)
}

func TestForecastGateway_GetForecast(t *testing.T) {
	server := jsonServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/forecast", r.URL.Path)
		assert.Equal(t, "owm", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		_, _ = w.Write([]byte(`{"cod":"200","list":[{"dt_txt":"2024-05-02 15:00:00","main":{"temp":18.5},
			"weather":[{"id":500,"main":"Rain","description":"light rain"}],"wind":{"speed":3.2},
			"rain":{"3h":0.4},"pop":0.6,"visibility":10000}]}`))
	})
	gateway := NewForecastGateway(server.URL, "owm", "", pkghttp.ClientOptions{})

	items, err := gateway.GetForecast(context.Background(), 52.5167, 13.3833)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0.4, items[0].Rain["3h"])
	assert.Nil(t, items[0].Snow)
	require.NotNil(t, items[0].Weather[0].ID)
	assert.Equal(t, int64(500), *items[0].Weather[0].ID)
	require.NotNil(t, items[0].Pop)
	assert.Equal(t, 0.6, *items[0].Pop)
}

type memoryCache struct {
	values map[string][]external.NinjasCityResponse
	sets   int
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	*dest.(*[]external.NinjasCityResponse) = v
	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}) error {
	c.sets++
	c.values[key] = value.([]external.NinjasCityResponse)
	return nil
}

type countingCityGateway struct {
	calls  int
	result []external.NinjasCityResponse
}

func (g *countingCityGateway) SearchCity(context.Context, string) ([]external.NinjasCityResponse, error) {
	g.calls++
	return g.result, nil
}

func TestCachedCityGateway(t *testing.T) {
	country := "DE"
	upstream := &countingCityGateway{result: []external.NinjasCityResponse{{Name: "Berlin", Country: &country}}}
	cache := &memoryCache{values: map[string][]external.NinjasCityResponse{}}
	gateway := NewCachedCityGateway(upstream, cache)

	for i := 0; i < 3; i++ {
		got, err := gateway.SearchCity(context.Background(), " Berlin ")
		require.NoError(t, err)
		require.Len(t, got, 1)
	}
	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, 1, cache.sets)

	upstream.result = nil
	_, err := gateway.SearchCity(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
}
