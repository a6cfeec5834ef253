package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/ports"
)

type memMatrixCache struct {
	rows map[ports.Coordinate]map[ports.Coordinate]ports.DistanceResult
}

func newMemMatrixCache() *memMatrixCache {
	return &memMatrixCache{rows: make(map[ports.Coordinate]map[ports.Coordinate]ports.DistanceResult)}
}

func (m *memMatrixCache) GetMany(_ context.Context, origin ports.Coordinate, destinations []ports.Coordinate) (map[ports.Coordinate]ports.DistanceResult, error) {
	out := make(map[ports.Coordinate]ports.DistanceResult)
	row, ok := m.rows[origin]
	if !ok {
		return out, nil
	}
	for _, d := range destinations {
		if r, ok := row[d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (m *memMatrixCache) PutMany(_ context.Context, origin ports.Coordinate, results map[ports.Coordinate]ports.DistanceResult) error {
	row, ok := m.rows[origin]
	if !ok {
		row = make(map[ports.Coordinate]ports.DistanceResult)
		m.rows[origin] = row
	}
	for k, v := range results {
		row[k] = v
	}
	return nil
}

func newTestBackend(t *testing.T, handler http.HandlerFunc, cache ports.MatrixCache) *ORSRoutingBackend {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	backend, err := NewORSRoutingBackend("test-key", cache)
	require.NoError(t, err)
	backend.baseURL = server.URL
	return backend
}

func TestCreateDurationDistanceMatrixScalesByTrafficCoefficient(t *testing.T) {
	var requests int
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests++
		var req struct {
			Sources      []int `json:"sources"`
			Destinations []int `json:"destinations"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		durations := make([][]*float64, len(req.Sources))
		distances := make([][]*float64, len(req.Sources))
		for i := range durations {
			durations[i] = make([]*float64, len(req.Destinations))
			distances[i] = make([]*float64, len(req.Destinations))
			for j := range durations[i] {
				d := 100.0
				dist := 1000.0
				durations[i][j] = &d
				distances[i][j] = &dist
			}
		}

		_ = json.NewEncoder(w).Encode(map[string]any{"durations": durations, "distances": distances})
	}

	backend := newTestBackend(t, handler, nil)

	locations := []domain.Location{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	durations, distances, err := backend.CreateDurationDistanceMatrix(context.Background(), locations)

	require.NoError(t, err)
	require.Equal(t, 150, durations[0][1])
	require.Equal(t, 1000, distances[0][1])
	require.Equal(t, 1, requests)
}

func TestCreateDurationDistanceMatrixUsesCacheOnHit(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("ORS should not be called when the cache already has every pair")
	}

	cache := newMemMatrixCache()
	origin := ports.Coordinate{Lat: 1, Lon: 1}
	dest := ports.Coordinate{Lat: 2, Lon: 2}
	require.NoError(t, cache.PutMany(context.Background(), origin, map[ports.Coordinate]ports.DistanceResult{
		origin: {DurationSeconds: 0, DistanceMeters: 0},
		dest:   {DurationSeconds: 100, DistanceMeters: 1000},
	}))
	require.NoError(t, cache.PutMany(context.Background(), dest, map[ports.Coordinate]ports.DistanceResult{
		origin: {DurationSeconds: 100, DistanceMeters: 1000},
		dest:   {DurationSeconds: 0, DistanceMeters: 0},
	}))

	backend := newTestBackend(t, handler, cache)

	locations := []domain.Location{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}
	durations, distances, err := backend.CreateDurationDistanceMatrix(context.Background(), locations)

	require.NoError(t, err)
	require.Equal(t, 150, durations[0][1])
	require.Equal(t, 1000, distances[0][1])
}

func TestDurationDistanceRouteFirstEntryIsZero(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		d := 60.0
		dist := 500.0
		_ = json.NewEncoder(w).Encode(map[string]any{
			"durations": [][]*float64{{&d}},
			"distances": [][]*float64{{&dist}},
		})
	}

	backend := newTestBackend(t, handler, nil)

	locations := []domain.Location{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 3, Lon: 3}}
	durations, distances, err := backend.DurationDistanceRoute(context.Background(), locations)

	require.NoError(t, err)
	require.Equal(t, 0, durations[0])
	require.Equal(t, 0, distances[0])
	require.Equal(t, 90, durations[1])
	require.Equal(t, 500, distances[1])
}
