// Package routing implements ports.RoutingBackend against the
// OpenRouteService matrix API.
package routing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/platform/obs"
	"delivery-planner-service/internal/ports"
)

// chunkSize bounds how many origins/destinations go into one ORS
// matrix sub-request, matching the backend's own size limit.
const chunkSize = 100

// maxConcurrentRequests bounds how many sub-matrix fetches run at
// once, mirroring the bounded worker pool the source system uses for
// concurrent per-truck route computation.
const maxConcurrentRequests = 8

// trafficCoefficient scales ORS's free-flow duration estimate up to a
// more realistic, traffic-aware one.
const trafficCoefficient = 1.5

// ORSRoutingBackend implements ports.RoutingBackend against
// OpenRouteService's /v2/matrix endpoint, with an optional persistent
// cache in front of it keyed by coordinate pair.
type ORSRoutingBackend struct {
	session *http.Client
	apiKey  string
	baseURL string
	profile string
	cache   ports.MatrixCache
}

func NewORSRoutingBackend(apiKey string, cache ports.MatrixCache) (*ORSRoutingBackend, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSRoutingBackend{
		session: &http.Client{Timeout: 15 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		cache:   cache,
	}, nil
}

func toCoordinate(l domain.Location) ports.Coordinate { return ports.Coordinate{Lat: l.Lat, Lon: l.Lon} }

// CreateDurationDistanceMatrix returns the full NxN duration/distance
// matrix for locations, fetching cache misses from ORS in concurrent
// chunked sub-matrix requests and scaling durations by the traffic
// coefficient.
func (o *ORSRoutingBackend) CreateDurationDistanceMatrix(ctx context.Context, locations []domain.Location) (durations, distances [][]int, err error) {
	defer obs.Time(ctx, "routing.CreateDurationDistanceMatrix")(&err)

	n := len(locations)
	durations = make([][]int, n)
	distances = make([][]int, n)
	for i := range durations {
		durations[i] = make([]int, n)
		distances[i] = make([]int, n)
	}

	type job struct{ srcFrom, srcTo, dstFrom, dstTo int }
	var jobs []job
	for srcFrom := 0; srcFrom < n; srcFrom += chunkSize {
		srcTo := min(srcFrom+chunkSize, n)
		for dstFrom := 0; dstFrom < n; dstFrom += chunkSize {
			dstTo := min(dstFrom+chunkSize, n)
			jobs = append(jobs, job{srcFrom, srcTo, dstFrom, dstTo})
		}
	}

	sem := make(chan struct{}, maxConcurrentRequests)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j job) {
			defer wg.Done()
			defer func() { <-sem }()

			durChunk, distChunk, err := o.chunkMatrix(ctx, locations[j.srcFrom:j.srcTo], locations[j.dstFrom:j.dstTo])

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			for i := range durChunk {
				copy(durations[j.srcFrom+i][j.dstFrom:j.dstTo], durChunk[i])
				copy(distances[j.srcFrom+i][j.dstFrom:j.dstTo], distChunk[i])
			}
		}(j)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, nil, fmt.Errorf("create duration distance matrix: %w", firstErr)
	}

	return durations, distances, nil
}

// chunkMatrix resolves one sub-matrix chunk, consulting the cache
// before falling back to an ORS request for the misses.
func (o *ORSRoutingBackend) chunkMatrix(ctx context.Context, sources, destinations []domain.Location) ([][]int, [][]int, error) {
	durations := make([][]int, len(sources))
	distances := make([][]int, len(sources))
	missingSrc := make([]domain.Location, 0, len(sources))
	missingIdx := make([]int, 0, len(sources))

	for i, src := range sources {
		durations[i] = make([]int, len(destinations))
		distances[i] = make([]int, len(destinations))

		if o.cache == nil {
			missingSrc = append(missingSrc, src)
			missingIdx = append(missingIdx, i)
			continue
		}

		destCoords := make([]ports.Coordinate, len(destinations))
		for j, d := range destinations {
			destCoords[j] = toCoordinate(d)
		}

		hits, err := o.cache.GetMany(ctx, toCoordinate(src), destCoords)
		if err != nil {
			return nil, nil, fmt.Errorf("matrix cache lookup: %w", err)
		}

		rowComplete := true
		for j, d := range destinations {
			hit, ok := hits[toCoordinate(d)]
			if !ok {
				rowComplete = false
				break
			}
			durations[i][j] = scaledDuration(hit.DurationSeconds)
			distances[i][j] = hit.DistanceMeters
		}
		if !rowComplete {
			missingSrc = append(missingSrc, src)
			missingIdx = append(missingIdx, i)
		}
	}

	if len(missingSrc) == 0 {
		return durations, distances, nil
	}

	fetchedDur, fetchedDist, err := o.fetchSubMatrix(ctx, missingSrc, destinations)
	if err != nil {
		return nil, nil, err
	}

	for r, i := range missingIdx {
		results := make(map[ports.Coordinate]ports.DistanceResult, len(destinations))
		for j, d := range destinations {
			durations[i][j] = scaledDuration(fetchedDur[r][j])
			distances[i][j] = fetchedDist[r][j]
			results[toCoordinate(d)] = ports.DistanceResult{DurationSeconds: fetchedDur[r][j], DistanceMeters: fetchedDist[r][j]}
		}
		if o.cache != nil {
			if err := o.cache.PutMany(ctx, toCoordinate(missingSrc[r]), results); err != nil {
				return nil, nil, fmt.Errorf("matrix cache write: %w", err)
			}
		}
	}

	return durations, distances, nil
}

// DurationDistanceRoute returns per-segment duration/distance along
// the ordered locations: result[0] is always 0, result[i] is the cost
// of the leg locations[i-1] -> locations[i].
func (o *ORSRoutingBackend) DurationDistanceRoute(ctx context.Context, locations []domain.Location) (durations, distances []int, err error) {
	defer obs.Time(ctx, "routing.DurationDistanceRoute")(&err)

	durations = make([]int, len(locations))
	distances = make([]int, len(locations))
	if len(locations) < 2 {
		return durations, distances, nil
	}

	for i := 1; i < len(locations); i++ {
		durChunk, distChunk, err := o.fetchSubMatrix(ctx, locations[i-1:i], locations[i:i+1])
		if err != nil {
			return nil, nil, fmt.Errorf("duration distance route: leg %d: %w", i, err)
		}
		durations[i] = scaledDuration(durChunk[0][0])
		distances[i] = distChunk[0][0]
	}

	return durations, distances, nil
}

func scaledDuration(seconds int) int {
	return int(float64(seconds) * trafficCoefficient)
}
