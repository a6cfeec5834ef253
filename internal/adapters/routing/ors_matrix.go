package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"delivery-planner-service/internal/domain"
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Sources      []int       `json:"sources"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
}

type matrixResponse struct {
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// fetchSubMatrix retrieves the |sources| x |destinations| duration and
// distance sub-matrix between two (possibly overlapping) chunks of
// locations, unscaled - callers apply the traffic coefficient.
func (o *ORSRoutingBackend) fetchSubMatrix(ctx context.Context, sources, destinations []domain.Location) (durations, distances [][]int, err error) {
	locations := make([][]float64, 0, len(sources)+len(destinations))
	for _, l := range sources {
		locations = append(locations, []float64{l.Lon, l.Lat})
	}
	srcIdx := make([]int, len(sources))
	for i := range sources {
		srcIdx[i] = i
	}

	dstIdx := make([]int, len(destinations))
	for i, l := range destinations {
		locations = append(locations, []float64{l.Lon, l.Lat})
		dstIdx[i] = len(sources) + i
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Sources:      srcIdx,
		Destinations: dstIdx,
		Metrics:      []string{"duration", "distance"},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("matrix request: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Durations) != len(sources) || len(mr.Distances) != len(sources) {
		return nil, nil, fmt.Errorf("matrix response has %d/%d rows, want %d", len(mr.Durations), len(mr.Distances), len(sources))
	}

	durations = make([][]int, len(sources))
	distances = make([][]int, len(sources))
	for i := range sources {
		if len(mr.Durations[i]) != len(destinations) || len(mr.Distances[i]) != len(destinations) {
			return nil, nil, fmt.Errorf("matrix response row %d has wrong width", i)
		}
		durations[i] = make([]int, len(destinations))
		distances[i] = make([]int, len(destinations))
		for j := range destinations {
			d, dist := mr.Durations[i][j], mr.Distances[i][j]
			if d == nil || dist == nil {
				return nil, nil, fmt.Errorf("matrix response missing metric at [%d][%d]", i, j)
			}
			durations[i][j] = int(math.Round(*d))
			distances[i][j] = int(math.Round(*dist))
		}
	}

	return durations, distances, nil
}
