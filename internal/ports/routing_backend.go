// Package ports declares the boundary interfaces the planning core is
// built against — concrete adapters live under internal/adapters.
package ports

import (
	"context"

	"delivery-planner-service/internal/domain"
)

// RoutingBackend supplies pairwise duration/distance matrices and
// per-segment routed costs. It is the sole external collaborator the
// planning core depends on.
type RoutingBackend interface {
	// CreateDurationDistanceMatrix returns square duration (seconds)
	// and distance (metres) matrices for locations[i] -> locations[j].
	// Durations are scaled by the backend's traffic coefficient.
	CreateDurationDistanceMatrix(ctx context.Context, locations []domain.Location) (durations, distances [][]int, err error)

	// DurationDistanceRoute returns per-segment duration/distance
	// along the ordered locations, length == len(locations), first
	// entry always 0.
	DurationDistanceRoute(ctx context.Context, locations []domain.Location) (durations, distances []int, err error)
}
