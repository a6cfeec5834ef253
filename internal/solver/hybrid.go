package solver

import (
	"context"
	"time"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/vrp"
)

// HybridSolver warm-starts the local-search CP model with a cheapest-
// insertion route: the insertion heuristic's output becomes a
// per-vehicle route.Backlog, which the CP search is free to reorder
// but starts from rather than from scratch.
type HybridSolver struct{}

func (s *HybridSolver) Name() domain.PlannerType { return domain.PlannerORToolsInsertion }

func (s *HybridSolver) Solve(ctx context.Context, instance *vrp.Instance) (*vrp.Solution, error) {
	insertionStart := time.Now()
	warmStart, err := BuildRoutesByInsertion(instance, nil)
	if err != nil {
		return nil, err
	}
	elapsed := int(time.Since(insertionStart).Seconds())

	backlogs := make([][]int, len(warmStart))
	for i, route := range warmStart {
		if len(route) <= 2 {
			continue
		}
		backlogs[i] = route[1 : len(route)-1]
	}

	remaining := *instance
	if remaining.TimeLimitSeconds > 0 {
		remaining.TimeLimitSeconds -= elapsed
		if remaining.TimeLimitSeconds < 1 {
			remaining.TimeLimitSeconds = 1
		}
	}

	return solveWithLocalSearch(ctx, &remaining, backlogs)
}
