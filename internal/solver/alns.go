package solver

import (
	"context"
	"math/rand"
	"time"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/vrp"
)

// ALNSSolver is a small adaptive large-neighborhood search: starting
// from a cheapest-insertion route, it repeatedly removes a handful of
// randomly chosen delivery pairs and reinserts each at its cheapest
// feasible position (cheapestPairPosition, shared with the insertion
// heuristic), keeping the result whenever it lowers total route cost. It loops until
// TimeLimitSeconds elapses, modeled after davidmokos/halns's
// destroy-repair shape rather than a literal port (the Python planner
// this repo generalizes delegates HALNS to a native implementation it
// doesn't vendor either).
type ALNSSolver struct{}

func (s *ALNSSolver) Name() domain.PlannerType { return domain.PlannerHALNS }

func (s *ALNSSolver) Solve(ctx context.Context, instance *vrp.Instance) (*vrp.Solution, error) {
	best, err := BuildRoutesByInsertion(instance, nil)
	if err != nil {
		return nil, err
	}
	bestCost := totalCost(instance, best)

	limit := instance.TimeLimitSeconds
	if limit <= 0 {
		limit = 30
	}
	deadline := time.Now().Add(time.Duration(limit) * time.Second)

	rng := rand.New(rand.NewSource(1))

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return solutionFromRoutes(instance, best), nil
		default:
		}

		removed, partial := destroy(instance, best, rng)
		if len(removed) == 0 {
			break
		}

		candidate, err := repair(instance, partial, removed)
		if err != nil {
			continue
		}

		cost := totalCost(instance, candidate)
		if cost < bestCost {
			best, bestCost = candidate, cost
		}
	}

	return solutionFromRoutes(instance, best), nil
}

func totalCost(instance *vrp.Instance, routes [][]int) int {
	total := 0
	for _, route := range routes {
		total += routeCost(instance, route)
	}
	return total
}

func solutionFromRoutes(instance *vrp.Instance, routes [][]int) *vrp.Solution {
	return SimulateSolution(instance, routes)
}

// destroy removes up to three non-pinned pickup/drop pairs from the
// routes, picked uniformly at random, and returns them alongside the
// routes they were removed from.
func destroy(instance *vrp.Instance, routes [][]int, rng *rand.Rand) ([][2]int, [][]int) {
	pinned := make(map[int]bool, len(instance.DeliveriesInProgress))
	for _, pair := range instance.DeliveriesInProgress {
		pinned[pair[1]] = true
	}

	var candidates [][2]int
	for _, pair := range instance.DeliveriesNotStarted {
		candidates = append(candidates, pair)
	}
	if len(candidates) == 0 {
		return nil, routes
	}

	removeCount := 3
	if removeCount > len(candidates) {
		removeCount = len(candidates)
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	toRemove := candidates[:removeCount]

	removeSet := make(map[int]bool, removeCount*2)
	for _, pair := range toRemove {
		if pinned[pair[1]] {
			continue
		}
		removeSet[pair[0]] = true
		removeSet[pair[1]] = true
	}

	partial := make([][]int, len(routes))
	for i, route := range routes {
		kept := make([]int, 0, len(route))
		for _, node := range route {
			if !removeSet[node] {
				kept = append(kept, node)
			}
		}
		partial[i] = kept
	}

	return toRemove, partial
}

// repair reinserts each removed pickup/drop pair into whichever
// partial route offers the cheapest feasible position, reusing
// cheapestPairPosition from the insertion heuristic.
func repair(instance *vrp.Instance, partial [][]int, removed [][2]int) ([][]int, error) {
	routes := make([][]int, len(partial))
	copy(routes, partial)

	loads := make([]int, len(routes))
	if instance.NodeDemands != nil {
		for i, route := range routes {
			for _, n := range route {
				loads[i] += instance.NodeDemands[n]
			}
		}
	}

	for _, pair := range removed {
		pickupNode, dropNode := pair[0], pair[1]

		bestVehicle, bestPickupPos, bestDropPos, bestCost := -1, -1, -1, -1
		for v := range routes {
			if instance.CourierCapacities != nil && loads[v]+instance.NodeDemands[pickupNode] > instance.CourierCapacities[v] {
				continue
			}
			pp, dp, cost, ok := cheapestPairPosition(instance, routes[v], pickupNode, dropNode)
			if !ok {
				continue
			}
			if bestVehicle == -1 || cost < bestCost {
				bestVehicle, bestPickupPos, bestDropPos, bestCost = v, pp, dp, cost
			}
		}

		if bestVehicle == -1 {
			return nil, errInsertionInfeasible
		}

		route := routes[bestVehicle]
		route = insertAt(route, bestPickupPos, pickupNode)
		route = insertAt(route, bestDropPos+1, dropNode)
		routes[bestVehicle] = route
		if instance.NodeDemands != nil {
			loads[bestVehicle] += instance.NodeDemands[pickupNode] + instance.NodeDemands[dropNode]
		}
	}

	return routes, nil
}
