package solver

import (
	"context"
	"errors"
	"sort"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/vrp"
)

var errInsertionInfeasible = errors.New("insertion: no feasible vehicle for delivery pickup/drop pair")

// InsertionSolver is a deterministic cheapest-insertion heuristic: it
// inserts pickup/drop pairs one at a time, in ascending pickup-node
// order, each at the position that costs the least extra travel
// across all vehicles. It
// trades optimality for speed and predictability, and also serves as
// the warm-start builder for HybridSolver.
type InsertionSolver struct{}

func (s *InsertionSolver) Name() domain.PlannerType { return domain.PlannerInsertionHeur }

func (s *InsertionSolver) Solve(_ context.Context, instance *vrp.Instance) (*vrp.Solution, error) {
	routes, err := BuildRoutesByInsertion(instance, nil)
	if err != nil {
		return nil, err
	}
	return SimulateSolution(instance, routes), nil
}

// BuildRoutesByInsertion assigns every delivery to a vehicle route via
// cheapest insertion. seedRoutes, if non-nil, pre-populates routes
// (e.g. a warm start) before any insertion runs.
func BuildRoutesByInsertion(instance *vrp.Instance, seedRoutes [][]int) ([][]int, error) {
	routes := make([][]int, instance.NumPlans)
	for i := range routes {
		if seedRoutes != nil && i < len(seedRoutes) && len(seedRoutes[i]) > 0 {
			routes[i] = append([]int{instance.Starts[i]}, append(append([]int{}, seedRoutes[i]...), instance.Ends[i])...)
		} else {
			routes[i] = []int{instance.Starts[i], instance.Ends[i]}
		}
	}

	loads := make([]int, instance.NumPlans)
	if instance.NodeDemands != nil {
		for i, route := range routes {
			for _, n := range route {
				loads[i] += instance.NodeDemands[n]
			}
		}
	}

	for _, pair := range instance.DeliveriesInProgress {
		vehicleIdx, dropNode := pair[0], pair[1]
		if vehicleIdx >= len(routes) {
			continue
		}
		pos := cheapestSinglePosition(instance, routes[vehicleIdx], dropNode)
		routes[vehicleIdx] = insertAt(routes[vehicleIdx], pos, dropNode)
		if instance.NodeDemands != nil {
			loads[vehicleIdx] += instance.NodeDemands[dropNode]
		}
	}

	pending := append([][2]int{}, instance.DeliveriesNotStarted...)
	sort.Slice(pending, func(i, j int) bool { return pending[i][0] < pending[j][0] })

	for _, pair := range pending {
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

func cheapestSinglePosition(instance *vrp.Instance, route []int, node int) int {
	bestPos, bestCost := 1, -1
	for pos := 1; pos < len(route); pos++ {
		cost := insertionCost(instance, route, pos, node)
		if bestCost == -1 || cost < bestCost {
			bestPos, bestCost = pos, cost
		}
	}
	return bestPos
}

func insertionCost(instance *vrp.Instance, route []int, pos, node int) int {
	prev, next := route[pos-1], route[pos]
	return instance.DurationMatrix[prev][node] + instance.DurationMatrix[node][next] - instance.DurationMatrix[prev][next]
}

// cheapestPairPosition tries every pickup-before-drop position pair
// and returns the cheapest one that avoids forbidden edges.
func cheapestPairPosition(instance *vrp.Instance, route []int, pickup, drop int) (int, int, int, bool) {
	bestPP, bestDP, bestCost, found := -1, -1, -1, false

	for pp := 1; pp < len(route); pp++ {
		withPickup := insertAt(route, pp, pickup)
		for dp := pp; dp < len(withPickup)-1; dp++ {
			withBoth := insertAt(withPickup, dp+1, drop)
			if routeHasForbiddenEdge(instance, withBoth) {
				continue
			}
			cost := routeCost(instance, withBoth) - routeCost(instance, route)
			if !found || cost < bestCost {
				bestPP, bestDP, bestCost, found = pp, dp, cost, true
			}
		}
	}

	return bestPP, bestDP, bestCost, found
}

func routeHasForbiddenEdge(instance *vrp.Instance, route []int) bool {
	for i := 1; i < len(route); i++ {
		if instance.DurationMatrix[route[i-1]][route[i]] >= vrp.EdgeForbidden {
			return true
		}
	}
	return false
}

func routeCost(instance *vrp.Instance, route []int) int {
	total := 0
	for i := 1; i < len(route); i++ {
		total += instance.DurationMatrix[route[i-1]][route[i]]
	}
	return total
}

func insertAt(route []int, pos, node int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, node)
	out = append(out, route[pos:]...)
	return out
}

// SimulateSolution forward-simulates ETAs/ETDs for a fixed set of
// routes: arrival is previous departure plus travel time, clamped up
// to each node's hard lower time-window bound if later, departure
// adds the node's service time.
func SimulateSolution(instance *vrp.Instance, routes [][]int) *vrp.Solution {
	pickupSet := make(map[int]bool, len(instance.PickupNodes))
	for _, n := range instance.PickupNodes {
		pickupSet[n] = true
	}
	dropSet := make(map[int]bool, len(instance.DropNodes))
	for _, n := range instance.DropNodes {
		dropSet[n] = true
	}

	sol := &vrp.Solution{
		Plans: routes,
		Etas:  make([][]int64, len(routes)),
		Etds:  make([][]int64, len(routes)),
	}

	for i, route := range routes {
		etas := make([]int64, len(route))
		etds := make([]int64, len(route))

		var startTime int64
		for _, tw := range instance.StartTimeWindows {
			if tw.Node == i {
				startTime = tw.FromTime
				break
			}
		}

		prevEtd := startTime
		for j, node := range route {
			arrival := prevEtd
			if j > 0 {
				arrival = prevEtd + int64(instance.DurationMatrix[route[j-1]][node])
			}

			for _, tw := range instance.TimeWindowsByNode[node] {
				if tw.IsHard && tw.HasLowerBound() && tw.FromTime > arrival {
					arrival = tw.FromTime
				}
			}

			service := int64(0)
			switch {
			case pickupSet[node]:
				service = instance.PickupServiceTime
			case dropSet[node]:
				service = instance.DropServiceTime
			}

			etas[j] = arrival
			etds[j] = arrival + service
			prevEtd = etds[j]
		}

		sol.Etas[i] = etas
		sol.Etds[i] = etds
	}

	return sol
}
