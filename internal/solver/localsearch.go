package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/nextmv-io/sdk/route"
	"github.com/nextmv-io/sdk/store"

	"delivery-planner-service/internal/apperr"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/vrp"
)

// LocalSearchSolver is the primary route solver: a guided local search
// over a constraint-programming model (pickup/delivery precedence,
// capacity, hard time windows) built with nextmv's route package.
type LocalSearchSolver struct{}

func (s *LocalSearchSolver) Name() domain.PlannerType { return domain.PlannerORTools }

func (s *LocalSearchSolver) Solve(ctx context.Context, instance *vrp.Instance) (*vrp.Solution, error) {
	return solveWithLocalSearch(ctx, instance, nil)
}

func solveWithLocalSearch(ctx context.Context, instance *vrp.Instance, backlogs [][]int) (*vrp.Solution, error) {
	realNodes := append(append([]int{}, instance.PickupNodes...), instance.DropNodes...)
	if len(instance.PickupNodes) == 0 && len(instance.DropNodes) == 0 {
		for node := range instance.TimeWindowsByNode {
			if node >= 2*instance.NumPlans {
				realNodes = append(realNodes, node)
			}
		}
	}

	nodeToStop := make(map[int]int, len(realNodes))
	stops := make([]route.Stop, len(realNodes))
	for i, node := range realNodes {
		nodeToStop[node] = i
		stops[i] = route.Stop{ID: fmt.Sprintf("n%d", node)}
	}

	vehicles := make([]string, instance.NumPlans)
	starts := make([]route.Position, instance.NumPlans)
	ends := make([]route.Position, instance.NumPlans)
	shifts := make([]route.TimeWindow, instance.NumPlans)
	for i := 0; i < instance.NumPlans; i++ {
		vehicles[i] = fmt.Sprintf("v%d", i)
	}
	for _, tw := range instance.StartTimeWindows {
		shifts[tw.Node] = route.TimeWindow{
			Start: time.Unix(tw.FromTime, 0),
			End:   time.Unix(tw.ToTime, 0),
		}
	}

	var precedences []route.Job
	for _, pair := range instance.DeliveriesNotStarted {
		pickupNode, dropNode := pair[0], pair[1]
		pIdx, pOK := nodeToStop[pickupNode]
		dIdx, dOK := nodeToStop[dropNode]
		if !pOK || !dOK {
			continue
		}
		precedences = append(precedences, route.Job{
			PickUp:  stops[pIdx].ID,
			DropOff: stops[dIdx].ID,
		})
	}

	windows := make([]route.Window, len(stops))
	for node, stopIdx := range nodeToStop {
		var from, to int64 = -1, vrp.MaxTimestamp
		for _, tw := range instance.TimeWindowsByNode[node] {
			if !tw.IsHard {
				continue
			}
			if tw.HasLowerBound() && tw.FromTime > from {
				from = tw.FromTime
			}
			if tw.HasUpperBound() && tw.ToTime < to {
				to = tw.ToTime
			}
		}
		if from >= 0 {
			end := to
			if end >= vrp.MaxTimestamp {
				end = from + 86400
			}
			windows[stopIdx] = route.Window{
				TimeWindow: route.TimeWindow{Start: time.Unix(from, 0), End: time.Unix(end, 0)},
				MaxWait:    -1,
			}
		}
	}

	var quantities, capacities []int
	if instance.CourierCapacities != nil {
		quantities = make([]int, len(stops))
		for node, stopIdx := range nodeToStop {
			quantities[stopIdx] = instance.NodeDemands[node]
		}
		capacities = append([]int{}, instance.CourierCapacities...)
	}

	var vehicleBacklogs []route.Backlog
	if backlogs != nil {
		for i, b := range backlogs {
			if len(b) == 0 {
				continue
			}
			ids := make([]string, 0, len(b))
			for _, node := range b {
				if stopIdx, ok := nodeToStop[node]; ok {
					ids = append(ids, stops[stopIdx].ID)
				}
			}
			vehicleBacklogs = append(vehicleBacklogs, route.Backlog{VehicleID: vehicles[i], Stops: ids})
		}
	}

	timeMeasures := make([]route.ByIndex, instance.NumPlans)
	for i := range timeMeasures {
		timeMeasures[i] = vehicleMatrixMeasure{instance: instance, vehicleIdx: i, realNodes: realNodes}
	}

	opts := []route.Option{
		route.Starts(starts),
		route.Ends(ends),
		route.Shifts(shifts),
		route.Precedence(precedences),
		route.TravelTimeMeasures(timeMeasures),
		route.ValueFunctionMeasures(timeMeasures),
	}
	if len(windows) > 0 {
		opts = append(opts, route.Windows(windows))
	}
	if quantities != nil {
		opts = append(opts, route.Capacity(quantities, capacities))
	}
	if vehicleBacklogs != nil {
		opts = append(opts, route.Backlogs(vehicleBacklogs))
	}

	router, err := route.NewRouter(stops, vehicles, opts...)
	if err != nil {
		return nil, apperr.RoutingError(err, "failed to construct local-search router")
	}

	solverOpts := store.Options{}
	limit := instance.TimeLimitSeconds
	if limit <= 0 {
		limit = 120
	}
	solverOpts.Limits.Duration = time.Duration(limit) * time.Second
	solverOpts.Diagram.Expansion.Limit = 1

	cpSolver, err := router.Solver(solverOpts)
	if err != nil {
		return nil, apperr.RoutingError(err, "failed to build local-search solver")
	}

	last := cpSolver.Last(ctx)
	if last == nil {
		return nil, apperr.NoSolution("local search produced no feasible assignment")
	}

	var plan route.Plan
	if err := last.Store().Format(&plan); err != nil {
		return nil, apperr.RoutingError(err, "failed to decode local-search solution")
	}

	return planToSolution(instance, &plan)
}

// vehicleMatrixMeasure exposes the VrpInstance's per-vehicle-relevant
// duration costs between stop indices as a route.ByIndex, honoring
// that pickup/drop cost is the same regardless of vehicle.
type vehicleMatrixMeasure struct {
	instance   *vrp.Instance
	vehicleIdx int
	realNodes  []int
}

func (m vehicleMatrixMeasure) Cost(from, to int) float64 {
	fromNode, toNode := m.nodeFor(from), m.nodeFor(to)
	v := m.instance.DurationMatrix[fromNode][toNode]
	if v >= vrp.EdgeForbidden {
		return 1e12
	}
	return float64(v)
}

func (m vehicleMatrixMeasure) nodeFor(stopIdx int) int {
	if stopIdx < 0 || stopIdx >= len(m.realNodes) {
		return m.instance.Starts[m.vehicleIdx]
	}
	return m.realNodes[stopIdx]
}

func planToSolution(instance *vrp.Instance, plan *route.Plan) (*vrp.Solution, error) {
	sol := &vrp.Solution{
		Plans: make([][]int, instance.NumPlans),
		Etas:  make([][]int64, instance.NumPlans),
		Etds:  make([][]int64, instance.NumPlans),
	}

	for i, vehicle := range plan.Vehicles {
		nodeRoute := []int{instance.Starts[i]}
		etas := []int64{0}
		etds := []int64{0}

		for _, stop := range vehicle.Route {
			node, ok := nodeFromStopID(stop.ID)
			if !ok {
				continue
			}
			nodeRoute = append(nodeRoute, node)
			etas = append(etas, stop.EstimatedArrival.Unix())
			etds = append(etds, stop.EstimatedDeparture.Unix())
		}

		nodeRoute = append(nodeRoute, instance.Ends[i])
		if len(etds) > 0 {
			etas = append(etas, etds[len(etds)-1])
			etds = append(etds, etds[len(etds)-1])
		}

		sol.Plans[i] = nodeRoute
		sol.Etas[i] = etas
		sol.Etds[i] = etds
	}

	return sol, nil
}

func nodeFromStopID(id string) (int, bool) {
	var node int
	if _, err := fmt.Sscanf(id, "n%d", &node); err != nil {
		return 0, false
	}
	return node, true
}
