// Package service orchestrates the planning pipeline: InstanceBuilder
// projects a request into a VrpInstance, a RouteSolver assigns nodes
// to vehicle routes, the TimetableLP refines every route's times, and
// the Assembler turns the result into domain.Plan stop events.
package service

import (
	"context"
	"log"
	"sort"

	"delivery-planner-service/internal/assembler"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/platform/obs"
	"delivery-planner-service/internal/ports"
	"delivery-planner-service/internal/solver"
	"delivery-planner-service/internal/timetable"
	"delivery-planner-service/internal/vrp"
)

// PlanningService ties the pipeline together for one RoutingBackend.
// It carries no per-request state: PlannerConfig is passed explicitly
// to every call rather than read from ambient/global configuration.
type PlanningService struct {
	builder *vrp.Builder
}

func NewPlanningService(routing ports.RoutingBackend) *PlanningService {
	return &PlanningService{builder: vrp.NewBuilder(routing)}
}

// CreatePlans runs InstanceBuilder -> RouteSolver -> TimetableLP ->
// Assembler for one request. deliveries/couriers need not be
// pre-sorted by the caller; CreatePlans sorts them by id to match the
// determinism guarantee the node-index assignment depends on.
func (s *PlanningService) CreatePlans(
	ctx context.Context,
	deliveries []domain.Delivery,
	couriers []domain.Courier,
	minNumberOfPlans int,
	previousPlans []domain.Plan,
	config domain.PlannerConfig,
	now int64,
) ([]domain.Plan, error) {
	deliveries, couriers = sortInputs(deliveries, couriers)

	instance, mapping, err := s.builder.CreateInstance(ctx, deliveries, couriers, minNumberOfPlans, previousPlans, config, now)
	if err != nil {
		LogFailure(deliveries, couriers, minNumberOfPlans, err)
		return nil, err
	}

	routeSolver := solver.New(config.PlannerType)
	stopTimer := obs.Time(ctx, "solver.Solve")
	solution, err := routeSolver.Solve(ctx, instance)
	stopTimer(&err)
	if err != nil {
		LogFailure(deliveries, couriers, minNumberOfPlans, err)
		return nil, err
	}

	refineTimetables(instance, solution, config)

	return assembler.Assemble(solution, mapping, instance, config.FixedTimeBuffer), nil
}

// refineTimetables runs the timetable LP over every vehicle's fixed
// route order, replacing its ETAs/ETDs with the penalty-minimal ones.
// A route the LP can't solve keeps whatever times the RouteSolver
// produced - spec.md's "keep the CP-derived times and log" fallback.
func refineTimetables(instance *vrp.Instance, solution *vrp.Solution, config domain.PlannerConfig) {
	for i, route := range solution.Plans {
		if len(route) == 0 {
			continue
		}

		etas, etds, _, err := timetable.ComputeOptimalTimetable(
			instance.DropNodes,
			instance.PickupNodes,
			instance.DurationMatrix,
			instance.TimeWindowsByNode,
			route,
			config,
		)
		if err != nil {
			log.Printf("timetable refine: vehicle %d: %v, keeping route-solver times", i, err)
			continue
		}

		solution.Etas[i] = etas
		solution.Etds[i] = etds
	}
}

// OptimizeTimetable fits an optimal timetable to a single already-fixed
// plan (as given by the caller, not re-solved): it builds the VRP
// instance with the plan as the sole previous_plans warm-start entry,
// runs the LP over the resulting node route, then writes the new
// arrival/departure window back into each of the plan's delivery
// events (min ETA / max ETD across co-located orders) and recomputes
// each event's fixed time. config.UsePreviousSolution is forced on:
// without it the instance carries no route to fit times to.
func (s *PlanningService) OptimizeTimetable(
	ctx context.Context,
	deliveries []domain.Delivery,
	courier domain.Courier,
	plan domain.Plan,
	config domain.PlannerConfig,
	now int64,
) ([]domain.TimeBlock, []*int64, error) {
	config.UsePreviousSolution = true

	instance, mapping, err := s.builder.CreateInstance(ctx, deliveries, []domain.Courier{courier}, 1, []domain.Plan{plan}, config, now)
	if err != nil {
		return nil, nil, err
	}

	route := append([]int{instance.Starts[0]}, instance.PreviousPlans[0]...)

	etas, etds, _, err := timetable.ComputeOptimalTimetable(
		instance.DropNodes,
		instance.PickupNodes,
		instance.DurationMatrix,
		instance.TimeWindowsByNode,
		route,
		config,
	)
	if err != nil {
		return nil, nil, err
	}

	nodeToRouteIdx := make(map[int]int, len(route))
	for idx, node := range route {
		if _, ok := nodeToRouteIdx[node]; !ok {
			nodeToRouteIdx[node] = idx
		}
	}

	events := make([]domain.DeliveryEvent, len(plan.DeliveryEvents))
	copy(events, plan.DeliveryEvents)

	for i, event := range events {
		nodeFor := mapping.DropToNode
		if event.Type == domain.EventPickup {
			nodeFor = mapping.PickupToNode
		}

		minEta, maxEtd := int64(0), int64(0)
		for j, id := range event.DeliveryOrderIDs {
			idx := nodeToRouteIdx[nodeFor[id]]
			if j == 0 || etas[idx] < minEta {
				minEta = etas[idx]
			}
			if j == 0 || etds[idx] > maxEtd {
				maxEtd = etds[idx]
			}
		}

		toTime := maxEtd
		events[i].EventTime = domain.TimeBlock{FromTime: minEta, ToTime: &toTime}
	}

	assignedCourierID := &courier.ID
	fixedTimes := timetable.ComputeFixedTimes(
		instance.Starts[0],
		events,
		assignedCourierID,
		instance.DurationMatrix,
		mapping.PickupToNode,
		mapping.DropToNode,
		instance.PickupServiceTime,
		instance.DropServiceTime,
		config.FixedTimeBuffer,
	)

	timeBlocks := make([]domain.TimeBlock, len(events))
	for i, event := range events {
		timeBlocks[i] = event.EventTime
	}

	return timeBlocks, fixedTimes, nil
}

func sortInputs(deliveries []domain.Delivery, couriers []domain.Courier) ([]domain.Delivery, []domain.Courier) {
	sorted := append([]domain.Delivery{}, deliveries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	sortedCouriers := append([]domain.Courier{}, couriers...)
	sort.Slice(sortedCouriers, func(i, j int) bool { return sortedCouriers[i].ID < sortedCouriers[j].ID })

	return sorted, sortedCouriers
}
