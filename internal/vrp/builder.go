package vrp

import (
	"context"
	"sort"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/ports"
)

// Builder turns a planning request (deliveries, couriers, a planner
// config, previous plans) into an Instance/Mapping pair, querying a
// RoutingBackend once for the pairwise duration/distance matrix.
type Builder struct {
	Routing ports.RoutingBackend
}

func NewBuilder(routing ports.RoutingBackend) *Builder {
	return &Builder{Routing: routing}
}

// CreateInstance builds the VRP node/matrix model for one planning
// request. deliveries and couriers must already be sorted by id by
// the caller, matching the source system's determinism guarantee.
func (b *Builder) CreateInstance(
	ctx context.Context,
	deliveries []domain.Delivery,
	couriers []domain.Courier,
	numPlansToCreate int,
	previousPlans []domain.Plan,
	config domain.PlannerConfig,
	now int64,
) (*Instance, *Mapping, error) {
	numPlans := numPlansToCreate
	if len(couriers) > numPlans {
		numPlans = len(couriers)
	}

	mapping := b.createNodeDeliveryMappings(deliveries, numPlans)

	durationMatrix, distanceMatrix, err := b.createDurationAndDistanceMatrix(ctx, deliveries, couriers, numPlans, config, mapping)
	if err != nil {
		return nil, nil, err
	}

	inst := &Instance{
		DurationMatrix:    durationMatrix,
		DistanceMatrix:    distanceMatrix,
		NumPlans:          numPlans,
		PickupServiceTime: config.PickupWaitingTime,
		DropServiceTime:   config.DropWaitingTime,
		TimeLimitSeconds:  config.TimeLimitSeconds,
	}
	inst.Starts = make([]int, numPlans)
	inst.Ends = make([]int, numPlans)
	for i := 0; i < numPlans; i++ {
		inst.Starts[i] = i
		inst.Ends[i] = numPlans + i
	}

	inst.PickupNodes = make([]int, 0, len(mapping.PickupToNode))
	for _, n := range mapping.PickupToNode {
		inst.PickupNodes = append(inst.PickupNodes, n)
	}
	sort.Ints(inst.PickupNodes)

	inst.DropNodes = make([]int, 0, len(mapping.DropToNode))
	for _, n := range mapping.DropToNode {
		inst.DropNodes = append(inst.DropNodes, n)
	}
	sort.Ints(inst.DropNodes)

	startTW, nodeTW, byNode := b.createTimeWindows(deliveries, couriers, numPlans, mapping, config, now)
	inst.StartTimeWindows = startTW
	inst.NodeTimeWindows = nodeTW
	inst.TimeWindowsByNode = byNode

	notStarted, inProgress := b.createInfoDeliveries(deliveries, couriers, mapping)
	inst.DeliveriesNotStarted = notStarted
	inst.DeliveriesInProgress = inProgress

	if config.UseCourierCapacity {
		capacities, utilizations := b.createCourierCapacities(couriers, numPlans, config)
		inst.CourierCapacities = capacities
		inst.StartUtilizations = utilizations
		inst.NodeDemands = b.createNodeDemands(deliveries, mapping, len(durationMatrix))
	}

	if config.UsePreviousSolution {
		inst.PreviousPlans = b.createRoutesFromPlans(couriers, previousPlans, numPlans, mapping)
	}

	return inst, mapping, nil
}

func (b *Builder) createNodeDeliveryMappings(deliveries []domain.Delivery, numPlans int) *Mapping {
	m := &Mapping{
		PickupToNode: make(map[string]int),
		DropToNode:   make(map[string]int),
		NodeToPickup: make(map[int]domain.Delivery),
		NodeToDrop:   make(map[int]domain.Delivery),
	}

	node := 2 * numPlans
	for _, d := range deliveries {
		if !d.HasPickup() {
			continue
		}
		m.PickupToNode[d.ID] = node
		m.NodeToPickup[node] = d
		node++
	}
	for _, d := range deliveries {
		m.DropToNode[d.ID] = node
		m.NodeToDrop[node] = d
		node++
	}
	return m
}

// createDurationAndDistanceMatrix builds the full node-space matrices.
// Node space: [0,numPlans) starts, [numPlans,2*numPlans) ends,
// [2*numPlans,...) real nodes (pickups then drops, matching Mapping).
func (b *Builder) createDurationAndDistanceMatrix(
	ctx context.Context,
	deliveries []domain.Delivery,
	couriers []domain.Courier,
	numPlans int,
	config domain.PlannerConfig,
	mapping *Mapping,
) ([][]int, [][]int, error) {
	var pickupLocations, dropLocations, courierLocations []domain.Location
	for _, d := range deliveries {
		if d.HasPickup() {
			pickupLocations = append(pickupLocations, *d.Origin)
		}
	}
	for _, d := range deliveries {
		dropLocations = append(dropLocations, d.Destination)
	}
	for _, c := range couriers {
		courierLocations = append(courierLocations, c.StartTimeLocation.Location)
	}

	hasHub := config.ReturnToHub && config.HubLocation != nil

	queryLocations := make([]domain.Location, 0, len(pickupLocations)+len(dropLocations)+len(courierLocations)+1)
	queryLocations = append(queryLocations, pickupLocations...)
	queryLocations = append(queryLocations, dropLocations...)
	queryLocations = append(queryLocations, courierLocations...)
	hubIdx := -1
	if hasHub {
		hubIdx = len(queryLocations)
		queryLocations = append(queryLocations, *config.HubLocation)
	}

	backendDur, backendDist, err := b.Routing.CreateDurationDistanceMatrix(ctx, queryLocations)
	if err != nil {
		return nil, nil, err
	}

	realCount := len(pickupLocations) + len(dropLocations)
	courierCount := len(courierLocations)
	total := 2*numPlans + realCount

	buildOne := func(backend [][]int, defaultStartValue int) [][]int {
		m := make([][]int, total)
		for i := range m {
			m[i] = make([]int, total)
		}

		// Arcs into any start depot, and arcs out of any end depot,
		// are always forbidden.
		for row := 0; row < total; row++ {
			for col := 0; col < numPlans; col++ {
				m[row][col] = EdgeForbidden
			}
		}
		for row := numPlans; row < 2*numPlans; row++ {
			for col := 0; col < total; col++ {
				m[row][col] = EdgeForbidden
			}
		}

		toHubFor := func(backendRow int, isSynthetic bool) int {
			if !hasHub {
				return 0
			}
			if isSynthetic {
				return defaultStartValue
			}
			return backend[backendRow][hubIdx]
		}

		for i := 0; i < numPlans; i++ {
			var rowCost []int
			var toHub int
			if i < courierCount {
				backendRow := realCount + i
				rowCost = backend[backendRow]
				toHub = toHubFor(backendRow, false)
			} else {
				toHub = toHubFor(0, true)
			}
			for k := 0; k < realCount; k++ {
				if i < courierCount {
					m[i][2*numPlans+k] = rowCost[k]
				} else {
					m[i][2*numPlans+k] = defaultStartValue
				}
			}
			for j := 0; j < numPlans; j++ {
				m[i][numPlans+j] = toHub
			}
		}

		for k := 0; k < realCount; k++ {
			toHub := 0
			if hasHub {
				toHub = backend[k][hubIdx]
			}
			for j := 0; j < numPlans; j++ {
				m[2*numPlans+k][numPlans+j] = toHub
			}
		}

		for k1 := 0; k1 < realCount; k1++ {
			for k2 := 0; k2 < realCount; k2++ {
				m[2*numPlans+k1][2*numPlans+k2] = backend[k1][k2]
			}
		}

		return m
	}

	durationMatrix := buildOne(backendDur, int(config.DefaultFirstPointArrivalTime))
	distanceMatrix := buildOne(backendDist, int(config.DefaultFirstPointArrivalDistance))

	return durationMatrix, distanceMatrix, nil
}

func (b *Builder) createTimeWindows(
	deliveries []domain.Delivery,
	couriers []domain.Courier,
	numPlans int,
	mapping *Mapping,
	config domain.PlannerConfig,
	now int64,
) ([]TimeWindowConstraint, []TimeWindowConstraint, map[int][]TimeWindowConstraint) {
	mapping.PlanIdxToCourierID = make(map[int]string, len(couriers))
	startTW := make([]TimeWindowConstraint, numPlans)
	for i := 0; i < numPlans; i++ {
		fromTime := now
		if i < len(couriers) {
			fromTime = couriers[i].StartTimeLocation.Time
			mapping.PlanIdxToCourierID[i] = couriers[i].ID
		}
		startTW[i] = TimeWindowConstraint{Node: i, IsHard: true, FromTime: fromTime, ToTime: fromTime, Weight: 1}
	}

	var nodeTW []TimeWindowConstraint
	byNode := make(map[int][]TimeWindowConstraint)

	for _, d := range deliveries {
		for _, spec := range config.Penalties {
			c, ok := b.constraintFromSpec(d, spec, mapping, config)
			if !ok {
				continue
			}
			nodeTW = append(nodeTW, c)
			byNode[c.Node] = append(byNode[c.Node], c)
		}
	}

	// TimeWindowsByNode feeds the timetable LP, which needs the start
	// depots' pinned windows too (not just delivery penalties) or a
	// route's start node would be a free variable in the LP.
	for _, tw := range startTW {
		byNode[tw.Node] = append(byNode[tw.Node], tw)
	}

	return startTW, nodeTW, byNode
}

func (b *Builder) constraintFromSpec(d domain.Delivery, spec domain.PenaltySpec, mapping *Mapping, config domain.PlannerConfig) (TimeWindowConstraint, bool) {
	isPickup := spec.NodeType == domain.EventPickup
	if isPickup && !d.HasPickup() {
		return TimeWindowConstraint{}, false
	}

	var node int
	var tb domain.TimeBlock
	if isPickup {
		node = mapping.PickupToNode[d.ID]
		tb = *d.PickupTime
	} else {
		node = mapping.DropToNode[d.ID]
		tb = d.DeliveryTime
	}

	c := NewTimeWindowConstraint(node)
	c.IsHard = spec.IsHard
	c.Weight = spec.Weight

	switch spec.Direction {
	case domain.DirectionEarliness:
		c.FromTime = tb.FromTime - spec.Offset
	case domain.DirectionLateness:
		if tb.Anytime {
			return TimeWindowConstraint{}, false
		}
		switch {
		case tb.Asap:
			c.ToTime = d.DeliveryTime.FromTime + config.AsapTolerance(spec.NodeType) + spec.Offset
		case tb.ToTime != nil:
			c.ToTime = *tb.ToTime + spec.Offset
		}
	}

	return c, true
}

func (b *Builder) createInfoDeliveries(deliveries []domain.Delivery, couriers []domain.Courier, mapping *Mapping) ([][2]int, [][2]int) {
	courierIdx := make(map[string]int, len(couriers))
	for i, c := range couriers {
		courierIdx[c.ID] = i
	}

	var notStarted, inProgress [][2]int
	for _, d := range deliveries {
		dropNode := mapping.DropToNode[d.ID]
		if d.AssignedCourierID != nil {
			if idx, ok := courierIdx[*d.AssignedCourierID]; ok {
				inProgress = append(inProgress, [2]int{idx, dropNode})
			}
			continue
		}
		pickupNode := mapping.PickupToNode[d.ID]
		notStarted = append(notStarted, [2]int{pickupNode, dropNode})
	}
	return notStarted, inProgress
}

func (b *Builder) createRoutesFromPlans(couriers []domain.Courier, previousPlans []domain.Plan, numPlans int, mapping *Mapping) [][]int {
	if previousPlans == nil {
		return nil
	}

	byCourier := make(map[string]domain.Plan)
	var unassigned []domain.Plan
	for _, p := range previousPlans {
		if p.AssignedCourierID != nil {
			byCourier[*p.AssignedCourierID] = p
		} else {
			unassigned = append(unassigned, p)
		}
	}
	sort.Slice(unassigned, func(i, j int) bool {
		return len(unassigned[i].DeliveryOrderIDs) < len(unassigned[j].DeliveryOrderIDs)
	})

	routes := make([][]int, 0, numPlans)
	mapping.DeliveryPlanIDs = make([]*string, 0, numPlans)

	for _, c := range couriers {
		plan, ok := byCourier[c.ID]
		if !ok {
			routes = append(routes, []int{})
			mapping.DeliveryPlanIDs = append(mapping.DeliveryPlanIDs, nil)
			continue
		}
		routes = append(routes, b.routeFromPlan(plan, mapping))
		mapping.DeliveryPlanIDs = append(mapping.DeliveryPlanIDs, plan.DeliveryPlanID)
	}

	toAdd := numPlans - len(routes)
	for i := 0; i < toAdd; i++ {
		if len(unassigned) == 0 {
			routes = append(routes, []int{})
			mapping.DeliveryPlanIDs = append(mapping.DeliveryPlanIDs, nil)
			continue
		}
		plan := unassigned[len(unassigned)-1]
		unassigned = unassigned[:len(unassigned)-1]
		routes = append(routes, b.routeFromPlan(plan, mapping))
		mapping.DeliveryPlanIDs = append(mapping.DeliveryPlanIDs, plan.DeliveryPlanID)
	}

	return routes
}

func (b *Builder) routeFromPlan(plan domain.Plan, mapping *Mapping) []int {
	route := make([]int, 0, len(plan.DeliveryEvents))
	for _, event := range plan.DeliveryEvents {
		for _, id := range event.DeliveryOrderIDs {
			var node int
			var ok bool
			if event.Type == domain.EventPickup {
				node, ok = mapping.PickupToNode[id]
			}
			if !ok {
				node, ok = mapping.DropToNode[id]
			}
			if ok {
				route = append(route, node)
			}
		}
	}
	return route
}

func (b *Builder) createCourierCapacities(couriers []domain.Courier, numPlans int, config domain.PlannerConfig) ([]int, []int) {
	capacities := make([]int, numPlans)
	utilizations := make([]int, numPlans)
	for i := 0; i < numPlans; i++ {
		if i < len(couriers) {
			c := couriers[i]
			if c.Capacity != nil {
				capacities[i] = *c.Capacity
			} else {
				capacities[i] = config.DefaultCourierCapacity
			}
			if c.StartUtilization != nil {
				utilizations[i] = *c.StartUtilization
			}
		} else {
			capacities[i] = config.DefaultCourierCapacity
		}
	}
	return capacities, utilizations
}

func (b *Builder) createNodeDemands(deliveries []domain.Delivery, mapping *Mapping, numNodes int) []int {
	demands := make([]int, numNodes)
	for _, d := range deliveries {
		size := 0
		if d.Size != nil {
			size = *d.Size
		}
		if node, ok := mapping.PickupToNode[d.ID]; ok {
			demands[node] = size
		}
		if node, ok := mapping.DropToNode[d.ID]; ok {
			demands[node] = -size
		}
	}
	return demands
}
