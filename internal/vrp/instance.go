// Package vrp projects delivery/courier domain input into an indexed
// node/matrix model (VrpInstance) that the route solvers and the
// timetable LP both operate on, plus the VrpMapping bridge back to
// delivery/courier identities.
package vrp

import "delivery-planner-service/internal/domain"

// EdgeForbidden marks an arc that must never be taken.
const EdgeForbidden = 1_000_000_000

// MaxTimestamp is the "no upper bound" sentinel for a time window.
const MaxTimestamp = domain.MaxTimestamp

// TimeWindowConstraint is a single lower/upper bound on a node's
// arrival/departure time, hard (must hold) or soft (penalized by
// Weight per second of violation).
type TimeWindowConstraint struct {
	Node     int
	IsHard   bool
	FromTime int64
	ToTime   int64
	Weight   int
}

func NewTimeWindowConstraint(node int) TimeWindowConstraint {
	return TimeWindowConstraint{Node: node, ToTime: MaxTimestamp, Weight: 1}
}

func (c TimeWindowConstraint) HasUpperBound() bool { return c.ToTime < MaxTimestamp }
func (c TimeWindowConstraint) HasLowerBound() bool { return c.FromTime > 0 }

// Instance is the VRP problem built for one planning call. Node index
// space: [0,NumPlans) start depots, [NumPlans,2*NumPlans) end depots,
// [2*NumPlans,...) real nodes (pickups then drops).
type Instance struct {
	DurationMatrix [][]int
	DistanceMatrix [][]int

	NumPlans int
	Starts   []int
	Ends     []int

	CourierCapacities []int // nil when capacity dimension disabled
	StartUtilizations []int
	NodeDemands       []int

	PickupNodes []int
	DropNodes   []int

	DeliveriesNotStarted [][2]int // (pickupNode, dropNode)
	DeliveriesInProgress [][2]int // (courierIdx, dropNode)

	NodeTimeWindows  []TimeWindowConstraint
	StartTimeWindows []TimeWindowConstraint
	TimeWindowsByNode map[int][]TimeWindowConstraint

	PickupServiceTime int64
	DropServiceTime   int64

	PreviousPlans [][]int // nil when warm-start disabled

	TimeLimitSeconds int
}

// Mapping bridges VRP node indices back to delivery/courier identity.
type Mapping struct {
	PlanIdxToCourierID map[int]string

	PickupToNode map[string]int
	DropToNode   map[string]int

	NodeToPickup map[int]domain.Delivery
	NodeToDrop   map[int]domain.Delivery

	DeliveryPlanIDs []*string
}

// Solution is one node-sequence route per plan with ETAs/ETDs for
// every visited node (absolute seconds).
type Solution struct {
	Plans [][]int
	Etas  [][]int64
	Etds  [][]int64
}
