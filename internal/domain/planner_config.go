package domain

// PlannerType selects which RouteSolver implementation a request uses.
type PlannerType string

const (
	PlannerORTools          PlannerType = "OR_TOOLS"
	PlannerInsertionHeur    PlannerType = "INSERTION_HEURISTIC"
	PlannerORToolsInsertion PlannerType = "OR_TOOLS_INSERTION"
	PlannerHALNS            PlannerType = "HALNS"
)

type PenaltyDirection string

const (
	DirectionEarliness PenaltyDirection = "EARLINESS"
	DirectionLateness  PenaltyDirection = "LATENESS"
)

// PenaltySpec expands, per delivery, into a TimeWindowConstraint: a
// hard range or a weighted soft bound on a stop's arrival/departure.
type PenaltySpec struct {
	IsHard    bool
	Weight    int
	Offset    int64
	NodeType  DeliveryEventType
	Direction PenaltyDirection
}

// PlannerConfig is resolved once per request; it is never mutated and
// carries no ambient/global state.
type PlannerConfig struct {
	PickupWaitingTime    int64
	PickupAsapTolerance  int64
	DropWaitingTime      int64
	DropAsapTolerance    int64

	DefaultFirstPointArrivalTime     int64
	DefaultFirstPointArrivalDistance int64
	DefaultCourierCapacity           int

	PlannerType          PlannerType
	UsePreviousSolution  bool
	UseCourierCapacity   bool

	FixedTimeBuffer int64

	ReturnToHub bool
	HubLocation *Location

	Penalties []PenaltySpec

	AllowWaitOnDrop bool

	TimeLimitSeconds int
}

// DefaultPlannerConfig mirrors the source system's default
// configuration, including its default penalty table.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		PickupWaitingTime:   0,
		PickupAsapTolerance: 1200,
		DropWaitingTime:     240,
		DropAsapTolerance:   1200,

		DefaultFirstPointArrivalTime:     1200,
		DefaultFirstPointArrivalDistance: 10000,
		DefaultCourierCapacity:           10,

		PlannerType:         PlannerORTools,
		UsePreviousSolution: true,
		UseCourierCapacity:  false,

		FixedTimeBuffer: 600,

		ReturnToHub: false,
		HubLocation: nil,

		Penalties: []PenaltySpec{
			{NodeType: EventPickup, Direction: DirectionEarliness, IsHard: true, Weight: 1},
			{NodeType: EventPickup, Direction: DirectionLateness, Weight: 1},
			{NodeType: EventDrop, Direction: DirectionEarliness, Weight: 10},
			{NodeType: EventDrop, Direction: DirectionLateness, Weight: 25},
			{NodeType: EventDrop, Direction: DirectionLateness, Weight: 50, Offset: 1200},
			{NodeType: EventDrop, Direction: DirectionLateness, Weight: 100, Offset: 2400},
		},

		AllowWaitOnDrop:  true,
		TimeLimitSeconds: 120,
	}
}

func (c PlannerConfig) ServiceTime(t DeliveryEventType) int64 {
	switch t {
	case EventPickup:
		return c.PickupWaitingTime
	case EventDrop:
		return c.DropWaitingTime
	default:
		return 0
	}
}

func (c PlannerConfig) AsapTolerance(t DeliveryEventType) int64 {
	switch t {
	case EventPickup:
		return c.PickupAsapTolerance
	case EventDrop:
		return c.DropAsapTolerance
	default:
		return 0
	}
}
