package domain

// Plan is one courier's assembled route: an ordered list of stop
// events plus the aggregate duration/distance for the whole route.
type Plan struct {
	DeliveryEvents    []DeliveryEvent
	DeliveryOrderIDs  []string
	DurationSeconds   int64
	DistanceMeters    int64
	Mode              Mode
	AssignedCourierID *string
	DeliveryPlanID    *string
}
