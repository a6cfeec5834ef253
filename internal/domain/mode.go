package domain

// Mode is the transport mode a plan is executed in. Only CAR feeds
// routing-cost computation; the others are tracked on the plan only.
type Mode string

const (
	ModeCar          Mode = "CAR"
	ModeBike         Mode = "BIKE"
	ModeElectricBike Mode = "ELECTRIC_BIKE"
	ModeTransit      Mode = "TRANSIT"
	ModeWalk         Mode = "WALK"
)
