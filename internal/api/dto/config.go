package dto

import "delivery-planner-service/internal/domain"

type PenaltySpecDTO struct {
	IsHard    bool                     `json:"is_hard,omitempty"`
	Weight    int                      `json:"weight"`
	Offset    int64                    `json:"offset,omitempty"`
	NodeType  domain.DeliveryEventType `json:"node_type"`
	Direction domain.PenaltyDirection  `json:"direction"`
}

func (p PenaltySpecDTO) ToDomain() domain.PenaltySpec {
	return domain.PenaltySpec{
		IsHard:    p.IsHard,
		Weight:    p.Weight,
		Offset:    p.Offset,
		NodeType:  p.NodeType,
		Direction: p.Direction,
	}
}

// PlannerConfigDTO mirrors domain.PlannerConfig with every field
// optional: ToDomain overlays only the fields present in the request
// onto a base config (normally domain.DefaultPlannerConfig()),
// matching the source system's pydantic partial-override semantics.
type PlannerConfigDTO struct {
	PickupWaitingTime   *int64 `json:"pickup_waiting_time,omitempty"`
	PickupAsapTolerance *int64 `json:"pickup_asap_tolerance,omitempty"`
	DropWaitingTime     *int64 `json:"drop_waiting_time,omitempty"`
	DropAsapTolerance   *int64 `json:"drop_asap_tolerance,omitempty"`

	DefaultFirstPointArrivalTime     *int64 `json:"default_first_point_arrival_time,omitempty"`
	DefaultFirstPointArrivalDistance *int64 `json:"default_first_point_arrival_distance,omitempty"`
	DefaultCourierCapacity           *int   `json:"default_courier_capacity,omitempty"`

	PlannerType         *domain.PlannerType `json:"planner_type,omitempty"`
	UsePreviousSolution *bool               `json:"use_previous_solution,omitempty"`
	UseCourierCapacity  *bool               `json:"use_courier_capacity,omitempty"`

	FixedTimeBuffer *int64 `json:"fixed_time_buffer,omitempty"`

	ReturnToHub *bool        `json:"return_to_hub,omitempty"`
	HubLocation *LocationDTO `json:"hub_location,omitempty"`

	Penalties []PenaltySpecDTO `json:"penalties,omitempty"`

	AllowWaitOnDrop  *bool `json:"allow_wait_on_drop,omitempty"`
	TimeLimitSeconds *int  `json:"time_limit_seconds,omitempty"`
}

func (c PlannerConfigDTO) ToDomain(base domain.PlannerConfig) domain.PlannerConfig {
	if c.PickupWaitingTime != nil {
		base.PickupWaitingTime = *c.PickupWaitingTime
	}
	if c.PickupAsapTolerance != nil {
		base.PickupAsapTolerance = *c.PickupAsapTolerance
	}
	if c.DropWaitingTime != nil {
		base.DropWaitingTime = *c.DropWaitingTime
	}
	if c.DropAsapTolerance != nil {
		base.DropAsapTolerance = *c.DropAsapTolerance
	}
	if c.DefaultFirstPointArrivalTime != nil {
		base.DefaultFirstPointArrivalTime = *c.DefaultFirstPointArrivalTime
	}
	if c.DefaultFirstPointArrivalDistance != nil {
		base.DefaultFirstPointArrivalDistance = *c.DefaultFirstPointArrivalDistance
	}
	if c.DefaultCourierCapacity != nil {
		base.DefaultCourierCapacity = *c.DefaultCourierCapacity
	}
	if c.PlannerType != nil {
		base.PlannerType = *c.PlannerType
	}
	if c.UsePreviousSolution != nil {
		base.UsePreviousSolution = *c.UsePreviousSolution
	}
	if c.UseCourierCapacity != nil {
		base.UseCourierCapacity = *c.UseCourierCapacity
	}
	if c.FixedTimeBuffer != nil {
		base.FixedTimeBuffer = *c.FixedTimeBuffer
	}
	if c.ReturnToHub != nil {
		base.ReturnToHub = *c.ReturnToHub
	}
	if c.HubLocation != nil {
		loc := c.HubLocation.ToDomain()
		base.HubLocation = &loc
	}
	if c.Penalties != nil {
		penalties := make([]domain.PenaltySpec, len(c.Penalties))
		for i, p := range c.Penalties {
			penalties[i] = p.ToDomain()
		}
		base.Penalties = penalties
	}
	if c.AllowWaitOnDrop != nil {
		base.AllowWaitOnDrop = *c.AllowWaitOnDrop
	}
	if c.TimeLimitSeconds != nil {
		base.TimeLimitSeconds = *c.TimeLimitSeconds
	}
	return base
}
