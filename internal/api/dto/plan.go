package dto

import "delivery-planner-service/internal/domain"

type DeliveryEventDTO struct {
	Type             domain.DeliveryEventType `json:"type"`
	Location         LocationDTO              `json:"location"`
	DeliveryOrderIDs []string                 `json:"delivery_order_ids"`
	EventTime        TimeBlockDTO             `json:"event_time"`
	FixedTime        *int64                   `json:"fixed_time,omitempty"`
}

func (e DeliveryEventDTO) ToDomain() domain.DeliveryEvent {
	return domain.DeliveryEvent{
		Type:             e.Type,
		Location:         e.Location.ToDomain(),
		DeliveryOrderIDs: e.DeliveryOrderIDs,
		EventTime:        e.EventTime.ToDomain(),
		FixedTime:        e.FixedTime,
	}
}

func DeliveryEventFromDomain(e domain.DeliveryEvent) DeliveryEventDTO {
	return DeliveryEventDTO{
		Type:             e.Type,
		Location:         LocationFromDomain(e.Location),
		DeliveryOrderIDs: e.DeliveryOrderIDs,
		EventTime:        TimeBlockFromDomain(e.EventTime),
		FixedTime:        e.FixedTime,
	}
}

type PlanDTO struct {
	DeliveryEvents    []DeliveryEventDTO `json:"delivery_events"`
	DeliveryOrderIDs  []string           `json:"delivery_order_ids"`
	Duration          int64              `json:"duration"`
	Distance          int64              `json:"distance"`
	Mode              domain.Mode        `json:"mode,omitempty"`
	AssignedCourierID *string            `json:"assigned_courier_id,omitempty"`
	DeliveryPlanID    *string            `json:"delivery_plan_id,omitempty"`
}

func (p PlanDTO) ToDomain() domain.Plan {
	events := make([]domain.DeliveryEvent, len(p.DeliveryEvents))
	for i, e := range p.DeliveryEvents {
		events[i] = e.ToDomain()
	}
	mode := p.Mode
	if mode == "" {
		mode = domain.ModeCar
	}
	return domain.Plan{
		DeliveryEvents:    events,
		DeliveryOrderIDs:  p.DeliveryOrderIDs,
		DurationSeconds:   p.Duration,
		DistanceMeters:    p.Distance,
		Mode:              mode,
		AssignedCourierID: p.AssignedCourierID,
		DeliveryPlanID:    p.DeliveryPlanID,
	}
}

func PlanFromDomain(p domain.Plan) PlanDTO {
	events := make([]DeliveryEventDTO, len(p.DeliveryEvents))
	for i, e := range p.DeliveryEvents {
		events[i] = DeliveryEventFromDomain(e)
	}
	return PlanDTO{
		DeliveryEvents:    events,
		DeliveryOrderIDs:  p.DeliveryOrderIDs,
		Duration:          p.DurationSeconds,
		Distance:          p.DistanceMeters,
		Mode:              p.Mode,
		AssignedCourierID: p.AssignedCourierID,
		DeliveryPlanID:    p.DeliveryPlanID,
	}
}
