package dto

import "delivery-planner-service/internal/domain"

type DeliveryDTO struct {
	ID                string        `json:"id"`
	AssignedCourierID *string       `json:"assigned_courier_id,omitempty"`
	Origin            *LocationDTO  `json:"origin,omitempty"`
	Destination       LocationDTO   `json:"destination"`
	PickupTime        *TimeBlockDTO `json:"pickup_time,omitempty"`
	DeliveryTime      TimeBlockDTO  `json:"delivery_time"`
	Size              *int          `json:"size,omitempty"`
}

func (d DeliveryDTO) ToDomain() domain.Delivery {
	var origin *domain.Location
	if d.Origin != nil {
		loc := d.Origin.ToDomain()
		origin = &loc
	}
	var pickupTime *domain.TimeBlock
	if d.PickupTime != nil {
		tb := d.PickupTime.ToDomain()
		pickupTime = &tb
	}
	return domain.Delivery{
		ID:                d.ID,
		AssignedCourierID: d.AssignedCourierID,
		Origin:            origin,
		Destination:       d.Destination.ToDomain(),
		PickupTime:        pickupTime,
		DeliveryTime:      d.DeliveryTime.ToDomain(),
		Size:              d.Size,
	}
}

type CourierDTO struct {
	ID                string          `json:"id"`
	StartTimeLocation TimeLocationDTO `json:"start_timelocation"`
	IsFinishing       bool            `json:"is_finishing,omitempty"`
	Capacity          *int            `json:"capacity,omitempty"`
	StartUtilization  *int            `json:"start_utilization,omitempty"`
}

func (c CourierDTO) ToDomain() domain.Courier {
	return domain.Courier{
		ID:                c.ID,
		StartTimeLocation: c.StartTimeLocation.ToDomain(),
		IsFinishing:       c.IsFinishing,
		Capacity:          c.Capacity,
		StartUtilization:  c.StartUtilization,
	}
}
