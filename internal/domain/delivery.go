package domain

import "delivery-planner-service/internal/apperr"

// Delivery is one pickup-and-drop order. Origin and PickupTime are
// both present or both absent: when absent, AssignedCourierID must be
// set — the pickup already happened and only the drop remains.
type Delivery struct {
	ID                string
	AssignedCourierID *string
	Origin            *Location
	Destination       Location
	PickupTime        *TimeBlock
	DeliveryTime       TimeBlock
	Size              *int
}

func (d Delivery) HasPickup() bool {
	return d.Origin != nil && d.PickupTime != nil
}

// Validate enforces the origin/pickup_time/assigned_courier_id
// invariant from the data model.
func (d Delivery) Validate() error {
	hasOrigin := d.Origin != nil
	hasPickupTime := d.PickupTime != nil
	hasAssigned := d.AssignedCourierID != nil

	if hasOrigin != hasPickupTime {
		return apperr.Validation("delivery %s: origin and pickup_time must both be present or both absent", d.ID)
	}
	if hasOrigin && hasAssigned {
		return apperr.Validation("delivery %s: assigned_courier_id conflicts with a still-open pickup", d.ID)
	}
	if !hasOrigin && !hasAssigned {
		return apperr.Validation("delivery %s: drop-only delivery must carry assigned_courier_id", d.ID)
	}
	return nil
}
