// Package assembler turns a solved VRP route (node sequence + ETAs/ETDs
// per plan) into domain.Plan stop events: merging orders that share a
// physical stop, deferring pickups into a later co-located stop when
// the order is still in the courier's trunk, and computing each
// event's fixed (latest-safe-departure) time.
package assembler

import (
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/timetable"
	"delivery-planner-service/internal/vrp"
)

// Assemble converts a VRP solution into one domain.Plan per vehicle
// slot, in the mandated order: stop assembly with co-location merge,
// the deferred-pickup sweep, then fixed-time computation.
func Assemble(solution *vrp.Solution, mapping *vrp.Mapping, instance *vrp.Instance, fixedTimeBuffer int64) []domain.Plan {
	plans := make([]domain.Plan, len(solution.Plans))

	for vehicleIdx, route := range solution.Plans {
		etas := solution.Etas[vehicleIdx]
		etds := solution.Etds[vehicleIdx]

		plan := domain.Plan{Mode: domain.ModeCar}
		if courierID, ok := mapping.PlanIdxToCourierID[vehicleIdx]; ok {
			id := courierID
			plan.AssignedCourierID = &id
		}

		var events []domain.DeliveryEvent
		var lastEvent *domain.DeliveryEvent
		previousNode := -1
		orderSeen := make(map[string]bool)
		routeDistance := int64(0)

		for i, node := range route {
			eta, etd := etas[i], etds[i]

			var location domain.Location
			var eventType domain.DeliveryEventType
			var deliveryID string

			if delivery, ok := mapping.NodeToPickup[node]; ok {
				location = *delivery.Origin
				eventType = domain.EventPickup
				deliveryID = delivery.ID
			} else if delivery, ok := mapping.NodeToDrop[node]; ok {
				location = delivery.Destination
				eventType = domain.EventDrop
				deliveryID = delivery.ID
			} else {
				continue
			}

			startsNewEvent := lastEvent == nil ||
				lastEvent.Location.DistanceMeters(location) > domain.CoLocationRadiusMeters ||
				lastEvent.Type != eventType ||
				eventType == domain.EventDrop

			if startsNewEvent {
				if lastEvent != nil && previousNode >= 0 {
					travelDuration := int64(instance.DurationMatrix[previousNode][node])
					adjusted := eta - travelDuration
					if adjusted > lastEvent.EventTime.EffectiveToTime() {
						v := adjusted
						lastEvent.EventTime.ToTime = &v
					}
				}

				toTime := etd
				newEvent := domain.DeliveryEvent{
					Type:             eventType,
					Location:         location,
					DeliveryOrderIDs: []string{deliveryID},
					EventTime:        domain.TimeBlock{FromTime: eta, ToTime: &toTime},
				}
				events = append(events, newEvent)
				lastEvent = &events[len(events)-1]
			} else {
				lastEvent.DeliveryOrderIDs = append(lastEvent.DeliveryOrderIDs, deliveryID)
				if eta < lastEvent.EventTime.FromTime {
					lastEvent.EventTime.FromTime = eta
				}
				if etd > lastEvent.EventTime.EffectiveToTime() {
					v := etd
					lastEvent.EventTime.ToTime = &v
				}
			}

			orderSeen[deliveryID] = true

			if previousNode >= 0 {
				routeDistance += int64(instance.DistanceMatrix[previousNode][node])
			}
			previousNode = node
		}

		plan.DeliveryEvents = events
		plan.DistanceMeters = routeDistance
		if len(etas) > 0 {
			plan.DurationSeconds = etas[len(etas)-1] - etds[0]
		}
		plan.DeliveryOrderIDs = make([]string, 0, len(orderSeen))
		for id := range orderSeen {
			plan.DeliveryOrderIDs = append(plan.DeliveryOrderIDs, id)
		}

		if mapping.DeliveryPlanIDs != nil && vehicleIdx < len(mapping.DeliveryPlanIDs) {
			plan.DeliveryPlanID = mapping.DeliveryPlanIDs[vehicleIdx]
		}

		plans[vehicleIdx] = plan
	}

	for i := range plans {
		plans[i].DeliveryEvents = DeferPickups(plans[i].DeliveryEvents)
	}

	for i := range plans {
		fixedTimes := timetable.ComputeFixedTimes(
			instance.Starts[i],
			plans[i].DeliveryEvents,
			plans[i].AssignedCourierID,
			instance.DurationMatrix,
			mapping.PickupToNode,
			mapping.DropToNode,
			instance.PickupServiceTime,
			instance.DropServiceTime,
			fixedTimeBuffer,
		)
		for j := range plans[i].DeliveryEvents {
			plans[i].DeliveryEvents[j].FixedTime = fixedTimes[j]
		}
	}

	return plans
}

// DeferPickups walks a plan's assembled events and, for each order
// already carried in the courier's trunk, re-homes it onto a later
// pickup event if that event is at (or within 25m of) the order's
// original pickup location - collapsing "drive by twice" pickups into
// one physical stop. Events left with no orders are dropped.
func DeferPickups(events []domain.DeliveryEvent) []domain.DeliveryEvent {
	pickupEventPerOrder := make(map[string]*domain.DeliveryEvent)
	ordersInTrunk := make(map[string]bool)

	for i := range events {
		event := &events[i]
		if event.Type == domain.EventPickup {
			if len(ordersInTrunk) > 0 {
				for order := range ordersInTrunk {
					original := pickupEventPerOrder[order]
					if original.Location.DistanceMeters(event.Location) < domain.CoLocationRadiusMeters {
						original.DeliveryOrderIDs = removeID(original.DeliveryOrderIDs, order)
						event.DeliveryOrderIDs = append(event.DeliveryOrderIDs, order)
					}
				}
			}
			for _, id := range event.DeliveryOrderIDs {
				ordersInTrunk[id] = true
				pickupEventPerOrder[id] = event
			}
		} else {
			for _, id := range event.DeliveryOrderIDs {
				delete(ordersInTrunk, id)
			}
		}
	}

	ret := make([]domain.DeliveryEvent, 0, len(events))
	for _, event := range events {
		if len(event.DeliveryOrderIDs) != 0 {
			ret = append(ret, event)
		}
	}
	return ret
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
