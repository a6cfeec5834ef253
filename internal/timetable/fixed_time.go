package timetable

import "delivery-planner-service/internal/domain"

// ComputeFixedTimes derives the latest-safe-departure time for each
// event in a plan by working backward from the event's own anchor
// time (the window's effective end for a pickup, its start for a
// drop): anchor minus service time minus travel time from the
// previous node minus a safety buffer. A plan with no assigned courier (not yet dispatched)
// has no fixed times.
func ComputeFixedTimes(
	startNode int,
	events []domain.DeliveryEvent,
	assignedCourierID *string,
	durationMatrix [][]int,
	pickupToNode, dropToNode map[string]int,
	pickupServiceTime, dropServiceTime, bufferTime int64,
) []*int64 {
	if assignedCourierID == nil {
		return make([]*int64, len(events))
	}

	nodes := make([]int, 0, len(events)+1)
	nodes = append(nodes, startNode)
	for _, event := range events {
		id := event.DeliveryOrderIDs[0]
		if event.Type == domain.EventPickup {
			nodes = append(nodes, pickupToNode[id])
		} else {
			nodes = append(nodes, dropToNode[id])
		}
	}

	fixedTimes := make([]*int64, len(events))
	for i, event := range events {
		fromNode, toNode := nodes[i], nodes[i+1]
		travelTime := int64(durationMatrix[fromNode][toNode])

		serviceTime := dropServiceTime
		eventTime := event.EventTime.FromTime
		if event.Type == domain.EventPickup {
			serviceTime = pickupServiceTime
			eventTime = event.EventTime.EffectiveToTime()
		}

		fixedTime := eventTime - serviceTime - travelTime - bufferTime
		fixedTimes[i] = &fixedTime
	}

	return fixedTimes
}
