package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/service"
)

type fakeRouting struct{}

func (f *fakeRouting) CreateDurationDistanceMatrix(_ context.Context, locations []domain.Location) ([][]int, [][]int, error) {
	n := len(locations)
	dur := make([][]int, n)
	dist := make([][]int, n)
	for i := range dur {
		dur[i] = make([]int, n)
		dist[i] = make([]int, n)
		for j := range dur[i] {
			if i != j {
				dur[i][j] = 300
				dist[i][j] = 3000
			}
		}
	}
	return dur, dist, nil
}

func (f *fakeRouting) DurationDistanceRoute(_ context.Context, locations []domain.Location) ([]int, []int, error) {
	return make([]int, len(locations)), make([]int, len(locations)), nil
}

func TestCreatePlansWithInsertionHeuristic(t *testing.T) {
	loc := domain.Location{Lat: 1, Lon: 1}
	dest := domain.Location{Lat: 2, Lon: 2}
	pickupTime := domain.TimeBlock{FromTime: 1000}

	deliveries := []domain.Delivery{
		{
			ID:           "d1",
			Origin:       &loc,
			Destination:  dest,
			PickupTime:   &pickupTime,
			DeliveryTime: domain.TimeBlock{FromTime: 2000},
		},
	}
	couriers := []domain.Courier{
		{ID: "c1", StartTimeLocation: domain.TimeLocation{Location: loc, Time: 500}},
	}

	config := domain.DefaultPlannerConfig()
	config.PlannerType = domain.PlannerInsertionHeur

	svc := service.NewPlanningService(&fakeRouting{})
	plans, err := svc.CreatePlans(context.Background(), deliveries, couriers, 1, nil, config, 500)

	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Equal(t, []string{"d1"}, plans[0].DeliveryOrderIDs)
	require.Len(t, plans[0].DeliveryEvents, 2)
	require.Equal(t, domain.EventPickup, plans[0].DeliveryEvents[0].Type)
	require.Equal(t, domain.EventDrop, plans[0].DeliveryEvents[1].Type)
}

func TestCreatePlansUnsortedInputsAreSortedByID(t *testing.T) {
	locA := domain.Location{Lat: 1, Lon: 1}
	destA := domain.Location{Lat: 2, Lon: 2}
	locB := domain.Location{Lat: 3, Lon: 3}
	destB := domain.Location{Lat: 4, Lon: 4}
	pickupTime := domain.TimeBlock{FromTime: 1000}

	deliveries := []domain.Delivery{
		{ID: "b", Origin: &locB, Destination: destB, PickupTime: &pickupTime, DeliveryTime: domain.TimeBlock{FromTime: 2000}},
		{ID: "a", Origin: &locA, Destination: destA, PickupTime: &pickupTime, DeliveryTime: domain.TimeBlock{FromTime: 2000}},
	}
	couriers := []domain.Courier{
		{ID: "c2", StartTimeLocation: domain.TimeLocation{Location: locB, Time: 500}},
		{ID: "c1", StartTimeLocation: domain.TimeLocation{Location: locA, Time: 500}},
	}

	config := domain.DefaultPlannerConfig()
	config.PlannerType = domain.PlannerInsertionHeur

	svc := service.NewPlanningService(&fakeRouting{})
	plans, err := svc.CreatePlans(context.Background(), deliveries, couriers, 2, nil, config, 500)

	require.NoError(t, err)
	require.Len(t, plans, 2)

	assigned := map[string]bool{}
	for _, plan := range plans {
		for _, id := range plan.DeliveryOrderIDs {
			assigned[id] = true
		}
	}
	require.True(t, assigned["a"] && assigned["b"])
}

func TestOptimizeTimetableFitsTimesToExistingPlan(t *testing.T) {
	origin := domain.Location{Lat: 1, Lon: 1}
	dest := domain.Location{Lat: 2, Lon: 2}
	pickupTime := domain.TimeBlock{FromTime: 1000}

	delivery := domain.Delivery{
		ID:           "d1",
		Origin:       &origin,
		Destination:  dest,
		PickupTime:   &pickupTime,
		DeliveryTime: domain.TimeBlock{FromTime: 2000},
	}
	courier := domain.Courier{ID: "c1", StartTimeLocation: domain.TimeLocation{Location: origin, Time: 500}}

	config := domain.DefaultPlannerConfig()
	config.PlannerType = domain.PlannerInsertionHeur

	svc := service.NewPlanningService(&fakeRouting{})
	plans, err := svc.CreatePlans(context.Background(), []domain.Delivery{delivery}, []domain.Courier{courier}, 1, nil, config, 500)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	timeBlocks, fixedTimes, err := svc.OptimizeTimetable(context.Background(), []domain.Delivery{delivery}, courier, plans[0], config, 500)

	require.NoError(t, err)
	require.Len(t, timeBlocks, len(plans[0].DeliveryEvents))
	require.Len(t, fixedTimes, len(plans[0].DeliveryEvents))
	for _, tb := range timeBlocks {
		require.NotNil(t, tb.ToTime)
		require.LessOrEqual(t, tb.FromTime, *tb.ToTime)
	}
}
