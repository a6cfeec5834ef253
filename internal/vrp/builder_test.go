package vrp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/vrp"
)

type fakeRouting struct {
	size int
}

func (f *fakeRouting) CreateDurationDistanceMatrix(_ context.Context, locations []domain.Location) ([][]int, [][]int, error) {
	n := len(locations)
	dur := make([][]int, n)
	dist := make([][]int, n)
	for i := range dur {
		dur[i] = make([]int, n)
		dist[i] = make([]int, n)
		for j := range dur[i] {
			if i != j {
				dur[i][j] = 100
				dist[i][j] = 1000
			}
		}
	}
	return dur, dist, nil
}

func (f *fakeRouting) DurationDistanceRoute(_ context.Context, locations []domain.Location) ([]int, []int, error) {
	return make([]int, len(locations)), make([]int, len(locations)), nil
}

func oneDeliveryOneCourier() ([]domain.Delivery, []domain.Courier) {
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
	return deliveries, couriers
}

func TestCreateInstanceNodeLayout(t *testing.T) {
	deliveries, couriers := oneDeliveryOneCourier()
	b := vrp.NewBuilder(&fakeRouting{})

	inst, mapping, err := b.CreateInstance(context.Background(), deliveries, couriers, 1, nil, domain.DefaultPlannerConfig(), 0)
	require.NoError(t, err)

	require.Equal(t, 1, inst.NumPlans)
	require.Equal(t, []int{0}, inst.Starts)
	require.Equal(t, []int{1}, inst.Ends)

	pickupNode, ok := mapping.PickupToNode["d1"]
	require.True(t, ok)
	require.Equal(t, 2, pickupNode)

	dropNode, ok := mapping.DropToNode["d1"]
	require.True(t, ok)
	require.Equal(t, 3, dropNode)
}

func TestCreateInstanceForbidsArcsIntoStartsAndOutOfEnds(t *testing.T) {
	deliveries, couriers := oneDeliveryOneCourier()
	b := vrp.NewBuilder(&fakeRouting{})

	inst, _, err := b.CreateInstance(context.Background(), deliveries, couriers, 1, nil, domain.DefaultPlannerConfig(), 0)
	require.NoError(t, err)

	for row := range inst.DurationMatrix {
		require.Equal(t, vrp.EdgeForbidden, inst.DurationMatrix[row][0], "arc into start depot must be forbidden")
	}
	for col := range inst.DurationMatrix[1] {
		require.Equal(t, vrp.EdgeForbidden, inst.DurationMatrix[1][col], "arc out of end depot must be forbidden")
	}
}

func TestCreateInstanceStartToRealUsesCourierRow(t *testing.T) {
	deliveries, couriers := oneDeliveryOneCourier()
	b := vrp.NewBuilder(&fakeRouting{})

	inst, mapping, err := b.CreateInstance(context.Background(), deliveries, couriers, 1, nil, domain.DefaultPlannerConfig(), 0)
	require.NoError(t, err)

	pickupNode := mapping.PickupToNode["d1"]
	require.Equal(t, 100, inst.DurationMatrix[0][pickupNode])
}

func TestCreateInstanceSyntheticStartUsesDefault(t *testing.T) {
	deliveries, couriers := oneDeliveryOneCourier()
	config := domain.DefaultPlannerConfig()
	b := vrp.NewBuilder(&fakeRouting{})

	// Ask for 2 plans with only 1 courier: plan idx 1 is synthetic.
	inst, mapping, err := b.CreateInstance(context.Background(), deliveries, couriers, 2, nil, config, 0)
	require.NoError(t, err)

	pickupNode := mapping.PickupToNode["d1"]
	require.Equal(t, int(config.DefaultFirstPointArrivalTime), inst.DurationMatrix[1][pickupNode])
}

func TestCreateInstanceTimeWindowsFromPenalties(t *testing.T) {
	deliveries, couriers := oneDeliveryOneCourier()
	b := vrp.NewBuilder(&fakeRouting{})

	inst, mapping, err := b.CreateInstance(context.Background(), deliveries, couriers, 1, nil, domain.DefaultPlannerConfig(), 0)
	require.NoError(t, err)

	pickupNode := mapping.PickupToNode["d1"]
	constraints := inst.TimeWindowsByNode[pickupNode]
	require.NotEmpty(t, constraints)

	var sawHardEarliness bool
	for _, c := range constraints {
		if c.IsHard && c.HasLowerBound() {
			sawHardEarliness = true
			require.Equal(t, deliveries[0].PickupTime.FromTime, c.FromTime)
		}
	}
	require.True(t, sawHardEarliness)
}

func TestCreateInstanceSkipsLatenessForAnytimeWindow(t *testing.T) {
	loc := domain.Location{Lat: 1, Lon: 1}
	dest := domain.Location{Lat: 2, Lon: 2}
	pickupTime := domain.TimeBlock{FromTime: 1000}
	deliveries := []domain.Delivery{
		{
			ID:           "d1",
			Origin:       &loc,
			Destination:  dest,
			PickupTime:   &pickupTime,
			DeliveryTime: domain.TimeBlock{FromTime: 2000, Anytime: true},
		},
	}
	couriers := []domain.Courier{
		{ID: "c1", StartTimeLocation: domain.TimeLocation{Location: loc, Time: 500}},
	}
	b := vrp.NewBuilder(&fakeRouting{})

	inst, mapping, err := b.CreateInstance(context.Background(), deliveries, couriers, 1, nil, domain.DefaultPlannerConfig(), 0)
	require.NoError(t, err)

	dropNode := mapping.DropToNode["d1"]
	for _, c := range inst.TimeWindowsByNode[dropNode] {
		require.False(t, c.HasUpperBound(), "anytime drop window must never produce an upper bound")
	}
}

func TestCreateInstanceDeliveriesInProgressAndNotStarted(t *testing.T) {
	loc := domain.Location{Lat: 1, Lon: 1}
	dest := domain.Location{Lat: 2, Lon: 2}
	courierID := "c1"
	deliveries := []domain.Delivery{
		{ID: "d1", AssignedCourierID: &courierID, Destination: dest, DeliveryTime: domain.TimeBlock{FromTime: 2000}},
		{ID: "d2", Origin: &loc, Destination: dest, PickupTime: &domain.TimeBlock{FromTime: 1000}, DeliveryTime: domain.TimeBlock{FromTime: 2000}},
	}
	couriers := []domain.Courier{
		{ID: courierID, StartTimeLocation: domain.TimeLocation{Location: loc, Time: 500}},
	}
	b := vrp.NewBuilder(&fakeRouting{})

	inst, _, err := b.CreateInstance(context.Background(), deliveries, couriers, 1, nil, domain.DefaultPlannerConfig(), 0)
	require.NoError(t, err)

	require.Len(t, inst.DeliveriesInProgress, 1)
	require.Equal(t, 0, inst.DeliveriesInProgress[0][0])
	require.Len(t, inst.DeliveriesNotStarted, 1)
}
