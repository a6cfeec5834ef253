package timetable_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/timetable"
	"delivery-planner-service/internal/vrp"
)

func TestComputeOptimalTimetableSimpleRoute(t *testing.T) {
	// Two nodes: a pickup then a drop, 100s apart, both hard windows
	// wide enough to be slack.
	durationMatrix := [][]int{
		{0, 100},
		{100, 0},
	}
	timeWindows := map[int][]vrp.TimeWindowConstraint{
		0: {{Node: 0, IsHard: true, FromTime: 1000, ToTime: 5000, Weight: 1}},
		1: {{Node: 1, IsHard: true, FromTime: 1000, ToTime: 5000, Weight: 1}},
	}

	config := domain.DefaultPlannerConfig()

	etas, etds, penalty, err := timetable.ComputeOptimalTimetable(
		[]int{1}, []int{0}, durationMatrix, timeWindows, []int{0, 1}, config,
	)

	require.NoError(t, err)
	require.Len(t, etas, 2)
	require.Len(t, etds, 2)
	require.Equal(t, 0.0, penalty)
	require.GreaterOrEqual(t, etas[0], int64(1000))
	require.GreaterOrEqual(t, etds[1], etas[1])
	require.GreaterOrEqual(t, etas[1], etds[0]+100)
}

func TestComputeOptimalTimetableEmptyRoute(t *testing.T) {
	etas, etds, penalty, err := timetable.ComputeOptimalTimetable(nil, nil, nil, nil, nil, domain.DefaultPlannerConfig())

	require.NoError(t, err)
	require.Nil(t, etas)
	require.Nil(t, etds)
	require.Equal(t, 0.0, penalty)
}

func TestComputeOptimalTimetablePenalizesSoftViolation(t *testing.T) {
	durationMatrix := [][]int{
		{0, 100},
		{100, 0},
	}
	// Node 0 is pinned to exactly 1000 by a hard window, so arrival at
	// node 1 can never be earlier than 1100 - the soft upper bound of
	// 500 there can only be violated, never satisfied by waiting.
	timeWindows := map[int][]vrp.TimeWindowConstraint{
		0: {{Node: 0, IsHard: true, FromTime: 1000, ToTime: 1000, Weight: 1}},
		1: {{Node: 1, IsHard: false, ToTime: 500, Weight: 25}},
	}

	config := domain.DefaultPlannerConfig()

	_, _, penalty, err := timetable.ComputeOptimalTimetable(
		[]int{1}, []int{0}, durationMatrix, timeWindows, []int{0, 1}, config,
	)

	require.NoError(t, err)
	require.Greater(t, penalty, 0.0)
}
