package solver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/solver"
	"delivery-planner-service/internal/vrp"
)

// buildTwoOrderInstance lays out two vehicles and two pickup/drop
// pairs on a 6-node line (starts 0,1; pickups 2,4; drops 3,5) where
// going 2->3->4->5 in order is cheaper than any interleaving.
func buildTwoOrderInstance() *vrp.Instance {
	const n = 6
	dur := make([][]int, n)
	for i := range dur {
		dur[i] = make([]int, n)
	}
	set := func(a, b, v int) { dur[a][b] = v; dur[b][a] = v }
	set(0, 2, 10)
	set(2, 3, 10)
	set(3, 4, 10)
	set(4, 5, 10)
	set(5, 1, 10)
	// any other pair is expensive but not forbidden, so insertion can
	// still interleave if it ever turned out cheaper.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && dur[i][j] == 0 {
				dur[i][j] = 500
			}
		}
	}

	return &vrp.Instance{
		DurationMatrix:       dur,
		DistanceMatrix:       dur,
		NumPlans:             2,
		Starts:               []int{0, 1},
		Ends:                 []int{0, 1},
		PickupNodes:          []int{2, 4},
		DropNodes:            []int{3, 5},
		DeliveriesNotStarted: [][2]int{{2, 3}, {4, 5}},
		StartTimeWindows: []vrp.TimeWindowConstraint{
			{Node: 0, IsHard: true, FromTime: 0, ToTime: vrp.MaxTimestamp},
			{Node: 1, IsHard: true, FromTime: 0, ToTime: vrp.MaxTimestamp},
		},
	}
}

func TestInsertionSolverAssignsBothPairs(t *testing.T) {
	instance := buildTwoOrderInstance()
	s := &solver.InsertionSolver{}

	sol, err := s.Solve(context.Background(), instance)
	require.NoError(t, err)
	require.Len(t, sol.Plans, 2)

	seen := map[int]bool{}
	for _, route := range sol.Plans {
		for _, node := range route {
			seen[node] = true
		}
	}
	require.True(t, seen[2] && seen[3] && seen[4] && seen[5])
}

func TestALNSSolverDoesNotWorsenInsertionCost(t *testing.T) {
	instance := buildTwoOrderInstance()
	instance.TimeLimitSeconds = 1

	insertionRoutes, err := solver.BuildRoutesByInsertion(instance, nil)
	require.NoError(t, err)
	insertionSolution := solver.SimulateSolution(instance, insertionRoutes)

	alns := &solver.ALNSSolver{}
	alnsSolution, err := alns.Solve(context.Background(), instance)
	require.NoError(t, err)

	insertionTotal := totalDuration(insertionSolution)
	alnsTotal := totalDuration(alnsSolution)
	require.LessOrEqual(t, alnsTotal, insertionTotal)
}

func totalDuration(sol *vrp.Solution) int64 {
	var total int64
	for i, etas := range sol.Etas {
		if len(etas) == 0 {
			continue
		}
		total += etas[len(etas)-1] - sol.Etds[i][0]
	}
	return total
}

func TestNewSelectsSolverByPlannerType(t *testing.T) {
	require.IsType(t, &solver.InsertionSolver{}, solver.New("INSERTION_HEURISTIC"))
	require.IsType(t, &solver.HybridSolver{}, solver.New("OR_TOOLS_INSERTION"))
	require.IsType(t, &solver.ALNSSolver{}, solver.New("HALNS"))
	require.IsType(t, &solver.LocalSearchSolver{}, solver.New("OR_TOOLS"))
}
