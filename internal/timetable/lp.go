// Package timetable computes, for a fixed route order, the
// penalty-minimal arrival/departure times at every stop (the LP
// stage of the two-stage solve pipeline) and the latest-safe-departure
// "fixed time" shown to couriers.
package timetable

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"delivery-planner-service/internal/apperr"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/vrp"
)

// ComputeOptimalTimetable finds ETAs/ETDs for a fixed route (a node
// sequence) that minimize total soft-window penalty subject to
// service-time, travel-time and hard-window constraints, via an LP in
// inequality form converted to gonum's equality-constrained simplex.
func ComputeOptimalTimetable(
	dropNodes, pickupNodes []int,
	durationMatrix [][]int,
	timeWindows map[int][]vrp.TimeWindowConstraint,
	route []int,
	config domain.PlannerConfig,
) ([]int64, []int64, float64, error) {
	planLen := len(route)
	if planLen == 0 {
		return nil, nil, 0, nil
	}

	dropSet := toSet(dropNodes)
	pickupSet := toSet(pickupNodes)

	var timestamps []int64
	timeWindowsLen := 0
	for _, p := range route {
		tws := timeWindows[p]
		timeWindowsLen += len(tws)
		for _, tw := range tws {
			if tw.FromTime > 0 {
				timestamps = append(timestamps, tw.FromTime)
			}
		}
	}
	var timestampShift int64
	if len(timestamps) > 0 {
		timestampShift = timestamps[0]
		for _, ts := range timestamps[1:] {
			if ts < timestampShift {
				timestampShift = ts
			}
		}
	}

	rowLength := 2*planLen + timeWindowsLen

	var rows [][]float64
	var rhs []float64
	addRow := func(row []float64, b float64) {
		rows = append(rows, row)
		rhs = append(rhs, b)
	}
	zeros := func() []float64 { return make([]float64, rowLength) }

	penaltyIndex := 0
	for idx, p := range route {
		etaCol := idx
		etdCol := planLen + idx

		if dropSet[p] {
			dropService := config.ServiceTime(domain.EventDrop)

			row := zeros()
			row[etaCol], row[etdCol] = 1, -1
			addRow(row, -float64(dropService))

			if !config.AllowWaitOnDrop {
				row = zeros()
				row[etaCol], row[etdCol] = -1, 1
				addRow(row, float64(dropService))
			}
		}

		if pickupSet[p] {
			row := zeros()
			row[etaCol], row[etdCol] = 1, -1
			addRow(row, -float64(config.ServiceTime(domain.EventPickup)))
		}

		if idx > 0 {
			tt := float64(durationMatrix[route[idx-1]][p])

			row := zeros()
			row[etaCol], row[etdCol-1] = 1, -1
			addRow(row, tt)

			row = zeros()
			row[etaCol], row[etdCol-1] = -1, 1
			addRow(row, -tt)
		}

		for _, tw := range timeWindows[p] {
			twStart := float64(tw.FromTime - timestampShift)
			twEnd := float64(tw.ToTime - timestampShift)
			penaltyCol := 2*planLen + penaltyIndex

			if tw.IsHard {
				if tw.HasLowerBound() {
					row := zeros()
					row[etdCol] = -1
					addRow(row, -twStart)
				}
				if tw.HasUpperBound() {
					row := zeros()
					row[etaCol] = 1
					addRow(row, twEnd)
				}
			} else {
				if tw.HasLowerBound() {
					row := zeros()
					row[etdCol], row[penaltyCol] = -float64(tw.Weight), -1
					addRow(row, -float64(tw.Weight)*twStart)
				}
				if tw.HasUpperBound() {
					row := zeros()
					row[etaCol], row[penaltyCol] = float64(tw.Weight), -1
					addRow(row, float64(tw.Weight)*twEnd)
				}
			}

			penaltyIndex++
		}
	}

	numRows := len(rows)
	totalCols := rowLength + numRows

	data := make([]float64, numRows*totalCols)
	for r, row := range rows {
		copy(data[r*totalCols:r*totalCols+rowLength], row)
		data[r*totalCols+rowLength+r] = 1 // slack column, Ax + s = b
	}
	A := mat.NewDense(numRows, totalCols, data)

	c := make([]float64, totalCols)
	for i := 2 * planLen; i < rowLength; i++ {
		c[i] = 1
	}

	optF, optX, err := lp.Simplex(nil, c, A, rhs, 1e-5)
	if err != nil {
		return nil, nil, 0, apperr.PlanUnfeasible(err, "no feasible timetable for route of length %d", planLen)
	}

	etas := make([]int64, planLen)
	etds := make([]int64, planLen)
	for i := 0; i < planLen; i++ {
		etas[i] = int64(optX[i]) + timestampShift
		etds[i] = int64(optX[planLen+i]) + timestampShift
	}

	return etas, etds, roundTo(optF, 2), nil
}

func toSet(nodes []int) map[int]bool {
	s := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		s[n] = true
	}
	return s
}

func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
