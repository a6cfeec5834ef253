// Package solver turns a VRP instance into a feasible assignment of
// nodes to vehicle routes (the CP/local-search stage of the two-stage
// solve pipeline). The timetable package then computes penalty-optimal
// times for whichever route order a RouteSolver picks.
package solver

import (
	"context"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/vrp"
)

// RouteSolver assigns VRP nodes to vehicle routes. It does not need to
// produce penalty-optimal ETAs/ETDs itself - only a feasible node
// order per vehicle; the timetable LP refines times downstream.
type RouteSolver interface {
	Name() domain.PlannerType
	Solve(ctx context.Context, instance *vrp.Instance) (*vrp.Solution, error)
}

// New resolves the RouteSolver implementation for a planner type.
func New(plannerType domain.PlannerType) RouteSolver {
	switch plannerType {
	case domain.PlannerInsertionHeur:
		return &InsertionSolver{}
	case domain.PlannerORToolsInsertion:
		return &HybridSolver{}
	case domain.PlannerHALNS:
		return &ALNSSolver{}
	default:
		return &LocalSearchSolver{}
	}
}
