package handlers

import (
	"net/http"
	"time"

	"delivery-planner-service/internal/api/dto"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/service"
)

type ContinuousHandler struct {
	Planning *service.PlanningService
}

// Continuous creates at least min_number_of_plans plans (more if more
// couriers are online), warm-started from current_plans - the
// continuous-replanning endpoint called on every dispatch tick.
func (h *ContinuousHandler) Continuous(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.LogisticsContinuousRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.MinNumberOfPlans < 1 {
		writeError(w, r, http.StatusNotAcceptable, "min_number_of_plans must be at least 1")
		return
	}

	couriers := make([]domain.Courier, len(req.Couriers))
	courierIDs := make(map[string]bool, len(req.Couriers))
	for i, c := range req.Couriers {
		couriers[i] = c.ToDomain()
		courierIDs[couriers[i].ID] = true
	}

	deliveries := make([]domain.Delivery, len(req.Deliveries))
	for i, d := range req.Deliveries {
		deliveries[i] = d.ToDomain()
		if err := deliveries[i].Validate(); err != nil {
			writeError(w, r, http.StatusNotAcceptable, err.Error())
			return
		}
		if deliveries[i].AssignedCourierID != nil && !courierIDs[*deliveries[i].AssignedCourierID] {
			writeError(w, r, http.StatusNotAcceptable, "delivery "+deliveries[i].ID+": assigned_courier_id does not match any online courier")
			return
		}
	}

	currentPlans := make([]domain.Plan, len(req.CurrentPlans))
	for i, p := range req.CurrentPlans {
		currentPlans[i] = p.ToDomain()
	}

	config := domain.DefaultPlannerConfig()
	if req.Config != nil {
		config = req.Config.ToDomain(config)
	}

	plans, err := h.Planning.CreatePlans(r.Context(), deliveries, couriers, req.MinNumberOfPlans, currentPlans, config, time.Now().Unix())
	if err != nil {
		writePlanningError(w, r, err)
		return
	}

	res := dto.LogisticsContinuousResponse{Status: "success", Plans: make([]dto.PlanDTO, len(plans))}
	for i, p := range plans {
		res.Plans[i] = dto.PlanFromDomain(p)
	}

	writeJSON(w, r, http.StatusOK, res)
}
