package handlers

import (
	"log"
	"net/http"
	"time"

	"delivery-planner-service/internal/api/dto"
	"delivery-planner-service/internal/apperr"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/service"
)

type LogisticsHandler struct {
	Planning *service.PlanningService
}

// Logistics creates num_vehicles plans from scratch - a one-shot
// assignment with no couriers or warm start, used for logistics
// planning ahead of dispatch.
func (h *LogisticsHandler) Logistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.LogisticsRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if req.NumVehicles < 1 {
		writeError(w, r, http.StatusNotAcceptable, "num_vehicles must be at least 1")
		return
	}

	deliveries := make([]domain.Delivery, len(req.Deliveries))
	for i, d := range req.Deliveries {
		deliveries[i] = d.ToDomain()
		if err := deliveries[i].Validate(); err != nil {
			writeError(w, r, http.StatusNotAcceptable, err.Error())
			return
		}
	}

	config := domain.DefaultPlannerConfig()
	if req.Config != nil {
		config = req.Config.ToDomain(config)
	}

	plans, err := h.Planning.CreatePlans(r.Context(), deliveries, nil, req.NumVehicles, nil, config, time.Now().Unix())
	if err != nil {
		writePlanningError(w, r, err)
		return
	}

	res := dto.LogisticsResponse{Status: "success", Plans: make([]dto.PlanDTO, len(plans))}
	for i, p := range plans {
		res.Plans[i] = dto.PlanFromDomain(p)
	}

	writeJSON(w, r, http.StatusOK, res)
}

func writePlanningError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("planning failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, status, "internal server error")
		return
	}
	writeError(w, r, status, err.Error())
}
