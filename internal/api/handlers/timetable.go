package handlers

import (
	"net/http"
	"time"

	"delivery-planner-service/internal/api/dto"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/service"
)

type TimetableHandler struct {
	Planning *service.PlanningService
}

// Optimize fits an optimal timetable to an already-fixed plan order,
// without re-running route assignment.
func (h *TimetableHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanTimetableRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
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

	courier := req.Courier.ToDomain()
	plan := req.Plan.ToDomain()

	config := domain.DefaultPlannerConfig()
	if req.Config != nil {
		config = req.Config.ToDomain(config)
	}

	timeBlocks, fixedTimes, err := h.Planning.OptimizeTimetable(r.Context(), deliveries, courier, plan, config, time.Now().Unix())
	if err != nil {
		writePlanningError(w, r, err)
		return
	}

	res := dto.PlanTimetableResponse{
		Status:     "success",
		TimeBlocks: make([]dto.TimeBlockDTO, len(timeBlocks)),
		FixedTimes: fixedTimes,
	}
	for i, tb := range timeBlocks {
		res.TimeBlocks[i] = dto.TimeBlockFromDomain(tb)
	}

	writeJSON(w, r, http.StatusOK, res)
}
