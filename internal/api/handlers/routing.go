package handlers

import (
	"net/http"
	"time"

	"delivery-planner-service/internal/api/dto"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/ports"
)

type RoutingHandler struct {
	Routing ports.RoutingBackend
}

// Routing computes per-segment duration/distance along an ordered list
// of locations and timestamps each stop by walking the cumulative
// duration forward from starting_time (now, if omitted).
func (h *RoutingHandler) Routing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RoutingRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if len(req.Locations) == 0 {
		writeError(w, r, http.StatusNotAcceptable, "no locations provided")
		return
	}

	startingTime := time.Now().Unix()
	if req.StartingTime != nil {
		startingTime = *req.StartingTime
	}
	if startingTime <= 0 {
		writeError(w, r, http.StatusNotAcceptable, "starting_time can not be negative")
		return
	}

	locations := make([]domain.Location, len(req.Locations))
	for i, l := range req.Locations {
		locations[i] = l.ToDomain()
	}

	durations, distances, err := h.Routing.DurationDistanceRoute(r.Context(), locations)
	if err != nil {
		writePlanningError(w, r, err)
		return
	}

	timeLocations := make([]dto.TimeLocationDTO, len(locations))
	cumulative := startingTime
	for i, loc := range locations {
		cumulative += int64(durations[i])
		timeLocations[i] = dto.TimeLocationDTO{Location: dto.LocationFromDomain(loc), Time: cumulative}
	}

	writeJSON(w, r, http.StatusOK, dto.RoutingResponse{TimeLocations: timeLocations, Distances: distances})
}
