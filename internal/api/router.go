package api

import (
	"net/http"

	"delivery-planner-service/internal/api/handlers"
	"delivery-planner-service/internal/ports"
	"delivery-planner-service/internal/service"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay
// unaware of concrete adapters).
func NewRouter(planning *service.PlanningService, routing ports.RoutingBackend) http.Handler {
	mux := http.NewServeMux()

	logisticsHandler := &handlers.LogisticsHandler{Planning: planning}
	continuousHandler := &handlers.ContinuousHandler{Planning: planning}
	timetableHandler := &handlers.TimetableHandler{Planning: planning}
	routingHandler := &handlers.RoutingHandler{Routing: routing}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/delivery/planner/logistics", logisticsHandler.Logistics)
	mux.HandleFunc("/delivery/planner/continuous", continuousHandler.Continuous)
	mux.HandleFunc("/delivery/planner/timetable/optimize", timetableHandler.Optimize)
	mux.HandleFunc("/delivery/planner/routing", routingHandler.Routing)

	return loggingMiddleware(mux)
}
