package dto

type LogisticsRequest struct {
	Deliveries  []DeliveryDTO     `json:"deliveries"`
	NumVehicles int               `json:"num_vehicles"`
	Config      *PlannerConfigDTO `json:"config,omitempty"`
}

type LogisticsResponse struct {
	Status string    `json:"status"`
	Plans  []PlanDTO `json:"plans"`
}
