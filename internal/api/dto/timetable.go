package dto

type PlanTimetableRequest struct {
	Deliveries []DeliveryDTO     `json:"deliveries"`
	Courier    CourierDTO        `json:"courier"`
	Plan       PlanDTO           `json:"plan"`
	Config     *PlannerConfigDTO `json:"config,omitempty"`
}

type PlanTimetableResponse struct {
	Status     string         `json:"status"`
	TimeBlocks []TimeBlockDTO `json:"time_blocks"`
	FixedTimes []*int64       `json:"fixed_times"`
}
