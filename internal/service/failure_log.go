package service

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"delivery-planner-service/internal/domain"
)

// failureLogDir is where LogFailure writes its JSON dumps. Relative to
// the process's working directory, matching the source system's
// `logs/` convention.
const failureLogDir = "logs"

type failureRecord struct {
	Deliveries       []domain.Delivery `json:"deliveries"`
	Couriers         []domain.Courier  `json:"couriers"`
	MinNumberOfPlans int               `json:"min_number_of_plans"`
	Exception        string            `json:"exception"`
}

// LogFailure writes logs/failed_instance_<UTC-timestamp>.json with the
// request that led to a planner error, then returns - the caller is
// still responsible for propagating the original error.
func LogFailure(deliveries []domain.Delivery, couriers []domain.Courier, minNumberOfPlans int, cause error) {
	record := failureRecord{
		Deliveries:       deliveries,
		Couriers:         couriers,
		MinNumberOfPlans: minNumberOfPlans,
		Exception:        cause.Error(),
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		log.Printf("failure log: marshal: %v", err)
		return
	}

	if err := os.MkdirAll(failureLogDir, 0o755); err != nil {
		log.Printf("failure log: mkdir %s: %v", failureLogDir, err)
		return
	}

	name := "failed_instance_" + time.Now().UTC().Format("20060102T150405.000Z") + ".json"
	path := filepath.Join(failureLogDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("failure log: write %s: %v", path, err)
	}
}
