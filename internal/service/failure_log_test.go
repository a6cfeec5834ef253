package service_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/service"
)

func TestLogFailureWritesJSON(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() { require.NoError(t, os.Chdir(wd)) }()

	deliveries := []domain.Delivery{{ID: "d1", Destination: domain.Location{Lat: 1, Lon: 1}}}
	couriers := []domain.Courier{{ID: "c1"}}

	service.LogFailure(deliveries, couriers, 2, errors.New("boom"))

	matches, err := filepath.Glob(filepath.Join("logs", "failed_instance_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	require.Equal(t, "boom", record["exception"])
	require.Equal(t, float64(2), record["min_number_of_plans"])
}
