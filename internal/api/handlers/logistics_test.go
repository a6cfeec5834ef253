package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/api/dto"
	"delivery-planner-service/internal/api/handlers"
	"delivery-planner-service/internal/domain"
	"delivery-planner-service/internal/service"
)

type fakeRouting struct{}

func (f *fakeRouting) CreateDurationDistanceMatrix(_ context.Context, locations []domain.Location) ([][]int, [][]int, error) {
	n := len(locations)
	dur := make([][]int, n)
	dist := make([][]int, n)
	for i := range dur {
		dur[i] = make([]int, n)
		dist[i] = make([]int, n)
		for j := range dur[i] {
			if i != j {
				dur[i][j] = 300
				dist[i][j] = 3000
			}
		}
	}
	return dur, dist, nil
}

func (f *fakeRouting) DurationDistanceRoute(_ context.Context, locations []domain.Location) ([]int, []int, error) {
	durations := make([]int, len(locations))
	distances := make([]int, len(locations))
	for i := range durations {
		if i > 0 {
			durations[i] = 100
			distances[i] = 1000
		}
	}
	return durations, distances, nil
}

func validLogisticsRequest() dto.LogisticsRequest {
	return dto.LogisticsRequest{
		NumVehicles: 1,
		Deliveries: []dto.DeliveryDTO{
			{
				ID:           "d1",
				Origin:       &dto.LocationDTO{Latitude: 1, Longitude: 1},
				Destination:  dto.LocationDTO{Latitude: 2, Longitude: 2},
				PickupTime:   &dto.TimeBlockDTO{FromTime: 1000},
				DeliveryTime: dto.TimeBlockDTO{FromTime: 2000},
			},
		},
	}
}

func TestLogisticsHandlerReturnsPlans(t *testing.T) {
	h := &handlers.LogisticsHandler{Planning: service.NewPlanningService(&fakeRouting{})}

	body, err := json.Marshal(validLogisticsRequest())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/delivery/planner/logistics", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Logistics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.LogisticsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "success", res.Status)
	require.Len(t, res.Plans, 1)
}

func TestLogisticsHandlerRejectsZeroVehicles(t *testing.T) {
	h := &handlers.LogisticsHandler{Planning: service.NewPlanningService(&fakeRouting{})}

	reqBody := validLogisticsRequest()
	reqBody.NumVehicles = 0
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/delivery/planner/logistics", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Logistics(rec, req)

	require.Equal(t, http.StatusNotAcceptable, rec.Code)
}

func TestLogisticsHandlerRejectsWrongMethod(t *testing.T) {
	h := &handlers.LogisticsHandler{Planning: service.NewPlanningService(&fakeRouting{})}

	req := httptest.NewRequest(http.MethodGet, "/delivery/planner/logistics", nil)
	rec := httptest.NewRecorder()

	h.Logistics(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestLogisticsHandlerRejectsUnknownFields(t *testing.T) {
	h := &handlers.LogisticsHandler{Planning: service.NewPlanningService(&fakeRouting{})}

	body := []byte(`{"num_vehicles": 1, "deliveries": [], "unexpected_field": true}`)
	req := httptest.NewRequest(http.MethodPost, "/delivery/planner/logistics", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Logistics(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogisticsHandlerRejectsTrailingJSON(t *testing.T) {
	h := &handlers.LogisticsHandler{Planning: service.NewPlanningService(&fakeRouting{})}

	body := []byte(`{"num_vehicles": 1, "deliveries": []}{}`)
	req := httptest.NewRequest(http.MethodPost, "/delivery/planner/logistics", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Logistics(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
