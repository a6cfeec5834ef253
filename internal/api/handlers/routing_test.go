package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"delivery-planner-service/internal/api/dto"
	"delivery-planner-service/internal/api/handlers"
)

func TestRoutingHandlerWalksStartingTimeForward(t *testing.T) {
	h := &handlers.RoutingHandler{Routing: &fakeRouting{}}

	startingTime := int64(1000)
	reqBody := dto.RoutingRequest{
		Locations: []dto.LocationDTO{
			{Latitude: 1, Longitude: 1},
			{Latitude: 2, Longitude: 2},
			{Latitude: 3, Longitude: 3},
		},
		StartingTime: &startingTime,
	}
	body, err := json.Marshal(reqBody)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/delivery/planner/routing", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Routing(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.RoutingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.TimeLocations, 3)
	require.Equal(t, startingTime, res.TimeLocations[0].Time)
	require.Equal(t, startingTime+100, res.TimeLocations[1].Time)
	require.Equal(t, startingTime+200, res.TimeLocations[2].Time)
}

func TestRoutingHandlerRejectsEmptyLocations(t *testing.T) {
	h := &handlers.RoutingHandler{Routing: &fakeRouting{}}

	body, err := json.Marshal(dto.RoutingRequest{Locations: nil})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/delivery/planner/routing", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Routing(rec, req)

	require.Equal(t, http.StatusNotAcceptable, rec.Code)
}
