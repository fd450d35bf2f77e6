package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 2*time.Second)
}

func TestFindParking(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/find-parking", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Via Torino", body["address"])

		_, _ = w.Write([]byte(`{
			"user_location": {"lat": 45.46, "lng": 9.18},
			"top_parkings": [{"id": "park3", "address": "Via Torino", "distance": 0.2, "availability_prob": 0.76, "covered": true, "paid": false, "capacity": 30}],
			"all_parkings": [{"id": "park3"}, {"id": "park1"}]
		}`))
	})

	res, err := c.FindParking(context.Background(), "Via Torino")
	require.NoError(t, err)
	assert.Equal(t, 45.46, res.UserLocation.Lat)
	require.Len(t, res.TopParkings, 1)
	assert.Equal(t, 0.76, res.TopParkings[0].AvailabilityProb)
	require.NotNil(t, res.TopParkings[0].Capacity)
	assert.Equal(t, 30, *res.TopParkings[0].Capacity)
	assert.Len(t, res.AllParkings, 2)
}

func TestNotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"address not found"}`))
	})

	_, err := c.FindParking(context.Background(), "Atlantis")
	require.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "address not found", apiErr.Message)
}

func TestServerError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to submit feedback","detail":"disk full"}`))
	})

	err := c.SubmitFeedback(context.Background(), FeedbackRequest{ParkingID: "park1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "disk full")
}

func TestPredictFutureParking(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2024-12-25T22:00:00+01:00", body["target_datetime"])
		assert.Equal(t, 90.0, body["duration_minutes"])
		_, _ = w.Write([]byte(`{"parkings":[{"id":"park1","target_time":"2024-12-25T22:00:00+01:00"}]}`))
	})

	parkings, err := c.PredictFutureParking(context.Background(), "Duomo", time.Date(2024, 12, 25, 22, 0, 0, 0, loc), 90)
	require.NoError(t, err)
	require.Len(t, parkings, 1)
	assert.Equal(t, "2024-12-25T22:00:00+01:00", parkings[0].TargetTime)
}

func TestRegisterOmitsUnknownAttributes(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, false, body["covered"])
		assert.NotContains(t, body, "paid")
		assert.NotContains(t, body, "capacity")
		_, _ = w.Write([]byte(`{"id":"park_0a1b2c3d","status":"registered"}`))
	})

	covered := false
	id, err := c.RegisterParking(context.Background(), RegisterRequest{Latitude: 45, Longitude: 9, Address: "x", Covered: &covered})
	require.NoError(t, err)
	assert.Equal(t, "park_0a1b2c3d", id)
}

func TestMissingInfoEscapesID(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/missing-info/a%2Fb", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"missing_fields":["paid"]}`))
	})

	fields, err := c.MissingInfo(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, []string{"paid"}, fields)
}

func TestUpdateParking(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/update-parking/park_1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"capacity": 0.0}, body)
		_, _ = w.Write([]byte(`{"id":"park_1","status":"updated","missing_fields":["covered"]}`))
	})

	capacity := 0
	missing, err := c.UpdateParking(context.Background(), "park_1", UpdateRequest{Capacity: &capacity})
	require.NoError(t, err)
	assert.Equal(t, []string{"covered"}, missing)
}
