package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", srv.URL}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAvailabilityMarker(t *testing.T) {
	assert.Equal(t, "🟢", availabilityMarker(0.71))
	assert.Equal(t, "🟡", availabilityMarker(0.7))
	assert.Equal(t, "🟡", availabilityMarker(0.41))
	assert.Equal(t, "🔴", availabilityMarker(0.4))
}

func TestSearchCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"user_location": {"lat": 45.4642, "lng": 9.19},
			"top_parkings": [{"id": "park3", "address": "Via Torino", "distance": 0.2, "availability_prob": 0.76}],
			"all_parkings": [{"id": "park3", "address": "Via Torino", "availability_prob": 0.76}, {"id": "x", "address": "Far", "availability_prob": 0.2}]
		}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "search", "Piazza Duomo, Milano")
	require.NoError(t, err)
	assert.Contains(t, out, "1. 🟢 Via Torino")
	assert.Contains(t, out, "distance: 0.20 km - availability: 76%")
	assert.Contains(t, out, "2. 🔴 Far")
}

func TestSearchCommandNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"address not found"}`))
	}))
	defer srv.Close()

	_, err := run(t, srv, "search", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address not found")
}

func TestRegisterCommandSendsOnlySetAttributes(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id":"park_12345678","status":"registered"}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "register", "--lat", "45.47", "--lng", "9.18", "--address", "Corso Como", "--paid=false")
	require.NoError(t, err)
	assert.Contains(t, out, "park_12345678")

	assert.Equal(t, 45.47, body["latitude"])
	assert.Equal(t, false, body["paid"])
	assert.NotContains(t, body, "covered")
	assert.NotContains(t, body, "capacity")
}

func TestRegisterCommandRequiresFlags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	_, err := run(t, srv, "register", "--lat", "45.47")
	assert.Error(t, err)
}

func TestFeedbackCommand(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submit-feedback", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "feedback", "--parking-id", "park1", "--free-spots", "0", "--parked", "--weather", "rain")
	require.NoError(t, err)
	assert.Contains(t, out, "Feedback sent")
	assert.Equal(t, "park1", body["parking_id"])
	assert.Equal(t, 0.0, body["free_spots"])
	assert.Equal(t, true, body["parked_success"])
	assert.Equal(t, "rain", body["weather"])
	assert.NotContains(t, body, "photo_url")
}

func TestPredictCommand(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"parkings":[{"id":"park1","address":"Piazza Duomo","availability_prob":0.5}]}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "predict", "Piazza Duomo", "--at", "2024-07-01T08:30")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01T08:30:00+02:00", body["target_datetime"])
	assert.Contains(t, out, "1. 🟡 Piazza Duomo")
}

func TestMissingCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"missing_fields":["covered","capacity"]}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "missing", "park_1")
	require.NoError(t, err)
	assert.Contains(t, out, "Missing: covered, capacity")
}

func TestUpdateCommand(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/update-parking/park_1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{"id":"park_1","status":"updated","missing_fields":["capacity"]}`))
	}))
	defer srv.Close()

	out, err := run(t, srv, "update", "park_1", "--covered")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"covered": true}, body)
	assert.Contains(t, out, "Still missing: capacity")

	_, err = run(t, srv, "update", "park_1")
	assert.Error(t, err)
}
