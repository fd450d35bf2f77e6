package services

import (
	"context"
	"fmt"
	"testing"

	"parcheggiml/database"
	"parcheggiml/metrics"
	"parcheggiml/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var duomo = models.Location{Lat: 45.4642, Lng: 9.1900}

func newTestEngine(t *testing.T, store Store, predictor AvailabilityPredictor, m *metrics.Metrics) *RankingEngine {
	t.Helper()
	geo := fakeGeocoder{"Piazza Duomo, Milano": duomo}
	return NewRankingEngine(store, predictor, geo, rome(t), RankingOptions{TopN: 3, Workers: 4}, m, zerolog.Nop()).
		WithClock(fixedClock(at(t, "2024-03-07 10:00")))
}

func ids(results []models.ParkingResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.ID
	}
	return out
}

func TestFindParkingMilan(t *testing.T) {
	store := seededStore(t)
	scorer := newTestScorer(t, store, NewConstantSignals())
	engine := newTestEngine(t, store, scorer, nil)

	result, err := engine.FindParking(context.Background(), "Piazza Duomo, Milano", 0)
	require.NoError(t, err)

	assert.Equal(t, duomo, result.UserLocation)
	assert.Equal(t, []string{"park3", "park2", "park1"}, ids(result.AllParkings))
	assert.Equal(t, ids(result.AllParkings), ids(result.TopParkings))

	byID := map[string]models.ParkingResult{}
	for _, r := range result.AllParkings {
		byID[r.ID] = r
	}
	assert.InDelta(t, 0.765, byID["park3"].AvailabilityProb, 1e-9)
	assert.InDelta(t, 0.73, byID["park2"].AvailabilityProb, 1e-9)
	assert.InDelta(t, 0.725, byID["park1"].AvailabilityProb, 1e-9)
	assert.Zero(t, byID["park1"].Distance)
	assert.True(t, byID["park1"].Covered)
	assert.False(t, byID["park3"].Paid)
	require.NotNil(t, byID["park2"].Capacity)
	assert.Equal(t, 50, *byID["park2"].Capacity)
	assert.Empty(t, byID["park1"].TargetTime)
}

func TestRankTiesBreakOnDistance(t *testing.T) {
	store := seededStore(t)
	engine := newTestEngine(t, store, constantPredictor(0.6), nil)

	all, err := engine.Rank(context.Background(), duomo, at(t, "2024-03-07 10:00"), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"park1", "park2", "park3"}, ids(all))
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Distance, all[i].Distance)
	}
}

func TestSortResultsKeepsScanOrderOnFullTie(t *testing.T) {
	results := []models.ParkingResult{
		{ID: "a", AvailabilityProb: 0.5, Distance: 1},
		{ID: "b", AvailabilityProb: 0.9, Distance: 3},
		{ID: "c", AvailabilityProb: 0.5, Distance: 1},
		{ID: "d", AvailabilityProb: 0.5, Distance: 0.5},
	}
	SortResults(results)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(results))
}

func TestFindParkingTopIsBounded(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.CreateParking(ctx, &models.Parking{
			ID: fmt.Sprintf("p%d", i), Latitude: duomo.Lat + float64(i)*0.001, Longitude: duomo.Lng, Address: "x",
		}))
	}
	engine := newTestEngine(t, store, constantPredictor(0.5), nil)

	result, err := engine.FindParking(ctx, "Piazza Duomo, Milano", 0)
	require.NoError(t, err)
	assert.Len(t, result.AllParkings, 5)
	assert.Equal(t, []string{"p0", "p1", "p2"}, ids(result.TopParkings))
}

func TestFindParkingFewerThanTop(t *testing.T) {
	ctx := context.Background()
	store := database.NewMemoryStore()
	require.NoError(t, store.CreateParking(ctx, &models.Parking{ID: "only", Latitude: 45.47, Longitude: 9.2, Address: "x"}))
	engine := newTestEngine(t, store, constantPredictor(0.5), nil)

	result, err := engine.FindParking(ctx, "Piazza Duomo, Milano", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, ids(result.TopParkings))
}

func TestFindParkingEmptyStore(t *testing.T) {
	engine := newTestEngine(t, database.NewMemoryStore(), constantPredictor(0.5), nil)

	result, err := engine.FindParking(context.Background(), "Piazza Duomo, Milano", 0)
	require.NoError(t, err)
	assert.Empty(t, result.AllParkings)
	assert.Empty(t, result.TopParkings)
}

func TestFindParkingUnresolvedAddressSkipsScan(t *testing.T) {
	store := &faultyStore{Store: seededStore(t)}
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	engine := newTestEngine(t, store, constantPredictor(0.5), m)

	_, err = engine.FindParking(context.Background(), "Nowhere 1", 0)
	assert.ErrorIs(t, err, models.ErrAddressNotFound)

	_, err = engine.PredictFutureParking(context.Background(), "Nowhere 1", at(t, "2024-03-07 10:00"), 0)
	assert.ErrorIs(t, err, models.ErrAddressNotFound)

	assert.Zero(t, store.listCalls.Load())
	assert.Equal(t, 2.0, testutil.ToFloat64(m.GeocodeFailures))
}

func TestFindParkingRadius(t *testing.T) {
	store := seededStore(t)
	engine := newTestEngine(t, store, constantPredictor(0.5), nil)

	result, err := engine.FindParking(context.Background(), "Piazza Duomo, Milano", 0.18)
	require.NoError(t, err)
	assert.Equal(t, []string{"park1", "park2"}, ids(result.AllParkings))
}

func TestPredictFutureParking(t *testing.T) {
	store := seededStore(t)
	scorer := newTestScorer(t, store, NewConstantSignals())
	engine := newTestEngine(t, store, scorer, nil)

	target := at(t, "2024-12-25 22:00")
	results, err := engine.PredictFutureParking(context.Background(), "Piazza Duomo, Milano", target.UTC(), 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, "2024-12-25T22:00:00+01:00", r.TargetTime)
		assert.Equal(t, scorer.Score(context.Background(), r.ID, target), r.AvailabilityProb)
	}
}

func TestRankObservesScores(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)
	engine := newTestEngine(t, seededStore(t), constantPredictor(0.5), m)

	_, err = engine.Rank(context.Background(), duomo, at(t, "2024-03-07 10:00"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Scores))
}
