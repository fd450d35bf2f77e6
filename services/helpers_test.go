package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"parcheggiml/database"
	"parcheggiml/models"

	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

func rome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", value, rome(t))
	require.NoError(t, err)
	return ts
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func seededStore(t *testing.T) *database.MemoryStore {
	t.Helper()
	s := database.NewMemoryStore()
	_, err := database.Seed(context.Background(), s)
	require.NoError(t, err)
	return s
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

type fakeGeocoder map[string]models.Location

func (g fakeGeocoder) Geocode(_ context.Context, address string) (models.Location, error) {
	loc, ok := g[address]
	if !ok {
		return models.Location{}, models.ErrAddressNotFound
	}
	return loc, nil
}

type constantPredictor float64

func (p constantPredictor) Score(context.Context, string, time.Time) float64 {
	return float64(p)
}

// faultyStore wraps a Store and fails the operations selected by its flags.
type faultyStore struct {
	Store
	failGet      bool
	failHistory  bool
	failFeedback bool
	failUpsert   bool
	listCalls    atomic.Int32
}

func (s *faultyStore) GetParking(ctx context.Context, id string) (*models.Parking, error) {
	if s.failGet {
		return nil, errStoreDown
	}
	return s.Store.GetParking(ctx, id)
}

func (s *faultyStore) ListParkings(ctx context.Context) ([]models.Parking, error) {
	s.listCalls.Add(1)
	return s.Store.ListParkings(ctx)
}

func (s *faultyStore) HistoricalAverage(ctx context.Context, id, slot string) (float64, bool, error) {
	if s.failHistory {
		return 0, false, errStoreDown
	}
	return s.Store.HistoricalAverage(ctx, id, slot)
}

func (s *faultyStore) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if s.failFeedback {
		return errStoreDown
	}
	return s.Store.CreateFeedback(ctx, f)
}

func (s *faultyStore) UpsertHistoricalSample(ctx context.Context, h models.HistoricalSample) error {
	if s.failUpsert {
		return errStoreDown
	}
	return s.Store.UpsertHistoricalSample(ctx, h)
}
