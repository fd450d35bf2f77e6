package database

import (
	"context"
	"fmt"
	"sync"

	"parcheggiml/models"
)

type sampleKey struct {
	parkingID string
	timestamp string
}

// MemoryStore keeps every record in process memory. Scans return insertion order.
type MemoryStore struct {
	mu         sync.RWMutex
	parkings   []models.Parking
	index      map[string]int
	feedbacks  []models.Feedback
	samples    map[sampleKey]float64
	sampleKeys []sampleKey
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:   make(map[string]int),
		samples: make(map[sampleKey]float64),
	}
}

func (s *MemoryStore) CreateParking(_ context.Context, p *models.Parking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[p.ID]; ok {
		return fmt.Errorf("duplicate parking id %s", p.ID)
	}
	s.index[p.ID] = len(s.parkings)
	s.parkings = append(s.parkings, *p)
	return nil
}

func (s *MemoryStore) GetParking(_ context.Context, id string) (*models.Parking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return nil, models.ErrParkingNotFound
	}
	p := s.parkings[i]
	return &p, nil
}

func (s *MemoryStore) ListParkings(context.Context) ([]models.Parking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Parking, len(s.parkings))
	copy(out, s.parkings)
	return out, nil
}

func (s *MemoryStore) UpdateParking(_ context.Context, id string, u models.ParkingUpdate, lastUpdated string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return models.ErrParkingNotFound
	}
	u.Apply(&s.parkings[i])
	s.parkings[i].LastUpdated = lastUpdated
	return nil
}

func (s *MemoryStore) CreateFeedback(_ context.Context, f *models.Feedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = uint(len(s.feedbacks) + 1)
	s.feedbacks = append(s.feedbacks, *f)
	return nil
}

// Feedbacks returns a copy of the recorded feedback events.
func (s *MemoryStore) Feedbacks() []models.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Feedback, len(s.feedbacks))
	copy(out, s.feedbacks)
	return out
}

func (s *MemoryStore) UpsertHistoricalSample(_ context.Context, h models.HistoricalSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sampleKey{h.ParkingID, h.Timestamp}
	if _, ok := s.samples[key]; !ok {
		s.sampleKeys = append(s.sampleKeys, key)
	}
	s.samples[key] = h.Availability
	return nil
}

func (s *MemoryStore) HistoricalAverage(_ context.Context, parkingID, slot string) (float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sum float64
	var n int
	for _, key := range s.sampleKeys {
		if key.parkingID == parkingID && models.SlotOf(key.timestamp) == slot {
			sum += s.samples[key]
			n++
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), true, nil
}

func (s *MemoryStore) ListHistoricalSamples(context.Context) ([]models.HistoricalSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.HistoricalSample, 0, len(s.sampleKeys))
	for _, key := range s.sampleKeys {
		out = append(out, models.HistoricalSample{
			ParkingID:    key.parkingID,
			Timestamp:    key.timestamp,
			Availability: s.samples[key],
		})
	}
	return out, nil
}
