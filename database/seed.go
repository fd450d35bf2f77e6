package database

import (
	"context"
	"errors"
	"fmt"

	"parcheggiml/models"
)

// SampleParkings returns the three demo entries around Piazza Duomo, Milan.
func SampleParkings() []models.Parking {
	yes, no := true, false
	c1, c2, c3 := 100, 50, 30
	return []models.Parking{
		{ID: "park1", Latitude: 45.4642, Longitude: 9.1900, Address: "Piazza Duomo, Milano", Covered: &yes, Paid: &yes, Capacity: &c1, LastUpdated: "2023-10-01"},
		{ID: "park2", Latitude: 45.4650, Longitude: 9.1915, Address: "Galleria Vittorio Emanuele", Covered: &no, Paid: &yes, Capacity: &c2, LastUpdated: "2023-10-01"},
		{ID: "park3", Latitude: 45.4630, Longitude: 9.1880, Address: "Via Torino", Covered: &yes, Paid: &no, Capacity: &c3, LastUpdated: "2023-10-01"},
	}
}

type seeder interface {
	GetParking(ctx context.Context, id string) (*models.Parking, error)
	CreateParking(ctx context.Context, p *models.Parking) error
}

// Seed inserts the sample entries that are not already present.
func Seed(ctx context.Context, s seeder) (int, error) {
	inserted := 0
	for _, p := range SampleParkings() {
		_, err := s.GetParking(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrParkingNotFound) {
			return inserted, fmt.Errorf("failed to check parking %s: %w", p.ID, err)
		}
		if err := s.CreateParking(ctx, &p); err != nil {
			return inserted, fmt.Errorf("failed to seed parking %s: %w", p.ID, err)
		}
		inserted++
	}
	return inserted, nil
}
