package services

import (
	"context"

	"parcheggiml/models"
)

// Store is the record store the scoring, ranking and feedback paths depend on.
// GetParking returns models.ErrParkingNotFound for unknown ids.
type Store interface {
	CreateParking(ctx context.Context, p *models.Parking) error
	GetParking(ctx context.Context, id string) (*models.Parking, error)
	ListParkings(ctx context.Context) ([]models.Parking, error)
	// UpdateParking applies u and stamps lastUpdated. It returns models.ErrParkingNotFound for unknown ids.
	UpdateParking(ctx context.Context, id string, u models.ParkingUpdate, lastUpdated string) error

	CreateFeedback(ctx context.Context, f *models.Feedback) error

	// UpsertHistoricalSample overwrites any sample with the same (parking id, timestamp).
	UpsertHistoricalSample(ctx context.Context, s models.HistoricalSample) error
	// HistoricalAverage averages the samples of parkingID whose timestamp falls in slot
	// ("MM-DD HH"). ok is false when no sample matches.
	HistoricalAverage(ctx context.Context, parkingID, slot string) (avg float64, ok bool, err error)
	ListHistoricalSamples(ctx context.Context) ([]models.HistoricalSample, error)
}
