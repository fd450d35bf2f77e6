package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parcheggiml/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the SQL-backed record store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateParking(ctx context.Context, p *models.Parking) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create parking %s: %w", p.ID, err)
	}
	return nil
}

func (s *GormStore) GetParking(ctx context.Context, id string) (*models.Parking, error) {
	var p models.Parking
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrParkingNotFound
		}
		return nil, fmt.Errorf("failed to get parking %s: %w", id, err)
	}
	return &p, nil
}

func (s *GormStore) ListParkings(ctx context.Context) ([]models.Parking, error) {
	var parkings []models.Parking
	if err := s.db.WithContext(ctx).Find(&parkings).Error; err != nil {
		return nil, fmt.Errorf("failed to list parkings: %w", err)
	}
	return parkings, nil
}

func (s *GormStore) UpdateParking(ctx context.Context, id string, u models.ParkingUpdate, lastUpdated string) error {
	fields := map[string]interface{}{"last_updated": lastUpdated}
	if u.Covered != nil {
		fields["covered"] = *u.Covered
	}
	if u.Paid != nil {
		fields["paid"] = *u.Paid
	}
	if u.Capacity != nil {
		fields["capacity"] = *u.Capacity
	}
	if u.PricingInfo != nil {
		fields["pricing_info"] = *u.PricingInfo
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Parking{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to find parking %s: %w", id, err)
		}
		if count == 0 {
			return models.ErrParkingNotFound
		}
		if err := tx.Model(&models.Parking{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update parking %s: %w", id, err)
		}
		return nil
	})
}

func (s *GormStore) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		return fmt.Errorf("failed to create feedback for %s: %w", f.ParkingID, err)
	}
	return nil
}

func (s *GormStore) UpsertHistoricalSample(ctx context.Context, h models.HistoricalSample) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "parking_id"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{"availability"}),
	}).Create(&h).Error
	if err != nil {
		return fmt.Errorf("failed to upsert historical sample for %s: %w", h.ParkingID, err)
	}
	return nil
}

func (s *GormStore) HistoricalAverage(ctx context.Context, parkingID, slot string) (float64, bool, error) {
	var avg sql.NullFloat64
	err := s.db.WithContext(ctx).
		Model(&models.HistoricalSample{}).
		Select("AVG(availability)").
		Where("parking_id = ? AND SUBSTR(?, 6, 8) = ?", parkingID, clause.Column{Name: "timestamp"}, slot).
		Scan(&avg).Error
	if err != nil {
		return 0, false, fmt.Errorf("failed to average history for %s: %w", parkingID, err)
	}
	if !avg.Valid {
		return 0, false, nil
	}
	return avg.Float64, true, nil
}

func (s *GormStore) ListHistoricalSamples(ctx context.Context) ([]models.HistoricalSample, error) {
	var samples []models.HistoricalSample
	if err := s.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "parking_id"}}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).
		Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("failed to list historical samples: %w", err)
	}
	return samples, nil
}
