package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"parcheggiml/models"
	"parcheggiml/utils"

	"github.com/rs/zerolog"
)

type RegisterInput struct {
	Latitude    float64
	Longitude   float64
	Address     string
	Covered     *bool
	Paid        *bool
	Capacity    *int
	PricingInfo *string
}

// ParkingRegistry registers parking entries and reports their missing attributes.
type ParkingRegistry struct {
	store Store
	loc   *time.Location
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

func NewParkingRegistry(store Store, loc *time.Location, log zerolog.Logger) *ParkingRegistry {
	return &ParkingRegistry{
		store: store,
		loc:   loc,
		now:   time.Now,
		newID: utils.NewParkingID,
		log:   log,
	}
}

func (r *ParkingRegistry) WithClock(now func() time.Time) *ParkingRegistry {
	r.now = now
	return r
}

// Register validates and stores a new entry under a freshly generated id.
func (r *ParkingRegistry) Register(ctx context.Context, in RegisterInput) (*models.Parking, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	parking := &models.Parking{
		ID:          r.newID(),
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Address:     strings.TrimSpace(in.Address),
		Covered:     in.Covered,
		Paid:        in.Paid,
		Capacity:    in.Capacity,
		PricingInfo: in.PricingInfo,
		LastUpdated: r.now().In(r.loc).Format(time.RFC3339),
	}
	if err := r.store.CreateParking(ctx, parking); err != nil {
		return nil, fmt.Errorf("failed to register parking: %w", err)
	}

	r.log.Info().Str("parking_id", parking.ID).Str("address", parking.Address).Msg("parking registered")
	return parking, nil
}

// Update fills in or corrects the optional attributes of an existing entry.
func (r *ParkingRegistry) Update(ctx context.Context, id string, u models.ParkingUpdate) (*models.Parking, error) {
	if u.Empty() {
		return nil, fmt.Errorf("%w: no attribute to update", models.ErrInvalidInput)
	}
	if u.Capacity != nil && *u.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", models.ErrInvalidInput)
	}

	if err := r.store.UpdateParking(ctx, id, u, r.now().In(r.loc).Format(time.RFC3339)); err != nil {
		if errors.Is(err, models.ErrParkingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update parking %s: %w", id, err)
	}

	parking, err := r.store.GetParking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload parking %s: %w", id, err)
	}
	r.log.Info().Str("parking_id", id).Strs("still_missing", parking.MissingFields()).Msg("parking updated")
	return parking, nil
}

// MissingInfo lists the unknown optional attributes of an entry; unknown ids yield an empty list.
func (r *ParkingRegistry) MissingInfo(ctx context.Context, id string) ([]string, error) {
	parking, err := r.store.GetParking(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrParkingNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get parking %s: %w", id, err)
	}
	return parking.MissingFields(), nil
}

func validateRegistration(in RegisterInput) error {
	if in.Latitude < -90 || in.Latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", models.ErrInvalidInput)
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", models.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Address) == "" {
		return fmt.Errorf("%w: address is required", models.ErrInvalidInput)
	}
	if in.Capacity != nil && *in.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", models.ErrInvalidInput)
	}
	return nil
}
