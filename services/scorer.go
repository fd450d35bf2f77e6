package services

import (
	"context"
	"errors"
	"time"

	"parcheggiml/models"

	"github.com/rs/zerolog"
)

const (
	// NeutralProbability is returned when there is not enough data to score an entry.
	NeutralProbability = 0.5
	MinProbability     = 0.1
	MaxProbability     = 0.99
)

// Factor weights of the availability model. They sum to 1.
const (
	weightTime    = 0.15
	weightHoliday = 0.10
	weightHistory = 0.25
	weightDensity = 0.15
	weightWeather = 0.10
	weightEvents  = 0.10
	weightPricing = 0.10
	weightCovered = 0.05
)

// noHistoryValue is the history factor when no sample matches the target slot.
const noHistoryValue = 0.5

// AvailabilityPredictor estimates the probability of finding a free space at
// parkingID at time at. A zero at means now.
type AvailabilityPredictor interface {
	Score(ctx context.Context, parkingID string, at time.Time) float64
}

type Factor struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// Breakdown is the per-factor detail behind a score.
type Breakdown struct {
	ParkingID   string    `json:"parking_id"`
	At          time.Time `json:"at"`
	Factors     []Factor  `json:"factors"`
	Raw         float64   `json:"raw"`
	Probability float64   `json:"probability"`
}

// Factor returns the named factor value, or false when absent.
func (b Breakdown) Factor(name string) (float64, bool) {
	for _, f := range b.Factors {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

// AvailabilityScorer is the weighted multi-factor availability model.
// It keeps no state between calls; every score is recomputed from the store.
type AvailabilityScorer struct {
	store   Store
	signals SignalSource
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger
}

func NewAvailabilityScorer(store Store, signals SignalSource, loc *time.Location, log zerolog.Logger) *AvailabilityScorer {
	return &AvailabilityScorer{
		store:   store,
		signals: signals,
		loc:     loc,
		now:     time.Now,
		log:     log,
	}
}

// WithClock replaces the clock used when no target time is given.
func (s *AvailabilityScorer) WithClock(now func() time.Time) *AvailabilityScorer {
	s.now = now
	return s
}

func (s *AvailabilityScorer) Score(ctx context.Context, parkingID string, at time.Time) float64 {
	b, ok := s.Breakdown(ctx, parkingID, at)
	if !ok {
		return NeutralProbability
	}
	return b.Probability
}

// Breakdown computes every factor for parkingID at the given time. ok is false when
// the entry or its history cannot be read; callers then fall back to NeutralProbability.
func (s *AvailabilityScorer) Breakdown(ctx context.Context, parkingID string, at time.Time) (Breakdown, bool) {
	target := s.normalize(at)

	parking, err := s.store.GetParking(ctx, parkingID)
	if err != nil {
		if !errors.Is(err, models.ErrParkingNotFound) {
			s.log.Warn().Err(err).Str("parking_id", parkingID).Msg("parking lookup failed, using neutral score")
		}
		return Breakdown{}, false
	}

	history, err := s.historicalFactor(ctx, parkingID, target)
	if err != nil {
		s.log.Warn().Err(err).Str("parking_id", parkingID).Msg("history lookup failed, using neutral score")
		return Breakdown{}, false
	}

	lat, lng := parking.Latitude, parking.Longitude
	eventsFactor := 1.0
	if len(s.signals.LocalEvents(ctx, lat, lng)) > 0 {
		eventsFactor = 0.5
	}
	holidayFactor := 1.0
	if IsHoliday(target) {
		holidayFactor = 0.4
	}
	coveredFactor := 1.0
	if parking.IsCovered() {
		coveredFactor = 0.9
	}

	factors := []Factor{
		{Name: "time", Value: timeOfDayFactor(target.Hour()), Weight: weightTime},
		{Name: "holiday", Value: holidayFactor, Weight: weightHoliday},
		{Name: "history", Value: history, Weight: weightHistory},
		{Name: "density", Value: s.signals.Density(ctx, lat, lng), Weight: weightDensity},
		{Name: "weather", Value: s.signals.WeatherImpact(ctx, lat, lng, target), Weight: weightWeather},
		{Name: "events", Value: eventsFactor, Weight: weightEvents},
		{Name: "pricing", Value: pricingFactor(parking.IsPaid(), target.Hour()), Weight: weightPricing},
		{Name: "covered", Value: coveredFactor, Weight: weightCovered},
	}

	raw := weightedMean(factors)
	return Breakdown{
		ParkingID:   parkingID,
		At:          target,
		Factors:     factors,
		Raw:         raw,
		Probability: clampProbability(raw),
	}, true
}

func (s *AvailabilityScorer) normalize(at time.Time) time.Time {
	if at.IsZero() {
		return s.now().In(s.loc)
	}
	return at.In(s.loc)
}

func (s *AvailabilityScorer) historicalFactor(ctx context.Context, parkingID string, target time.Time) (float64, error) {
	avg, ok, err := s.store.HistoricalAverage(ctx, parkingID, models.SlotKey(target))
	if err != nil {
		return 0, err
	}
	if !ok {
		return noHistoryValue, nil
	}
	return avg, nil
}

func timeOfDayFactor(hour int) float64 {
	switch {
	case hour >= 7 && hour < 12:
		return 0.6
	case hour >= 12 && hour < 15:
		return 0.4
	case hour >= 15 && hour < 19:
		return 0.8
	default:
		return 0.3
	}
}

// isPeakHour covers 08:00 to 18:59.
func isPeakHour(hour int) bool {
	return hour >= 8 && hour < 19
}

func pricingFactor(paid bool, hour int) float64 {
	if !paid {
		return 1.0
	}
	if isPeakHour(hour) {
		return 0.6
	}
	return 0.9
}

func weightedMean(factors []Factor) float64 {
	var sum, total float64
	for _, f := range factors {
		sum += f.Value * f.Weight
		total += f.Weight
	}
	if total == 0 {
		return NeutralProbability
	}
	return sum / total
}

func clampProbability(p float64) float64 {
	if p < MinProbability {
		return MinProbability
	}
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}
