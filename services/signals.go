package services

import (
	"context"
	"time"
)

// SignalSource supplies the environmental inputs of the availability model.
// Values are in [0,1] where 1 means no negative impact on availability.
type SignalSource interface {
	Density(ctx context.Context, lat, lng float64) float64
	WeatherImpact(ctx context.Context, lat, lng float64, at time.Time) float64
	LocalEvents(ctx context.Context, lat, lng float64) []string
}

// ConstantSignals returns fixed values until live feeds are available.
type ConstantSignals struct {
	DensityValue float64
	WeatherValue float64
	Events       []string
}

func NewConstantSignals() ConstantSignals {
	return ConstantSignals{DensityValue: 0.7, WeatherValue: 1.0}
}

func (s ConstantSignals) Density(context.Context, float64, float64) float64 {
	return s.DensityValue
}

func (s ConstantSignals) WeatherImpact(context.Context, float64, float64, time.Time) float64 {
	return s.WeatherValue
}

func (s ConstantSignals) LocalEvents(context.Context, float64, float64) []string {
	return s.Events
}
