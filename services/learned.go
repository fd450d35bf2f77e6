package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"parcheggiml/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"
)

// ridgeLambda keeps the normal equations solvable when a feature never varies.
const ridgeLambda = 1e-3

const featureCount = 7

// LearnedPredictor is a linear model fitted on the stored historical samples.
// It satisfies AvailabilityPredictor and returns NeutralProbability until trained.
type LearnedPredictor struct {
	store Store
	loc   *time.Location
	now   func() time.Time
	log   zerolog.Logger

	mu        sync.RWMutex
	coef      []float64
	samples   int
	trainedAt time.Time
}

func NewLearnedPredictor(store Store, loc *time.Location, log zerolog.Logger) *LearnedPredictor {
	return &LearnedPredictor{
		store: store,
		loc:   loc,
		now:   time.Now,
		log:   log,
	}
}

// Trained reports whether a model is available and how many samples it was fitted on.
func (l *LearnedPredictor) Trained() (bool, int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.coef != nil, l.samples
}

func (l *LearnedPredictor) Score(ctx context.Context, parkingID string, at time.Time) float64 {
	l.mu.RLock()
	coef := l.coef
	l.mu.RUnlock()
	if coef == nil {
		return NeutralProbability
	}

	parking, err := l.store.GetParking(ctx, parkingID)
	if err != nil {
		return NeutralProbability
	}

	if at.IsZero() {
		at = l.now()
	}
	x := features(at.In(l.loc), parking)
	var y float64
	for i := range coef {
		y += coef[i] * x[i]
	}
	return clampProbability(y)
}

// Train refits the model from every historical sample. With fewer samples than
// features the previous model is kept.
func (l *LearnedPredictor) Train(ctx context.Context) error {
	samples, err := l.store.ListHistoricalSamples(ctx)
	if err != nil {
		return fmt.Errorf("failed to load historical samples: %w", err)
	}
	parkings, err := l.store.ListParkings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load parkings: %w", err)
	}
	byID := make(map[string]*models.Parking, len(parkings))
	for i := range parkings {
		byID[parkings[i].ID] = &parkings[i]
	}

	data := make([]float64, 0, len(samples)*featureCount)
	targets := make([]float64, 0, len(samples))
	for _, s := range samples {
		t, err := s.Time()
		if err != nil {
			l.log.Debug().Err(err).Str("timestamp", s.Timestamp).Msg("skipping sample with bad timestamp")
			continue
		}
		data = append(data, features(t.In(l.loc), byID[s.ParkingID])...)
		targets = append(targets, s.Availability)
	}

	n := len(targets)
	if n < featureCount {
		l.log.Info().Int("samples", n).Msg("not enough samples to train availability model")
		return nil
	}

	coef, err := fitRidge(mat.NewDense(n, featureCount, data), mat.NewVecDense(n, targets), ridgeLambda)
	if err != nil {
		return fmt.Errorf("failed to fit availability model: %w", err)
	}

	l.mu.Lock()
	l.coef = coef
	l.samples = n
	l.trainedAt = l.now()
	l.mu.Unlock()

	l.log.Info().Int("samples", n).Floats64("coefficients", coef).Msg("availability model trained")
	return nil
}

// fitRidge solves (XᵀX + λI)β = Xᵀy.
func fitRidge(x *mat.Dense, y *mat.VecDense, lambda float64) ([]float64, error) {
	_, k := x.Dims()

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for i := 0; i < k; i++ {
		xtx.Set(i, i, xtx.At(i, i)+lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, err
		}
	}

	coef := make([]float64, k)
	for i := range coef {
		coef[i] = beta.AtVec(i)
	}
	return coef, nil
}

// features encodes bias, hour of day on the unit circle, weekend, holiday,
// paid and covered flags. A nil parking contributes zero attribute flags.
func features(t time.Time, p *models.Parking) []float64 {
	hour := float64(t.Hour()) + float64(t.Minute())/60
	angle := 2 * math.Pi * hour / 24

	weekend := 0.0
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		weekend = 1
	}
	holiday := 0.0
	if IsHoliday(t) {
		holiday = 1
	}
	paid, covered := 0.0, 0.0
	if p != nil {
		if p.IsPaid() {
			paid = 1
		}
		if p.IsCovered() {
			covered = 1
		}
	}
	return []float64{1, math.Sin(angle), math.Cos(angle), weekend, holiday, paid, covered}
}

// ScheduleRetraining trains once immediately and then on every tick of schedule.
func ScheduleRetraining(ctx context.Context, c *cron.Cron, p *LearnedPredictor, schedule string, log zerolog.Logger) (cron.EntryID, error) {
	if err := p.Train(ctx); err != nil {
		log.Error().Err(err).Msg("initial training failed")
	}

	id, err := c.AddFunc(schedule, func() {
		log.Info().Msg("retraining availability model")
		if err := p.Train(ctx); err != nil {
			log.Error().Err(err).Msg("retraining failed")
		}
	})
	if err != nil {
		return 0, fmt.Errorf("failed to schedule retraining %q: %w", schedule, err)
	}
	return id, nil
}
