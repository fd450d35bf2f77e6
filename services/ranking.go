package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"parcheggiml/metrics"
	"parcheggiml/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Geocoder resolves a free-text address. It returns models.ErrAddressNotFound
// when the address has no match.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Location, error)
}

type SearchResult struct {
	UserLocation models.Location        `json:"user_location"`
	TopParkings  []models.ParkingResult `json:"top_parkings"`
	AllParkings  []models.ParkingResult `json:"all_parkings"`
}

type RankingEngine struct {
	store     Store
	predictor AvailabilityPredictor
	geocoder  Geocoder
	metrics   *metrics.Metrics
	loc       *time.Location
	now       func() time.Time
	topN      int
	workers   int
	log       zerolog.Logger
}

type RankingOptions struct {
	TopN    int
	Workers int
}

func NewRankingEngine(store Store, predictor AvailabilityPredictor, geocoder Geocoder, loc *time.Location, opts RankingOptions, m *metrics.Metrics, log zerolog.Logger) *RankingEngine {
	if opts.TopN <= 0 {
		opts.TopN = 3
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &RankingEngine{
		store:     store,
		predictor: predictor,
		geocoder:  geocoder,
		metrics:   m,
		loc:       loc,
		now:       time.Now,
		topN:      opts.TopN,
		workers:   opts.Workers,
		log:       log,
	}
}

// WithClock replaces the clock used for immediate searches.
func (e *RankingEngine) WithClock(now func() time.Time) *RankingEngine {
	e.now = now
	return e
}

// FindParking ranks every entry around address for the current time.
func (e *RankingEngine) FindParking(ctx context.Context, address string, radiusKM float64) (*SearchResult, error) {
	origin, err := e.resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	all, err := e.Rank(ctx, origin, e.now().In(e.loc), radiusKM)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		UserLocation: origin,
		TopParkings:  e.top(all),
		AllParkings:  all,
	}, nil
}

// PredictFutureParking ranks entries around address for target and returns the top ones,
// each carrying the normalized target time.
func (e *RankingEngine) PredictFutureParking(ctx context.Context, address string, target time.Time, radiusKM float64) ([]models.ParkingResult, error) {
	origin, err := e.resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	target = target.In(e.loc)
	all, err := e.Rank(ctx, origin, target, radiusKM)
	if err != nil {
		return nil, err
	}

	top := e.top(all)
	stamp := target.Format(time.RFC3339)
	for i := range top {
		top[i].TargetTime = stamp
	}
	return top, nil
}

// Rank scores every stored entry against origin at the given time and orders them by
// availability descending, then distance ascending. Entries farther than radiusKM are
// dropped when radiusKM is positive. Equal keys keep store scan order.
func (e *RankingEngine) Rank(ctx context.Context, origin models.Location, at time.Time, radiusKM float64) ([]models.ParkingResult, error) {
	parkings, err := e.store.ListParkings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list parkings: %w", err)
	}

	results := make([]models.ParkingResult, len(parkings))
	g := errgroup.Group{}
	g.SetLimit(e.workers)
	for i := range parkings {
		p := &parkings[i]
		g.Go(func() error {
			dist := Distance(origin.Lat, origin.Lng, p.Latitude, p.Longitude)
			prob := e.predictor.Score(ctx, p.ID, at)
			results[i] = p.ToResult(dist, prob)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filtered := results[:0]
	for _, r := range results {
		if radiusKM > 0 && r.Distance > radiusKM {
			continue
		}
		e.metrics.ObserveScore(r.AvailabilityProb)
		filtered = append(filtered, r)
	}

	SortResults(filtered)
	e.log.Debug().Int("candidates", len(parkings)).Int("ranked", len(filtered)).Msg("ranking completed")
	return filtered, nil
}

// SortResults orders by availability descending, then distance ascending.
func SortResults(results []models.ParkingResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].AvailabilityProb != results[j].AvailabilityProb {
			return results[i].AvailabilityProb > results[j].AvailabilityProb
		}
		return results[i].Distance < results[j].Distance
	})
}

func (e *RankingEngine) resolve(ctx context.Context, address string) (models.Location, error) {
	origin, err := e.geocoder.Geocode(ctx, address)
	if err != nil {
		e.metrics.GeocodeFailed()
		if errors.Is(err, models.ErrAddressNotFound) {
			return models.Location{}, err
		}
		return models.Location{}, fmt.Errorf("failed to geocode %q: %w", address, err)
	}
	return origin, nil
}

func (e *RankingEngine) top(all []models.ParkingResult) []models.ParkingResult {
	n := e.topN
	if len(all) < n {
		n = len(all)
	}
	top := make([]models.ParkingResult, n)
	copy(top, all[:n])
	return top
}
