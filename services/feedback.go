package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"parcheggiml/metrics"
	"parcheggiml/models"

	"github.com/rs/zerolog"
)

type FeedbackInput struct {
	ParkingID     string
	FreeSpots     int
	ParkedSuccess bool
	Weather       *string
	EventContext  *string
	PhotoURL      *string
}

// FeedbackIngestor records user feedback and folds it into the historical samples.
type FeedbackIngestor struct {
	store   Store
	metrics *metrics.Metrics
	loc     *time.Location
	now     func() time.Time
	log     zerolog.Logger
}

func NewFeedbackIngestor(store Store, loc *time.Location, m *metrics.Metrics, log zerolog.Logger) *FeedbackIngestor {
	return &FeedbackIngestor{
		store:   store,
		metrics: m,
		loc:     loc,
		now:     time.Now,
		log:     log,
	}
}

func (f *FeedbackIngestor) WithClock(now func() time.Time) *FeedbackIngestor {
	f.now = now
	return f
}

// Submit appends the feedback event and then upserts the derived historical sample.
// Unknown parking ids are accepted. A failed sample write is logged and does not fail
// the call, since the feedback itself is already stored.
func (f *FeedbackIngestor) Submit(ctx context.Context, in FeedbackInput) error {
	stamp := models.FormatTimestamp(f.now().In(f.loc))

	if _, err := f.store.GetParking(ctx, in.ParkingID); errors.Is(err, models.ErrParkingNotFound) {
		f.log.Warn().Str("parking_id", in.ParkingID).Msg("feedback for unregistered parking")
	}

	event := &models.Feedback{
		ParkingID:     in.ParkingID,
		Timestamp:     stamp,
		FreeSpots:     in.FreeSpots,
		ParkedSuccess: in.ParkedSuccess,
		Weather:       in.Weather,
		EventContext:  in.EventContext,
		PhotoURL:      in.PhotoURL,
	}
	if err := f.store.CreateFeedback(ctx, event); err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}
	f.metrics.ObserveFeedback(in.ParkedSuccess)

	availability := 0.0
	if in.ParkedSuccess {
		availability = 1.0
	}
	sample := models.HistoricalSample{
		ParkingID:    in.ParkingID,
		Timestamp:    stamp,
		Availability: availability,
	}
	if err := f.store.UpsertHistoricalSample(ctx, sample); err != nil {
		f.metrics.HistoryWriteFailed()
		f.log.Warn().Err(err).Str("parking_id", in.ParkingID).Msg("failed to update historical data")
	}

	f.log.Info().Str("parking_id", in.ParkingID).Bool("parked", in.ParkedSuccess).Msg("feedback recorded")
	return nil
}
