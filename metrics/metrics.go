package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Requests             *prometheus.CounterVec
	Feedback             *prometheus.CounterVec
	HistoryWriteFailures prometheus.Counter
	GeocodeFailures      prometheus.Counter
	Scores               prometheus.Histogram
}

// New registers the collectors on reg. A nil registerer defaults to the global one.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_http_requests_total",
			Help: "HTTP requests handled, by route and status",
		}, []string{"method", "route", "status"}),
		Feedback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parking_feedback_total",
			Help: "Feedback events recorded",
		}, []string{"parked"}),
		HistoryWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parking_history_write_failures_total",
			Help: "Historical samples that could not be written after a feedback",
		}),
		GeocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parking_geocode_failures_total",
			Help: "Addresses that could not be resolved",
		}),
		Scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parking_availability_score",
			Help:    "Distribution of computed availability probabilities",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
	}

	var err error
	if m.Requests, err = register(reg, m.Requests); err != nil {
		return nil, err
	}
	if m.Feedback, err = register(reg, m.Feedback); err != nil {
		return nil, err
	}
	if m.HistoryWriteFailures, err = register(reg, m.HistoryWriteFailures); err != nil {
		return nil, err
	}
	if m.GeocodeFailures, err = register(reg, m.GeocodeFailures); err != nil {
		return nil, err
	}
	if m.Scores, err = register(reg, m.Scores); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (m *Metrics) ObserveRequest(method, route, status string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, status).Inc()
}

func (m *Metrics) ObserveFeedback(parked bool) {
	if m == nil {
		return
	}
	label := "false"
	if parked {
		label = "true"
	}
	m.Feedback.WithLabelValues(label).Inc()
}

func (m *Metrics) HistoryWriteFailed() {
	if m == nil {
		return
	}
	m.HistoryWriteFailures.Inc()
}

func (m *Metrics) GeocodeFailed() {
	if m == nil {
		return
	}
	m.GeocodeFailures.Inc()
}

func (m *Metrics) ObserveScore(p float64) {
	if m == nil {
		return
	}
	m.Scores.Observe(p)
}
