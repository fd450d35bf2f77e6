package routes

import (
	"parcheggiml/handlers"
	"parcheggiml/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Options struct {
	ServiceName    string
	AllowedOrigins string
	Parking        *handlers.ParkingHandler
	Feedback       *handlers.FeedbackHandler
	Metrics        *metrics.Metrics
	// Gatherer backs GET /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(opts.Log, opts.Metrics))
	r.Use(CORSMiddleware(opts.AllowedOrigins))

	Path(r, opts)
	return r
}

func Path(r gin.IRoutes, opts Options) {
	// liveness probe
	r.GET("/", handlers.Health(opts.ServiceName))

	r.POST("/find-parking", opts.Parking.FindParking)
	r.POST("/predict-future-parking", opts.Parking.PredictFutureParking)
	r.POST("/register-parking", opts.Parking.RegisterParking)
	r.GET("/missing-info/:parking_id", opts.Parking.MissingInfo)
	r.POST("/update-parking/:parking_id", opts.Parking.UpdateParking)

	r.POST("/submit-feedback", opts.Feedback.SubmitFeedback)

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}
}
