package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"parcheggiml/config"
	"parcheggiml/database"
	"parcheggiml/handlers"
	"parcheggiml/metrics"
	"parcheggiml/routes"
	"parcheggiml/services"
	"parcheggiml/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

func main() {
	log := utils.NewLogger("server")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	utils.SetLogLevel(cfg.Log.Level)

	loc, err := utils.LoadReferenceZone(cfg.Scoring.Timezone)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load reference timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize record store")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register metrics")
	}

	// scheduled jobs
	c := cron.New(cron.WithLocation(loc))
	predictor, err := newPredictor(ctx, cfg, store, loc, c)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize predictor")
	}
	c.Start()

	geocoder := services.NewNominatimGeocoder(cfg.Geocoder, utils.NewLogger("geocoder"))
	engine := services.NewRankingEngine(store, predictor, geocoder, loc, services.RankingOptions{
		TopN:    cfg.Scoring.TopN,
		Workers: cfg.Scoring.Workers,
	}, m, utils.NewLogger("ranking"))
	registry := services.NewParkingRegistry(store, loc, utils.NewLogger("registry"))
	ingestor := services.NewFeedbackIngestor(store, loc, m, utils.NewLogger("feedback"))

	gin.SetMode(cfg.Server.GinMode)
	log.Info().Str("mode", cfg.Server.GinMode).Msg("gin mode set")

	httpLog := utils.NewLogger("http")
	router := routes.NewRouter(routes.Options{
		ServiceName:    cfg.Server.ServiceName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Parking:        handlers.NewParkingHandler(engine, registry, loc, httpLog),
		Feedback:       handlers.NewFeedbackHandler(ingestor, httpLog),
		Metrics:        m,
		Gatherer:       reg,
		Log:            httpLog,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	<-c.Stop().Done()
	log.Info().Msg("server stopped")
}

// openStore returns the in-memory store or a migrated gorm store, seeding sample data when enabled.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (services.Store, error) {
	var store services.Store
	if cfg.Database.Driver == config.DriverMemory {
		store = database.NewMemoryStore()
	} else {
		db, err := database.Open(cfg.Database, cfg.Server.GinMode, utils.NewLogger("database"))
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		log.Info().Msg("database migration completed")
		store = database.NewGormStore(db)
	}

	if cfg.Database.Seed {
		n, err := database.Seed(ctx, store)
		if err != nil {
			return nil, err
		}
		log.Info().Int("inserted", n).Msg("sample parkings seeded")
	}
	return store, nil
}

func newPredictor(ctx context.Context, cfg *config.Config, store services.Store, loc *time.Location, c *cron.Cron) (services.AvailabilityPredictor, error) {
	if cfg.Scoring.Predictor != config.PredictorLearned {
		return services.NewAvailabilityScorer(store, services.NewConstantSignals(), loc, utils.NewLogger("scorer")), nil
	}

	learnedLog := utils.NewLogger("learned")
	learned := services.NewLearnedPredictor(store, loc, learnedLog)
	if _, err := services.ScheduleRetraining(ctx, c, learned, cfg.Scoring.RetrainSchedule, learnedLog); err != nil {
		return nil, err
	}
	return learned, nil
}
