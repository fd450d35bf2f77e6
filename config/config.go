package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Geocoder GeocoderConfig
	Scoring  ScoringConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port           int
	GinMode        string
	AllowedOrigins string
	ServiceName    string
}

type DatabaseConfig struct {
	Driver        string
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	Path          string
	MaxRetries    int
	RetryInterval time.Duration
	Seed          bool
}

type GeocoderConfig struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RatePerSecond float64
}

type ScoringConfig struct {
	Timezone        string
	Predictor       string
	RetrainSchedule string
	Workers         int
	TopN            int
}

type LogConfig struct {
	Env   string
	Level string
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"

	PredictorWeighted = "weighted"
	PredictorLearned  = "learned"
)

// GetDSN builds the connection string for the configured driver.
func (d DatabaseConfig) GetDSN() string {
	switch d.Driver {
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
		cfg.DBName = d.Name
		cfg.ParseTime = true
		cfg.Params = map[string]string{"charset": "utf8mb4"}
		return cfg.FormatDSN()
	case DriverPostgres:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
		)
	default:
		return d.Path
	}
}

// LoadConfig reads an optional .env file and then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Err(err).Msg("no .env file found, using environment variables")
	}

	serverPort, err := getIntEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	driver := getEnv("DB_DRIVER", DriverSQLite)
	switch driver {
	case DriverMySQL, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	defaultDBPort := 3306
	if driver == DriverPostgres {
		defaultDBPort = 5432
	}
	dbPort, err := getIntEnv("DB_PORT", defaultDBPort)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxRetries, err := getIntEnv("DB_MAX_RETRIES", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %w", err)
	}
	retryInterval, err := getDurationEnv("DB_RETRY_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_RETRY_INTERVAL: %w", err)
	}
	seed, err := getBoolEnv("DB_SEED", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_SEED: %w", err)
	}

	geocodeTimeout, err := getDurationEnv("GEOCODER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODER_TIMEOUT: %w", err)
	}
	rate, err := getFloatEnv("GEOCODER_RATE_PER_SECOND", 1)
	if err != nil {
		return nil, fmt.Errorf("invalid GEOCODER_RATE_PER_SECOND: %w", err)
	}

	predictor := getEnv("PREDICTOR", PredictorWeighted)
	if predictor != PredictorWeighted && predictor != PredictorLearned {
		return nil, fmt.Errorf("unsupported PREDICTOR %q", predictor)
	}
	workers, err := getIntEnv("SCORING_WORKERS", 8)
	if err != nil {
		return nil, fmt.Errorf("invalid SCORING_WORKERS: %w", err)
	}
	topN, err := getIntEnv("TOP_N", 3)
	if err != nil {
		return nil, fmt.Errorf("invalid TOP_N: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           serverPort,
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			ServiceName:    getEnv("SERVICE_NAME", "ParcheggiML Backend"),
		},
		Database: DatabaseConfig{
			Driver:        driver,
			Host:          getEnv("DB_HOST", "localhost"),
			Port:          dbPort,
			User:          getEnv("DB_USER", "parking_user"),
			Password:      getEnv("DB_PASSWORD", ""),
			Name:          getEnv("DB_NAME", "parking_db"),
			SSLMode:       getEnv("DB_SSLMODE", "disable"),
			Path:          getEnv("DB_PATH", "ai_parking.db"),
			MaxRetries:    maxRetries,
			RetryInterval: retryInterval,
			Seed:          seed,
		},
		Geocoder: GeocoderConfig{
			BaseURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org/search"),
			UserAgent:     getEnv("GEOCODER_USER_AGENT", "parcheggiml/1.0"),
			Timeout:       geocodeTimeout,
			RatePerSecond: rate,
		},
		Scoring: ScoringConfig{
			Timezone:        getEnv("REFERENCE_TIMEZONE", "Europe/Rome"),
			Predictor:       predictor,
			RetrainSchedule: getEnv("RETRAIN_SCHEDULE", "0 3 * * *"),
			Workers:         workers,
			TopN:            topN,
		},
		Log: LogConfig{
			Env:   getEnv("APP_ENV", "prod"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getIntEnv(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.Atoi(value)
}

func getFloatEnv(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(value, 64)
}

func getBoolEnv(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseBool(value)
}

func getDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}
