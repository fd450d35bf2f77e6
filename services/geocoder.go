package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"parcheggiml/config"
	"parcheggiml/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// NominatimGeocoder resolves addresses with an OpenStreetMap Nominatim search endpoint.
// Every lookup is bounded by the configured timeout and rate limited.
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	client    *http.Client
	limiter   *rate.Limiter
	log       zerolog.Logger
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func NewNominatimGeocoder(cfg config.GeocoderConfig, log zerolog.Logger) *NominatimGeocoder {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimGeocoder{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, 1),
		log:       log,
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, address string) (models.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return models.Location{}, models.ErrAddressNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return models.Location{}, fmt.Errorf("geocoder rate limit: %w", err)
	}

	u, err := url.Parse(g.baseURL)
	if err != nil {
		return models.Location{}, fmt.Errorf("invalid geocoder url: %w", err)
	}
	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Location{}, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocoder request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return models.Location{}, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if len(places) == 0 {
		g.log.Info().Str("address", address).Msg("address not found")
		return models.Location{}, models.ErrAddressNotFound
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("invalid latitude %q: %w", places[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("invalid longitude %q: %w", places[0].Lon, err)
	}

	g.log.Debug().Str("address", address).Str("match", places[0].DisplayName).Msg("address resolved")
	return models.Location{Lat: lat, Lng: lng}, nil
}
