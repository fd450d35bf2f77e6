// Package client is a typed HTTP client for the parking availability service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"parcheggiml/models"
)

const DefaultServer = "http://localhost:8080"

// ErrNotFound is returned when the server answers 404, such as for an unresolved address.
var ErrNotFound = errors.New("not found")

// APIError carries a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultServer
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type SearchResponse struct {
	UserLocation models.Location        `json:"user_location"`
	TopParkings  []models.ParkingResult `json:"top_parkings"`
	AllParkings  []models.ParkingResult `json:"all_parkings"`
}

type RegisterRequest struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Address     string  `json:"address"`
	Covered     *bool   `json:"covered,omitempty"`
	Paid        *bool   `json:"paid,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	PricingInfo *string `json:"pricing_info,omitempty"`
}

type FeedbackRequest struct {
	ParkingID     string  `json:"parking_id"`
	FreeSpots     int     `json:"free_spots"`
	ParkedSuccess bool    `json:"parked_success"`
	Weather       *string `json:"weather,omitempty"`
	EventContext  *string `json:"event_context,omitempty"`
	PhotoURL      *string `json:"photo_url,omitempty"`
}

func (c *Client) FindParking(ctx context.Context, address string) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, "/find-parking", map[string]string{"address": address}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PredictFutureParking asks for the best entries at target, sent as RFC 3339 with its offset.
func (c *Client) PredictFutureParking(ctx context.Context, address string, target time.Time, durationMinutes int) ([]models.ParkingResult, error) {
	body := map[string]any{
		"address":          address,
		"target_datetime":  target.Format(time.RFC3339),
		"duration_minutes": durationMinutes,
	}
	var out struct {
		Parkings []models.ParkingResult `json:"parkings"`
	}
	if err := c.do(ctx, http.MethodPost, "/predict-future-parking", body, &out); err != nil {
		return nil, err
	}
	return out.Parkings, nil
}

func (c *Client) RegisterParking(ctx context.Context, req RegisterRequest) (string, error) {
	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/register-parking", req, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, req FeedbackRequest) error {
	return c.do(ctx, http.MethodPost, "/submit-feedback", req, nil)
}

type UpdateRequest struct {
	Covered     *bool   `json:"covered,omitempty"`
	Paid        *bool   `json:"paid,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	PricingInfo *string `json:"pricing_info,omitempty"`
}

// UpdateParking fills in attributes and returns the ones still unknown.
func (c *Client) UpdateParking(ctx context.Context, parkingID string, req UpdateRequest) ([]string, error) {
	var out struct {
		MissingFields []string `json:"missing_fields"`
	}
	if err := c.do(ctx, http.MethodPost, "/update-parking/"+url.PathEscape(parkingID), req, &out); err != nil {
		return nil, err
	}
	return out.MissingFields, nil
}

func (c *Client) MissingInfo(ctx context.Context, parkingID string) ([]string, error) {
	var out struct {
		MissingFields []string `json:"missing_fields"`
	}
	if err := c.do(ctx, http.MethodGet, "/missing-info/"+url.PathEscape(parkingID), nil, &out); err != nil {
		return nil, err
	}
	return out.MissingFields, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var payload struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
