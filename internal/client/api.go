package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sneakwear05-commits/vinted-auto-ia/internal/domain"
	"github.com/sneakwear05-commits/vinted-auto-ia/internal/payload"
)

// Client talks to the listing API from the seller's side. It implements
// pipeline.API so the orchestrator never sees HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// HealthStatus mirrors GET /api/health.
type HealthStatus struct {
	OK     bool `json:"ok"`
	HasKey bool `json:"hasKey"`
}

type errorBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 180 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Health probes readiness and credential presence.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return HealthStatus{}, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return HealthStatus{}, err
	}
	defer resp.Body.Close()
	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return HealthStatus{}, fmt.Errorf("decode health response: %w", err)
	}
	return status, nil
}

// GenerateListing implements pipeline.API.
func (c *Client) GenerateListing(ctx context.Context, req payload.ListingRequest) (*domain.ListingResult, error) {
	var result domain.ListingResult
	if err := c.postJSON(ctx, "/api/generate-listing", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateMannequin implements pipeline.API.
func (c *Client) GenerateMannequin(ctx context.Context, req payload.MannequinRequest) (*domain.MannequinResult, error) {
	var result struct {
		OK           bool   `json:"ok"`
		ImageDataURL string `json:"image_data_url"`
	}
	if err := c.postJSON(ctx, "/api/generate-mannequin", req, &result); err != nil {
		return nil, err
	}
	return &domain.MannequinResult{ImageDataURL: result.ImageDataURL}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr errorBody
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
