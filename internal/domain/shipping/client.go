// internal/domain/shipping/client.go
package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/varahajewels/ecommerce-backend/internal/config"
)

// Client is the shipping aggregator API surface used by the order and
// tracking services. Implementations must be safe for concurrent use.
type Client interface {
	CheckServiceability(ctx context.Context, req *ServiceabilityRequest) (*ServiceabilityResponse, error)
	CreateForwardOrder(ctx context.Context, req *ForwardOrderRequest) (*WrapperResponse, error)
	CreateReturnOrder(ctx context.Context, req *ReturnOrderRequest) (*WrapperResponse, error)
	TrackOrder(ctx context.Context, req *TrackOrderRequest) (*TrackOrderResponse, error)
	GetPickupLocations(ctx context.Context) (*PickupLocationsResponse, error)
	CreatePickupLocation(ctx context.Context, req *CreatePickupLocationRequest) (*PickupLocationsResponse, error)
}

// rapidShypClient talks to the RapidShyp REST API
type rapidShypClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRapidShypClient creates a RapidShyp API client from configuration
func NewRapidShypClient(cfg *config.Config, logger *logrus.Logger) Client {
	timeout := cfg.Shipping.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &rapidShypClient{
		apiKey:  cfg.Shipping.RapidShypAPIKey,
		baseURL: cfg.Shipping.RapidShypBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (c *rapidShypClient) CheckServiceability(ctx context.Context, req *ServiceabilityRequest) (*ServiceabilityResponse, error) {
	var resp ServiceabilityResponse
	if err := c.post(ctx, "serviceabilty_check", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *rapidShypClient) CreateForwardOrder(ctx context.Context, req *ForwardOrderRequest) (*WrapperResponse, error) {
	var resp WrapperResponse
	if err := c.post(ctx, "wrapper", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *rapidShypClient) CreateReturnOrder(ctx context.Context, req *ReturnOrderRequest) (*WrapperResponse, error) {
	var resp WrapperResponse
	if err := c.post(ctx, "return_wrapper", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *rapidShypClient) TrackOrder(ctx context.Context, req *TrackOrderRequest) (*TrackOrderResponse, error) {
	var resp TrackOrderResponse
	if err := c.post(ctx, "track_order", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *rapidShypClient) GetPickupLocations(ctx context.Context) (*PickupLocationsResponse, error) {
	var resp PickupLocationsResponse
	if err := c.get(ctx, "pickup_locations", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *rapidShypClient) CreatePickupLocation(ctx context.Context, req *CreatePickupLocationRequest) (*PickupLocationsResponse, error) {
	var resp PickupLocationsResponse
	if err := c.post(ctx, "create/pickup_location", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *rapidShypClient) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body), out)
}

func (c *rapidShypClient) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *rapidShypClient) do(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) error {
	url := c.baseURL + "/" + endpoint

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("rapidshyp-token", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
	}).Debug("RapidShyp API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithField("endpoint", endpoint).Error("RapidShyp API request failed")
		return fmt.Errorf("rapidshyp request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
			"body":     string(respBody),
		}).Error("RapidShyp API error response")
		return fmt.Errorf("rapidshyp API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse rapidshyp response: %w", err)
	}
	return nil
}
