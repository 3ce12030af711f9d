package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/terra-clan/techdesk/internal/models"
)

// Client is a Go SDK for the techdesk statistics API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new techdesk client. apiKey may be empty when
// the server runs without authentication.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError is returned when the server answers with success=false
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s - %s", e.StatusCode, e.Code, e.Message)
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Summary returns the headline totals
func (c *Client) Summary(ctx context.Context) (*models.Summary, error) {
	return get[models.Summary](ctx, c, "/api/v1/stats/summary")
}

// OrdersByStatus returns the order count per status
func (c *Client) OrdersByStatus(ctx context.Context) (*models.StatusDistribution, error) {
	return get[models.StatusDistribution](ctx, c, "/api/v1/stats/orders-by-status")
}

// MonthlyRevenue returns the estimated revenue series
func (c *Client) MonthlyRevenue(ctx context.Context) (*models.MonthlyTrend, error) {
	return get[models.MonthlyTrend](ctx, c, "/api/v1/stats/monthly-revenue")
}

// ServiceTrend returns completed orders per month split into repairs and maintenance
func (c *Client) ServiceTrend(ctx context.Context) (*models.ServiceTrend, error) {
	return get[models.ServiceTrend](ctx, c, "/api/v1/stats/service-trend")
}

// ClientSegments returns the estimated client segmentation
func (c *Client) ClientSegments(ctx context.Context) (*models.ClientSegmentation, error) {
	return get[models.ClientSegmentation](ctx, c, "/api/v1/stats/client-segments")
}

// InventoryByCategory returns stocked quantities per category
func (c *Client) InventoryByCategory(ctx context.Context) (*models.InventoryBreakdown, error) {
	return get[models.InventoryBreakdown](ctx, c, "/api/v1/stats/inventory-by-category")
}

// TechnicianPerformance returns the synthetic technician comparison
func (c *Client) TechnicianPerformance(ctx context.Context) (*models.TechnicianPerformance, error) {
	return get[models.TechnicianPerformance](ctx, c, "/api/v1/stats/technician-performance")
}

// Health checks if the service is healthy
func (c *Client) Health(ctx context.Context) error {
	_, err := get[map[string]string](ctx, c, "/health")
	return err
}

// Ready checks if every backend of the service is reachable
func (c *Client) Ready(ctx context.Context) error {
	_, err := get[json.RawMessage](ctx, c, "/ready")
	return err
}

func get[T any](ctx context.Context, c *Client, path string) (*T, error) {
	status, body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var result envelope[T]
	if err := json.Unmarshal(body, &result); err != nil {
		if status >= 400 {
			return nil, &APIError{StatusCode: status, Code: "http_error", Message: strings.TrimSpace(string(body))}
		}
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if !result.Success {
		apiErr := &APIError{StatusCode: status, Code: "unknown", Message: "request was not successful"}
		if result.Error != nil {
			apiErr.Code = result.Error.Code
			apiErr.Message = result.Error.Message
		}
		return nil, apiErr
	}

	return &result.Data, nil
}

// doRequest performs an HTTP request and returns the status and body
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (int, []byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, respBody, nil
}
