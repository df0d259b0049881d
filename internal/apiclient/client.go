package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/trgovina/internal/metrics"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// NetworkMessage is shown to the user when a request fails for any reason
// other than an error reported by the API.
const NetworkMessage = "Network error. Please try again."

// ErrNetwork marks transport failures: the request could not be sent, the
// server answered with a non-2xx status and no error message, or the body
// was not valid JSON.
var ErrNetwork = errors.New("network error")

// APIError is an error reported by the API in its response body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Message returns the text to show the user for err: the API's own message
// when it reported one, fallback otherwise.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Result is the outcome of a mutating call.
type Result struct {
	Message string `json:"message"`
}

// envelope is the part every API response shares.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Client talks to the business REST API. Each call issues exactly one
// request; nothing is retried or cached.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// New creates a client for the API at baseURL. The API key is sent in the
// X-API-Key header when non-empty. A zero timeout selects DefaultTimeout.
func New(baseURL, apiKey string, timeout time.Duration, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: m,
	}
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Inventory returns the inventory endpoints.
func (c *Client) Inventory() *InventoryAPI {
	return &InventoryAPI{c: c}
}

// Transactions returns the transaction endpoints.
func (c *Client) Transactions() *TransactionsAPI {
	return &TransactionsAPI{c: c}
}

// Assets returns the asset endpoints.
func (c *Client) Assets() *AssetsAPI {
	return &AssetsAPI{c: c}
}

// Catalog returns the inventory category and condition endpoints.
func (c *Client) Catalog() *CatalogAPI {
	return &CatalogAPI{c: c}
}

// Insights returns the analytics endpoints.
func (c *Client) Insights() *InsightsAPI {
	return &InsightsAPI{c: c}
}

// do issues one request and decodes a successful response into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, body, out)
	c.metrics.ObserveAPI(op, outcome(err), time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to make request: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrNetwork, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	// Transport status first, then the body's success flag.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && env.Error != "" {
			return &APIError{Status: resp.StatusCode, Message: env.Error}
		}
		return fmt.Errorf("%w: request failed with status %d", ErrNetwork, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrNetwork, decodeErr)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "Request failed"
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrNetwork, err)
		}
	}
	return nil
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &apiErr):
		return "api_error"
	default:
		return "network_error"
	}
}
