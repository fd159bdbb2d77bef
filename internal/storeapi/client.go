package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/harvestgreens/storefront/internal/app/model"
	"github.com/harvestgreens/storefront/pkg/logger"
)

// Client is a storefront API client. It is stateless with respect to
// authentication: callers pass the bearer token per request.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new storefront API client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// requestOptions carry the per-call extras of doRequest.
type requestOptions struct {
	token          string
	idempotencyKey string
}

// Login exchanges credentials for a token and profile
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "login", LoginRequest{Email: email, Password: password}, requestOptions{})
	if err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return &authResp, nil
}

// Signup registers a new account and returns the issued token and profile
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "signup", req, requestOptions{})
	if err != nil {
		return nil, err
	}

	var authResp AuthResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return &authResp, nil
}

// Products fetches the full catalog
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "products", nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	var envelope productListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return envelope.Data, nil
}

// Product fetches a single product by ID
func (c *Client) Product(ctx context.Context, id uint) (*model.Product, error) {
	body, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("products/%d", id), nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	var envelope productEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return &envelope.Data, nil
}

// Categories fetches the category list
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "categories", nil, requestOptions{})
	if err != nil {
		return nil, err
	}

	var envelope categoryListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return envelope.Data, nil
}

// CreateOrder submits one order-creation request. The idempotency key travels
// in the Idempotency-Key header; servers that honor it return the original
// result for a replayed key instead of creating a second order.
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest, idempotencyKey string) (*CreateOrderResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "orders", req, requestOptions{
		token:          token,
		idempotencyKey: idempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	var orderResp CreateOrderResponse
	if err := json.Unmarshal(body, &orderResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return &orderResp, nil
}

// Orders fetches the caller's order history
func (c *Client) Orders(ctx context.Context, token string) ([]model.Order, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "orders", nil, requestOptions{token: token})
	if err != nil {
		return nil, err
	}

	var envelope orderListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return envelope.Data, nil
}

// Me fetches the profile the token belongs to
func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "me", nil, requestOptions{token: token})
	if err != nil {
		return nil, err
	}

	var envelope userEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return &envelope.Data, nil
}

// doRequest performs an HTTP request against the storefront API
func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload interface{}, opts requestOptions) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", opts.idempotencyKey)
	}

	logger.Debug("API request", map[string]interface{}{
		"method":   method,
		"endpoint": endpoint,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			logger.Warn("API returned non-JSON error body", map[string]interface{}{
				"endpoint": endpoint,
				"status":   resp.StatusCode,
			})
		}
		return nil, fmt.Errorf("%s %s failed: %w", method, endpoint, apiErr)
	}

	return body, nil
}
