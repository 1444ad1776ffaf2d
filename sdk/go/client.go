// Package rxreturns provides a Go client for the RxReturns API
package rxreturns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rxreturns/rxreturns/pkg/ndc"
)

// Client is the RxReturns API client
type Client struct {
	baseURL     string
	apiKey      string
	bearerToken string
	httpClient  *http.Client
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBearerToken authenticates with an OAuth access token instead of
// the API key
func WithBearerToken(token string) ClientOption {
	return func(c *Client) {
		c.bearerToken = token
	}
}

// NewClient creates a new RxReturns client
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
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

// NormalizeNDC normalizes an NDC locally, without a network round trip.
// It returns the canonical 5-4-2 form, or "" if the input cannot be
// normalized.
func NormalizeNDC(raw string) string {
	return ndc.Normalize(raw)
}

// EstimateBatch estimates return credits for a batch of line items
func (c *Client) EstimateBatch(ctx context.Context, items []LineItem) (*EstimateBatchResponse, error) {
	body := struct {
		Items []LineItem `json:"items"`
	}{Items: items}

	var result EstimateBatchResponse
	if err := c.do(ctx, "POST", "/api/v1/estimates", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateNDC validates and normalizes an NDC on the server
func (c *Client) ValidateNDC(ctx context.Context, raw string) (*NDCValidateResponse, error) {
	body := struct {
		NDC string `json:"ndc"`
	}{NDC: raw}

	var result NDCValidateResponse
	if err := c.do(ctx, "POST", "/api/v1/ndc/validate", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// LookupProduct fetches the catalog record for an NDC
func (c *Client) LookupProduct(ctx context.Context, rawNDC string) (*Product, error) {
	var result Product
	if err := c.do(ctx, "GET", "/api/v1/products/"+url.PathEscape(rawNDC), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchProducts searches the catalog by name
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) (*ProductListResponse, error) {
	path := "/api/v1/products?q=" + url.QueryEscape(query)
	if limit > 0 {
		path += "&limit=" + strconv.Itoa(limit)
	}

	var result ProductListResponse
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateReturnOrder creates a draft return order from a batch of line
// items. All items must validate and resolve against the catalog.
func (c *Client) CreateReturnOrder(ctx context.Context, items []LineItem) (*ReturnOrder, error) {
	body := struct {
		Items []LineItem `json:"items"`
	}{Items: items}

	var result ReturnOrder
	if err := c.do(ctx, "POST", "/api/v1/returns", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetReturnOrder fetches a return order by ID
func (c *Client) GetReturnOrder(ctx context.Context, id string) (*ReturnOrder, error) {
	var result ReturnOrder
	if err := c.do(ctx, "GET", "/api/v1/returns/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListReturnOrders lists the authenticated pharmacy's return orders
func (c *Client) ListReturnOrders(ctx context.Context) (*ReturnOrderListResponse, error) {
	var result ReturnOrderListResponse
	if err := c.do(ctx, "GET", "/api/v1/returns", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateReturnOrderStatus advances a return order through its lifecycle
func (c *Client) UpdateReturnOrderStatus(ctx context.Context, id, status string) (*ReturnOrder, error) {
	body := struct {
		Status string `json:"status"`
	}{Status: status}

	var result ReturnOrder
	if err := c.do(ctx, "POST", "/api/v1/returns/"+url.PathEscape(id)+"/status", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelReturnOrder cancels a draft or submitted return order
func (c *Client) CancelReturnOrder(ctx context.Context, id string) error {
	return c.do(ctx, "POST", "/api/v1/returns/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	} else {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr Error
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("API error: %s (status %d)", apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("API error: %s (status %d)", string(respBody), resp.StatusCode)
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
