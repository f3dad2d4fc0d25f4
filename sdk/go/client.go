// Package smartinvoice provides a Go client for the SmartInvoice API
package smartinvoice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the SmartInvoice API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken sets a previously issued bearer token
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates a new SmartInvoice client
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Register creates an account
func (c *Client) Register(ctx context.Context, email, password, name string) error {
	body := map[string]string{"email": email, "password": password, "name": name}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, nil)
}

// Login exchanges credentials for a token and uses it for later calls
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var token Token
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/token", body, &token); err != nil {
		return nil, err
	}
	c.token = token.AccessToken
	return &token, nil
}

// CreateInvoice creates an invoice; the server assigns its number
func (c *Client) CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, http.MethodPost, "/api/v1/invoices", req, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListInvoices returns the caller's invoices, newest first
func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	if err := c.do(ctx, http.MethodGet, "/api/v1/invoices", nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// GetInvoice fetches one invoice
func (c *Client) GetInvoice(ctx context.Context, id string) (*Invoice, error) {
	var invoice Invoice
	if err := c.do(ctx, http.MethodGet, "/api/v1/invoices/"+id, nil, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// DeleteInvoice removes an invoice. Its number is not handed out again.
func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/invoices/"+id, nil, nil)
}

// UpdateInvoiceStatus moves an invoice to another status
func (c *Client) UpdateInvoiceStatus(ctx context.Context, id string, status Status) (*Invoice, error) {
	var invoice Invoice
	body := map[string]Status{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/invoices/"+id+"/status", body, &invoice); err != nil {
		return nil, err
	}
	return &invoice, nil
}

// NextInvoiceNumber previews the next invoice number without reserving it
func (c *Client) NextInvoiceNumber(ctx context.Context) (*NextIdentifier, error) {
	return c.nextIdentifier(ctx, "/api/v1/invoices/next-number")
}

// CreateQuote creates a quote; the server assigns its number
func (c *Client) CreateQuote(ctx context.Context, req *CreateQuoteRequest) (*Quote, error) {
	var quote Quote
	if err := c.do(ctx, http.MethodPost, "/api/v1/quotes", req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// ListQuotes returns the caller's quotes, newest first
func (c *Client) ListQuotes(ctx context.Context) ([]Quote, error) {
	var quotes []Quote
	if err := c.do(ctx, http.MethodGet, "/api/v1/quotes", nil, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// UpdateQuoteStatus moves a quote to another status
func (c *Client) UpdateQuoteStatus(ctx context.Context, id string, status Status) (*Quote, error) {
	var quote Quote
	body := map[string]Status{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/quotes/"+id+"/status", body, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// NextQuoteNumber previews the next quote number without reserving it
func (c *Client) NextQuoteNumber(ctx context.Context) (*NextIdentifier, error) {
	return c.nextIdentifier(ctx, "/api/v1/quotes/next-number")
}

// Totals computes the totals of a set of line items without storing anything
func (c *Client) Totals(ctx context.Context, items []LineItem) (*Totals, error) {
	var totals Totals
	body := map[string][]LineItem{"items": items}
	if err := c.do(ctx, http.MethodPost, "/api/v1/totals", body, &totals); err != nil {
		return nil, err
	}
	return &totals, nil
}

func (c *Client) nextIdentifier(ctx context.Context, path string) (*NextIdentifier, error) {
	var next NextIdentifier
	if err := c.do(ctx, http.MethodGet, path, nil, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		data, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
