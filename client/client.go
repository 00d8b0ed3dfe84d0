// Package client talks to the record store HTTP API for one collection.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recordbook/models"
)

const defaultTimeout = 30 * time.Second

// APIError is returned for any non-2xx response. Message holds the response
// body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	baseURL    string
	collection string
}

type Option func(*Client)

// WithHTTPClient sends requests through a copy of hc. hc itself is never
// modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(baseURL, collection string, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.httpClient
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	} else if hc.Timeout == 0 {
		hc.Timeout = defaultTimeout
	}
	c.httpClient = &hc
	return c
}

// List fetches the collection, filtered by r when it has bounds.
func (c *Client) List(ctx context.Context, r models.DateRange) ([]models.Record, error) {
	endpoint := c.collectionURL()
	if !r.IsZero() {
		endpoint += "?" + r.Query().Encode()
	}

	var records []models.Record
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.Record{}
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, id string) (*models.Record, error) {
	var rec models.Record
	if err := c.do(ctx, http.MethodGet, c.recordURL(id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create posts rec without an id and returns the stored record.
func (c *Client) Create(ctx context.Context, rec models.Record) (*models.Record, error) {
	rec.ID = ""
	var created models.Record
	if err := c.do(ctx, http.MethodPost, c.collectionURL(), rec, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Update(ctx context.Context, id string, rec models.Record) (*models.Record, error) {
	var updated models.Record
	if err := c.do(ctx, http.MethodPut, c.recordURL(id), rec, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.recordURL(id), nil, nil)
}

func (c *Client) collectionURL() string {
	return c.baseURL + "/" + url.PathEscape(c.collection)
}

func (c *Client) recordURL(id string) string {
	return c.collectionURL() + "/" + url.PathEscape(id)
}

// do sends payload as JSON when non-nil and decodes a non-empty 2xx body
// into out when non-nil.
func (c *Client) do(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
