// Package client provides an HTTP client for the Golden Key BFF.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/booking"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/search"
)

// Client talks to the BFF. It satisfies domain.ListingAPI and
// domain.BookingService, so the search orchestrator and the booking wizard
// can run against a remote server.
type Client struct {
	baseURL    string
	lang       string
	httpClient *http.Client
}

type Option func(*Client)

func WithLanguage(lang string) Option { return func(c *Client) { c.lang = lang } }

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// New creates a new API client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL:    baseURL,
		lang:       "en",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// APIError is a problem response returned by the server.
type APIError struct {
	Status int               `json:"status"`
	Title  string            `json:"title"`
	Detail string            `json:"detail,omitempty"`
	Fields map[string]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return e.Title
}

// Unwrap maps HTTP statuses back onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalid
	}
	return nil
}

type searchResponse struct {
	Query   string                  `json:"query"`
	Count   int                     `json:"count"`
	Next    *string                 `json:"next,omitempty"`
	Results []domain.PropertyRecord `json:"results"`
}

// Search runs a filtered search.
func (c *Client) Search(ctx context.Context, f domain.SearchFilters) (domain.SearchPage, error) {
	path := "/v1/properties"
	if q := search.Encode(f); q != "" {
		path += "?" + q
	}
	var resp searchResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return domain.SearchPage{}, err
	}
	if resp.Results == nil {
		resp.Results = []domain.PropertyRecord{}
	}
	return domain.SearchPage{Count: resp.Count, Next: resp.Next, Results: resp.Results}, nil
}

// GetProperty returns one normalized record.
func (c *Client) GetProperty(ctx context.Context, id string) (domain.PropertyRecord, error) {
	var rec domain.PropertyRecord
	if err := c.get(ctx, "/v1/properties/"+url.PathEscape(id), &rec); err != nil {
		return domain.PropertyRecord{}, err
	}
	return rec, nil
}

// Options is the response of GET /v1/booking/options.
type Options struct {
	Steps []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"steps"`
	Types []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	} `json:"types"`
	Slots     []booking.TimeSlot   `json:"slots"`
	Timezones []string             `json:"timezones"`
	Dates     []booking.DateOption `json:"dates"`
}

// BookingOptions returns the selectable values of the booking form.
func (c *Client) BookingOptions(ctx context.Context) (*Options, error) {
	var o Options
	if err := c.get(ctx, "/v1/booking/options", &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Submit books a consultation. Validation failures come back as a
// *domain.ValidationError carrying the server's field messages.
func (c *Client) Submit(ctx context.Context, req domain.BookingRequest) (domain.BookingConfirmation, error) {
	if req.Locale == "" {
		req.Locale = c.lang
	}
	var conf domain.BookingConfirmation
	err := c.post(ctx, "/v1/bookings", req, &conf)
	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
		return domain.BookingConfirmation{}, &domain.ValidationError{Fields: apiErr.Fields}
	}
	if err != nil {
		return domain.BookingConfirmation{}, err
	}
	return conf, nil
}

// GetBooking looks up a booking by reference.
func (c *Client) GetBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	var b domain.Booking
	if err := c.get(ctx, "/v1/bookings/"+url.PathEscape(reference), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelBooking cancels a booking.
func (c *Client) CancelBooking(ctx context.Context, reference string) error {
	return c.do(ctx, http.MethodDelete, "/v1/bookings/"+url.PathEscape(reference), nil, nil)
}

func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, data, result)
}

// do executes a request and decodes either the result or a problem body.
func (c *Client) do(ctx context.Context, method, path string, body []byte, result any) error {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.lang)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || apiErr.Title == "" {
			apiErr.Title = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
