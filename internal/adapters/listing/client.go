// internal/adapters/listing/client.go
package listing

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/observability"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/search"
)

type Client struct {
	base    string
	hc      *http.Client
	key     string
	rl      *rate.Limiter
	lang    string
	retries int
}

type Option func(*Client)

// WithHTTPClient replaces the default client (20s timeout).
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithLanguage sets the default Accept-Language sent to the API.
func WithLanguage(lang string) Option { return func(c *Client) { c.lang = lang } }

// WithRetries sets how many times a transient failure is retried.
func WithRetries(n int) Option { return func(c *Client) { c.retries = n } }

// New builds a client for the listing API rooted at base. The API key is
// optional; the public listing endpoints accept anonymous reads.
func New(base, key string, rps int, opts ...Option) (*Client, error) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return nil, fmt.Errorf("listing: base URL is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("listing: invalid base URL: %w", err)
	}
	if rps <= 0 {
		rps = 5
	}
	c := &Client{
		base:    base,
		hc:      &http.Client{Timeout: 20 * time.Second},
		key:     key,
		rl:      rate.NewLimiter(rate.Limit(rps), rps),
		lang:    "en",
		retries: 3,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ---- Public API ----

// Search issues GET <base>/properties with only the non-empty filter fields.
func (c *Client) Search(ctx context.Context, f domain.SearchFilters) (domain.SearchPage, error) {
	u := c.base + "/properties"
	if q := search.Encode(f); q != "" {
		u += "?" + q
	}
	var out any
	if err := c.get(ctx, "search", u, &out); err != nil {
		return domain.SearchPage{}, err
	}
	return MapSearchPage(out), nil
}

// GetProperty fetches one record, trying the current path before the legacy one.
func (c *Client) GetProperty(ctx context.Context, id string) (domain.PropertyRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.PropertyRecord{}, fmt.Errorf("listing: empty property id: %w", domain.ErrInvalid)
	}
	esc := url.PathEscape(id)
	candidates := []string{
		fmt.Sprintf("%s/properties/%s", c.base, esc), // preferred
		fmt.Sprintf("%s/property/%s", c.base, esc),   // legacy
	}
	var out map[string]any
	if err := c.getFirst(ctx, "property", candidates, &out); err != nil {
		return domain.PropertyRecord{}, err
	}
	if out == nil {
		return domain.PropertyRecord{}, ErrNotFound
	}
	rec := MapProperty(out)
	if rec.ID == "" {
		rec.ID = id
	}
	return rec, nil
}

// ---- Internals ----

var (
	ErrNotFound     = fmt.Errorf("listing: %w", domain.ErrNotFound)
	ErrUnauthorized = errors.New("listing: unauthorized")
	ErrForbidden    = errors.New("listing: forbidden")
)

func (c *Client) getFirst(ctx context.Context, endpoint string, urls []string, out any) error {
	var last error
	for _, u := range urls {
		if err := c.get(ctx, endpoint, u, out); err != nil {
			if errors.Is(err, ErrNotFound) {
				last = err
				continue // try next pattern
			}
			return err // non-404: stop early
		}
		return nil
	}
	if last != nil {
		return last
	}
	return errors.New("listing: no candidate URL succeeded")
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided. Every
// attempt, retries included, waits on the rate limiter.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	lang := c.lang
	if l := domain.LanguageFrom(ctx); l != "" {
		lang = l
	}

	var lastErr error
	for i := 0; i <= c.retries; i++ {
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		if c.key != "" {
			req.Header.Set("X-API-Key", c.key)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Accept-Language", lang)
		req.Header.Set("User-Agent", "goldenkey-bff/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("listing", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = fmt.Errorf("listing: %w", err)
			if i < c.retries && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("listing", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("listing: decode %s: %w", endpoint, err)
			}
			return nil

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("listing: remote %d", resp.StatusCode)
			if i < c.retries && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("listing: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 100ms, 200ms, 400ms... plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 100 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
