// Package httpclient provides the outbound HTTP client shared by the catalog,
// monitoring and relay clients, and the transport error kinds they return.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrTransport marks every failure to complete an outbound call:
// connection errors, timeouts, non-2xx statuses and undecodable bodies.
var ErrTransport = errors.New("transport error")

// maxErrorBody caps how much of a failed response body is kept in StatusError.
const maxErrorBody = 4096

// StatusError is returned when a service answers with a non-2xx status.
// Body holds the raw (truncated) response.
type StatusError struct {
	URL        string
	Body       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}

// Is reports StatusError as an ErrTransport.
func (e *StatusError) Is(target error) bool {
	return target == ErrTransport
}

// Options configures New.
type Options struct {
	UserAgent string
	Timeout   time.Duration

	// Rate is the allowed requests per second, zero disables throttling.
	Rate  float64
	Burst int
}

// New allocates a preconfigured *http.Client.
func New(opts Options) *http.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}

	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &transport{
			next:      http.DefaultTransport,
			limiter:   limiter,
			userAgent: opts.UserAgent,
		},
	}
}

// transport throttles requests and stamps the User-Agent header.
type transport struct {
	next      http.RoundTripper
	limiter   *rate.Limiter
	userAgent string
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	log.Trace().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Outbound request")

	return resp, nil
}

// DoJSON sends req and decodes a 2xx JSON body into out.
// Every failure is reported as ErrTransport.
func DoJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			URL:        req.URL.String(),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrTransport, req.URL, err)
	}

	return nil
}

// NewJSONRequest builds a request with an optional JSON encoded body.
func NewJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
