package transport

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

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/logging"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const maxErrorBody = 4 << 10

// HTTPClient talks to the docstore HTTP API. It injects the API key and a
// request id on every call and retries idempotent requests on transient
// failures.
type HTTPClient struct {
	baseURL      string
	apiKey       string
	hc           *http.Client
	logger       logging.Logger
	retries      uint64
	retryBackoff time.Duration
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.hc = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// WithRetries sets how many times a GET is retried after a transient error,
// starting at base and doubling.
func WithRetries(n uint64, base time.Duration) Option {
	return func(c *HTTPClient) {
		c.retries = n
		c.retryBackoff = base
	}
}

func NewHTTPClient(baseURL, apiKey string, opts ...Option) (*HTTPClient, error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	c := &HTTPClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		hc:           &http.Client{Timeout: 30 * time.Second},
		logger:       logging.NewNop(),
		retries:      2,
		retryBackoff: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) Do(ctx context.Context, r *Request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	// an empty body leaves out untouched
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%s %s: decode response: %w", r.Method, r.Path, err)
	}
	return nil
}

func (c *HTTPClient) Stream(ctx context.Context, r *Request) (io.ReadCloser, error) {
	resp, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// send performs the request, retrying GETs, and returns a 2xx response.
func (c *HTTPClient) send(ctx context.Context, r *Request) (*http.Response, error) {
	if r.Method != http.MethodGet || c.retries == 0 {
		return c.roundTrip(ctx, r)
	}

	var resp *http.Response
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		resp, err = c.roundTrip(ctx, r)
		if err != nil && errors.Is(err, ErrUnavailable) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, r *Request) (*http.Response, error) {
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get(common.RequestIDHeaderName)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "http request failed", "method", r.Method, "path", r.Path, "request_id", requestID, "error", err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, r.Method, r.Path, err)
	}
	c.logger.Debug(ctx, "http request", "method", r.Method, "path", r.Path, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	return nil, c.mapError(r, resp)
}

func (c *HTTPClient) newRequest(ctx context.Context, r *Request) (*http.Request, error) {
	u := c.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var body io.Reader
	contentType := r.ContentType
	switch {
	case r.JSON != nil:
		b, err := json.Marshal(r.JSON)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", r.Method, r.Path, err)
		}
		body = bytes.NewReader(b)
		if contentType == "" {
			contentType = "application/json"
		}
	case r.Body != nil:
		body = r.Body
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if c.apiKey != "" {
		req.SetBasicAuth("", c.apiKey)
	}
	return req, nil
}

func (c *HTTPClient) mapError(r *Request, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method: r.Method,
		Path:   r.Path,
		Code:   resp.StatusCode,
		Body:   strings.TrimSpace(string(b)),
		kind:   mapStatus(resp.StatusCode),
	}
}
