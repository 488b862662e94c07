package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"livewatch-cli/internal/logger"
	"livewatch-cli/internal/metrics"
)

const maxErrorBody = 64 << 10

type Options struct {
	BaseURL string
	Timeout time.Duration

	// RateLimit is requests per second; 0 leaves the client unthrottled.
	RateLimit float64
	Burst     int

	Logger     *logrus.Logger
	Metrics    *metrics.Metrics
	HTTPClient *http.Client
}

// Client talks JSON to the backend. It is safe for concurrent use and immutable after New.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// The caller's client is copied so its own timeout stays untouched.
	hc := &http.Client{}
	if opts.HTTPClient != nil {
		cp := *opts.HTTPClient
		hc = &cp
	}
	hc.Timeout = timeout

	c := &Client{
		baseURL: base,
		http:    hc,
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Do sends one request and decodes a successful body into out (which may be nil). body,
// when non-nil, is sent as JSON. Failures come back as *Error and are logged once here.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return c.fail(&Error{Kind: KindTransport, Method: method, Path: path, Err: fmt.Errorf("decode response: %w", err)}, 0)
	}
	return nil
}

// Raw is Do without decoding. An empty body yields nil.
func (c *Client) Raw(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	raw, err := c.send(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if !json.Valid(raw) {
		return nil, c.fail(&Error{Kind: KindTransport, Method: method, Path: path, Err: errors.New("decode response: invalid JSON")}, 0)
	}
	return json.RawMessage(raw), nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	reqID := uuid.NewString()
	route := routeOf(path)
	start := time.Now()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.metrics.ObserveRequest(method, route, "error", time.Since(start))
			return nil, c.fail(&Error{Kind: KindTransport, Method: method, Path: path, RequestID: reqID, Err: err}, time.Since(start))
		}
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, c.fail(&Error{Kind: KindTransport, Method: method, Path: path, RequestID: reqID, Err: fmt.Errorf("encode request: %w", err)}, 0)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, c.fail(&Error{Kind: KindTransport, Method: method, Path: path, RequestID: reqID, Err: err}, 0)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, route, "error", time.Since(start))
		return nil, c.fail(&Error{Kind: KindTransport, Method: method, Path: path, RequestID: reqID, Err: err}, time.Since(start))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		c.metrics.ObserveRequest(method, route, strconv.Itoa(res.StatusCode), time.Since(start))
		return nil, c.fail(&Error{
			Kind:      KindBackend,
			Method:    method,
			Path:      path,
			Status:    res.StatusCode,
			Message:   backendMessage(b),
			RequestID: reqID,
		}, time.Since(start))
	}

	b, err := io.ReadAll(res.Body)
	c.metrics.ObserveRequest(method, route, strconv.Itoa(res.StatusCode), time.Since(start))
	if err != nil {
		return nil, c.fail(&Error{Kind: KindTransport, Method: method, Path: path, RequestID: reqID, Err: fmt.Errorf("read response: %w", err)}, time.Since(start))
	}
	c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"status":     res.StatusCode,
		"request_id": reqID,
		"elapsed":    time.Since(start).Round(time.Millisecond),
	}).Debug("backend request")
	return bytes.TrimSpace(b), nil
}

func (c *Client) fail(e *Error, elapsed time.Duration) *Error {
	fields := logrus.Fields{
		"method": e.Method,
		"path":   e.Path,
		"kind":   e.Kind.String(),
	}
	if e.RequestID != "" {
		fields["request_id"] = e.RequestID
	}
	if e.Status != 0 {
		fields["status"] = e.Status
	}
	if elapsed > 0 {
		fields["elapsed"] = elapsed.Round(time.Millisecond)
	}
	entry := c.log.WithFields(fields)
	if e.Err != nil {
		entry = entry.WithError(e.Err)
	}
	if e.Message != "" {
		entry = entry.WithField("message", e.Message)
	}
	entry.Error("backend request failed")
	return e
}

// backendMessage extracts the backend's error text from {"error": ...} or {"message": ...}.
func backendMessage(b []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(b, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	s := strings.TrimSpace(string(b))
	if len(s) > 200 || strings.HasPrefix(s, "<") {
		return ""
	}
	return s
}

// routeOf collapses ids so metric labels stay bounded: "/anchors/7" -> "/anchors/{id}".
// Every backend resource path is /collection or /collection/{id}; /system/* is static.
func routeOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] != "system" {
		parts[1] = "{id}"
	}
	return "/" + strings.Join(parts, "/")
}

// WithQuery appends q to path, skipping empty values.
func WithQuery(path string, q url.Values) string {
	clean := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				clean.Add(k, v)
			}
		}
	}
	if len(clean) == 0 {
		return path
	}
	return path + "?" + clean.Encode()
}
