package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// DefaultTimeout is the per-call network timeout when none is configured.
const DefaultTimeout = 30 * time.Second

// ErrTransport marks failures where the network call itself did not complete.
var ErrTransport = errors.New("upstream transport error")

// TransportError carries the request that failed and the underlying cause.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request %s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrTransport) match any TransportError.
func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Observer is notified after every upstream call. Status is 0 when no response arrived.
type Observer interface {
	ObserveUpstream(target, method string, status int, elapsed time.Duration)
}

// Request describes a single upstream call.
type Request struct {
	Target  string // short label for logs and metrics, e.g. "github"
	Method  string
	URL     string // absolute
	Query   url.Values
	Body    interface{} // marshalled as JSON when non-nil
	Headers map[string]string
}

// Response holds the upstream status and its body as JSON.
type Response struct {
	StatusCode int
	Body       json.RawMessage
}

// OK reports whether the upstream returned a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// Text returns the body as plain text, unquoting bodies that were wrapped as JSON strings.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Body, &s); err == nil {
		return s
	}
	return string(r.Body)
}

// Client executes JSON requests against upstream APIs. It never retries.
type Client struct {
	httpClient *http.Client
	observer   Observer
}

// NewClient creates a client with a fixed per-call timeout. observer may be nil.
func NewClient(timeout time.Duration, observer Observer) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		observer:   observer,
	}
}

// Do performs the request and returns the parsed body regardless of status code.
// Only failures to complete the call are returned as errors (wrapping ErrTransport).
func (c *Client) Do(ctx context.Context, r *Request) (*Response, error) {
	target := r.URL
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal %s request to %s", r.Method, target)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to construct %s request to %s", r.Method, target)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r, 0, time.Since(start))
		return nil, &TransportError{Method: r.Method, URL: target, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.observe(r, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &TransportError{Method: r.Method, URL: target, Err: errors.Wrap(err, "failed to read response body")}
	}

	return &Response{StatusCode: resp.StatusCode, Body: asJSON(raw)}, nil
}

func (c *Client) observe(r *Request, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(r.Target, r.Method, status, elapsed)
	}
}

// asJSON keeps valid JSON bodies as-is and wraps anything else as a JSON string.
func asJSON(raw []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return quoted
}
