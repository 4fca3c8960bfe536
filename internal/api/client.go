package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/idilsaglam/todo-remote/internal/model"
)

// TokenSource supplies the credential attached to outgoing requests.
// *session.Store satisfies it.
type TokenSource interface {
	Get() model.Session
}

// Client is the single point of outbound HTTP. One request, one response:
// no retries, no timeout beyond the transport's own.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource

	// onUnauthorized, when set, runs after any 401 response. Whether a 401
	// should force a client-side logout is a policy choice, so it is
	// injected rather than hardwired.
	onUnauthorized func()

	logRequests bool
}

type Option func(*Client)

func WithUnauthorizedHook(f func()) Option {
	return func(c *Client) { c.onUnauthorized = f }
}

func WithRequestLogging(on bool) Option {
	return func(c *Client) { c.logRequests = on }
}

func NewClient(base string, timeout time.Duration, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Attach the bearer credential when one exists; without a token the
	// request still goes out and the server decides authorization.
	if sess := c.tokens.Get(); sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	requestID := uuid.NewString()
	start := time.Now()
	if c.logRequests {
		logJSON("HTTP_REQUEST", requestLog{
			Timestamp: start.Format(logTimeLayout),
			Method:    method,
			URL:       req.URL.String(),
			RequestID: requestID,
		})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if c.logRequests {
			logJSON("HTTP_RESPONSE", responseLog{
				Timestamp:  time.Now().Format(logTimeLayout),
				RequestID:  requestID,
				DurationMs: time.Since(start).Milliseconds(),
				Error:      err.Error(),
			})
		}
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if c.logRequests {
		logJSON("HTTP_RESPONSE", responseLog{
			Timestamp:  time.Now().Format(logTimeLayout),
			StatusCode: resp.StatusCode,
			RequestID:  requestID,
			DurationMs: time.Since(start).Milliseconds(),
		})
	}

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ApiError{Status: resp.StatusCode, Message: serverMessage(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

const logTimeLayout = "2006-01-02 15:04:05.000"

// Request/response log records, one JSON line each. The Authorization
// header is never logged.
type requestLog struct {
	Timestamp string `json:"timestamp"`
	Method    string `json:"method"`
	URL       string `json:"url"`
	RequestID string `json:"request_id"`
}

type responseLog struct {
	Timestamp  string `json:"timestamp"`
	StatusCode int    `json:"status_code,omitempty"`
	RequestID  string `json:"request_id"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func logJSON(prefix string, v any) {
	if b, err := json.Marshal(v); err == nil {
		log.Printf("%s: %s", prefix, b)
	}
}
