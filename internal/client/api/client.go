// Package api implements the HTTP client for the Postboard REST backend.
//
// Every failed request is logged, handed to the Reporter exactly once and
// then returned as *Error, so callers only use the error to stop their own
// follow-up work.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reporter displays an error payload to the user.
type Reporter interface {
	ShowError(payload string)
}

// Error is the single error shape produced by the client. Payload is either
// the compact JSON error body returned by the server, a {"detail": ...}
// object built from the status text, or a plain transport message.
type Error struct {
	// Status is the HTTP status code, 0 for transport failures.
	Status int
	// Payload is what the Reporter was shown.
	Payload string
}

func (e *Error) Error() string {
	return e.Payload
}

// Client performs JSON requests against BaseURL.
type Client struct {
	// BaseURL is prepended to every endpoint.
	BaseURL string
	// HTTP executes the requests.
	HTTP *http.Client
	// Token returns the current auth token, "" when logged out.
	Token func() string
	// Reporter is notified of every failure.
	Reporter Reporter
	// Log records failures with request metadata.
	Log *zap.Logger
}

// NewClient creates a Client with no token source; set Token once the
// session owner exists.
func NewClient(baseURL string, httpClient *http.Client, reporter Reporter, log *zap.Logger) *Client {
	return &Client{
		BaseURL:  baseURL,
		HTTP:     httpClient,
		Token:    func() string { return "" },
		Reporter: reporter,
		Log:      log,
	}
}

// Do sends body (when non-nil) as JSON to BaseURL+endpoint and decodes a 2xx
// response into out (when non-nil). A 204 leaves out untouched.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	url := c.BaseURL + endpoint
	reqID := uuid.NewString()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return c.fail(method, url, reqID, &Error{Payload: fmt.Sprintf("encode request: %v", err)})
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rdr)
	if err != nil {
		return c.fail(method, url, reqID, &Error{Payload: fmt.Sprintf("build request: %v", err)})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return c.fail(method, url, reqID, &Error{Payload: fmt.Sprintf("request failed: %v", err)})
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return c.fail(method, url, reqID, &Error{
			Status:  resp.StatusCode,
			Payload: errorPayload(resp, data),
		})
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(method, url, reqID, &Error{
			Status:  resp.StatusCode,
			Payload: fmt.Sprintf("invalid response: %v", err),
		})
	}
	if v, ok := out.(validator); ok {
		if err := v.Validate(); err != nil {
			return c.fail(method, url, reqID, &Error{
				Status:  resp.StatusCode,
				Payload: fmt.Sprintf("invalid response: %v", err),
			})
		}
	}
	return nil
}

// validator is implemented by response bodies that can be decoded but still
// be unusable.
type validator interface {
	Validate() error
}

func (c *Client) fail(method, url, reqID string, e *Error) error {
	c.Log.Error("api request error",
		zap.String("method", method),
		zap.String("url", url),
		zap.String("request_id", reqID),
		zap.Int("status", e.Status),
		zap.String("payload", e.Payload),
	)
	if c.Reporter != nil {
		c.Reporter.ShowError(e.Payload)
	}
	return e
}

// errorPayload keeps a JSON error body as is (compacted) and otherwise falls
// back to {"detail": "<status text>"}.
func errorPayload(resp *http.Response, data []byte) string {
	if json.Valid(data) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err == nil {
			return buf.String()
		}
	}
	b, _ := json.Marshal(map[string]string{"detail": statusText(resp)})
	return string(b)
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
