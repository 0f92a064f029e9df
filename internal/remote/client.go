package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mcoot/itpreg/internal/model"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 64 << 10

// maxTextMessage caps a plain-text error body, in bytes
const maxTextMessage = 200

// Response is the remote API's answer to a successful registration
type Response struct {
	Status  int
	Message string
}

// Error is a non-2xx answer from the remote API
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Unwrap lets callers match with errors.Is(err, model.ErrRemoteRejected)
func (e *Error) Unwrap() error {
	return model.ErrRemoteRejected
}

// messageBody is the JSON envelope the remote API answers with
type messageBody struct {
	Message string `json:"message"`
}

// Client posts registrations to the remote registration API
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given endpoint
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "remote")),
	}
}

// NewClientWithHTTP creates a client with an existing http.Client (for testing)
func NewClientWithHTTP(url string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "remote")),
	}
}

// Register sends one registration as JSON
// Exactly one attempt is made; any 2xx counts as success.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*Response, error) {
	data, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registration: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("registration request failed",
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("%w: %w", model.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %w", model.ErrRemoteUnavailable, err)
	}

	message := extractMessage(body)

	c.logger.Info("registration request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if message == "" {
			message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		}
		return nil, &Error{Status: resp.StatusCode, Message: message}
	}

	return &Response{Status: resp.StatusCode, Message: message}, nil
}

// extractMessage pulls the message field out of a JSON body
// Plain-text bodies are returned trimmed; anything else yields "".
func extractMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}

	var mb messageBody
	if err := json.Unmarshal(body, &mb); err == nil {
		return mb.Message
	}

	var syntaxErr *json.SyntaxError
	if errors.As(json.Unmarshal(body, &struct{}{}), &syntaxErr) {
		return truncate(strings.TrimSpace(string(body)), maxTextMessage)
	}
	return ""
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
