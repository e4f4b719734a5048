package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"orderbot/internal/models"

	"github.com/google/uuid"
)

const chatPath = "/api/chat"

var ErrEmptyReply = errors.New("chat service returned an empty reply")

// StatusError is returned when the chat service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat service returned status %d: %s", e.StatusCode, e.Body)
}

// Client handles requests to the chat/recommendation service
type Client struct {
	httpClient *http.Client
	BaseURL    string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the transport. The default client sets no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for the service rooted at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chat posts the message and the full menu and decodes the reply.
func (c *Client) Chat(ctx context.Context, req Request) (*Response, error) {
	if req.Menu == nil {
		req.Menu = []models.MenuItem{}
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+chatPath, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var reply Response
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}

	return &reply, nil
}
