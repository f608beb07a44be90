// Package api is the HTTP client for the agent-session server: session
// and message fetches plus an SSE subscription for live updates.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ellerys/spyglass/internal/transcript"
)

const defaultTimeout = 15 * time.Second

// Client talks to one session server.
type Client struct {
	baseURL  string
	http     *http.Client
	clientID string // sent on every request so the server can track observers
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		clientID: uuid.NewString(),
	}
}

// BaseURL returns the server base URL the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListSessions fetches the session list, most recent first.
func (c *Client) ListSessions(ctx context.Context) ([]transcript.Session, error) {
	var sessions []transcript.Session
	if err := c.getJSON(ctx, "/api/sessions", &sessions); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// Messages fetches the full transcript for one session.
func (c *Client) Messages(ctx context.Context, sessionID string) ([]transcript.Message, error) {
	var msgs []transcript.Message
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/messages"
	if err := c.getJSON(ctx, path, &msgs); err != nil {
		return nil, fmt.Errorf("messages for %s: %w", sessionID, err)
	}
	return msgs, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-ID", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
