package api

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Event is one server-sent event from the session stream.
type Event struct {
	Type string // "message", "session_updated", ...
	ID   string
	Data string
}

// Stream is a live subscription to one session's events. Events closes
// when the context is cancelled; until then the stream reconnects on
// any error, resuming from the last seen event id.
type Stream struct {
	Events <-chan Event
}

// Subscribe opens an SSE subscription for the session and keeps it
// alive until ctx is done.
func (c *Client) Subscribe(ctx context.Context, sessionID string) *Stream {
	events := make(chan Event, 16)
	go c.streamLoop(ctx, sessionID, events)
	return &Stream{Events: events}
}

func (c *Client) streamLoop(ctx context.Context, sessionID string, events chan<- Event) {
	defer close(events)

	backoff := initialBackoff
	lastID := ""

	for {
		// Reconnect regardless of the failure mode.
		id, _ := c.readStream(ctx, sessionID, lastID, events, func() { backoff = initialBackoff })
		if id != "" {
			lastID = id
		}
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// readStream consumes one connection until it errors or ctx is done.
// It returns the last event id seen, for resumption.
func (c *Client) readStream(ctx context.Context, sessionID, lastID string, events chan<- Event, onEvent func()) (string, error) {
	path := c.baseURL + "/api/sessions/" + url.PathEscape(sessionID) + "/events"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return lastID, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Client-ID", c.clientID)
	if lastID != "" {
		req.Header.Set("Last-Event-ID", lastID)
	}

	// The streaming request must not use the fetch client's timeout.
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return lastID, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return lastID, fmt.Errorf("stream: %s", resp.Status)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var ev Event
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				ev.Data = strings.Join(data, "\n")
				if ev.Type == "" {
					ev.Type = "message"
				}
				onEvent()
				select {
				case events <- ev:
				case <-ctx.Done():
					return lastID, ctx.Err()
				}
				if ev.ID != "" {
					lastID = ev.ID
				}
			}
			ev = Event{}
			data = data[:0]
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, "event:"):
			ev.Type = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "id:"):
			ev.ID = strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		case strings.HasPrefix(line, ":"):
			// comment/keepalive
		}
	}
	if err := scanner.Err(); err != nil {
		return lastID, err
	}
	return lastID, fmt.Errorf("stream: server closed connection")
}
