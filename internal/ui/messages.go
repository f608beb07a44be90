package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ellerys/spyglass/internal/api"
	"github.com/ellerys/spyglass/internal/config"
	"github.com/ellerys/spyglass/internal/transcript"
	"github.com/ellerys/spyglass/internal/watcher"
)

const fetchTimeout = 10 * time.Second

// tickMsg triggers a periodic session-list refresh.
type tickMsg time.Time

// sessionsMsg contains the fetched session list.
type sessionsMsg struct {
	sessions []transcript.Session
	err      error
}

// messagesMsg contains a fetched transcript.
type messagesMsg struct {
	sessionID string
	msgs      []transcript.Message
	err       error
}

// streamMsg carries one live event; ok is false once the stream closed.
// stream identifies the subscription it came from, so messages from a
// torn-down stream can be dropped.
type streamMsg struct {
	sessionID string
	ev        api.Event
	ok        bool
	stream    *api.Stream
}

// openSessionMsg requests that a session be opened by id, used to jump
// straight into a session at startup.
type openSessionMsg struct {
	sessionID string
}

// configMsg contains settings reloaded after an on-disk change.
type configMsg struct {
	cfg config.Config
	err error
}

func loadSessions(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		sessions, err := client.ListSessions(ctx)
		return sessionsMsg{sessions: sessions, err: err}
	}
}

func loadMessages(client *api.Client, sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		msgs, err := client.Messages(ctx, sessionID)
		return messagesMsg{sessionID: sessionID, msgs: msgs, err: err}
	}
}

// waitStream blocks on the next live event. Update re-issues it after
// handling each message, diffium-style.
func waitStream(sessionID string, stream *api.Stream) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-stream.Events
		return streamMsg{sessionID: sessionID, ev: ev, ok: ok, stream: stream}
	}
}

// waitConfig blocks until the settings file changes, then reloads it.
func waitConfig(w *watcher.Watcher, path string) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes; !ok {
			return nil
		}
		cfg, err := config.Load(path)
		return configMsg{cfg: cfg, err: err}
	}
}

func tick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg { return tickMsg(t) })
}
