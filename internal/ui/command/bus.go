// Package command runs palette command invocations off the update loop and
// reports their outcome back as Bubble Tea messages.
package command

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmd-palette/internal/logging/events"
	"github.com/atomicstack/cmd-palette/internal/store"
)

// Request encapsulates a command invocation.
type Request struct {
	ID    string
	Label string
}

// Result reports the outcome of an invocation. Closed is set when the
// command's variant closes the palette on success.
type Result struct {
	ID     string
	Label  string
	Closed bool
	Err    error
}

// Bus coordinates command execution against the store.
type Bus struct {
	store *store.Store
}

// New initialises a command bus over the given store.
func New(s *store.Store) *Bus {
	return &Bus{store: s}
}

// Execute wraps a command selection into a Bubble Tea command while emitting
// trace logs. The returned message is always a Result.
func (b *Bus) Execute(ctx context.Context, req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		closed := false
		err := b.store.SelectCommand(ctx, req.ID, func() { closed = true })
		events.Command.Result(req.ID, req.Label, err)
		return Result{ID: req.ID, Label: req.Label, Closed: closed, Err: err}
	}
}
