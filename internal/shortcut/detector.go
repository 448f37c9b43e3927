// Package shortcut watches the query line for prefix triggers. A shortcut
// fires when the query is exactly a registered prefix followed by a single
// trailing space, opening the owning command without a click.
package shortcut

import (
	"context"
	"strings"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/logging/events"
	"github.com/atomicstack/cmd-palette/internal/store"
)

// Detector holds the per-session duplicate guard. One detector lives for the
// lifetime of a palette session.
type Detector struct {
	store         *store.Store
	lastProcessed string
	started       bool
}

// New creates a detector bound to the store whose queries it watches.
func New(s *store.Store) *Detector {
	return &Detector{store: s}
}

// Observe inspects a query edit and fires the matching prefix shortcut, if
// any. The query that re-appears after a back navigation is suppressed so the
// shortcut does not immediately re-trigger, and each distinct query fires at
// most once. onClose is forwarded to the store when a shortcut selects an
// action.
func (d *Detector) Observe(ctx context.Context, query string, onClose func()) {
	// A back navigation restores the query that triggered the shortcut;
	// consume the flag and swallow that one edit.
	if d.store.ConsumeBackFlag() {
		d.lastProcessed = query
		d.started = true
		return
	}
	if d.started && query == d.lastProcessed {
		return
	}
	d.lastProcessed = query
	d.started = true

	prefix, ok := triggerPrefix(query)
	if !ok {
		return
	}
	cmd, found := command.FindByPrefix(d.store.Tree(), prefix)
	if !found {
		events.Shortcut.Miss(prefix)
		return
	}
	events.Shortcut.Trigger(prefix, cmd.ID)
	_ = d.store.SelectCommand(ctx, cmd.ID, onClose)
}

// Reset clears the duplicate guard, e.g. when the palette reopens.
func (d *Detector) Reset() {
	d.lastProcessed = ""
	d.started = false
}

// triggerPrefix reports the candidate prefix when the query is a non-empty
// token followed by exactly one trailing space.
func triggerPrefix(query string) (string, bool) {
	if !strings.HasSuffix(query, " ") || strings.HasSuffix(query, "  ") {
		return "", false
	}
	trimmed := strings.TrimSuffix(query, " ")
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}
