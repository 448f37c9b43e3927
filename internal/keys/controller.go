// Package keys moves the active selection through the store's item list in
// response to arrow keys, and activates the selected command.
package keys

import (
	"context"

	"github.com/atomicstack/cmd-palette/internal/logging/events"
	"github.com/atomicstack/cmd-palette/internal/store"
)

// Controller translates navigation keys into store updates.
type Controller struct {
	store *store.Store
}

// New creates a controller over the given store.
func New(s *store.Store) *Controller {
	return &Controller{store: s}
}

// MoveDown advances the selection toward the end of the list.
func (c *Controller) MoveDown() {
	c.move(store.DirectionDown)
}

// MoveUp advances the selection toward the start of the list.
func (c *Controller) MoveUp() {
	c.move(store.DirectionUp)
}

func (c *Controller) move(dir store.Direction) {
	st := c.store.GetState()
	if len(st.Items) == 0 {
		return
	}
	cur := indexOf(st.Items, st.ActiveID)
	next := nextIndex(cur, len(st.Items), dir, st.Loop)
	if next == cur {
		return
	}
	id := st.Items[next].ID
	c.store.SetState(func(s *store.State) {
		s.ActiveID = id
		s.KeyboardNavigationActive = true
		s.NavigationDirection = dir
		s.ScrollTrigger++
	})
	events.UI.Cursor(id, next)
}

// Activate selects the currently highlighted command. It reports false when
// nothing is highlighted.
func (c *Controller) Activate(ctx context.Context, onClose func()) (bool, error) {
	st := c.store.GetState()
	if st.ActiveID == "" {
		return false, nil
	}
	return true, c.store.SelectCommand(ctx, st.ActiveID, onClose)
}

// nextIndex computes the selection after one step. With no current selection,
// down lands on the first row; up lands on the last row when looping and on
// the first row otherwise. At a list edge the selection wraps when looping
// and stays put when not.
func nextIndex(cur, n int, dir store.Direction, loop bool) int {
	if cur < 0 {
		if dir == store.DirectionDown {
			return 0
		}
		if loop {
			return n - 1
		}
		return 0
	}
	step := 1
	if dir == store.DirectionUp {
		step = -1
	}
	next := cur + step
	if loop {
		return ((next % n) + n) % n
	}
	if next < 0 {
		return 0
	}
	if next > n-1 {
		return n - 1
	}
	return next
}

func indexOf(items []store.ItemRef, id string) int {
	if id == "" {
		return -1
	}
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
