package keys

import (
	"context"
	"testing"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/store"
)

func inline(fn func()) { fn() }

func newFixture(loop bool, executed *[]string) (*store.Store, *Controller) {
	tree := []*command.Command{
		{ID: "a", Name: "Alpha", Kind: command.KindAction, Execute: func(context.Context) error {
			if executed != nil {
				*executed = append(*executed, "a")
			}
			return nil
		}},
		{ID: "b", Name: "Beta", Kind: command.KindAction},
		{ID: "c", Name: "Gamma", Kind: command.KindAction},
	}
	s := store.New(tree, store.Options{Loop: loop, Scheduler: inline})
	s.SetItems([]store.ItemRef{{ID: "a", Index: 0}, {ID: "b", Index: 1}, {ID: "c", Index: 2}})
	return s, New(s)
}

func clearSelection(s *store.Store) {
	s.SetState(func(st *store.State) { st.ActiveID = "" })
}

func TestMoveDownFromNoSelectionLandsOnFirst(t *testing.T) {
	s, c := newFixture(false, nil)
	clearSelection(s)
	c.MoveDown()
	st := s.GetState()
	if st.ActiveID != "a" {
		t.Fatalf("expected first row selected, got %q", st.ActiveID)
	}
	if !st.KeyboardNavigationActive {
		t.Fatal("expected keyboard navigation flag set")
	}
	if st.NavigationDirection != store.DirectionDown {
		t.Fatalf("expected down direction, got %q", st.NavigationDirection)
	}
	if st.ScrollTrigger != 1 {
		t.Fatalf("expected scroll trigger bumped, got %d", st.ScrollTrigger)
	}
}

func TestMoveUpFromNoSelection(t *testing.T) {
	s, c := newFixture(false, nil)
	clearSelection(s)
	c.MoveUp()
	if st := s.GetState(); st.ActiveID != "a" {
		t.Fatalf("expected first row without looping, got %q", st.ActiveID)
	}

	s, c = newFixture(true, nil)
	clearSelection(s)
	c.MoveUp()
	if st := s.GetState(); st.ActiveID != "c" {
		t.Fatalf("expected last row when looping, got %q", st.ActiveID)
	}
}

func TestMoveClampsAtEdgesWithoutLoop(t *testing.T) {
	s, c := newFixture(false, nil)
	before := s.GetState().ScrollTrigger
	c.MoveUp() // already at first row
	st := s.GetState()
	if st.ActiveID != "a" {
		t.Fatalf("expected selection pinned at first row, got %q", st.ActiveID)
	}
	if st.ScrollTrigger != before {
		t.Fatal("expected no scroll trigger for a no-op move")
	}

	c.MoveDown()
	c.MoveDown()
	c.MoveDown() // clamped at last row
	if st := s.GetState(); st.ActiveID != "c" {
		t.Fatalf("expected selection pinned at last row, got %q", st.ActiveID)
	}
}

func TestMoveWrapsWithLoop(t *testing.T) {
	s, c := newFixture(true, nil)
	c.MoveUp()
	if st := s.GetState(); st.ActiveID != "c" {
		t.Fatalf("expected wrap to last row, got %q", st.ActiveID)
	}
	c.MoveDown()
	if st := s.GetState(); st.ActiveID != "a" {
		t.Fatalf("expected wrap back to first row, got %q", st.ActiveID)
	}
}

func TestMoveOnEmptyListIsNoOp(t *testing.T) {
	s, c := newFixture(false, nil)
	s.SetItems(nil)
	c.MoveDown()
	st := s.GetState()
	if st.ActiveID != "" || st.KeyboardNavigationActive {
		t.Fatalf("expected untouched state, got %#v", st)
	}
}

func TestStaleSelectionRecoversToFirstRow(t *testing.T) {
	s, c := newFixture(false, nil)
	s.SetState(func(st *store.State) { st.ActiveID = "gone" })
	c.MoveDown()
	if st := s.GetState(); st.ActiveID != "a" {
		t.Fatalf("expected recovery to first row, got %q", st.ActiveID)
	}
}

func TestActivateSelectsHighlightedCommand(t *testing.T) {
	var executed []string
	s, c := newFixture(false, &executed)
	closed := false
	ok, err := c.Activate(context.Background(), func() { closed = true })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected activation with a selection")
	}
	if len(executed) != 1 || executed[0] != "a" {
		t.Fatalf("expected alpha executed, got %#v", executed)
	}
	if !closed {
		t.Fatal("expected onClose invoked")
	}

	clearSelection(s)
	ok, err = c.Activate(context.Background(), nil)
	if err != nil || ok {
		t.Fatalf("expected no-op without selection, got ok=%v err=%v", ok, err)
	}
}
