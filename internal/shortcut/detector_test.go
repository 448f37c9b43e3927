package shortcut

import (
	"context"
	"testing"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/store"
)

func inline(fn func()) { fn() }

func newFixture(t *testing.T) (*store.Store, *Detector, *int) {
	t.Helper()
	executions := 0
	tree := []*command.Command{
		{
			ID:   "dev",
			Name: "Dev Tools",
			Kind: command.KindCategory,
			Children: []*command.Command{
				{
					ID:       "devtools",
					Name:     "Open DevTools",
					Kind:     command.KindAction,
					Prefixes: []string{"devtools"},
					Execute: func(context.Context) error {
						executions++
						return nil
					},
				},
			},
		},
		{
			ID:       "calculator",
			Name:     "Calculator",
			Kind:     command.KindPortal,
			Prefixes: []string{"!calc", "calc"},
			Render:   func(string, command.PortalContext) string { return "" },
		},
	}
	s := store.New(tree, store.Options{Scheduler: inline})
	return s, New(s), &executions
}

func TestTriggerPrefixRequiresSingleTrailingSpace(t *testing.T) {
	cases := []struct {
		query string
		want  string
		ok    bool
	}{
		{"!calc ", "!calc", true},
		{"!calc", "", false},
		{"!calc  ", "", false},
		{" ", "", false},
		{"", "", false},
		{"devtools ", "devtools", true},
	}
	for _, tc := range cases {
		got, ok := triggerPrefix(tc.query)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("triggerPrefix(%q) = %q, %v; want %q, %v", tc.query, got, ok, tc.want, tc.ok)
		}
	}
}

func TestObserveOpensPortalOnPrefix(t *testing.T) {
	s, d, _ := newFixture(t)
	d.Observe(context.Background(), "!calc ", nil)
	st := s.GetState()
	if st.View.Type != store.ViewPortal || st.View.PortalID != "calculator" {
		t.Fatalf("expected calculator portal open, got %#v", st.View)
	}
}

func TestObserveExecutesActionOnPrefix(t *testing.T) {
	_, d, executions := newFixture(t)
	closed := false
	d.Observe(context.Background(), "devtools ", func() { closed = true })
	if *executions != 1 {
		t.Fatalf("expected action executed once, got %d", *executions)
	}
	if !closed {
		t.Fatal("expected onClose forwarded to the action")
	}
}

func TestObserveIgnoresUnknownPrefix(t *testing.T) {
	s, d, _ := newFixture(t)
	d.Observe(context.Background(), "!nope ", nil)
	if st := s.GetState(); st.View.Type != store.ViewRoot {
		t.Fatalf("expected root view untouched, got %#v", st.View)
	}
}

func TestObserveSkipsDuplicateQuery(t *testing.T) {
	s, d, _ := newFixture(t)
	d.Observe(context.Background(), "!calc ", nil)
	if !s.GoBack() {
		t.Fatal("expected portal on the history stack")
	}
	// The back flag suppresses the restored query once.
	d.Observe(context.Background(), "!calc ", nil)
	if st := s.GetState(); st.View.Type != store.ViewRoot {
		t.Fatalf("expected shortcut suppressed after back, got %#v", st.View)
	}
	// And the duplicate guard keeps suppressing the same query.
	d.Observe(context.Background(), "!calc ", nil)
	if st := s.GetState(); st.View.Type != store.ViewRoot {
		t.Fatalf("expected duplicate query ignored, got %#v", st.View)
	}
}

func TestObserveRefiresAfterQueryChanges(t *testing.T) {
	s, d, _ := newFixture(t)
	d.Observe(context.Background(), "!calc ", nil)
	s.GoBack()
	d.Observe(context.Background(), "!calc ", nil) // swallowed by back flag
	d.Observe(context.Background(), "!cal", nil)
	d.Observe(context.Background(), "!calc ", nil)
	if st := s.GetState(); st.View.Type != store.ViewPortal {
		t.Fatalf("expected shortcut to fire again after edit, got %#v", st.View)
	}
}

func TestResetClearsDuplicateGuard(t *testing.T) {
	s, d, _ := newFixture(t)
	d.Observe(context.Background(), "!calc ", nil)
	s.GoBack()
	d.Observe(context.Background(), "!calc ", nil)
	d.Reset()
	d.Observe(context.Background(), "!calc ", nil)
	if st := s.GetState(); st.View.Type != store.ViewPortal {
		t.Fatalf("expected shortcut to fire after reset, got %#v", st.View)
	}
}
