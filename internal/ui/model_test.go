package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/persist"
	"github.com/atomicstack/cmd-palette/internal/store"
	"github.com/atomicstack/cmd-palette/internal/vlist"
)

func inline(fn func()) { fn() }

type fixture struct {
	store    *store.Store
	model    *Model
	harness  *Harness
	executed *[]string
}

func newFixture(t *testing.T, opts store.Options) *fixture {
	t.Helper()
	executed := &[]string{}
	tree := []*command.Command{
		{
			ID:          "dev",
			Name:        "Dev Tools",
			Description: "Developer utilities",
			Kind:        command.KindCategory,
			Children: []*command.Command{
				{
					ID:       "devtools",
					Name:     "Open DevTools",
					Keywords: []string{"inspect"},
					Kind:     command.KindAction,
					Execute: func(context.Context) error {
						*executed = append(*executed, "devtools")
						return nil
					},
				},
				{
					ID:   "reload",
					Name: "Reload Page",
					Kind: command.KindAction,
					Execute: func(context.Context) error {
						*executed = append(*executed, "reload")
						return nil
					},
				},
			},
		},
		{
			ID:       "calculator",
			Name:     "Calculator",
			Kind:     command.KindPortal,
			Prefixes: []string{"!calc"},
			Render: func(query string, _ command.PortalContext) string {
				if query == "" {
					return "Type an expression"
				}
				return "= " + query
			},
		},
		{
			ID:   "flaky",
			Name: "Flaky Action",
			Kind: command.KindAction,
			Execute: func(context.Context) error {
				*executed = append(*executed, "flaky")
				return fmt.Errorf("boom")
			},
		},
	}
	opts.Scheduler = inline
	if opts.Persist == nil {
		opts.Persist = persist.NewMemory()
	}
	s := store.New(tree, opts)
	m := NewModel(Options{
		Store:  s,
		List:   vlist.New(vlist.Config{Enabled: true, ItemHeight: 1, Overscan: 1}),
		Width:  60,
		Height: 20,
	})
	// A blinking cursor schedules timed commands; keep the harness synchronous.
	m.filterCursor.SetMode(cursor.CursorStatic)
	t.Cleanup(m.Close)
	return &fixture{store: s, model: m, harness: NewHarness(m), executed: executed}
}

func (f *fixture) state() store.State {
	return f.store.GetState()
}

func TestInitialRowsListRootCommands(t *testing.T) {
	f := newFixture(t, store.Options{})
	st := f.state()
	if len(st.Items) != 3 {
		t.Fatalf("expected 3 navigable root items, got %d", len(st.Items))
	}
	if st.ActiveID != "dev" {
		t.Fatalf("expected first root command highlighted, got %q", st.ActiveID)
	}
}

func TestTypingRanksAndHighlightsResults(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Type("devt")
	st := f.state()
	if st.View.Query != "devt" {
		t.Fatalf("expected query recorded, got %q", st.View.Query)
	}
	if len(st.Items) == 0 {
		t.Fatal("expected ranked results")
	}
	if st.Items[0].ID != "devtools" {
		t.Fatalf("expected devtools ranked first, got %q", st.Items[0].ID)
	}
	if st.ActiveID != "devtools" {
		t.Fatalf("expected first result highlighted, got %q", st.ActiveID)
	}
}

func TestArrowKeysMoveSelection(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Send(tea.KeyMsg{Type: tea.KeyDown})
	st := f.state()
	if st.ActiveID != "calculator" {
		t.Fatalf("expected second row selected, got %q", st.ActiveID)
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyUp})
	if st := f.state(); st.ActiveID != "dev" {
		t.Fatalf("expected selection back on first row, got %q", st.ActiveID)
	}
	// Clamped at the top without looping.
	f.harness.Send(tea.KeyMsg{Type: tea.KeyUp})
	if st := f.state(); st.ActiveID != "dev" {
		t.Fatalf("expected selection pinned at first row, got %q", st.ActiveID)
	}
}

func TestEnterOnCategoryNavigatesIn(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter})
	st := f.state()
	if st.View.Type != store.ViewCategory || st.View.CategoryID != "dev" {
		t.Fatalf("expected dev category open, got %#v", st.View)
	}
	if len(st.Items) != 2 {
		t.Fatalf("expected 2 child items, got %d", len(st.Items))
	}
	if st.Items[0].ID != "devtools" {
		t.Fatalf("expected children in tree order, got %q", st.Items[0].ID)
	}
}

func TestEnterOnActionExecutesAndRecordsRecent(t *testing.T) {
	f := newFixture(t, store.Options{EnableRecentCommands: true})
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter}) // open Dev Tools
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter}) // run Open DevTools
	if len(*f.executed) != 1 || (*f.executed)[0] != "devtools" {
		t.Fatalf("expected devtools executed, got %#v", *f.executed)
	}
	st := f.state()
	if len(st.RecentCommands) != 1 || st.RecentCommands[0] != "devtools" {
		t.Fatalf("expected devtools as sole recent, got %#v", st.RecentCommands)
	}
}

func TestEscapeClearsQueryThenGoesBack(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter}) // open Dev Tools
	f.harness.Type("rel")
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEsc})
	st := f.state()
	if st.View.Query != "" {
		t.Fatalf("expected first escape to clear the query, got %q", st.View.Query)
	}
	if st.View.Type != store.ViewCategory {
		t.Fatalf("expected still inside the category, got %#v", st.View)
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEsc})
	if st := f.state(); st.View.Type != store.ViewRoot {
		t.Fatalf("expected second escape to go back, got %#v", st.View)
	}
}

func TestShortcutOpensPortalAndBackRestoresQuery(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Type("!calc ")
	st := f.state()
	if st.View.Type != store.ViewPortal || st.View.PortalID != "calculator" {
		t.Fatalf("expected calculator portal, got %#v", st.View)
	}
	if st.View.Query != "" {
		t.Fatalf("expected cleared query in portal, got %q", st.View.Query)
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEsc})
	st = f.state()
	if st.View.Type != store.ViewRoot {
		t.Fatalf("expected root view restored, got %#v", st.View)
	}
	if st.View.Query != "!calc " {
		t.Fatalf("expected triggering query preserved, got %q", st.View.Query)
	}
}

func TestQueryLineEditing(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Type("hello world")
	f.harness.Send(tea.KeyMsg{Type: tea.KeyCtrlW})
	if q := f.state().View.Query; q != "hello " {
		t.Fatalf("expected word deleted, got %q", q)
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyBackspace})
	if q := f.state().View.Query; q != "hello" {
		t.Fatalf("expected rune deleted, got %q", q)
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyCtrlA})
	if f.model.queryCursor != 0 {
		t.Fatalf("expected cursor at start, got %d", f.model.queryCursor)
	}
	f.harness.Type("say ")
	if q := f.state().View.Query; q != "say hello" {
		t.Fatalf("expected insertion at cursor, got %q", q)
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyCtrlE})
	if f.model.queryCursor != len("say hello") {
		t.Fatalf("expected cursor at end, got %d", f.model.queryCursor)
	}
	f.harness.Send(tea.KeyMsg{Type: tea.KeyCtrlU})
	if q := f.state().View.Query; q != "" {
		t.Fatalf("expected cleared query, got %q", q)
	}
}

func TestFailingActionTripsBoundary(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Type("flaky")
	for i := 0; i < maxCommandRetries; i++ {
		f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter})
	}
	if !f.model.boundary.terminal("flaky") {
		t.Fatal("expected boundary terminal after retry budget spent")
	}
	if f.model.errMsg == "" {
		t.Fatal("expected a visible error message")
	}
	// Further activations are locked out.
	before := len(*f.executed)
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter})
	if len(*f.executed) != before {
		t.Fatal("expected no further execution for a terminally failed command")
	}
}

func TestWindowSizeOnlyAdjustsUnfixedDimensions(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	if f.model.width != 60 || f.model.height != 20 {
		t.Fatalf("expected fixed size to stick, got %dx%d", f.model.width, f.model.height)
	}

	m := NewModel(Options{Store: f.store, List: vlist.New(vlist.Config{})})
	t.Cleanup(m.Close)
	h := NewHarness(m)
	h.Send(tea.WindowSizeMsg{Width: 100, Height: 40})
	if m.width != 100 || m.height != 40 {
		t.Fatalf("expected size adopted, got %dx%d", m.width, m.height)
	}
}

func TestHandlerPanicTripsGlobalBoundary(t *testing.T) {
	f := newFixture(t, store.Options{})
	m := f.model

	cmd := m.runHandler(func(tea.Msg) tea.Cmd { panic("update exploded") }, storeUpdateMsg{})
	if cmd != nil {
		t.Fatal("expected no command from a panicking handler")
	}
	if m.fatal == "" {
		t.Fatal("expected the panic to be recorded")
	}
	view := m.View()
	if !strings.Contains(view, "unrecoverable") || !strings.Contains(view, "update exploded") {
		t.Fatalf("expected fatal surface, got:\n%s", view)
	}

	// Normal keys are ignored while the fatal surface is up.
	f.harness.Send(tea.KeyMsg{Type: tea.KeyDown})
	if m.fatal == "" {
		t.Fatal("arrow key must not dismiss the fatal surface")
	}

	f.harness.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.fatal != "" {
		t.Fatal("expected reload to clear the fatal state")
	}
	st := f.state()
	if st.View.Type != store.ViewRoot || len(st.History) != 0 {
		t.Fatalf("expected a pristine root view after reload, got %+v", st.View)
	}
	if st.ActiveID != "dev" {
		t.Fatalf("expected selection restored to first root command, got %q", st.ActiveID)
	}
}
