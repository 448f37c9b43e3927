package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmd-palette/internal/store"
)

func TestViewShowsBreadcrumbAndRows(t *testing.T) {
	f := newFixture(t, store.Options{})
	view := f.harness.View()
	if !strings.Contains(view, "Commands") {
		t.Fatalf("expected root breadcrumb, got:\n%s", view)
	}
	if !strings.Contains(view, "Dev Tools") || !strings.Contains(view, "Calculator") {
		t.Fatalf("expected root commands listed, got:\n%s", view)
	}
	if !strings.Contains(view, "(type to search)") {
		t.Fatalf("expected filter placeholder, got:\n%s", view)
	}
}

func TestViewBreadcrumbInsideCategory(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Send(tea.KeyMsg{Type: tea.KeyEnter})
	view := f.harness.View()
	if !strings.Contains(view, "Commands → Dev Tools") {
		t.Fatalf("expected category breadcrumb, got:\n%s", view)
	}
	if !strings.Contains(view, "Open DevTools") {
		t.Fatalf("expected child commands, got:\n%s", view)
	}
}

func TestViewShowsNoMatchesMessage(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Type("zzzz")
	view := f.harness.View()
	if !strings.Contains(view, `No matches for "zzzz"`) {
		t.Fatalf("expected no-match message, got:\n%s", view)
	}
}

func TestViewShowsRecentSection(t *testing.T) {
	f := newFixture(t, store.Options{EnableRecentCommands: true})
	f.store.AddRecentCommand("devtools")
	f.harness.Send(tea.WindowSizeMsg{Width: 60, Height: 20})
	view := f.harness.View()
	if !strings.Contains(view, "Recent") {
		t.Fatalf("expected recent section header, got:\n%s", view)
	}
	if !strings.Contains(view, "Open DevTools") {
		t.Fatalf("expected recent command listed, got:\n%s", view)
	}
	if !strings.Contains(view, "─") {
		t.Fatalf("expected section divider, got:\n%s", view)
	}
}

func TestViewRendersPortalSurface(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.harness.Type("!calc ")
	view := f.harness.View()
	if !strings.Contains(view, "Type an expression") {
		t.Fatalf("expected portal placeholder, got:\n%s", view)
	}
	f.harness.Type("2+2")
	view = f.harness.View()
	if !strings.Contains(view, "= 2+2") {
		t.Fatalf("expected portal to see the live query, got:\n%s", view)
	}
}

func TestViewFooterToggle(t *testing.T) {
	f := newFixture(t, store.Options{})
	if strings.Contains(f.harness.View(), "enter select") {
		t.Fatal("expected footer hidden by default")
	}
	f.model.showFooter = true
	if !strings.Contains(f.harness.View(), "enter select") {
		t.Fatal("expected footer hint row when enabled")
	}
}

func TestViewHeightIsBounded(t *testing.T) {
	f := newFixture(t, store.Options{})
	f.model.height = 6
	view := f.harness.View()
	if got := len(strings.Split(view, "\n")); got > 6 {
		t.Fatalf("expected at most 6 lines, got %d:\n%s", got, view)
	}
}
