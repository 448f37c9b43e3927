package command

import (
	"fmt"
	"testing"
)

func demoTree() []*Command {
	return []*Command{
		{
			ID:   "dev",
			Name: "Dev Tools",
			Kind: KindCategory,
			Children: []*Command{
				{ID: "devtools", Name: "Open DevTools", Kind: KindAction},
				{ID: "console", Name: "Toggle Console", Kind: KindAction},
			},
		},
		{ID: "calculator", Name: "Calculator", Kind: KindPortal, Prefixes: []string{"!calc"}},
		{ID: "quit", Name: "Quit", Kind: KindAction},
	}
}

func TestFlattenPreOrder(t *testing.T) {
	flat := Flatten(demoTree())
	want := []string{"dev", "devtools", "console", "calculator", "quit"}
	if len(flat) != len(want) {
		t.Fatalf("expected %d nodes, got %d", len(want), len(flat))
	}
	for i, id := range want {
		if flat[i].ID != id {
			t.Fatalf("expected %q at position %d, got %q", id, i, flat[i].ID)
		}
	}
}

func TestFlattenIsPure(t *testing.T) {
	tree := demoTree()
	first := Flatten(tree)
	second := Flatten(tree)
	if len(first) != len(second) {
		t.Fatalf("expected identical output lengths, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("expected identical node at %d", i)
		}
	}
}

func TestFindByIDMatchesFlattenOrder(t *testing.T) {
	tree := demoTree()
	for _, node := range Flatten(tree) {
		found, ok := FindByID(tree, node.ID)
		if !ok {
			t.Fatalf("expected to find %q", node.ID)
		}
		if found != node {
			t.Fatalf("expected FindByID(%q) to return the flattened node", node.ID)
		}
	}
}

func TestFindByIDMissing(t *testing.T) {
	if _, ok := FindByID(demoTree(), "nope"); ok {
		t.Fatal("expected miss for unknown id")
	}
	if _, ok := FindByID(demoTree(), ""); ok {
		t.Fatal("expected miss for empty id")
	}
	if _, ok := FindByID(nil, "devtools"); ok {
		t.Fatal("expected miss on empty tree")
	}
}

func TestFindByPrefix(t *testing.T) {
	tree := demoTree()
	cmd, ok := FindByPrefix(tree, "!calc")
	if !ok || cmd.ID != "calculator" {
		t.Fatalf("expected calculator for !calc, got %#v ok=%v", cmd, ok)
	}
	if _, ok := FindByPrefix(tree, "!nope"); ok {
		t.Fatal("expected miss for unknown prefix")
	}
	if _, ok := FindByPrefix(tree, ""); ok {
		t.Fatal("expected miss for empty token")
	}
}

func TestFindByPrefixIgnoresCategories(t *testing.T) {
	tree := []*Command{
		{ID: "cat", Name: "Cat", Kind: KindCategory, Prefixes: []string{"!x"}},
		{ID: "act", Name: "Act", Kind: KindAction, Prefixes: []string{"!x"}},
	}
	cmd, ok := FindByPrefix(tree, "!x")
	if !ok || cmd.ID != "act" {
		t.Fatalf("expected the action to win, got %#v ok=%v", cmd, ok)
	}
}

func TestFlattenDeepTree(t *testing.T) {
	depth := 100000
	leaf := &Command{ID: "leaf", Name: "Leaf", Kind: KindAction}
	node := leaf
	for i := 0; i < depth; i++ {
		node = &Command{
			ID:       fmt.Sprintf("n%d", i),
			Name:     "Node",
			Kind:     KindCategory,
			Children: []*Command{node},
		}
	}
	tree := []*Command{node}
	flat := Flatten(tree)
	if len(flat) != depth+1 {
		t.Fatalf("expected %d nodes, got %d", depth+1, len(flat))
	}
	found, ok := FindByID(tree, "leaf")
	if !ok || found != leaf {
		t.Fatal("expected to find the deep leaf")
	}
}

func TestSearchTerms(t *testing.T) {
	cmd := &Command{
		ID:       "calculator",
		Name:     "Calculator",
		Keywords: []string{"math", "sum"},
		Prefixes: []string{"!calc"},
		Kind:     KindPortal,
	}
	terms := cmd.SearchTerms()
	want := []string{"Calculator", "math", "sum", "!calc"}
	if len(terms) != len(want) {
		t.Fatalf("expected %d terms, got %#v", len(want), terms)
	}
	for i, term := range want {
		if terms[i] != term {
			t.Fatalf("expected term %q at %d, got %q", term, i, terms[i])
		}
	}

	cat := &Command{ID: "c", Name: "C", Prefixes: []string{"!c"}, Kind: KindCategory}
	for _, term := range cat.SearchTerms() {
		if term == "!c" {
			t.Fatal("expected category prefixes to be excluded from search terms")
		}
	}
}

func TestShowsSearchInputDefault(t *testing.T) {
	portal := &Command{ID: "p", Kind: KindPortal}
	if !portal.ShowsSearchInput() {
		t.Fatal("expected default to show the search input")
	}
	portal.ShowSearchInput = Bool(false)
	if portal.ShowsSearchInput() {
		t.Fatal("expected explicit false to hide the search input")
	}
}
