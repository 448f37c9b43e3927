package ui

import (
	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/store"
	"github.com/atomicstack/cmd-palette/internal/vlist"
)

type rowKind int

const (
	rowCommand rowKind = iota
	rowHeader
	rowDivider
)

// displayRow is one rendered line group in the palette list. Header and
// divider rows are pure presentation; only command rows are navigable.
type displayRow struct {
	kind   rowKind
	id     string
	label  string
	cmd    *command.Command
	recent bool
}

func (r displayRow) content() vlist.Content {
	c := vlist.Content{ID: r.id, Recent: r.recent}
	switch r.kind {
	case rowHeader:
		c.Header = true
	case rowDivider:
		c.Divider = true
	default:
		if r.cmd != nil {
			c.Description = r.cmd.Description
		}
	}
	return c
}

// rankableItems returns the item set the current view ranks over: the whole
// flattened tree at root, the flattened subtree inside a category.
func (m *Model) rankableItems(view store.ViewState) []*command.Command {
	tree := m.store.Tree()
	switch view.Type {
	case store.ViewCategory:
		if node, ok := command.FindByID(tree, view.CategoryID); ok {
			return command.Flatten(node.Children)
		}
		return nil
	case store.ViewPortal:
		return nil
	default:
		return command.Flatten(tree)
	}
}

// refreshRows recomputes the display rows for the given snapshot and pushes
// the navigable subset into the store.
func (m *Model) refreshRows(st store.State) {
	var rows []displayRow
	switch st.View.Type {
	case store.ViewPortal:
		rows = nil
	case store.ViewCategory:
		rows = m.categoryRows(st)
	default:
		rows = m.rootRows(st)
	}
	m.rows = rows

	listRows := make([]vlist.Row, len(rows))
	refs := make([]store.ItemRef, 0, len(rows))
	for i, row := range rows {
		listRows[i] = vlist.Row{ID: row.id}
		if row.kind == rowCommand {
			refs = append(refs, store.ItemRef{ID: row.id, Index: i})
		}
	}
	m.list.SetRows(listRows)
	m.store.SetItems(refs)
	m.clampScrollTop()
}

func (m *Model) rootRows(st store.State) []displayRow {
	tree := m.store.Tree()
	if m.committedQuery != "" {
		return commandRows(m.ranker.Rank(m.committedQuery, st.SearchLibrary, st.MaxResults))
	}

	rows := make([]displayRow, 0, len(tree)+len(st.RecentCommands)+3)
	inRecents := make(map[string]bool, len(st.RecentCommands))
	recent := make([]displayRow, 0, len(st.RecentCommands))
	for _, id := range st.RecentCommands {
		cmd, ok := command.FindByID(tree, id)
		if !ok {
			continue
		}
		inRecents[id] = true
		recent = append(recent, displayRow{kind: rowCommand, id: cmd.ID, label: cmd.Name, cmd: cmd, recent: true})
	}
	if len(recent) > 0 {
		rows = append(rows, displayRow{kind: rowHeader, id: "header:recent", label: "Recent"})
		rows = append(rows, recent...)
		rows = append(rows, displayRow{kind: rowDivider, id: "divider:recent"})
		rows = append(rows, displayRow{kind: rowHeader, id: "header:commands", label: defaultRootTitle})
	}
	for _, cmd := range tree {
		if inRecents[cmd.ID] {
			continue
		}
		rows = append(rows, displayRow{kind: rowCommand, id: cmd.ID, label: cmd.Name, cmd: cmd})
	}
	return rows
}

func (m *Model) categoryRows(st store.State) []displayRow {
	node, ok := command.FindByID(m.store.Tree(), st.View.CategoryID)
	if !ok {
		return nil
	}
	if m.committedQuery != "" {
		return commandRows(m.ranker.Rank(m.committedQuery, st.SearchLibrary, st.MaxResults))
	}
	return commandRows(node.Children)
}

func commandRows(cmds []*command.Command) []displayRow {
	rows := make([]displayRow, 0, len(cmds))
	for _, cmd := range cmds {
		rows = append(rows, displayRow{kind: rowCommand, id: cmd.ID, label: cmd.Name, cmd: cmd})
	}
	return rows
}

func (m *Model) displayIndexOf(id string) (int, bool) {
	if id == "" {
		return 0, false
	}
	for i, row := range m.rows {
		if row.kind == rowCommand && row.id == id {
			return i, true
		}
	}
	return 0, false
}

func (m *Model) labelFor(id string) string {
	if cmd, ok := command.FindByID(m.store.Tree(), id); ok {
		return cmd.Name
	}
	return id
}

func (m *Model) clampScrollTop() {
	viewport := m.listViewport()
	if viewport <= 0 {
		m.scrollTop = 0
		return
	}
	max := m.list.TotalSize() - viewport
	if max < 0 {
		max = 0
	}
	if m.scrollTop > max {
		m.scrollTop = max
	}
	if m.scrollTop < 0 {
		m.scrollTop = 0
	}
}

// breadcrumb returns the header segments for the current view: the root
// title, then the names of the categories on the path to the open node.
func (m *Model) breadcrumb(view store.ViewState) []string {
	segments := []string{defaultRootTitle}
	var target string
	switch view.Type {
	case store.ViewCategory:
		target = view.CategoryID
	case store.ViewPortal:
		target = view.PortalID
	default:
		return segments
	}
	path, ok := pathTo(m.store.Tree(), target)
	if !ok {
		return segments
	}
	for _, node := range path {
		segments = append(segments, node.Name)
	}
	return segments
}

// pathTo returns the nodes from a root to the target id, inclusive.
func pathTo(tree []*command.Command, id string) ([]*command.Command, bool) {
	type frame struct {
		node *command.Command
		path []*command.Command
	}
	stack := make([]frame, 0, len(tree))
	for i := len(tree) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: tree[i]})
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		path := append(append([]*command.Command(nil), top.path...), top.node)
		if top.node.ID == id {
			return path, true
		}
		for i := len(top.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: top.node.Children[i], path: path})
		}
	}
	return nil, false
}
