package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/store"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.fatal != "" {
		return m.viewFatal()
	}
	header := m.headerLine()
	if m.state.View.Type == store.ViewPortal {
		return m.viewPortal(header)
	}
	return m.viewList(header)
}

// viewFatal renders the last-resort surface shown when the update loop itself
// failed. The only ways out are a full reload or quitting.
func (m *Model) viewFatal() string {
	lines := []styledLine{
		{text: "The palette hit an unrecoverable error.", style: styles.Error},
		{text: fmt.Sprintf("Error: %s", m.fatal), style: styles.Description},
		{text: ""},
		{text: "r reload  q quit", style: styles.Footer},
	}
	return renderLines(applyWidth(lines, m.width))
}

func (m *Model) headerLine() string {
	return strings.Join(m.breadcrumb(m.state.View), headerSeparator)
}

// viewList renders the single-column list layout: breadcrumb header, the
// (possibly windowed) rows, optional info and footer, then the bottom bar.
func (m *Model) viewList(header string) string {
	lines := make([]styledLine, 0, 16)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Breadcrumb})
	}
	if len(m.rows) == 0 {
		msg := "(no commands)"
		if m.committedQuery != "" {
			msg = fmt.Sprintf("No matches for %q", m.committedQuery)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
	} else {
		for _, idx := range m.visibleRows() {
			lines = append(lines, m.buildRowLine(m.rows[idx]))
		}
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: "↑/↓ move  enter select  esc back  ctrl+c quit", style: styles.Footer})
	}
	// Reserve rows for the bottom bar (error/status + prompt).
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(lines) + "\n" + m.bottomBar()
}

// viewPortal renders the portal's surface in place of the list. The surface
// is opaque to the palette; it is clipped, never restyled.
func (m *Model) viewPortal(header string) string {
	lines := make([]styledLine, 0, 8)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Breadcrumb})
	}
	node, ok := command.FindByID(m.store.Tree(), m.state.View.PortalID)
	if ok && node.Render != nil {
		body := m.renderPortalBody(node)
		for _, line := range strings.Split(body, "\n") {
			lines = append(lines, styledLine{text: line, raw: true})
		}
	} else {
		lines = append(lines, styledLine{text: "(portal has no surface)", style: styles.Info})
	}
	if m.errMsg != "" && m.boundary.terminal(m.state.View.PortalID) {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.errMsg, style: styles.Error})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(lines) + "\n" + m.bottomBar()
}

// renderPortalBody calls the user-supplied render callback behind the
// failure boundary.
func (m *Model) renderPortalBody(node *command.Command) (body string) {
	defer func() {
		if r := recover(); r != nil {
			m.boundary.fail(node.ID)
			if m.boundary.terminal(node.ID) {
				m.errMsg = fmt.Sprintf("%s failed permanently", node.Name)
			}
			body = styles.Error.Render(fmt.Sprintf("%s failed: %v", node.Name, r))
		}
	}()
	pctx := command.PortalContext{
		OnClose: func() { m.closing = true },
		Store:   m.store,
	}
	return node.Render(m.state.View.Query, pctx)
}

// visibleRows returns the display-row indexes to render, windowed by the
// virtualization engine when it is active and the list exceeds the viewport.
func (m *Model) visibleRows() []int {
	viewport := m.listViewport()
	if !m.list.Enabled() || viewport <= 0 || m.list.TotalSize() <= viewport {
		all := make([]int, len(m.rows))
		for i := range all {
			all[i] = i
		}
		return all
	}
	return m.list.Window(m.scrollTop, viewport)
}

// listViewport is the number of terminal rows available to the list itself.
func (m *Model) listViewport() int {
	if m.height <= 0 {
		return 0
	}
	chrome := 3 // header + status + prompt
	if m.showFooter {
		chrome += 2
	}
	rows := m.height - chrome
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) buildRowLine(row displayRow) styledLine {
	switch row.kind {
	case rowHeader:
		return styledLine{text: row.label, style: styles.SectionHeader}
	case rowDivider:
		width := m.width
		if width <= 0 || width > 40 {
			width = 40
		}
		return styledLine{text: strings.Repeat("─", width), style: styles.Divider}
	}

	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if row.id == m.state.ActiveID {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	label := row.label
	if row.cmd != nil {
		if row.cmd.Icon != "" {
			label = row.cmd.Icon + " " + label
		}
		if row.cmd.Kind == command.KindCategory {
			label += " ›"
		}
		if row.cmd.Description != "" {
			label += "  " + row.cmd.Description
		}
	}
	fullText := indicator + " " + label
	if m.width > 0 {
		if pad := m.width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

func (m *Model) bottomBar() string {
	var statusLine styledLine
	if m.errMsg != "" {
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	} else if m.pendingID != "" {
		statusLine = styledLine{text: fmt.Sprintf("Running %s…", m.pendingLabel), style: styles.Info}
	}
	promptLine := styledLine{}
	if m.state.View.ShowSearchInput {
		promptLine = styledLine{text: m.filterPrompt(), raw: true}
	}
	bottomLines := applyWidth([]styledLine{statusLine, promptLine}, m.width)
	return renderLines(bottomLines)
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			w := lipgloss.Width(text)
			if w > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		result[i] = styledLine{
			text:          text,
			style:         line.style,
			prefixStyle:   line.prefixStyle,
			highlightFrom: line.highlightFrom,
			raw:           line.raw,
		}
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			// Text may already contain ANSI escapes; pass through as-is.
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
