package ui

import (
	"context"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/atomicstack/cmd-palette/internal/logging/events"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

// handleTextInput routes a key press to the query line. It reports false for
// keys the query line does not own, leaving them to the navigation bindings.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	st := m.store.GetState()
	if !st.View.ShowSearchInput {
		return false, nil
	}
	query := []rune(st.View.Query)
	pos := clampCursor(m.queryCursor, len(query))

	switch msg.String() {
	case "ctrl+u":
		if len(query) == 0 {
			return false, nil
		}
		events.Query.Cleared()
		return true, m.applyQueryEdit(nil, 0)
	case "ctrl+w":
		next, npos, changed := deleteWordBackward(query, pos)
		if !changed {
			return false, nil
		}
		return true, m.applyQueryEdit(next, npos)
	case "ctrl+a":
		return m.moveQueryCursor(0, pos)
	case "ctrl+e":
		return m.moveQueryCursor(len(query), pos)
	case "alt+b":
		return m.moveQueryCursor(wordStart(query, pos), pos)
	case "alt+f":
		return m.moveQueryCursor(wordEnd(query, pos), pos)
	}

	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		if pos == 0 {
			return false, nil
		}
		next := append(append([]rune(nil), query[:pos-1]...), query[pos:]...)
		return true, m.applyQueryEdit(next, pos-1)
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false, nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false, nil
			}
		}
		return true, m.insertQueryText(query, pos, msg.Runes)
	case tea.KeySpace:
		return true, m.insertQueryText(query, pos, []rune{' '})
	case tea.KeyLeft:
		return m.moveQueryCursor(pos-1, pos)
	case tea.KeyRight:
		return m.moveQueryCursor(pos+1, pos)
	}
	return false, nil
}

func (m *Model) insertQueryText(query []rune, pos int, text []rune) tea.Cmd {
	next := make([]rune, 0, len(query)+len(text))
	next = append(next, query[:pos]...)
	next = append(next, text...)
	next = append(next, query[pos:]...)
	return m.applyQueryEdit(next, pos+len(text))
}

func (m *Model) moveQueryCursor(to, from int) (bool, tea.Cmd) {
	query := []rune(m.store.GetState().View.Query)
	to = clampCursor(to, len(query))
	if to == from {
		return false, nil
	}
	m.queryCursor = to
	m.filterCursorDirty = true
	return true, nil
}

// applyQueryEdit pushes a new query into the store, runs the shortcut
// detector on the fresh value, and schedules the debounced re-rank.
func (m *Model) applyQueryEdit(query []rune, pos int) tea.Cmd {
	text := string(query)
	m.queryCursor = clampCursor(pos, len(query))
	m.filterCursorDirty = true
	m.errMsg = ""
	m.forceClearInfo()
	m.store.SetQuery(text)
	events.Query.Changed(text)

	m.detector.Observe(context.Background(), text, func() { m.closing = true })
	if m.closing {
		return nil
	}
	// The shortcut may have navigated away; the committed query for the
	// new view is handled by sync.
	if viewKey(m.store.GetState().View) != m.rankerKey {
		return nil
	}

	if m.debounce <= 0 {
		return m.commitQueryNow()
	}
	m.rankSeq++
	seq := m.rankSeq
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return rankTickMsg{seq: seq}
	})
}

// commitQueryNow re-ranks immediately, bypassing the debounce.
func (m *Model) commitQueryNow() tea.Cmd {
	m.rankSeq++
	st := m.store.GetState()
	m.committedQuery = st.View.Query
	m.refreshRows(st)
	m.resetSelection()
	return nil
}

func clampCursor(pos, max int) int {
	if pos < 0 {
		return 0
	}
	if pos > max {
		return max
	}
	return pos
}

// deleteWordBackward removes the word immediately before the cursor along
// with the whitespace separating it from the cursor.
func deleteWordBackward(query []rune, pos int) ([]rune, int, bool) {
	if pos == 0 {
		return query, pos, false
	}
	start := pos
	for start > 0 && unicode.IsSpace(query[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(query[start-1]) {
		start--
	}
	next := append(append([]rune(nil), query[:start]...), query[pos:]...)
	return next, start, true
}

func wordStart(query []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(query[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(query[pos-1]) {
		pos--
	}
	return pos
}

func wordEnd(query []rune, pos int) int {
	for pos < len(query) && unicode.IsSpace(query[pos]) {
		pos++
	}
	for pos < len(query) && !unicode.IsSpace(query[pos]) {
		pos++
	}
	return pos
}

func (m *Model) filterPrompt() string {
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := m.state.View.Query
	if text == "" {
		placeholder := "(type to search)"
		runes := []rune(placeholder)
		caretRune := string(runes[0])
		rest := string(runes[1:])
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(caretRune)
		return prompt + caret + render(styles.FilterPlaceholder, rest)
	}
	runes := []rune(text)
	pos := clampCursor(m.queryCursor, len(runes))
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	if pos < len(runes) {
		caretRune = string(runes[pos])
	}
	caret := m.renderFilterCursor(caretRune)
	after := ""
	if pos < len(runes) {
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + caret + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
