package ui

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmd-palette/internal/keys"
	"github.com/atomicstack/cmd-palette/internal/logging"
	"github.com/atomicstack/cmd-palette/internal/logging/events"
	"github.com/atomicstack/cmd-palette/internal/search"
	"github.com/atomicstack/cmd-palette/internal/shortcut"
	"github.com/atomicstack/cmd-palette/internal/store"
	"github.com/atomicstack/cmd-palette/internal/theme"
	uicmd "github.com/atomicstack/cmd-palette/internal/ui/command"
	"github.com/atomicstack/cmd-palette/internal/vlist"
)

const (
	headerSeparator  = " → "
	defaultRootTitle = "Commands"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// rankTickMsg commits a debounced query for ranking. Stale ticks carry an old
// sequence number and are dropped.
type rankTickMsg struct {
	seq int
}

// storeUpdateMsg wakes the update loop after an out-of-band store change.
type storeUpdateMsg struct{}

// Options configures a UI model.
type Options struct {
	Store      *store.Store
	Rank       search.Options
	List       *vlist.Engine
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Debounce   time.Duration
}

// Model implements the Bubble Tea model for the command palette.
type Model struct {
	store     *store.Store
	bus       *uicmd.Bus
	list      *vlist.Engine
	estimator *vlist.Estimator
	detector  *shortcut.Detector
	keys      *keys.Controller
	boundary  *boundary

	state          store.State
	rows           []displayRow
	ranker         *search.Ranker
	rankerKey      string
	rankOpts       search.Options
	committedQuery string

	queryCursor int
	rankSeq     int
	debounce    time.Duration

	scrollTop         int
	lastScrollTrigger int

	pendingID    string
	pendingLabel string
	errMsg       string
	infoMsg      string
	infoExpire   time.Time

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	closing     bool
	fatal       string

	filterCursor      cursor.Model
	filterCursorDirty bool

	updates     chan struct{}
	unsubscribe func()

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI over an already-constructed store.
func NewModel(opts Options) *Model {
	list := opts.List
	if list == nil {
		list = vlist.New(vlist.Config{})
	}
	m := &Model{
		store:      opts.Store,
		bus:        uicmd.New(opts.Store),
		list:       list,
		estimator:  vlist.NewEstimator(vlist.DefaultItemHeight),
		detector:   shortcut.New(opts.Store),
		keys:       keys.New(opts.Store),
		boundary:   newBoundary(),
		rankOpts:   opts.Rank,
		debounce:   opts.Debounce,
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		updates:    make(chan struct{}, 1),
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c

	m.list.SetEstimator(func(row vlist.Row, index int) int {
		if index < 0 || index >= len(m.rows) {
			return 0
		}
		return m.estimator.Estimate(m.rows[index].content(), row.Height, index)
	})
	m.unsubscribe = m.store.Subscribe(func(store.State) {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	m.registerHandlers()
	m.sync()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStoreUpdate(m.updates)}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.fatal != "" {
		return m, m.handleFatalKey(msg)
	}
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := m.runHandler(handler, msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if m.fatal != "" {
		return m, nil
	}
	return m, m.finishUpdate(cmds)
}

// runHandler traps panics escaping a message handler. A panic here would take
// down the whole program, so it is surfaced as a fatal view offering a reload.
func (m *Model) runHandler(handler msgHandler, msg tea.Msg) (cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.fatal = fmt.Sprint(r)
			logging.Error(fmt.Errorf("update handler panicked: %v", r))
			cmd = nil
		}
	}()
	return handler(msg)
}

func (m *Model) handleFatalKey(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "ctrl+c", "q", "esc":
		return tea.Quit
	case "r":
		m.reload()
	}
	return nil
}

// reload rebuilds the palette after a fatal failure: history, query,
// selection, and failure counters are discarded; recents and prefs survive.
func (m *Model) reload() {
	m.store.SetState(func(st *store.State) {
		st.View = store.RootView()
		st.History = nil
		st.ActiveID = ""
		st.Items = nil
		st.LastNavigationWasBack = false
		st.KeyboardNavigationActive = false
		st.NavigationDirection = store.DirectionNone
		st.ScrollTrigger = 0
	})
	m.boundary = newBoundary()
	m.detector.Reset()
	m.fatal = ""
	m.errMsg = ""
	m.forceClearInfo()
	m.pendingID = ""
	m.pendingLabel = ""
	m.rankerKey = ""
	m.lastScrollTrigger = 0
	m.sync()
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(rankTickMsg{}):       m.handleRankTickMsg,
		reflect.TypeOf(storeUpdateMsg{}):    m.handleStoreUpdateMsg,
		reflect.TypeOf(uicmd.Result{}):      m.handleCommandResultMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.sync()
	if m.closing {
		m.closing = false
		cmds = append(cmds, tea.Quit)
	}
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// sync pulls a fresh store snapshot and reconciles the derived UI state: the
// per-view ranker, the display rows, and the scroll offset.
func (m *Model) sync() {
	st := m.store.GetState()
	key := viewKey(st.View)
	if key != m.rankerKey {
		m.rebuildRanker(st, key)
		m.committedQuery = st.View.Query
		m.queryCursor = len([]rune(st.View.Query))
		m.scrollTop = 0
		m.refreshRows(st)
	} else if m.rowsStale(st) {
		m.refreshRows(st)
	}
	if st.ScrollTrigger != m.lastScrollTrigger {
		m.lastScrollTrigger = st.ScrollTrigger
		m.scrollToActive(st)
	}
	m.state = st
}

// rowsStale reports whether the current display rows no longer reflect the
// store, ignoring the live (uncommitted) query.
func (m *Model) rowsStale(st store.State) bool {
	prev := m.state
	return !reflect.DeepEqual(prev.RecentCommands, st.RecentCommands) ||
		prev.SearchLibrary != st.SearchLibrary ||
		prev.MaxResults != st.MaxResults
}

func (m *Model) rebuildRanker(st store.State, key string) {
	m.rankerKey = key
	m.ranker = search.New(m.rankableItems(st.View), m.rankOpts)
	if st.SearchLibrary == search.AlgorithmFuzzy {
		m.ranker.WarmIndex()
	}
}

func viewKey(view store.ViewState) string {
	switch view.Type {
	case store.ViewCategory:
		return "category:" + view.CategoryID
	case store.ViewPortal:
		return "portal:" + view.PortalID
	default:
		return "root"
	}
}

func (m *Model) scrollToActive(st store.State) {
	idx, ok := m.displayIndexOf(st.ActiveID)
	if !ok {
		return
	}
	viewport := m.listViewport()
	if viewport <= 0 {
		return
	}
	m.scrollTop = m.list.ScrollToIndex(idx, vlist.AlignAuto, m.scrollTop, viewport)
}

func (m *Model) handleStoreUpdateMsg(tea.Msg) tea.Cmd {
	// State itself is re-read in sync; just re-arm the wakeup.
	return waitForStoreUpdate(m.updates)
}

func (m *Model) handleRankTickMsg(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(rankTickMsg)
	if !ok || tick.seq != m.rankSeq {
		return nil
	}
	st := m.store.GetState()
	m.committedQuery = st.View.Query
	m.refreshRows(st)
	m.resetSelection()
	return nil
}

// resetSelection moves the highlight to the first result after a re-rank.
func (m *Model) resetSelection() {
	st := m.store.GetState()
	if len(st.Items) == 0 || st.ActiveID == st.Items[0].ID {
		return
	}
	first := st.Items[0].ID
	m.store.SetState(func(s *store.State) { s.ActiveID = first })
}

func (m *Model) handleCommandResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(uicmd.Result)
	if !ok {
		return nil
	}
	m.pendingID = ""
	m.pendingLabel = ""
	if result.Err != nil {
		m.boundary.fail(result.ID)
		m.forceClearInfo()
		if m.boundary.terminal(result.ID) {
			m.errMsg = fmt.Sprintf("%s failed: %v (given up)", result.Label, result.Err)
		} else {
			m.errMsg = fmt.Sprintf("%s failed: %v (%d retries left)", result.Label, result.Err, m.boundary.remaining(result.ID))
		}
		return nil
	}
	m.boundary.reset(result.ID)
	m.errMsg = ""
	if result.Closed {
		if m.verbose && result.Label != "" {
			m.setInfo(fmt.Sprintf("Ran %s", result.Label))
		}
		return tea.Quit
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	return nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up":
		m.keys.MoveUp()
	case "down":
		m.keys.MoveDown()
	}
	return nil
}

// handleEscapeKey clears the query first, then walks back through history,
// and quits only from a pristine root view.
func (m *Model) handleEscapeKey() tea.Cmd {
	st := m.store.GetState()
	if st.View.Query != "" {
		m.store.SetQuery("")
		m.queryCursor = 0
		m.filterCursorDirty = true
		events.Query.Cleared()
		return m.commitQueryNow()
	}
	if m.store.GoBack() {
		m.errMsg = ""
		m.forceClearInfo()
		return nil
	}
	return tea.Quit
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.pendingID != "" {
		return nil
	}
	st := m.store.GetState()
	if st.ActiveID == "" {
		return nil
	}
	if m.boundary.terminal(st.ActiveID) {
		m.errMsg = fmt.Sprintf("%s is disabled after repeated failures", m.labelFor(st.ActiveID))
		return nil
	}
	label := m.labelFor(st.ActiveID)
	events.UI.Enter(string(st.View.Type), st.ActiveID, st.View.Query)
	m.pendingID = st.ActiveID
	m.pendingLabel = label
	m.errMsg = ""
	m.forceClearInfo()
	return m.bus.Execute(context.Background(), uicmd.Request{ID: st.ActiveID, Label: label})
}

func (m *Model) setInfo(info string) {
	m.infoMsg = info
	m.infoExpire = time.Now().Add(3 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg == "" {
		return ""
	}
	if !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

// Close releases the model's store subscription.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func waitForStoreUpdate(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-updates
		return storeUpdateMsg{}
	}
}
