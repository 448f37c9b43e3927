// Package store owns the palette's mutable state. Every other component reads
// snapshots via GetState and mutates only through the store's operations;
// change notification is coalesced so a burst of updates within one event
// yields a single subscriber pass.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/logging"
	"github.com/atomicstack/cmd-palette/internal/logging/events"
	"github.com/atomicstack/cmd-palette/internal/persist"
	"github.com/atomicstack/cmd-palette/internal/search"
)

const (
	recentLimit = 10

	keyRecentCommands = "recent-commands"
	keySearchLibrary  = "search-library"
)

// Options configures a Store at construction.
type Options struct {
	EnableRecentCommands bool
	Loop                 bool
	SearchLibrary        search.Algorithm
	MaxResults           int
	Persist              persist.Saver

	// Scheduler runs the coalesced notification flush. The default runs
	// it on its own goroutine; tests may run it inline.
	Scheduler func(func())
}

type subscriber struct {
	fn           func(State)
	mountedAt    time.Time
	lastNotified time.Time
}

// Store is the palette's single source of truth.
type Store struct {
	mu             sync.Mutex
	state          State
	tree           []*command.Command
	subscribers    map[int]*subscriber
	nextSubID      int
	flushScheduled bool

	schedule     func(func())
	save         persist.Saver
	enableRecent bool
}

// New creates a Store over an immutable command tree. The tree is indexed,
// never mutated.
func New(tree []*command.Command, opts Options) *Store {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}
	library := opts.SearchLibrary
	if library == "" {
		library = search.AlgorithmLexical
	}
	schedule := opts.Scheduler
	if schedule == nil {
		schedule = func(fn func()) { go fn() }
	}
	return &Store{
		state: State{
			View:          RootView(),
			Loop:          opts.Loop,
			SearchLibrary: library,
			MaxResults:    maxResults,
		},
		tree:         tree,
		subscribers:  make(map[int]*subscriber),
		schedule:     schedule,
		save:         opts.Persist,
		enableRecent: opts.EnableRecentCommands,
	}
}

// Tree returns the command tree the store was built over.
func (s *Store) Tree() []*command.Command {
	return s.tree
}

// GetState returns an immutable snapshot of the current state.
func (s *Store) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetState applies the mutator to a copy of the current state and swaps it
// in. Updates that leave the state unchanged neither swap nor notify.
func (s *Store) SetState(mutate func(*State)) {
	s.mu.Lock()
	next := s.state.clone()
	mutate(&next)
	if next.equal(s.state) {
		s.mu.Unlock()
		return
	}
	s.state = next
	shouldSchedule := !s.flushScheduled
	if shouldSchedule {
		s.flushScheduled = true
	}
	s.mu.Unlock()
	if shouldSchedule {
		s.schedule(s.flush)
	}
}

// Subscribe registers a callback for coalesced state notifications and
// returns its unsubscribe function. A callback that panics is dropped from
// future notifications; the remaining subscribers are unaffected.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = &subscriber{fn: fn, mountedAt: time.Now()}
	s.mu.Unlock()
	return func() { s.unsubscribe(id) }
}

// SubscriberCount reports how many subscribers are registered.
func (s *Store) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
}

func (s *Store) flush() {
	s.mu.Lock()
	s.flushScheduled = false
	snapshot := s.state.clone()
	ids := make([]int, 0, len(s.subscribers))
	subs := make([]*subscriber, 0, len(s.subscribers))
	for id, sub := range s.subscribers {
		ids = append(ids, id)
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for i, sub := range subs {
		s.notify(ids[i], sub, snapshot)
	}
}

func (s *Store) notify(id int, sub *subscriber, snapshot State) {
	defer func() {
		if r := recover(); r != nil {
			s.unsubscribe(id)
			events.Store.SubscriberDropped(id, fmt.Sprint(r))
			logging.Error(fmt.Errorf("store subscriber %d panicked: %v", id, r))
		}
	}()
	sub.fn(snapshot)
	s.mu.Lock()
	sub.lastNotified = time.Now()
	s.mu.Unlock()
}

// Navigate pushes the current view onto the history stack and replaces it.
func (s *Store) Navigate(view ViewState) {
	s.SetState(func(st *State) {
		st.History = append(st.History, st.View)
		st.View = view
		st.LastNavigationWasBack = false
		st.ActiveID = ""
	})
	events.Store.Navigate(string(view.Type), view.CategoryID+view.PortalID)
}

// GoBack pops the previous view off the history stack. It reports false when
// there is nothing to go back to. The one-shot back flag it sets is consumed
// by the shortcut detector.
func (s *Store) GoBack() bool {
	ok := false
	s.SetState(func(st *State) {
		if len(st.History) == 0 {
			return
		}
		st.View = st.History[len(st.History)-1]
		st.History = st.History[:len(st.History)-1]
		st.LastNavigationWasBack = true
		st.ActiveID = ""
		ok = true
	})
	if ok {
		st := s.GetState()
		events.Store.Back(string(st.View.Type), len(st.History))
	}
	return ok
}

// ConsumeBackFlag atomically reads and clears the one-shot back flag.
func (s *Store) ConsumeBackFlag() bool {
	consumed := false
	s.SetState(func(st *State) {
		if st.LastNavigationWasBack {
			st.LastNavigationWasBack = false
			consumed = true
		}
	})
	return consumed
}

// SetQuery replaces the current view's query string.
func (s *Store) SetQuery(query string) {
	s.SetState(func(st *State) {
		st.View.Query = query
	})
}

// SetItems replaces the navigable item set, keeping the active selection when
// it survives the change and falling back to the first row otherwise.
func (s *Store) SetItems(refs []ItemRef) {
	s.SetState(func(st *State) {
		st.Items = refs
		if len(refs) == 0 {
			st.ActiveID = ""
			return
		}
		for _, ref := range refs {
			if ref.ID == st.ActiveID {
				return
			}
		}
		st.ActiveID = refs[0].ID
	})
}

// SelectCommand resolves the command by id and dispatches on its variant:
// actions execute (awaited) and close, categories and portals navigate with a
// cleared query. An unresolvable id is a stale reference and a silent no-op.
func (s *Store) SelectCommand(ctx context.Context, id string, onClose func()) error {
	cmd, ok := command.FindByID(s.tree, id)
	if !ok {
		events.Store.SelectMissing(id)
		return nil
	}
	events.Store.Select(id)
	switch cmd.Kind {
	case command.KindAction:
		// Only executed actions count as recently used; navigating into a
		// category or portal is not a completed command.
		if s.enableRecent {
			s.AddRecentCommand(id)
		}
		if cmd.Execute != nil {
			if err := runExecute(ctx, cmd.Execute); err != nil {
				return err
			}
		}
		if onClose != nil {
			onClose()
		}
	case command.KindCategory:
		s.Navigate(ViewState{
			Type:            ViewCategory,
			CategoryID:      id,
			ShowSearchInput: true,
		})
	case command.KindPortal:
		s.Navigate(ViewState{
			Type:            ViewPortal,
			PortalID:        id,
			ShowSearchInput: cmd.ShowsSearchInput(),
		})
	}
	return nil
}

// AddRecentCommand records id as the most recently used command: moved to the
// front, deduplicated, truncated to the recent limit, and persisted without
// blocking the caller.
func (s *Store) AddRecentCommand(id string) {
	if id == "" {
		return
	}
	var snapshot []string
	s.SetState(func(st *State) {
		st.RecentCommands = pushRecent(st.RecentCommands, id)
		snapshot = st.RecentCommands
	})
	events.Store.Recent(snapshot)
	if s.save != nil {
		recents := append([]string(nil), snapshot...)
		go s.save.Set(keyRecentCommands, recents)
	}
}

// SetSearchLibrary switches the ranking algorithm and persists the choice.
func (s *Store) SetSearchLibrary(library search.Algorithm) {
	s.SetState(func(st *State) {
		st.SearchLibrary = library
	})
	if s.save != nil {
		go s.save.Set(keySearchLibrary, string(library))
	}
}

// Init loads persisted preferences. Failures leave the in-memory defaults in
// place; the palette never surfaces them.
func (s *Store) Init() {
	if s.save == nil {
		return
	}
	var library string
	if s.save.Get(keySearchLibrary, &library) && library != "" {
		s.SetState(func(st *State) {
			st.SearchLibrary = search.ParseAlgorithm(library)
		})
	}
	var recents []string
	if s.save.Get(keyRecentCommands, &recents) {
		s.SetState(func(st *State) {
			st.RecentCommands = sanitizeRecents(recents, s.tree)
		})
	}
}

// Destroy clears all subscribers and resets the in-memory state. Idempotent.
func (s *Store) Destroy() {
	s.mu.Lock()
	s.subscribers = make(map[int]*subscriber)
	s.state = State{
		View:          RootView(),
		Loop:          s.state.Loop,
		SearchLibrary: s.state.SearchLibrary,
		MaxResults:    s.state.MaxResults,
	}
	s.mu.Unlock()
	events.Store.Destroyed()
}

func pushRecent(recents []string, id string) []string {
	out := make([]string, 0, recentLimit)
	out = append(out, id)
	for _, existing := range recents {
		if existing == id {
			continue
		}
		out = append(out, existing)
		if len(out) == recentLimit {
			break
		}
	}
	return out
}

// sanitizeRecents dedupes and caps persisted recents and drops ids that no
// longer resolve in the tree.
func sanitizeRecents(recents []string, tree []*command.Command) []string {
	seen := make(map[string]struct{}, len(recents))
	out := make([]string, 0, recentLimit)
	for _, id := range recents {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		if _, ok := command.FindByID(tree, id); !ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == recentLimit {
			break
		}
	}
	return out
}

// runExecute isolates user-supplied action callbacks so a panicking command
// surfaces as an error instead of crashing the update loop.
func runExecute(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	return fn(ctx)
}
