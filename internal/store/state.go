package store

import (
	"reflect"

	"github.com/atomicstack/cmd-palette/internal/search"
)

// ViewType discriminates what the palette is currently showing.
type ViewType string

const (
	ViewRoot     ViewType = "root"
	ViewCategory ViewType = "category"
	ViewPortal   ViewType = "portal"
)

// ViewState identifies one palette view. Exactly one of PortalID/CategoryID
// is set when Type is non-root.
type ViewState struct {
	Type            ViewType
	PortalID        string
	CategoryID      string
	Query           string
	ShowSearchInput bool
}

// RootView is the palette's initial view.
func RootView() ViewState {
	return ViewState{Type: ViewRoot, ShowSearchInput: true}
}

// ItemRef names one row of the currently navigable set.
type ItemRef struct {
	ID    string
	Index int
}

// Direction records which way the keyboard selection last moved.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// State is one immutable snapshot of everything the palette knows.
type State struct {
	View           ViewState
	History        []ViewState
	ActiveID       string
	RecentCommands []string
	Items          []ItemRef

	Loop          bool
	SearchLibrary search.Algorithm
	MaxResults    int

	// Transient flags consumed by collaborators.
	LastNavigationWasBack    bool
	KeyboardNavigationActive bool
	ScrollTrigger            int
	NavigationDirection      Direction
}

func (s State) clone() State {
	dup := s
	dup.History = append([]ViewState(nil), s.History...)
	dup.RecentCommands = append([]string(nil), s.RecentCommands...)
	dup.Items = append([]ItemRef(nil), s.Items...)
	return dup
}

func (s State) equal(other State) bool {
	return reflect.DeepEqual(s, other)
}
