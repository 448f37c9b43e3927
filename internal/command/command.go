package command

import "context"

// Kind discriminates the three command variants.
type Kind int

const (
	// KindAction commands run a side effect and close the palette.
	KindAction Kind = iota
	// KindPortal commands open an interactive surface inside the palette.
	KindPortal
	// KindCategory commands navigate into a list of child commands.
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindPortal:
		return "portal"
	case KindCategory:
		return "category"
	}
	return "unknown"
}

// PortalContext carries the collaborators a portal render callback may use.
// The store accessor is intentionally opaque: the core never inspects what a
// portal does with it.
type PortalContext struct {
	OnClose func()
	Store   interface{}
}

// Command is a node in the command tree. The Kind field selects which of the
// variant fields are meaningful; shared fields apply to every variant.
type Command struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Keywords    []string

	Kind Kind

	// Prefixes lists shortcut tokens for actions and portals.
	Prefixes []string

	// Execute runs an action. It may block; callers await it before
	// closing the palette.
	Execute func(ctx context.Context) error

	// Render produces a portal's display surface for the current query.
	Render func(query string, pctx PortalContext) string

	// ShowSearchInput controls whether the portal view keeps the search
	// field. Nil means the default (shown).
	ShowSearchInput *bool

	// Children holds a category's ordered sub-commands.
	Children []*Command
}

// ShowsSearchInput resolves the portal search-input preference, defaulting to
// true when unset.
func (c *Command) ShowsSearchInput() bool {
	if c.ShowSearchInput == nil {
		return true
	}
	return *c.ShowSearchInput
}

// SearchTerms returns every string a ranking algorithm should match against:
// the name, the keywords, and (for actions and portals) the prefixes.
func (c *Command) SearchTerms() []string {
	terms := make([]string, 0, 1+len(c.Keywords)+len(c.Prefixes))
	if c.Name != "" {
		terms = append(terms, c.Name)
	}
	terms = append(terms, c.Keywords...)
	if c.Kind == KindAction || c.Kind == KindPortal {
		terms = append(terms, c.Prefixes...)
	}
	return terms
}

// Bool is a convenience for populating ShowSearchInput literals.
func Bool(v bool) *bool {
	return &v
}
