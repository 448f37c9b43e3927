// Package app bootstraps the palette: it assembles the persistence layer,
// the store, and the UI model, then runs the Bubble Tea program.
package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/persist"
	"github.com/atomicstack/cmd-palette/internal/search"
	"github.com/atomicstack/cmd-palette/internal/store"
	"github.com/atomicstack/cmd-palette/internal/ui"
	"github.com/atomicstack/cmd-palette/internal/vlist"
)

// Config describes user-provided application options.
type Config struct {
	DataDir       string
	Width         int
	Height        int
	ShowFooter    bool
	Verbose       bool
	Loop          bool
	EnableRecents bool
	SearchLibrary string
	MaxResults    int
	MinScore      float64
	DebounceMs    int

	Virtualization bool
	ItemHeight     int
	Overscan       int
	DynamicSizing  bool
}

// Run bootstraps and executes the Bubble Tea program over the built-in
// command tree.
func Run(cfg Config) error {
	return RunTree(cfg, DefaultTree())
}

// RunTree is Run with an explicit command tree; tests and embedders supply
// their own. The store is torn down when the program exits.
func RunTree(cfg Config, tree []*command.Command) error {
	s, model := buildPalette(cfg, tree)
	defer teardown(model, s)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// NewModel wires the store, search, and UI stack for the given tree without
// starting a program.
func NewModel(cfg Config, tree []*command.Command) *ui.Model {
	_, model := buildPalette(cfg, tree)
	return model
}

func buildPalette(cfg Config, tree []*command.Command) (*store.Store, *ui.Model) {
	saver := newSaver(cfg.DataDir)
	s := store.New(tree, store.Options{
		EnableRecentCommands: cfg.EnableRecents,
		Loop:                 cfg.Loop,
		SearchLibrary:        search.ParseAlgorithm(cfg.SearchLibrary),
		MaxResults:           cfg.MaxResults,
		Persist:              saver,
	})
	s.Init()

	engine := vlist.New(vlist.Config{
		Enabled:       cfg.Virtualization,
		ItemHeight:    cfg.ItemHeight,
		Overscan:      cfg.Overscan,
		DynamicSizing: cfg.DynamicSizing,
	})

	model := ui.NewModel(ui.Options{
		Store:      s,
		Rank:       search.Options{MinScore: cfg.MinScore},
		List:       engine,
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Debounce:   time.Duration(cfg.DebounceMs) * time.Millisecond,
	})
	return s, model
}

// teardown releases the UI's store subscription and resets the store itself.
func teardown(model *ui.Model, s *store.Store) {
	model.Close()
	s.Destroy()
}

func newSaver(dataDir string) persist.Saver {
	if dataDir == "" {
		return persist.NewMemory()
	}
	return persist.OpenDisk(dataDir)
}
