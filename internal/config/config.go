package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/cmd-palette/internal/app"
	"github.com/atomicstack/cmd-palette/internal/search"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envDataDir       = "CMD_PALETTE_DATA_DIR"
	envWidth         = "CMD_PALETTE_WIDTH"
	envHeight        = "CMD_PALETTE_HEIGHT"
	envShowFooter    = "CMD_PALETTE_FOOTER"
	envLoop          = "CMD_PALETTE_LOOP"
	envRecents       = "CMD_PALETTE_RECENTS"
	envSearchLibrary = "CMD_PALETTE_SEARCH_LIBRARY"
	envMaxResults    = "CMD_PALETTE_MAX_RESULTS"
	envMinScore      = "CMD_PALETTE_MIN_SCORE"
	envDebounceMs    = "CMD_PALETTE_DEBOUNCE_MS"
	envVirtualize    = "CMD_PALETTE_VIRTUALIZATION"
	envItemHeight    = "CMD_PALETTE_ITEM_HEIGHT"
	envOverscan      = "CMD_PALETTE_OVERSCAN"
	envDynamicSizing = "CMD_PALETTE_DYNAMIC_SIZING"
	envVerbose       = "CMD_PALETTE_VERBOSE"
	envTrace         = "CMD_PALETTE_TRACE"
	envLogFile       = "CMD_PALETTE_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("cmd-palette", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	dataDir := fs.String("data-dir", envOrDefault(env, envDataDir, ""), "directory for persisted state (empty keeps state in memory)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	loop := fs.Bool("loop", envOrBool(env, envLoop, false), "wrap keyboard selection at the list edges")
	recents := fs.Bool("recents", envOrBool(env, envRecents, true), "track and show recently used commands")
	library := fs.String("search-library", envOrDefault(env, envSearchLibrary, string(search.AlgorithmLexical)), "search ranking algorithm (lexical or fuzzy)")
	maxResults := fs.Int("max-results", envOrInt(env, envMaxResults, 50), "maximum number of ranked results")
	minScore := fs.Float64("min-score", envOrFloat(env, envMinScore, search.DefaultMinScore), "minimum relevance score for a match to be listed")
	debounceMs := fs.Int("debounce-ms", envOrInt(env, envDebounceMs, 80), "query re-rank debounce in milliseconds (0 disables)")
	virtualize := fs.Bool("virtualization", envOrBool(env, envVirtualize, true), "window long lists instead of rendering every row")
	itemHeight := fs.Int("item-height", envOrInt(env, envItemHeight, 1), "default row height in lines")
	overscan := fs.Int("overscan", envOrInt(env, envOverscan, 4), "extra rows rendered beyond the viewport")
	dynamicSizing := fs.Bool("dynamic-sizing", envOrBool(env, envDynamicSizing, false), "let rendered row heights override estimates")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *maxResults <= 0 {
		return Config{}, fmt.Errorf("max-results must be > 0 (got %d)", *maxResults)
	}
	if *minScore < 0 || *minScore > 1 {
		return Config{}, fmt.Errorf("min-score must be within [0, 1] (got %g)", *minScore)
	}
	if *debounceMs < 0 {
		return Config{}, fmt.Errorf("debounce-ms must be >= 0 (got %d)", *debounceMs)
	}
	if *itemHeight <= 0 {
		return Config{}, fmt.Errorf("item-height must be > 0 (got %d)", *itemHeight)
	}
	if *overscan < 0 {
		return Config{}, fmt.Errorf("overscan must be >= 0 (got %d)", *overscan)
	}
	switch search.Algorithm(strings.ToLower(strings.TrimSpace(*library))) {
	case search.AlgorithmLexical, search.AlgorithmFuzzy:
	default:
		return Config{}, fmt.Errorf("unknown search library %q", *library)
	}

	cfg := Config{
		App: app.Config{
			DataDir:        *dataDir,
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
			Verbose:        *verbose,
			Loop:           *loop,
			EnableRecents:  *recents,
			SearchLibrary:  *library,
			MaxResults:     *maxResults,
			MinScore:       *minScore,
			DebounceMs:     *debounceMs,
			Virtualization: *virtualize,
			ItemHeight:     *itemHeight,
			Overscan:       *overscan,
			DynamicSizing:  *dynamicSizing,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"dataDir":        *dataDir,
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"loop":           strconv.FormatBool(*loop),
			"recents":        strconv.FormatBool(*recents),
			"searchLibrary":  *library,
			"maxResults":     strconv.Itoa(*maxResults),
			"minScore":       strconv.FormatFloat(*minScore, 'g', -1, 64),
			"debounceMs":     strconv.Itoa(*debounceMs),
			"virtualization": strconv.FormatBool(*virtualize),
			"itemHeight":     strconv.Itoa(*itemHeight),
			"overscan":       strconv.Itoa(*overscan),
			"dynamicSizing":  strconv.FormatBool(*dynamicSizing),
			"trace":          strconv.FormatBool(*trace),
			"verbose":        strconv.FormatBool(*verbose),
			"logFile":        *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(env map[string]string, key string, fallback float64) float64 {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	// Additional validation hooks can be placed here as configuration evolves.
	return nil
}
