// Package vlist computes the visible window over a long row list so the view
// renders only what fits on screen. Heights are measured in terminal lines.
package vlist

import "sort"

// DefaultItemHeight is the fallback row height when nothing better is known.
const DefaultItemHeight = 1

// Align controls where a row lands in the viewport after ScrollToIndex.
type Align string

const (
	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"

	// AlignAuto scrolls the minimum distance that brings the row fully
	// into view, and not at all when it already is.
	AlignAuto Align = "auto"
)

// Config fixes an Engine's behavior at construction.
type Config struct {
	// Enabled turns windowing on. A disabled engine reports an empty
	// window and zero total size; the view falls back to rendering
	// everything.
	Enabled bool

	// ItemHeight is the default row height in lines.
	ItemHeight int

	// Overscan is the number of extra rows rendered above and below the
	// viewport to absorb fast scrolling.
	Overscan int

	// Pinned rows are always part of the window regardless of scroll
	// position, e.g. section headers.
	Pinned []int

	// DynamicSizing lets post-render measurements override estimates.
	DynamicSizing bool
}

// Row is one entry in the virtualized list. A zero Height means the height is
// unknown and must be estimated or measured.
type Row struct {
	ID     string
	Height int
}

// Engine owns the height bookkeeping and window math for one list. It is not
// safe for concurrent use; the palette drives it from the update loop.
type Engine struct {
	cfg      Config
	rows     []Row
	measured map[int]int
	estimate func(row Row, index int) int
}

// New creates an engine. A non-positive ItemHeight falls back to the default.
func New(cfg Config) *Engine {
	if cfg.ItemHeight <= 0 {
		cfg.ItemHeight = DefaultItemHeight
	}
	if cfg.Overscan < 0 {
		cfg.Overscan = 0
	}
	return &Engine{cfg: cfg, measured: make(map[int]int)}
}

// Enabled reports whether windowing is on.
func (e *Engine) Enabled() bool { return e.cfg.Enabled }

// SetEstimator installs the height estimator consulted for rows without an
// explicit or measured height.
func (e *Engine) SetEstimator(fn func(row Row, index int) int) {
	e.estimate = fn
}

// SetRows replaces the row list. A change in row count invalidates every
// measurement: the old indexes no longer identify the same rows.
func (e *Engine) SetRows(rows []Row) {
	if len(rows) != len(e.rows) {
		e.measured = make(map[int]int)
	}
	e.rows = rows
}

// Len reports the current row count.
func (e *Engine) Len() int { return len(e.rows) }

// Measure records an observed height for a row. Ignored unless dynamic
// sizing is enabled.
func (e *Engine) Measure(index, height int) {
	if !e.cfg.DynamicSizing || index < 0 || index >= len(e.rows) || height <= 0 {
		return
	}
	e.measured[index] = height
}

// HeightOf resolves a row's height: explicit beats measured beats estimated
// beats the default.
func (e *Engine) HeightOf(index int) int {
	if index < 0 || index >= len(e.rows) {
		return 0
	}
	row := e.rows[index]
	if row.Height > 0 {
		return row.Height
	}
	if e.cfg.DynamicSizing {
		if h, ok := e.measured[index]; ok {
			return h
		}
	}
	if e.estimate != nil {
		if h := e.estimate(row, index); h > 0 {
			return h
		}
	}
	return e.cfg.ItemHeight
}

// TotalSize is the summed height of every row, zero when windowing is off.
func (e *Engine) TotalSize() int {
	if !e.cfg.Enabled {
		return 0
	}
	total := 0
	for i := range e.rows {
		total += e.HeightOf(i)
	}
	return total
}

// OffsetOf is the distance in lines from the top of the list to the top of
// the row at index.
func (e *Engine) OffsetOf(index int) int {
	offset := 0
	for i := 0; i < index && i < len(e.rows); i++ {
		offset += e.HeightOf(i)
	}
	return offset
}

// Window returns the row indexes the view should render for the given scroll
// position: the rows intersecting [scrollTop, scrollTop+viewport) widened by
// the overscan on each side, unioned with the pinned rows, in ascending
// order. A disabled or empty engine returns nil.
func (e *Engine) Window(scrollTop, viewport int) []int {
	if !e.cfg.Enabled || len(e.rows) == 0 || viewport <= 0 {
		return nil
	}
	start, end := e.visibleRange(scrollTop, viewport)
	start -= e.cfg.Overscan
	if start < 0 {
		start = 0
	}
	end += e.cfg.Overscan
	if end > len(e.rows)-1 {
		end = len(e.rows) - 1
	}

	include := make(map[int]struct{}, end-start+1+len(e.cfg.Pinned))
	for i := start; i <= end; i++ {
		include[i] = struct{}{}
	}
	for _, p := range e.cfg.Pinned {
		if p >= 0 && p < len(e.rows) {
			include[p] = struct{}{}
		}
	}
	out := make([]int, 0, len(include))
	for i := range include {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// visibleRange finds the first and last row indexes intersecting the
// viewport, before overscan.
func (e *Engine) visibleRange(scrollTop, viewport int) (int, int) {
	if scrollTop < 0 {
		scrollTop = 0
	}
	start := 0
	offset := 0
	for start < len(e.rows) {
		h := e.HeightOf(start)
		if offset+h > scrollTop {
			break
		}
		offset += h
		start++
	}
	if start >= len(e.rows) {
		start = len(e.rows) - 1
	}
	end := start
	bottom := scrollTop + viewport
	covered := e.OffsetOf(start)
	for end < len(e.rows)-1 {
		covered += e.HeightOf(end)
		if covered >= bottom {
			break
		}
		end++
	}
	return start, end
}

// ScrollToIndex computes the scroll offset that places the row at index per
// the alignment. The current scrollTop is returned unchanged when windowing
// is off, the index is out of range, or an auto-aligned row is already fully
// visible.
func (e *Engine) ScrollToIndex(index int, align Align, scrollTop, viewport int) int {
	if !e.cfg.Enabled || index < 0 || index >= len(e.rows) || viewport <= 0 {
		return scrollTop
	}
	top := e.OffsetOf(index)
	height := e.HeightOf(index)
	bottom := top + height

	var next int
	switch align {
	case AlignStart:
		next = top
	case AlignCenter:
		next = top - (viewport-height)/2
	case AlignEnd:
		next = bottom - viewport
	default: // AlignAuto
		switch {
		case top < scrollTop:
			next = top
		case bottom > scrollTop+viewport:
			next = bottom - viewport
		default:
			return scrollTop
		}
	}
	return e.clampScroll(next, viewport)
}

func (e *Engine) clampScroll(scrollTop, viewport int) int {
	max := e.TotalSize() - viewport
	if max < 0 {
		max = 0
	}
	if scrollTop > max {
		scrollTop = max
	}
	if scrollTop < 0 {
		scrollTop = 0
	}
	return scrollTop
}
