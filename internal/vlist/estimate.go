package vlist

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RowKind buckets rows that share a height profile.
type RowKind string

const (
	KindHeader      RowKind = "header"
	KindDivider     RowKind = "divider"
	KindRecent      RowKind = "recent"
	KindCommand     RowKind = "command"
	KindDescribed   RowKind = "described"
	KindDescriptive RowKind = "descriptive"
)

// longDescription is the length past which a description is assumed to wrap
// onto a second line.
const longDescription = 80

// Content carries the row attributes the estimator classifies on.
type Content struct {
	ID          string
	Header      bool
	Divider     bool
	Recent      bool
	Description string
}

// Classify maps row content onto its height bucket.
func Classify(c Content) RowKind {
	switch {
	case c.Divider:
		return KindDivider
	case c.Header:
		return KindHeader
	case len(c.Description) > longDescription:
		return KindDescriptive
	case c.Recent:
		return KindRecent
	case c.Description != "":
		return KindDescribed
	default:
		return KindCommand
	}
}

// Estimator predicts row heights from row content and memoizes the results.
// Lookups are keyed by row identity and position so a row that moves is
// re-estimated.
type Estimator struct {
	base  int
	cache *lru.Cache[string, int]
}

// NewEstimator creates an estimator with the given base row height.
func NewEstimator(base int) *Estimator {
	if base <= 0 {
		base = DefaultItemHeight
	}
	cache, _ := lru.New[string, int](200)
	return &Estimator{base: base, cache: cache}
}

// Estimate returns the predicted height in lines for the row at index. An
// explicit height short-circuits classification but still lands in the cache.
func (e *Estimator) Estimate(c Content, explicit, index int) int {
	key := e.key(c.ID, explicit, index)
	if h, ok := e.cache.Get(key); ok {
		return h
	}
	h := explicit
	if h <= 0 {
		h = e.heightFor(Classify(c))
	}
	e.cache.Add(key, h)
	return h
}

func (e *Estimator) heightFor(kind RowKind) int {
	switch kind {
	case KindDivider, KindHeader:
		return 1
	case KindDescriptive:
		return e.base + 1
	case KindRecent, KindDescribed:
		// Recents and short descriptions render inline on a single row.
		return e.base
	default:
		return e.base
	}
}

func (e *Estimator) key(id string, explicit, index int) string {
	size := "auto"
	if explicit > 0 {
		size = fmt.Sprintf("%d", explicit)
	}
	return fmt.Sprintf("%s|%s|%d", id, size, index)
}
