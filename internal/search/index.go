package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/logging/events"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

type loadState int

const (
	loadNotStarted loadState = iota
	loadInFlight
	loadReady
	loadFailed
)

// lazyIndex defers building the fuzzy text index until a fuzzy query arrives,
// and builds it off the caller's path. Until the build completes (or after it
// fails) ensure returns nil and callers fall back to the lexical algorithm.
type lazyIndex struct {
	mu    sync.Mutex
	state loadState
	idx   *textIndex
	items []*command.Command
}

func newLazyIndex(items []*command.Command) *lazyIndex {
	return &lazyIndex{items: items}
}

func (l *lazyIndex) ensure() *textIndex {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case loadReady:
		return l.idx
	case loadNotStarted:
		l.state = loadInFlight
		go l.build()
	}
	return nil
}

func (l *lazyIndex) ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == loadReady
}

func (l *lazyIndex) build() {
	defer func() {
		if r := recover(); r != nil {
			l.mu.Lock()
			l.state = loadFailed
			l.mu.Unlock()
			events.Search.IndexFailed(fmt.Sprint(r))
		}
	}()
	idx := buildTextIndex(l.items)
	l.mu.Lock()
	l.idx = idx
	l.state = loadReady
	l.mu.Unlock()
	events.Search.IndexReady(len(idx.terms))
}

// textIndex maps searchable strings back to the item that owns them. When two
// items share a string the first seen keeps it.
type textIndex struct {
	terms []string
	owner []int
}

func buildTextIndex(items []*command.Command) *textIndex {
	idx := &textIndex{}
	seen := make(map[string]struct{})
	for i, item := range items {
		for _, term := range item.SearchTerms() {
			folded := strings.ToLower(strings.TrimSpace(term))
			if folded == "" {
				continue
			}
			if _, ok := seen[folded]; ok {
				continue
			}
			seen[folded] = struct{}{}
			idx.terms = append(idx.terms, term)
			idx.owner = append(idx.owner, i)
		}
	}
	return idx
}

// search queries the index, converts each match's edit distance into a 0..1
// similarity, deduplicates by owning item (first occurrence keeps), and sorts
// by descending similarity with input order breaking ties.
func (ix *textIndex) search(query string, items []*command.Command, maxResults int) []*command.Command {
	ranks := fuzzy.RankFindNormalizedFold(query, ix.terms)
	type hit struct {
		item int
		sim  float64
	}
	seen := make(map[int]struct{}, len(ranks))
	hits := make([]hit, 0, len(ranks))
	for _, rank := range ranks {
		if rank.OriginalIndex < 0 || rank.OriginalIndex >= len(ix.owner) {
			continue
		}
		item := ix.owner[rank.OriginalIndex]
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		hits = append(hits, hit{item: item, sim: similarity(rank.Distance, query, rank.Target)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].sim != hits[j].sim {
			return hits[i].sim > hits[j].sim
		}
		return hits[i].item < hits[j].item
	})
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}
	ranked := make([]*command.Command, 0, len(hits))
	for _, h := range hits {
		ranked = append(ranked, items[h.item])
	}
	return ranked
}

// similarity converts an edit distance into clamp(1-normalised, 0, 1).
func similarity(distance int, query, target string) float64 {
	longest := len([]rune(query))
	if n := len([]rune(target)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	sim := 1 - float64(distance)/float64(longest)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
