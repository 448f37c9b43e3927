// Package search ranks command lists against a live query string. Two
// algorithms sit behind one contract: a lexical scorer that is always
// available, and a fuzzy text index that is built lazily in the background
// and falls back to the lexical scorer until ready.
package search

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/logging/events"
)

// Algorithm selects a ranking implementation.
type Algorithm string

const (
	AlgorithmLexical Algorithm = "lexical"
	AlgorithmFuzzy   Algorithm = "fuzzy"
)

// ParseAlgorithm maps a configuration string onto an Algorithm, defaulting to
// lexical for anything unrecognised.
func ParseAlgorithm(name string) Algorithm {
	if Algorithm(strings.ToLower(strings.TrimSpace(name))) == AlgorithmFuzzy {
		return AlgorithmFuzzy
	}
	return AlgorithmLexical
}

// DefaultMinScore is the threshold below which lexically scored items are
// dropped, on a 0..1 scale.
const DefaultMinScore = 0.1

// Options tunes a Ranker.
type Options struct {
	// MinScore overrides DefaultMinScore when > 0.
	MinScore float64
	// DisableCache turns off result memoisation.
	DisableCache bool
}

// Ranker ranks one fixed item set. Construct a new Ranker whenever the
// underlying set changes; caches never outlive the set they were computed
// against.
type Ranker struct {
	mu         sync.Mutex
	items      []*command.Command
	cache      *resultCache
	index      *lazyIndex
	minScore   float64
	scoreCalls int
}

// New creates a Ranker over the given items.
func New(items []*command.Command, opts Options) *Ranker {
	dup := make([]*command.Command, len(items))
	copy(dup, items)
	minScore := opts.MinScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	var cache *resultCache
	if !opts.DisableCache {
		cache = newResultCache(resultCacheCapacity)
	}
	return &Ranker{
		items:    dup,
		cache:    cache,
		index:    newLazyIndex(dup),
		minScore: minScore,
	}
}

// WarmIndex kicks off the background fuzzy-index build without waiting for a
// fuzzy query to do it.
func (r *Ranker) WarmIndex() {
	r.index.ensure()
}

// Rank returns at most maxResults items ordered by descending relevance. An
// empty query is the identity: the first maxResults items in input order.
// Fuzzy queries transparently fall back to the lexical algorithm while the
// index is loading or when its build failed; Rank never fails.
func (r *Ranker) Rank(query string, algorithm Algorithm, maxResults int) []*command.Command {
	if maxResults <= 0 {
		return nil
	}
	if strings.TrimSpace(query) == "" {
		return truncateItems(r.items, maxResults)
	}

	served := algorithm
	var idx *textIndex
	if algorithm == AlgorithmFuzzy {
		idx = r.index.ensure()
		if idx == nil {
			// Index not ready (or failed); the lexical path serves
			// this query and the result is cached under its real
			// algorithm so it never masks the index once built.
			served = AlgorithmLexical
			events.Search.Fallback(query)
		}
	}

	key := cacheKey(query, served, maxResults)
	r.mu.Lock()
	if r.cache != nil {
		if hit, ok := r.cache.get(key); ok {
			r.mu.Unlock()
			events.Search.CacheHit(key)
			return hit
		}
	}
	r.mu.Unlock()

	var ranked []*command.Command
	if served == AlgorithmFuzzy {
		ranked = idx.search(query, r.items, maxResults)
	} else {
		ranked = r.rankLexical(query, maxResults)
	}

	r.mu.Lock()
	if r.cache != nil {
		r.cache.put(key, ranked)
	}
	r.mu.Unlock()
	events.Search.Rank(query, string(served), len(ranked))
	return ranked
}

// ScoreCalls reports how many field-scoring computations have run; cache hits
// do not add to it.
func (r *Ranker) ScoreCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.scoreCalls
}

// IndexReady reports whether the fuzzy index finished building.
func (r *Ranker) IndexReady() bool {
	return r.index.ready()
}

func (r *Ranker) rankLexical(query string, maxResults int) []*command.Command {
	type scored struct {
		item  *command.Command
		score float64
	}
	results := make([]scored, 0, len(r.items))
	for _, item := range r.items {
		s := r.score(item, query)
		if s < r.minScore {
			continue
		}
		results = append(results, scored{item: item, score: s})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	ranked := make([]*command.Command, len(results))
	for i, s := range results {
		ranked[i] = s.item
	}
	return ranked
}

// score is the item's best field score: the max over name, keywords, and
// prefixes.
func (r *Ranker) score(item *command.Command, query string) float64 {
	best := 0.0
	for _, term := range item.SearchTerms() {
		r.mu.Lock()
		r.scoreCalls++
		r.mu.Unlock()
		if s := fieldScore(term, query); s > best {
			best = s
		}
	}
	return best
}

func truncateItems(items []*command.Command, max int) []*command.Command {
	if len(items) > max {
		items = items[:max]
	}
	dup := make([]*command.Command, len(items))
	copy(dup, items)
	return dup
}

func cacheKey(query string, algorithm Algorithm, maxResults int) string {
	return fmt.Sprintf("%s:%s:%d", query, algorithm, maxResults)
}
