package events

import "github.com/atomicstack/cmd-palette/internal/logging"

type SearchTracer struct{}

var Search = SearchTracer{}

func (SearchTracer) Rank(query, algorithm string, results int) {
	logging.Trace("search.rank", map[string]interface{}{
		"query":     query,
		"algorithm": algorithm,
		"results":   results,
	})
}

func (SearchTracer) CacheHit(key string) {
	logging.Trace("search.cache-hit", map[string]interface{}{"key": key})
}

func (SearchTracer) Fallback(query string) {
	logging.Trace("search.fallback", map[string]interface{}{"query": query})
}

func (SearchTracer) IndexReady(terms int) {
	logging.Trace("search.index-ready", map[string]interface{}{"terms": terms})
}

func (SearchTracer) IndexFailed(reason string) {
	logging.Trace("search.index-failed", map[string]interface{}{"reason": reason})
}
