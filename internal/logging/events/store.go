package events

import "github.com/atomicstack/cmd-palette/internal/logging"

type StoreTracer struct{}

var Store = StoreTracer{}

func (StoreTracer) Navigate(viewType, targetID string) {
	logging.Trace("store.navigate", map[string]interface{}{"view": viewType, "target": targetID})
}

func (StoreTracer) Back(viewType string, depth int) {
	logging.Trace("store.back", map[string]interface{}{"view": viewType, "depth": depth})
}

func (StoreTracer) Select(id string) {
	logging.Trace("store.select", map[string]interface{}{"id": id})
}

func (StoreTracer) SelectMissing(id string) {
	logging.Trace("store.select-missing", map[string]interface{}{"id": id})
}

func (StoreTracer) Recent(ids []string) {
	logging.Trace("store.recent", map[string]interface{}{"ids": ids})
}

func (StoreTracer) SubscriberDropped(id int, reason string) {
	logging.Trace("store.subscriber-dropped", map[string]interface{}{"id": id, "reason": reason})
}

func (StoreTracer) Destroyed() {
	logging.Trace("store.destroyed", nil)
}
