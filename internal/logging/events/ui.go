package events

import "github.com/atomicstack/cmd-palette/internal/logging"

type UITracer struct{}

type QueryTracer struct{}

type ShortcutTracer struct{}

type CommandTracer struct{}

var (
	UI       = UITracer{}
	Query    = QueryTracer{}
	Shortcut = ShortcutTracer{}
	Command  = CommandTracer{}
)

func (UITracer) Enter(viewType, itemID, query string) {
	logging.Trace("ui.enter", map[string]interface{}{
		"view":  viewType,
		"item":  itemID,
		"query": query,
	})
}

func (UITracer) Cursor(itemID string, index int) {
	logging.Trace("ui.cursor", map[string]interface{}{"item": itemID, "index": index})
}

func (UITracer) BoundaryTripped(id string, attempt int) {
	logging.Trace("ui.boundary", map[string]interface{}{"id": id, "attempt": attempt})
}

func (QueryTracer) Changed(query string) {
	logging.Trace("query.changed", map[string]interface{}{"query": query})
}

func (QueryTracer) Cleared() {
	logging.Trace("query.cleared", nil)
}

func (ShortcutTracer) Trigger(token, commandID string) {
	logging.Trace("shortcut.trigger", map[string]interface{}{"token": token, "command": commandID})
}

func (ShortcutTracer) Miss(token string) {
	logging.Trace("shortcut.miss", map[string]interface{}{"token": token})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label string, err error) {
	payload := map[string]interface{}{"id": id, "label": label}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("command.result", payload)
}
