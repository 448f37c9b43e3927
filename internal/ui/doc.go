// Package ui contains the Bubble Tea program that powers the command palette.
// The package is structured so the Model type focuses on message
// orchestration, while dedicated helpers own input, row building, rendering,
// and the failure boundary.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages.
//   - Key presses are first offered to the query line (internal/ui/input.go);
//     everything else is routed through a typed handler registry so each
//     tea.Msg is handled by a focused function.
//   - Every update pass ends in sync, which reconciles the model's derived
//     state (the per-view ranker, the display rows, the scroll offset) with a
//     fresh store snapshot.
//
// State ownership:
//   - All palette state lives in the navigation store (internal/store); the
//     model holds only derived, re-computable data plus presentation flags.
//   - Query re-ranking is debounced; the committed query lags the live one by
//     at most the configured debounce interval.
//   - Command execution runs through internal/ui/command, which wraps store
//     selection into asynchronous Bubble Tea commands; their results come
//     back as messages and pass through the per-command failure boundary.
//
// Windowing:
//   - The virtualized list engine (internal/vlist) decides which display rows
//     to render when the list exceeds the viewport; keyboard moves keep the
//     active row visible via the store's scroll trigger.
package ui
