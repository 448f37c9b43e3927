package ui

import "github.com/atomicstack/cmd-palette/internal/logging/events"

// maxCommandRetries bounds how many times a failing command may be retried
// before it is marked terminally failed.
const maxCommandRetries = 3

// boundary isolates user-supplied command failures. Failures are scoped per
// command id: one broken command never takes down the palette, and after the
// retry budget is spent that command alone is locked out.
type boundary struct {
	failures map[string]int
}

func newBoundary() *boundary {
	return &boundary{failures: make(map[string]int)}
}

// fail records one failure and reports the attempts used so far.
func (b *boundary) fail(id string) int {
	b.failures[id]++
	events.UI.BoundaryTripped(id, b.failures[id])
	return b.failures[id]
}

// terminal reports whether the command has exhausted its retry budget.
func (b *boundary) terminal(id string) bool {
	return b.failures[id] >= maxCommandRetries
}

// remaining reports the retries left for a command.
func (b *boundary) remaining(id string) int {
	left := maxCommandRetries - b.failures[id]
	if left < 0 {
		return 0
	}
	return left
}

// reset clears a command's failure record after a successful run.
func (b *boundary) reset(id string) {
	delete(b.failures, id)
}
