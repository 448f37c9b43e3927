// Package persist is the palette's key-value storage collaborator. Reads and
// writes degrade to defaults and no-ops on failure; neither ever propagates
// an error to the caller.
package persist

import (
	"encoding/json"
	"sync"

	"github.com/atomicstack/cmd-palette/internal/logging"
)

// Saver stores and retrieves JSON-encoded values by key. Get reports whether
// the key was present and decodable; Set logs failures and moves on.
type Saver interface {
	Get(key string, out interface{}) bool
	Set(key string, value interface{})
}

// Memory is an in-process Saver used when no data directory is configured.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory Saver.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(key string, out interface{}) bool {
	m.mu.Lock()
	data, ok := m.values[key]
	m.mu.Unlock()
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logging.Warn("persist decode %s: %v", key, err)
		return false
	}
	return true
}

func (m *Memory) Set(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("persist encode %s: %v", key, err)
		return
	}
	m.mu.Lock()
	m.values[key] = data
	m.mu.Unlock()
}
