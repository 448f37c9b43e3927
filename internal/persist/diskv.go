package persist

import (
	"encoding/json"

	"github.com/atomicstack/cmd-palette/internal/logging"
	"github.com/peterbourgon/diskv/v3"
)

// Disk is a Saver backed by diskv, one file per key under the base path.
type Disk struct {
	d *diskv.Diskv
}

// OpenDisk creates a disk-backed Saver rooted at basePath.
func OpenDisk(basePath string) *Disk {
	return &Disk{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 64 * 1024,
	})}
}

func (p *Disk) Get(key string, out interface{}) bool {
	data, err := p.d.Read(key)
	if err != nil {
		// Missing keys are routine on first run; nothing to log.
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		logging.Warn("persist decode %s: %v", key, err)
		return false
	}
	return true
}

func (p *Disk) Set(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("persist encode %s: %v", key, err)
		return
	}
	if err := p.d.Write(key, data); err != nil {
		logging.Warn("persist write %s: %v", key, err)
	}
}
