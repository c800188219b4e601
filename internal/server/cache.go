package server

import (
	"sync"

	"github.com/groblegark/fleetboard/internal/model"
)

// snapshotCache holds the single most recent snapshot so late-joining
// subscribers can be synchronized without waiting for a new event. It is
// empty until the first event and is not persisted across restarts.
type snapshotCache struct {
	mu   sync.RWMutex
	snap *model.Snapshot
}

func newSnapshotCache() *snapshotCache {
	return &snapshotCache{}
}

// set overwrites the cached snapshot unconditionally; last writer wins.
func (c *snapshotCache) set(snap *model.Snapshot) {
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
}

// get returns the current snapshot, or nil if no event has occurred yet.
func (c *snapshotCache) get() *model.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}
