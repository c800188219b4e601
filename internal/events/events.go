package events

import (
	"context"

	"github.com/groblegark/fleetboard/internal/model"
)

// Event topic constants
const (
	TopicSnapshotUpdated = "fleet.snapshot.updated"
	TopicCountersReset   = "fleet.counters.reset"
)

// Event types

type SnapshotUpdated struct {
	Snapshot *model.Snapshot `json:"snapshot"`
}

type CountersReset struct {
	Snapshot *model.Snapshot `json:"snapshot"`
}

// Publisher is the interface for mirroring broadcast snapshots to an event
// bus. Publishing is best-effort; the update path never fails on it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
