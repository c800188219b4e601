package server

import (
	"testing"

	"github.com/groblegark/fleetboard/internal/model"
)

func TestSnapshotCacheEmpty(t *testing.T) {
	c := newSnapshotCache()
	if got := c.get(); got != nil {
		t.Errorf("get on empty cache = %+v, want nil", got)
	}
}

func TestSnapshotCacheSetGet(t *testing.T) {
	c := newSnapshotCache()
	snap := &model.Snapshot{Name: "BUS-4587", Late: 1, Status: model.StatusLate}
	c.set(snap)
	if got := c.get(); got != snap {
		t.Errorf("get = %+v, want %+v", got, snap)
	}
}

func TestSnapshotCacheLastWriterWins(t *testing.T) {
	c := newSnapshotCache()
	c.set(&model.Snapshot{Name: "ABC-1234", Status: model.StatusOnTime})
	second := &model.Snapshot{Name: "BUS-4587", Status: model.StatusLate}
	c.set(second)
	if got := c.get(); got != second {
		t.Errorf("get = %+v, want most recent snapshot", got)
	}
}
