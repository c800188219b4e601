package server

import (
	"context"
	"sort"
	"sync"

	"github.com/groblegark/fleetboard/internal/model"
	"github.com/groblegark/fleetboard/internal/store"
)

// memStore is an in-memory store.Store used by server tests.
type memStore struct {
	mu   sync.Mutex
	rows map[string]*model.Counts

	// failWith, when non-nil, is returned by every mutating call.
	failWith error
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{rows: make(map[string]*model.Counts)}
}

func (m *memStore) EnsureVehicle(ctx context.Context, plate string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if _, ok := m.rows[plate]; !ok {
		m.rows[plate] = &model.Counts{}
	}
	return nil
}

func (m *memStore) IncrementCounter(ctx context.Context, plate string, status model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	row, ok := m.rows[plate]
	if !ok {
		return store.ErrNotFound
	}
	if status == model.StatusLate {
		row.Late++
	} else {
		row.Early++
	}
	return nil
}

func (m *memStore) GetCounts(ctx context.Context, plate string) (model.Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row, ok := m.rows[plate]; ok {
		return *row, nil
	}
	return model.Counts{}, nil
}

func (m *memStore) ListVehicles(ctx context.Context) ([]*model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var vehicles []*model.Vehicle
	for plate, row := range m.rows {
		vehicles = append(vehicles, &model.Vehicle{Plate: plate, Early: row.Early, Late: row.Late})
	}
	sort.Slice(vehicles, func(i, j int) bool { return vehicles[i].Plate < vehicles[j].Plate })
	return vehicles, nil
}

func (m *memStore) ResetAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	for _, row := range m.rows {
		row.Early = 0
		row.Late = 0
	}
	return nil
}

func (m *memStore) Close() error { return nil }

// seed sets a row directly, bypassing the update path.
func (m *memStore) seed(plate string, early, late int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[plate] = &model.Counts{Early: early, Late: late}
}

// row returns a copy of the row and whether it exists.
func (m *memStore) row(plate string) (model.Counts, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rows[plate]; ok {
		return *r, true
	}
	return model.Counts{}, false
}

// size returns the number of rows.
func (m *memStore) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// fail makes subsequent mutating calls return err.
func (m *memStore) fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}
