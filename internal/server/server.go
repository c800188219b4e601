// Package server implements the update-and-fan-out core: it accepts
// punctuality reports, drives the counter store, and pushes the resulting
// snapshot to every connected dashboard.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/groblegark/fleetboard/internal/archive"
	"github.com/groblegark/fleetboard/internal/events"
	"github.com/groblegark/fleetboard/internal/metrics"
	"github.com/groblegark/fleetboard/internal/model"
	"github.com/groblegark/fleetboard/internal/store"
)

const (
	// defaultStoreTimeout bounds each store call on the update path so a
	// wedged database cannot stall the whole pipeline.
	defaultStoreTimeout = 5 * time.Second

	// archiveTimeout bounds the background image upload.
	archiveTimeout = 30 * time.Second

	// resetPlate is the sentinel plate broadcast after a counter reset.
	resetPlate = "--"
)

// FleetServer wires the counter store, snapshot cache, subscriber hub, and
// event mirror together.
type FleetServer struct {
	store     store.Store
	publisher events.Publisher
	cache     *snapshotCache
	hub       *wsHub

	// Archive, when non-nil, receives raw image uploads out of band.
	Archive archive.Archiver

	// StoreTimeout bounds each store call on the update path.
	StoreTimeout time.Duration
}

// NewFleetServer returns a new FleetServer backed by the given store and publisher.
func NewFleetServer(s store.Store, p events.Publisher) *FleetServer {
	cache := newSnapshotCache()
	return &FleetServer{
		store:        s,
		publisher:    p,
		cache:        cache,
		hub:          newWSHub(cache),
		StoreTimeout: defaultStoreTimeout,
	}
}

// ProcessUpdate validates a punctuality report, updates the durable counters,
// and broadcasts the resulting snapshot. Validation failures mutate nothing;
// store failures broadcast nothing.
func (s *FleetServer) ProcessUpdate(ctx context.Context, req *model.UpdateRequest) (*model.Snapshot, error) {
	status, err := model.ValidateUpdate(req)
	if err != nil {
		metrics.UpdateFailures.WithLabelValues("validation").Inc()
		return nil, err
	}

	sctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	// Strict sequencing: ensure, then increment, then read back the
	// authoritative totals. Broadcast happens only after a successful read.
	if err := s.store.EnsureVehicle(sctx, req.Name); err != nil {
		metrics.UpdateFailures.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("ensure vehicle: %w", err)
	}
	if err := s.store.IncrementCounter(sctx, req.Name, status); err != nil {
		metrics.UpdateFailures.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("increment counter: %w", err)
	}
	counts, err := s.store.GetCounts(sctx, req.Name)
	if err != nil {
		metrics.UpdateFailures.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("read counts: %w", err)
	}

	snap := &model.Snapshot{
		Name:        req.Name,
		Early:       counts.Early,
		Late:        counts.Late,
		Status:      status,
		Description: req.Description,
	}
	if len(req.Image) > 0 {
		snap.ImageData = model.DataURI(req.ImageMIME, req.Image)
		s.archiveImage(req.Name, req.ImageMIME, req.Image)
	}

	s.fanOut(ctx, events.TopicSnapshotUpdated, snap, events.SnapshotUpdated{Snapshot: snap})
	metrics.UpdatesTotal.WithLabelValues(status.String()).Inc()
	return snap, nil
}

// ResetCounters zeroes every counter row and broadcasts the sentinel snapshot
// through the same cache and fan-out path as a normal update.
func (s *FleetServer) ResetCounters(ctx context.Context) (*model.Snapshot, error) {
	sctx, cancel := context.WithTimeout(ctx, s.StoreTimeout)
	defer cancel()

	if err := s.store.ResetAll(sctx); err != nil {
		metrics.UpdateFailures.WithLabelValues("store").Inc()
		return nil, fmt.Errorf("reset counters: %w", err)
	}

	snap := &model.Snapshot{
		Name:        resetPlate,
		Status:      model.StatusOnTime,
		Description: "counters reset",
	}
	s.fanOut(ctx, events.TopicCountersReset, snap, events.CountersReset{Snapshot: snap})
	return snap, nil
}

// fanOut caches the snapshot, broadcasts it to connected dashboards, and
// mirrors it to the event bus. The mirror is best-effort; failures are logged
// and never surfaced to the event's originator.
func (s *FleetServer) fanOut(ctx context.Context, topic string, snap *model.Snapshot, event any) {
	s.cache.set(snap)
	s.hub.broadcast(snap)
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish snapshot event", "topic", topic, "plate", snap.Name, "error", err)
	}
}

// archiveImage uploads the raw image in the background when an archive is
// configured. Failures are logged only.
func (s *FleetServer) archiveImage(plate, mime string, data []byte) {
	if s.Archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		key, err := s.Archive.Store(ctx, plate, mime, data)
		if err != nil {
			slog.Warn("failed to archive image", "plate", plate, "error", err)
			return
		}
		slog.Info("archived image", "plate", plate, "key", key)
	}()
}
