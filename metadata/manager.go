// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package metadata implements the per-collection sharded metadata manager:
// the concurrency structure that hands out reference-counted chunk-ownership
// snapshots to queries, replaces them on refresh, and defers orphan-range
// deletion until no snapshot could still observe it.
package metadata

import (
	"container/list"
	"sync"

	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/dolbyover/shardmeta/chunkmap"
	"github.com/dolbyover/shardmeta/cleanup"
	"github.com/dolbyover/shardmeta/rangemap"
	"github.com/dolbyover/shardmeta/shardkey"
)

// Manager is the synchronization hub for one sharded collection on this
// shard. Exactly two locks exist in this type's world: mu (coarse, guards
// everything below) and each tracker's own trackerLock (fine, guards only
// that tracker's back-reference to this Manager). The two are never held
// at the same time: see SnapshotHandle.Close in handle.go and Close below.
type Manager struct {
	mu sync.Mutex

	collection string
	opts       Options

	active    *tracker
	inUse     *list.List // front = oldest
	receiving *rangemap.Map

	queue  *cleanup.Queue
	driver *cleanupDriver

	shuttingDown bool

	logger  *zap.Logger
	scope   tally.Scope
	metrics managerMetrics
}

type managerMetrics struct {
	refreshIgnored   tally.Counter
	refreshInstalled tally.Counter
	refreshReset     tally.Counter
	refreshUnsharded tally.Counter
	rangeConflicts   tally.Counter
	inUseCount       tally.Gauge
	rangesToClean    tally.Gauge
}

func newManagerMetrics(scope tally.Scope) managerMetrics {
	refresh := scope.SubScope("refresh")
	return managerMetrics{
		refreshIgnored:   refresh.Counter("ignored"),
		refreshInstalled: refresh.Counter("installed"),
		refreshReset:     refresh.Counter("reset"),
		refreshUnsharded: refresh.Counter("unsharded"),
		rangeConflicts:   scope.Counter("range_overlap_conflicts"),
		inUseCount:       scope.Gauge("in_use_count"),
		rangesToClean:    scope.Gauge("ranges_to_clean"),
	}
}

// NewManager constructs a Manager for collection with no chunks owned (the
// "unsharded" state); the first Refresh call installs real metadata. opts
// is validated before anything else happens.
func NewManager(collection string, opts Options) (*Manager, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		collection: collection,
		opts:       opts,
		inUse:      list.New(),
		receiving:  rangemap.New(),
		queue:      cleanup.NewQueue(),
		logger:     opts.Logger().With(zap.String("collection", collection)),
		scope:      opts.Scope().Tagged(map[string]string{"collection": collection}),
	}
	m.active = newTracker(chunkmap.Empty(), m)
	m.metrics = newManagerMetrics(m.scope)
	m.driver = newCleanupDriver(collection, m.queue, opts)
	return m, nil
}

// GetActive returns a handle pinning the active ChunkMap. If the manager is
// currently unsharded, the returned handle is empty and pins nothing.
func (m *Manager) GetActive() SnapshotHandle {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active.metadata.IsEmpty() {
		return SnapshotHandle{}
	}
	m.active.usage++
	return SnapshotHandle{tracker: m.active}
}

// InUseCount returns the number of retired-but-still-pinned trackers.
func (m *Manager) InUseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inUse.Len()
}

// SnapshotForCleanup reports whether a pending deletion already covers r,
// and if so returns its notification. It is a thin alias for
// TrackOrphanedDataCleanup for callers that only care about observing
// completion, not about where in the retirement lattice the range lives.
func (m *Manager) SnapshotForCleanup(r shardkey.Range) (*cleanup.Notification, bool) {
	return m.TrackOrphanedDataCleanup(r)
}

// Close marks the manager as shutting down, aborts every pending cleanup
// with ErrShuttingDown, and clears every tracker's back-reference so that
// outstanding snapshot handles stop trying to drive retirement through a
// manager that is going away. Handles already holding a ChunkMap remain
// valid: reads of their metadata keep working, only their Close() becomes a
// no-op once the back-reference is gone.
func (m *Manager) Close() {
	m.mu.Lock()
	m.shuttingDown = true
	m.clearAllCleanupsLocked(ErrShuttingDown)

	trackers := make([]*tracker, 0, m.inUse.Len()+1)
	for e := m.inUse.Front(); e != nil; e = e.Next() {
		trackers = append(trackers, e.Value.(*tracker))
	}
	trackers = append(trackers, m.active)
	m.inUse.Init()
	m.mu.Unlock()

	for _, t := range trackers {
		t.clearBackref()
	}
}

// clearAllCleanupsLocked fires every orphan still attached to a tracker and
// every deletion sitting in the queue with err, then empties all three.
// Called for shutdown, unshard and epoch-reset, which all share the same
// "abandon everything pending" behavior with a different error value.
func (m *Manager) clearAllCleanupsLocked(err error) {
	for e := m.inUse.Front(); e != nil; e = e.Next() {
		t := e.Value.(*tracker)
		for _, o := range t.orphans {
			o.Notification.Fire(err)
		}
		t.orphans = nil
	}
	for _, o := range m.active.orphans {
		o.Notification.Fire(err)
	}
	m.active.orphans = nil
	m.queue.Clear(err)
}
