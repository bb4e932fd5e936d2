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

package metadata

import (
	"go.uber.org/zap"

	"github.com/dolbyover/shardmeta/chunkmap"
)

// Refresh ingests a chunk map fetched from the catalog collaborator and
// decides whether to ignore it, install it, reset to it, or unshard. ok
// false (or an empty remote) means "this collection is not sharded
// according to the catalog." Refresh is always called single-threaded at
// the control-plane level but coexists with concurrent GetActive/handle
// traffic.
func (m *Manager) Refresh(remote chunkmap.ChunkMap, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shuttingDown {
		return
	}

	activeEmpty := m.active.metadata.IsEmpty()
	remoteEmpty := !ok || remote.IsEmpty()

	switch {
	case activeEmpty && remoteEmpty:
		invariant(m.receiving.Len() == 0, "receiving set non-empty while unsharded")
		invariant(m.queue.Size() == 0, "cleanup queue non-empty while unsharded")
		return

	case !activeEmpty && remoteEmpty:
		m.logger.Info("collection unsharded", zap.String("collection", m.collection))
		m.receiving.Clear()
		m.clearAllCleanupsLocked(ErrInterruptedDueToReplStateChange)
		m.installLocked(chunkmap.Empty())
		m.metrics.refreshUnsharded.Inc(1)
		return

	case activeEmpty && !remoteEmpty:
		// A migration can begin receiving into a collection before the
		// first chunk map for it arrives; any receiving range the new map
		// already shows as owned is handled exactly like an advance below,
		// not asserted away.
		m.logger.Info("collection became sharded",
			zap.String("collection", m.collection),
			zap.Stringer("epoch", remote.Epoch()))
		for _, r := range m.receiving.Ranges() {
			if remote.RangeOverlapsChunk(r) {
				m.receiving.Remove(r.Min)
			}
		}
		m.installLocked(remote)
		m.metrics.refreshInstalled.Inc(1)
		return
	}

	if m.active.metadata.Epoch() != remote.Epoch() {
		m.logger.Info("collection epoch changed, resetting metadata",
			zap.String("collection", m.collection),
			zap.Stringer("oldEpoch", m.active.metadata.Epoch()),
			zap.Stringer("newEpoch", remote.Epoch()))
		m.receiving.Clear()
		m.clearAllCleanupsLocked(ErrInterruptedDueToReplStateChange)
		m.installLocked(remote)
		m.metrics.refreshReset.Inc(1)
		return
	}

	if m.active.metadata.CollVersion() >= remote.CollVersion() {
		m.logger.Debug("ignoring stale refresh",
			zap.String("collection", m.collection),
			zap.Uint64("activeVersion", uint64(m.active.metadata.CollVersion())),
			zap.Uint64("remoteVersion", uint64(remote.CollVersion())))
		m.metrics.refreshIgnored.Inc(1)
		return
	}

	// Advance: any receiving range that the new map now shows as owned has
	// become visible as a real chunk, so it is no longer "pending."
	for _, r := range m.receiving.Ranges() {
		if remote.RangeOverlapsChunk(r) {
			m.receiving.Remove(r.Min)
		}
	}
	m.installLocked(remote)
	m.metrics.refreshInstalled.Inc(1)
}

// installLocked pushes the current active tracker to the back of the in-use
// list and makes a fresh tracker wrapping remote the new active one. remote
// may itself be the empty ChunkMap, for the unshard case. retireExpiredLocked
// runs afterward because the push alone can make the newly-retired tracker
// immediately eligible (it held no orphans and nothing pinned it).
func (m *Manager) installLocked(remote chunkmap.ChunkMap) {
	m.inUse.PushBack(m.active)
	m.active = newTracker(remote, m)
	m.retireExpiredLocked()
}

// retireExpiredLocked walks the in-use list front to back (oldest first),
// draining into the cleanup queue the orphans of every tracker whose usage
// has dropped to zero, and removing it. It stops at the first tracker still
// pinned by a live handle. If the walk empties the list entirely, the
// active tracker's own orphans are also drained: nothing older remains that
// a query could still be reading.
func (m *Manager) retireExpiredLocked() {
	if m.shuttingDown {
		return
	}

	for e := m.inUse.Front(); e != nil; {
		t := e.Value.(*tracker)
		if t.usage != 0 {
			break
		}
		next := e.Next()
		if len(t.orphans) > 0 {
			if m.queue.Add(t.orphans) {
				m.driver.scheduleNext()
			}
			t.orphans = nil
		}
		m.inUse.Remove(e)
		e = next
	}

	if m.inUse.Len() == 0 && len(m.active.orphans) > 0 {
		if m.queue.Add(m.active.orphans) {
			m.driver.scheduleNext()
		}
		m.active.orphans = nil
	}

	m.metrics.inUseCount.Update(float64(m.inUse.Len()))
	m.metrics.rangesToClean.Update(float64(m.queue.Size()))
}
