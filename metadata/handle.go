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

import "github.com/dolbyover/shardmeta/chunkmap"

// SnapshotHandle pins one ChunkMap version for the lifetime of a query. It
// is move-only in spirit: Go cannot forbid the struct copy a C++ deleted
// copy-constructor would, so the discipline is documented rather than
// compiler-enforced (the same trust this codebase already places in
// disciplined use of, say, sync.Mutex) — treat a SnapshotHandle like a
// *os.File: obtain it, use it, Close it once, and do not hand out copies
// of the value after that.
//
// The zero SnapshotHandle and a handle after Close are both "empty": Close
// is idempotent, and reading Metadata on an empty handle returns
// chunkmap.Empty(), false.
type SnapshotHandle struct {
	tracker *tracker
}

// Empty reports whether the handle pins no tracker (either it was never
// assigned one — the manager was unsharded when GetActive ran — or it has
// already been Closed).
func (h SnapshotHandle) Empty() bool {
	return h.tracker == nil
}

// Metadata returns the pinned ChunkMap. ok is false for an empty handle.
func (h SnapshotHandle) Metadata() (chunkmap.ChunkMap, bool) {
	if h.tracker == nil {
		return chunkmap.ChunkMap{}, false
	}
	return h.tracker.metadata, true
}

// Close releases the pin. It is safe to call multiple times on the same
// handle value (idempotent no-op after the first call); it is not safe to
// call concurrently on copies of the same handle sharing a tracker — see
// the type doc.
func (h *SnapshotHandle) Close() {
	t := h.tracker
	if t == nil {
		return
	}
	h.tracker = nil

	t.trackerLock.Lock()
	mgr := t.backref
	t.trackerLock.Unlock()

	if mgr == nil {
		// The manager was already destroyed; nothing left to update.
		return
	}

	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	invariant(t.usage != 0, "snapshot handle usage counter underflow")
	t.usage--
	if t.usage == 0 && !mgr.shuttingDown {
		mgr.retireExpiredLocked()
	}
}
