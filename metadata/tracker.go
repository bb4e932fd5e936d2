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
	"sync"

	"github.com/dolbyover/shardmeta/chunkmap"
	"github.com/dolbyover/shardmeta/cleanup"
)

// tracker is the retirement-capable wrapper around one ChunkMap. Exactly
// one tracker is active at a time (Manager.active); any number of older
// trackers may sit in Manager.inUse, retained only as long as some
// snapshot handle or unresolved orphan still needs them.
//
// trackerLock guards only backref: every other field is only ever touched
// while the owning Manager's mu is held, which is what lets snapshot
// handle teardown and Manager.Close avoid taking both locks at once (see
// §4.2 and §5 of the design).
type tracker struct {
	metadata chunkmap.ChunkMap
	usage    uint32
	orphans  []cleanup.Deletion

	trackerLock sync.Mutex
	backref     *Manager
}

func newTracker(md chunkmap.ChunkMap, mgr *Manager) *tracker {
	return &tracker{metadata: md, backref: mgr}
}

// clearBackref nulls the tracker's link to its manager under trackerLock.
// Called by Manager.Close for every tracker it still knows about.
func (t *tracker) clearBackref() {
	t.trackerLock.Lock()
	t.backref = nil
	t.trackerLock.Unlock()
}
