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

import "github.com/dolbyover/shardmeta/shardkey"

// Dump is a point-in-time diagnostic snapshot of a Manager's bookkeeping,
// for operator tooling that wants visibility without taking a dependency on
// the manager's internal lock discipline.
type Dump struct {
	RangesToClean        int
	PendingChunks        []shardkey.Range
	ActiveMetadataRanges []shardkey.Range
}

// Dump returns a diagnostic snapshot: the size of the cleanup queue, the
// ranges currently being received, and the chunks the active map owns.
func (m *Manager) Dump() Dump {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Dump{
		RangesToClean:        m.queue.Size(),
		PendingChunks:        m.receiving.Ranges(),
		ActiveMetadataRanges: m.active.metadata.Chunks(),
	}
}
