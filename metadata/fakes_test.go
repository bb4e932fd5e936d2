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
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dolbyover/shardmeta/chunkmap"
	"github.com/dolbyover/shardmeta/shardkey"
)

// stepExecutor records scheduled tasks instead of running them, so tests can
// decide exactly when the cleanup driver takes its next step.
type stepExecutor struct {
	mu      sync.Mutex
	pending []func()
}

func (e *stepExecutor) Schedule(fn func()) {
	e.mu.Lock()
	e.pending = append(e.pending, fn)
	e.mu.Unlock()
}

// runAll drains every task scheduled so far, including ones a drained task
// itself reschedules, until nothing is pending.
func (e *stepExecutor) runAll() {
	for {
		e.mu.Lock()
		if len(e.pending) == 0 {
			e.mu.Unlock()
			return
		}
		fn := e.pending[0]
		e.pending = e.pending[1:]
		e.mu.Unlock()
		fn()
	}
}

func (e *stepExecutor) pendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// fakeDeleter is a scriptable Deleter: by default every batch call reports
// the range fully deleted with no error, but a test can override that or
// record every call it received.
type fakeDeleter struct {
	mu        sync.Mutex
	exhausted bool
	err       error
	calls     []shardkey.Range
}

func newFakeDeleter() *fakeDeleter {
	return &fakeDeleter{exhausted: true}
}

func (d *fakeDeleter) setResult(exhausted bool, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.exhausted = exhausted
	d.err = err
}

func (d *fakeDeleter) DeleteNextBatch(_ context.Context, _ string, r shardkey.Range, _ int) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, r)
	return d.exhausted, d.err
}

func (d *fakeDeleter) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.calls)
}

func newTestManager(exec Executor, deleter Deleter) *Manager {
	opts := NewOptions().SetExecutor(exec).SetDeleter(deleter)
	m, err := NewManager("test.collection", opts)
	if err != nil {
		panic(err)
	}
	return m
}

type byteRange struct {
	min, max byte
}

func key(b byte) shardkey.Key {
	return shardkey.Key{b}
}

func rng(min, max byte) shardkey.Range {
	return shardkey.NewRange(key(min), key(max))
}

func buildMap(epoch uuid.UUID, collVersion, shardVersion chunkmap.Version, chunks []byteRange) chunkmap.ChunkMap {
	b := chunkmap.NewBuilder(epoch, collVersion, shardVersion)
	for _, c := range chunks {
		b.AddChunk(key(c.min), key(c.max))
	}
	return b.Build()
}
