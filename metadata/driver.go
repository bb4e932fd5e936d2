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
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/dolbyover/shardmeta/cleanup"
)

// cleanupDriver is the external cleanup driver from §4.6/§2: an adapter
// that repeatedly asks the Deleter collaborator to delete the next batch
// from the head of the queue, driven by the injected Executor. It never
// takes the Manager's lock; the Queue is its own synchronization boundary,
// which is what lets it run entirely off the query path.
type cleanupDriver struct {
	collection   string
	queue        *cleanup.Queue
	deleter      Deleter
	executor     Executor
	maxBatchSize int

	minBackoff time.Duration
	maxBackoff time.Duration
	backoff    atomic.Duration

	logger  *zap.Logger
	metrics driverMetrics
}

type driverMetrics struct {
	batchesRun      tally.Counter
	rangesCompleted tally.Counter
	batchErrors     tally.Counter
	batchLatency    tally.Timer
}

func newDriverMetrics(scope tally.Scope) driverMetrics {
	s := scope.SubScope("cleanup_driver")
	return driverMetrics{
		batchesRun:      s.Counter("batches_run"),
		rangesCompleted: s.Counter("ranges_completed"),
		batchErrors:     s.Counter("batch_errors"),
		batchLatency:    s.Timer("batch_latency"),
	}
}

func newCleanupDriver(collection string, q *cleanup.Queue, opts Options) *cleanupDriver {
	d := &cleanupDriver{
		collection:   collection,
		queue:        q,
		deleter:      opts.Deleter(),
		executor:     opts.Executor(),
		maxBatchSize: opts.MaxCleanupBatchSize(),
		minBackoff:   opts.CleanupMinBackoff(),
		maxBackoff:   opts.CleanupMaxBackoff(),
		logger:       opts.Logger(),
		metrics:      newDriverMetrics(opts.Scope()),
	}
	d.backoff.Store(d.minBackoff)
	return d
}

// scheduleNext hands one iteration of the drain loop to the executor. It is
// the single-enqueuer trigger described in §4.6: callers only invoke this
// when Queue.Add just flipped the queue from empty to non-empty, or when a
// prior iteration determined there is more work to do.
func (d *cleanupDriver) scheduleNext() {
	d.executor.Schedule(d.runOnce)
}

// runOnce performs one batch delete against the range at the head of the
// queue and decides what happens next: retry the same range, retry after
// backoff on error, advance to the next range, or stop because the queue
// has drained (or been cleared out from under it by a shutdown/reset).
func (d *cleanupDriver) runOnce() {
	head, ok := d.queue.Front()
	if !ok {
		return
	}

	start := time.Now()
	exhausted, err := d.deleter.DeleteNextBatch(context.Background(), d.collection, head.Range, d.maxBatchSize)
	d.metrics.batchLatency.Record(time.Since(start))
	d.metrics.batchesRun.Inc(1)

	if err != nil {
		d.metrics.batchErrors.Inc(1)
		d.logger.Error("cleanup batch failed, backing off",
			zap.String("collection", d.collection),
			zap.Stringer("range", head.Range),
			zap.Error(err))
		wait := d.backoff.Load()
		next := wait * 2
		if next > d.maxBackoff {
			next = d.maxBackoff
		}
		d.backoff.Store(next)
		time.AfterFunc(wait, d.scheduleNext)
		return
	}

	d.backoff.Store(d.minBackoff)

	if !exhausted {
		d.scheduleNext()
		return
	}

	if _, ok := d.queue.PopFront(nil); ok {
		d.metrics.rangesCompleted.Inc(1)
	}
	if d.queue.Size() > 0 {
		d.scheduleNext()
	}
}
