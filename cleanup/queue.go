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

// Package cleanup implements the append-only queue of ranges pending
// background deletion, and the one-shot notification type used to tell a
// caller when its requested deletion (or the abort of one) resolves.
package cleanup

import (
	"sync"

	"github.com/dolbyover/shardmeta/shardkey"
)

// Deletion pairs a range slated for deletion with the notification that
// fires once the range has actually been removed (or the request was
// aborted).
type Deletion struct {
	Range        shardkey.Range
	Notification *Notification
}

// Queue is a synchronized, append-only FIFO of pending Deletions. It is
// safe for concurrent use by the manager (front-door enqueue, under the
// manager lock) and the cleanup driver goroutine (dequeue, with no lock
// held) at the same time.
type Queue struct {
	mu   sync.Mutex
	list []Deletion
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends every deletion in items to the tail of the queue and reports
// whether the queue was empty beforehand. The manager uses that return
// value as the single trigger for scheduling the cleanup driver: only the
// enqueuer that flips the queue from empty to non-empty schedules a task,
// so at most one task is ever in flight.
func (q *Queue) Add(items []Deletion) (wasEmpty bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	wasEmpty = len(q.list) == 0
	q.list = append(q.list, items...)
	return wasEmpty
}

// Front returns, without removing, the range at the head of the queue.
func (q *Queue) Front() (Deletion, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.list) == 0 {
		return Deletion{}, false
	}
	return q.list[0], true
}

// PopFront removes and returns the range at the head of the queue, firing
// its notification with the given error before returning it. Fire is
// called here (rather than by the caller) so that popping and resolving a
// deletion is always one atomic step from the perspective of anyone
// calling Overlaps concurrently.
func (q *Queue) PopFront(err error) (Deletion, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.list) == 0 {
		return Deletion{}, false
	}
	d := q.list[0]
	q.list = q.list[1:]
	d.Notification.Fire(err)
	return d, true
}

// Size returns the number of pending deletions.
func (q *Queue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.list)
}

// Overlaps returns the notification for the first queued deletion whose
// range overlaps r, if any.
func (q *Queue) Overlaps(r shardkey.Range) (*Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, d := range q.list {
		if d.Range.Overlaps(r) {
			return d.Notification, true
		}
	}
	return nil, false
}

// Clear fires every pending notification with err and empties the queue.
func (q *Queue) Clear(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, d := range q.list {
		d.Notification.Fire(err)
	}
	q.list = nil
}
