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

import "errors"

var (
	// ErrRangeOverlapConflict is returned when a caller requests an
	// operation on a range that is currently owned by this shard (by the
	// active map, or for BeginReceive also by a pinned older snapshot) or,
	// for CleanUpRange, is being received. Ranges queued for cleanup are
	// not checked.
	ErrRangeOverlapConflict = errors.New("metadata: range overlaps a live chunk or receiving range")

	// ErrInterruptedDueToReplStateChange is the error every pending
	// cleanup notification fires with when it is abandoned because the
	// collection was dropped, became unsharded, or changed epoch.
	ErrInterruptedDueToReplStateChange = errors.New("metadata: range deletion abandoned because collection was dropped, unsharded, or changed epoch")

	// ErrShuttingDown is returned by operations that reject new work once
	// the manager has begun shutting down.
	ErrShuttingDown = errors.New("metadata: manager is shutting down")
)

// invariant panics with msg if cond is false. It marks a programming
// contract violation this package does not attempt to repair, matching
// this codebase's convention of drawing a hard line between caller errors
// (returned as values) and programmer errors (fatal).
func invariant(cond bool, msg string) {
	if !cond {
		panic("metadata: invariant violated: " + msg)
	}
}
