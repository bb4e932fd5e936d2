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

	"github.com/dolbyover/shardmeta/shardkey"
)

// Deleter is the physical document deleter collaborator: a black box that
// removes documents in a key range from a named collection. The manager
// never deletes a document itself; it only decides which ranges are safe
// to hand to this collaborator, and when.
type Deleter interface {
	// DeleteNextBatch deletes up to maxDocs documents belonging to
	// collection whose key falls in r, and reports whether every document
	// in r has now been removed (rangeExhausted). The manager's cleanup
	// driver keeps calling this for the same range until rangeExhausted
	// is true, then moves on to the next queued range.
	DeleteNextBatch(ctx context.Context, collection string, r shardkey.Range, maxDocs int) (rangeExhausted bool, err error)
}
