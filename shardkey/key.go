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

// Package shardkey defines the ordered key type and half-open key range
// that chunk ownership, migrations and orphan cleanup are all expressed in
// terms of.
package shardkey

import "bytes"

// Key is a single shard key value, ordered lexicographically the same way
// the document store orders its own index keys. Two keys with equal bytes
// are equal regardless of backing array identity.
type Key []byte

// Compare returns -1, 0 or 1 the way bytes.Compare does.
func (k Key) Compare(other Key) int {
	return bytes.Compare(k, other)
}

// Equal reports whether k and other contain the same bytes.
func (k Key) Equal(other Key) bool {
	return bytes.Equal(k, other)
}

// Clone returns a copy of k that shares no backing array with it.
func (k Key) Clone() Key {
	if k == nil {
		return nil
	}
	out := make(Key, len(k))
	copy(out, k)
	return out
}

func (k Key) String() string {
	return string(k)
}

// MinKey sorts before every non-empty key and compares equal to an empty
// one. There is no maximum key value: an upper end that extends to the end
// of the key space is a Range with a nil Max (see NewUnboundedRange).
var (
	MinKey = Key(nil)
)

// Range is a half-open key interval [Min, Max). A nil Max is a dedicated
// sentinel meaning "unbounded" (extends to the end of the key space) — a
// real upper bound is never legitimately empty, since that would make the
// interval contain nothing. The zero Range (nil Min, nil Max) is invalid
// except as this unbounded-from-the-start-of-the-keyspace marker.
type Range struct {
	Min Key
	Max Key
}

// NewRange builds a bounded Range, cloning both keys so the caller's
// backing arrays can be reused or mutated afterwards.
func NewRange(min, max Key) Range {
	return Range{Min: min.Clone(), Max: max.Clone()}
}

// NewUnboundedRange builds a Range extending from min to the end of the key
// space.
func NewUnboundedRange(min Key) Range {
	return Range{Min: min.Clone(), Max: nil}
}

// Unbounded reports whether r has no upper bound.
func (r Range) Unbounded() bool {
	return r.Max == nil
}

// Contains reports whether key falls in [r.Min, r.Max).
func (r Range) Contains(key Key) bool {
	if r.Min.Compare(key) > 0 {
		return false
	}
	if r.Unbounded() {
		return true
	}
	return key.Compare(r.Max) < 0
}

// Overlaps reports whether r and other share any key. Two half-open ranges
// overlap iff each one's minimum is strictly less than the other's maximum
// (an unbounded maximum counts as strictly greater than everything).
func (r Range) Overlaps(other Range) bool {
	rMinBeforeOtherMax := other.Unbounded() || r.Min.Compare(other.Max) < 0
	otherMinBeforeRMax := r.Unbounded() || other.Min.Compare(r.Max) < 0
	return rMinBeforeOtherMax && otherMinBeforeRMax
}

func (r Range) String() string {
	if r.Unbounded() {
		return "[" + r.Min.String() + ", +inf)"
	}
	return "[" + r.Min.String() + ", " + r.Max.String() + ")"
}
