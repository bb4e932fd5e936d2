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

// Package rangemap implements a sorted, overlap-checked map from
// shardkey.Key to shardkey.Key, used everywhere this codebase needs to hold
// a set of half-open ranges: the manager's receiving set and a ChunkMap's
// owned chunks.
package rangemap

import (
	"sort"

	"github.com/dolbyover/shardmeta/shardkey"
)

// Map holds min -> max entries sorted by min. It does not enforce that
// entries are disjoint. Manager.BeginReceive, which fills the receiving
// set, checks a new range against owned chunks only, not against ranges
// already in the set.
type Map struct {
	entries []entry
}

type entry struct {
	min shardkey.Key
	max shardkey.Key
}

// New returns an empty Map.
func New() *Map {
	return &Map{}
}

// Len returns the number of ranges in the map.
func (m *Map) Len() int {
	return len(m.entries)
}

// Insert adds min -> max. Insert does not check for overlap with existing
// entries or for duplicate minimums; callers must call Overlaps first if
// that matters for their invariants.
func (m *Map) Insert(min, max shardkey.Key) {
	r := entry{min: min.Clone(), max: max.Clone()}
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].min.Compare(min) >= 0
	})
	m.entries = append(m.entries, entry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = r
}

// Remove deletes the entry whose minimum equals min, if one exists, and
// reports whether it was found.
func (m *Map) Remove(min shardkey.Key) bool {
	i := m.indexOf(min)
	if i < 0 {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	return true
}

func (m *Map) indexOf(min shardkey.Key) int {
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].min.Compare(min) >= 0
	})
	if i < len(m.entries) && m.entries[i].min.Equal(min) {
		return i
	}
	return -1
}

// Clear empties the map.
func (m *Map) Clear() {
	m.entries = nil
}

// Overlaps reports whether r overlaps any range currently stored.
func (m *Map) Overlaps(r shardkey.Range) bool {
	for _, e := range m.entries {
		if r.Overlaps(shardkey.Range{Min: e.min, Max: e.max}) {
			return true
		}
	}
	return false
}

// Ranges returns every stored range sorted by minimum key. The returned
// slice is a fresh copy; mutating it does not affect the map.
func (m *Map) Ranges() []shardkey.Range {
	out := make([]shardkey.Range, len(m.entries))
	for i, e := range m.entries {
		out[i] = shardkey.Range{Min: e.min, Max: e.max}
	}
	return out
}

// RemoveOverlapping deletes every entry overlapping r and returns the
// removed ranges.
func (m *Map) RemoveOverlapping(r shardkey.Range) []shardkey.Range {
	var removed []shardkey.Range
	kept := m.entries[:0]
	for _, e := range m.entries {
		er := shardkey.Range{Min: e.min, Max: e.max}
		if r.Overlaps(er) {
			removed = append(removed, er)
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed
}
