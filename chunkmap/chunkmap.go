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

// Package chunkmap defines ChunkMap, the immutable value object describing
// the set of key ranges a shard owns at one ownership version. ChunkMap
// values are produced by the catalog collaborator (see the catalog
// package) and consumed read-only by metadata.Manager; nothing in this
// module ever mutates one in place.
package chunkmap

import (
	"sort"

	"github.com/google/uuid"

	"github.com/dolbyover/shardmeta/rangemap"
	"github.com/dolbyover/shardmeta/shardkey"
)

// Version is a monotonically increasing routing version. Versions are only
// comparable within the same Epoch.
type Version uint64

// ChunkMap is immutable once built: Chunks returns a defensive copy and
// every accessor is a pure read of fields set at construction.
type ChunkMap struct {
	epoch        uuid.UUID
	collVersion  Version
	shardVersion Version
	chunks       *rangemap.Map
}

// Builder assembles a ChunkMap incrementally. The zero Builder is usable.
type Builder struct {
	epoch        uuid.UUID
	collVersion  Version
	shardVersion Version
	chunks       *rangemap.Map
}

// NewBuilder starts a Builder for the given epoch and versions.
func NewBuilder(epoch uuid.UUID, collVersion, shardVersion Version) *Builder {
	return &Builder{
		epoch:        epoch,
		collVersion:  collVersion,
		shardVersion: shardVersion,
		chunks:       rangemap.New(),
	}
}

// AddChunk records that the shard owns [min, max) at the builder's version.
// It does not check for overlap with previously added chunks; the catalog
// collaborator is trusted to hand back a consistent chunk set.
func (b *Builder) AddChunk(min, max shardkey.Key) *Builder {
	if b.chunks == nil {
		b.chunks = rangemap.New()
	}
	b.chunks.Insert(min, max)
	return b
}

// Build finalizes the ChunkMap.
func (b *Builder) Build() ChunkMap {
	return ChunkMap{
		epoch:        b.epoch,
		collVersion:  b.collVersion,
		shardVersion: b.shardVersion,
		chunks:       b.chunks,
	}
}

// Empty returns the unsharded ChunkMap: no chunks, no epoch, version zero.
// A Refresh call install this to mean "this collection is not sharded".
func Empty() ChunkMap {
	return ChunkMap{}
}

// IsEmpty reports whether cm represents "not sharded".
func (cm ChunkMap) IsEmpty() bool {
	return cm.chunks == nil || cm.chunks.Len() == 0
}

// Epoch identifies the collection's current incarnation. It changes when
// the collection is dropped and recreated; versions across epochs are
// incomparable.
func (cm ChunkMap) Epoch() uuid.UUID {
	return cm.epoch
}

// CollVersion returns the monotonic version of the whole collection's
// routing table.
func (cm ChunkMap) CollVersion() Version {
	return cm.collVersion
}

// ShardVersion returns this shard's monotonic version.
func (cm ChunkMap) ShardVersion() Version {
	return cm.shardVersion
}

// Chunks returns the owned ranges, sorted by minimum key.
func (cm ChunkMap) Chunks() []shardkey.Range {
	if cm.chunks == nil {
		return nil
	}
	return cm.chunks.Ranges()
}

// RangeOverlapsChunk reports whether r overlaps any chunk this shard owns.
func (cm ChunkMap) RangeOverlapsChunk(r shardkey.Range) bool {
	if cm.chunks == nil {
		return false
	}
	return cm.chunks.Overlaps(r)
}

// GetNextOrphanRange finds the next range at or after fromKey that this
// ChunkMap does not own and that is not present in exclude (typically the
// receiving set, since those ranges are mid-migration and not orphans).
// It returns false if no such range exists before the end of the key
// space (i.e. every remaining key is either owned or receiving).
//
// Owned chunks and the exclude set are merged and sorted by minimum key,
// and the cursor only ever moves forward past an obstacle's maximum, so a
// single left-to-right sweep suffices even where obstacles overlap one
// another: any gap between the cursor and the next obstacle is an orphan
// range.
func (cm ChunkMap) GetNextOrphanRange(exclude *rangemap.Map, fromKey shardkey.Key) (shardkey.Range, bool) {
	obstacles := cm.Chunks()
	if exclude != nil {
		obstacles = append(obstacles, exclude.Ranges()...)
	}
	sort.Slice(obstacles, func(i, j int) bool {
		return obstacles[i].Min.Compare(obstacles[j].Min) < 0
	})

	cursor := fromKey.Clone()
	for _, o := range obstacles {
		if !o.Unbounded() && o.Max.Compare(cursor) <= 0 {
			continue // entirely behind the cursor already
		}
		if o.Min.Compare(cursor) > 0 {
			// gap between cursor and this obstacle
			return shardkey.NewRange(cursor, o.Min), true
		}
		// obstacle covers the cursor; skip past it
		if o.Unbounded() {
			return shardkey.Range{}, false
		}
		if o.Max.Compare(cursor) > 0 {
			cursor = o.Max.Clone()
		}
	}
	// nothing left to obstruct the remainder of the key space
	return shardkey.NewUnboundedRange(cursor), true
}
