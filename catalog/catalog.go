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

// Package catalog wraps the external chunk-map collaborator with a bounded
// cache, so a shard hosting many sharded collections does not issue a
// catalog round trip on every refresh tick for every collection it hosts.
package catalog

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/dolbyover/shardmeta/chunkmap"
)

// Source is the external catalog collaborator: given a collection name it
// returns the current chunk map, or ok=false if the collection is not
// sharded.
type Source interface {
	FetchChunkMap(ctx context.Context, collection string) (chunkmap.ChunkMap, bool, error)
}

type entry struct {
	chunkMap chunkmap.ChunkMap
	ok       bool
}

// Cache is a Source wrapping another Source with an LRU of the most
// recently fetched chunk maps. It does not itself decide when a cached
// entry goes stale with respect to the real catalog — callers that learn of
// a change out of band (a watch, an explicit refresh trigger) call
// Invalidate; everyone else gets whatever was last fetched.
type Cache struct {
	source Source

	mu    sync.Mutex
	cache *lru.Cache
}

// NewCache wraps source with an LRU holding up to size collections' worth
// of chunk maps.
func NewCache(source Source, size int) (*Cache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{source: source, cache: c}, nil
}

// FetchChunkMap returns the cached chunk map for collection if present,
// otherwise fetches it from the wrapped Source and caches the result
// (including a negative "not sharded" result, so a shard with many
// never-sharded collection names does not hammer the catalog either).
func (c *Cache) FetchChunkMap(ctx context.Context, collection string) (chunkmap.ChunkMap, bool, error) {
	c.mu.Lock()
	if v, hit := c.cache.Get(collection); hit {
		c.mu.Unlock()
		e := v.(entry)
		return e.chunkMap, e.ok, nil
	}
	c.mu.Unlock()

	cm, ok, err := c.source.FetchChunkMap(ctx, collection)
	if err != nil {
		return chunkmap.ChunkMap{}, false, errors.Wrapf(err, "fetching chunk map for collection %s", collection)
	}

	c.mu.Lock()
	c.cache.Add(collection, entry{chunkMap: cm, ok: ok})
	c.mu.Unlock()
	return cm, ok, nil
}

// Invalidate drops any cached entry for collection, forcing the next
// FetchChunkMap call to go to the wrapped Source.
func (c *Cache) Invalidate(collection string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Remove(collection)
}
