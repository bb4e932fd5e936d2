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

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dolbyover/shardmeta/chunkmap"
)

type fakeSource struct {
	calls int
	cm    chunkmap.ChunkMap
	ok    bool
	err   error
}

func (f *fakeSource) FetchChunkMap(_ context.Context, _ string) (chunkmap.ChunkMap, bool, error) {
	f.calls++
	return f.cm, f.ok, f.err
}

func TestCacheHitsAfterFirstFetch(t *testing.T) {
	src := &fakeSource{cm: chunkmap.NewBuilder(uuid.New(), 1, 1).Build(), ok: true}
	c, err := NewCache(src, 8)
	require.NoError(t, err)

	_, ok, err := c.FetchChunkMap(context.Background(), "orders")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = c.FetchChunkMap(context.Background(), "orders")
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, 1, src.calls)
}

func TestCacheCachesNegativeResult(t *testing.T) {
	src := &fakeSource{ok: false}
	c, err := NewCache(src, 8)
	require.NoError(t, err)

	_, ok, err := c.FetchChunkMap(context.Background(), "orders")
	require.NoError(t, err)
	require.False(t, ok)

	_, _, _ = c.FetchChunkMap(context.Background(), "orders")
	require.Equal(t, 1, src.calls)
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("catalog unavailable")}
	c, err := NewCache(src, 8)
	require.NoError(t, err)

	_, _, err = c.FetchChunkMap(context.Background(), "orders")
	require.Error(t, err)
	_, _, err = c.FetchChunkMap(context.Background(), "orders")
	require.Error(t, err)

	require.Equal(t, 2, src.calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	src := &fakeSource{ok: true}
	c, err := NewCache(src, 8)
	require.NoError(t, err)

	_, _, _ = c.FetchChunkMap(context.Background(), "orders")
	c.Invalidate("orders")
	_, _, _ = c.FetchChunkMap(context.Background(), "orders")

	require.Equal(t, 2, src.calls)
}
