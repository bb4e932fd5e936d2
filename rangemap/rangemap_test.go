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

package rangemap

import (
	"testing"

	"github.com/dolbyover/shardmeta/shardkey"
	"github.com/stretchr/testify/require"
)

// k left-pads short test keys with '0' to three bytes, so that byte-wise
// key order matches the numeric order of decimal keys ("005" < "010").
func k(s string) shardkey.Key {
	for len(s) < 3 {
		s = "0" + s
	}
	return shardkey.Key(s)
}

func TestInsertKeepsSortedOrder(t *testing.T) {
	m := New()
	m.Insert(k("5"), k("10"))
	m.Insert(k("0"), k("5"))
	m.Insert(k("10"), k("15"))

	ranges := m.Ranges()
	require.Len(t, ranges, 3)
	require.Equal(t, k("0"), ranges[0].Min)
	require.Equal(t, k("5"), ranges[1].Min)
	require.Equal(t, k("10"), ranges[2].Min)
}

func TestRemove(t *testing.T) {
	m := New()
	m.Insert(k("0"), k("5"))
	m.Insert(k("5"), k("10"))

	require.True(t, m.Remove(k("0")))
	require.False(t, m.Remove(k("0")))
	require.Equal(t, 1, m.Len())
}

func TestOverlaps(t *testing.T) {
	m := New()
	m.Insert(k("0"), k("10"))
	m.Insert(k("20"), k("30"))

	require.True(t, m.Overlaps(shardkey.NewRange(k("5"), k("15"))))
	require.True(t, m.Overlaps(shardkey.NewRange(k("25"), k("35"))))
	require.False(t, m.Overlaps(shardkey.NewRange(k("10"), k("20"))))
}

func TestRemoveOverlapping(t *testing.T) {
	m := New()
	m.Insert(k("0"), k("10"))
	m.Insert(k("10"), k("20"))
	m.Insert(k("30"), k("40"))

	removed := m.RemoveOverlapping(shardkey.NewRange(k("5"), k("15")))
	require.Len(t, removed, 2)
	require.Equal(t, 1, m.Len())
	require.Equal(t, k("30"), m.Ranges()[0].Min)
}

func TestClear(t *testing.T) {
	m := New()
	m.Insert(k("0"), k("10"))
	m.Clear()
	require.Equal(t, 0, m.Len())
}
