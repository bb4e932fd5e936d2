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

package cleanup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dolbyover/shardmeta/shardkey"
)

// k left-pads short test keys with '0' to three bytes, so that byte-wise
// key order matches the numeric order of decimal keys ("005" < "010").
func k(s string) shardkey.Key {
	for len(s) < 3 {
		s = "0" + s
	}
	return shardkey.Key(s)
}

func TestAddReportsWasEmpty(t *testing.T) {
	q := NewQueue()
	d1 := Deletion{Range: shardkey.NewRange(k("0"), k("10")), Notification: NewNotification()}
	require.True(t, q.Add([]Deletion{d1}))

	d2 := Deletion{Range: shardkey.NewRange(k("10"), k("20")), Notification: NewNotification()}
	require.False(t, q.Add([]Deletion{d2}))

	require.Equal(t, 2, q.Size())
}

func TestPopFrontFiresNotification(t *testing.T) {
	q := NewQueue()
	n := NewNotification()
	q.Add([]Deletion{{Range: shardkey.NewRange(k("0"), k("10")), Notification: n}})

	_, ok := q.PopFront(nil)
	require.True(t, ok)
	require.True(t, n.Fired())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, n.Wait(ctx))
}

func TestOverlapsFindsPendingDeletion(t *testing.T) {
	q := NewQueue()
	n := NewNotification()
	q.Add([]Deletion{{Range: shardkey.NewRange(k("0"), k("10")), Notification: n}})

	found, ok := q.Overlaps(shardkey.NewRange(k("5"), k("15")))
	require.True(t, ok)
	require.Same(t, n, found)

	_, ok = q.Overlaps(shardkey.NewRange(k("10"), k("20")))
	require.False(t, ok)
}

func TestClearFiresEveryNotificationWithError(t *testing.T) {
	q := NewQueue()
	n1, n2 := NewNotification(), NewNotification()
	q.Add([]Deletion{
		{Range: shardkey.NewRange(k("0"), k("10")), Notification: n1},
		{Range: shardkey.NewRange(k("10"), k("20")), Notification: n2},
	})

	q.Clear(ErrAborted)
	require.Equal(t, 0, q.Size())

	ctx := context.Background()
	require.ErrorIs(t, n1.Wait(ctx), ErrAborted)
	require.ErrorIs(t, n2.Wait(ctx), ErrAborted)
}

func TestNotificationFireTwicePanics(t *testing.T) {
	n := NewNotification()
	n.Fire(nil)
	require.Panics(t, func() { n.Fire(nil) })
}

func TestNotificationMultiWaiter(t *testing.T) {
	n := NewNotification()
	results := make(chan error, 3)
	for i := 0; i < 3; i++ {
		go func() {
			results <- n.Wait(context.Background())
		}()
	}
	time.Sleep(10 * time.Millisecond)
	n.Fire(nil)
	for i := 0; i < 3; i++ {
		require.NoError(t, <-results)
	}
}
