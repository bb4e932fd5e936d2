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
	"errors"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// goroutineExecutor runs each scheduled task on its own goroutine, standing
// in for a real worker pool so the driver's backoff/retry behavior can be
// observed end to end.
type goroutineExecutor struct{}

func (goroutineExecutor) Schedule(fn func()) {
	go fn()
}

func TestCleanupDriverRetriesAfterError(t *testing.T) {
	defer leaktest.Check(t)()

	deleter := newFakeDeleter()
	deleter.setResult(false, errors.New("transient failure"))

	opts := NewOptions().
		SetExecutor(goroutineExecutor{}).
		SetDeleter(deleter).
		SetCleanupMinBackoff(time.Millisecond).
		SetCleanupMaxBackoff(5 * time.Millisecond)
	m, err := NewManager("retry.collection", opts)
	require.NoError(t, err)

	m1 := buildMap(uuid.New(), 1, 1, []byteRange{{0, 10}})
	m.Refresh(m1, true)
	m2 := buildMap(m1.Epoch(), 2, 2, nil)
	m.Refresh(m2, true)

	n, err := m.CleanUpRange(rng(0, 10))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return deleter.callCount() >= 3
	}, time.Second, time.Millisecond)

	deleter.setResult(true, nil)
	require.NoError(t, n.Wait(context.Background()))

	m.Close()
}

func TestCleanupDriverStopsWhenQueueDrains(t *testing.T) {
	defer leaktest.Check(t)()

	deleter := newFakeDeleter() // default: exhausted, no error
	m := newTestManager(goroutineExecutor{}, deleter)

	m1 := buildMap(uuid.New(), 1, 1, []byteRange{{0, 10}})
	m.Refresh(m1, true)
	m2 := buildMap(m1.Epoch(), 2, 2, nil)
	m.Refresh(m2, true)

	n, err := m.CleanUpRange(rng(0, 10))
	require.NoError(t, err)
	require.NoError(t, n.Wait(context.Background()))
	require.Equal(t, 0, m.NumberOfRangesToClean())

	m.Close()
}
