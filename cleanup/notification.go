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
	"sync"
)

// Notification is a one-shot, multi-waiter completion signal. Any number
// of goroutines may call Wait concurrently; all of them observe the same
// result once Fire is called exactly once. Firing more than once panics,
// since a double-fire would indicate the same pending deletion was
// resolved twice — a bookkeeping bug this package should surface loudly
// rather than silently ignore.
type Notification struct {
	done chan struct{}
	mu   sync.Mutex
	err  error
	// fired guards against a second Fire under mu, in addition to the
	// channel-close panic Go already gives us for free.
	fired bool
}

// NewNotification returns a ready-to-wait, unfired Notification.
func NewNotification() *Notification {
	return &Notification{done: make(chan struct{})}
}

// Fire resolves the notification with err (nil means success) and wakes
// every current and future waiter. Calling Fire twice on the same
// Notification is a programming error and panics.
func (n *Notification) Fire(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fired {
		panic("cleanup: Notification fired more than once")
	}
	n.fired = true
	n.err = err
	close(n.done)
}

// Fired reports whether Fire has already been called.
func (n *Notification) Fired() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.fired
}

// Wait blocks until the notification fires or ctx is done, whichever comes
// first. It returns the error the notification was fired with (nil on
// success), or ctx.Err() if the context is the one that unblocked Wait.
func (n *Notification) Wait(ctx context.Context) error {
	select {
	case <-n.done:
		n.mu.Lock()
		defer n.mu.Unlock()
		return n.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns the underlying channel, closed exactly once when Fire runs,
// for callers that want to select on it directly alongside other cases.
func (n *Notification) Done() <-chan struct{} {
	return n.done
}
