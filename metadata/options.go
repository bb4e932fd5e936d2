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
	"fmt"
	"time"

	"github.com/uber-go/tally"
	"go.uber.org/zap"
)

const (
	defaultMaxCleanupBatchSize = 128
	defaultCleanupMinBackoff   = 50 * time.Millisecond
	defaultCleanupMaxBackoff   = 30 * time.Second
)

// Executor schedules a deferred task with no ordering guarantee beyond
// FIFO-per-single-enqueuer. The cleanup driver uses it to run without ever
// taking the manager lock.
type Executor interface {
	Schedule(fn func())
}

// Options configures a Manager. It follows this codebase's immutable,
// fluent options convention: NewOptions returns a value with defaults
// applied, each SetX method returns a modified copy, and Validate is
// called once by NewManager before the options are trusted.
type Options interface {
	Validate() error

	SetLogger(l *zap.Logger) Options
	Logger() *zap.Logger

	SetScope(s tally.Scope) Options
	Scope() tally.Scope

	SetExecutor(e Executor) Options
	Executor() Executor

	SetDeleter(d Deleter) Options
	Deleter() Deleter

	SetMaxCleanupBatchSize(n int) Options
	MaxCleanupBatchSize() int

	SetCleanupMinBackoff(d time.Duration) Options
	CleanupMinBackoff() time.Duration

	SetCleanupMaxBackoff(d time.Duration) Options
	CleanupMaxBackoff() time.Duration
}

type options struct {
	logger      *zap.Logger
	scope       tally.Scope
	executor    Executor
	deleter     Deleter
	maxBatch    int
	minBackoff  time.Duration
	maxBackoff  time.Duration
}

// NewOptions returns an Options with sane defaults: a no-op logger, a
// no-op metrics scope, and the batch/backoff tunables from §4.6 of the
// design. Executor and Deleter have no usable default; Validate rejects an
// Options that has not had both set.
func NewOptions() Options {
	return options{
		logger:     zap.NewNop(),
		scope:      tally.NoopScope,
		maxBatch:   defaultMaxCleanupBatchSize,
		minBackoff: defaultCleanupMinBackoff,
		maxBackoff: defaultCleanupMaxBackoff,
	}
}

func (o options) Validate() error {
	if o.executor == nil {
		return fmt.Errorf("metadata: Options.Executor is not set")
	}
	if o.deleter == nil {
		return fmt.Errorf("metadata: Options.Deleter is not set")
	}
	if o.maxBatch <= 0 {
		return fmt.Errorf("metadata: Options.MaxCleanupBatchSize must be positive, got %d", o.maxBatch)
	}
	if o.minBackoff <= 0 || o.maxBackoff < o.minBackoff {
		return fmt.Errorf("metadata: invalid cleanup backoff window [%s, %s]", o.minBackoff, o.maxBackoff)
	}
	return nil
}

func (o options) SetLogger(l *zap.Logger) Options { o.logger = l; return o }
func (o options) Logger() *zap.Logger             { return o.logger }

func (o options) SetScope(s tally.Scope) Options { o.scope = s; return o }
func (o options) Scope() tally.Scope             { return o.scope }

func (o options) SetExecutor(e Executor) Options { o.executor = e; return o }
func (o options) Executor() Executor             { return o.executor }

func (o options) SetDeleter(d Deleter) Options { o.deleter = d; return o }
func (o options) Deleter() Deleter             { return o.deleter }

func (o options) SetMaxCleanupBatchSize(n int) Options { o.maxBatch = n; return o }
func (o options) MaxCleanupBatchSize() int             { return o.maxBatch }

func (o options) SetCleanupMinBackoff(d time.Duration) Options { o.minBackoff = d; return o }
func (o options) CleanupMinBackoff() time.Duration             { return o.minBackoff }

func (o options) SetCleanupMaxBackoff(d time.Duration) Options { o.maxBackoff = d; return o }
func (o options) CleanupMaxBackoff() time.Duration             { return o.maxBackoff }
