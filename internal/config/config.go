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

// Package config is a thin example loader binding a Manager's tunables from
// a YAML file with go.uber.org/config, for host processes that want file-
// based configuration. The metadata package itself has no on-disk format
// opinion; this package exists purely as an adapter a host may or may not
// use.
package config

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/config"

	"github.com/dolbyover/shardmeta/metadata"
)

// FileOptions is the on-disk shape of the tunables a host may want to
// override. It never carries the Logger, Scope, Executor or Deleter, which
// are always supplied programmatically by the host process.
type FileOptions struct {
	MaxCleanupBatchSize int           `yaml:"maxCleanupBatchSize"`
	CleanupMinBackoff   time.Duration `yaml:"cleanupMinBackoff"`
	CleanupMaxBackoff   time.Duration `yaml:"cleanupMaxBackoff"`
}

// Load reads YAML from r and layers any values it sets on top of base,
// returning the resulting Options. Zero values in the file are treated as
// "not set" and leave base's value in place.
func Load(r io.Reader, base metadata.Options) (metadata.Options, error) {
	provider, err := config.NewYAML(config.Source(r))
	if err != nil {
		return nil, errors.Wrap(err, "loading yaml config source")
	}

	var fo FileOptions
	if err := provider.Get(config.Root).Populate(&fo); err != nil {
		return nil, errors.Wrap(err, "populating file options from config")
	}

	opts := base
	if fo.MaxCleanupBatchSize > 0 {
		opts = opts.SetMaxCleanupBatchSize(fo.MaxCleanupBatchSize)
	}
	if fo.CleanupMinBackoff > 0 {
		opts = opts.SetCleanupMinBackoff(fo.CleanupMinBackoff)
	}
	if fo.CleanupMaxBackoff > 0 {
		opts = opts.SetCleanupMaxBackoff(fo.CleanupMaxBackoff)
	}
	return opts, nil
}
