// Copyright 2025 The callprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"sync/atomic"

	"github.com/kolkov/callprof/internal/config"
)

// def is the profiler behind the package-level prof functions.
// It is created closed; prof.Init opens it.
var def atomic.Pointer[Profiler]

func init() {
	p, err := New(config.Default())
	if err != nil {
		// The default configuration is always valid.
		panic(err)
	}
	def.Store(p)
}

// Default returns the package-level profiler.
func Default() *Profiler {
	return def.Load()
}

// SetDefault replaces the package-level profiler. The previous profiler is
// returned untouched; tear it down separately if needed.
func SetDefault(p *Profiler) *Profiler {
	return def.Swap(p)
}
