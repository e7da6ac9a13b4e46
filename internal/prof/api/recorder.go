// Copyright 2025 The callprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"github.com/kolkov/callprof/internal/prof/callsite"
	"github.com/kolkov/callprof/internal/prof/capture"
)

// Recorder records into one goroutine's log without looking it up.
//
// Thread Safety: NOT safe for concurrent use. A Recorder belongs to the
// goroutine that obtained it from Profiler.Recorder.
type Recorder struct {
	p     *Profiler
	log   *capture.Log
	epoch uint64
}

// bind looks up the calling goroutine's log and records the profiler epoch
// it belongs to.
func (r *Recorder) bind() {
	r.epoch = r.p.epoch.Load()
	r.log = r.p.current()
}

// current returns the bound log, rebinding if Init or Teardown dropped it.
func (r *Recorder) current() *capture.Log {
	if r.epoch != r.p.epoch.Load() {
		r.bind()
	}
	return r.log
}

// Begin records an Enter for tag at the caller's call site.
//
// Zero allocations within a page.
//
//go:noinline
func (r *Recorder) Begin(tag string) Token {
	if !r.p.reg.Enabled() {
		return Token{Tag: tag}
	}

	site := callsite.Caller(0)
	r.current().Append(capture.Enter, tag, site, r.p.clock.Now())

	return Token{Tag: tag, Site: site}
}

// End records the Exit matching tok.
func (r *Recorder) End(tok Token) {
	if !r.p.reg.Enabled() {
		return
	}
	now := r.p.clock.Now()
	r.current().Append(capture.Exit, tok.Tag, tok.Site, now)
}

// ID returns the goroutine ID the recorder is bound to.
func (r *Recorder) ID() int64 {
	return r.current().ID()
}
