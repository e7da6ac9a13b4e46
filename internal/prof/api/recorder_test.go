// Copyright 2025 The callprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package api

import (
	"testing"

	"github.com/kolkov/callprof/internal/config"
	"github.com/kolkov/callprof/internal/log"
	"github.com/kolkov/callprof/internal/prof/goid"
)

// TestRecorder_SharesLog verifies a recorder and the lookup path write
// into the same goroutine log.
func TestRecorder_SharesLog(t *testing.T) {
	p, clk := newTestProfiler(t)
	p.Init(true)
	defer p.Teardown()

	r := p.Recorder()
	if r.ID() != goid.Current() {
		t.Errorf("ID = %d, want %d", r.ID(), goid.Current())
	}

	outer := r.Begin("outer")
	clk.Advance(10)
	inner := p.Begin("inner")
	clk.Advance(20)
	p.End(inner)
	clk.Advance(5)
	r.End(outer)

	if st := p.Stats(); st.Logs != 1 {
		t.Errorf("Logs = %d, want 1", st.Logs)
	}

	res := p.Reconstruct()
	if s := statByTag(t, res, "outer"); s.Total != 35 || s.Self != 15 {
		t.Errorf("outer = %+v, want total=35 self=15", s)
	}
	if s := statByTag(t, res, "inner"); s.Total != 20 {
		t.Errorf("inner = %+v, want total=20", s)
	}
}

// TestRecorder_Disabled verifies the recorder honors the gate.
func TestRecorder_Disabled(t *testing.T) {
	p, _ := newTestProfiler(t)
	p.Init(true)
	defer p.Teardown()

	r := p.Recorder()
	p.SetEnabled(false)
	r.End(r.Begin("x"))

	if st := p.Stats(); st.Events != 0 {
		t.Errorf("Events = %d, want 0", st.Events)
	}
}

// TestRecorder_ZeroAlloc verifies Begin/End do not allocate within a page.
func TestRecorder_ZeroAlloc(t *testing.T) {
	p, err := New(config.Default(), WithLogger(log.Discard()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.Init(true)
	defer p.Teardown()

	r := p.Recorder()
	allocs := testing.AllocsPerRun(1000, func() {
		r.End(r.Begin("hot"))
	})
	if allocs != 0 {
		t.Errorf("allocs per Begin/End = %v, want 0", allocs)
	}
}

// TestProfiler_ZeroAlloc verifies the goroutine lookup path does not
// allocate once the calling goroutine's log exists.
func TestProfiler_ZeroAlloc(t *testing.T) {
	p, err := New(config.Default(), WithLogger(log.Discard()))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.Init(true)
	defer p.Teardown()

	p.End(p.Begin("warm"))

	allocs := testing.AllocsPerRun(1000, func() {
		p.End(p.Begin("hot"))
	})
	if allocs != 0 {
		t.Errorf("allocs per Begin/End = %v, want 0", allocs)
	}
}

// TestRecorder_RebindsAfterInit verifies a recorder obtained before a
// re-Init records into the log the new session reconstructs.
func TestRecorder_RebindsAfterInit(t *testing.T) {
	p, clk := newTestProfiler(t)
	p.Init(true)
	defer p.Teardown()

	r := p.Recorder()
	r.End(r.Begin("old"))

	p.Init(true)
	clk.Set(100)
	tok := r.Begin("new")
	clk.Advance(7)
	r.End(tok)

	if st := p.Stats(); st.Logs != 1 || st.Events != 2 {
		t.Errorf("Stats = %+v, want 1 log with 2 events", st)
	}

	res := p.Reconstruct()
	if len(res.Stats) != 1 {
		t.Fatalf("got %d statistics, want 1", len(res.Stats))
	}
	if s := statByTag(t, res, "new"); s.Calls != 1 || s.Total != 7 {
		t.Errorf("new = %+v, want calls=1 total=7", s)
	}
}

// TestRecorder_RebindsAfterTeardown verifies a recorder keeps capturing
// into a freshly registered log after Teardown.
func TestRecorder_RebindsAfterTeardown(t *testing.T) {
	p, _ := newTestProfiler(t)
	p.Init(true)

	r := p.Recorder()
	r.End(r.Begin("before"))
	p.Teardown()

	r.End(r.Begin("after"))
	defer p.Teardown()

	if st := p.Stats(); st.Logs != 1 || st.Events != 2 {
		t.Errorf("Stats = %+v, want 1 log with 2 events", st)
	}
	if r.ID() != goid.Current() {
		t.Errorf("ID = %d, want %d", r.ID(), goid.Current())
	}
}

func BenchmarkRecorder_BeginEnd(b *testing.B) {
	p, err := New(config.Default(), WithLogger(log.Discard()))
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	p.Init(true)
	defer p.Teardown()

	r := p.Recorder()
	b.ReportAllocs()
	for b.Loop() {
		r.End(r.Begin("bench"))
	}
}

func BenchmarkProfiler_BeginEnd(b *testing.B) {
	p, err := New(config.Default(), WithLogger(log.Discard()))
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	p.Init(true)
	defer p.Teardown()

	b.ReportAllocs()
	for b.Loop() {
		p.End(p.Begin("bench"))
	}
}

func BenchmarkProfiler_Disabled(b *testing.B) {
	p, err := New(config.Default(), WithLogger(log.Discard()))
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	p.Init(false)

	b.ReportAllocs()
	for b.Loop() {
		p.End(p.Begin("bench"))
	}
}
