// Copyright 2025 The callprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package api implements the profiler context object behind the public
// prof package.
//
// A Profiler ties together the registry, the clock, the per-goroutine log
// cache and the call-site resolver. Its capture methods are HOT PATHS:
//
// Flow of Begin/End:
//  1. Check the enabled gate (single atomic load); return if off
//  2. Find the calling goroutine's log, creating and registering it on
//     first use (the only step that may lock)
//  3. Read the clock
//  4. Append the event to the log's tail page
//
// Performance:
//   - disabled: one atomic load
//   - Recorder.Begin/End: clock read + append, zero allocations
//   - Profiler.Begin/End: adds a goroutine ID lookup (~1µs), still zero
//     allocations
//
// Lifecycle: New → Init → record → (quiesce producers) → Reconstruct →
// Teardown. Nothing enforces quiescence; it is the caller's contract.
package api

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/kolkov/callprof/internal/config"
	"github.com/kolkov/callprof/internal/log"
	"github.com/kolkov/callprof/internal/prof/callsite"
	"github.com/kolkov/callprof/internal/prof/capture"
	"github.com/kolkov/callprof/internal/prof/clock"
	"github.com/kolkov/callprof/internal/prof/goid"
	"github.com/kolkov/callprof/internal/prof/registry"
	"github.com/kolkov/callprof/internal/prof/trace"
)

// Token identifies an open region. It is a plain value returned by Begin
// and handed back to End; it closes nothing by itself.
type Token struct {
	Tag  string
	Site callsite.PC
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithClock replaces the monotonic clock.
func WithClock(c clock.Clock) Option {
	return func(p *Profiler) { p.clock = c }
}

// WithResolver replaces the call-site resolver.
func WithResolver(r callsite.Resolver) Option {
	return func(p *Profiler) { p.resolver = r }
}

// WithLogger replaces the diagnostics logger.
func WithLogger(l log.Logger) Option {
	return func(p *Profiler) { p.logger = l }
}

// Profiler is an explicitly constructed profiling context.
//
// Thread Safety: capture methods are safe for concurrent use from any
// goroutine. Init, Reconstruct and Teardown must not race with capture.
type Profiler struct {
	reg      *registry.Registry
	clock    clock.Clock
	resolver callsite.Resolver
	logger   log.Logger
	cfg      config.Config

	// logs maps goroutine IDs to their *capture.Log.
	// sync.Map: written once per goroutine, read on every event.
	logs sync.Map

	// epoch advances whenever Init or Teardown drops the log cache, so
	// recorders bound to a dropped log rebind on their next event.
	epoch atomic.Uint64
}

// New creates a profiler from cfg. The capture gate stays closed until
// Init is called.
func New(cfg config.Config, opts ...Option) (*Profiler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Profiler{
		clock:  clock.NewMonotonic(),
		logger: log.Default().Wrap(cfg.Log.Options()...),
		cfg:    cfg,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.resolver == nil {
		depot, err := callsite.NewDepot(cfg.ModuleRoot)
		if err != nil {
			return nil, fmt.Errorf("module root: %w", err)
		}
		p.resolver = depot
	}

	p.reg = registry.New(p.logger)

	return p, nil
}

// Config returns the configuration the profiler was created with.
func (p *Profiler) Config() config.Config {
	return p.cfg
}

// Init records the start instant, sets the capture gate and forgets every
// previously registered log.
func (p *Profiler) Init(enabled bool) {
	p.logs.Clear()
	p.epoch.Add(1)
	p.reg.Init(enabled, p.clock.Now())

	p.logger.Debug("profiler initialized",
		slog.Bool("enabled", enabled),
		slog.Int("page_capacity", p.cfg.PageCapacity),
	)
}

// SetEnabled opens or closes the capture gate. Captured data is kept.
func (p *Profiler) SetEnabled(enabled bool) {
	p.reg.SetEnabled(enabled)
}

// Enabled reports whether the capture gate is open.
func (p *Profiler) Enabled() bool {
	return p.reg.Enabled()
}

// Begin records an Enter for tag at the caller's call site.
//
// Begin and End must be called in strict LIFO order per goroutine. There
// is no automatic scope exit: `defer p.End(p.Begin("x"))` is only valid as
// the sole deferred call of its function, since other deferred calls
// could otherwise run between a child's End and its parent's.
//
//go:noinline
func (p *Profiler) Begin(tag string) Token {
	if !p.reg.Enabled() {
		return Token{Tag: tag}
	}
	return p.BeginAt(tag, callsite.Caller(0))
}

// BeginAt records an Enter for tag at an explicit call site.
func (p *Profiler) BeginAt(tag string, site callsite.PC) Token {
	if !p.reg.Enabled() {
		return Token{Tag: tag, Site: site}
	}

	l := p.current()
	l.Append(capture.Enter, tag, site, p.clock.Now())

	return Token{Tag: tag, Site: site}
}

// End records the Exit matching tok on the calling goroutine.
func (p *Profiler) End(tok Token) {
	if !p.reg.Enabled() {
		return
	}

	// Read the clock before the log lookup so the lookup is not
	// attributed to the closing region.
	now := p.clock.Now()
	p.current().Append(capture.Exit, tok.Tag, tok.Site, now)
}

// Recorder returns a handle bound to the calling goroutine's log. It
// skips the per-event goroutine lookup and must only be used by the
// goroutine that created it. After Init or Teardown the recorder rebinds
// to a freshly registered log on its next event.
func (p *Profiler) Recorder() *Recorder {
	r := &Recorder{p: p}
	r.bind()
	return r
}

// Reconstruct replays every registered log and returns the aggregated
// result.
//
// Precondition: every producer goroutine has stopped recording (e.g. has
// been joined). Reconstruct holds the registry mutex, which blocks new
// registrations but not appends to existing logs.
func (p *Profiler) Reconstruct() trace.Result {
	var res trace.Result

	p.reg.View(func(start int64, logs []*capture.Log) {
		res = trace.Reconstruct(start, logs, trace.NewNames(p.resolver))
	})

	p.logger.Debug("trace reconstructed",
		slog.Int("functions", len(res.Stats)),
		slog.Int("threads", len(res.Threads)),
		slog.Int("spans", res.SpanCount()),
		slog.Duration("extent", res.Extent),
	)

	if !res.Diagnostics.Clean() {
		p.logger.Debug("malformed trace input ignored",
			slog.Int("dropped_exits", res.Diagnostics.DroppedExits),
			slog.Int("unclosed_enters", res.Diagnostics.UnclosedEnters),
		)
	}

	return res
}

// Stats summarizes captured data.
func (p *Profiler) Stats() registry.Stats {
	return p.reg.Stats()
}

// Teardown releases every page and log.
//
// Precondition: no goroutine is recording. With the gate still open,
// capture after Teardown lazily registers fresh logs, for recorders too.
func (p *Profiler) Teardown() {
	p.reg.Teardown()
	p.logs.Clear()
	p.epoch.Add(1)
}

// current returns the calling goroutine's log, creating and registering
// it on first use.
func (p *Profiler) current() *capture.Log {
	gid := goid.Current()

	// Fast path: lock-free load for known goroutines.
	if val, ok := p.logs.Load(gid); ok {
		return val.(*capture.Log)
	}

	// Slow path: once per goroutine. Only the owning goroutine stores
	// under its own ID, so there is no store race for gid.
	l := capture.NewLog(gid, p.cfg.PageCapacity)
	p.logs.Store(gid, l)
	p.reg.Register(l)

	return l
}
