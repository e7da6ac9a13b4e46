// Copyright 2025 The callprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prof

import (
	"log/slog"

	"github.com/kolkov/callprof/internal/config"
	"github.com/kolkov/callprof/internal/log"
	internal "github.com/kolkov/callprof/internal/prof/api"
	"github.com/kolkov/callprof/internal/prof/callsite"
	"github.com/kolkov/callprof/internal/prof/clock"
	"github.com/kolkov/callprof/internal/prof/registry"
	"github.com/kolkov/callprof/internal/prof/trace"
)

type (
	// Token identifies an open region; pass it to End.
	Token = internal.Token

	// Profiler is an explicitly constructed profiling context.
	Profiler = internal.Profiler

	// Recorder records into one goroutine's log without looking it up.
	Recorder = internal.Recorder

	// Result is the output of Reconstruct.
	Result = trace.Result

	// Statistic aggregates every call of one function.
	Statistic = trace.Statistic

	// Span is one closed call.
	Span = trace.Span

	// Thread groups one goroutine's spans.
	Thread = trace.Thread

	// Diagnostics counts malformed input ignored by Reconstruct.
	Diagnostics = trace.Diagnostics

	// CaptureStats summarizes captured data.
	CaptureStats = registry.Stats

	// Config holds profiler tunables.
	Config = config.Config

	// Clock is a monotonic nanosecond time source.
	Clock = clock.Clock

	// Resolver maps call-site PCs to source locations.
	Resolver = callsite.Resolver
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// Option configures New.
type Option func(*options)

type options struct {
	cfg  config.Config
	opts []internal.Option
}

// WithConfig sets the configuration. The default is DefaultConfig().
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithClock replaces the monotonic clock, e.g. with a manual clock in
// tests.
func WithClock(c Clock) Option {
	return func(o *options) { o.opts = append(o.opts, internal.WithClock(c)) }
}

// WithResolver replaces the call-site resolver.
func WithResolver(r Resolver) Option {
	return func(o *options) { o.opts = append(o.opts, internal.WithResolver(r)) }
}

// WithLogger replaces the diagnostics logger. By default the profiler
// logs to stderr at the configured level. A nil logger silences it.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.opts = append(o.opts, internal.WithLogger(log.FromSlog(l))) }
}

// New creates a profiler. Its capture gate stays closed until Init.
//
// Example:
//
//	p, err := prof.New(prof.WithConfig(cfg))
//	if err != nil {
//		return err
//	}
//	p.Init(cfg.Enabled)
//	defer p.Teardown()
func New(opts ...Option) (*Profiler, error) {
	o := options{cfg: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return internal.New(o.cfg, o.opts...)
}

// SetDefault installs p behind the package-level functions and returns
// the profiler it replaces.
func SetDefault(p *Profiler) *Profiler {
	return internal.SetDefault(p)
}

// Init records the start instant and sets the capture gate of the default
// profiler. Calling Init again discards previously captured logs without
// releasing them; call Teardown first to release memory.
func Init(enabled bool) {
	internal.Default().Init(enabled)
}

// SetEnabled opens or closes the capture gate. Captured data is kept.
func SetEnabled(enabled bool) {
	internal.Default().SetEnabled(enabled)
}

// Enabled reports whether the capture gate is open.
func Enabled() bool {
	return internal.Default().Enabled()
}

// Begin records entry into the region tag at the caller's call site.
//
//	tok := prof.Begin("parse")
//	parse()
//	prof.End(tok)
//
//go:noinline
func Begin(tag string) Token {
	p := internal.Default()
	if !p.Enabled() {
		return Token{Tag: tag}
	}
	return p.BeginAt(tag, callsite.Caller(0))
}

// End records exit from the region opened by the matching Begin.
func End(tok Token) {
	internal.Default().End(tok)
}

// Recorder returns a handle bound to the calling goroutine for hot loops.
// It must not be shared between goroutines.
func Recorder() *Recorder {
	return internal.Default().Recorder()
}

// Reconstruct replays all captured events. Producers must have stopped.
func Reconstruct() Result {
	return internal.Default().Reconstruct()
}

// Stats summarizes captured data.
func Stats() CaptureStats {
	return internal.Default().Stats()
}

// Teardown releases all captured data. Producers must have stopped.
func Teardown() {
	internal.Default().Teardown()
}
