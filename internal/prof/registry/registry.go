// Package registry is the directory of every goroutine's event log.
//
// The registry is touched in three situations only:
//   - once per goroutine, when its log is created and registered
//   - at analysis time, when reconstruction enumerates all logs under View
//   - at Init and Teardown
//
// Steady-state recording never takes the registry mutex. The enabled gate
// is an atomic flag so the disabled hot path is a single load.
package registry

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/kolkov/callprof/internal/log"
	"github.com/kolkov/callprof/internal/prof/capture"
)

// Registry owns every registered log and the process start instant.
type Registry struct {
	// enabled gates the capture hot path.
	enabled atomic.Bool

	// mu protects logs and serializes View against registration.
	mu sync.Mutex

	// logs in registration order.
	logs []*capture.Log

	// start is the reference instant span offsets are measured from.
	// Written by Init, read-only afterwards.
	start int64

	logger log.Logger
}

// Stats summarizes the registry's contents.
type Stats struct {
	Logs   int // registered goroutine logs
	Pages  int // pages across all logs
	Events int // events across all logs
}

// New creates an empty, disabled registry. Call Init before recording.
func New(logger log.Logger) *Registry {
	return &Registry{logger: logger}
}

// Init sets the start instant and the enabled flag and clears the log
// collection. Logs registered before Init are dropped without being
// released; call Teardown first to release them.
func (r *Registry) Init(enabled bool, start int64) {
	r.mu.Lock()
	r.logs = nil
	r.start = start
	r.mu.Unlock()

	r.enabled.Store(enabled)

	r.logger.Debug("registry initialized",
		slog.Bool("enabled", enabled),
		slog.Int64("start", start),
	)
}

// SetEnabled toggles the capture gate. Already captured events are kept.
func (r *Registry) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

// Enabled reports whether capture is on.
//
//go:nosplit
func (r *Registry) Enabled() bool {
	return r.enabled.Load()
}

// Start returns the reference instant set by Init.
func (r *Registry) Start() int64 {
	return r.start
}

// Register adds a newly created log. It is the only operation on the
// capture path that locks, and runs at most once per goroutine.
func (r *Registry) Register(l *capture.Log) {
	r.mu.Lock()
	r.logs = append(r.logs, l)
	n := len(r.logs)
	r.mu.Unlock()

	r.logger.Trace("log registered",
		slog.Int64("goroutine", l.ID()),
		slog.Int("logs", n),
	)
}

// View calls fn with the start instant and every registered log while
// holding the registry mutex. New registrations block until fn returns;
// appends to already registered logs do not. fn must not retain logs.
func (r *Registry) View(fn func(start int64, logs []*capture.Log)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(r.start, r.logs)
}

// Stats counts logs, pages and events under the mutex.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Stats{Logs: len(r.logs)}
	for _, l := range r.logs {
		s.Pages += len(l.Pages())
		s.Events += l.Len()
	}
	return s
}

// Teardown releases every page of every log and empties the registry.
//
// Precondition: no goroutine is recording. Recording into a released log
// is undefined; the registry does not guard against it.
func (r *Registry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	pages := 0
	for _, l := range r.logs {
		pages += len(l.Pages())
		l.Release()
	}

	r.logger.Debug("registry torn down",
		slog.Int("logs", len(r.logs)),
		slog.Int("pages", pages),
	)

	clear(r.logs)
	r.logs = nil
}
