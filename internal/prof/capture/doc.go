// Package capture implements the per-goroutine event log written on the
// instrumentation hot path.
//
// Every goroutine that records events owns exactly one [Log]. A Log is an
// append-only sequence of fixed-capacity [Page]s. Appending writes into the
// tail page; when the tail is full a new page is allocated and appended to
// the log's page list. Existing pages are never moved, rewritten or
// reallocated, so a page is sealed permanently once full.
//
// Concurrency model:
//   - A Log has a single writer: its owning goroutine. Append takes no lock.
//   - Readers (reconstruction) must only run after the writer has stopped.
//     This is a documented precondition, not a runtime check.
//
// Performance requirements:
//   - Append within a page: zero allocations, O(1).
//   - Append on rollover: one page allocation (capacity × event size).
package capture
