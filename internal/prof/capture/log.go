package capture

import (
	"iter"

	"github.com/kolkov/callprof/internal/prof/callsite"
)

// Log is the event log of one goroutine.
//
// Layout:
//   - pages: every page ever allocated, in allocation order (owned)
//   - tail:  the page currently appended to (pages[len(pages)-1])
//
// Invariant: every page except the tail is full.
type Log struct {
	id       int64
	capacity int
	pages    []*Page
	tail     *Page
}

// NewLog creates a log for goroutine id with its first page allocated.
// A non-positive capacity selects [DefaultPageCapacity].
func NewLog(id int64, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultPageCapacity
	}

	first := newPage(capacity)

	return &Log{
		id:       id,
		capacity: capacity,
		pages:    []*Page{first},
		tail:     first,
	}
}

// ID returns the goroutine ID that owns the log.
func (l *Log) ID() int64 { return l.id }

// Append writes one event to the tail page, rolling over to a new page if
// the tail is full.
//
// This is the CRITICAL HOT PATH. It must only be called by the owning
// goroutine and performs no synchronization. The timestamp is taken by the
// caller before Append so bookkeeping is not attributed to the region.
func (l *Log) Append(kind Kind, tag string, site callsite.PC, now int64) {
	tail := l.tail
	if tail.count == len(tail.events) {
		tail = newPage(l.capacity)
		l.pages = append(l.pages, tail)
		l.tail = tail
	}

	tail.events[tail.count] = Event{Time: now, Tag: tag, Site: site, Kind: kind}
	tail.count++
}

// Pages returns the page list in allocation order.
func (l *Log) Pages() []*Page { return l.pages }

// Len returns the total number of events in the log.
func (l *Log) Len() int {
	n := 0
	for _, p := range l.pages {
		n += p.count
	}
	return n
}

// Events iterates every event in append order, across all pages.
func (l *Log) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		for _, p := range l.pages {
			for _, ev := range p.Events() {
				if !yield(ev) {
					return
				}
			}
		}
	}
}

// Release drops every page. The log records nothing afterwards and must
// not be appended to again.
func (l *Log) Release() {
	clear(l.pages)
	l.pages = nil
	l.tail = nil
}
