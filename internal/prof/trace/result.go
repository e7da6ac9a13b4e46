package trace

import "time"

// Span is one closed call, positioned relative to the profiler's start
// instant. Depth counts the frames still open around it; 0 is top level.
type Span struct {
	Name  string
	Start time.Duration
	End   time.Duration
	Depth int
}

// Duration returns the span's inclusive duration.
func (s Span) Duration() time.Duration {
	return s.End - s.Start
}

// Thread groups the spans of one goroutine in the order their Exit events
// were recorded (children precede their parent).
type Thread struct {
	ID    int64
	Spans []Span
}

// Diagnostics counts malformed input that reconstruction ignored.
//
// The two cases are indistinguishable from reconstruction's point of view:
// genuinely unbalanced instrumentation, or producers that were still
// recording when reconstruction ran.
type Diagnostics struct {
	// DroppedExits counts Exit events with no open frame.
	DroppedExits int
	// UnclosedEnters counts frames still open at the end of their log.
	UnclosedEnters int
}

// Clean reports whether no input was ignored.
func (d Diagnostics) Clean() bool {
	return d.DroppedExits == 0 && d.UnclosedEnters == 0
}

// Result is the output of reconstruction.
type Result struct {
	// Stats ranked by descending Total.
	Stats []Statistic

	// Threads that produced at least one span, in registration order.
	Threads []Thread

	// Extent is the latest span end across all goroutines.
	Extent time.Duration

	Diagnostics Diagnostics
}

// Stat returns the statistic with the given full name.
func (r Result) Stat(name string) (Statistic, bool) {
	for _, s := range r.Stats {
		if s.Name == name {
			return s, true
		}
	}
	return Statistic{}, false
}

// SpanCount returns the number of spans across all goroutines.
func (r Result) SpanCount() int {
	n := 0
	for _, th := range r.Threads {
		n += len(th.Spans)
	}
	return n
}
