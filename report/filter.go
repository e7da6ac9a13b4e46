package report

import (
	"time"

	"github.com/kolkov/callprof/prof"
)

// Filter returns a copy of res whose spans are at least minSpan long.
// Goroutines left without spans are dropped. Statistics, extent and
// diagnostics are unchanged; filtering only affects what gets drawn.
func Filter(res prof.Result, minSpan time.Duration) prof.Result {
	out := res
	out.Threads = nil

	for _, th := range res.Threads {
		spans := make([]prof.Span, 0, len(th.Spans))
		for _, s := range th.Spans {
			if s.Duration() >= minSpan {
				spans = append(spans, s)
			}
		}
		if len(spans) > 0 {
			out.Threads = append(out.Threads, prof.Thread{ID: th.ID, Spans: spans})
		}
	}

	return out
}
