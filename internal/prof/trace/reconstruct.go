package trace

import (
	"time"

	"github.com/kolkov/callprof/internal/prof/callsite"
	"github.com/kolkov/callprof/internal/prof/capture"
)

// frame is an open Enter on the reconstruction stack.
type frame struct {
	start    int64
	children int64
	tag      string
	site     callsite.PC
}

// builder accumulates statistics across logs.
type builder struct {
	names *Names
	start int64
	stack []frame
	index map[string]int // full name → position in res.Stats
	res   Result
}

// Reconstruct replays logs and aggregates their statistics and spans.
//
// start is the reference instant span offsets are measured from. names
// caches full names and may be shared across reconstructions that use the
// same resolver.
//
// Precondition: no goroutine is appending to any of logs. Callers obtain
// logs under the registry mutex, which serializes against registration but
// not against appends.
func Reconstruct(start int64, logs []*capture.Log, names *Names) Result {
	b := &builder{
		names: names,
		start: start,
		index: make(map[string]int),
	}

	for _, l := range logs {
		b.replay(l)
	}

	Rank(b.res.Stats)

	return b.res
}

// replay walks one log's pages in order and emits its spans.
func (b *builder) replay(l *capture.Log) {
	b.stack = b.stack[:0]

	var spans []Span
	for _, page := range l.Pages() {
		for _, ev := range page.Events() {
			switch ev.Kind {
			case capture.Enter:
				b.stack = append(b.stack, frame{start: ev.Time, tag: ev.Tag, site: ev.Site})

			case capture.Exit:
				if len(b.stack) == 0 {
					b.res.Diagnostics.DroppedExits++
					continue
				}
				spans = append(spans, b.pop(ev.Time))
			}
		}
	}

	b.res.Diagnostics.UnclosedEnters += len(b.stack)

	if len(spans) > 0 {
		b.res.Threads = append(b.res.Threads, Thread{ID: l.ID(), Spans: spans})
	}
}

// pop closes the top frame at time end.
func (b *builder) pop(end int64) Span {
	top := len(b.stack) - 1
	f := b.stack[top]
	b.stack = b.stack[:top]

	total := end - f.start
	self := total - f.children

	if top > 0 {
		b.stack[top-1].children += total
	}

	name := b.names.Name(f.tag, f.site)

	i, ok := b.index[name]
	if !ok {
		i = len(b.res.Stats)
		b.index[name] = i
		b.res.Stats = append(b.res.Stats, Statistic{Name: name})
	}
	b.res.Stats[i].add(time.Duration(total), time.Duration(self))

	span := Span{
		Name:  name,
		Start: time.Duration(f.start - b.start),
		End:   time.Duration(end - b.start),
		Depth: top,
	}
	if span.End > b.res.Extent {
		b.res.Extent = span.End
	}

	return span
}
