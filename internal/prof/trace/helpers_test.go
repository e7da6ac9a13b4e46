package trace

import (
	"github.com/kolkov/callprof/internal/prof/callsite"
	"github.com/kolkov/callprof/internal/prof/capture"
)

// Test call sites.
const (
	siteA callsite.PC = 0xA0
	siteB callsite.PC = 0xB0
	siteC callsite.PC = 0xC0
)

var testSites = callsite.Static{
	siteA: {File: "app/a.go", Line: 10, Func: "app.A"},
	siteB: {File: "app/b.go", Line: 20, Func: "app.B"},
	siteC: {File: "app/c.go", Line: 30, Func: "app.C"},
}

// event is a compact test event.
type event struct {
	kind capture.Kind
	tag  string
	site callsite.PC
	at   int64
}

func enter(tag string, site callsite.PC, at int64) event {
	return event{capture.Enter, tag, site, at}
}

func exit(tag string, site callsite.PC, at int64) event {
	return event{capture.Exit, tag, site, at}
}

// buildLog writes events into a fresh log with the given page capacity.
func buildLog(id int64, capacity int, events ...event) *capture.Log {
	l := capture.NewLog(id, capacity)
	for _, ev := range events {
		l.Append(ev.kind, ev.tag, ev.site, ev.at)
	}
	return l
}

func reconstruct(logs ...*capture.Log) Result {
	return Reconstruct(0, logs, NewNames(testSites))
}
