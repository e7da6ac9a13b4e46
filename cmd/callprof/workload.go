package main

import (
	"strconv"
	"sync/atomic"

	"github.com/kolkov/callprof/prof"
)

// workload is a binary tree of nested regions. Each level burns spin
// rounds of arithmetic before and between its two children, so every
// level has non-zero self time.
type workload struct {
	tags []string
	spin int
	sink atomic.Uint64
}

func newWorkload(depth, spin int) *workload {
	w := &workload{tags: make([]string, depth), spin: spin}
	for i := range w.tags {
		w.tags[i] = "level" + strconv.Itoa(i)
	}
	return w
}

// run executes one tree on the recorder's goroutine.
func (w *workload) run(rec *prof.Recorder) {
	w.level(rec, 0)
}

func (w *workload) level(rec *prof.Recorder, depth int) {
	tok := rec.Begin(w.tags[depth])

	w.burn()
	if depth+1 < len(w.tags) {
		w.level(rec, depth+1)
		w.burn()
		w.level(rec, depth+1)
	}

	rec.End(tok)
}

// burn spins on an xorshift generator and publishes the result so the
// loop cannot be eliminated.
func (w *workload) burn() {
	x := uint64(88172645463325252)
	for range w.spin {
		x ^= x << 13
		x ^= x >> 7
		x ^= x << 17
	}
	w.sink.Add(x)
}

// calls returns the number of regions one run records.
func (w *workload) calls() int {
	return 1<<len(w.tags) - 1
}
