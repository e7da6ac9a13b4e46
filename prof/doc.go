// Package prof is an embeddable instrumentation profiler.
//
// Instrumented code brackets the regions it wants measured with [Begin]
// and [End]. Each goroutine appends the resulting enter/exit events to its
// own log with no locking after its first event. Once the producers have
// finished, [Reconstruct] replays every log as a call stack and returns
// ranked per-function statistics plus per-goroutine spans suitable for a
// flame graph.
//
// # Quick Start
//
//	func main() {
//		prof.Init(true)
//		defer prof.Teardown()
//
//		work()
//
//		res := prof.Reconstruct()
//		for _, s := range res.Stats {
//			fmt.Println(s.Name, s.Calls, s.Total, s.Self)
//		}
//	}
//
//	func work() {
//		defer prof.End(prof.Begin("work"))
//		// ...
//	}
//
// # API Overview
//
//   - Lifecycle: [Init], [SetEnabled], [Enabled], [Teardown]
//   - Capture: [Begin], [End], [Recorder]
//   - Results: [Reconstruct], [Stats]
//   - Explicit profilers: [New], [SetDefault], [WithConfig], [WithClock],
//     [WithResolver], [WithLogger]
//   - Version information: [GetInfo], [Version]
//
// # Rules
//
// Begin and End must be paired in strict LIFO order on each goroutine.
// Nothing closes a region automatically. A deferred End is only correct
// when it is the only deferred call in its function.
//
// Reconstruct and Teardown require every producer to have stopped
// recording first. Nothing enforces this.
//
// An unmatched End is dropped. A Begin that is never closed makes its
// region invisible; its children are still reported. Neither is an error.
//
// # Performance Characteristics
//
//	Disabled:         one atomic load per call
//	Recorder:         clock read + append, zero allocations within a page
//	Begin/End:        adds a goroutine ID lookup, still zero allocations
//	Page rollover:    one allocation every page_capacity events (16384)
package prof
