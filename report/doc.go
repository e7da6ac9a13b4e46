// Package report renders reconstruction results.
//
// It only consumes [trace.Result] values and never feeds back into
// capture or reconstruction:
//
//   - [Filter] drops spans shorter than the minimum renderable duration
//   - [WriteTable] prints ranked statistics as a text table
//   - [Profile] and [WriteProfile] export statistics in pprof format
//   - [WriteSpans] writes per-goroutine spans as YAML for flame graphs
//
// [trace.Result]: https://pkg.go.dev/github.com/kolkov/callprof/prof#Result
package report
