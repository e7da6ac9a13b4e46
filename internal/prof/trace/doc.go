// Package trace reconstructs call trees from recorded event logs.
//
// Reconstruction is the cold path. It replays each goroutine's log
// independently, maintaining an explicit stack of open frames:
//
//   - Enter pushes a frame.
//   - Exit pops the most recently opened frame (strict LIFO) and produces
//     one Span and one update of the Statistic for the frame's full name.
//
// Time accounting for a popped frame:
//
//	total = exit.Time - frame.start
//	self  = total - frame.children
//
// where frame.children is the sum of the totals of every child popped
// while the frame was open. The parent's children accumulator grows by
// total on every pop, so self excludes directly and transitively nested
// time exactly once.
//
// Malformed input is never fatal:
//   - an Exit with no open frame is dropped
//   - a frame still open when its log ends produces nothing
//
// Both are counted in [Diagnostics] but otherwise silent.
//
// Full names are built by [Names], which formats each distinct
// (file, function, tag) triple once.
package trace
