package capture

import "github.com/kolkov/callprof/internal/prof/callsite"

// Kind distinguishes the two event types.
type Kind uint8

const (
	// Enter opens a traced region.
	Enter Kind = iota + 1
	// Exit closes the most recently opened region on the same goroutine.
	Exit
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case Enter:
		return "Enter"
	case Exit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// Event is one recorded enter or exit.
//
// Events are immutable once appended. Enter and Exit events for the same
// logical call carry the same Tag and Site.
type Event struct {
	// Time is the monotonic timestamp in nanoseconds.
	Time int64

	// Tag is the caller-supplied label of the traced region.
	Tag string

	// Site is the program counter of the instrumentation call site.
	// It is resolved to file, line and function only during reconstruction.
	Site callsite.PC

	// Kind is Enter or Exit.
	Kind Kind
}
