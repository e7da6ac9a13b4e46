// Copyright 2025 The callprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goid identifies the calling goroutine.
//
// Goroutine IDs are the stable per-thread identity the capture engine keys
// its thread logs by. The ID is extracted by parsing the header line of
// runtime.Stack:
//
//	goroutine 123 [running]:
//
// Performance: ~1µs per call, dominated by runtime.Stack, and no
// allocations: the header is written into a pooled buffer. Callers on the
// hottest paths should resolve their log once and hold a recorder instead
// of calling Current for every event.
package goid

import (
	"runtime"
	"sync"
)

// headerSize covers "goroutine " plus a 20-digit ID and the state.
const headerSize = 64

// buffers holds header buffers. A stack array handed to runtime.Stack
// escapes, so each call would otherwise allocate one.
var buffers = sync.Pool{
	New: func() any { return new([headerSize]byte) },
}

// Current returns the ID of the calling goroutine, or 0 if it cannot be
// determined.
func Current() int64 {
	buf := buffers.Get().(*[headerSize]byte)

	// Only the first line is needed.
	n := runtime.Stack(buf[:], false)
	gid := Parse(buf[:n])

	buffers.Put(buf)

	return gid
}

// Parse extracts the goroutine ID from runtime.Stack output.
//
// Expected format: "goroutine 123 [running]:..."
// Returns 0 if the prefix is missing or no digits follow it.
func Parse(buf []byte) int64 {
	const prefix = "goroutine "

	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var gid int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		gid = gid*10 + int64(c-'0')
	}

	return gid
}
