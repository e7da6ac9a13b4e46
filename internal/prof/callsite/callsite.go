// Package callsite captures and resolves instrumentation call sites.
//
// The hot path only records a program counter ([Caller]). Turning that PC
// into a file, line and function name is deferred to the cold path, where a
// [Depot] resolves each distinct PC once and caches the result.
//
// Usage:
//
//	pc := callsite.Caller(0) // PC of the caller of the function calling Caller
//	...
//	d, _ := callsite.NewDepot("")
//	loc := d.Resolve(pc)
//	fmt.Println(loc) // pkg.Func (path/to/file.go:42)
package callsite

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// PC is the program counter of a call site.
type PC uintptr

// Location is a resolved call site.
type Location struct {
	File string // source file, module-relative when a module root is known
	Line int    // line number (1-indexed)
	Func string // enclosing function, package-qualified (pkg.Func)
}

// String formats the location as "func (file:line)".
func (l Location) String() string {
	return fmt.Sprintf("%s (%s:%d)", l.Func, l.File, l.Line)
}

// unknown is returned for PCs that cannot be symbolized.
var unknown = Location{File: "?", Func: "<unknown>"}

// Resolver maps call-site PCs to locations.
//
// Implementations must return the same Location for the same PC on every
// call. Reconstruction relies on this to key its name cache.
type Resolver interface {
	Resolve(pc PC) Location
}

// Caller returns the PC of a call site skip frames above the caller of
// Caller. Caller(0) identifies the function that called the function
// calling Caller, which is what Begin-style entry points need.
//
// Zero allocations: the PC is written into a stack array.
//
//go:noinline
func Caller(skip int) PC {
	var pcs [1]uintptr
	// Skip runtime.Callers, Caller itself and the immediate caller.
	if runtime.Callers(skip+3, pcs[:]) == 0 {
		return 0
	}
	return PC(pcs[0])
}

// Depot resolves PCs through runtime.CallersFrames and caches each result.
//
// Thread Safety: Resolve is safe for concurrent calls.
type Depot struct {
	cache  sync.Map // PC → Location
	root   string   // module root directory, "" when unknown
	module string   // module path used as the display prefix
}

// NewDepot creates a Depot. If dir is non-empty, the nearest enclosing
// go.mod is located from dir and file names under its directory are shown
// relative to the module path.
func NewDepot(dir string) (*Depot, error) {
	d := &Depot{}
	if dir == "" {
		return d, nil
	}

	root, module, err := FindModule(dir)
	if err != nil {
		return nil, err
	}

	d.root = root
	d.module = module

	return d, nil
}

// Resolve returns the location for pc, symbolizing it on first use.
func (d *Depot) Resolve(pc PC) Location {
	if pc == 0 {
		return unknown
	}

	if val, ok := d.cache.Load(pc); ok {
		return val.(Location)
	}

	frames := runtime.CallersFrames([]uintptr{uintptr(pc)})
	frame, _ := frames.Next()
	if frame.Function == "" && frame.File == "" {
		d.cache.Store(pc, unknown)
		return unknown
	}

	loc := Location{
		File: d.trim(frame.File),
		Line: frame.Line,
		Func: shortFunc(frame.Function),
	}

	// LoadOrStore keeps the first stored value if two goroutines race.
	actual, _ := d.cache.LoadOrStore(pc, loc)

	return actual.(Location)
}

// Len returns the number of distinct PCs resolved so far.
//
// Performance: O(N) over cached entries. Do not call on the hot path.
func (d *Depot) Len() int {
	n := 0
	d.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// trim rewrites absolute file names under the module root as
// module/relative/path.go.
func (d *Depot) trim(file string) string {
	if d.root == "" {
		return file
	}

	rel, err := filepath.Rel(d.root, filepath.FromSlash(file))
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}

	return d.module + "/" + filepath.ToSlash(rel)
}

// shortFunc strips the import path directory from a fully-qualified
// function name: "github.com/a/b.(*T).M" becomes "b.(*T).M".
func shortFunc(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Static is a fixed PC → Location table.
//
// It serves callers that supply their own locations (generated code,
// foreign runtimes) and deterministic tests.
type Static map[PC]Location

// Resolve returns the registered location for pc, or an unknown location.
func (s Static) Resolve(pc PC) Location {
	if loc, ok := s[pc]; ok {
		return loc
	}
	return unknown
}
