// Package instrument inserts region markers into Go source files.
//
// Every eligible top-level function gets one statement prepended to its
// body:
//
//	// INPUT:
//	func (s *Store) Get(key string) string {
//		return s.m[key]
//	}
//
//	// OUTPUT:
//	import "github.com/kolkov/callprof/prof"
//
//	func (s *Store) Get(key string) string {
//		defer prof.End(prof.Begin("Store.Get"))
//		return s.m[key]
//	}
//
// A deferred End is only sound when it is the sole cleanup of its
// function, so functions that already defer anything are skipped and
// reported. Function literals are not instrumented and their defers do not
// disqualify the enclosing function.
//
// Algorithm:
//  1. Parse the file with go/parser
//  2. Collect eligible function declarations
//  3. Prepend the marker to each
//  4. Inject the prof import if anything was instrumented
//  5. Print and gofmt the result
//
// Thread Safety: NOT thread-safe. Each call builds its own AST.
package instrument

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
)

const (
	// ImportPath is the package the markers call into.
	ImportPath = "github.com/kolkov/callprof/prof"

	// DefaultAlias is the package name used when the file does not import
	// ImportPath yet.
	DefaultAlias = "prof"

	// FallbackAlias replaces DefaultAlias when the file already uses the
	// name "prof" for something else.
	FallbackAlias = "callprof"
)

// Options controls which functions are instrumented.
type Options struct {
	// ExportedOnly limits instrumentation to exported functions and
	// methods.
	ExportedOnly bool
}

// Result holds the instrumented source and what happened to each
// function.
type Result struct {
	Code  []byte
	Stats Stats
}

// File instruments one Go source file. src follows go/parser.ParseFile: nil
// reads filename, otherwise []byte, string or io.Reader.
//
// Example:
//
//	res, err := instrument.File("store.go", nil, instrument.Options{})
//	if err != nil {
//		return err
//	}
//	fmt.Printf("instrumented %d functions\n", res.Stats.Instrumented)
func File(filename string, src any, opts Options) (*Result, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	alias, err := importAlias(fset, file)
	if err != nil {
		return nil, err
	}

	v := newVisitor(alias, opts)
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			v.visit(fn)
		}
	}

	if v.stats.Instrumented > 0 {
		injectImport(file, alias)
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return nil, fmt.Errorf("print %s: %w", filename, err)
	}

	return &Result{Code: buf.Bytes(), Stats: v.stats}, nil
}
