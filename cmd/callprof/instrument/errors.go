package instrument

import (
	"fmt"
	"go/token"
)

// Error is an instrumentation failure at a source position.
//
// Example output:
//
//	main.go:5:2: cannot instrument through a . import of github.com/kolkov/callprof/prof
//
//	Suggestion: Import the package by name, e.g. import prof "github.com/kolkov/callprof/prof"
type Error struct {
	File       string
	Line       int
	Column     int
	Message    string
	Suggestion string // empty if none
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
	if e.Suggestion != "" {
		msg += "\n\nSuggestion: " + e.Suggestion
	}
	return msg
}

// NewError creates an error positioned at pos.
func NewError(fset *token.FileSet, pos token.Pos, msg string) *Error {
	p := fset.Position(pos)
	return &Error{
		File:    p.Filename,
		Line:    p.Line,
		Column:  p.Column,
		Message: msg,
	}
}

// NewErrorWithSuggestion creates a positioned error with a hint for fixing
// it.
func NewErrorWithSuggestion(fset *token.FileSet, pos token.Pos, msg, suggestion string) *Error {
	err := NewError(fset, pos, msg)
	err.Suggestion = suggestion
	return err
}
