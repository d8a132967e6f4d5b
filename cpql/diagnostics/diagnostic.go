package diagnostics

import (
	"errors"

	"github.com/satishbabariya/cpql-go/cpql/ast"
	"github.com/satishbabariya/cpql-go/cpql/lexer"
	"github.com/satishbabariya/cpql-go/cpql/metadata"
	"github.com/satishbabariya/cpql-go/cpql/sqlgen"
)

// Diagnostic is a single reportable problem with a location inside the
// query text. Errors without a source position get an empty span and are
// rendered without an excerpt.
type Diagnostic struct {
	Message string
	Span    Span
	Stage   string
}

// HasSpan reports whether the diagnostic points at a concrete location.
func (d Diagnostic) HasSpan() bool {
	return d.Span.End > d.Span.Start
}

// FromError converts a compiler error into a Diagnostic, recovering the
// source position from the error types that carry one.
func FromError(err error, source string) Diagnostic {
	var lexErr *lexer.LexicalError
	if errors.As(err, &lexErr) {
		return Diagnostic{
			Message: lexErr.Msg,
			Span:    tokenSpan(source, lexErr.Pos),
			Stage:   "lexer",
		}
	}
	var synErr *ast.SyntaxError
	if errors.As(err, &synErr) {
		return Diagnostic{
			Message: synErr.Error(),
			Span:    tokenSpan(source, synErr.Pos),
			Stage:   "parser",
		}
	}
	var semErr *metadata.SemanticError
	if errors.As(err, &semErr) {
		return Diagnostic{Message: semErr.Error(), Stage: "metadata"}
	}
	var unsupported *sqlgen.UnsupportedError
	if errors.As(err, &unsupported) {
		return Diagnostic{Message: unsupported.Error(), Stage: "sqlgen"}
	}
	return Diagnostic{Message: err.Error(), Stage: "compiler"}
}

// tokenSpan widens a byte offset to cover the token starting there, so
// the excerpt highlights the whole offending word rather than one
// character.
func tokenSpan(source string, pos int) Span {
	if pos < 0 || pos >= len(source) {
		end := len(source)
		return Span{Start: end, End: end}
	}
	end := pos
	for end < len(source) && !isBoundary(source[end]) {
		end++
	}
	if end == pos {
		end = pos + 1
	}
	return Span{Start: pos, End: end}
}

func isBoundary(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '(', ')', ',', ';':
		return true
	}
	return false
}
