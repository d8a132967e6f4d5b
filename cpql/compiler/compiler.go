// Package compiler ties the CPQL pipeline together: lexing, parsing,
// metadata resolution and SQL generation behind a single entry point.
package compiler

import (
	"fmt"

	"github.com/satishbabariya/cpql-go/cpql/ast"
	"github.com/satishbabariya/cpql-go/cpql/dialect"
	"github.com/satishbabariya/cpql-go/cpql/metadata"
	"github.com/satishbabariya/cpql-go/cpql/sqlgen"
	"github.com/satishbabariya/cpql-go/internal/debug"
)

// Compiler translates CPQL query strings into SQL for one dialect using
// one metadata provider. It is stateless across Compile calls and safe to
// reuse.
type Compiler struct {
	provider metadata.Provider
	dialect  string
}

// New creates a compiler. An empty dialect selects dialect.Default; an
// unknown dialect is an error rather than a silent fallback.
func New(provider metadata.Provider, d string) (*Compiler, error) {
	if provider == nil {
		return nil, fmt.Errorf("metadata provider is required")
	}
	if d == "" {
		d = dialect.Default
	}
	if !dialect.Known(d) {
		return nil, fmt.Errorf("unknown dialect %q (supported: %v)", d, dialect.All)
	}
	return &Compiler{provider: provider, dialect: d}, nil
}

// Dialect returns the dialect key this compiler generates SQL for.
func (c *Compiler) Dialect() string {
	return c.dialect
}

// Compile runs the full pipeline on a query string. Errors from each
// stage keep their concrete types: *lexer.LexicalError, *ast.SyntaxError,
// *metadata.SemanticError and *sqlgen.UnsupportedError all survive
// errors.As through the returned error.
func (c *Compiler) Compile(query string) (*sqlgen.Query, error) {
	stmt, err := c.Parse(query)
	if err != nil {
		return nil, err
	}
	return c.Generate(stmt)
}

// Parse runs lexing and parsing only, without touching metadata. Useful
// for syntax checking a query before its schema exists.
func (c *Compiler) Parse(query string) (ast.Statement, error) {
	stmt, err := ast.Parse(query)
	if err != nil {
		return nil, err
	}
	debug.Debug("parsed query", "type", fmt.Sprintf("%T", stmt))
	return stmt, nil
}

// Generate emits SQL for an already parsed statement.
func (c *Compiler) Generate(stmt ast.Statement) (*sqlgen.Query, error) {
	return sqlgen.NewGenerator(c.provider, c.dialect).Generate(stmt)
}
