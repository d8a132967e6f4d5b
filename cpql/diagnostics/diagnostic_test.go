package diagnostics

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/cpql-go/cpql/ast"
	"github.com/satishbabariya/cpql-go/cpql/dialect"
	"github.com/satishbabariya/cpql-go/cpql/metadata"
	"github.com/satishbabariya/cpql-go/cpql/sqlgen"
)

func TestFromErrorSyntax(t *testing.T) {
	source := "SELECT FROM User u"
	_, err := ast.Parse(source)
	require.Error(t, err)

	d := FromError(err, source)
	assert.Equal(t, "parser", d.Stage)
	assert.True(t, d.HasSpan())
	assert.Equal(t, "FROM", source[d.Span.Start:d.Span.End])
}

func TestFromErrorLexical(t *testing.T) {
	source := "SELECT u.Age ! 1"
	_, err := ast.Parse(source)
	require.Error(t, err)

	d := FromError(err, source)
	assert.Equal(t, "lexer", d.Stage)
	assert.True(t, d.Span.Contains(13))
}

func TestFromErrorSemantic(t *testing.T) {
	registry := metadata.NewRegistry()
	stmt, err := ast.Parse("SELECT u.Id FROM User u")
	require.NoError(t, err)
	_, err = sqlgen.NewGenerator(registry, dialect.Default).Generate(stmt)
	require.Error(t, err)

	d := FromError(err, "SELECT u.Id FROM User u")
	assert.Equal(t, "metadata", d.Stage)
	assert.False(t, d.HasSpan())
}

func TestPrettyPrintExcerpt(t *testing.T) {
	color.NoColor = true
	source := "SELECT FROM User u"
	_, err := ast.Parse(source)
	require.Error(t, err)

	var buf bytes.Buffer
	PrettyPrint(&buf, "query.cpql", source, FromError(err, source), ErrorColorer{})

	out := buf.String()
	assert.Contains(t, out, "error: ")
	assert.Contains(t, out, "query.cpql:1")
	assert.Contains(t, out, "SELECT FROM User u")
	assert.Contains(t, out, "^^^^")
}

func TestPrettyPrintWithoutSpan(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	d := Diagnostic{Message: "unknown entity Account", Stage: "metadata"}
	PrettyPrint(&buf, "query.cpql", "SELECT a.Id FROM Account a", d, ErrorColorer{})

	out := buf.String()
	assert.Contains(t, out, "unknown entity Account")
	assert.NotContains(t, out, " | ")
}
