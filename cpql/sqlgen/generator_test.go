package sqlgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/cpql-go/cpql/ast"
	"github.com/satishbabariya/cpql-go/cpql/dialect"
	"github.com/satishbabariya/cpql-go/cpql/metadata"
)

func testRegistry(t *testing.T) *metadata.Registry {
	t.Helper()
	return metadata.NewRegistry(
		&metadata.Entity{
			Name: "User",
			Columns: []metadata.Column{
				{Name: "Id"},
				{Name: "Name"},
				{Name: "Age"},
				{Name: "Country"},
				{Name: "Active"},
				{Name: "CreatedAt"},
			},
		},
		&metadata.Entity{
			Name: "Order",
			Columns: []metadata.Column{
				{Name: "Id"},
				{Name: "CustomerId"},
				{Name: "Total", Column: "total_amount"},
			},
		},
		&metadata.Entity{
			Name: "Customer",
			Columns: []metadata.Column{
				{Name: "Id"},
				{Name: "Name"},
			},
		},
	)
}

func generate(t *testing.T, d, query string) *Query {
	t.Helper()
	stmt, err := ast.Parse(query)
	require.NoError(t, err)
	out, err := NewGenerator(testRegistry(t), d).Generate(stmt)
	require.NoError(t, err)
	return out
}

func TestGenerateSelect(t *testing.T) {
	out := generate(t, dialect.Default, "SELECT u.Name FROM User u WHERE u.Age > :minAge")
	assert.Equal(t, "SELECT u.name\nFROM users u\nWHERE (u.age > @minAge)", out.SQL)
	assert.Equal(t, []string{"minAge"}, out.Params)
}

func TestGenerateJoin(t *testing.T) {
	out := generate(t, dialect.Default,
		"SELECT o.Id, c.Name FROM Order o INNER JOIN Customer c ON o.CustomerId = c.Id")
	assert.Equal(t,
		"SELECT o.id, c.name\nFROM orders o\nINNER JOIN customers c ON (o.customer_id = c.id)",
		out.SQL)
}

func TestGenerateEntityReference(t *testing.T) {
	// An unqualified name matching a declared alias selects every column.
	out := generate(t, dialect.Default, "SELECT u FROM User u")
	assert.Equal(t, "SELECT u.*\nFROM users u", out.SQL)
}

func TestGenerateWildcard(t *testing.T) {
	out := generate(t, dialect.Default, "SELECT u.* FROM User u")
	assert.Equal(t, "SELECT u.*\nFROM users u", out.SQL)
}

func TestGenerateUnqualifiedProperty(t *testing.T) {
	out := generate(t, dialect.Default, "SELECT Name FROM User u")
	assert.Equal(t, "SELECT u.name\nFROM users u", out.SQL)
}

func TestGenerateNoAlias(t *testing.T) {
	// Without an alias, columns are qualified with the table name.
	out := generate(t, dialect.Default, "SELECT Name FROM User")
	assert.Equal(t, "SELECT users.name\nFROM users", out.SQL)
}

func TestGenerateExplicitColumnMapping(t *testing.T) {
	out := generate(t, dialect.Default, "SELECT o.Total FROM Order o")
	assert.Equal(t, "SELECT o.total_amount\nFROM orders o", out.SQL)
}

func TestGenerateGroupByHaving(t *testing.T) {
	out := generate(t, dialect.Default,
		"SELECT u.Country, COUNT(u.Id) FROM User u GROUP BY u.Country HAVING COUNT(u.Id) > :min ORDER BY u.Country DESC")
	assert.Equal(t,
		"SELECT u.country, COUNT(u.id)\n"+
			"FROM users u\n"+
			"GROUP BY u.country\n"+
			"HAVING (COUNT(u.id) > @min)\n"+
			"ORDER BY u.country DESC",
		out.SQL)
	assert.Equal(t, []string{"min"}, out.Params)
}

func TestGenerateDistinctAggregate(t *testing.T) {
	out := generate(t, dialect.Default, "SELECT COUNT(DISTINCT u.Country) FROM User u")
	assert.Equal(t, "SELECT COUNT(DISTINCT u.country)\nFROM users u", out.SQL)
}

func TestGenerateParamOrderAndDedup(t *testing.T) {
	out := generate(t, dialect.Default,
		"SELECT u.Id FROM User u WHERE u.Age > :a AND u.Name = :b OR u.Age < :a")
	assert.Equal(t, []string{"a", "b"}, out.Params)
}

func TestGenerateUpdate(t *testing.T) {
	out := generate(t, dialect.Default,
		"UPDATE User u SET u.Name = :name, u.Active = TRUE WHERE u.Id = :id")
	assert.Equal(t,
		"UPDATE users u\nSET name = @name, active = 1\nWHERE (u.id = @id)",
		out.SQL)
	assert.Equal(t, []string{"name", "id"}, out.Params)
}

func TestGenerateDelete(t *testing.T) {
	out := generate(t, dialect.Default, "DELETE FROM User u WHERE u.Active = FALSE")
	assert.Equal(t, "DELETE FROM users u\nWHERE (u.active = 0)", out.SQL)
}

func TestGenerateDialectFunctions(t *testing.T) {
	tests := []struct {
		dialect string
		want    string
	}{
		{dialect.Default, "SELECT LENGTH(u.name)\nFROM users u\nWHERE (u.created_at < NOW())"},
		{dialect.SQLServer, "SELECT LEN(u.name)\nFROM users u\nWHERE (u.created_at < GETDATE())"},
		{dialect.SQLite, "SELECT LENGTH(u.name)\nFROM users u\nWHERE (u.created_at < DATETIME('NOW'))"},
		{dialect.Postgres, "SELECT LENGTH(u.name)\nFROM users u\nWHERE (u.created_at < NOW())"},
	}
	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			out := generate(t, tt.dialect,
				"SELECT LENGTH(u.Name) FROM User u WHERE u.CreatedAt < NOW()")
			assert.Equal(t, tt.want, out.SQL)
		})
	}
}

func TestGenerateIdempotent(t *testing.T) {
	stmt, err := ast.Parse("SELECT u.Name FROM User u WHERE u.Age > :minAge AND u.Country = :country")
	require.NoError(t, err)
	gen := NewGenerator(testRegistry(t), dialect.Default)

	first, err := gen.Generate(stmt)
	require.NoError(t, err)
	second, err := gen.Generate(stmt)
	require.NoError(t, err)

	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.Params, second.Params)
}

func TestGenerateSubqueryUnsupported(t *testing.T) {
	stmt, err := ast.Parse("SELECT u.Name FROM User u WHERE u.Age > (SELECT AVG(x.Age) FROM User x)")
	require.NoError(t, err)
	_, err = NewGenerator(testRegistry(t), dialect.Default).Generate(stmt)
	var unsupported *UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, unsupported.Error(), "subquery")
}

func TestGenerateUnknownEntity(t *testing.T) {
	stmt, err := ast.Parse("SELECT x.Id FROM Missing x")
	require.NoError(t, err)
	_, err = NewGenerator(testRegistry(t), dialect.Default).Generate(stmt)
	var sem *metadata.SemanticError
	require.ErrorAs(t, err, &sem)
	assert.Equal(t, "Missing", sem.Entity)
}

func TestGenerateUnknownProperty(t *testing.T) {
	stmt, err := ast.Parse("SELECT u.Salary FROM User u")
	require.NoError(t, err)
	_, err = NewGenerator(testRegistry(t), dialect.Default).Generate(stmt)
	var sem *metadata.SemanticError
	require.ErrorAs(t, err, &sem)
	assert.Equal(t, "Salary", sem.Property)
}

func TestGenerateUnknownAlias(t *testing.T) {
	stmt, err := ast.Parse("SELECT z.Name FROM User u")
	require.NoError(t, err)
	_, err = NewGenerator(testRegistry(t), dialect.Default).Generate(stmt)
	var sem *metadata.SemanticError
	require.ErrorAs(t, err, &sem)
}

func TestRenderLiteral(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{"O'Brien", "'O''Brien'"},
		{"plain", "'plain'"},
		{nil, "NULL"},
		{true, "1"},
		{false, "0"},
		{int64(42), "42"},
		{3.14, "3.14"},
		{time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), "'2024-03-15 09:30:00'"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, renderLiteral(tt.value))
		})
	}
}

func TestGenerateStringLiteralEscaping(t *testing.T) {
	out := generate(t, dialect.Default, `SELECT u.Id FROM User u WHERE u.Name = 'O\'Brien'`)
	assert.True(t, strings.Contains(out.SQL, "'O''Brien'"), out.SQL)
}

func TestGenerateIsNull(t *testing.T) {
	out := generate(t, dialect.Default, "SELECT u.Id FROM User u WHERE u.Country IS NULL")
	assert.Equal(t, "SELECT u.id\nFROM users u\nWHERE (u.country IS NULL)", out.SQL)

	out = generate(t, dialect.Default, "SELECT u.Id FROM User u WHERE u.Country IS NOT NULL")
	assert.Equal(t, "SELECT u.id\nFROM users u\nWHERE (u.country IS NOT NULL)", out.SQL)
}
