// Package sqlgen generates dialect-aware SQL from a CPQL query AST.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/cpql-go/cpql/ast"
	"github.com/satishbabariya/cpql-go/cpql/metadata"
	"github.com/satishbabariya/cpql-go/internal/debug"
)

// Query is the compiler output: a SQL string plus the named parameters it
// references, in order of first appearance. Parameter binding is the
// caller's responsibility.
type Query struct {
	SQL    string
	Params []string
}

// UnsupportedError is returned when the AST contains a construct the SQL
// backend does not compile, even though the grammar accepts it. Keeping
// the restriction here, rather than in the parser, keeps the AST a
// faithful representation of the language.
type UnsupportedError struct {
	Feature string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s is not supported in SQL generation", e.Feature)
}

// binding associates an alias with its resolved entity. The qualifier is
// the name used to prefix columns in the emitted SQL: the declared alias
// when one exists, the table name otherwise.
type binding struct {
	key       string
	qualifier string
	entity    *metadata.Entity
}

// Generator walks a query AST and emits SQL. It resolves entity and
// property names through the metadata Provider and function names through
// the dialect function registry. A Generator may be reused; each Generate
// call is self-contained.
type Generator struct {
	provider metadata.Provider
	dialect  string

	bindings []binding
	byKey    map[string]int
	params   []string
	seen     map[string]bool
}

// NewGenerator creates a generator for the given metadata provider and
// dialect key.
func NewGenerator(provider metadata.Provider, d string) *Generator {
	return &Generator{provider: provider, dialect: d}
}

// Generate emits SQL for a parsed statement. The same AST always yields
// byte-identical output: generation has no side effects on the AST and no
// ordering nondeterminism.
func (g *Generator) Generate(stmt ast.Statement) (*Query, error) {
	g.bindings = nil
	g.byKey = map[string]int{}
	g.params = nil
	g.seen = map[string]bool{}

	var segments []string
	var err error
	switch q := stmt.(type) {
	case *ast.SelectQuery:
		segments, err = g.selectSegments(q)
	case *ast.UpdateQuery:
		segments, err = g.updateSegments(q)
	case *ast.DeleteQuery:
		segments, err = g.deleteSegments(q)
	default:
		return nil, fmt.Errorf("unsupported statement type %T", stmt)
	}
	if err != nil {
		return nil, err
	}

	query := &Query{SQL: strings.Join(segments, "\n"), Params: g.params}
	debug.Debug("generated sql", "dialect", g.dialect, "params", len(query.Params))
	return query, nil
}

func (g *Generator) selectSegments(q *ast.SelectQuery) ([]string, error) {
	if q.From != nil {
		for _, item := range q.From.Items {
			if err := g.bind(item.Entity, item.Alias); err != nil {
				return nil, err
			}
		}
		for _, join := range q.From.Joins {
			if err := g.bind(join.Entity, join.Alias); err != nil {
				return nil, err
			}
		}
	}

	var segments []string

	sel := "SELECT "
	if q.Select.Distinct {
		sel += "DISTINCT "
	}
	items := make([]string, len(q.Select.Items))
	for i, item := range q.Select.Items {
		s, err := g.expr(item.Expr)
		if err != nil {
			return nil, err
		}
		if item.Alias != "" {
			s += " AS " + item.Alias
		}
		items[i] = s
	}
	segments = append(segments, sel+strings.Join(items, ", "))

	if q.From != nil {
		froms := make([]string, len(q.From.Items))
		for i, item := range q.From.Items {
			froms[i] = g.tableRef(item.Entity, item.Alias)
		}
		segments = append(segments, "FROM "+strings.Join(froms, ", "))

		for _, join := range q.From.Joins {
			seg := join.Type.SQL() + " " + g.tableRef(join.Entity, join.Alias)
			if join.On != nil {
				on, err := g.expr(join.On)
				if err != nil {
					return nil, err
				}
				seg += " ON " + on
			}
			segments = append(segments, seg)
		}
	}

	if q.Where != nil {
		cond, err := g.expr(q.Where.Condition)
		if err != nil {
			return nil, err
		}
		segments = append(segments, "WHERE "+cond)
	}
	if q.GroupBy != nil {
		items := make([]string, len(q.GroupBy.Items))
		for i, e := range q.GroupBy.Items {
			s, err := g.expr(e)
			if err != nil {
				return nil, err
			}
			items[i] = s
		}
		segments = append(segments, "GROUP BY "+strings.Join(items, ", "))
	}
	if q.Having != nil {
		cond, err := g.expr(q.Having.Condition)
		if err != nil {
			return nil, err
		}
		segments = append(segments, "HAVING "+cond)
	}
	if q.OrderBy != nil {
		items := make([]string, len(q.OrderBy.Items))
		for i, item := range q.OrderBy.Items {
			s, err := g.expr(item.Expr)
			if err != nil {
				return nil, err
			}
			items[i] = s + " " + item.Direction.SQL()
		}
		segments = append(segments, "ORDER BY "+strings.Join(items, ", "))
	}
	return segments, nil
}

func (g *Generator) updateSegments(q *ast.UpdateQuery) ([]string, error) {
	if err := g.bind(q.Entity, q.Alias); err != nil {
		return nil, err
	}
	entity := g.bindings[0].entity

	segments := []string{"UPDATE " + g.tableRef(q.Entity, q.Alias)}

	assignments := make([]string, len(q.Assignments))
	for i, a := range q.Assignments {
		col, err := entity.Column(a.Property)
		if err != nil {
			return nil, err
		}
		value, err := g.expr(a.Value)
		if err != nil {
			return nil, err
		}
		assignments[i] = col.Column + " = " + value
	}
	segments = append(segments, "SET "+strings.Join(assignments, ", "))

	if q.Where != nil {
		cond, err := g.expr(q.Where.Condition)
		if err != nil {
			return nil, err
		}
		segments = append(segments, "WHERE "+cond)
	}
	return segments, nil
}

func (g *Generator) deleteSegments(q *ast.DeleteQuery) ([]string, error) {
	if err := g.bind(q.Entity, q.Alias); err != nil {
		return nil, err
	}

	segments := []string{"DELETE FROM " + g.tableRef(q.Entity, q.Alias)}
	if q.Where != nil {
		cond, err := g.expr(q.Where.Condition)
		if err != nil {
			return nil, err
		}
		segments = append(segments, "WHERE "+cond)
	}
	return segments, nil
}

// bind resolves an entity name and records its alias binding. When no
// alias is declared, the entity name itself keys the binding and the
// table name qualifies columns.
func (g *Generator) bind(entityName, alias string) error {
	entity, err := g.provider.Entity(entityName)
	if err != nil {
		return err
	}
	key := alias
	qualifier := alias
	if key == "" {
		key = entityName
		qualifier = entity.Table
	}
	g.bindings = append(g.bindings, binding{key: key, qualifier: qualifier, entity: entity})
	g.byKey[key] = len(g.bindings) - 1
	return nil
}

// tableRef renders "table alias" assuming bind has already succeeded for
// the entity.
func (g *Generator) tableRef(entityName, alias string) string {
	entity, _ := g.provider.Entity(entityName)
	if alias == "" {
		return entity.Table
	}
	return entity.Table + " " + alias
}

// expr renders an expression fragment, dispatching by node kind.
func (g *Generator) expr(e ast.Expression) (string, error) {
	switch x := e.(type) {
	case *ast.PropertyExpr:
		return g.property(x)
	case *ast.LiteralExpr:
		return renderLiteral(x.Value), nil
	case *ast.ParamExpr:
		if !g.seen[x.Name] {
			g.seen[x.Name] = true
			g.params = append(g.params, x.Name)
		}
		return "@" + x.Name, nil
	case *ast.BinaryExpr:
		left, err := g.expr(x.Left)
		if err != nil {
			return "", err
		}
		right, err := g.expr(x.Right)
		if err != nil {
			return "", err
		}
		// Fully parenthesized: precedence stays explicit in any dialect.
		return "(" + left + " " + x.Op.SQL() + " " + right + ")", nil
	case *ast.UnaryExpr:
		operand, err := g.expr(x.Operand)
		if err != nil {
			return "", err
		}
		if x.Op == ast.OpNot {
			return "NOT " + operand, nil
		}
		return x.Op.SQL() + operand, nil
	case *ast.FuncExpr:
		spelling := SQLFunction(x.Name, g.dialect)
		if len(x.Args) == 0 && isNullary(spelling) {
			return spelling, nil
		}
		args := make([]string, len(x.Args))
		for i, arg := range x.Args {
			s, err := g.expr(arg)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return spelling + "(" + strings.Join(args, ", ") + ")", nil
	case *ast.AggregateExpr:
		arg, err := g.expr(x.Arg)
		if err != nil {
			return "", err
		}
		if x.Distinct {
			return x.Name + "(DISTINCT " + arg + ")", nil
		}
		return x.Name + "(" + arg + ")", nil
	case *ast.WildcardExpr:
		if x.Alias == "" {
			return "*", nil
		}
		i, ok := g.byKey[x.Alias]
		if !ok {
			return "", &metadata.SemanticError{Entity: x.Alias}
		}
		return g.bindings[i].qualifier + ".*", nil
	case *ast.SubqueryExpr:
		return "", &UnsupportedError{Feature: "subquery expression"}
	}
	return "", fmt.Errorf("unsupported expression type %T", e)
}

// property resolves a property reference to "qualifier.column". An
// unqualified name that matches a declared alias is an entity reference
// and renders as "qualifier.*".
func (g *Generator) property(p *ast.PropertyExpr) (string, error) {
	if p.Alias == "" {
		if i, ok := g.byKey[p.Property]; ok {
			return g.bindings[i].qualifier + ".*", nil
		}
		// Resolve against root entities in declaration order.
		for i := range g.bindings {
			b := &g.bindings[i]
			if col, err := b.entity.Column(p.Property); err == nil {
				return b.qualifier + "." + col.Column, nil
			}
		}
		entity := ""
		if len(g.bindings) > 0 {
			entity = g.bindings[0].entity.Name
		}
		return "", &metadata.SemanticError{Entity: entity, Property: p.Property}
	}

	i, ok := g.byKey[p.Alias]
	if !ok {
		return "", &metadata.SemanticError{Entity: p.Alias}
	}
	b := &g.bindings[i]
	col, err := b.entity.Column(p.Property)
	if err != nil {
		return "", err
	}
	return b.qualifier + "." + col.Column, nil
}

// renderLiteral renders a literal value in dialect-neutral form: strings
// single-quoted with internal quotes doubled, timestamps as
// 'yyyy-MM-dd HH:mm:ss', booleans as 1/0, nil as NULL.
func renderLiteral(v any) string {
	switch value := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'"
	case bool:
		if value {
			return "1"
		}
		return "0"
	case time.Time:
		return "'" + value.Format("2006-01-02 15:04:05") + "'"
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
