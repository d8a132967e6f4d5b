// Package ast defines the CPQL query AST and the parser producing it.
//
// The AST is a pure value: it is built once per Parse call and never
// mutated afterwards. Explicit parentheses in the source produce the same
// sub-trees as implied precedence, so re-serialization preserves grouping
// semantics rather than token-for-token text.
package ast

// Statement is the top-level query node: one of SelectQuery, UpdateQuery
// or DeleteQuery.
type Statement interface {
	stmt()
}

// SelectQuery represents a SELECT statement.
type SelectQuery struct {
	Select  SelectClause
	From    *FromClause
	Where   *WhereClause
	GroupBy *GroupByClause
	Having  *HavingClause
	OrderBy *OrderByClause
}

// UpdateQuery represents an UPDATE statement.
type UpdateQuery struct {
	Entity      string
	Alias       string
	Assignments []SetAssignment
	Where       *WhereClause
}

// DeleteQuery represents a DELETE statement.
type DeleteQuery struct {
	Entity string
	Alias  string
	Where  *WhereClause
}

func (*SelectQuery) stmt() {}
func (*UpdateQuery) stmt() {}
func (*DeleteQuery) stmt() {}

// SelectClause holds the projection of a SELECT statement.
type SelectClause struct {
	Distinct bool
	Items    []SelectItem
}

// SelectItem is a single projected expression with an optional alias.
type SelectItem struct {
	Expr  Expression
	Alias string
}

// FromClause holds the root entities and joins of a SELECT statement.
type FromClause struct {
	Items []FromItem
	Joins []JoinClause
}

// FromItem is an entity reference with an optional alias.
type FromItem struct {
	Entity string
	Alias  string
}

// JoinType identifies the kind of a JOIN clause.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
)

// SQL returns the SQL spelling of the join type.
func (j JoinType) SQL() string {
	switch j {
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	case FullJoin:
		return "FULL JOIN"
	default:
		return "INNER JOIN"
	}
}

// JoinClause is a single JOIN with an optional ON condition.
type JoinClause struct {
	Type   JoinType
	Entity string
	Alias  string
	On     Expression
}

// WhereClause holds the WHERE condition.
type WhereClause struct {
	Condition Expression
}

// HavingClause holds the HAVING condition.
type HavingClause struct {
	Condition Expression
}

// GroupByClause holds the GROUP BY expressions.
type GroupByClause struct {
	Items []Expression
}

// Direction is an ORDER BY sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// SQL returns the SQL spelling of the direction.
func (d Direction) SQL() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// OrderByClause holds the ORDER BY items.
type OrderByClause struct {
	Items []OrderByItem
}

// OrderByItem is a single ordering expression with a direction.
type OrderByItem struct {
	Expr      Expression
	Direction Direction
}

// SetAssignment is a single "property = expression" pair in an UPDATE.
type SetAssignment struct {
	Alias    string // optional qualifying alias
	Property string
	Value    Expression
}

// Op identifies a binary or unary operator.
type Op int

const (
	OpOr Op = iota
	OpAnd
	OpEq
	OpNotEq
	OpLike
	OpIn
	OpIs
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNot
	OpNeg
	OpPos
)

// SQL returns the SQL spelling of the operator.
func (o Op) SQL() string {
	switch o {
	case OpOr:
		return "OR"
	case OpAnd:
		return "AND"
	case OpEq:
		return "="
	case OpNotEq:
		return "<>"
	case OpLike:
		return "LIKE"
	case OpIn:
		return "IN"
	case OpIs:
		return "IS"
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpAdd:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpNot:
		return "NOT"
	case OpPos:
		return "+"
	}
	return "?"
}

// Expression is a node of the expression tree.
type Expression interface {
	expr()
}

// PropertyExpr references an entity property, optionally qualified by an
// alias ("u.Name" or "Name"). The parser is alias-agnostic: whether the
// alias matches a declared entity is checked at generation time.
type PropertyExpr struct {
	Alias    string
	Property string
}

// LiteralExpr holds a literal value: string, int64, float64, bool,
// time.Time or nil.
type LiteralExpr struct {
	Value any
}

// ParamExpr references a named parameter (":name").
type ParamExpr struct {
	Name string
}

// BinaryExpr applies a binary operator. Trees are strictly
// left-associative per precedence level.
type BinaryExpr struct {
	Left  Expression
	Op    Op
	Right Expression
}

// UnaryExpr applies a prefix operator (NOT, -, +).
type UnaryExpr struct {
	Op      Op
	Operand Expression
}

// FuncExpr is a built-in scalar function call.
type FuncExpr struct {
	Name string // portable upper-cased name, e.g. "SUBSTRING"
	Args []Expression
}

// AggregateExpr is an aggregate call: COUNT, SUM, AVG, MIN or MAX.
type AggregateExpr struct {
	Name     string // upper-cased
	Arg      Expression
	Distinct bool
}

// WildcardExpr is "*" or "alias.*".
type WildcardExpr struct {
	Alias string
}

// SubqueryExpr is a parenthesized SELECT used as an expression. The
// grammar accepts it, but the SQL backend rejects it at generation time.
type SubqueryExpr struct {
	Query *SelectQuery
}

func (*PropertyExpr) expr()  {}
func (*LiteralExpr) expr()   {}
func (*ParamExpr) expr()     {}
func (*BinaryExpr) expr()    {}
func (*UnaryExpr) expr()     {}
func (*FuncExpr) expr()      {}
func (*AggregateExpr) expr() {}
func (*WildcardExpr) expr()  {}
func (*SubqueryExpr) expr()  {}

// Params returns the named parameters referenced by the statement, in
// order of first appearance, deduplicated.
func Params(s Statement) []string {
	c := &paramCollector{seen: map[string]bool{}}
	c.statement(s)
	return c.names
}

type paramCollector struct {
	names []string
	seen  map[string]bool
}

func (c *paramCollector) statement(s Statement) {
	switch q := s.(type) {
	case *SelectQuery:
		c.selectQuery(q)
	case *UpdateQuery:
		for _, a := range q.Assignments {
			c.expression(a.Value)
		}
		if q.Where != nil {
			c.expression(q.Where.Condition)
		}
	case *DeleteQuery:
		if q.Where != nil {
			c.expression(q.Where.Condition)
		}
	}
}

func (c *paramCollector) selectQuery(q *SelectQuery) {
	for _, item := range q.Select.Items {
		c.expression(item.Expr)
	}
	if q.From != nil {
		for _, join := range q.From.Joins {
			if join.On != nil {
				c.expression(join.On)
			}
		}
	}
	if q.Where != nil {
		c.expression(q.Where.Condition)
	}
	if q.GroupBy != nil {
		for _, e := range q.GroupBy.Items {
			c.expression(e)
		}
	}
	if q.Having != nil {
		c.expression(q.Having.Condition)
	}
	if q.OrderBy != nil {
		for _, item := range q.OrderBy.Items {
			c.expression(item.Expr)
		}
	}
}

func (c *paramCollector) expression(e Expression) {
	switch x := e.(type) {
	case *ParamExpr:
		if !c.seen[x.Name] {
			c.seen[x.Name] = true
			c.names = append(c.names, x.Name)
		}
	case *BinaryExpr:
		c.expression(x.Left)
		c.expression(x.Right)
	case *UnaryExpr:
		c.expression(x.Operand)
	case *FuncExpr:
		for _, arg := range x.Args {
			c.expression(arg)
		}
	case *AggregateExpr:
		c.expression(x.Arg)
	case *SubqueryExpr:
		c.selectQuery(x.Query)
	}
}
