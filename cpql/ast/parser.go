package ast

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/cpql-go/cpql/lexer"
	"github.com/satishbabariya/cpql-go/internal/debug"
)

// SyntaxError is returned when the token stream does not match the CPQL
// grammar. A query either parses completely or fails atomically; no
// partial AST is ever returned.
type SyntaxError struct {
	Expected string
	Got      string
	Pos      int
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

// Parse tokenizes and parses a CPQL query string.
func Parse(input string) (Statement, error) {
	tokens, err := lexer.NewLexer(input).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// Parser is a recursive-descent parser over a token slice with one token
// of lookahead and no backtracking. A Parser is a single-use, single-
// threaded cursor: construct a fresh one per parse.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// NewParser creates a parser for the given token stream.
func NewParser(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a single statement. All syntax failures raised anywhere in
// the grammar are caught here once and returned as a wrapped *SyntaxError.
func (p *Parser) Parse() (stmt Statement, err error) {
	defer func() {
		if r := recover(); r != nil {
			synErr, ok := r.(*SyntaxError)
			if !ok {
				panic(r)
			}
			stmt = nil
			err = fmt.Errorf("parsing query: %w", synErr)
		}
	}()

	switch p.current().Type {
	case lexer.TokenSelect:
		stmt = p.parseSelectQuery()
	case lexer.TokenUpdate:
		stmt = p.parseUpdateQuery()
	case lexer.TokenDelete:
		stmt = p.parseDeleteQuery()
	default:
		p.fail("SELECT, UPDATE or DELETE", p.current())
	}

	p.accept(lexer.TokenSemicolon)
	if p.current().Type != lexer.TokenEOF {
		p.fail(lexer.TokenEOF.String(), p.current())
	}
	debug.Debug("parsed statement", "type", fmt.Sprintf("%T", stmt))
	return stmt, nil
}

func (p *Parser) parseSelectQuery() *SelectQuery {
	p.expect(lexer.TokenSelect)

	query := &SelectQuery{}
	query.Select.Distinct = p.accept(lexer.TokenDistinct)
	for {
		item := SelectItem{Expr: p.parseExpression()}
		if p.accept(lexer.TokenAs) {
			item.Alias = p.expectIdent().Lexeme
		}
		query.Select.Items = append(query.Select.Items, item)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	if p.accept(lexer.TokenFrom) {
		query.From = p.parseFromClause()
	}
	if p.accept(lexer.TokenWhere) {
		query.Where = &WhereClause{Condition: p.parseExpression()}
	}
	if p.accept(lexer.TokenGroup) {
		p.expect(lexer.TokenBy)
		group := &GroupByClause{}
		for {
			group.Items = append(group.Items, p.parseExpression())
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		query.GroupBy = group
	}
	if p.accept(lexer.TokenHaving) {
		query.Having = &HavingClause{Condition: p.parseExpression()}
	}
	if p.accept(lexer.TokenOrder) {
		p.expect(lexer.TokenBy)
		order := &OrderByClause{}
		for {
			item := OrderByItem{Expr: p.parseExpression()}
			if p.accept(lexer.TokenDesc) {
				item.Direction = Desc
			} else {
				p.accept(lexer.TokenAsc)
			}
			order.Items = append(order.Items, item)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		query.OrderBy = order
	}
	return query
}

func (p *Parser) parseFromClause() *FromClause {
	from := &FromClause{}
	for {
		item := FromItem{Entity: p.expectName()}
		if p.current().Type == lexer.TokenIdent {
			item.Alias = p.advance().Lexeme
		}
		from.Items = append(from.Items, item)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}

	for {
		join, ok := p.parseJoinClause()
		if !ok {
			break
		}
		from.Joins = append(from.Joins, join)
	}
	return from
}

func (p *Parser) parseJoinClause() (JoinClause, bool) {
	join := JoinClause{Type: InnerJoin}
	switch p.current().Type {
	case lexer.TokenInner:
		p.advance()
		p.expect(lexer.TokenJoin)
	case lexer.TokenLeft:
		p.advance()
		p.expect(lexer.TokenJoin)
		join.Type = LeftJoin
	case lexer.TokenRight:
		p.advance()
		p.expect(lexer.TokenJoin)
		join.Type = RightJoin
	case lexer.TokenFull:
		p.advance()
		p.expect(lexer.TokenJoin)
		join.Type = FullJoin
	case lexer.TokenJoin:
		p.advance()
	default:
		return JoinClause{}, false
	}

	join.Entity = p.expectName()
	if p.accept(lexer.TokenAs) {
		join.Alias = p.expectIdent().Lexeme
	} else if p.current().Type == lexer.TokenIdent {
		join.Alias = p.advance().Lexeme
	}
	if p.accept(lexer.TokenOn) {
		join.On = p.parseExpression()
	}
	return join, true
}

func (p *Parser) parseUpdateQuery() *UpdateQuery {
	p.expect(lexer.TokenUpdate)
	query := &UpdateQuery{Entity: p.expectName()}
	if p.current().Type == lexer.TokenIdent {
		query.Alias = p.advance().Lexeme
	}
	p.expect(lexer.TokenSet)
	for {
		assignment := SetAssignment{}
		first := p.expectName()
		if p.accept(lexer.TokenDot) {
			assignment.Alias = first
			assignment.Property = p.expectName()
		} else {
			assignment.Property = first
		}
		p.expect(lexer.TokenEq)
		assignment.Value = p.parseExpression()
		query.Assignments = append(query.Assignments, assignment)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	if p.accept(lexer.TokenWhere) {
		query.Where = &WhereClause{Condition: p.parseExpression()}
	}
	return query
}

func (p *Parser) parseDeleteQuery() *DeleteQuery {
	p.expect(lexer.TokenDelete)
	p.expect(lexer.TokenFrom)
	query := &DeleteQuery{Entity: p.expectName()}
	if p.current().Type == lexer.TokenIdent {
		query.Alias = p.advance().Lexeme
	}
	if p.accept(lexer.TokenWhere) {
		query.Where = &WhereClause{Condition: p.parseExpression()}
	}
	return query
}

// Expression grammar, lowest precedence first. All binary operators are
// left-associative.

func (p *Parser) parseExpression() Expression {
	return p.parseOr()
}

func (p *Parser) parseOr() Expression {
	left := p.parseAnd()
	for p.accept(lexer.TokenOr) {
		left = &BinaryExpr{Left: left, Op: OpOr, Right: p.parseAnd()}
	}
	return left
}

func (p *Parser) parseAnd() Expression {
	left := p.parseEquality()
	for p.accept(lexer.TokenAnd) {
		left = &BinaryExpr{Left: left, Op: OpAnd, Right: p.parseEquality()}
	}
	return left
}

// parseEquality handles the flat equality tier: = <> LIKE IN IS, chaining
// left-to-right. "a = b IS c" is legal grammar, if semantically unusual.
func (p *Parser) parseEquality() Expression {
	left := p.parseRelational()
	for {
		var op Op
		switch p.current().Type {
		case lexer.TokenEq:
			op = OpEq
		case lexer.TokenNotEq:
			op = OpNotEq
		case lexer.TokenLike:
			op = OpLike
		case lexer.TokenIn:
			op = OpIn
		case lexer.TokenIs:
			op = OpIs
		default:
			return left
		}
		p.advance()
		left = &BinaryExpr{Left: left, Op: op, Right: p.parseRelational()}
	}
}

func (p *Parser) parseRelational() Expression {
	left := p.parseAdditive()
	for {
		var op Op
		switch p.current().Type {
		case lexer.TokenLess:
			op = OpLess
		case lexer.TokenLessEq:
			op = OpLessEq
		case lexer.TokenGreater:
			op = OpGreater
		case lexer.TokenGreaterEq:
			op = OpGreaterEq
		default:
			return left
		}
		p.advance()
		left = &BinaryExpr{Left: left, Op: op, Right: p.parseAdditive()}
	}
}

func (p *Parser) parseAdditive() Expression {
	left := p.parseMultiplicative()
	for {
		var op Op
		switch p.current().Type {
		case lexer.TokenPlus:
			op = OpAdd
		case lexer.TokenMinus:
			op = OpSub
		default:
			return left
		}
		p.advance()
		left = &BinaryExpr{Left: left, Op: op, Right: p.parseMultiplicative()}
	}
}

func (p *Parser) parseMultiplicative() Expression {
	left := p.parseUnary()
	for {
		var op Op
		switch p.current().Type {
		case lexer.TokenStar:
			op = OpMul
		case lexer.TokenSlash:
			op = OpDiv
		case lexer.TokenPercent:
			op = OpMod
		default:
			return left
		}
		p.advance()
		left = &BinaryExpr{Left: left, Op: op, Right: p.parseUnary()}
	}
}

func (p *Parser) parseUnary() Expression {
	switch p.current().Type {
	case lexer.TokenNot:
		p.advance()
		return &UnaryExpr{Op: OpNot, Operand: p.parseUnary()}
	case lexer.TokenMinus:
		p.advance()
		return &UnaryExpr{Op: OpNeg, Operand: p.parseUnary()}
	case lexer.TokenPlus:
		p.advance()
		return &UnaryExpr{Op: OpPos, Operand: p.parseUnary()}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() Expression {
	tok := p.current()

	switch {
	case tok.Type == lexer.TokenNumber:
		p.advance()
		return &LiteralExpr{Value: tok.Literal}
	case tok.Type == lexer.TokenString:
		p.advance()
		return &LiteralExpr{Value: tok.Literal}
	case tok.Type == lexer.TokenTrue:
		p.advance()
		return &LiteralExpr{Value: true}
	case tok.Type == lexer.TokenFalse:
		p.advance()
		return &LiteralExpr{Value: false}
	case tok.Type == lexer.TokenNull:
		p.advance()
		return &LiteralExpr{Value: nil}
	case tok.Type == lexer.TokenParam:
		p.advance()
		return &ParamExpr{Name: tok.Literal.(string)}
	case tok.Type == lexer.TokenStar:
		p.advance()
		return &WildcardExpr{}
	case tok.Type == lexer.TokenLParen:
		p.advance()
		if p.current().Type == lexer.TokenSelect {
			query := p.parseSelectQuery()
			p.expect(lexer.TokenRParen)
			return &SubqueryExpr{Query: query}
		}
		// Parenthesized sub-expressions produce identical sub-trees; no
		// grouping node is recorded.
		expr := p.parseExpression()
		p.expect(lexer.TokenRParen)
		return expr
	case tok.IsAggregate():
		p.advance()
		agg := &AggregateExpr{Name: strings.ToUpper(tok.Lexeme)}
		p.expect(lexer.TokenLParen)
		agg.Distinct = p.accept(lexer.TokenDistinct)
		agg.Arg = p.parseExpression()
		p.expect(lexer.TokenRParen)
		return agg
	case tok.IsFunction():
		p.advance()
		return p.parseFunctionArgs(strings.ToUpper(tok.Lexeme))
	case tok.Type == lexer.TokenIdent:
		p.advance()
		if p.accept(lexer.TokenDot) {
			if p.accept(lexer.TokenStar) {
				return &WildcardExpr{Alias: tok.Lexeme}
			}
			return &PropertyExpr{Alias: tok.Lexeme, Property: p.expectName()}
		}
		if p.current().Type == lexer.TokenLParen {
			return p.parseFunctionArgs(strings.ToUpper(tok.Lexeme))
		}
		return &PropertyExpr{Property: tok.Lexeme}
	}

	p.fail("expression", tok)
	return nil
}

func (p *Parser) parseFunctionArgs(name string) Expression {
	fn := &FuncExpr{Name: name}
	p.expect(lexer.TokenLParen)
	if p.current().Type != lexer.TokenRParen {
		for {
			fn.Args = append(fn.Args, p.parseExpression())
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRParen)
	return fn
}

// Cursor helpers.

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) accept(t lexer.TokenType) bool {
	if p.current().Type == t {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.current().Type != t {
		p.fail(t.String(), p.current())
	}
	return p.advance()
}

// expectIdent consumes a plain (non-keyword) identifier.
func (p *Parser) expectIdent() lexer.Token {
	if p.current().Type != lexer.TokenIdent {
		p.fail("identifier", p.current())
	}
	return p.advance()
}

// expectName consumes an entity or property name. Keywords are allowed
// here so that entities like "Order" or properties like "Year" remain
// usable despite colliding with the keyword table.
func (p *Parser) expectName() string {
	tok := p.current()
	if tok.Type != lexer.TokenIdent && !tok.Type.IsKeyword() {
		p.fail("identifier", tok)
	}
	return p.advance().Lexeme
}

// fail raises a SyntaxError; it is recovered once at the top of Parse.
func (p *Parser) fail(expected string, got lexer.Token) {
	gotName := got.Type.String()
	if got.Lexeme != "" && got.Type != lexer.TokenEOF {
		gotName = fmt.Sprintf("%s (%q)", gotName, got.Lexeme)
	}
	panic(&SyntaxError{
		Expected: expected,
		Got:      got.Type.String(),
		Pos:      got.Pos,
		Msg:      fmt.Sprintf("expected %s, got %s", expected, gotName),
	})
}
