package lexer

import "strings"

// TokenType represents the type of a token.
type TokenType int

const (
	// Punctuation
	TokenLParen TokenType = iota
	TokenRParen
	TokenComma
	TokenDot
	TokenSemicolon
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent

	// Comparison operators
	TokenEq
	TokenNotEq
	TokenLess
	TokenLessEq
	TokenGreater
	TokenGreaterEq

	// Literals
	TokenIdent
	TokenString
	TokenNumber
	TokenParam

	// Statement keywords
	TokenSelect
	TokenFrom
	TokenWhere
	TokenGroup
	TokenHaving
	TokenOrder
	TokenBy
	TokenJoin
	TokenInner
	TokenLeft
	TokenRight
	TokenFull
	TokenOn
	TokenAs
	TokenDistinct
	TokenUpdate
	TokenSet
	TokenDelete
	TokenInto
	TokenValues
	TokenAsc
	TokenDesc

	// Logical and predicate keywords
	TokenAnd
	TokenOr
	TokenNot
	TokenLike
	TokenIn
	TokenBetween
	TokenIs
	TokenNull
	TokenTrue
	TokenFalse

	// Aggregate functions
	TokenCount
	TokenSum
	TokenAvg
	TokenMin
	TokenMax

	// String functions
	TokenUpper
	TokenLower
	TokenLength
	TokenSubstring
	TokenTrim
	TokenConcat

	// Date functions
	TokenYear
	TokenMonth
	TokenDay
	TokenHour
	TokenMinute
	TokenSecond
	TokenNow

	// Special
	TokenEOF
)

var tokenNames = map[TokenType]string{
	TokenLParen:    "'('",
	TokenRParen:    "')'",
	TokenComma:     "','",
	TokenDot:       "'.'",
	TokenSemicolon: "';'",
	TokenPlus:      "'+'",
	TokenMinus:     "'-'",
	TokenStar:      "'*'",
	TokenSlash:     "'/'",
	TokenPercent:   "'%'",
	TokenEq:        "'='",
	TokenNotEq:     "'<>'",
	TokenLess:      "'<'",
	TokenLessEq:    "'<='",
	TokenGreater:   "'>'",
	TokenGreaterEq: "'>='",
	TokenIdent:     "identifier",
	TokenString:    "string literal",
	TokenNumber:    "number literal",
	TokenParam:     "named parameter",
	TokenSelect:    "SELECT",
	TokenFrom:      "FROM",
	TokenWhere:     "WHERE",
	TokenGroup:     "GROUP",
	TokenHaving:    "HAVING",
	TokenOrder:     "ORDER",
	TokenBy:        "BY",
	TokenJoin:      "JOIN",
	TokenInner:     "INNER",
	TokenLeft:      "LEFT",
	TokenRight:     "RIGHT",
	TokenFull:      "FULL",
	TokenOn:        "ON",
	TokenAs:        "AS",
	TokenDistinct:  "DISTINCT",
	TokenUpdate:    "UPDATE",
	TokenSet:       "SET",
	TokenDelete:    "DELETE",
	TokenInto:      "INTO",
	TokenValues:    "VALUES",
	TokenAsc:       "ASC",
	TokenDesc:      "DESC",
	TokenAnd:       "AND",
	TokenOr:        "OR",
	TokenNot:       "NOT",
	TokenLike:      "LIKE",
	TokenIn:        "IN",
	TokenBetween:   "BETWEEN",
	TokenIs:        "IS",
	TokenNull:      "NULL",
	TokenTrue:      "TRUE",
	TokenFalse:     "FALSE",
	TokenCount:     "COUNT",
	TokenSum:       "SUM",
	TokenAvg:       "AVG",
	TokenMin:       "MIN",
	TokenMax:       "MAX",
	TokenUpper:     "UPPER",
	TokenLower:     "LOWER",
	TokenLength:    "LENGTH",
	TokenSubstring: "SUBSTRING",
	TokenTrim:      "TRIM",
	TokenConcat:    "CONCAT",
	TokenYear:      "YEAR",
	TokenMonth:     "MONTH",
	TokenDay:       "DAY",
	TokenHour:      "HOUR",
	TokenMinute:    "MINUTE",
	TokenSecond:    "SECOND",
	TokenNow:       "NOW",
	TokenEOF:       "end of input",
}

// String returns a human-readable name for the token type, suitable for
// error messages.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "unknown token"
}

// keywords maps upper-cased keyword spellings to their token types.
// Keyword matching is case-insensitive.
var keywords = map[string]TokenType{
	"SELECT":    TokenSelect,
	"FROM":      TokenFrom,
	"WHERE":     TokenWhere,
	"GROUP":     TokenGroup,
	"HAVING":    TokenHaving,
	"ORDER":     TokenOrder,
	"BY":        TokenBy,
	"JOIN":      TokenJoin,
	"INNER":     TokenInner,
	"LEFT":      TokenLeft,
	"RIGHT":     TokenRight,
	"FULL":      TokenFull,
	"ON":        TokenOn,
	"AS":        TokenAs,
	"DISTINCT":  TokenDistinct,
	"UPDATE":    TokenUpdate,
	"SET":       TokenSet,
	"DELETE":    TokenDelete,
	"INTO":      TokenInto,
	"VALUES":    TokenValues,
	"ASC":       TokenAsc,
	"DESC":      TokenDesc,
	"AND":       TokenAnd,
	"OR":        TokenOr,
	"NOT":       TokenNot,
	"LIKE":      TokenLike,
	"IN":        TokenIn,
	"BETWEEN":   TokenBetween,
	"IS":        TokenIs,
	"NULL":      TokenNull,
	"TRUE":      TokenTrue,
	"FALSE":     TokenFalse,
	"COUNT":     TokenCount,
	"SUM":       TokenSum,
	"AVG":       TokenAvg,
	"MIN":       TokenMin,
	"MAX":       TokenMax,
	"UPPER":     TokenUpper,
	"LOWER":     TokenLower,
	"LENGTH":    TokenLength,
	"SUBSTRING": TokenSubstring,
	"TRIM":      TokenTrim,
	"CONCAT":    TokenConcat,
	"YEAR":      TokenYear,
	"MONTH":     TokenMonth,
	"DAY":       TokenDay,
	"HOUR":      TokenHour,
	"MINUTE":    TokenMinute,
	"SECOND":    TokenSecond,
	"NOW":       TokenNow,
}

// LookupKeyword returns the keyword token type for an identifier spelling,
// or TokenIdent if the spelling is not a keyword.
func LookupKeyword(ident string) TokenType {
	if t, ok := keywords[strings.ToUpper(ident)]; ok {
		return t
	}
	return TokenIdent
}

// Token represents a single lexical unit of a CPQL query.
// Tokens are immutable values produced by the Lexer and consumed by the
// parser one at a time.
type Token struct {
	Type    TokenType
	Lexeme  string // the literal text from the input
	Literal any    // decoded value for strings, numbers and parameters
	Pos     int    // byte offset of the first character in the input
}

// IsKeyword reports whether the token type is a reserved keyword.
func (t TokenType) IsKeyword() bool {
	return t >= TokenSelect && t <= TokenNow
}

// IsAggregate reports whether the token is an aggregate function keyword.
func (t Token) IsAggregate() bool {
	switch t.Type {
	case TokenCount, TokenSum, TokenAvg, TokenMin, TokenMax:
		return true
	}
	return false
}

// IsFunction reports whether the token is a built-in scalar function keyword.
func (t Token) IsFunction() bool {
	switch t.Type {
	case TokenUpper, TokenLower, TokenLength, TokenSubstring, TokenTrim, TokenConcat,
		TokenYear, TokenMonth, TokenDay, TokenHour, TokenMinute, TokenSecond, TokenNow:
		return true
	}
	return false
}
