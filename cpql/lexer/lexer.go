// Package lexer provides lexical analysis for CPQL queries.
package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/satishbabariya/cpql-go/internal/debug"
)

// LexicalError is returned when the input contains a character sequence
// that cannot be tokenized.
type LexicalError struct {
	Msg string
	Pos int // byte offset in the input
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at offset %d: %s", e.Pos, e.Msg)
}

// Lexer tokenizes CPQL query input.
//
// The Lexer is stateful: each call to NextToken advances the position in
// the input. A fresh Lexer is constructed per query and holds no state
// shared across calls, so concurrent queries need no locking.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the whole input and returns the token slice, terminated
// by exactly one EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	debug.Debug("tokenizing query", "input_length", len(l.input))
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// NextToken advances the lexer and returns the next token. Whitespace,
// line comments (-- ...) and block comments (/* ... */) are skipped
// silently. After the input is exhausted, every call returns an EOF token.
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipTrivia(); err != nil {
		return Token{}, err
	}

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	ch := l.input[l.pos]

	switch {
	case isIdentStart(ch):
		return l.scanIdentifier(), nil
	case unicode.IsDigit(rune(ch)):
		return l.scanNumber()
	case ch == '\'' || ch == '"':
		return l.scanString()
	case ch == ':':
		return l.scanParameter()
	}

	// Multi-character operators before single-character ones.
	switch ch {
	case '<':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: TokenLessEq, Lexeme: "<=", Pos: start}, nil
		}
		if l.pos < len(l.input) && l.input[l.pos] == '>' {
			l.pos++
			return Token{Type: TokenNotEq, Lexeme: "<>", Pos: start}, nil
		}
		return Token{Type: TokenLess, Lexeme: "<", Pos: start}, nil
	case '>':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: TokenGreaterEq, Lexeme: ">=", Pos: start}, nil
		}
		return Token{Type: TokenGreater, Lexeme: ">", Pos: start}, nil
	case '!':
		l.pos++
		if l.pos < len(l.input) && l.input[l.pos] == '=' {
			l.pos++
			return Token{Type: TokenNotEq, Lexeme: "!=", Pos: start}, nil
		}
		return Token{}, &LexicalError{Msg: "unexpected character '!'", Pos: start}
	}

	l.pos++
	switch ch {
	case '(':
		return Token{Type: TokenLParen, Lexeme: "(", Pos: start}, nil
	case ')':
		return Token{Type: TokenRParen, Lexeme: ")", Pos: start}, nil
	case ',':
		return Token{Type: TokenComma, Lexeme: ",", Pos: start}, nil
	case '.':
		return Token{Type: TokenDot, Lexeme: ".", Pos: start}, nil
	case ';':
		return Token{Type: TokenSemicolon, Lexeme: ";", Pos: start}, nil
	case '+':
		return Token{Type: TokenPlus, Lexeme: "+", Pos: start}, nil
	case '-':
		return Token{Type: TokenMinus, Lexeme: "-", Pos: start}, nil
	case '*':
		return Token{Type: TokenStar, Lexeme: "*", Pos: start}, nil
	case '/':
		return Token{Type: TokenSlash, Lexeme: "/", Pos: start}, nil
	case '%':
		return Token{Type: TokenPercent, Lexeme: "%", Pos: start}, nil
	case '=':
		return Token{Type: TokenEq, Lexeme: "=", Pos: start}, nil
	}

	return Token{}, &LexicalError{Msg: fmt.Sprintf("unexpected character %q", rune(ch)), Pos: start}
}

// skipTrivia advances past whitespace and comments. An unterminated block
// comment is a lexical error.
func (l *Lexer) skipTrivia() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case unicode.IsSpace(rune(ch)):
			l.pos++
		case ch == '-' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '-':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			start := l.pos
			l.pos += 2
			for {
				if l.pos+1 >= len(l.input) {
					return &LexicalError{Msg: "unterminated block comment", Pos: start}
				}
				if l.input[l.pos] == '*' && l.input[l.pos+1] == '/' {
					l.pos += 2
					break
				}
				l.pos++
			}
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) scanIdentifier() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	lexeme := l.input[start:l.pos]
	return Token{Type: LookupKeyword(lexeme), Lexeme: lexeme, Pos: start}
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.input) && unicode.IsDigit(rune(l.input[l.pos])) {
		l.pos++
	}

	decimal := false
	// A decimal point must be followed by at least one digit; otherwise the
	// dot is left for the caller ("1." is "1" then ".").
	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && unicode.IsDigit(rune(l.input[l.pos+1])) {
		decimal = true
		l.pos++
		for l.pos < len(l.input) && unicode.IsDigit(rune(l.input[l.pos])) {
			l.pos++
		}
	}

	lexeme := l.input[start:l.pos]
	if decimal {
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Token{}, &LexicalError{Msg: fmt.Sprintf("malformed number %q", lexeme), Pos: start}
		}
		return Token{Type: TokenNumber, Lexeme: lexeme, Literal: value, Pos: start}, nil
	}
	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Token{}, &LexicalError{Msg: fmt.Sprintf("malformed number %q", lexeme), Pos: start}
	}
	return Token{Type: TokenNumber, Lexeme: lexeme, Literal: value, Pos: start}, nil
}

func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	quote := l.input[l.pos]
	l.pos++

	var sb strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == quote {
			l.pos++
			lexeme := l.input[start:l.pos]
			return Token{Type: TokenString, Lexeme: lexeme, Literal: sb.String(), Pos: start}, nil
		}
		if ch == '\\' {
			if l.pos+1 >= len(l.input) {
				break
			}
			l.pos++
			switch l.input[l.pos] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			case '"':
				sb.WriteByte('"')
			default:
				// Unknown escapes keep the escaped character as-is.
				sb.WriteByte(l.input[l.pos])
			}
			l.pos++
			continue
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return Token{}, &LexicalError{Msg: "unterminated string literal", Pos: start}
}

func (l *Lexer) scanParameter() (Token, error) {
	start := l.pos
	l.pos++ // skip ':'
	nameStart := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == nameStart {
		return Token{}, &LexicalError{Msg: "expected parameter name after ':'", Pos: start}
	}
	name := l.input[nameStart:l.pos]
	return Token{Type: TokenParam, Lexeme: l.input[start:l.pos], Literal: name, Pos: start}, nil
}

func isIdentStart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isIdentPart(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || unicode.IsDigit(rune(ch)) || ch == '_'
}
