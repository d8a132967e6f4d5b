package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	tokens, err := NewLexer(input).Tokenize()
	require.NoError(t, err)
	return tokens
}

func types(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenizeSelect(t *testing.T) {
	tokens := tokenize(t, "SELECT u.Name FROM User u WHERE u.Age >= :minAge")
	assert.Equal(t, []TokenType{
		TokenSelect, TokenIdent, TokenDot, TokenIdent,
		TokenFrom, TokenIdent, TokenIdent,
		TokenWhere, TokenIdent, TokenDot, TokenIdent,
		TokenGreaterEq, TokenParam, TokenEOF,
	}, types(tokens))
	assert.Equal(t, "minAge", tokens[12].Literal)
}

func TestKeywordsCaseInsensitive(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{"select", TokenSelect},
		{"SeLeCt", TokenSelect},
		{"FROM", TokenFrom},
		{"distinct", TokenDistinct},
		{"group", TokenGroup},
		{"by", TokenBy},
		{"order", TokenOrder},
		{"inner", TokenInner},
		{"count", TokenCount},
		{"substring", TokenSubstring},
		{"now", TokenNow},
		{"null", TokenNull},
		{"true", TokenTrue},
		{"false", TokenFalse},
		{"username", TokenIdent},
		{"selection", TokenIdent},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.want, tokens[0].Type)
		})
	}
}

func TestOperators(t *testing.T) {
	tokens := tokenize(t, "= <> != < <= > >= + - * / %")
	assert.Equal(t, []TokenType{
		TokenEq, TokenNotEq, TokenNotEq, TokenLess, TokenLessEq,
		TokenGreater, TokenGreaterEq, TokenPlus, TokenMinus,
		TokenStar, TokenSlash, TokenPercent, TokenEOF,
	}, types(tokens))
}

func TestStringLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single quoted", `'hello'`, "hello"},
		{"double quoted", `"hello"`, "hello"},
		{"escaped quote", `'O\'Brien'`, "O'Brien"},
		{"escaped newline", `'a\nb'`, "a\nb"},
		{"escaped tab", `'a\tb'`, "a\tb"},
		{"escaped backslash", `'a\\b'`, `a\b`},
		{"double quote in single", `'say "hi"'`, `say "hi"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tokenize(t, tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, TokenString, tokens[0].Type)
			assert.Equal(t, tt.want, tokens[0].Literal)
		})
	}
}

func TestNumberLiterals(t *testing.T) {
	tokens := tokenize(t, "42 3.14 0 0.5")
	require.Len(t, tokens, 5)
	assert.Equal(t, int64(42), tokens[0].Literal)
	assert.Equal(t, 3.14, tokens[1].Literal)
	assert.Equal(t, int64(0), tokens[2].Literal)
	assert.Equal(t, 0.5, tokens[3].Literal)
}

func TestCommentsSkipped(t *testing.T) {
	tokens := tokenize(t, "SELECT -- line comment\n u /* block\ncomment */ FROM User")
	assert.Equal(t, []TokenType{TokenSelect, TokenIdent, TokenFrom, TokenIdent, TokenEOF}, types(tokens))
}

func TestLexicalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", "'abc"},
		{"unterminated block comment", "SELECT /* oops"},
		{"unexpected character", "SELECT #"},
		{"bare exclamation", "a ! b"},
		{"bare colon", "WHERE x = :"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLexer(tt.input).Tokenize()
			require.Error(t, err)
			var lexErr *LexicalError
			require.ErrorAs(t, err, &lexErr)
			assert.GreaterOrEqual(t, lexErr.Pos, 0)
		})
	}
}

func TestEOFIsSticky(t *testing.T) {
	l := NewLexer("a")
	tok, err := l.NextToken()
	require.NoError(t, err)
	assert.Equal(t, TokenIdent, tok.Type)
	for i := 0; i < 3; i++ {
		tok, err = l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, TokenEOF, tok.Type)
	}
}

// Re-lexing the joined lexemes of a token stream must produce a
// token-equivalent stream, whitespace and comments aside.
func TestRelexLexemes(t *testing.T) {
	input := "SELECT DISTINCT u.Name, COUNT(o) FROM User u INNER JOIN Order o ON o.UserId = u.Id WHERE u.Age > 18 ORDER BY u.Name DESC -- trailing"
	first := tokenize(t, input)

	lexemes := make([]string, 0, len(first)-1)
	for _, tok := range first[:len(first)-1] {
		lexemes = append(lexemes, tok.Lexeme)
	}
	second := tokenize(t, strings.Join(lexemes, " "))

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type, "token %d", i)
		assert.Equal(t, first[i].Lexeme, second[i].Lexeme, "token %d", i)
	}
}

func TestTokenPositions(t *testing.T) {
	tokens := tokenize(t, "SELECT u FROM User")
	assert.Equal(t, 0, tokens[0].Pos)
	assert.Equal(t, 7, tokens[1].Pos)
	assert.Equal(t, 9, tokens[2].Pos)
	assert.Equal(t, 14, tokens[3].Pos)
}
