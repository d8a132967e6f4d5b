package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/cpql-go/cli/internal/ui"
	"github.com/satishbabariya/cpql-go/cpql/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [query-file]",
	Short: "Print the token stream for a query",
	Long: `Tokenize a CPQL query and print each token with its type, lexeme and
byte position. Useful when a query fails to parse and the error message
is not enough.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokens,
}

var tokensQuery string

func init() {
	tokensCmd.Flags().StringVarP(&tokensQuery, "query", "q", "", "Inline query text")

	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	query, fileName, err := readQuery(args, tokensQuery)
	if err != nil {
		return err
	}

	tokens, err := lexer.NewLexer(query).Tokenize()
	if err != nil {
		return reportError(err, fileName, query)
	}

	rows := make([][]string, 0, len(tokens))
	for _, tok := range tokens {
		literal := ""
		if tok.Literal != nil {
			literal = fmt.Sprintf("%v", tok.Literal)
		}
		rows = append(rows, []string{
			strconv.Itoa(tok.Pos),
			tok.Type.String(),
			tok.Lexeme,
			literal,
		})
	}
	ui.PrintTable([]string{"Pos", "Type", "Lexeme", "Literal"}, rows)
	return nil
}
