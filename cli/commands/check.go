package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/cpql-go/cli/internal/config"
	"github.com/satishbabariya/cpql-go/cli/internal/ui"
	"github.com/satishbabariya/cpql-go/cpql/ast"
	"github.com/satishbabariya/cpql-go/cpql/compiler"
)

var checkCmd = &cobra.Command{
	Use:   "check [query-file]",
	Short: "Check a CPQL query without emitting SQL",
	Long: `Check a CPQL query for errors.

Syntax is always checked. When the schema file exists, entity and
property references are checked against it too; without a schema only
the syntax check runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

var (
	checkQuery  string
	checkSchema string
)

func init() {
	checkCmd.Flags().StringVarP(&checkQuery, "query", "q", "", "Inline query text")
	checkCmd.Flags().StringVarP(&checkSchema, "schema", "s", "", "Path to schema file")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	query, fileName, err := readQuery(args, checkQuery)
	if err != nil {
		return err
	}

	if _, err := ast.Parse(query); err != nil {
		return reportError(err, fileName, query)
	}

	registry, schemaPath, err := loadRegistry(checkSchema)
	if err != nil {
		// No schema file means syntax-only checking, not a failure.
		if exists, _ := aferoExists(schemaPath); !exists && checkSchema == "" {
			ui.PrintSuccess("Syntax OK: %s", queryDisplay(query))
			ui.PrintInfo("No schema file at %s, skipped entity checks", schemaPath)
			return nil
		}
		return err
	}

	c, err := compiler.New(registry, pickDialect(""))
	if err != nil {
		return err
	}
	if _, err := c.Compile(query); err != nil {
		return reportError(err, fileName, query)
	}

	ui.PrintSuccess("Query OK: %s", queryDisplay(query))
	return nil
}

func aferoExists(path string) (bool, error) {
	_, err := config.AppFs.Stat(path)
	if err != nil {
		return false, err
	}
	return true, nil
}
