package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/cpql-go/cli/internal/ui"
	"github.com/satishbabariya/cpql-go/cli/internal/watch"
	"github.com/satishbabariya/cpql-go/cpql/compiler"
)

var compileCmd = &cobra.Command{
	Use:   "compile [query-file]",
	Short: "Compile a CPQL query to SQL",
	Long: `Compile a CPQL query to SQL for the target dialect.

The query comes from a file argument or the --query flag. Entity and
property mappings are read from the schema file. The generated SQL and
its named parameters are printed to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

var (
	compileQuery   string
	compileSchema  string
	compileDialect string
	compileWatch   bool
)

func init() {
	compileCmd.Flags().StringVarP(&compileQuery, "query", "q", "", "Inline query text")
	compileCmd.Flags().StringVarP(&compileSchema, "schema", "s", "", "Path to schema file")
	compileCmd.Flags().StringVarP(&compileDialect, "dialect", "d", "", "Target SQL dialect (postgres, mysql, sqlserver, sqlite)")
	compileCmd.Flags().BoolVarP(&compileWatch, "watch", "w", false, "Recompile when the query file changes")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	registry, _, err := loadRegistry(compileSchema)
	if err != nil {
		return err
	}
	c, err := compiler.New(registry, pickDialect(compileDialect))
	if err != nil {
		return err
	}

	compileOnce := func() error {
		query, fileName, err := readQuery(args, compileQuery)
		if err != nil {
			return err
		}
		out, err := c.Compile(query)
		if err != nil {
			return reportError(err, fileName, query)
		}

		fmt.Println()
		ui.PrintSQL(out.SQL)
		if len(out.Params) > 0 {
			fmt.Println()
			ui.PrintInfo("Parameters (in order of first use):")
			ui.PrintList(out.Params)
		}
		return nil
	}

	if compileWatch {
		if len(args) == 0 {
			return fmt.Errorf("--watch requires a query file argument")
		}
		w, err := watch.NewWatcher(args[0], func() error {
			if err := compileOnce(); err != nil {
				ui.PrintError("%v", err)
			}
			ui.PrintInfo("Watching %s for changes (Ctrl+C to stop)", args[0])
			return nil
		})
		if err != nil {
			return err
		}
		defer w.Stop()
		if err := w.Start(); err != nil {
			return err
		}
		select {}
	}

	return compileOnce()
}
