package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/cpql-go/cli/internal/config"
	"github.com/satishbabariya/cpql-go/cli/internal/ui"
	"github.com/satishbabariya/cpql-go/cpql/dialect"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter schema and config in the current directory",
	RunE:  runInit,
}

var initYes bool

func init() {
	initCmd.Flags().BoolVarP(&initYes, "yes", "y", false, "Accept defaults without prompting")

	rootCmd.AddCommand(initCmd)
}

const starterSchema = `# Entity metadata for CPQL compilation.
#
# table defaults to the pluralized snake_case entity name, and column to
# the snake_case property name; set them only to override.
entities:
  - name: User
    columns:
      - name: Id
      - name: Email
      - name: Name
      - name: CreatedAt
  - name: Order
    columns:
      - name: Id
      - name: UserId
      - name: Total
        column: total_amount
    relationships:
      - name: User
        target: User
        cardinality: many-to-one
        foreignKey: UserId
        references: Id
`

const starterQuery = `-- Example CPQL query. Compile it with:
--   cpql compile example.cpql --dialect postgres
SELECT u.Name, COUNT(o.Id)
FROM User u
INNER JOIN Order o ON o.UserId = u.Id
WHERE u.CreatedAt > :since
GROUP BY u.Name
ORDER BY u.Name ASC
`

func runInit(cmd *cobra.Command, args []string) error {
	ui.PrintHeader("cpql", "Project setup")

	chosen := ""
	if initYes {
		chosen = dialect.Postgres
	} else {
		prompt := &survey.Select{
			Message: "Default SQL dialect:",
			Options: dialect.All,
			Default: dialect.Postgres,
		}
		if err := survey.AskOne(prompt, &chosen); err != nil {
			return err
		}
	}

	files := map[string]string{
		"schema.yaml":  starterSchema,
		"example.cpql": starterQuery,
	}
	for path, content := range files {
		if exists, _ := aferoExists(path); exists {
			ui.PrintWarning("%s already exists, skipping", path)
			continue
		}
		if err := afero.WriteFile(config.AppFs, path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		ui.PrintSuccess("Created %s", path)
	}

	if err := config.Save(&config.Config{SchemaPath: "schema.yaml", Dialect: chosen}); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	ui.PrintSuccess("Created .cpql.yaml (dialect: %s)", chosen)

	fmt.Println()
	ui.PrintInfo("Try it:")
	ui.PrintList([]string{
		"cpql compile example.cpql",
		"cpql tokens example.cpql",
		"cpql check -q 'SELECT u.Email FROM User u'",
	})
	return nil
}
