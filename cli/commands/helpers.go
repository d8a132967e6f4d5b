package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/satishbabariya/cpql-go/cli/internal/config"
	"github.com/satishbabariya/cpql-go/cpql/diagnostics"
	"github.com/satishbabariya/cpql-go/cpql/metadata"
	"github.com/spf13/afero"
)

// readQuery returns the query text and a display name for diagnostics.
// A positional file argument wins over the --query flag.
func readQuery(args []string, inline string) (string, string, error) {
	if len(args) > 0 {
		content, err := afero.ReadFile(config.AppFs, args[0])
		if err != nil {
			return "", "", fmt.Errorf("reading query file: %w", err)
		}
		return string(content), args[0], nil
	}
	if inline != "" {
		return inline, "<query>", nil
	}
	return "", "", fmt.Errorf("no query given: pass a query file or --query")
}

// loadRegistry loads entity metadata from the schema path, preferring an
// explicit flag over the configured default.
func loadRegistry(flagPath string) (*metadata.Registry, string, error) {
	path := flagPath
	if path == "" {
		path = cfg.SchemaPath
	}
	registry, err := metadata.LoadFile(config.AppFs, path)
	if err != nil {
		return nil, path, fmt.Errorf("loading schema %s: %w", path, err)
	}
	return registry, path, nil
}

// pickDialect resolves the dialect from flag, then config.
func pickDialect(flagDialect string) string {
	if flagDialect != "" {
		return flagDialect
	}
	return cfg.Dialect
}

// reportError pretty prints a compiler error against the query source and
// returns a terse error for the exit status.
func reportError(err error, fileName, source string) error {
	d := diagnostics.FromError(err, source)
	fmt.Fprintln(os.Stderr)
	diagnostics.PrettyPrint(os.Stderr, fileName, source, d, diagnostics.ErrorColorer{})
	return fmt.Errorf("%s error", d.Stage)
}

// queryDisplay trims a query for one-line display.
func queryDisplay(query string) string {
	oneLine := strings.Join(strings.Fields(query), " ")
	if len(oneLine) > 60 {
		oneLine = oneLine[:57] + "..."
	}
	return oneLine
}
