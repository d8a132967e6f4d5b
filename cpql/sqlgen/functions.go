package sqlgen

import (
	"strings"

	"github.com/satishbabariya/cpql-go/cpql/dialect"
)

// defaultFunctions maps portable function names to their dialect-neutral
// SQL spellings. Zero-argument functions are stored pre-parenthesized so
// the generator passes them through verbatim instead of appending an
// empty argument list.
var defaultFunctions = map[string]string{
	"UPPER":     "UPPER",
	"LOWER":     "LOWER",
	"LENGTH":    "LENGTH",
	"SUBSTRING": "SUBSTRING",
	"TRIM":      "TRIM",
	"CONCAT":    "CONCAT",
	"YEAR":      "YEAR",
	"MONTH":     "MONTH",
	"DAY":       "DAY",
	"HOUR":      "HOUR",
	"MINUTE":    "MINUTE",
	"SECOND":    "SECOND",
	"NOW":       "NOW()",
}

// dialectFunctions holds per-dialect overrides of the default table.
var dialectFunctions = map[string]map[string]string{
	dialect.Postgres: {
		"NOW": "NOW()",
	},
	dialect.MySQL: {
		"NOW": "NOW()",
	},
	dialect.SQLServer: {
		"LENGTH": "LEN",
		"NOW":    "GETDATE()",
	},
	dialect.SQLite: {
		"SUBSTRING": "SUBSTR",
		"NOW":       "DATETIME('NOW')",
	},
}

// SQLFunction maps a portable function name to its SQL spelling for the
// given dialect. Unknown dialects fall back to the default table; unknown
// functions fall back to their upper-cased portable name.
func SQLFunction(name, d string) string {
	name = strings.ToUpper(name)
	if overrides, ok := dialectFunctions[d]; ok {
		if spelling, ok := overrides[name]; ok {
			return spelling
		}
	}
	if spelling, ok := defaultFunctions[name]; ok {
		return spelling
	}
	return name
}

// isNullary reports whether a registry spelling is a pre-parenthesized
// zero-argument function.
func isNullary(spelling string) bool {
	return strings.HasSuffix(spelling, ")")
}
