// Package dialect defines the SQL dialect keys supported by the compiler.
//
// A dialect selects the function spellings used during SQL generation.
// Unknown dialect keys fall back to Default.
package dialect

const (
	// Default is the dialect-neutral fallback mapping.
	Default = "default"
	// Postgres is the PostgreSQL dialect.
	Postgres = "postgres"
	// MySQL is the MySQL/MariaDB dialect.
	MySQL = "mysql"
	// SQLServer is the Microsoft SQL Server dialect.
	SQLServer = "sqlserver"
	// SQLite is the SQLite dialect.
	SQLite = "sqlite"
)

// All lists the known dialect keys.
var All = []string{Default, Postgres, MySQL, SQLServer, SQLite}

// Known reports whether name is a recognized dialect key.
func Known(name string) bool {
	for _, d := range All {
		if d == name {
			return true
		}
	}
	return false
}
