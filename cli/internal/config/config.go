// Package config loads CLI configuration from config files, environment
// variables and .env files.
package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used by the CLI. Tests swap it for an
// in-memory one.
var AppFs = afero.NewOsFs()

// Config holds the application configuration
type Config struct {
	SchemaPath string
	Dialect    string
	NoColor    bool
}

// Load reads configuration from .cpql.yaml (working directory, home
// directory, ~/.config/cpql), CPQL_* environment variables and .env
// files. Missing config files are not an error.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".cpql")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "cpql"))

	viper.SetEnvPrefix("CPQL")
	viper.AutomaticEnv()

	viper.SetDefault("schema_path", "schema.yaml")
	viper.SetDefault("dialect", "")
	viper.SetDefault("no_color", false)

	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	return &Config{
		SchemaPath: viper.GetString("schema_path"),
		Dialect:    viper.GetString("dialect"),
		NoColor:    viper.GetBool("no_color"),
	}, nil
}

// Save writes the configuration to .cpql.yaml in the working directory.
func Save(cfg *Config) error {
	viper.Set("schema_path", cfg.SchemaPath)
	viper.Set("dialect", cfg.Dialect)
	viper.Set("no_color", cfg.NoColor)
	return viper.WriteConfigAs(".cpql.yaml")
}
