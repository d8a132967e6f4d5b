package main

import (
	"os"

	"github.com/satishbabariya/cpql-go/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
