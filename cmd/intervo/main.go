// Command intervo is the entry point for the interview engine CLI.
package main

import (
	"os"

	"github.com/custodia-labs/intervo/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
