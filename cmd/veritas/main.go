// Package main provides the veritas command-line interface.
package main

import (
	"os"

	"github.com/aindus-labs/veritas/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
