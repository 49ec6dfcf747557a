// Package main is the entry point of the pagecraft command.
package main

import (
	"os"

	"github.com/leapstack-labs/pagecraft/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
