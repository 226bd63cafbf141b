// Package main provides the leapjs CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/leapjs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
