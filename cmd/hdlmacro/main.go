// Package main provides the hdlmacro command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/hdlmacro/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
