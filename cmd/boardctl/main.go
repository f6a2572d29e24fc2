// Package main is the entry point for the boardctl CLI tool.
package main

import (
	"os"

	"github.com/good-yellow-bee/bugboard/cmd/boardctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
