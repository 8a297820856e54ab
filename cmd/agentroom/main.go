// Package main is the entry point for the agentroom CLI/TUI.
package main

import (
	"os"

	"github.com/agentroom/agentroom/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
