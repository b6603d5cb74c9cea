package main

import (
	"os"

	"github.com/wonny/sage/cmd/sage/commands"
)

// main is the entry point for the Sage CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/sage [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
