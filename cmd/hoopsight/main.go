package main

import (
	"os"

	"hoopsight/cmd/hoopsight/commands"
)

// main is the entry point for the hoopsight CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
