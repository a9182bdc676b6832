// Package main is the entry point for the loadout CLI.
package main

import (
	"os"

	"github.com/thoreinstein/loadout/cmd/loadout/commands"
)

func main() {
	os.Exit(commands.Execute())
}
