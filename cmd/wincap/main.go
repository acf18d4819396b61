package main

import (
	"os"

	"github.com/wincap-dev/wincap/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
