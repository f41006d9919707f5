package main

import (
	"os"

	"github.com/bokisim/bokisim/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
