package main

import (
	"os"

	"github.com/rutooro/translation-manager/cmd/ttj/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
