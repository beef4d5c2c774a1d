package main

import (
	"os"

	"github.com/tinygit/tinygit/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
