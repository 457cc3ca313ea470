package main

import (
	"os"

	"github.com/msomdec/minigolf-scorekeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
