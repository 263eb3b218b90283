package main

import (
	"os"

	"FxSignals/cmd/app/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
