package main

import (
	"os"

	"github.com/entangle-labs/entangled/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
