package main

import (
	"os"

	"github.com/avendel/stepflow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
