package main

import (
	"os"

	"github.com/sequentlab/sequent/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
