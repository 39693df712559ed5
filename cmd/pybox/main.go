package main

import (
	"os"

	"github.com/teamcutter/pybox/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
