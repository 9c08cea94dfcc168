package main

import (
	"os"

	"github.com/gcbaptista/go-catalog-search/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
