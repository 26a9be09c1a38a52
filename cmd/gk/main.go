package main

import (
	"fmt"
	"os"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
