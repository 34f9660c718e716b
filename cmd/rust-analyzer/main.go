// Package main provides the rust-analyzer CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "rust-analyzer",
		Version: version,
		Usage:   "Code completion tooling for Rust source files",
		Commands: []*cli.Command{
			completeCommand(),
			playgroundCommand(),
			symbolsCommand(),
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
