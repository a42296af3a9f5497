// Package main is the bvh command itself.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"go.viam.com/bvh/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		//nolint:errcheck
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}
