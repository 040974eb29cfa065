// Command spread-stitcher reconstructs two-page spreads from individually
// scanned book pages.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"spread-stitcher/cmd"
	"spread-stitcher/internal/version"
)

func main() {
	root := cmd.NewRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
