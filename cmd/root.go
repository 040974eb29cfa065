// Package cmd wires the stitching pipeline to the command line.
package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"spread-stitcher/internal/config"
)

var configPath string

// NewRootCmd builds the root command with its subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spread-stitcher",
		Short: "Reconstruct two-page spreads from scanned book pages",
		Long: `Spread-stitcher joins pairs of individually scanned book pages into
single double-page spread images: each page is deskewed, its borders and
spine guide line are located, and both pages are registered against a fixed
spine template and composited into one canvas.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config overriding the built-in calibration defaults")

	cmd.AddCommand(newStitchCmd())
	cmd.AddCommand(newInspectCmd())

	return cmd
}

// loadConfig resolves the effective configuration for a command run.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}
