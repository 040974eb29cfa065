package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"spread-stitcher/internal/stitch"
)

func newStitchCmd() *cobra.Command {
	var (
		inputDir  string
		outputDir string
		pattern   string
		first     int
		last      int
		spinePath string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "stitch",
		Short: "Stitch a range of scanned pages into spread images",
		Long: `Stitch pairs pages from an inclusive page-number range (odd numbers are
right pages, even numbers left pages, per the books' right-to-left reading
order) and writes one spread image per pair. Jobs run on a worker pool and
fail independently: a bad scan is reported and skipped without blocking the
rest of the batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if spinePath != "" {
				cfg.Spine.Path = spinePath
			}
			if workers > 0 {
				cfg.Workers = workers
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			pairs := stitch.PairsFromRange(first, last)
			if len(pairs) == 0 {
				return fmt.Errorf("page range %d-%d yields no pairs", first, last)
			}
			jobs := stitch.PairJobs(inputDir, pattern, pairs, outputDir)

			summary, err := stitch.RunBatch(cmd.Context(), jobs, cfg)
			if err != nil {
				return err
			}

			slog.Info("batch finished",
				"total", summary.Total,
				"succeeded", summary.Succeeded,
				"failed", len(summary.Failures))
			if summary.Succeeded == 0 {
				return fmt.Errorf("all %d jobs failed", summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputDir, "input", "i", ".", "Directory containing the scanned pages")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "spreads", "Directory for the spread images")
	cmd.Flags().StringVar(&pattern, "pattern", "page%d.png", "Filename pattern with one %d for the page number")
	cmd.Flags().IntVar(&first, "first", 0, "First page number of the range")
	cmd.Flags().IntVar(&last, "last", 0, "Last page number of the range")
	cmd.Flags().StringVar(&spinePath, "spine", "", "Spine template image (overrides config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (0 = one per CPU)")
	_ = cmd.MarkFlagRequired("first")
	_ = cmd.MarkFlagRequired("last")

	return cmd
}
