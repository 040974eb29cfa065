package cmd

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"spread-stitcher/internal/border"
	"spread-stitcher/internal/deskew"
	"spread-stitcher/internal/imgutil"
	"spread-stitcher/internal/register"
	"spread-stitcher/internal/tint"
	"spread-stitcher/internal/viz"
)

func newInspectCmd() *cobra.Command {
	var (
		roleName     string
		overlayPath  string
		deskewedPath string
	)

	cmd := &cobra.Command{
		Use:   "inspect <page>...",
		Short: "Report detection results for scanned pages",
		Long: `Inspect runs the detection stages (skew angle, borders, thin guide line,
paper tint) on individual pages and reports what they find, without
compositing anything. Useful for calibrating thresholds against a new
archive's scans. With several pages it also summarizes the angle spread.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			role := register.RoleRight
			if roleName == "left" {
				role = register.RoleLeft
			} else if roleName != "right" {
				return fmt.Errorf("role must be left or right, got %q", roleName)
			}

			var angles []float64
			for _, path := range args {
				img, err := imgutil.Load(path)
				if err != nil {
					slog.Error("page unreadable", "path", path, "error", err)
					continue
				}

				paper := tint.Sample(img, cfg.Tint)
				straight, angle := deskew.Deskew(img, cfg.Deskew)
				img.Close()
				b := border.Locate(straight, role.SpineSide(), cfg)

				slog.Info("page inspected",
					"path", path,
					"role", role.String(),
					"angle", angle,
					"top", b.TopY, "bottom", b.BottomY,
					"thick", b.ThickX, "thin", b.ThinX,
					"paper_r", paper.R, "paper_g", paper.G, "paper_b", paper.B)
				angles = append(angles, angle)

				if overlayPath != "" {
					annotated := viz.Overlay(straight, b, angle, paper)
					if err := writePNG(artifactPath(overlayPath, path, len(args) > 1), annotated); err != nil {
						straight.Close()
						return err
					}
				}
				if deskewedPath != "" {
					if err := imgutil.Save(artifactPath(deskewedPath, path, len(args) > 1), straight); err != nil {
						straight.Close()
						return err
					}
				}
				straight.Close()
			}

			if len(angles) > 1 {
				mean, std := stat.MeanStdDev(angles, nil)
				slog.Info("angle summary", "pages", len(angles), "mean", mean, "stddev", std)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&roleName, "role", "right", "Page role: right (spine on left) or left (spine on right)")
	cmd.Flags().StringVar(&overlayPath, "overlay", "", "Write an annotated overlay image to this path")
	cmd.Flags().StringVar(&deskewedPath, "deskewed", "", "Write the deskewed page to this path")

	return cmd
}

// artifactPath resolves where a per-page artifact goes. With a single page
// the flag value is used as given; with several, each page's stem is
// appended so later pages do not overwrite earlier ones.
func artifactPath(base, pagePath string, many bool) string {
	if !many {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(filepath.Base(pagePath), filepath.Ext(pagePath))
	return strings.TrimSuffix(base, ext) + "_" + stem + ext
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write overlay %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode overlay %s: %w", path, err)
	}
	return nil
}
