// Package stitch runs the spread-reconstruction pipeline: two scanned pages
// in, one composited double-page spread out.
package stitch

import (
	"fmt"
	"image/color"
	"log/slog"

	"spread-stitcher/internal/border"
	"spread-stitcher/internal/compose"
	"spread-stitcher/internal/config"
	"spread-stitcher/internal/deskew"
	"spread-stitcher/internal/imgutil"
	"spread-stitcher/internal/register"
	"spread-stitcher/internal/spine"
	"spread-stitcher/internal/tint"

	"gocv.io/x/gocv"
)

// Job describes one spread to reconstruct.
type Job struct {
	Name       string
	RightPath  string
	LeftPath   string
	OutputPath string
}

// Result reports what a processed job detected and produced.
type Result struct {
	Job        Job
	RightAngle float64
	LeftAngle  float64
	Paper      color.RGBA
}

// Pipeline holds the per-run shared state: the configuration and the raw
// spine template asset, loaded once and never mutated, so it is safe to
// share across workers.
type Pipeline struct {
	cfg      config.Config
	rawSpine gocv.Mat
}

// NewPipeline loads the shared template asset. Failure here is a
// configuration error and aborts the run, unlike per-page detection which
// degrades.
func NewPipeline(cfg config.Config) (*Pipeline, error) {
	raw, err := imgutil.Load(cfg.Spine.Path)
	if err != nil {
		return nil, fmt.Errorf("load spine template: %w", err)
	}
	return &Pipeline{cfg: cfg, rawSpine: raw}, nil
}

// Close releases the shared template asset.
func (p *Pipeline) Close() {
	p.rawSpine.Close()
}

// Process runs one job through the strict linear sequence: load both pages,
// sample the paper tint from the originals, deskew, locate borders, scale
// and tint the template, solve each page's placement, composite, save.
// Geometry stages degrade to defaults rather than failing; only an
// unloadable input or an unwritable output is an error.
func (p *Pipeline) Process(job Job) (*Result, error) {
	right, err := imgutil.Load(job.RightPath)
	if err != nil {
		return nil, fmt.Errorf("right page: %w", err)
	}
	defer right.Close()

	left, err := imgutil.Load(job.LeftPath)
	if err != nil {
		return nil, fmt.Errorf("left page: %w", err)
	}
	defer left.Close()

	// Paper tint comes from the original rasters; deskewing would mix the
	// white fill into the edge strips.
	paper := averageTint(tint.Sample(right, p.cfg.Tint), tint.Sample(left, p.cfg.Tint))

	rightDeskewed, rightAngle := deskew.Deskew(right, p.cfg.Deskew)
	defer rightDeskewed.Close()
	leftDeskewed, leftAngle := deskew.Deskew(left, p.cfg.Deskew)
	defer leftDeskewed.Close()

	tpl := spine.New(p.rawSpine, paper, p.cfg)
	defer tpl.Close()

	canvas := compose.NewCanvas(p.cfg)
	defer canvas.Close()
	canvas.PlaceTemplate(tpl)

	for _, page := range []struct {
		img  gocv.Mat
		role register.Role
	}{
		{rightDeskewed, register.RoleRight},
		{leftDeskewed, register.RoleLeft},
	} {
		b := border.Locate(page.img, page.role.SpineSide(), p.cfg)
		targets := register.TargetsFor(page.role, tpl, p.cfg)
		placement := register.Solve(b, page.role, page.img.Cols(), page.img.Rows(), targets, p.cfg)
		slog.Debug("page registered",
			"job", job.Name,
			"role", page.role.String(),
			"top", b.TopY, "bottom", b.BottomY,
			"thick", b.ThickX, "thin", b.ThinX,
			"scale_x", placement.ScaleX, "scale_y", placement.ScaleY)
		canvas.PlacePage(page.img, placement)
	}

	if err := imgutil.Save(job.OutputPath, canvas.Mat()); err != nil {
		return nil, err
	}

	return &Result{
		Job:        job,
		RightAngle: rightAngle,
		LeftAngle:  leftAngle,
		Paper:      paper,
	}, nil
}

func averageTint(a, b color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((int(a.R) + int(b.R)) / 2),
		G: uint8((int(a.G) + int(b.G)) / 2),
		B: uint8((int(a.B) + int(b.B)) / 2),
		A: 255,
	}
}
