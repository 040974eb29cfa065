// Package spine models the fixed-geometry spine template strip that anchors
// the coordinate system of every output spread.
package spine

import (
	"fmt"
	"image"
	"image/color"

	"spread-stitcher/internal/config"
	"spread-stitcher/internal/imgutil"

	"gocv.io/x/gocv"
)

// Template is the scaled, tinted spine strip plus the positions of its two
// thin guide lines in scaled pixel space. It is immutable after
// construction and safe to read concurrently.
type Template struct {
	mat         gocv.Mat
	Scale       float64
	LeftGuideX  int
	RightGuideX int
}

// Load reads the template asset and prepares it for one spread. A missing
// or unreadable asset is a hard error: it is shared configuration, not a
// per-page detection that can degrade.
func Load(path string, paperTint color.RGBA, cfg config.Config) (*Template, error) {
	raw, err := imgutil.Load(path)
	if err != nil {
		return nil, fmt.Errorf("spine template: %w", err)
	}
	defer raw.Close()
	return New(raw, paperTint, cfg), nil
}

// New builds a Template from an already-loaded raw asset. The raw Mat is
// not retained. Scaling is proportional to two pixels past the target
// height, then one pixel is cropped from the top and bottom so the guide
// lines span the canvas exactly; the guide columns scale by the same
// factor. The strip is then tinted toward the paper color so white template
// pixels take on the surrounding paper's tone.
func New(raw gocv.Mat, paperTint color.RGBA, cfg config.Config) *Template {
	h := raw.Rows()
	w := raw.Cols()

	scale := float64(cfg.Canvas.Height+2) / float64(h)
	newW := int(float64(w) * scale)

	scaled := gocv.NewMat()
	gocv.Resize(raw, &scaled, image.Point{X: newW, Y: cfg.Canvas.Height + 2},
		0, 0, gocv.InterpolationLanczos4)
	defer scaled.Close()

	cropped := scaled.Region(image.Rect(0, 1, newW, cfg.Canvas.Height+1))
	defer cropped.Close()
	mat := cropped.Clone()

	applyTint(mat, paperTint)

	return &Template{
		mat:         mat,
		Scale:       scale,
		LeftGuideX:  int(float64(cfg.Spine.LeftGuideX) * scale),
		RightGuideX: int(float64(cfg.Spine.RightGuideX) * scale),
	}
}

// applyTint darkens each channel proportionally so pure white maps to the
// paper color.
func applyTint(mat gocv.Mat, tint color.RGBA) {
	fb := float64(tint.B) / 255.0
	fg := float64(tint.G) / 255.0
	fr := float64(tint.R) / 255.0

	h := mat.Rows()
	w := mat.Cols()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mat.SetUCharAt(y, x*3+0, uint8(float64(mat.GetUCharAt(y, x*3+0))*fb))
			mat.SetUCharAt(y, x*3+1, uint8(float64(mat.GetUCharAt(y, x*3+1))*fg))
			mat.SetUCharAt(y, x*3+2, uint8(float64(mat.GetUCharAt(y, x*3+2))*fr))
		}
	}
}

// Mat exposes the prepared strip for compositing. Callers must not mutate it.
func (t *Template) Mat() gocv.Mat {
	return t.mat
}

// Width returns the scaled strip width.
func (t *Template) Width() int {
	return t.mat.Cols()
}

// Height returns the scaled strip height.
func (t *Template) Height() int {
	return t.mat.Rows()
}

// Close releases the underlying Mat.
func (t *Template) Close() {
	t.mat.Close()
}
