// Package viz renders calibration overlays: the detected borders, the thin
// guide line, and the estimated skew drawn over the page raster so the
// thresholds can be tuned against real scans.
package viz

import (
	"fmt"
	"image"
	"image/color"

	"spread-stitcher/internal/border"
	"spread-stitcher/internal/imgutil"
	"spread-stitcher/pkg/colorutil"

	"github.com/fogleman/gg"
	"gocv.io/x/gocv"
)

// Overlay draws the detection results onto a copy of the page.
func Overlay(img gocv.Mat, b border.Borders, angle float64, paper color.RGBA) image.Image {
	base := imgutil.ToImage(img)
	w := float64(base.Bounds().Dx())
	h := float64(base.Bounds().Dy())

	dc := gg.NewContextForImage(base)
	dc.SetLineWidth(2)

	dc.SetColor(colorutil.Green)
	dc.DrawLine(0, float64(b.TopY), w, float64(b.TopY))
	dc.DrawLine(0, float64(b.BottomY), w, float64(b.BottomY))
	dc.Stroke()

	dc.SetColor(colorutil.Magenta)
	dc.DrawLine(float64(b.ThickX), 0, float64(b.ThickX), h)
	dc.Stroke()

	dc.SetColor(colorutil.Cyan)
	dc.DrawLine(float64(b.ThinX), 0, float64(b.ThinX), h)
	dc.Stroke()

	// Paper swatch with the sampled tint next to the angle readout.
	dc.SetColor(paper)
	dc.DrawRectangle(10, 10, 40, 40)
	dc.Fill()

	dc.SetColor(colorutil.Red)
	dc.DrawString(fmt.Sprintf("angle %.2f deg", angle), 60, 35)

	return dc.Image()
}
