package viz

import (
	"image/color"
	"testing"

	"spread-stitcher/internal/border"

	"gocv.io/x/gocv"
)

func TestOverlayKeepsDimensions(t *testing.T) {
	page := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 255, 255, 0), 120, 90, gocv.MatTypeCV8UC3)
	defer page.Close()

	b := border.Borders{TopY: 10, BottomY: 110, ThickX: 80, ThinX: 12}
	img := Overlay(page, b, 1.25, color.RGBA{R: 210, G: 200, B: 180, A: 255})

	bounds := img.Bounds()
	if bounds.Dx() != 90 || bounds.Dy() != 120 {
		t.Errorf("overlay dims = %dx%d, want 90x120", bounds.Dx(), bounds.Dy())
	}
}
