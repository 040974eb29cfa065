// Package tint estimates the background paper color of a scanned page by
// sampling thin strips at its four edges. The estimate recolors the spine
// template so it blends with the surrounding paper.
package tint

import (
	"image"
	"image/color"
	"log/slog"

	"spread-stitcher/internal/config"
	"spread-stitcher/pkg/colorutil"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gocv.io/x/gocv"
)

type rgb struct {
	r, g, b float64
}

// isWarm reports whether a pixel carries the yellowish paper signature.
// Warm hues occupy the red-to-cyan half of the HSV wheel (0 to 180
// degrees, exclusive), which holds exactly the colors with less blue than
// green. Neutral pixels have no hue and fail: black border, gray glare.
func isWarm(p rgb) bool {
	c := colorful.Color{R: p.r / 255, G: p.g / 255, B: p.b / 255}
	h, s, _ := c.Hsv()
	return s > 0 && h > 0 && h < 180
}

// Sample estimates the paper tint of a page. Pixels from the four edge
// strips are kept when their brightness falls in the open interval
// (BrightLow, BrightHigh), above black border and below glare, and they pass
// the warm-hue test. If nothing passes, the hue test is dropped; if still
// nothing, the configured default is returned. Sampling never fails.
func Sample(img gocv.Mat, cfg config.Tint) color.RGBA {
	pixels := stripPixels(img, cfg)

	var passSum, brightSum rgb
	passN, brightN := 0, 0
	for _, p := range pixels {
		br := colorutil.Brightness(uint8(p.r), uint8(p.g), uint8(p.b))
		if br <= cfg.BrightLow || br >= cfg.BrightHigh {
			continue
		}
		brightSum.r += p.r
		brightSum.g += p.g
		brightSum.b += p.b
		brightN++
		if isWarm(p) {
			passSum.r += p.r
			passSum.g += p.g
			passSum.b += p.b
			passN++
		}
	}

	if passN > 0 {
		return meanColor(passSum, passN)
	}
	if brightN > 0 {
		slog.Warn("no warm paper pixels in edge strips, tint from brightness alone")
		return meanColor(brightSum, brightN)
	}
	slog.Warn("no paper pixels in edge strips, using default tint")
	d := cfg.Default
	return color.RGBA{R: d[0], G: d[1], B: d[2], A: 255}
}

func meanColor(sum rgb, n int) color.RGBA {
	f := float64(n)
	return color.RGBA{
		R: uint8(sum.r/f + 0.5),
		G: uint8(sum.g/f + 0.5),
		B: uint8(sum.b/f + 0.5),
		A: 255,
	}
}

// stripPixels gathers the four edge strips, inset past the corners.
func stripPixels(img gocv.Mat, cfg config.Tint) []rgb {
	h := img.Rows()
	w := img.Cols()
	sw := cfg.StripWidth
	inset := cfg.Inset

	var pixels []rgb
	collect := func(r image.Rectangle) {
		r = r.Intersect(image.Rect(0, 0, w, h))
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				pixels = append(pixels, rgb{
					b: float64(img.GetUCharAt(y, x*3+0)),
					g: float64(img.GetUCharAt(y, x*3+1)),
					r: float64(img.GetUCharAt(y, x*3+2)),
				})
			}
		}
	}

	collect(image.Rect(inset, 0, w-inset, sw))   // top
	collect(image.Rect(inset, h-sw, w-inset, h)) // bottom
	collect(image.Rect(0, inset, sw, h-inset))   // left
	collect(image.Rect(w-sw, inset, w, h-inset)) // right
	return pixels
}
