// Package deskew estimates and corrects the small rotational misalignment
// introduced during scanning, using the page's printed border lines as
// evidence.
package deskew

import (
	"image"
	"log/slog"
	"math"

	"spread-stitcher/internal/config"
	"spread-stitcher/internal/imgutil"
	"spread-stitcher/internal/lines"
	"spread-stitcher/pkg/colorutil"

	"gocv.io/x/gocv"
)

// EstimateAngle detects near-vertical border lines and returns the signed
// rotation, in degrees, that straightens them. Positive rotates clockwise.
// Returns 0.0 when no reliable line evidence exists.
func EstimateAngle(img gocv.Mat, cfg config.Deskew) float64 {
	gray := imgutil.Gray(img)
	defer gray.Close()

	edges := lines.EdgeMap(gray, cfg)
	defer edges.Close()

	segs := lines.DetectSegments(edges, cfg)
	angles := lines.NearVerticalAngles(segs, cfg.LengthFloor, cfg.AngleTolerance)
	if len(angles) == 0 {
		slog.Warn("no border line evidence, skipping deskew")
		return 0.0
	}
	return lines.MedianAngle(angles)
}

// Rotate rotates the image about its center by the given angle, growing the
// canvas so no corner is clipped and filling exposed background with white.
// Angles below the epsilon return an untouched clone: resampling a visually
// straight page only blurs it.
func Rotate(img gocv.Mat, angleDeg float64, cfg config.Deskew) gocv.Mat {
	if math.Abs(angleDeg) < cfg.Epsilon {
		return img.Clone()
	}

	h := img.Rows()
	w := img.Cols()

	center := image.Point{X: w / 2, Y: h / 2}
	rotMat := gocv.GetRotationMatrix2D(center, angleDeg, 1.0)
	defer rotMat.Close()

	angleRad := angleDeg * math.Pi / 180
	cos := math.Abs(math.Cos(angleRad))
	sin := math.Abs(math.Sin(angleRad))
	newW := int(float64(h)*sin + float64(w)*cos)
	newH := int(float64(h)*cos + float64(w)*sin)

	// Re-center the transform for the grown canvas.
	rotMat.SetDoubleAt(0, 2, rotMat.GetDoubleAt(0, 2)+float64(newW-w)/2)
	rotMat.SetDoubleAt(1, 2, rotMat.GetDoubleAt(1, 2)+float64(newH-h)/2)

	rotated := gocv.NewMat()
	gocv.WarpAffineWithParams(img, &rotated, rotMat, image.Point{X: newW, Y: newH},
		gocv.InterpolationLinear, gocv.BorderConstant, colorutil.White)

	return rotated
}

// Deskew estimates the page's skew and returns the straightened image along
// with the angle that was applied. The caller owns the returned Mat.
func Deskew(img gocv.Mat, cfg config.Deskew) (gocv.Mat, float64) {
	angle := EstimateAngle(img, cfg)
	return Rotate(img, angle, cfg), angle
}
