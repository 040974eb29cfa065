// Package lines provides edge-map and line-segment extraction over gray
// rasters, plus robust aggregation of the detected orientations.
package lines

import (
	"math"
	"sort"

	"spread-stitcher/internal/config"
	"spread-stitcher/pkg/geometry"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// EdgeMap runs Canny over a gray Mat with the configured thresholds.
// The caller owns the returned Mat.
func EdgeMap(gray gocv.Mat, cfg config.Deskew) gocv.Mat {
	edges := gocv.NewMat()
	gocv.Canny(gray, &edges, cfg.CannyLow, cfg.CannyHigh)
	return edges
}

// DetectSegments runs the probabilistic Hough transform on an edge map.
// It returns an empty slice, never an error, when nothing clears the vote
// threshold; callers treat that as "no signal".
func DetectSegments(edges gocv.Mat, cfg config.Deskew) []geometry.Segment {
	linesMat := gocv.NewMat()
	defer linesMat.Close()

	gocv.HoughLinesPWithParams(edges, &linesMat, 1, math.Pi/180,
		cfg.HoughVotes, float32(cfg.MinLineLength), float32(cfg.MaxLineGap))

	segs := make([]geometry.Segment, 0, linesMat.Rows())
	for i := 0; i < linesMat.Rows(); i++ {
		v := linesMat.GetVeciAt(i, 0)
		segs = append(segs, geometry.Segment{
			P1: geometry.NewPoint2D(float64(v[0]), float64(v[1])),
			P2: geometry.NewPoint2D(float64(v[2]), float64(v[3])),
		})
	}
	return segs
}

// NearVerticalAngles converts segments to signed degrees from vertical,
// keeping only segments at least minLen long and within tolDeg of vertical.
// Short segments are text strokes and scan noise, not border evidence.
func NearVerticalAngles(segs []geometry.Segment, minLen, tolDeg float64) []float64 {
	angles := make([]float64, 0, len(segs))
	for _, s := range segs {
		if s.Length() < minLen {
			continue
		}
		a := s.VerticalAngle()
		if math.Abs(a) < tolDeg {
			angles = append(angles, a)
		}
	}
	return angles
}

// MedianAngle aggregates candidate angles with the median, which resists
// outlier lines from text or artifacts better than the mean. Empty input
// yields 0 (no correction).
func MedianAngle(angles []float64) float64 {
	if len(angles) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(angles))
	copy(sorted, angles)
	sort.Float64s(sorted)
	return stat.Quantile(0.5, stat.LinInterp, sorted, nil)
}
