package lines

import (
	"testing"

	"spread-stitcher/internal/config"
	"spread-stitcher/pkg/geometry"

	"gocv.io/x/gocv"
)

func TestMedianAngle(t *testing.T) {
	if a := MedianAngle(nil); a != 0.0 {
		t.Errorf("median of no angles = %v, want 0", a)
	}
	if a := MedianAngle([]float64{1, 2, 100}); a != 2 {
		t.Errorf("median resists outlier: got %v, want 2", a)
	}
	if a := MedianAngle([]float64{-3, -1}); a != -2 {
		t.Errorf("even-count median = %v, want -2", a)
	}
}

func TestNearVerticalAngles(t *testing.T) {
	segs := []geometry.Segment{
		// Long, near vertical: kept.
		{P1: geometry.NewPoint2D(0, 0), P2: geometry.NewPoint2D(10, 500)},
		// Too short.
		{P1: geometry.NewPoint2D(0, 0), P2: geometry.NewPoint2D(1, 50)},
		// Horizontal: outside the tolerance band.
		{P1: geometry.NewPoint2D(0, 10), P2: geometry.NewPoint2D(500, 12)},
	}
	got := NearVerticalAngles(segs, 200, 15)
	if len(got) != 1 {
		t.Fatalf("kept %d angles, want 1 (%v)", len(got), got)
	}
	if got[0] <= 0 {
		t.Errorf("right-leaning segment angle = %v, want positive", got[0])
	}
}

func TestDetectSegmentsNoSignal(t *testing.T) {
	cfg := config.Default().Deskew

	blank := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC1)
	defer blank.Close()

	segs := DetectSegments(blank, cfg)
	if len(segs) != 0 {
		t.Errorf("blank edge map produced %d segments, want 0", len(segs))
	}
}

func TestEdgeMapUniformImage(t *testing.T) {
	cfg := config.Default().Deskew

	flat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC1)
	defer flat.Close()

	edges := EdgeMap(flat, cfg)
	defer edges.Close()

	for y := 0; y < edges.Rows(); y++ {
		for x := 0; x < edges.Cols(); x++ {
			if edges.GetUCharAt(y, x) != 0 {
				t.Fatalf("uniform image has edge at (%d,%d)", x, y)
			}
		}
	}
}
