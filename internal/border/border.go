// Package border locates the four physical boundaries of a scanned page:
// the top and bottom black border rows, the thick outer border column, and
// the thin spine-side guide line. Every locator is total: when detection
// finds nothing it degrades to a documented fallback instead of failing,
// because partial and ambiguous scans are the norm.
package border

import (
	"image"
	"log/slog"

	"spread-stitcher/internal/config"
	"spread-stitcher/internal/imgutil"

	"gocv.io/x/gocv"
)

// Side selects which vertical edge of the page a locator scans from.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// Borders holds the detected boundary coordinates of one page.
type Borders struct {
	TopY    int // first row of the top black border
	BottomY int // last row of the bottom black border
	ThickX  int // outer thick border column
	ThinX   int // inner thin spine guide-line column
}

// TopRow returns the row of the top black border: the first row within the
// search window whose mean brightness drops below the dark threshold.
// Falls back to a relative threshold from the darkest row, then to row 0.
func TopRow(gray gocv.Mat, cfg config.Config) int {
	profile := imgutil.RowMeans(gray)
	window := min(cfg.Windows.Row, len(profile))
	if window == 0 {
		return 0
	}

	for y := 0; y < window; y++ {
		if profile[y] < cfg.Thresholds.DarkRow {
			return y
		}
	}

	// Relative retry: darkest row in the window plus a fixed offset.
	slog.Warn("top border below detection threshold, using relative fallback")
	threshold := minOf(profile[:window]) + cfg.Thresholds.RelativeOffset
	for y := 0; y < window; y++ {
		if profile[y] < threshold {
			return y
		}
	}

	return 0
}

// BottomRow is TopRow mirrored: it scans upward from the last row and falls
// back to the last row index.
func BottomRow(gray gocv.Mat, cfg config.Config) int {
	profile := imgutil.RowMeans(gray)
	h := len(profile)
	if h == 0 {
		return 0
	}
	start := max(0, h-cfg.Windows.Row)

	for y := h - 1; y >= start; y-- {
		if profile[y] < cfg.Thresholds.DarkRow {
			return y
		}
	}

	slog.Warn("bottom border below detection threshold, using relative fallback")
	threshold := minOf(profile[start:]) + cfg.Thresholds.RelativeOffset
	for y := h - 1; y >= start; y-- {
		if profile[y] < threshold {
			return y
		}
	}

	return h - 1
}

// ThickColumn returns the column of the thick outer border, scanning from
// the given edge inward. The border is a nearly solid dark column rather
// than a uniformly dark one, so the primary criterion is the fraction of
// truly dark pixels in the column, not its mean. Falls back to a relative
// mean-brightness threshold, then to the boundary column.
func ThickColumn(gray gocv.Mat, side Side, cfg config.Config) int {
	w := gray.Cols()
	if w == 0 {
		return 0
	}
	window := min(cfg.Windows.Column, w)

	xs := make([]int, 0, window)
	if side == SideLeft {
		for x := 0; x < window; x++ {
			xs = append(xs, x)
		}
	} else {
		for x := w - 1; x >= w-window; x-- {
			xs = append(xs, x)
		}
	}

	for _, x := range xs {
		if imgutil.ColDarkRatio(gray, x, cfg.Thresholds.DarkPixel) > cfg.Thresholds.DarkRatio {
			return x
		}
	}

	// Relative retry over column means.
	slog.Warn("thick border below dark-ratio threshold, using relative fallback", "side", side.String())
	profile := imgutil.ColMeans(gray)
	darkest := profile[xs[0]]
	for _, x := range xs {
		if profile[x] < darkest {
			darkest = profile[x]
		}
	}
	threshold := darkest + cfg.Thresholds.RelativeOffset
	for _, x := range xs {
		if profile[x] < threshold {
			return x
		}
	}

	if side == SideLeft {
		return 0
	}
	return w - 1
}

// ThinColumn returns the column of the thin spine guide line within the
// bounded window on the given side. Tier one looks for a true line
// signature: a column darker than the thin-line threshold flanked by a
// brighter neighbourhood on at least one side, preferring the darkest such
// candidate. The line is sometimes faint or obscured, so tier two falls
// back to the darkest column in the window.
func ThinColumn(gray gocv.Mat, side Side, cfg config.Config) int {
	w := gray.Cols()
	if w == 0 {
		return 0
	}
	window := min(cfg.Windows.Thin, w)

	var start int
	if side == SideLeft {
		start = 0
	} else {
		start = w - window
	}
	region := gray.Region(rectCols(start, start+window, gray.Rows()))
	defer region.Close()
	means := imgutil.ColMeans(region)

	flank := cfg.Windows.Flank
	bestIdx := -1
	bestVal := 0.0
	for i := flank; i < len(means)-flank; i++ {
		if means[i] >= cfg.Thresholds.ThinLine {
			continue
		}
		leftBright := meanOf(means[i-flank:i]) > cfg.Thresholds.FlankBright
		rightBright := meanOf(means[i+1:i+1+flank]) > cfg.Thresholds.FlankBright
		if !leftBright && !rightBright {
			continue
		}
		if bestIdx < 0 || means[i] < bestVal {
			bestIdx = i
			bestVal = means[i]
		}
	}
	if bestIdx >= 0 {
		return start + bestIdx
	}

	// No flanked line; settle for the darkest column in the window.
	slog.Warn("thin spine line not flanked, using darkest column", "side", side.String())
	darkest := 0
	for i := range means {
		if means[i] < means[darkest] {
			darkest = i
		}
	}
	return start + darkest
}

// Locate runs all four locators for a page whose spine faces spineSide.
func Locate(img gocv.Mat, spineSide Side, cfg config.Config) Borders {
	gray := imgutil.Gray(img)
	defer gray.Close()

	return Borders{
		TopY:    TopRow(gray, cfg),
		BottomY: BottomRow(gray, cfg),
		ThickX:  ThickColumn(gray, spineSide.Opposite(), cfg),
		ThinX:   ThinColumn(gray, spineSide, cfg),
	}
}

func rectCols(x0, x1, h int) image.Rectangle {
	return image.Rect(x0, 0, x1, h)
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
