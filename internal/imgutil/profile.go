package imgutil

import (
	"gocv.io/x/gocv"
)

// Gray returns a single-channel copy of a BGR Mat. Already-gray input is
// cloned so the caller always owns the result.
func Gray(mat gocv.Mat) gocv.Mat {
	if mat.Channels() == 1 {
		return mat.Clone()
	}
	gray := gocv.NewMat()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	return gray
}

// RowMeans returns the mean brightness of each row of a gray Mat.
func RowMeans(gray gocv.Mat) []float64 {
	h := gray.Rows()
	w := gray.Cols()
	means := make([]float64, h)
	if w == 0 {
		return means
	}
	for y := 0; y < h; y++ {
		var sum float64
		for x := 0; x < w; x++ {
			sum += float64(gray.GetUCharAt(y, x))
		}
		means[y] = sum / float64(w)
	}
	return means
}

// ColMeans returns the mean brightness of each column of a gray Mat.
func ColMeans(gray gocv.Mat) []float64 {
	h := gray.Rows()
	w := gray.Cols()
	means := make([]float64, w)
	if h == 0 {
		return means
	}
	sums := make([]float64, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sums[x] += float64(gray.GetUCharAt(y, x))
		}
	}
	for x := 0; x < w; x++ {
		means[x] = sums[x] / float64(h)
	}
	return means
}

// ColDarkRatio returns the fraction of pixels in column x darker than the
// threshold.
func ColDarkRatio(gray gocv.Mat, x int, threshold uint8) float64 {
	h := gray.Rows()
	if h == 0 {
		return 0
	}
	dark := 0
	for y := 0; y < h; y++ {
		if gray.GetUCharAt(y, x) < threshold {
			dark++
		}
	}
	return float64(dark) / float64(h)
}
