// Package compose renders the final spread: the tinted spine template is
// drawn into a fixed-size white canvas first, then each registered page is
// painted on top through a brightness mask so page ink covers the template
// while paper-background pixels let it show through. That rule is what
// blends the seam at the spine.
package compose

import (
	"image"
	"runtime"
	"sync"

	"spread-stitcher/internal/config"
	"spread-stitcher/internal/register"
	"spread-stitcher/internal/spine"
	"spread-stitcher/pkg/colorutil"

	"gocv.io/x/gocv"
)

// Canvas is the output spread under construction.
type Canvas struct {
	mat gocv.Mat
	cfg config.Config
}

// NewCanvas allocates a white canvas at the configured target dimensions.
func NewCanvas(cfg config.Config) *Canvas {
	white := gocv.NewScalar(255, 255, 255, 0)
	mat := gocv.NewMatWithSizeFromScalar(white, cfg.Canvas.Height, cfg.Canvas.Width, gocv.MatTypeCV8UC3)
	return &Canvas{mat: mat, cfg: cfg}
}

// PlaceTemplate copies the spine strip into the center of the canvas as the
// background layer, clipping anything that falls outside.
func (c *Canvas) PlaceTemplate(tpl *spine.Template) {
	startX := (c.cfg.Canvas.Width - tpl.Width()) / 2
	c.copyClipped(tpl.Mat(), startX, 0, nil)
}

// PlacePage resizes the page's solved source window and paints it at its
// solved offset. Only pixels whose mean channel value is below the
// non-background threshold are copied; everything else keeps the canvas
// content underneath. Out-of-canvas destinations are silently clipped.
func (c *Canvas) PlacePage(page gocv.Mat, p register.Placement) {
	src := page.Region(p.SrcRect.Intersect(image.Rect(0, 0, page.Cols(), page.Rows())))
	defer src.Close()

	newW := int(float64(src.Cols()) * p.ScaleX)
	newH := int(float64(src.Rows()) * p.ScaleY)
	if newW <= 0 || newH <= 0 {
		return
	}

	scaled := gocv.NewMat()
	gocv.Resize(src, &scaled, image.Point{X: newW, Y: newH}, 0, 0, gocv.InterpolationLanczos4)
	defer scaled.Close()

	threshold := c.cfg.Thresholds.NonBackground
	c.copyClipped(scaled, p.OffsetX, p.OffsetY, func(b, g, r uint8) bool {
		return (float64(b)+float64(g)+float64(r))/3 < threshold
	})
}

// copyClipped copies src into the canvas at (dstX, dstY), row-parallel,
// clipping the source range to what lands inside the canvas. A nil keep
// predicate copies every pixel.
func (c *Canvas) copyClipped(src gocv.Mat, dstX, dstY int, keep func(b, g, r uint8) bool) {
	srcH := src.Rows()
	srcW := src.Cols()

	// Source rows/columns whose destination falls inside the canvas.
	syMin := colorutil.ClampInt(-dstY, 0, srcH)
	syMax := colorutil.ClampInt(c.mat.Rows()-dstY, 0, srcH)
	sxMin := colorutil.ClampInt(-dstX, 0, srcW)
	sxMax := colorutil.ClampInt(c.mat.Cols()-dstX, 0, srcW)
	if syMin >= syMax || sxMin >= sxMax {
		return
	}

	numWorkers := runtime.NumCPU()
	rowsPerWorker := (syMax - syMin + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		startY := syMin + w*rowsPerWorker
		endY := min(startY+rowsPerWorker, syMax)
		if startY >= syMax {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for sy := yStart; sy < yEnd; sy++ {
				dy := dstY + sy
				for sx := sxMin; sx < sxMax; sx++ {
					b := src.GetUCharAt(sy, sx*3+0)
					g := src.GetUCharAt(sy, sx*3+1)
					r := src.GetUCharAt(sy, sx*3+2)
					if keep != nil && !keep(b, g, r) {
						continue
					}
					dx := dstX + sx
					c.mat.SetUCharAt(dy, dx*3+0, b)
					c.mat.SetUCharAt(dy, dx*3+1, g)
					c.mat.SetUCharAt(dy, dx*3+2, r)
				}
			}
		}(startY, endY)
	}
	wg.Wait()
}

// Mat returns the composited spread. The canvas still owns it.
func (c *Canvas) Mat() gocv.Mat {
	return c.mat
}

// Close releases the canvas.
func (c *Canvas) Close() {
	c.mat.Close()
}
