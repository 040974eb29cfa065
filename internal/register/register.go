// Package register solves, per page, the independent horizontal and
// vertical scales plus the translation that map the page's raw pixels into
// the shared output canvas, so that its thin spine guide line lands exactly
// on the template's guide line and its thick outer border sits at the fixed
// paper margin.
package register

import (
	"image"

	"spread-stitcher/internal/border"
	"spread-stitcher/internal/config"
	"spread-stitcher/internal/spine"
	"spread-stitcher/pkg/geometry"
)

// Role identifies which facing page of the spread an image is. In the
// source books' right-to-left reading order, odd-numbered scans are the
// right page and even-numbered scans the left page; the role is fixed for
// a page within a run.
type Role int

const (
	RoleRight Role = iota
	RoleLeft
)

func (r Role) String() string {
	if r == RoleRight {
		return "right"
	}
	return "left"
}

// SpineSide returns the page side that faces the spine.
func (r Role) SpineSide() border.Side {
	if r == RoleRight {
		return border.SideLeft
	}
	return border.SideRight
}

// OuterSide returns the page side carrying the thick outer border.
func (r Role) OuterSide() border.Side {
	return r.SpineSide().Opposite()
}

// Targets are the canvas-space coordinates a page must be registered to.
type Targets struct {
	ThinX  float64 // template guide-line column for this page's spine edge
	ThickX float64 // margin-inset column for the thick outer border
	TopY   float64 // margin row for the top border
}

// TargetsFor derives the registration targets from the template's centered
// position in the canvas.
func TargetsFor(role Role, tpl *spine.Template, cfg config.Config) Targets {
	spineStartX := (cfg.Canvas.Width - tpl.Width()) / 2
	t := Targets{TopY: float64(cfg.Canvas.Margin)}
	if role == RoleRight {
		t.ThinX = float64(spineStartX + tpl.RightGuideX)
		t.ThickX = float64(cfg.Canvas.Width - cfg.Canvas.Margin)
	} else {
		t.ThinX = float64(spineStartX + tpl.LeftGuideX)
		t.ThickX = float64(cfg.Canvas.Margin)
	}
	return t
}

// Placement is the solved mapping for one page: the source window to
// extract, the scales to apply to it, and where the scaled window lands in
// the canvas. Transform is the same mapping as an affine, taking
// window-relative source coordinates to canvas coordinates.
type Placement struct {
	ScaleX    float64
	ScaleY    float64
	OffsetX   int
	OffsetY   int
	SrcRect   image.Rectangle
	Transform geometry.AffineTransform
}

// Solve computes the placement for a page of the given role and raw
// dimensions. Degenerate geometry (a zero or negative detected span) clamps
// the affected scale to identity instead of dividing by it.
func Solve(b border.Borders, role Role, pageW, pageH int, t Targets, cfg config.Config) Placement {
	margin := float64(cfg.Canvas.Margin)

	scaleY := 1.0
	if span := b.BottomY - b.TopY; span > 0 {
		scaleY = (float64(cfg.Canvas.Height) - 2*margin) / float64(span)
	}

	scaleX := 1.0
	var srcSpan, dstSpan float64
	if role == RoleRight {
		srcSpan = float64(b.ThickX - b.ThinX)
		dstSpan = t.ThickX - t.ThinX
	} else {
		srcSpan = float64(b.ThinX - b.ThickX)
		dstSpan = t.ThinX - t.ThickX
	}
	if srcSpan > 0 {
		scaleX = dstSpan / srcSpan
	}

	// Source window: borders padded so the paper margin survives the crop,
	// running to the raw edge on the spine side.
	srcTop := max(0, b.TopY-int(margin/scaleY))
	srcBottom := min(pageH, b.BottomY+int(margin/scaleY))
	var srcLeft, srcRight int
	if role == RoleRight {
		srcLeft = 0
		srcRight = min(pageW, b.ThickX+int(margin/scaleX))
	} else {
		srcLeft = max(0, b.ThickX-int(margin/scaleX))
		srcRight = pageW
	}

	// Scale the window, then translate so the anchors land on their
	// targets: the thin line on the guide column, the top border on the
	// margin row.
	scale := geometry.ScaleXY(scaleX, scaleY)
	anchor := scale.Apply(geometry.NewPoint2D(float64(b.ThinX-srcLeft), float64(b.TopY-srcTop)))
	tf := geometry.Translation(t.ThinX-anchor.X, t.TopY-anchor.Y).Mul(scale)

	return Placement{
		ScaleX:    scaleX,
		ScaleY:    scaleY,
		OffsetX:   int(tf.TX),
		OffsetY:   int(tf.TY),
		SrcRect:   image.Rect(srcLeft, srcTop, srcRight, srcBottom),
		Transform: tf,
	}
}
