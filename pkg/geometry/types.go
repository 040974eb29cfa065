// Package geometry provides basic geometric types used throughout the application.
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Segment represents a line segment between two points.
type Segment struct {
	P1 Point2D `json:"p1"`
	P2 Point2D `json:"p2"`
}

// Length returns the segment length.
func (s Segment) Length() float64 {
	return s.P1.Distance(s.P2)
}

// VerticalAngle returns the signed angle of the segment relative to the
// vertical axis, in degrees. Positive means the top of the segment leans
// to the right, so rotating the image by this amount straightens it.
func (s Segment) VerticalAngle() float64 {
	dx := s.P2.X - s.P1.X
	dy := s.P2.Y - s.P1.Y
	if math.Abs(dx) < 1 {
		return 0
	}
	return math.Atan2(dx, dy) * 180 / math.Pi
}

// AffineTransform represents a 2x3 affine transformation matrix.
// [a b tx]
// [c d ty]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Translation returns a translation transform.
func Translation(tx, ty float64) AffineTransform {
	return AffineTransform{A: 1, D: 1, TX: tx, TY: ty}
}

// ScaleXY returns a transform scaling the axes independently.
func ScaleXY(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply applies the transform to a point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// Mul composes two transforms; the receiver is applied after other.
func (t AffineTransform) Mul(other AffineTransform) AffineTransform {
	return AffineTransform{
		A:  t.A*other.A + t.B*other.C,
		B:  t.A*other.B + t.B*other.D,
		TX: t.A*other.TX + t.B*other.TY + t.TX,
		C:  t.C*other.A + t.D*other.C,
		D:  t.C*other.B + t.D*other.D,
		TY: t.C*other.TX + t.D*other.TY + t.TY,
	}
}
