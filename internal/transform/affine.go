// Package transform implements the affine transform stack used to carry
// document-declared object, group and fill transforms down to flushed path
// and arc coordinates.
package transform

import (
	"math"

	"github.com/MeKo-Christian/cdrimport/internal/basics"
)

// Affine is a 2x3 affine matrix:
//
//	x' = V0*x + V1*y + X0
//	y' = V3*x + V4*y + Y0
//
// This mirrors the document's own transform record layout (v0 v1 x0; v3 v4
// y0) rather than the more common sx/shx/shy/sy/tx/ty naming, so that a
// decoder can construct one directly from the six doubles it reads off the
// wire without reshuffling fields.
type Affine struct {
	V0, V1, X0 float64
	V3, V4, Y0 float64
}

// Identity returns the identity transform.
func Identity() Affine {
	return Affine{V0: 1, V4: 1}
}

// New builds a transform from its six matrix entries in wire order.
func New(v0, v1, x0, v3, v4, y0 float64) Affine {
	return Affine{V0: v0, V1: v1, X0: x0, V3: v3, V4: v4, Y0: y0}
}

// ApplyToPoint transforms (x, y) in place.
func (t Affine) ApplyToPoint(x, y *float64) {
	tmpX := t.V0**x + t.V1**y + t.X0
	*y = t.V3**x + t.V4**y + t.Y0
	*x = tmpX
}

// Point applies the transform and returns the result, leaving the inputs
// untouched.
func (t Affine) Point(x, y float64) (float64, float64) {
	t.ApplyToPoint(&x, &y)
	return x, y
}

// ApplyToArc re-projects an elliptical arc end-point and radii/rotation/sweep
// through the transform. Ported from CDRTransform::applyToArc (libcdr): the
// end-point transforms directly; the ellipse is represented as a transformed
// unit circle, reduced to its centered implicit conic form, and
// re-diagonalized to recover the new half-axes and rotation. Sweep flips
// once per negative diagonal entry of the linear part.
func (t Affine) ApplyToArc(rx, ry, rotation *float64, sweep *bool, x, y *float64) {
	t.ApplyToPoint(x, y)

	cosR := math.Cos(*rotation)
	sinR := math.Sin(*rotation)

	v0 := t.V0**rx*cosR - t.V1**rx*sinR
	v1 := t.V1**ry*cosR + t.V0**ry*sinR
	v3 := t.V3**rx*cosR - t.V4**rx*sinR
	v4 := t.V4**ry*cosR + t.V3**ry*sinR

	A := v0*v0 + v1*v1
	C := v3*v3 + v4*v4
	B := 2.0 * (v0*v3 + v1*v4)

	var r1, r2 float64
	if basics.AlmostZero(B) {
		*rotation = 0
		r1 = A
		r2 = C
	} else if basics.AlmostZero(A - C) {
		r1 = A + B/2.0
		r2 = A - B/2.0
		*rotation = math.Pi / 4.0
	} else {
		radical := 1.0 + B*B/((A-C)*(A-C))
		if radical < 0.0 {
			radical = 0.0
		}
		radical = math.Sqrt(radical)
		r1 = (A + C + radical*(A-C)) / 2.0
		r2 = (A + C - radical*(A-C)) / 2.0
		*rotation = math.Atan2(B, A-C) / 2.0
	}

	if r1 < 0.0 {
		r1 = 0.0
	} else {
		r1 = math.Sqrt(r1)
	}
	if r2 < 0.0 {
		r2 = 0.0
	} else {
		r2 = math.Sqrt(r2)
	}

	if A-C <= 0 {
		*ry = r1
		*rx = r2
	} else {
		*ry = r2
		*rx = r1
	}

	if v0 < 0 {
		*sweep = !*sweep
	}
	if v4 < 0 {
		*sweep = !*sweep
	}
}

func (t Affine) scaleX() float64 {
	x0, y0 := 0.0, 0.0
	x1, y1 := 1.0, 0.0
	t.ApplyToPoint(&x0, &y0)
	t.ApplyToPoint(&x1, &y1)
	return x1 - x0
}

func (t Affine) scaleY() float64 {
	x0, y0 := 0.0, 0.0
	x1, y1 := 0.0, 1.0
	t.ApplyToPoint(&x0, &y0)
	t.ApplyToPoint(&x1, &y1)
	return y1 - y0
}

// ScaleX returns the magnitude of the transform's effect on the X axis.
func (t Affine) ScaleX() float64 { return math.Abs(t.scaleX()) }

// ScaleY returns the magnitude of the transform's effect on the Y axis.
func (t Affine) ScaleY() float64 { return math.Abs(t.scaleY()) }

// FlipX reports whether the transform mirrors the X axis.
func (t Affine) FlipX() bool { return t.scaleX() < 0 }

// FlipY reports whether the transform mirrors the Y axis.
func (t Affine) FlipY() bool { return t.scaleY() < 0 }

// Rotation returns the angle, in radians in [0, 2*pi), that the transform
// rotates the positive X axis by.
func (t Affine) Rotation() float64 {
	x0, y0 := 0.0, 0.0
	x1, y1 := 1.0, 0.0
	t.ApplyToPoint(&x0, &y0)
	t.ApplyToPoint(&x1, &y1)
	angle := math.Atan2(y1-y0, x1-x0)
	if angle < 0.0 {
		angle += 2 * math.Pi
	}
	return angle
}

// TranslateX returns the transform's translation of the origin's X coordinate.
func (t Affine) TranslateX() float64 {
	x, y := 0.0, 0.0
	t.ApplyToPoint(&x, &y)
	return x
}

// TranslateY returns the transform's translation of the origin's Y coordinate.
func (t Affine) TranslateY() float64 {
	x, y := 0.0, 0.0
	t.ApplyToPoint(&x, &y)
	return y
}

// Stack is an ordered composition of transforms, applied first-to-last, as
// accumulated from a document's trfd/trfl transform descriptor list.
type Stack struct {
	items []Affine
}

// Append adds a transform to the end of the stack.
func (s *Stack) Append(t Affine) {
	s.items = append(s.items, t)
}

// Clear empties the stack.
func (s *Stack) Clear() {
	s.items = s.items[:0]
}

// Empty reports whether the stack carries any transforms.
func (s *Stack) Empty() bool {
	return len(s.items) == 0
}

// ApplyToPoint runs (x, y) through every transform in the stack, in order.
func (s *Stack) ApplyToPoint(x, y *float64) {
	for _, t := range s.items {
		t.ApplyToPoint(x, y)
	}
}

// ApplyToArc runs an arc through every transform in the stack, in order.
func (s *Stack) ApplyToArc(rx, ry, rotation *float64, sweep *bool, x, y *float64) {
	for _, t := range s.items {
		t.ApplyToArc(rx, ry, rotation, sweep, x, y)
	}
}

// ScaleX is the composed stack's effect on the X axis, as for a single Affine.
func (s *Stack) ScaleX() float64 {
	x0, y0 := 0.0, 0.0
	x1, y1 := 1.0, 0.0
	s.ApplyToPoint(&x0, &y0)
	s.ApplyToPoint(&x1, &y1)
	return math.Abs(x1 - x0)
}

// ScaleY is the composed stack's effect on the Y axis, as for a single Affine.
func (s *Stack) ScaleY() float64 {
	x0, y0 := 0.0, 0.0
	x1, y1 := 0.0, 1.0
	s.ApplyToPoint(&x0, &y0)
	s.ApplyToPoint(&x1, &y1)
	return math.Abs(y1 - y0)
}

// FlipX reports whether the composed stack mirrors the X axis.
func (s *Stack) FlipX() bool {
	x0, y0 := 0.0, 0.0
	x1, y1 := 1.0, 0.0
	s.ApplyToPoint(&x0, &y0)
	s.ApplyToPoint(&x1, &y1)
	return (x1 - x0) < 0
}

// FlipY reports whether the composed stack mirrors the Y axis.
func (s *Stack) FlipY() bool {
	x0, y0 := 0.0, 0.0
	x1, y1 := 0.0, 1.0
	s.ApplyToPoint(&x0, &y0)
	s.ApplyToPoint(&x1, &y1)
	return (y1 - y0) < 0
}

// TranslateX is the composed stack's translation of the origin's X coordinate.
func (s *Stack) TranslateX() float64 {
	x, y := 0.0, 0.0
	s.ApplyToPoint(&x, &y)
	return x
}

// TranslateY is the composed stack's translation of the origin's Y coordinate.
func (s *Stack) TranslateY() float64 {
	x, y := 0.0, 0.0
	s.ApplyToPoint(&x, &y)
	return y
}

// Clone returns an independent copy of the stack.
func (s *Stack) Clone() Stack {
	items := make([]Affine, len(s.items))
	copy(items, s.items)
	return Stack{items: items}
}

// AppendStack appends every transform of other onto s, in order, as if each
// had been passed individually to Append.
func (s *Stack) AppendStack(other Stack) {
	s.items = append(s.items, other.items...)
}

// Rotation is the composed stack's effect on the positive X axis, as for a
// single Affine.
func (s *Stack) Rotation() float64 {
	x0, y0 := 0.0, 0.0
	x1, y1 := 1.0, 0.0
	s.ApplyToPoint(&x0, &y0)
	s.ApplyToPoint(&x1, &y1)
	angle := math.Atan2(y1-y0, x1-x0)
	if angle < 0.0 {
		angle += 2 * math.Pi
	}
	return angle
}
