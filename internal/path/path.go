// Package path implements the accumulating path model shared by both
// collector passes: an ordered list of move/line/curve/arc/spline elements,
// transformable in place, and serializable to the flushed node vocabulary a
// paint sink consumes.
package path

import (
	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

// Kind tags a path element's geometry, playing the role AGG's PathCommand
// enum plays for a vertex stream, but carrying its operands inline rather
// than through a side channel of doubles.
type Kind int

const (
	KindMoveTo Kind = iota
	KindLineTo
	KindCubicTo
	KindQuadraticTo
	KindArcTo
	KindSplineTo
)

// Point is a plain 2D coordinate pair.
type Point struct{ X, Y float64 }

// Element is one instruction in an accumulating path. Only the fields
// relevant to Kind are meaningful; this is a tagged union rather than a
// polymorphic hierarchy of element types: cheaper, trivially cloned,
// totally matchable.
type Element struct {
	Kind Kind

	X, Y   float64 // MoveTo, LineTo, CubicTo end, QuadraticTo end, ArcTo end
	X1, Y1 float64 // CubicTo/QuadraticTo first control point
	X2, Y2 float64 // CubicTo second control point

	Rx, Ry, Rotation float64 // ArcTo
	LargeArc, Sweep  bool

	Points []Point // SplineTo control points
}

// Path accumulates path elements for one object and knows how to transform
// and flush them.
type Path struct {
	Elements []Element
	Closed   bool
}

func (p *Path) MoveTo(x, y float64) {
	p.Elements = append(p.Elements, Element{Kind: KindMoveTo, X: x, Y: y})
}

func (p *Path) LineTo(x, y float64) {
	p.Elements = append(p.Elements, Element{Kind: KindLineTo, X: x, Y: y})
}

func (p *Path) CubicTo(x1, y1, x2, y2, x, y float64) {
	p.Elements = append(p.Elements, Element{Kind: KindCubicTo, X1: x1, Y1: y1, X2: x2, Y2: y2, X: x, Y: y})
}

func (p *Path) QuadraticTo(x1, y1, x, y float64) {
	p.Elements = append(p.Elements, Element{Kind: KindQuadraticTo, X1: x1, Y1: y1, X: x, Y: y})
}

// ArcTo appends an elliptical arc segment. rotation is in radians.
func (p *Path) ArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) {
	p.Elements = append(p.Elements, Element{
		Kind: KindArcTo, Rx: rx, Ry: ry, Rotation: rotation,
		LargeArc: largeArc, Sweep: sweep, X: x, Y: y,
	})
}

// SplineTo appends a raw control-point run, lowered to cubic Béziers at
// flush time (see the curves package).
func (p *Path) SplineTo(points []Point) {
	cp := make([]Point, len(points))
	copy(cp, points)
	p.Elements = append(p.Elements, Element{Kind: KindSplineTo, Points: cp})
}

func (p *Path) ClosePath() {
	p.Closed = true
}

func (p *Path) Clear() {
	p.Elements = p.Elements[:0]
	p.Closed = false
}

func (p *Path) Empty() bool {
	return len(p.Elements) == 0
}

// Append copies another path's elements onto the end of this one.
func (p *Path) Append(other *Path) {
	p.Elements = append(p.Elements, other.Elements...)
}

// Clone returns an independent deep copy.
func (p *Path) Clone() *Path {
	c := &Path{Elements: make([]Element, len(p.Elements)), Closed: p.Closed}
	copy(c.Elements, p.Elements)
	for i := range c.Elements {
		if c.Elements[i].Points != nil {
			pts := make([]Point, len(c.Elements[i].Points))
			copy(pts, c.Elements[i].Points)
			c.Elements[i].Points = pts
		}
	}
	return c
}

// Transform applies t in place to every control point of every element,
// re-deriving arc radii/rotation/sweep rather than merely transforming arc
// end-points.
func (p *Path) Transform(t transform.Affine) {
	for i := range p.Elements {
		e := &p.Elements[i]
		switch e.Kind {
		case KindMoveTo, KindLineTo:
			t.ApplyToPoint(&e.X, &e.Y)
		case KindCubicTo:
			t.ApplyToPoint(&e.X1, &e.Y1)
			t.ApplyToPoint(&e.X2, &e.Y2)
			t.ApplyToPoint(&e.X, &e.Y)
		case KindQuadraticTo:
			t.ApplyToPoint(&e.X1, &e.Y1)
			t.ApplyToPoint(&e.X, &e.Y)
		case KindArcTo:
			t.ApplyToArc(&e.Rx, &e.Ry, &e.Rotation, &e.Sweep, &e.X, &e.Y)
		case KindSplineTo:
			for j := range e.Points {
				t.ApplyToPoint(&e.Points[j].X, &e.Points[j].Y)
			}
		}
	}
}

// TransformStack applies every transform in s in order, as Transform does
// for a single Affine.
func (p *Path) TransformStack(s *transform.Stack) {
	for i := range p.Elements {
		e := &p.Elements[i]
		switch e.Kind {
		case KindMoveTo, KindLineTo:
			s.ApplyToPoint(&e.X, &e.Y)
		case KindCubicTo:
			s.ApplyToPoint(&e.X1, &e.Y1)
			s.ApplyToPoint(&e.X2, &e.Y2)
			s.ApplyToPoint(&e.X, &e.Y)
		case KindQuadraticTo:
			s.ApplyToPoint(&e.X1, &e.Y1)
			s.ApplyToPoint(&e.X, &e.Y)
		case KindArcTo:
			s.ApplyToArc(&e.Rx, &e.Ry, &e.Rotation, &e.Sweep, &e.X, &e.Y)
		case KindSplineTo:
			for j := range e.Points {
				s.ApplyToPoint(&e.Points[j].X, &e.Points[j].Y)
			}
		}
	}
}

// Node is one flushed path action in the sink-facing vocabulary:
// libwpg:path-action in {M, L, C, Q, A, Z}.
type Node struct {
	Action string // "M", "L", "C", "Q", "A", "Z"

	X, Y   float64
	X1, Y1 float64
	X2, Y2 float64

	Rx, Ry, RotateDeg float64
	LargeArc, Sweep   bool
}

// Flush serializes the path to its node vocabulary, applying the
// serialization contract:
//
//  1. a MoveTo to the current position is elided;
//  2. opening a new subpath emits a Z first when the previous subpath ended
//     at its own start point, or when the whole path is flagged closed;
//  3. a trailing MoveTo with no following drawable op is dropped;
//  4. the same Z-before-close rule applies once more at the final flush.
//
// B-spline and polygon lowering must already have happened (both in the
// curves package) — Flush only elides/closes, it does not decompose.
func (p *Path) Flush() []Node {
	if p.Empty() {
		return nil
	}

	var nodes []Node
	firstPoint := true
	wasMove := false
	var initialX, initialY, previousX, previousY float64

	appendClose := func() {
		nodes = append(nodes, Node{Action: "Z"})
	}

	for _, e := range p.Elements {
		switch e.Kind {
		case KindMoveTo:
			x, y := e.X, e.Y
			ignore := false
			if firstPoint {
				initialX, initialY = x, y
				firstPoint = false
				wasMove = true
			} else if basics.AlmostEqual(previousX, x) && basics.AlmostEqual(previousY, y) {
				ignore = true
			} else {
				if len(nodes) > 0 {
					if !wasMove {
						if (basics.AlmostEqual(initialX, previousX) && basics.AlmostEqual(initialY, previousY)) || p.Closed {
							appendClose()
						}
					} else {
						nodes = nodes[:len(nodes)-1]
					}
				}
				initialX, initialY = x, y
				wasMove = true
			}
			if ignore {
				continue
			}
			nodes = append(nodes, Node{Action: "M", X: x, Y: y})
			previousX, previousY = x, y

		case KindLineTo:
			nodes = append(nodes, Node{Action: "L", X: e.X, Y: e.Y})
			previousX, previousY = e.X, e.Y
			wasMove = false

		case KindCubicTo:
			nodes = append(nodes, Node{Action: "C", X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2, X: e.X, Y: e.Y})
			previousX, previousY = e.X, e.Y
			wasMove = false

		case KindQuadraticTo:
			nodes = append(nodes, Node{Action: "Q", X1: e.X1, Y1: e.Y1, X: e.X, Y: e.Y})
			previousX, previousY = e.X, e.Y
			wasMove = false

		case KindArcTo:
			nodes = append(nodes, Node{
				Action: "A", Rx: e.Rx, Ry: e.Ry, RotateDeg: e.Rotation * basics.Rad2Deg,
				LargeArc: e.LargeArc, Sweep: e.Sweep, X: e.X, Y: e.Y,
			})
			previousX, previousY = e.X, e.Y
			wasMove = false

		case KindSplineTo:
			// Decomposition happens before Flush (curves.DecomposeBSpline
			// appends Cubic/MoveTo elements instead); a raw SplineTo element
			// reaching here is a programming error in the caller, not a
			// document condition, so it is skipped rather than panicking.
		}
	}

	if len(nodes) > 0 {
		if !wasMove {
			if (basics.AlmostEqual(initialX, previousX) && basics.AlmostEqual(initialY, previousY)) || p.Closed {
				appendClose()
			}
		} else {
			nodes = nodes[:len(nodes)-1]
		}
	}

	return nodes
}
