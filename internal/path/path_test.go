package path

import (
	"testing"

	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

func TestFlushElidesRedundantMoveTo(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(1, 0)
	p.MoveTo(1, 0) // same point as the line's endpoint: elided
	p.LineTo(2, 0)

	nodes := p.Flush()
	var moves int
	for _, n := range nodes {
		if n.Action == "M" {
			moves++
		}
	}
	if moves != 1 {
		t.Fatalf("expected exactly one M node, got %d (%+v)", moves, nodes)
	}
}

func TestFlushDropsTrailingLoneMoveTo(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(1, 0)
	p.MoveTo(5, 5) // no drawable op follows

	nodes := p.Flush()
	for _, n := range nodes {
		if n.Action == "M" && n.X == 5 && n.Y == 5 {
			t.Fatalf("trailing lone MoveTo should have been dropped: %+v", nodes)
		}
	}
}

func TestFlushClosesSubpathReturningToStart(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(1, 0)
	p.LineTo(1, 1)
	p.LineTo(0, 0) // back to start

	nodes := p.Flush()
	if len(nodes) == 0 || nodes[len(nodes)-1].Action != "Z" {
		t.Fatalf("expected final node to be Z, got %+v", nodes)
	}
}

func TestFlushClosedFlagForcesZ(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(1, 0)
	p.LineTo(1, 1)
	p.ClosePath()

	nodes := p.Flush()
	if len(nodes) == 0 || nodes[len(nodes)-1].Action != "Z" {
		t.Fatalf("Closed path should end in Z even without returning to start: %+v", nodes)
	}
}

func TestFlushEveryDrawOpPrecededByMove(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(1, 0)
	p.CubicTo(1, 1, 2, 1, 2, 0)
	p.MoveTo(5, 5)
	p.LineTo(6, 5)

	nodes := p.Flush()
	sawMove := false
	for _, n := range nodes {
		switch n.Action {
		case "M":
			sawMove = true
		case "L", "C", "Q", "A":
			if !sawMove {
				t.Fatalf("draw op %v not preceded by a MoveTo: %+v", n.Action, nodes)
			}
		}
	}
}

func TestIdentityTransformPreservesControlPoints(t *testing.T) {
	var p Path
	p.MoveTo(1, 2)
	p.CubicTo(3, 4, 5, 6, 7, 8)
	p.ArcTo(2, 3, 0.1, true, false, 9, 10)

	clone := p.Clone()
	clone.Transform(transform.Identity())

	for i := range p.Elements {
		a, b := p.Elements[i], clone.Elements[i]
		if a.X != b.X || a.Y != b.Y || a.X1 != b.X1 || a.Y1 != b.Y1 || a.X2 != b.X2 || a.Y2 != b.Y2 {
			t.Fatalf("identity transform changed element %d: %+v vs %+v", i, a, b)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	var p Path
	p.MoveTo(0, 0)
	p.SplineTo([]Point{{X: 1, Y: 1}, {X: 2, Y: 2}})

	c := p.Clone()
	c.Elements[0].X = 99
	c.Elements[1].Points[0].X = 42

	if p.Elements[0].X == 99 {
		t.Fatalf("Clone shares element storage with original")
	}
	if p.Elements[1].Points[0].X == 42 {
		t.Fatalf("Clone shares Points slice with original")
	}
}

func TestEmptyPathFlushesToNil(t *testing.T) {
	var p Path
	if nodes := p.Flush(); nodes != nil {
		t.Fatalf("empty path should flush to nil, got %+v", nodes)
	}
}
