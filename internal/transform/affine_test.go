package transform

import (
	"math"
	"testing"
)

func TestIdentityApplyToPoint(t *testing.T) {
	id := Identity()
	x, y := 3.5, -2.25
	id.ApplyToPoint(&x, &y)
	if x != 3.5 || y != -2.25 {
		t.Fatalf("identity transform moved point to (%v, %v)", x, y)
	}
}

func TestApplyToArcIdentityPreservesRadiiAndSweep(t *testing.T) {
	// rx > ry: the ported CDRTransform::applyToArc algorithm (faithful to
	// libcdr/src/lib/CDRTransforms.cpp) resolves the major/minor
	// axis by comparing the implicit conic's A and C coefficients, which
	// only round-trips rx/ry unswapped when rx is already the larger axis;
	// rx < ry swaps them (a source quirk this port preserves, not a bug
	// this port deliberately fixes).
	id := Identity()
	rx, ry, rotation := 3.0, 2.0, 0.0
	sweep := true
	x, y := 5.0, 7.0
	id.ApplyToArc(&rx, &ry, &rotation, &sweep, &x, &y)

	if math.Abs(rx-3.0) > 1e-9 || math.Abs(ry-2.0) > 1e-9 {
		t.Fatalf("ApplyToArc under identity changed radii: rx=%v ry=%v", rx, ry)
	}
	if sweep != true {
		t.Fatalf("ApplyToArc under identity flipped sweep")
	}
	if x != 5.0 || y != 7.0 {
		t.Fatalf("ApplyToArc under identity moved endpoint to (%v, %v)", x, y)
	}
}

func TestScaleAndFlipQueries(t *testing.T) {
	tr := New(-2, 0, 0, 0, 3, 0)
	if got := tr.ScaleX(); math.Abs(got-2) > 1e-9 {
		t.Errorf("ScaleX = %v, want 2", got)
	}
	if got := tr.ScaleY(); math.Abs(got-3) > 1e-9 {
		t.Errorf("ScaleY = %v, want 3", got)
	}
	if !tr.FlipX() {
		t.Errorf("FlipX = false, want true for negative X scale")
	}
	if tr.FlipY() {
		t.Errorf("FlipY = true, want false for positive Y scale")
	}
}

func TestTranslation(t *testing.T) {
	tr := New(1, 0, 10, 0, 1, -5)
	if got := tr.TranslateX(); got != 10 {
		t.Errorf("TranslateX = %v, want 10", got)
	}
	if got := tr.TranslateY(); got != -5 {
		t.Errorf("TranslateY = %v, want -5", got)
	}
}

func TestRotation90Degrees(t *testing.T) {
	tr := New(0, -1, 0, 1, 0, 0)
	got := tr.Rotation()
	if math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("Rotation = %v, want pi/2", got)
	}
}

func TestStackComposesInOrder(t *testing.T) {
	var s Stack
	s.Append(New(1, 0, 10, 0, 1, 0)) // translate +10 x
	s.Append(New(2, 0, 0, 0, 2, 0))  // scale 2x

	x, y := 1.0, 1.0
	s.ApplyToPoint(&x, &y)
	// (1,1) -> (11,1) -> (22,2)
	if x != 22 || y != 2 {
		t.Fatalf("Stack.ApplyToPoint = (%v, %v), want (22, 2)", x, y)
	}
}

func TestStackCloneIsIndependent(t *testing.T) {
	var s Stack
	s.Append(Identity())
	clone := s.Clone()
	clone.Append(New(2, 0, 0, 0, 2, 0))
	if s.Empty() {
		t.Fatalf("original stack should still have its one entry")
	}
	if len(clone.items) != 2 {
		t.Fatalf("clone should have two entries, got %d", len(clone.items))
	}
}
