package collect

import (
	"testing"

	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/curves"
	"github.com/MeKo-Christian/cdrimport/internal/path"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

// recordingCollector implements Collector, recording every call made to it
// as a short opcode string so tests can assert call sequences without
// depending on internal/content or internal/styles.
type recordingCollector struct {
	calls []string
}

func (r *recordingCollector) CollectPageSize(w, h, ox, oy float64) {}
func (r *recordingCollector) CollectPage()                        {}
func (r *recordingCollector) CollectFlags(flags uint32)            {}
func (r *recordingCollector) CollectBmp(uint32, uint32, uint32, uint32, uint32, []uint32, []byte) {
}
func (r *recordingCollector) CollectBmpRaw(uint32, []byte)                {}
func (r *recordingCollector) CollectBmpf(uint32, uint32, uint32, []byte)  {}
func (r *recordingCollector) CollectColorProfile(color.RGBTransform)     {}
func (r *recordingCollector) CollectPaletteEntry(uint32, color.Color)    {}
func (r *recordingCollector) CollectFont(uint16, uint16, string)         {}
func (r *recordingCollector) CollectPreviewBitmap([]byte)                {}
func (r *recordingCollector) CollectStld(uint32, state.CharStyle)        {}
func (r *recordingCollector) CollectText(uint32, uint32, []byte, []byte, map[uint32]state.CharStyle) {
}
func (r *recordingCollector) CollectVectorPattern(uint32, []byte)       {}
func (r *recordingCollector) CollectFillStyleDef(uint32, state.FillStyle) {}
func (r *recordingCollector) CollectOutlineStyleDef(uint32, state.LineStyle) {}
func (r *recordingCollector) CollectObjectBegin()                      {}
func (r *recordingCollector) CollectObjectEnd()                        {}
func (r *recordingCollector) CollectGroupBegin()                       {}
func (r *recordingCollector) CollectGroupEnd()                         {}
func (r *recordingCollector) CollectTransform(transform.Affine)        {}
func (r *recordingCollector) CollectFillStyle(uint32, state.FillStyle) {}
func (r *recordingCollector) CollectOutlineStyle(uint32, state.LineStyle) {}
func (r *recordingCollector) CollectMoveTo(x, y float64) {
	r.calls = append(r.calls, "MoveTo")
}
func (r *recordingCollector) CollectLineTo(x, y float64) {
	r.calls = append(r.calls, "LineTo")
}
func (r *recordingCollector) CollectCubicBezier(x1, y1, x2, y2, x, y float64) {
	r.calls = append(r.calls, "CubicBezier")
}
func (r *recordingCollector) CollectQuadraticBezier(x1, y1, x, y float64) {
	r.calls = append(r.calls, "QuadraticBezier")
}
func (r *recordingCollector) CollectArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) {
}
func (r *recordingCollector) CollectClosePath() {
	r.calls = append(r.calls, "ClosePath")
}
func (r *recordingCollector) CollectSplineData([]path.Point, []bool) {}
func (r *recordingCollector) CollectPolygon(curves.Polygon)          {}
func (r *recordingCollector) CollectImage(state.Image, uint32)       {}
func (r *recordingCollector) CollectBBox(x1, y1, x2, y2 float64)     {}
func (r *recordingCollector) CollectTextRef(uint32)                  {}

func TestDecodePolyPointsMoveLineClose(t *testing.T) {
	r := &recordingCollector{}
	points := []path.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	types := []byte{0x00, 0x40 | 0x08} // MoveTo, then LineTo+close
	DecodePolyPoints(r, points, types)

	want := []string{"MoveTo", "LineTo", "ClosePath"}
	if len(r.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", r.calls, want)
		}
	}
}

func TestDecodePolyPointsAccumulatesControlsThenCubic(t *testing.T) {
	r := &recordingCollector{}
	points := []path.Point{
		{X: 0, Y: 0},
		{X: 1, Y: 1}, // control 1 (accumulate: 0xC0)
		{X: 2, Y: 1}, // control 2 (accumulate: 0xC0)
		{X: 3, Y: 0}, // on-curve point closing the cubic (0x80 only)
	}
	types := []byte{0x00, 0xC0, 0xC0, 0x80}
	DecodePolyPoints(r, points, types)

	want := []string{"MoveTo", "CubicBezier"}
	if len(r.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", r.calls, want)
		}
	}
}

func TestDecodePolyPointsOnCurveWithoutEnoughControlsFallsBackToLine(t *testing.T) {
	r := &recordingCollector{}
	points := []path.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	types := []byte{0x00, 0x80} // on-curve point with no accumulated controls
	DecodePolyPoints(r, points, types)

	want := []string{"MoveTo", "LineTo"}
	if len(r.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
	for i := range want {
		if r.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", r.calls, want)
		}
	}
}

func TestDecodePolyPointsIgnoresShortTypesTail(t *testing.T) {
	r := &recordingCollector{}
	points := []path.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	types := []byte{0x00} // fewer type bytes than points
	DecodePolyPoints(r, points, types)

	if len(r.calls) != 1 || r.calls[0] != "MoveTo" {
		t.Fatalf("expected decoding to stop once types runs out, got %v", r.calls)
	}
}
