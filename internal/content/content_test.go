package content

import (
	"testing"

	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/path"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

// recordingSink records each call's kind plus, for SetStyle, the fill-color
// prop, so tests can distinguish which of several objects produced it.
type recordingSink struct {
	calls       []string
	nodes       []path.Node
	graphicsProps paint.Props
}

func (r *recordingSink) SetStyle(props paint.Props, stops []paint.Stop) {
	r.calls = append(r.calls, "SetStyle:"+props["fill-color"])
}
func (r *recordingSink) Path(nodes []path.Node) {
	r.calls = append(r.calls, "Path")
	r.nodes = append(r.nodes, nodes...)
}
func (r *recordingSink) GraphicObject(paint.Props, []byte) { r.calls = append(r.calls, "GraphicObject") }
func (r *recordingSink) StartTextObject(paint.Props)       { r.calls = append(r.calls, "StartTextObject") }
func (r *recordingSink) StartTextLine(paint.Props)         { r.calls = append(r.calls, "StartTextLine") }
func (r *recordingSink) StartTextSpan(paint.Props)         { r.calls = append(r.calls, "StartTextSpan") }
func (r *recordingSink) InsertText(s string)               { r.calls = append(r.calls, "InsertText:"+s) }
func (r *recordingSink) EndTextSpan()                      { r.calls = append(r.calls, "EndTextSpan") }
func (r *recordingSink) EndTextLine()                       { r.calls = append(r.calls, "EndTextLine") }
func (r *recordingSink) EndTextObject()                     { r.calls = append(r.calls, "EndTextObject") }
func (r *recordingSink) StartGroup(paint.Props)             { r.calls = append(r.calls, "StartGroup") }
func (r *recordingSink) EndGroup()                          { r.calls = append(r.calls, "EndGroup") }
func (r *recordingSink) StartGraphics(props paint.Props) {
	r.calls = append(r.calls, "StartGraphics")
	r.graphicsProps = props
}
func (r *recordingSink) EndGraphics()                       { r.calls = append(r.calls, "EndGraphics") }

func solidFill(hex uint32) state.FillStyle {
	return state.FillStyle{Kind: state.FillKindSolid, Color1: color.Color{Model: color.ModelRGB, Value: hex}}
}

func drawSquare(c *Collector) {
	c.CollectMoveTo(0, 0)
	c.CollectLineTo(1, 0)
	c.CollectLineTo(1, 1)
	c.CollectLineTo(0, 1)
	c.CollectClosePath()
}

func TestObjectFlushEmitsStyleAndPathWithinGraphicsBracket(t *testing.T) {
	st := state.New()
	st.Pages = []state.Page{{Width: 10, Height: 10}}
	sink := &recordingSink{}
	c := NewCollector(st, sink)

	c.CollectPage()
	c.CollectObjectBegin()
	drawSquare(c)
	c.CollectFillStyle(0, solidFill(0xff0000))
	c.CollectObjectEnd()
	c.Finish()

	want := []string{"StartGraphics", "SetStyle:#ff0000", "Path", "EndGraphics"}
	if len(sink.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", sink.calls, want)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", sink.calls, want)
		}
	}

	// Regression check for the pageIndex off-by-one: currentPage() must
	// resolve to State.Pages[0], not the zero-value fallback, so the real
	// page dimensions reach StartGraphics.
	if sink.graphicsProps["svg:width"] != "10" || sink.graphicsProps["svg:height"] != "10" {
		t.Fatalf("graphicsProps = %v, want svg:width/svg:height = 10/10", sink.graphicsProps)
	}
}

func TestLaterDeclaredObjectDrawsFirst(t *testing.T) {
	st := state.New()
	st.Pages = []state.Page{{Width: 10, Height: 10}}
	sink := &recordingSink{}
	c := NewCollector(st, sink)

	c.CollectPage()

	c.CollectObjectBegin()
	drawSquare(c)
	c.CollectFillStyle(0, solidFill(0x111111))
	c.CollectObjectEnd()

	c.CollectObjectBegin()
	drawSquare(c)
	c.CollectFillStyle(0, solidFill(0x222222))
	c.CollectObjectEnd()

	c.Finish()

	want := []string{"StartGraphics", "SetStyle:#222222", "Path", "SetStyle:#111111", "Path", "EndGraphics"}
	if len(sink.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", sink.calls, want)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", sink.calls, want)
		}
	}
}

func TestGroupBracketsNestedObjectEvents(t *testing.T) {
	st := state.New()
	st.Pages = []state.Page{{Width: 10, Height: 10}}
	sink := &recordingSink{}
	c := NewCollector(st, sink)

	c.CollectPage()
	c.CollectGroupBegin()
	c.CollectObjectBegin()
	drawSquare(c)
	c.CollectFillStyle(0, solidFill(0xabcdef))
	c.CollectObjectEnd()
	c.CollectGroupEnd()
	c.Finish()

	want := []string{"StartGraphics", "StartGroup", "SetStyle:#abcdef", "Path", "EndGroup", "EndGraphics"}
	if len(sink.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", sink.calls, want)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", sink.calls, want)
		}
	}
}

func TestIgnoredPageEmitsNoGraphicsBracket(t *testing.T) {
	st := state.New()
	st.Pages = []state.Page{{Width: 10, Height: 10, Flags: state.IgnoreFlag}}
	sink := &recordingSink{}
	c := NewCollector(st, sink)

	c.CollectPage()
	c.CollectObjectBegin()
	drawSquare(c)
	c.CollectFillStyle(0, solidFill(0xff0000))
	c.CollectObjectEnd()
	c.Finish()

	if len(sink.calls) != 0 {
		t.Fatalf("expected no calls for an ignored page, got %v", sink.calls)
	}
}

func TestEmptyObjectWithNoPathImageOrTextIsDropped(t *testing.T) {
	st := state.New()
	st.Pages = []state.Page{{Width: 10, Height: 10}}
	sink := &recordingSink{}
	c := NewCollector(st, sink)

	c.CollectPage()
	c.CollectObjectBegin()
	c.CollectFillStyle(0, solidFill(0xff0000)) // style set, but no geometry at all
	c.CollectObjectEnd()
	c.Finish()

	want := []string{"StartGraphics", "EndGraphics"}
	if len(sink.calls) != len(want) {
		t.Fatalf("calls = %v, want %v (empty object should emit nothing)", sink.calls, want)
	}
}

func TestObjectTransformAppliesBeforePageTransform(t *testing.T) {
	st := state.New()
	st.Pages = []state.Page{{Width: 10, Height: 10}}
	sink := &recordingSink{}
	c := NewCollector(st, sink)

	c.CollectPage()
	c.CollectObjectBegin()
	c.CollectTransform(transform.New(1, 0, 5, 0, 1, 0)) // translate +5 in object space
	c.CollectMoveTo(0, 0)
	c.CollectLineTo(1, 0)
	c.CollectClosePath()
	c.CollectFillStyle(0, solidFill(0x000000))
	c.CollectObjectEnd()
	c.Finish()

	if len(sink.nodes) < 2 {
		t.Fatalf("expected at least a MoveTo and a LineTo node, got %+v", sink.nodes)
	}
	// object translate +5 in x, then the page transform flips y around height=10:
	// (0,0) -> (5,0) -> (5,10); (1,0) -> (6,0) -> (6,10).
	if sink.nodes[0].X != 5 || sink.nodes[0].Y != 10 {
		t.Fatalf("first node = (%v, %v), want (5, 10)", sink.nodes[0].X, sink.nodes[0].Y)
	}
	if sink.nodes[1].X != 6 || sink.nodes[1].Y != 10 {
		t.Fatalf("second node = (%v, %v), want (6, 10)", sink.nodes[1].X, sink.nodes[1].Y)
	}
	// The object's own transform must have been consumed (reset) once flushed.
	if !c.objTransform.Empty() {
		t.Fatalf("objTransform should be reset after CollectObjectEnd")
	}
}
