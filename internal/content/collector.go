// Package content implements the content-collector pass: a
// second walk of the same document that emits paint events instead of
// resolving resources. Modeled on libcdr's CDRContentCollector
// (libcdr/src/lib/CDRContentCollector.cpp), generalized the same way
// internal/styles is: written against the shared internal/collect.Collector
// capability set rather than a deep virtual-base hierarchy.
package content

import (
	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/collect"
	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/curves"
	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/path"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

var _ collect.Collector = (*Collector)(nil)

// splineScratch buffers one pending `ppdt` control-point run, plus its knot
// vector, until the object it belongs to flushes.
type splineScratch struct {
	points      []path.Point
	knotMarkers []bool
	pending     bool
}

// frame is one nesting level's worth of already-flushed child events, kept
// in push order (the reverse of their eventual sink order — see pushUnit).
// frames[0] is the page itself; CollectGroupBegin/End push and pop
// additional levels for nested groups.
type frame struct {
	events []paint.Event
}

// Collector drives the content-collector pass. It keeps its own
// groupTransforms stack (snapshotted by CollectGroupBegin and restored by
// CollectGroupEnd around the decoder's group containers), and its own
// per-object scratch that CollectObjectBegin resets and
// CollectObjectEnd flushes.
type Collector struct {
	State *state.ParserState
	Sink  paint.Sink

	pageIndex int
	pageOpen  bool
	frames    []frame

	groupTransforms transform.Stack
	groupSnapshots  []transform.Stack
	inObject        bool

	objTransform transform.Stack
	path         path.Path
	polygon      *curves.Polygon
	spline       splineScratch
	fillStyle    state.FillStyle
	lineStyle    state.LineStyle
	image        *state.Image
	hasImage     bool
	textID       uint32
	hasText      bool
	bbox         [4]float64
	hasBBox      bool
}

// NewCollector returns a Collector that reads resources st's styles pass
// already resolved, and writes paint events to sink.
func NewCollector(st *state.ParserState, sink paint.Sink) *Collector {
	c := &Collector{State: st, Sink: sink, frames: []frame{{}}, pageIndex: -1}
	c.resetObject()
	return c
}

func (c *Collector) resetObject() {
	c.objTransform = transform.Stack{}
	c.path = path.Path{}
	c.polygon = nil
	c.spline = splineScratch{}
	c.fillStyle = state.FillStyle{Kind: state.FillKindUnset}
	c.lineStyle = state.LineStyle{Kind: state.LineKindUnset}
	c.image = nil
	c.hasImage = false
	c.textID = 0
	c.hasText = false
	c.hasBBox = false
}

// CollectPageSize is a no-op in the content pass: the page geometry was
// already resolved by the styles pass and lives in State.Pages.
func (c *Collector) CollectPageSize(width, height, offsetX, offsetY float64) {}

// CollectFlags is a no-op for the same reason CollectPageSize is.
func (c *Collector) CollectFlags(flags uint32) {}

// CollectPage flushes the page currently being assembled (if any) and
// advances to the next entry in State.Pages.
func (c *Collector) CollectPage() {
	c.flushPage()
	c.pageIndex++
	c.pageOpen = true
}

// Finish flushes the final page. The CDR/CMX decoder calls this once after
// its walk completes; CollectPage only ever flushes the *previous* page.
func (c *Collector) Finish() {
	c.flushPage()
}

func (c *Collector) currentPage() state.Page {
	if c.pageIndex >= 0 && c.pageIndex < len(c.State.Pages) {
		return c.State.Pages[c.pageIndex]
	}
	return state.Page{}
}

// pageTransform is the `[1,0,-offsetX; 0,-1,height+offsetY]` page-to-sink
// transform: it flips Y (document space is
// math-positive-up, sink space is top-down) and shifts the origin from the
// page center to its top-left corner, composing the offset translation
// before the flip the way CDRContentCollector applies them.
func pageTransform(p state.Page) transform.Affine {
	return transform.New(1, 0, -p.OffsetX, 0, -1, p.Height+p.OffsetY)
}

func (c *Collector) flushPage() {
	if !c.pageOpen {
		return
	}
	page := c.currentPage()
	ignored := page.Flags&state.IgnoreFlag != 0
	top := c.frames[0]
	c.frames[0] = frame{}

	if ignored {
		return
	}

	events := reverseEvents(top.events)
	c.Sink.StartGraphics(paint.Props{
		"svg:width":  formatNumber(page.Width),
		"svg:height": formatNumber(page.Height),
	})
	for _, e := range events {
		e.Draw(c.Sink)
	}
	c.Sink.EndGraphics()
}

// pushUnit appends one already-internally-ordered drawable unit (the events
// one object, or one finished group, produces) onto the current top frame.
// It pushes in reverse so that reversing the frame once more — either when a
// group closes (folding into its parent) or when the page flushes — restores
// the unit's own internal order while inverting the unit's position relative
// to its siblings, so later-declared content draws first.
func (c *Collector) pushUnit(events []paint.Event) {
	top := len(c.frames) - 1
	for i := len(events) - 1; i >= 0; i-- {
		c.frames[top].events = append(c.frames[top].events, events[i])
	}
}

func reverseEvents(evs []paint.Event) []paint.Event {
	out := make([]paint.Event, len(evs))
	for i, e := range evs {
		out[len(evs)-1-i] = e
	}
	return out
}

// CollectObjectBegin clears per-object scratch for the object about to be
// decoded.
func (c *Collector) CollectObjectBegin() {
	c.resetObject()
	c.inObject = true
}

// CollectObjectEnd runs the per-object flush and clears scratch for the
// next object.
func (c *Collector) CollectObjectEnd() {
	c.flushObject()
	c.resetObject()
	c.inObject = false
}

// CollectGroupBegin opens a new nesting level: subsequent objects flush into
// it rather than directly into the page (or enclosing group), and any
// `trfd`/`trfl` the decoder reports before the first nested object belongs
// to the group itself rather than to a contained object.
func (c *Collector) CollectGroupBegin() {
	c.frames = append(c.frames, frame{})
	c.groupSnapshots = append(c.groupSnapshots, c.groupTransforms.Clone())
}

// CollectGroupEnd closes the innermost nesting level, folding its (now
// correctly ordered) contents between a StartGroup/EndGroup bracket into the
// parent level, and restores the group-transform stack to what it was before
// this group's own transform was pushed onto it.
func (c *Collector) CollectGroupEnd() {
	n := len(c.frames)
	if n <= 1 {
		return // unbalanced grup nesting in the document; nothing to pop past the page level
	}
	top := c.frames[n-1]
	c.frames = c.frames[:n-1]

	children := reverseEvents(top.events)
	bundle := make([]paint.Event, 0, len(children)+2)
	bundle = append(bundle, paint.StartGroup(nil))
	bundle = append(bundle, children...)
	bundle = append(bundle, paint.EndGroup())
	c.pushUnit(bundle)

	if sn := len(c.groupSnapshots); sn > 0 {
		c.groupTransforms = c.groupSnapshots[sn-1]
		c.groupSnapshots = c.groupSnapshots[:sn-1]
	}
}

// CollectTransform appends one more transform to whichever level is
// currently open: the object being decoded if CollectObjectBegin has fired
// without a matching CollectObjectEnd yet, otherwise the enclosing group.
func (c *Collector) CollectTransform(t transform.Affine) {
	if c.inObject {
		c.objTransform.Append(t)
		return
	}
	c.groupTransforms.Append(t)
}

// CollectFillStyle installs the current object's fill, whether it arrived
// inline or (id != 0) was resolved by the caller from State.FillStyles.
func (c *Collector) CollectFillStyle(id uint32, fs state.FillStyle) {
	c.fillStyle = fs
}

// CollectOutlineStyle is the line-style analog of CollectFillStyle.
func (c *Collector) CollectOutlineStyle(id uint32, ls state.LineStyle) {
	c.lineStyle = ls
}

func (c *Collector) CollectMoveTo(x, y float64) { c.path.MoveTo(x, y) }
func (c *Collector) CollectLineTo(x, y float64) { c.path.LineTo(x, y) }

func (c *Collector) CollectCubicBezier(x1, y1, x2, y2, x, y float64) {
	c.path.CubicTo(x1, y1, x2, y2, x, y)
}

func (c *Collector) CollectQuadraticBezier(x1, y1, x, y float64) {
	c.path.QuadraticTo(x1, y1, x, y)
}

func (c *Collector) CollectArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) {
	c.path.ArcTo(rx, ry, rotation, largeArc, sweep, x, y)
}

func (c *Collector) CollectClosePath() { c.path.ClosePath() }

// CollectSplineData buffers a pending control-point run; it is folded into
// the path at flush time (appendPendingSpline), not here, since the spline
// needs to be lowered only once the surrounding path is otherwise complete.
func (c *Collector) CollectSplineData(points []path.Point, knotMarkers []bool) {
	cp := make([]path.Point, len(points))
	copy(cp, points)
	km := make([]bool, len(knotMarkers))
	copy(km, knotMarkers)
	c.spline = splineScratch{points: cp, knotMarkers: km, pending: true}
}

// CollectPolygon buffers a pending rosette generator; it is applied to the
// accumulated path at flush time, matching _flushCurrentPath step 1.
func (c *Collector) CollectPolygon(p curves.Polygon) {
	pp := p
	c.polygon = &pp
}

func (c *Collector) CollectImage(img state.Image, imageID uint32) {
	ic := img
	c.image = &ic
	c.hasImage = true
}

func (c *Collector) CollectBBox(x1, y1, x2, y2 float64) {
	c.bbox = [4]float64{x1, y1, x2, y2}
	c.hasBBox = true
}

func (c *Collector) CollectTextRef(textID uint32) {
	c.textID = textID
	c.hasText = true
}

// The remaining collect.Collector methods are resolved once, during the
// styles pass, and never revisited here.

func (c *Collector) CollectBmp(imageID, colorModel, width, height, bpp uint32, palette []uint32, bitmap []byte) {
}
func (c *Collector) CollectBmpRaw(imageID uint32, bitmap []byte)                 {}
func (c *Collector) CollectBmpf(patternID, width, height uint32, pattern []byte) {}
func (c *Collector) CollectColorProfile(rgbTransform color.RGBTransform)        {}
func (c *Collector) CollectPaletteEntry(colorID uint32, col color.Color)        {}
func (c *Collector) CollectFont(fontID uint16, encoding uint16, name string)    {}
func (c *Collector) CollectPreviewBitmap(bmp []byte)                            {}
func (c *Collector) CollectStld(id uint32, cs state.CharStyle)                  {}
func (c *Collector) CollectText(textID, styleID uint32, data, charDescriptions []byte, styleOverrides map[uint32]state.CharStyle) {
}
func (c *Collector) CollectVectorPattern(spnd uint32, svg []byte)         {}
func (c *Collector) CollectFillStyleDef(id uint32, fs state.FillStyle)   {}
func (c *Collector) CollectOutlineStyleDef(id uint32, ls state.LineStyle) {}

// appendPendingSpline lowers c.spline (if any) into c.path by grouping on
// its knot markers, matching CDRSplineData::create's per-group 2/3/4+-point
// dispatch (see curves.BuildSpline).
func appendPendingSpline(p *path.Path, s splineScratch) {
	if !s.pending {
		return
	}
	curves.BuildSpline(s.points, s.knotMarkers, p)
}

func degToRad(d float64) float64 { return d * basics.Deg2Rad }
