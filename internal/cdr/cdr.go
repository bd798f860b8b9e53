// Package cdr implements the CDR record layer: dispatching each RIFF leaf
// chunk internal/stream's walker hands it to a collect.Collector call,
// tracking "obj "/"grp " container boundaries through the walker's list
// hooks. Modeled on libcdr's CDRParser::parseRecords and the CDR_FOURCC_* table
// (libcdr/src/lib/CDRDocumentStructure.h). The per-chunk body layouts
// follow CDRTypes.h's struct field order (which internal/state's struct
// field order already mirrors) and CommonParser's precision-dependent
// primitive readers. `ppdt` point runs are handed on with their knot
// markers through CollectSplineData; the CMX PolyCurve flag-byte decoder
// (collect.DecodePolyPoints) is not used by this package.
package cdr

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/cmx"
	"github.com/MeKo-Christian/cdrimport/internal/collect"
	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/content"
	"github.com/MeKo-Christian/cdrimport/internal/path"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/stream"
	"github.com/MeKo-Christian/cdrimport/internal/styles"
	"github.com/MeKo-Christian/cdrimport/internal/svggen"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

// Decoder walks a CDR document's RIFF tree once, calling into a shared
// collect.Collector. The same Decoder type drives both the styles pass and
// the content pass; only the Collector implementation differs between them.
type Decoder struct {
	r         *stream.Reader
	collector collect.Collector

	fillStyles map[uint32]state.FillStyle
	lineStyles map[uint32]state.LineStyle
	fonts      map[uint16]string

	precision16 bool
	lastSpnd    uint32
}

// New returns a Decoder over data. The caller has already stripped any OLE
// compound wrapper (internal/stream.OpenOLEStream).
func New(data []byte, c collect.Collector) *Decoder {
	return &Decoder{
		r:          stream.New(data),
		collector:  c,
		fillStyles: make(map[uint32]state.FillStyle),
		lineStyles: make(map[uint32]state.LineStyle),
		fonts:      make(map[uint16]string),
	}
}

// Parse walks the whole RIFF tree rooted at the buffer's start.
func (d *Decoder) Parse() error {
	onEnter := func(listType string) {
		switch listType {
		case "obj ":
			d.collector.CollectObjectBegin()
		case "grp ", "grup":
			d.collector.CollectGroupBegin()
		}
	}
	onExit := func(listType string) {
		switch listType {
		case "obj ":
			d.collector.CollectObjectEnd()
		case "grp ", "grup":
			d.collector.CollectGroupEnd()
		}
	}
	return stream.WalkRIFFWithHooks(d.r, nil, d.visit, onEnter, onExit)
}

func (d *Decoder) visit(fourCC string, body *stream.Reader) error {
	switch fourCC {
	case "vrsn":
		d.readVrsn(body)
	case "page":
		d.readPage(body)
	case "flgs":
		d.readFlgs(body)
	case "bbox":
		d.readBBox(body)
	case "iccd":
		d.readIccd(body)
	case "fild":
		d.readFild(body)
	case "filc":
		d.readFilc(body)
	case "outl":
		d.readOutl(body)
	case "trfd":
		d.readTrfd(body)
	case "ppdt":
		d.readPpdt(body)
	case "bmp ":
		d.readBmp(body)
	case "bmpf":
		d.readBmpf(body)
	case "spnd":
		d.readSpnd(body)
	case "loda":
		d.readLoda(body)
	case "vect", "vpat":
		d.readVect(body)
	case "mcfg":
		d.readMcfg(body)
	case "DISP":
		d.readDisp(body)
	case "rclr":
		d.readRclr(body)
	case "font", "fntt":
		d.readFont(body)
	case "stlt", "styd":
		d.readStyleEntry(body)
	case "txsm", "txtj":
		d.readTxsm(body)
	case "trfl":
		d.readTrfl(body)
	case "bmpt":
		d.readBmpt(body)
	}
	return nil
}

func (d *Decoder) coordinate(r *stream.Reader) (float64, error) {
	if d.precision16 {
		v, err := r.ReadS16()
		return float64(v) / 1000.0, err
	}
	v, err := r.ReadS32()
	return float64(v) / 254000.0, err
}

// readVrsn records the document's precision the rest of this decoder reads
// through: CDR documents from CorelDRAW versions before X4 carry 16-bit
// coordinates, matching CDRParser::isSupportedFormat's own version check.
func (d *Decoder) readVrsn(r *stream.Reader) {
	version, err := r.ReadU16()
	if err != nil {
		return
	}
	d.precision16 = version < 1302 // CorelDRAW X4's version stamp, the 16-to-32-bit cutover
}

// readPage decodes the `page` record's width/height pair and derives the
// centered page offset from it.
func (d *Decoder) readPage(r *stream.Reader) {
	width, err := d.coordinate(r)
	if err != nil {
		return
	}
	height, err := d.coordinate(r)
	if err != nil {
		return
	}
	d.collector.CollectPageSize(width, height, -width/2.0, -height/2.0)
	d.collector.CollectPage()
}

func (d *Decoder) readFlgs(r *stream.Reader) {
	flags, err := r.ReadU32()
	if err != nil {
		return
	}
	d.collector.CollectFlags(flags)
}

func (d *Decoder) readBBox(r *stream.Reader) {
	x1, err := d.coordinate(r)
	if err != nil {
		return
	}
	y1, err := d.coordinate(r)
	if err != nil {
		return
	}
	x2, err := d.coordinate(r)
	if err != nil {
		return
	}
	y2, err := d.coordinate(r)
	if err != nil {
		return
	}
	d.collector.CollectBBox(x1, y1, x2, y2)
}

func (d *Decoder) readIccd(r *stream.Reader) {
	body := r.Bytes()[r.Tell():]
	rgbTransform, err := color.ParseICCRGBTransform(body)
	if err != nil {
		return
	}
	d.collector.CollectColorProfile(rgbTransform)
}

func (d *Decoder) readColor(r *stream.Reader) (color.Color, error) {
	model, err := r.ReadU16()
	if err != nil {
		return color.Color{}, err
	}
	if _, err := r.ReadU16(); err != nil { // color palette/reference id, unused here
		return color.Color{}, err
	}
	value, err := r.ReadU32()
	if err != nil {
		return color.Color{}, err
	}
	return color.Color{Model: color.Model(model), Value: value}, nil
}

// readFild decodes a standalone `fild` fill-style-definition record (an id
// plus the same body `fill` carries inline on an object), recording it for
// later resolution by id.
func (d *Decoder) readFild(r *stream.Reader) {
	id, err := r.ReadU32()
	if err != nil {
		return
	}
	fs, err := d.readFillBody(r)
	if err != nil {
		return
	}
	d.fillStyles[id] = fs
	d.collector.CollectFillStyleDef(id, fs)
}

// readFilc applies a previously-defined `fild` style (by id) to the object
// currently being decoded.
func (d *Decoder) readFilc(r *stream.Reader) {
	id, err := r.ReadU32()
	if err != nil {
		return
	}
	fs, ok := d.fillStyles[id]
	if !ok {
		return
	}
	d.collector.CollectFillStyle(id, fs)
}

func (d *Decoder) readFillBody(r *stream.Reader) (state.FillStyle, error) {
	kind, err := r.ReadU16()
	if err != nil {
		return state.FillStyle{}, err
	}
	fs := state.FillStyle{Kind: int32(kind)}
	switch fs.Kind {
	case state.FillKindSolid:
		col, err := d.readColor(r)
		if err != nil {
			return fs, err
		}
		fs.Color1 = col
	case state.FillKindGradient:
		gradType, err := r.ReadU16()
		if err != nil {
			return fs, err
		}
		mode, _ := r.ReadU16()
		angle, _ := d.coordinate(r)
		midpoint, _ := d.coordinate(r)
		edgeOffset, _ := d.coordinate(r)
		cxOffset, _ := d.coordinate(r)
		cyOffset, _ := d.coordinate(r)
		stopCount, err := r.ReadU16()
		if err != nil {
			return fs, err
		}
		var stops []state.GradientStop
		for i := 0; i < int(stopCount); i++ {
			offset, err := r.ReadU16()
			if err != nil {
				break
			}
			col, err := d.readColor(r)
			if err != nil {
				break
			}
			stops = append(stops, state.GradientStop{Offset: float64(offset) / 100.0, Color: col})
		}
		fs.Gradient = state.Gradient{
			Type: int(gradType), Mode: int(mode), Angle: angle, Midpoint: midpoint,
			EdgeOffset: edgeOffset, CenterXOffset: cxOffset, CenterYOffset: cyOffset,
			Stops: stops,
		}
	case state.FillKindPattern, state.FillKindBitmap, state.FillKindTexture:
		imgID, _ := r.ReadU32()
		width, _ := d.coordinate(r)
		height, _ := d.coordinate(r)
		xOff, _ := d.coordinate(r)
		yOff, _ := d.coordinate(r)
		flags, _ := r.ReadU32()
		fs.ImageFill = state.ImageFill{ID: imgID, Width: width, Height: height, XOffset: xOff, YOffset: yOff, Flags: flags}
	}
	return fs, nil
}

// readOutl decodes a standalone `outl` line-style-definition record.
func (d *Decoder) readOutl(r *stream.Reader) {
	id, err := r.ReadU32()
	if err != nil {
		return
	}
	ls, err := d.readLineBody(r)
	if err != nil {
		return
	}
	d.lineStyles[id] = ls
	d.collector.CollectOutlineStyleDef(id, ls)
	d.collector.CollectOutlineStyle(id, ls)
}

func (d *Decoder) readLineBody(r *stream.Reader) (state.LineStyle, error) {
	kind, err := r.ReadU16()
	if err != nil {
		return state.LineStyle{}, err
	}
	caps, _ := r.ReadU16()
	join, _ := r.ReadU16()
	width, _ := d.coordinate(r)
	stretch, _ := d.coordinate(r)
	angle, _ := d.coordinate(r)
	col, err := d.readColor(r)
	if err != nil {
		return state.LineStyle{}, err
	}
	dashCount, _ := r.ReadU16()
	var dash []uint32
	for i := 0; i < int(dashCount); i++ {
		v, err := r.ReadU16()
		if err != nil {
			break
		}
		dash = append(dash, uint32(v))
	}
	return state.LineStyle{
		Kind: int32(kind), Caps: capFromWire(caps), Join: joinFromWire(join),
		Width: width, Stretch: stretch, Angle: angle, Color: col, DashArray: dash,
	}, nil
}

// capFromWire/joinFromWire map the wire's 0/1/2 cap and join codes directly
// onto basics.LineCap/basics.LineJoin, which are numbered the same way
//.
func capFromWire(v uint16) basics.LineCap {
	switch v {
	case 1:
		return basics.RoundCap
	case 2:
		return basics.SquareCap
	default:
		return basics.ButtCap
	}
}

func joinFromWire(v uint16) basics.LineJoin {
	switch v {
	case 1:
		return basics.RoundJoin
	case 2:
		return basics.BevelJoin
	default:
		return basics.MiterJoin
	}
}

// readTrfd decodes one affine transform matrix, applying it to whichever
// level CollectTransform routes it to (the object being decoded, or the
// enclosing group).
func (d *Decoder) readTrfd(r *stream.Reader) {
	m0, err := r.ReadDouble()
	if err != nil {
		return
	}
	m1, err := r.ReadDouble()
	if err != nil {
		return
	}
	m2, err := r.ReadDouble()
	if err != nil {
		return
	}
	m3, err := r.ReadDouble()
	if err != nil {
		return
	}
	m4, err := r.ReadDouble()
	if err != nil {
		return
	}
	m5, err := r.ReadDouble()
	if err != nil {
		return
	}
	d.collector.CollectTransform(transform.New(m0, m1, m2, m3, m4, m5))
}

// readPpdt decodes one CDRSplineData run: a point count, that many (x, y)
// pairs, then a same-length knot vector, matching
// CDRContentCollector::collectPpdt/CDRSplineData (libcdr's CDRTypes.h/.cpp)
// rather than CMX's flag-byte PolyCurve encoding — the two
// share a "list of points" shape but not a wire format. A nonzero knot
// entry marks the point where a spline segment ends, exactly the grouping
// CollectSplineData's knotMarkers expects.
func (d *Decoder) readPpdt(r *stream.Reader) {
	count, err := r.ReadU32()
	if err != nil {
		return
	}
	points := make([]path.Point, 0, count)
	for i := 0; i < int(count); i++ {
		x, err := d.coordinate(r)
		if err != nil {
			return
		}
		y, err := d.coordinate(r)
		if err != nil {
			return
		}
		points = append(points, path.Point{X: x, Y: y})
	}
	knotMarkers := make([]bool, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := r.ReadU32()
		if err != nil {
			return
		}
		knotMarkers = append(knotMarkers, v != 0)
	}
	d.collector.CollectSplineData(points, knotMarkers)
}

// readBmp decodes a raw embedded raster (colorModel/width/height/bpp header
// plus an optional palette and pixel data), matching
// CDRStylesCollector::collectBmp's input shape.
func (d *Decoder) readBmp(r *stream.Reader) {
	imageID, err := r.ReadU32()
	if err != nil {
		return
	}
	colorModel, _ := r.ReadU32()
	width, _ := r.ReadU32()
	height, _ := r.ReadU32()
	bpp, _ := r.ReadU32()
	paletteCount, _ := r.ReadU32()
	palette := make([]uint32, 0, paletteCount)
	for i := 0; i < int(paletteCount); i++ {
		v, err := r.ReadU32()
		if err != nil {
			break
		}
		palette = append(palette, v)
	}
	bitmap := r.Bytes()[r.Tell():]
	d.collector.CollectBmp(imageID, colorModel, width, height, bpp, palette, bitmap)
}

func (d *Decoder) readBmpf(r *stream.Reader) {
	patternID, err := r.ReadU32()
	if err != nil {
		return
	}
	width, _ := r.ReadU32()
	height, _ := r.ReadU32()
	pattern := r.Bytes()[r.Tell():]
	d.collector.CollectBmpf(patternID, width, height, pattern)
}

// readSpnd records the object id a following `vect`/`vpat` chunk's nested
// document, once parsed, gets filed under. No other collect.Collector hook
// consumes this id directly.
func (d *Decoder) readSpnd(r *stream.Reader) {
	id, err := r.ReadU32()
	if err != nil {
		return
	}
	d.lastSpnd = id
}

// readVect recursively parses an embedded CMX sub-document (a vector
// pattern's fill content) with an internal/svggen.Generator attached as its
// content-pass sink, then records the serialized result under the most
// recently seen `spnd` id. A nested document gets its own fresh ParserState
// and its own styles-then-content pass, exactly like the outer document.
func (d *Decoder) readVect(r *stream.Reader) {
	body := r.Bytes()[r.Tell():]
	body = unwrapZip(body)

	nested := state.New()
	nestedDecoder, err := cmx.New(body, styles.NewCollector(nested))
	if err != nil {
		return
	}
	if err := nestedDecoder.Parse(); err != nil {
		return
	}

	gen := svggen.New()
	contentPass := content.NewCollector(nested, gen)
	nestedContentDecoder, err := cmx.New(body, contentPass)
	if err != nil {
		return
	}
	if err := nestedContentDecoder.Parse(); err != nil {
		return
	}
	contentPass.Finish()

	d.collector.CollectVectorPattern(d.lastSpnd, gen.Bytes())
}

// readLoda walks the per-object `loda` header as opaque and otherwise
// skips it: geometry the document encodes here arrives instead through the
// dedicated ppdt/trfd/fild/outl records this decoder already handles.
func (d *Decoder) readLoda(r *stream.Reader) {}

// readMcfg decodes the document-configuration record's default page size,
// which seeds the page a later `page` record opens. The document's ICC
// assignment arrives through the dedicated `iccd` record instead.
func (d *Decoder) readMcfg(r *stream.Reader) {
	width, err := d.coordinate(r)
	if err != nil {
		return
	}
	height, err := d.coordinate(r)
	if err != nil {
		return
	}
	if width <= 0 || height <= 0 {
		return
	}
	d.collector.CollectPageSize(width, height, -width/2.0, -height/2.0)
}

// readDisp rewraps the `DISP` preview raster — four bytes of clipboard-format
// tag, then a bare DIB (BITMAPINFOHEADER, optional palette, pixel rows) — as
// a complete BMP file by prepending the 14-byte file header the DIB lacks,
// with the pixel-data offset computed from the DIB's own header size, bit
// depth and palette-entry count.
func (d *Decoder) readDisp(r *stream.Reader) {
	if _, err := r.ReadU32(); err != nil { // clipboard-format tag
		return
	}
	dib := r.Bytes()[r.Tell():]
	if len(dib) < 40 {
		return
	}
	headerSize := binary.LittleEndian.Uint32(dib[0:4])
	bitCount := binary.LittleEndian.Uint16(dib[14:16])
	clrUsed := binary.LittleEndian.Uint32(dib[32:36])

	paletteEntries := clrUsed
	if paletteEntries == 0 && bitCount <= 8 {
		paletteEntries = 1 << bitCount
	}
	dataOffset := 14 + headerSize + paletteEntries*4

	bmp := make([]byte, 0, 14+len(dib))
	bmp = append(bmp, 'B', 'M')
	bmp = binary.LittleEndian.AppendUint32(bmp, uint32(14+len(dib)))
	bmp = binary.LittleEndian.AppendUint32(bmp, 0)
	bmp = binary.LittleEndian.AppendUint32(bmp, dataOffset)
	bmp = append(bmp, dib...)
	d.collector.CollectPreviewBitmap(bmp)
}

// readRclr decodes one palette entry: the id later fills reference, then the
// same (model, reference, value) color triple every other color-bearing
// record carries.
func (d *Decoder) readRclr(r *stream.Reader) {
	colorID, err := r.ReadU32()
	if err != nil {
		return
	}
	col, err := d.readColor(r)
	if err != nil {
		return
	}
	d.collector.CollectPaletteEntry(colorID, col)
}

// readFont decodes one font-table entry: the id style records reference,
// the encoding its 8-bit runs decode through, and the face name as
// NUL-terminated UTF-16LE filling the rest of the chunk.
func (d *Decoder) readFont(r *stream.Reader) {
	fontID, err := r.ReadU16()
	if err != nil {
		return
	}
	encoding, err := r.ReadU16()
	if err != nil {
		return
	}
	raw := r.Bytes()[r.Tell():]
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		u := binary.LittleEndian.Uint16(raw[i : i+2])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	name := string(utf16.Decode(units))
	d.fonts[fontID] = name
	d.collector.CollectFont(fontID, encoding, name)
}

// readStyleEntry decodes one character/paragraph style record (`stlt`/`styd`)
// into a CharStyle: id, parentId, charset, a font-table reference resolved
// through the `font` records already seen, size, alignment, the three
// indents, and fill/outline references resolved through earlier `fild`/`outl`
// definitions. A charset of 0xFFFF keeps the CharSetUnset sentinel, and
// unresolved font/fill/outline references leave those fields at their
// NewCharStyle values; size, alignment and indents are stored as read, and
// Override's own tests decide whether those count as supplied.
func (d *Decoder) readStyleEntry(r *stream.Reader) {
	id, err := r.ReadU32()
	if err != nil {
		return
	}
	parentID, err := r.ReadU32()
	if err != nil {
		return
	}
	cs := state.NewCharStyle()
	cs.ID = id
	cs.ParentID = parentID

	charSet, err := r.ReadU16()
	if err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	if charSet != 0xFFFF {
		cs.CharSet = int32(charSet)
	}
	fontID, err := r.ReadU16()
	if err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	if name, ok := d.fonts[fontID]; ok {
		cs.FontName = name
	}
	if cs.FontSize, err = d.coordinate(r); err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	align, err := r.ReadU16()
	if err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	cs.Align = int(align)
	if cs.LeftIndent, err = d.coordinate(r); err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	if cs.FirstIndent, err = d.coordinate(r); err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	if cs.RightIndent, err = d.coordinate(r); err != nil {
		d.collector.CollectStld(id, cs)
		return
	}

	fillID, err := r.ReadU32()
	if err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	if fs, ok := d.fillStyles[fillID]; ok {
		cs.FillStyle = fs
	}
	outlID, err := r.ReadU32()
	if err != nil {
		d.collector.CollectStld(id, cs)
		return
	}
	if ls, ok := d.lineStyles[outlID]; ok {
		cs.LineStyle = ls
	}
	d.collector.CollectStld(id, cs)
}

// readTxsm decodes one text block (`txsm`/`txtj`) into the (data,
// charDescriptions) pair CollectText walks in lockstep: the text id, the
// base style id, a character count, that many per-character description
// bytes, then the raw code units filling the rest of the chunk.
func (d *Decoder) readTxsm(r *stream.Reader) {
	textID, err := r.ReadU32()
	if err != nil {
		return
	}
	styleID, err := r.ReadU32()
	if err != nil {
		return
	}
	count, err := r.ReadU32()
	if err != nil {
		return
	}
	charDescriptions, err := r.ReadBytes(int(count))
	if err != nil {
		return
	}
	data := r.Bytes()[r.Tell():]
	d.collector.CollectText(textID, styleID, data, charDescriptions, nil)
	d.collector.CollectTextRef(textID)
}

// readTrfl decodes a transform list: a matrix count, then that many of the
// same six-double body a standalone `trfd` carries, each pushed in document
// order onto the current transform stack.
func (d *Decoder) readTrfl(r *stream.Reader) {
	count, err := r.ReadU16()
	if err != nil {
		return
	}
	for i := 0; i < int(count); i++ {
		var m [6]float64
		ok := true
		for j := range m {
			v, err := r.ReadDouble()
			if err != nil {
				ok = false
				break
			}
			m[j] = v
		}
		if !ok {
			return
		}
		d.collector.CollectTransform(transform.New(m[0], m[1], m[2], m[3], m[4], m[5]))
	}
}

// readBmpt records an embedded raster that already is a complete image file
// (BMP/JPEG/PNG as authored), stored as-is under its id rather than
// resynthesized the way a raw `bmp ` pixel array is.
func (d *Decoder) readBmpt(r *stream.Reader) {
	imageID, err := r.ReadU32()
	if err != nil {
		return
	}
	d.collector.CollectBmpRaw(imageID, r.Bytes()[r.Tell():])
}

// unwrapZip returns body unchanged unless it carries a ZIP local-file-header
// signature, in which case it opens the archive and returns the first entry
// ending in ".cmx" (case-insensitive), falling back to the first entry at
// all. A handful of vect/vpat payloads this module has seen are ZIP-wrapped
// rather than raw RIFF, the same zipped alternative container top-level
// documents can use.
func unwrapZip(body []byte) []byte {
	if len(body) < 4 || body[0] != 'P' || body[1] != 'K' || body[2] != 0x03 || body[3] != 0x04 {
		return body
	}
	z, err := stream.OpenZip(body)
	if err != nil {
		return body
	}
	names := z.Names()
	var pick string
	for _, n := range names {
		if len(n) >= 4 && strings.EqualFold(n[len(n)-4:], ".cmx") {
			pick = n
			break
		}
	}
	if pick == "" && len(names) > 0 {
		pick = names[0]
	}
	if pick == "" {
		return body
	}
	entry, err := z.Open(pick)
	if err != nil {
		return body
	}
	return entry
}
