package cdrimport

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/path"
)

type recordingSink struct {
	calls []string
}

func (r *recordingSink) SetStyle(paint.Props, []paint.Stop) { r.calls = append(r.calls, "SetStyle") }
func (r *recordingSink) Path([]path.Node)                   { r.calls = append(r.calls, "Path") }
func (r *recordingSink) GraphicObject(paint.Props, []byte)  { r.calls = append(r.calls, "GraphicObject") }
func (r *recordingSink) StartTextObject(paint.Props)        { r.calls = append(r.calls, "StartTextObject") }
func (r *recordingSink) StartTextLine(paint.Props)          { r.calls = append(r.calls, "StartTextLine") }
func (r *recordingSink) StartTextSpan(paint.Props)          { r.calls = append(r.calls, "StartTextSpan") }
func (r *recordingSink) InsertText(s string)                { r.calls = append(r.calls, "InsertText:"+s) }
func (r *recordingSink) EndTextSpan()                        { r.calls = append(r.calls, "EndTextSpan") }
func (r *recordingSink) EndTextLine()                         { r.calls = append(r.calls, "EndTextLine") }
func (r *recordingSink) EndTextObject()                       { r.calls = append(r.calls, "EndTextObject") }
func (r *recordingSink) StartGroup(paint.Props)                { r.calls = append(r.calls, "StartGroup") }
func (r *recordingSink) EndGroup()                             { r.calls = append(r.calls, "EndGroup") }
func (r *recordingSink) StartGraphics(paint.Props)             { r.calls = append(r.calls, "StartGraphics") }
func (r *recordingSink) EndGraphics()                          { r.calls = append(r.calls, "EndGraphics") }

func minimalCDRDocument() []byte {
	var vrsnBody bytes.Buffer
	binary.Write(&vrsnBody, binary.LittleEndian, uint16(1302))
	var vrsn bytes.Buffer
	vrsn.WriteString("vrsn")
	binary.Write(&vrsn, binary.LittleEndian, uint32(vrsnBody.Len()))
	vrsn.Write(vrsnBody.Bytes())

	var inner bytes.Buffer
	inner.WriteString("CDRX")
	inner.Write(vrsn.Bytes())

	var doc bytes.Buffer
	doc.WriteString("RIFF")
	binary.Write(&doc, binary.LittleEndian, uint32(inner.Len()))
	doc.Write(inner.Bytes())
	return doc.Bytes()
}

// minimalRectangleCMXDocument builds a 32-bit-precision CMX document whose
// single page opens with a BeginPage instruction sized to exactly bound the
// rectangle (bbox (0,0)-(width,height)) and carries one Rectangle
// instruction, used to drive Parse end-to-end through both passes.
func minimalRectangleCMXDocument(cx, cy, width, height float64) []byte {
	coord := func(v float64) int32 { return int32(math.Round(v * 254000.0)) }

	var beginPageBody bytes.Buffer
	beginPageBody.Write(make([]byte, 2)) // reserved
	binary.Write(&beginPageBody, binary.LittleEndian, uint32(0)) // flags
	binary.Write(&beginPageBody, binary.LittleEndian, coord(0))
	binary.Write(&beginPageBody, binary.LittleEndian, coord(0))
	binary.Write(&beginPageBody, binary.LittleEndian, coord(width))
	binary.Write(&beginPageBody, binary.LittleEndian, coord(height))

	var beginPageTagLoop bytes.Buffer
	beginPageTagLoop.WriteByte(1) // CMX_Tag_BeginPage_PageSpecification
	binary.Write(&beginPageTagLoop, binary.LittleEndian, uint16(beginPageBody.Len()))
	beginPageTagLoop.Write(beginPageBody.Bytes())
	beginPageTagLoop.WriteByte(255)

	var beginPageInstruction bytes.Buffer
	binary.Write(&beginPageInstruction, binary.LittleEndian, int16(2+2+beginPageTagLoop.Len()))
	binary.Write(&beginPageInstruction, binary.LittleEndian, int16(9)) // cmdBeginPage
	beginPageInstruction.Write(beginPageTagLoop.Bytes())

	var tagBody bytes.Buffer
	binary.Write(&tagBody, binary.LittleEndian, coord(cx))
	binary.Write(&tagBody, binary.LittleEndian, coord(cy))
	binary.Write(&tagBody, binary.LittleEndian, coord(width))
	binary.Write(&tagBody, binary.LittleEndian, coord(height))
	binary.Write(&tagBody, binary.LittleEndian, int32(0)) // radius
	binary.Write(&tagBody, binary.LittleEndian, int32(0)) // angle

	var tagLoop bytes.Buffer
	tagLoop.WriteByte(2)
	binary.Write(&tagLoop, binary.LittleEndian, uint16(tagBody.Len()))
	tagLoop.Write(tagBody.Bytes())
	tagLoop.WriteByte(255)

	var instruction bytes.Buffer
	binary.Write(&instruction, binary.LittleEndian, int16(2+2+tagLoop.Len()))
	binary.Write(&instruction, binary.LittleEndian, int16(68)) // cmdRectangle
	instruction.Write(tagLoop.Bytes())

	var page bytes.Buffer
	page.WriteString("page")
	binary.Write(&page, binary.LittleEndian, uint32(beginPageInstruction.Len()+instruction.Len()))
	page.Write(beginPageInstruction.Bytes())
	page.Write(instruction.Bytes())

	var doc bytes.Buffer
	doc.WriteString("RIFF")
	binary.Write(&doc, binary.LittleEndian, uint32(0))
	doc.WriteString("CMX3")
	doc.WriteString("cont")
	binary.Write(&doc, binary.LittleEndian, uint32(0))
	doc.Write(make([]byte, 32)) // file ID
	doc.Write(make([]byte, 16)) // platform
	doc.WriteString("2   ")     // byte order tag
	doc.WriteString("4 ")       // coordinate size: 32-bit
	doc.Write(make([]byte, 4))  // version major
	doc.Write(make([]byte, 4))  // version minor
	binary.Write(&doc, binary.LittleEndian, uint16(0))
	binary.Write(&doc, binary.LittleEndian, math.Float64bits(1.0))
	doc.Write(make([]byte, 12)) // reserved
	binary.Write(&doc, binary.LittleEndian, uint32(0))
	binary.Write(&doc, binary.LittleEndian, uint32(0))
	binary.Write(&doc, binary.LittleEndian, uint32(0))
	for _, v := range [4]int32{0, 0, 2000, 2000} {
		binary.Write(&doc, binary.LittleEndian, v)
	}
	doc.Write(page.Bytes())
	return doc.Bytes()
}

func TestIsSupportedNilReader(t *testing.T) {
	if IsSupported(nil) {
		t.Fatalf("IsSupported(nil) = true, want false")
	}
}

func TestIsSupportedDetectsCMX(t *testing.T) {
	data := minimalRectangleCMXDocument(1, 1, 2, 2)
	if !IsSupported(bytes.NewReader(data)) {
		t.Fatalf("IsSupported = false, want true for a minimal CMX document")
	}
}

func TestIsSupportedDetectsCDR(t *testing.T) {
	data := minimalCDRDocument()
	if !IsSupported(bytes.NewReader(data)) {
		t.Fatalf("IsSupported = false, want true for a minimal CDR document")
	}
}

func TestIsSupportedRejectsUnrelatedRIFF(t *testing.T) {
	var doc bytes.Buffer
	doc.WriteString("RIFF")
	binary.Write(&doc, binary.LittleEndian, uint32(4))
	doc.WriteString("WAVE")
	if IsSupported(bytes.NewReader(doc.Bytes())) {
		t.Fatalf("IsSupported = true for a non-CDR/CMX RIFF container")
	}
}

func TestIsSupportedRejectsTooShortInput(t *testing.T) {
	if IsSupported(bytes.NewReader([]byte("RIFF"))) {
		t.Fatalf("IsSupported = true for an 4-byte input shorter than the sniff window")
	}
}

func TestParseNilReaderReturnsError(t *testing.T) {
	_, err := Parse(nil, &recordingSink{}, Options{})
	if err != ErrNilReader {
		t.Fatalf("err = %v, want ErrNilReader", err)
	}
}

func TestParseNilSinkReturnsError(t *testing.T) {
	_, err := Parse(bytes.NewReader(minimalCDRDocument()), nil, Options{})
	if err != ErrNilSink {
		t.Fatalf("err = %v, want ErrNilSink", err)
	}
}

func TestParseUnsupportedFormatReturnsFalseNoError(t *testing.T) {
	ok, err := Parse(bytes.NewReader([]byte("not a document")), &recordingSink{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("Parse = true, want false for an unrecognized format")
	}
}

func TestParseEmitsRectangleContentForCMXDocument(t *testing.T) {
	data := minimalRectangleCMXDocument(1, 1, 2, 2)
	sink := &recordingSink{}
	ok, err := Parse(bytes.NewReader(data), sink, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("Parse = false, want true: content was emitted")
	}

	want := []string{"StartGraphics", "SetStyle", "Path", "EndGraphics"}
	if len(sink.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", sink.calls, want)
	}
	for i := range want {
		if sink.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", sink.calls, want)
		}
	}
}

func TestParseReturnsTrueForWellFormedDocumentWithNoGeometry(t *testing.T) {
	// A document with only a version record and no page/geometry: the
	// decoder walks the (empty) container successfully and never calls into
	// the sink. A well-formed-but-empty container
	// still reports true — the boolean tracks whether the container parsed,
	// not whether it happened to contain anything.
	data := minimalCDRDocument()
	sink := &recordingSink{}
	ok, err := Parse(bytes.NewReader(data), sink, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("Parse = false, want true: the container itself parsed fine")
	}
	if len(sink.calls) != 0 {
		t.Fatalf("expected no sink calls, got %v", sink.calls)
	}
}

func TestParseEmptySupportedCDRYieldsNoEvents(t *testing.T) {
	// The smallest supported document: a 12-byte RIFF envelope whose
	// declared length exactly covers "CDRA" and nothing else.
	data := []byte("RIFF\x04\x00\x00\x00CDRA")
	if !IsSupported(bytes.NewReader(data)) {
		t.Fatalf("IsSupported = false, want true")
	}
	sink := &recordingSink{}
	ok, err := Parse(bytes.NewReader(data), sink, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("Parse = false, want true for an empty well-formed envelope")
	}
	if len(sink.calls) != 0 {
		t.Fatalf("expected zero events, got %v", sink.calls)
	}
}
