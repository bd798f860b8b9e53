// Package cdrimport is the public entry point to the import pipeline: an
// input-detection predicate and a two-pass parse that drives a caller's
// paint.Sink. It follows the shape of libcdr's
// CDRDocument::isSupported/parse pair: detect by sniffing
// a RIFF/RIFX envelope and the "CDR"/"CMX" tag at offset 8, transparently
// unwrap an OLE-compound PerfectOffice_MAIN substream first, then run the
// styles-collector pass followed by the content-collector pass over the
// same bytes.
package cdrimport

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/MeKo-Christian/cdrimport/internal/cdr"
	"github.com/MeKo-Christian/cdrimport/internal/cmx"
	"github.com/MeKo-Christian/cdrimport/internal/collect"
	"github.com/MeKo-Christian/cdrimport/internal/content"
	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/stream"
	"github.com/MeKo-Christian/cdrimport/internal/styles"
)

// Sink is the paint-event contract an external collaborator (e.g. an SVG
// text serializer) implements to receive this module's output.
type Sink = paint.Sink

// Options is the single parse-time configuration surface: the core parser
// itself imposes no cap on embedded-bitmap size, but a caller that needs
// one can set MaxBitmapBytes and have oversized `bmp `/`bmpf` payloads
// silently dropped rather than retained.
type Options struct {
	// MaxBitmapBytes, when positive, bounds how large a single embedded
	// raster this module will retain. Zero means unbounded.
	MaxBitmapBytes int
}

// ErrNilSink is returned by Parse when sink is nil.
var ErrNilSink = errors.New("cdrimport: nil sink")

// ErrNilReader is returned by IsSupported/Parse when r is nil.
var ErrNilReader = errors.New("cdrimport: nil reader")

const oleSubstreamName = "PerfectOffice_MAIN"

// readAll reads the entirety of r into memory; every decoder in this module
// works against an in-memory stream.Reader rather than a streaming
// io.Reader, matching the source's own fully-buffered
// WPXInputStream model.
func readAll(r io.ReaderAt) ([]byte, error) {
	const chunkSize = 1 << 20
	var buf bytes.Buffer
	var offset int64
	tmp := make([]byte, chunkSize)
	for {
		n, err := r.ReadAt(tmp, offset)
		if n > 0 {
			buf.Write(tmp[:n])
			offset += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return buf.Bytes(), nil
}

// unwrap returns the effective document bytes: data itself, or the
// PerfectOffice_MAIN substream if data is an OLE compound file that
// contains one.
func unwrap(data []byte) []byte {
	if inner, err := stream.OpenOLEStream(data, oleSubstreamName); err == nil {
		return inner
	}
	return data
}

// sniff reports the document kind ("CDR", "CMX", or "") the envelope at the
// front of data declares.
func sniff(data []byte) string {
	if len(data) < 12 {
		return ""
	}
	magic := string(data[0:4])
	if magic != "RIFF" && magic != "RIFX" {
		return ""
	}
	tag := strings.ToUpper(string(data[8:11]))
	if tag == "CDR" || tag == "CMX" {
		return tag
	}
	return ""
}

// IsSupported reports whether r's contents look like a document this module
// can parse: a RIFF/RIFX envelope (optionally inside an OLE-compound
// wrapper) whose offset-8 tag reads "CDR" or "CMX".
func IsSupported(r io.ReaderAt) bool {
	if r == nil {
		return false
	}
	data, err := readAll(r)
	if err != nil {
		return false
	}
	return sniff(unwrap(data)) != ""
}

// Parse runs the two-pass CDR/CMX import pipeline over r, emitting paint
// events to sink. The returned bool reports whether the container was
// recognized and walked to completion: only a failure in the top-level
// header, or exhaustion before the first chunk, reports false. It does NOT
// track whether any paint event happened to be emitted along the way — an
// empty-but-well-formed CDR container (a `RIFF` envelope whose declared
// length already accounts for every byte present, with no chunk ever
// opening) has zero events and still reports true, since the top-level
// header parsed fine and there is nothing to call exhaustion over. The
// error return is
// reserved for programming-error-class failures (nil sink/reader) a boolean
// return can't express.
func Parse(r io.ReaderAt, sink Sink, opts Options) (bool, error) {
	if r == nil {
		return false, ErrNilReader
	}
	if sink == nil {
		return false, ErrNilSink
	}

	data, err := readAll(r)
	if err != nil {
		return false, nil
	}
	data = unwrap(data)

	kind := sniff(data)
	if kind == "" {
		return false, nil
	}

	st := state.New()
	runPass(kind, data, boundBitmaps(styles.NewCollector(st), opts.MaxBitmapBytes))

	contentPass := content.NewCollector(st, sink)
	ok := runPass(kind, data, contentPass)
	contentPass.Finish()

	return ok, nil
}

// boundedBitmapCollector drops oversized embedded-raster payloads before
// they reach the wrapped collector, implementing Options.MaxBitmapBytes
// at the one place rasters enter ParserState.
type boundedBitmapCollector struct {
	collect.Collector
	max int
}

func boundBitmaps(c collect.Collector, max int) collect.Collector {
	if max <= 0 {
		return c
	}
	return &boundedBitmapCollector{Collector: c, max: max}
}

func (b *boundedBitmapCollector) CollectBmp(imageID, colorModel, width, height, bpp uint32, palette []uint32, bitmap []byte) {
	if len(bitmap) > b.max {
		return
	}
	b.Collector.CollectBmp(imageID, colorModel, width, height, bpp, palette, bitmap)
}

func (b *boundedBitmapCollector) CollectBmpRaw(imageID uint32, bitmap []byte) {
	if len(bitmap) > b.max {
		return
	}
	b.Collector.CollectBmpRaw(imageID, bitmap)
}

func (b *boundedBitmapCollector) CollectBmpf(patternID, width, height uint32, pattern []byte) {
	if len(pattern) > b.max {
		return
	}
	b.Collector.CollectBmpf(patternID, width, height, pattern)
}

// runPass drives one collect.Collector over data through the decoder
// matching kind, swallowing decode errors the same way the chunk walker
// already does at the record level (truncation and signature mismatch are
// local recovery, not a hard parser failure). It reports false
// only for a top-level-header failure (a CMX "cont" header this module
// can't make sense of) — never merely because the walk produced no
// records, since an empty-but-well-formed container is a successful parse
// with nothing in it, not a failure.
func runPass(kind string, data []byte, c collect.Collector) bool {
	switch kind {
	case "CDR":
		_ = cdr.New(data, c).Parse()
		return true
	case "CMX":
		d, err := cmx.New(data, c)
		if err != nil {
			return false
		}
		_ = d.Parse()
		return true
	}
	return false
}
