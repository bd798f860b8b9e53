package collect

import "github.com/MeKo-Christian/cdrimport/internal/path"

// DecodePolyPoints replays one CMX PolyCurve point-and-flag run into c's
// move/line/cubic/close calls, ported from CMXParser::readPolyCurve's call
// into CommonParser::outputPath (libcdr/src/lib/CommonParser.cpp):
// bit 0x08 marks "close the subpath this point belongs to"; bits 0x40/0x80
// together select MoveTo (neither set), LineTo (0x40 alone), an accumulating
// control point (both set, 0xC0), or the on-curve point that consumes the two
// most recently accumulated controls as a cubic (0x80 alone; with fewer than
// two accumulated controls it becomes a LineTo). Bits 0x10/0x20 (smooth/symmetric
// continuity) are annotations with no geometric effect and are
// intentionally not inspected here.
//
// CDR's ppdt record carries point data too, but not in this format:
// CDRContentCollector::collectPpdt hands its points to CDRSplineData, a
// knot-vector grouping (see internal/curves.BuildSpline), not this flag
// byte. outputPath's only call site in the source is CMXParser, so this
// decoder is CMX-only despite the similar-looking "list of points" shape.
func DecodePolyPoints(c Collector, points []path.Point, types []byte) {
	var pending []path.Point
	for k := range points {
		if k >= len(types) {
			break
		}
		t := types[k]
		closed := t&0x08 != 0

		switch {
		case t&0xC0 == 0x00:
			pending = pending[:0]
			c.CollectMoveTo(points[k].X, points[k].Y)
		case t&0xC0 == 0x40:
			pending = pending[:0]
			c.CollectLineTo(points[k].X, points[k].Y)
			if closed {
				c.CollectClosePath()
			}
		case t&0xC0 == 0x80:
			if len(pending) >= 2 {
				c.CollectCubicBezier(pending[0].X, pending[0].Y, pending[1].X, pending[1].Y, points[k].X, points[k].Y)
			} else {
				c.CollectLineTo(points[k].X, points[k].Y)
			}
			if closed {
				c.CollectClosePath()
			}
			pending = pending[:0]
		default: // 0xC0: both bits set, accumulate a control point
			pending = append(pending, points[k])
		}
	}
}
