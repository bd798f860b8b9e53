// Package svggen is the minimal internal SVG generator vector-pattern
// recursion needs: when a `vect`/`vpat` chunk embeds a complete nested CMX
// document, that document is parsed recursively with this generator
// attached as its sink, and the serialized result is stored in
// ParserState.Vectors keyed by the outer object's spnd id. It exists
// solely to give a nested vector fill a self-contained byte
// representation, not to be this module's primary rendering output — that
// is the caller-supplied paint.Sink's job.
package svggen

import (
	"fmt"
	"strings"

	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/path"
)

var _ paint.Sink = (*Generator)(nil)

// Generator accumulates <svg> markup from a stream of paint events.
type Generator struct {
	b            strings.Builder
	width, height string
	fill, stroke string
	opened       bool
}

// New returns an empty Generator.
func New() *Generator {
	return &Generator{}
}

func (g *Generator) StartGraphics(props paint.Props) {
	g.width, g.height = props["svg:width"], props["svg:height"]
	g.opened = true
}

func (g *Generator) EndGraphics() {}

func (g *Generator) SetStyle(props paint.Props, stops []paint.Stop) {
	g.fill = props["fill-color"]
	if g.fill == "" {
		g.fill = "none"
	}
	g.stroke = props["svg:stroke-color"]
}

func (g *Generator) Path(nodes []path.Node) {
	if len(nodes) == 0 {
		return
	}
	var d strings.Builder
	for _, n := range nodes {
		switch n.Action {
		case "M":
			fmt.Fprintf(&d, "M%g,%g ", n.X, n.Y)
		case "L":
			fmt.Fprintf(&d, "L%g,%g ", n.X, n.Y)
		case "C":
			fmt.Fprintf(&d, "C%g,%g %g,%g %g,%g ", n.X1, n.Y1, n.X2, n.Y2, n.X, n.Y)
		case "Q":
			fmt.Fprintf(&d, "Q%g,%g %g,%g ", n.X1, n.Y1, n.X, n.Y)
		case "A":
			large, sweep := 0, 0
			if n.LargeArc {
				large = 1
			}
			if n.Sweep {
				sweep = 1
			}
			fmt.Fprintf(&d, "A%g,%g %g %d,%d %g,%g ", n.Rx, n.Ry, n.RotateDeg, large, sweep, n.X, n.Y)
		case "Z":
			d.WriteString("Z ")
		}
	}
	stroke := g.stroke
	if stroke == "" {
		stroke = "none"
	}
	fmt.Fprintf(&g.b, "<path d=\"%s\" fill=\"%s\" stroke=\"%s\"/>", strings.TrimSpace(d.String()), g.fill, stroke)
}

func (g *Generator) GraphicObject(props paint.Props, data []byte) {}

func (g *Generator) StartTextObject(props paint.Props) {}
func (g *Generator) StartTextLine(props paint.Props)   {}
func (g *Generator) StartTextSpan(props paint.Props)   {}
func (g *Generator) InsertText(s string)               {}
func (g *Generator) EndTextSpan()                      {}
func (g *Generator) EndTextLine()                       {}
func (g *Generator) EndTextObject()                    {}
func (g *Generator) StartGroup(props paint.Props)      { g.b.WriteString("<g>") }
func (g *Generator) EndGroup()                          { g.b.WriteString("</g>") }

// Bytes returns the serialized document, wrapping any emitted content in an
// <svg> root sized to the last StartGraphics call.
func (g *Generator) Bytes() []byte {
	var out strings.Builder
	fmt.Fprintf(&out, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%s\" height=\"%s\">", g.width, g.height)
	out.WriteString(g.b.String())
	out.WriteString("</svg>")
	return []byte(out.String())
}
