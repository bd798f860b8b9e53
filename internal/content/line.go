package content

import (
	"math"

	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

// projectLine projects a resolved outline style onto stroke properties:
// kind&0x1 suppresses the stroke entirely; otherwise the line width is
// scaled by the style's own stretch factor and, when kind&0x20 is set,
// further scaled by the object transform's magnitude so a scaled object's
// outline scales with it.
func projectLine(ls state.LineStyle, objTransform *transform.Stack, st *state.ParserState) paint.Props {
	if ls.Kind&0x1 != 0 {
		return paint.Props{"draw:stroke": "none"}
	}

	width := ls.Width * ls.Stretch
	if ls.Kind&0x20 != 0 {
		scale := math.Max(objTransform.ScaleX(), objTransform.ScaleY())
		width *= scale
	}

	props := paint.Props{
		"draw:stroke":         "solid",
		"svg:stroke-color":    hexColor(color.Decode(ls.Color, st.Profiles)),
		"svg:stroke-width":    formatNumber(width),
		"draw:line-cap":       capName(ls.Caps),
		"svg:stroke-linejoin": joinName(ls.Join),
	}

	if dash := projectDash(ls.DashArray, width); dash != nil {
		for k, v := range dash {
			props[k] = v
		}
	}

	return props
}

func capName(c basics.LineCap) string {
	switch c {
	case basics.RoundCap:
		return "round"
	case basics.SquareCap:
		return "square"
	default:
		return "butt"
	}
}

func joinName(j basics.LineJoin) string {
	switch j {
	case basics.RoundJoin:
		return "round"
	case basics.BevelJoin:
		return "bevel"
	default:
		return "miter"
	}
}

// projectDash splits a dash array into two dot runs sharing a common gap,
// each length expressed in multiples of the scaled line width. The last
// entry is the shared gap; the entries before it are split in half, the
// first half (one longer on an odd count) forming run 1 and the rest run 2.
func projectDash(dash []uint32, lineWidth float64) paint.Props {
	if len(dash) == 0 || lineWidth <= 0 {
		return nil
	}

	gap := dash[len(dash)-1]
	body := dash[:len(dash)-1]

	half := (len(body) + 1) / 2
	run1 := body[:half]
	run2 := body[half:]

	sum := func(vs []uint32) float64 {
		var total float64
		for _, v := range vs {
			total += float64(v)
		}
		return total
	}

	props := paint.Props{
		"draw:stroke-dash-dots1":        formatNumber(float64(len(run1))),
		"draw:stroke-dash-dots1-length": formatNumber(sum(run1) * lineWidth),
		"draw:stroke-dash-distance":     formatNumber(float64(gap) * lineWidth),
	}
	if len(run2) > 0 {
		props["draw:stroke-dash-dots2"] = formatNumber(float64(len(run2)))
		props["draw:stroke-dash-dots2-length"] = formatNumber(sum(run2) * lineWidth)
	}
	return props
}
