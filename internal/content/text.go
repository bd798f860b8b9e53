package content

import (
	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/state"
)

// textBoxAlignOffset estimates the horizontal shift a missing text box falls
// back to, keyed by CharStyle.Align (0=left, 1=center, 2=right): a
// center/right-aligned run with no recorded box is assumed to have been
// typed growing from its anchor point in the corresponding direction.
func textBoxAlignOffset(align int, width float64) float64 {
	switch align {
	case 1: // center
		return -width / 2.0
	case 2: // right
		return -width
	default:
		return 0
	}
}

// textEvents resolves the text box, brackets it with
// StartTextObject/EndTextObject, and emits one
// StartTextLine/StartTextSpan/InsertText/EndTextSpan/EndTextLine run per
// line and run the styles pass already resolved into State.Texts[textID].
func (c *Collector) textEvents() []paint.Event {
	lines := c.State.Texts[c.textID]
	if len(lines) == 0 {
		return nil
	}

	x1, y1, x2, y2 := c.bbox[0], c.bbox[1], c.bbox[2], c.bbox[3]
	if !c.hasBBox {
		align := 0
		if len(lines) > 0 && len(lines[0].Runs) > 0 {
			align = lines[0].Runs[0].Style.Align
		}
		offset := textBoxAlignOffset(align, 0)
		x1, y1, x2, y2 = offset, 0, offset, 0
	}

	tlX, tlY := c.transformPoint(x1, y1)
	brX, brY := c.transformPoint(x2, y2)

	boxProps := paint.Props{
		"svg:x":      formatNumber(minF(tlX, brX)),
		"svg:y":      formatNumber(minF(tlY, brY)),
		"svg:width":  formatNumber(absF(brX - tlX)),
		"svg:height": formatNumber(absF(brY - tlY)),
	}

	events := make([]paint.Event, 0, 2+4*len(lines))
	events = append(events, paint.StartTextObject(boxProps))

	for _, line := range lines {
		events = append(events, paint.StartTextLine(nil))
		for _, run := range line.Runs {
			events = append(events, paint.StartTextSpan(textSpanProps(run, c.State)))
			events = append(events, paint.InsertText(run.String))
			events = append(events, paint.EndTextSpan())
		}
		events = append(events, paint.EndTextLine())
	}

	events = append(events, paint.EndTextObject())
	return events
}

func textSpanProps(run state.TextRun, st *state.ParserState) paint.Props {
	props := paint.Props{
		"style:font-name": run.Style.FontName,
		"fo:font-size":    formatNumber(run.Style.FontSize),
	}
	if run.Style.FillStyle.Kind == 1 { // solid
		props["fo:color"] = hexColor(color.Decode(run.Style.FillStyle.Color1, st.Profiles))
	}
	return props
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
