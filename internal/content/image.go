package content

import (
	"math"

	"github.com/MeKo-Christian/cdrimport/internal/basics"
	"github.com/MeKo-Christian/cdrimport/internal/paint"
	"github.com/MeKo-Christian/cdrimport/internal/state"
)

// graphicObjectEvent places an attached raster: the image's four corners
// are carried through the same object/group/page transform
// chain a path's control points go through, and the resulting quadrilateral
// is reduced to the (center, width, height, rotation, flipX, flipY) a
// GraphicObject event describes, since the sink addresses placed bitmaps by
// pose rather than by raw corner coordinates.
func (c *Collector) graphicObjectEvent(img state.Image) paint.Event {
	tlX, tlY := c.transformPoint(img.X1, img.Y1)
	trX, trY := c.transformPoint(img.X2, img.Y1)
	brX, brY := c.transformPoint(img.X2, img.Y2)
	blX, blY := c.transformPoint(img.X1, img.Y2)

	centerX := (tlX + trX + brX + blX) / 4.0
	centerY := (tlY + trY + brY + blY) / 4.0

	width := math.Hypot(trX-tlX, trY-tlY)
	height := math.Hypot(blX-tlX, blY-tlY)

	rotation := math.Atan2(trY-tlY, trX-tlX) * basics.Rad2Deg

	combined := c.objTransform.Clone()
	combined.AppendStack(c.groupTransforms)

	props := paint.Props{
		"svg:x":           formatNumber(centerX - width/2.0),
		"svg:y":           formatNumber(centerY - height/2.0),
		"svg:width":       formatNumber(width),
		"svg:height":      formatNumber(height),
		"libwpg:rotate":   formatNumber(rotation),
		"libwpg:flip-x":   boolString(combined.FlipX()),
		"libwpg:flip-y":   boolString(combined.FlipY()),
		"libwpg:mime-type": "image/bmp",
	}

	return paint.GraphicObject(props, append([]byte(nil), img.Data...))
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
