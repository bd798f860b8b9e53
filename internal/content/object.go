package content

import (
	"github.com/MeKo-Christian/cdrimport/internal/paint"
)

// transformPoint runs (x, y) through the object transform stack, then the
// enclosing group-transform stack, then the page-to-sink transform — the
// same three-step composition flushObject applies to path control points,
// exposed separately for image corners and text box corners, which aren't
// path elements.
func (c *Collector) transformPoint(x, y float64) (float64, float64) {
	c.objTransform.ApplyToPoint(&x, &y)
	c.groupTransforms.ApplyToPoint(&x, &y)
	pt := pageTransform(c.currentPage())
	pt.ApplyToPoint(&x, &y)
	return x, y
}

// flushObject resolves the accumulated object scratch — pending polygon
// and spline lowering, fill/line projection, the transform chain, path
// canonicalization, attached image and text — into this object's events in
// their correct sink-facing order, and hands them to pushUnit, which folds
// them into the enclosing page or group frame.
func (c *Collector) flushObject() {
	if c.polygon != nil {
		c.polygon.Create(&c.path)
	}

	appendPendingSpline(&c.path, c.spline)

	if c.path.Empty() && !c.hasImage && !c.hasText {
		return
	}

	fillProps, stops := projectFill(c.fillStyle, c.State)
	lineProps := projectLine(c.lineStyle, &c.objTransform, c.State)
	for k, v := range lineProps {
		fillProps[k] = v
	}

	var evs []paint.Event

	if !c.path.Empty() {
		c.path.TransformStack(&c.objTransform)
		c.path.TransformStack(&c.groupTransforms)
		c.path.Transform(pageTransform(c.currentPage()))
		evs = append(evs, paint.SetStyle(fillProps, stops))
		evs = append(evs, paint.Path(c.path.Flush()))
	}

	if c.hasImage && c.image != nil {
		evs = append(evs, c.graphicObjectEvent(*c.image))
	}

	if c.hasText {
		evs = append(evs, c.textEvents()...)
	}

	if len(evs) == 0 {
		return
	}
	c.pushUnit(evs)
}
