package curves

import (
	"math"

	"github.com/MeKo-Christian/cdrimport/internal/path"
	"github.com/MeKo-Christian/cdrimport/internal/transform"
)

// Polygon is a rosette generator: given a single recorded base path (one
// "petal"), it replicates and rotates that base path around the origin to
// build a star or regular polygon, then maps the composite through an
// ellipse transform. Port of CDRPolygon::create.
type Polygon struct {
	NumAngles, NextPoint uint
	Rx, Ry, Cx, Cy       float64
}

// Create rewrites p in place: p is taken as the single recorded base path
// ("petal"), and is replaced by the full rosette.
//
// When numAngles is not a multiple of nextPoint, the base path is rotated by
// nextPoint*2*pi/numAngles and appended numAngles-1 times, producing a
// single traversal that visits every vertex in star order (a pentagram is
// numAngles=5, nextPoint=2). When numAngles divides evenly by nextPoint, the
// rosette is built as nextPoint separate closed star-leg groups instead.
func (g Polygon) Create(p *path.Path) {
	if g.NumAngles == 0 || g.NextPoint == 0 {
		return
	}
	base := p.Clone()
	step := 2 * math.Pi / float64(g.NumAngles)

	rot := func(theta float64) transform.Affine {
		return transform.New(math.Cos(theta), math.Sin(theta), 0, -math.Sin(theta), math.Cos(theta), 0)
	}

	if g.NumAngles%g.NextPoint != 0 {
		tmp := base.Clone()
		step := rot(float64(g.NextPoint) * step)
		for i := uint(1); i < g.NumAngles; i++ {
			tmp.Transform(step)
			p.Append(tmp)
		}
	} else {
		tmp := base.Clone()
		stepTrafo := rot(float64(g.NextPoint) * step)
		shiftTrafo := rot(step)
		legs := g.NumAngles / g.NextPoint
		for i := uint(0); i < g.NextPoint; i++ {
			if i != 0 {
				tmp.Transform(shiftTrafo)
				p.Append(tmp)
			}
			for j := uint(1); j < legs; j++ {
				tmp.Transform(stepTrafo)
				p.Append(tmp)
			}
			p.ClosePath()
		}
	}
	p.ClosePath()

	ellipse := transform.New(g.Rx, 0, g.Cx, 0, g.Ry, g.Cy)
	p.Transform(ellipse)
}
