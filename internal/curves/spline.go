package curves

import "github.com/MeKo-Christian/cdrimport/internal/path"

// BuildSpline appends the path elements produced from raw ppdt control
// points plus their knot markers, grouping points between markers and
// dispatching each group by size: 2 points become a line, 3 become a
// quadratic, 4+ are lowered through DecomposeBSpline. This is a port of
// CDRSplineData::create.
//
// The source's 3-point branch reads tmpPoints[3].second, one past the end
// of a 3-element vector; this port deliberately reads tmpPoints[2] (the
// last real point) instead.
func BuildSpline(points []path.Point, knotMarkers []bool, p *path.Path) {
	if len(points) == 0 || len(knotMarkers) == 0 {
		return
	}
	p.MoveTo(points[0].X, points[0].Y)

	var group []path.Point
	group = append(group, points[0])

	flush := func() {
		switch len(group) {
		case 0, 1:
			// nothing to draw
		case 2:
			p.LineTo(group[1].X, group[1].Y)
		case 3:
			p.QuadraticTo(group[1].X, group[1].Y, group[2].X, group[2].Y)
		default:
			// DecomposeBSpline opens with a MoveTo to group[0], which is
			// already the current point here; keep only what follows it.
			var tmp path.Path
			DecomposeBSpline(group, &tmp)
			p.Elements = append(p.Elements, tmp.Elements[1:]...)
		}
	}

	n := len(points)
	if len(knotMarkers) < n {
		n = len(knotMarkers)
	}
	for i := 1; i < n; i++ {
		group = append(group, points[i])
		if knotMarkers[i] {
			flush()
			group = []path.Point{points[i]}
		}
	}
	if len(group) > 1 {
		flush()
	}
}
