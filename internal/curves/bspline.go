// Package curves implements the two geometry generators the document
// formats call for beyond plain path segments: B-spline-to-Bézier
// decomposition and the polygon/rosette generator. Both operate on an
// internal/path.Path rather than owning their own output buffer, mirroring
// libcdr's CDRSplineData::create(CDRPath&) and CDRPolygon::create(CDRPath&).
package curves

import "github.com/MeKo-Christian/cdrimport/internal/path"

const splineDegree = 3

// knot implements the implicit uniform cubic B-spline knot vector:
// knot(i) = max(0, min(i-3, n-3)).
func knot(i, n int) int {
	if i < splineDegree {
		return 0
	}
	if i > n {
		return n - splineDegree
	}
	return i - splineDegree
}

// DecomposeBSpline lowers a uniform cubic B-spline control polygon to cubic
// Bézier segments and appends them to p, starting with a MoveTo to the first
// control point. This is the classical Piegl-Tiller "decompose curve"
// algorithm (The NURBS Book, 2nd ed.), run over knot insertions derived from
// the implicit knot vector above.
func DecomposeBSpline(points []path.Point, p *path.Path) {
	if len(points) == 0 {
		return
	}
	p.MoveTo(points[0].X, points[0].Y)

	n := len(points)
	m := n + splineDegree + 1
	a := splineDegree
	b := splineDegree + 1

	Qw := make([]path.Point, splineDegree+1)
	nextQw := make([]path.Point, splineDegree+1)
	for i := 0; i <= splineDegree && i < n; i++ {
		Qw[i] = points[i]
	}

	for b < m {
		i := b
		for b < m && knot(b+1, n) == knot(b, n) {
			b++
		}
		mult := b - i + 1
		if mult < splineDegree {
			numer := float64(knot(b, n) - knot(a, n))
			alphas := make(map[int]float64)
			for j := splineDegree; j > mult; j-- {
				denom := float64(knot(a+j, n) - knot(a, n))
				if denom != 0 {
					alphas[j-mult-1] = numer / denom
				}
			}
			r := splineDegree - mult
			for j := 1; j <= r; j++ {
				save := r - j
				s := mult + j
				for k := splineDegree; k >= s; k-- {
					alpha := alphas[k-s]
					Qw[k].X = alpha*Qw[k].X + (1.0-alpha)*Qw[k-1].X
					Qw[k].Y = alpha*Qw[k].Y + (1.0-alpha)*Qw[k-1].Y
				}
				if b < m {
					nextQw[save] = Qw[splineDegree]
				}
			}
		}

		p.CubicTo(Qw[1].X, Qw[1].Y, Qw[2].X, Qw[2].Y, Qw[3].X, Qw[3].Y)

		Qw, nextQw = nextQw, Qw

		if b < m {
			for i := splineDegree - mult; i <= splineDegree; i++ {
				idx := b - splineDegree + i
				if idx >= 0 && idx < n {
					Qw[i] = points[idx]
				}
			}
			a = b
			b++
		}
	}
}
