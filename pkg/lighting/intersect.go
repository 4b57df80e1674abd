package lighting

import (
	"math"

	"github.com/nmocellin/umbra/pkg/math3d"
)

// Epsilon is the tolerance of the intersection predicate: the margin
// excluding hits at the segment endpoints, the slack admitted on the
// barycentric inside test, and the parallelism cutoff on the cosine
// between segment and plane.
const Epsilon = 1e-9

// IntersectSegment reports whether the open segment p1→p2 crosses the
// triangle abc. On a hit it returns the parameter t in (0,1) of the
// crossing point along the segment.
//
// A crossing exactly at either endpoint does not count: t must clear
// Epsilon at both ends, so a segment leaving a triangle's own plane is
// never a hit against it. The crossing point must fall inside the
// triangle with barycentric coordinates in [-Epsilon, 1+Epsilon], which
// admits near-edge hits consistently. A segment parallel to the plane
// misses regardless of coplanarity, and a degenerate triangle has no
// plane to cross.
func IntersectSegment(a, b, c, p1, p2 math3d.Vec3) (t float64, ok bool) {
	n := math3d.TriangleNormal(a, b, c)
	dir := p2.Sub(p1)

	// Parallelism is judged on the unit direction so the cutoff does
	// not depend on segment length.
	if math.Abs(n.Dot(dir.Normalize())) <= Epsilon {
		return 0, false
	}

	t = n.Dot(a.Sub(p1)) / n.Dot(dir)
	if t <= Epsilon || t >= 1-Epsilon {
		return 0, false
	}

	u, v, w := barycentric(a, b, c, p1.Add(dir.Scale(t)))
	if u < -Epsilon || u > 1+Epsilon ||
		v < -Epsilon || v > 1+Epsilon ||
		w < -Epsilon || w > 1+Epsilon {
		return 0, false
	}
	return t, true
}

// barycentric expresses p in the triangle's coordinates: p = u*a +
// v*b + w*c with u+v+w = 1. p is assumed to lie on the triangle's
// plane.
func barycentric(a, b, c, p math3d.Vec3) (u, v, w float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if denom == 0 {
		// Degenerate triangle; report far outside.
		return -1, -1, -1
	}
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w
}
