package spatialmath

import "github.com/golang/geo/r3"

// PlaneNormal returns the unit normal of the plane through the three points, following the
// right hand rule. Collinear points give the zero vector.
func PlaneNormal(p0, p1, p2 r3.Vector) r3.Vector {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if norm := n.Norm(); norm > 0 {
		return n.Mul(1 / norm)
	}
	return r3.Vector{}
}

// ClosestPointSegmentPoint returns the point of the segment [a, b] closest to pt.
func ClosestPointSegmentPoint(a, b, pt r3.Vector) r3.Vector {
	ab := b.Sub(a)
	denom := ab.Norm2()
	if denom == 0 {
		return a
	}
	t := pt.Sub(a).Dot(ab) / denom
	switch {
	case t <= 0:
		return a
	case t >= 1:
		return b
	default:
		return a.Add(ab.Mul(t))
	}
}
