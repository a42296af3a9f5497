package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Triangle is a flat triangle in three dimensional space.
type Triangle struct {
	p0 r3.Vector
	p1 r3.Vector
	p2 r3.Vector

	normal r3.Vector
	label  string
}

// NewTriangle instantiates a new Triangle from its three corners.
func NewTriangle(p0, p1, p2 r3.Vector, label string) *Triangle {
	return &Triangle{
		p0:     p0,
		p1:     p1,
		p2:     p2,
		normal: PlaneNormal(p0, p1, p2),
		label:  label,
	}
}

// String returns a human readable string that represents the triangle.
func (t *Triangle) String() string {
	return fmt.Sprintf("Type: Triangle | P0: %v | P1: %v | P2: %v", t.p0, t.p1, t.p2)
}

// Label returns the label of this triangle.
func (t *Triangle) Label() string {
	return t.label
}

// Points returns the corners of the triangle.
func (t *Triangle) Points() []r3.Vector {
	return []r3.Vector{t.p0, t.p1, t.p2}
}

// Normal returns the unit normal of the triangle, zero for degenerate triangles.
func (t *Triangle) Normal() r3.Vector {
	return t.normal
}

// Centroid returns the mean of the three corners.
func (t *Triangle) Centroid() r3.Vector {
	return t.p0.Add(t.p1).Add(t.p2).Mul(1. / 3)
}

// Area returns the area of the triangle.
func (t *Triangle) Area() float64 {
	return 0.5 * t.p1.Sub(t.p0).Cross(t.p2.Sub(t.p0)).Norm()
}

// AABB returns the bounds of the three corners grown by floatEpsilon.
func (t *Triangle) AABB() AABB {
	return NewAABB(t.p0, t.p1).JoinPoint(t.p2).Expand(floatEpsilon)
}

// IntersectRay uses the Moller-Trumbore test. Rays parallel to the triangle plane never hit.
func (t *Triangle) IntersectRay(ray Ray, tMin, tMax float64) (float64, bool) {
	e1 := t.p1.Sub(t.p0)
	e2 := t.p2.Sub(t.p0)
	pvec := ray.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < 1e-12 {
		return 0, false
	}
	inv := 1 / det
	tvec := ray.Origin.Sub(t.p0)
	u := tvec.Dot(pvec) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(e1)
	v := ray.Direction.Dot(qvec) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	hit := e2.Dot(qvec) * inv
	if hit < tMin || hit >= tMax {
		return 0, false
	}
	return hit, true
}

// ContainsPoint reports whether the point lies on the triangle, within floatEpsilon.
func (t *Triangle) ContainsPoint(pt r3.Vector) bool {
	return t.SquaredDistanceToPoint(pt) <= floatEpsilon*floatEpsilon
}

// SquaredDistanceToPoint returns the squared distance from pt to the closest point of the triangle.
func (t *Triangle) SquaredDistanceToPoint(pt r3.Vector) float64 {
	return pt.Sub(t.ClosestPointToPoint(pt)).Norm2()
}

// OverlapsAABB runs the separating axis test between the triangle and the box grown by
// floatEpsilon: the three box axes, the triangle normal, and the nine cross products of box
// axes with triangle edges.
func (t *Triangle) OverlapsAABB(box AABB) bool {
	if box.IsEmpty() || !t.AABB().Intersects(box) {
		return false
	}
	c := box.Center()
	h := box.Extent().Mul(0.5).Add(r3.Vector{X: floatEpsilon, Y: floatEpsilon, Z: floatEpsilon})
	v := [3]r3.Vector{t.p0.Sub(c), t.p1.Sub(c), t.p2.Sub(c)}

	separated := func(axis r3.Vector) bool {
		r := h.X*math.Abs(axis.X) + h.Y*math.Abs(axis.Y) + h.Z*math.Abs(axis.Z)
		p0, p1, p2 := axis.Dot(v[0]), axis.Dot(v[1]), axis.Dot(v[2])
		return math.Min(p0, math.Min(p1, p2)) > r || math.Max(p0, math.Max(p1, p2)) < -r
	}

	if n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0])); n.Norm2() > 0 && separated(n) {
		return false
	}
	edges := [3]r3.Vector{v[1].Sub(v[0]), v[2].Sub(v[1]), v[0].Sub(v[2])}
	units := [3]r3.Vector{{X: 1}, {Y: 1}, {Z: 1}}
	for _, e := range edges {
		for _, u := range units {
			axis := u.Cross(e)
			if axis.Norm2() < floatEpsilon*floatEpsilon {
				continue
			}
			if separated(axis) {
				return false
			}
		}
	}
	return true
}

// SurfaceArea returns the area of both faces of the triangle.
func (t *Triangle) SurfaceArea() float64 {
	return 2 * t.Area()
}

// ClosestPointToCoplanarPoint takes a point, and returns the closest point on the triangle to the given point
// The given point *MUST* be coplanar with the triangle.
func (t *Triangle) ClosestPointToCoplanarPoint(pt r3.Vector) r3.Vector {
	c0 := pt.Sub(t.p0).Cross(t.p1.Sub(t.p0))
	c1 := pt.Sub(t.p1).Cross(t.p2.Sub(t.p1))
	c2 := pt.Sub(t.p2).Cross(t.p0.Sub(t.p2))
	if c0.Dot(t.normal) <= 0 && c1.Dot(t.normal) <= 0 && c2.Dot(t.normal) <= 0 {
		return pt
	}
	return t.closestEdgePoint(pt)
}

// ClosestPointToPoint takes a point, and returns the closest point on the triangle to the given point.
func (t *Triangle) ClosestPointToPoint(pt r3.Vector) r3.Vector {
	if closest, inside := t.ClosestInsidePoint(pt); inside {
		return closest
	}
	return t.closestEdgePoint(pt)
}

// ClosestInsidePoint returns the projection of the point onto the triangle plane, and whether
// that projection falls inside the triangle.
func (t *Triangle) ClosestInsidePoint(pt r3.Vector) (r3.Vector, bool) {
	// Q = p0 + u*e0 + v*e1 is inside for u, v >= 0 and u + v <= 1.
	e0 := t.p1.Sub(t.p0)
	e1 := t.p2.Sub(t.p0)
	a := e0.Norm2()
	b := e0.Dot(e1)
	c := e1.Norm2()
	d := pt.Sub(t.p0)
	det := a*c - b*b
	if det == 0 {
		return pt, false
	}
	u := (c*e0.Dot(d) - b*e1.Dot(d)) / det
	v := (-b*e0.Dot(d) + a*e1.Dot(d)) / det
	inside := (0 <= u+floatEpsilon) && (0 <= v+floatEpsilon) && (u+v <= 1+floatEpsilon)
	return t.p0.Add(e0.Mul(u)).Add(e1.Mul(v)), inside
}

func (t *Triangle) closestEdgePoint(pt r3.Vector) r3.Vector {
	best := ClosestPointSegmentPoint(t.p0, t.p1, pt)
	bestDist := pt.Sub(best).Norm2()
	for _, edge := range [2][2]r3.Vector{{t.p1, t.p2}, {t.p2, t.p0}} {
		candidate := ClosestPointSegmentPoint(edge[0], edge[1], pt)
		if dist := pt.Sub(candidate).Norm2(); dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	return best
}
