package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// AABB is an axis-aligned bounding box described by its min and max corners.
// Two-dimensional data is represented with both Z coordinates set to zero.
// An empty box has every Min coordinate larger than the matching Max coordinate.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// EmptyAABB returns a box that contains nothing and is the identity of Join.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: r3.Vector{X: inf, Y: inf, Z: inf},
		Max: r3.Vector{X: -inf, Y: -inf, Z: -inf},
	}
}

// NewAABB returns the smallest box containing both corners, in any order.
func NewAABB(a, b r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// NewAABB2 returns a flat box in the Z=0 plane spanning both corners.
func NewAABB2(a, b r2.Point) AABB {
	return NewAABB(r3.Vector{X: a.X, Y: a.Y}, r3.Vector{X: b.X, Y: b.Y})
}

// NewAABBFromCenter returns the box centered at center with the given half extents.
func NewAABBFromCenter(center, halfSize r3.Vector) AABB {
	halfSize = halfSize.Abs()
	return AABB{Min: center.Sub(halfSize), Max: center.Add(halfSize)}
}

// String returns a human readable string that represents the box.
func (b AABB) String() string {
	if b.IsEmpty() {
		return "AABB: empty"
	}
	return fmt.Sprintf("AABB: Min: X:%.3f, Y:%.3f, Z:%.3f | Max: X:%.3f, Y:%.3f, Z:%.3f",
		b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

// IsEmpty reports whether the box contains no points at all.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Join returns the smallest box containing both boxes.
func (b AABB) Join(other AABB) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y), Z: math.Min(b.Min.Z, other.Min.Z)},
		Max: r3.Vector{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y), Z: math.Max(b.Max.Z, other.Max.Z)},
	}
}

// JoinPoint returns the smallest box containing the box and the point.
func (b AABB) JoinPoint(pt r3.Vector) AABB {
	return b.Join(AABB{Min: pt, Max: pt})
}

// Expand returns the box grown by margin on every side. Empty boxes stay empty.
func (b AABB) Expand(margin float64) AABB {
	if b.IsEmpty() {
		return b
	}
	m := r3.Vector{X: margin, Y: margin, Z: margin}
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() r3.Vector {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent returns the size of the box along each axis. Empty boxes have zero extent.
func (b AABB) Extent() r3.Vector {
	if b.IsEmpty() {
		return r3.Vector{}
	}
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether the point lies inside the box or on its boundary.
func (b AABB) ContainsPoint(pt r3.Vector) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X &&
		pt.Y >= b.Min.Y && pt.Y <= b.Max.Y &&
		pt.Z >= b.Min.Z && pt.Z <= b.Max.Z
}

// ContainsAABB reports whether other lies entirely inside the box.
func (b AABB) ContainsAABB(other AABB) bool {
	if other.IsEmpty() {
		return true
	}
	return b.ContainsPoint(other.Min) && b.ContainsPoint(other.Max)
}

// Intersects reports whether the two boxes overlap. Boxes that touch on a face overlap.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && other.Min.X <= b.Max.X &&
		b.Min.Y <= other.Max.Y && other.Min.Y <= b.Max.Y &&
		b.Min.Z <= other.Max.Z && other.Min.Z <= b.Max.Z
}

// OverlapsInterior reports whether the boxes share a region of positive extent along each of
// the first dim axes. Boxes that only touch do not overlap.
func (b AABB) OverlapsInterior(other AABB, dim int) bool {
	if b.IsEmpty() || other.IsEmpty() {
		return false
	}
	for axis := XAxis; axis < dim && axis <= ZAxis; axis++ {
		if !(Coord(b.Min, axis) < Coord(other.Max, axis) && Coord(other.Min, axis) < Coord(b.Max, axis)) {
			return false
		}
	}
	return true
}

// SurfaceArea returns the measure used by the surface area heuristic: the perimeter of the
// box for two-dimensional data and its area for three-dimensional data.
func (b AABB) SurfaceArea(dim int) float64 {
	e := b.Extent()
	switch dim {
	case 1:
		return e.X
	case 2:
		return 2 * (e.X + e.Y)
	default:
		return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
	}
}

// LongestAxis returns the axis, among the first dim axes, along which the box is widest.
func (b AABB) LongestAxis(dim int) int {
	e := b.Extent()
	axis := XAxis
	for a := YAxis; a < dim && a <= ZAxis; a++ {
		if Coord(e, a) > Coord(e, axis) {
			axis = a
		}
	}
	return axis
}

// SquaredDistanceToPoint returns the squared distance from the point to the closest point of
// the box; zero when the point is inside.
func (b AABB) SquaredDistanceToPoint(pt r3.Vector) float64 {
	var dist float64
	for axis := XAxis; axis <= ZAxis; axis++ {
		d := axisDist(Coord(pt, axis), Coord(b.Min, axis), Coord(b.Max, axis))
		dist += d * d
	}
	return dist
}

// ClosestPoint returns the point of the box closest to pt.
func (b AABB) ClosestPoint(pt r3.Vector) r3.Vector {
	return r3.Vector{
		X: math.Max(b.Min.X, math.Min(pt.X, b.Max.X)),
		Y: math.Max(b.Min.Y, math.Min(pt.Y, b.Max.Y)),
		Z: math.Max(b.Min.Z, math.Min(pt.Z, b.Max.Z)),
	}
}

// IntersectRay clips the parametric interval [tMin, tMax] of the ray against the box and
// returns the clipped interval. ok is false when the ray misses the box within the interval.
func (b AABB) IntersectRay(ray Ray, tMin, tMax float64) (tNear, tFar float64, ok bool) {
	return b.IntersectRayInverse(ray.Inverse(), tMin, tMax)
}

// IntersectRayInverse is IntersectRay for a ray whose reciprocal direction was precomputed.
//
// The slab comparisons are ordered so that a NaN produced by a ray lying exactly in a face
// plane (0 * Inf) never narrows the interval, which keeps such rays from being rejected.
func (b AABB) IntersectRayInverse(ray RayInverse, tMin, tMax float64) (tNear, tFar float64, ok bool) {
	tNear, tFar = tMin, tMax
	if b.IsEmpty() {
		return tNear, tFar, false
	}
	for axis := XAxis; axis <= ZAxis; axis++ {
		o := Coord(ray.Origin, axis)
		inv := Coord(ray.Inv, axis)
		t0 := (Coord(b.Min, axis) - o) * inv
		t1 := (Coord(b.Max, axis) - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return tNear, tFar, false
		}
	}
	return tNear, tFar, true
}

func axisDist(k, lo, hi float64) float64 {
	if k < lo {
		return lo - k
	}
	if k <= hi {
		return 0
	}
	return k - hi
}
