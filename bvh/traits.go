// Package bvh implements bounding volume hierarchies over caller-owned objects: a binary tree
// with a box per node, a binary tree that stores only split planes, and a 4-ary tree with
// structure-of-arrays child boxes. All three are built by the same split heuristics and
// answer the same queries.
package bvh

import (
	"github.com/golang/geo/r3"

	"go.viam.com/bvh/spatialmath"
)

// ObjectTraits describes how to measure and test the objects referenced by handles of type T.
// The trees only ever store handles; they never copy or free the objects behind them.
type ObjectTraits[T any] interface {
	// Dimension is 2 or 3. Two-dimensional objects live in the Z=0 plane.
	Dimension() int
	ObjectAABB(obj T) spatialmath.AABB
	// ObjectIntersect returns the smallest t with tMin <= t < tMax at which the ray hits obj.
	ObjectIntersect(obj T, ray spatialmath.Ray, tMin, tMax float64) (float64, bool)
	ObjectContains(obj T, pt r3.Vector) bool
	ObjectSquaredDistance(obj T, pt r3.Vector) float64
	ObjectOverlaps(obj T, box spatialmath.AABB) bool
	ObjectSurfaceArea(obj T) float64
}

// ShapeTraits are the ObjectTraits of any spatialmath.Shape.
type ShapeTraits[S spatialmath.Shape] struct {
	Dim int
}

// NewShapeTraits returns traits for shapes of the given dimension.
func NewShapeTraits[S spatialmath.Shape](dim int) ShapeTraits[S] {
	return ShapeTraits[S]{Dim: dim}
}

// Dimension returns the dimension of the shapes, 3 when unset.
func (st ShapeTraits[S]) Dimension() int {
	if st.Dim == 0 {
		return 3
	}
	return st.Dim
}

// ObjectAABB returns the bounds of the shape.
func (st ShapeTraits[S]) ObjectAABB(obj S) spatialmath.AABB {
	return obj.AABB()
}

// ObjectIntersect intersects the ray with the shape.
func (st ShapeTraits[S]) ObjectIntersect(obj S, ray spatialmath.Ray, tMin, tMax float64) (float64, bool) {
	return obj.IntersectRay(ray, tMin, tMax)
}

// ObjectContains reports whether the shape contains the point.
func (st ShapeTraits[S]) ObjectContains(obj S, pt r3.Vector) bool {
	return obj.ContainsPoint(pt)
}

// ObjectSquaredDistance returns the squared distance from the point to the shape.
func (st ShapeTraits[S]) ObjectSquaredDistance(obj S, pt r3.Vector) float64 {
	return obj.SquaredDistanceToPoint(pt)
}

// ObjectOverlaps reports whether the shape overlaps the box.
func (st ShapeTraits[S]) ObjectOverlaps(obj S, box spatialmath.AABB) bool {
	return obj.OverlapsAABB(box)
}

// ObjectSurfaceArea returns the surface area of the shape.
func (st ShapeTraits[S]) ObjectSurfaceArea(obj S) float64 {
	return obj.SurfaceArea()
}

// AABBTraits treat axis-aligned boxes themselves as solid objects.
type AABBTraits struct {
	Dim int
}

// Dimension returns the dimension of the boxes, 3 when unset.
func (at AABBTraits) Dimension() int {
	if at.Dim == 0 {
		return 3
	}
	return at.Dim
}

// ObjectAABB returns the box.
func (at AABBTraits) ObjectAABB(obj spatialmath.AABB) spatialmath.AABB {
	return obj
}

// ObjectIntersect returns the entry point of the ray, or tMin when the ray starts inside.
func (at AABBTraits) ObjectIntersect(obj spatialmath.AABB, ray spatialmath.Ray, tMin, tMax float64) (float64, bool) {
	tNear, _, ok := obj.IntersectRay(ray, tMin, tMax)
	if !ok || tNear >= tMax {
		return 0, false
	}
	return tNear, true
}

// ObjectContains reports whether the box contains the point.
func (at AABBTraits) ObjectContains(obj spatialmath.AABB, pt r3.Vector) bool {
	return obj.ContainsPoint(pt)
}

// ObjectSquaredDistance returns the squared distance from the point to the box.
func (at AABBTraits) ObjectSquaredDistance(obj spatialmath.AABB, pt r3.Vector) float64 {
	return obj.SquaredDistanceToPoint(pt)
}

// ObjectOverlaps reports whether the boxes share some interior. Boxes that only touch the
// query box are not reported.
func (at AABBTraits) ObjectOverlaps(obj, box spatialmath.AABB) bool {
	return obj.OverlapsInterior(box, at.Dimension())
}

// ObjectSurfaceArea returns the surface measure of the box for the traits' dimension.
func (at AABBTraits) ObjectSurfaceArea(obj spatialmath.AABB) float64 {
	return obj.SurfaceArea(at.Dimension())
}
