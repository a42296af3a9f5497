package bvh

import (
	"github.com/golang/geo/r3"

	"go.viam.com/bvh/spatialmath"
)

// Visitor receives the objects matched by a query. Returning false stops the query.
type Visitor[T any] func(obj T) bool

// walker is the depth-first traversal every tree layout provides. enter decides whether the
// subtree under a box is visited at all; visitLeaf receives the handles of each visited leaf
// and returns false to stop. walk reports whether it ran to completion.
type walker[T any] interface {
	walk(enter func(box spatialmath.AABB) bool, visitLeaf func(objs []T) bool) bool
}

// pointLeaves returns a leaf visitor passing the objects containing pt on to visit.
func pointLeaves[T any](traits ObjectTraits[T], pt r3.Vector, visit Visitor[T]) func(objs []T) bool {
	return func(objs []T) bool {
		for _, obj := range objs {
			if traits.ObjectContains(obj, pt) && !visit(obj) {
				return false
			}
		}
		return true
	}
}

func aabbLeaves[T any](traits ObjectTraits[T], query spatialmath.AABB, visit Visitor[T]) func(objs []T) bool {
	return func(objs []T) bool {
		for _, obj := range objs {
			if traits.ObjectOverlaps(obj, query) && !visit(obj) {
				return false
			}
		}
		return true
	}
}

func rayLeaves[T any](traits ObjectTraits[T], ray spatialmath.Ray, tMin, tMax float64, visit Visitor[T]) func(objs []T) bool {
	return func(objs []T) bool {
		for _, obj := range objs {
			if _, ok := traits.ObjectIntersect(obj, ray, tMin, tMax); ok && !visit(obj) {
				return false
			}
		}
		return true
	}
}

func findPoint[T any](w walker[T], traits ObjectTraits[T], pt r3.Vector, visit Visitor[T]) bool {
	return w.walk(
		func(box spatialmath.AABB) bool {
			return box.ContainsPoint(pt)
		},
		pointLeaves(traits, pt, visit),
	)
}

func findAABB[T any](w walker[T], traits ObjectTraits[T], query spatialmath.AABB, visit Visitor[T]) bool {
	if query.IsEmpty() {
		return true
	}
	return w.walk(
		func(box spatialmath.AABB) bool {
			return box.Intersects(query)
		},
		aabbLeaves(traits, query, visit),
	)
}

func findRay[T any](w walker[T], traits ObjectTraits[T], ray spatialmath.Ray, tMin, tMax float64, visit Visitor[T]) bool {
	inv := ray.Inverse()
	return w.walk(
		func(box spatialmath.AABB) bool {
			_, _, ok := box.IntersectRayInverse(inv, tMin, tMax)
			return ok
		},
		rayLeaves(traits, ray, tMin, tMax, visit),
	)
}

// stop is the visitor of queries that only need to know whether anything matches.
func stop[T any](T) bool {
	return false
}

func contains[T any](w walker[T], traits ObjectTraits[T], pt r3.Vector) bool {
	return !findPoint(w, traits, pt, stop[T])
}

func intersects[T any](w walker[T], traits ObjectTraits[T], ray spatialmath.Ray, tMin, tMax float64) bool {
	return !findRay(w, traits, ray, tMin, tMax, stop[T])
}

// CollectPoint returns every object of the index containing the point.
func CollectPoint[T any](index Index[T], pt r3.Vector) []T {
	var found []T
	index.FindPoint(pt, func(obj T) bool {
		found = append(found, obj)
		return true
	})
	return found
}

// CollectAABB returns every object of the index overlapping the box.
func CollectAABB[T any](index Index[T], box spatialmath.AABB) []T {
	var found []T
	index.FindAABB(box, func(obj T) bool {
		found = append(found, obj)
		return true
	})
	return found
}

// CollectRay returns every object of the index hit by the ray with tMin <= t < tMax.
func CollectRay[T any](index Index[T], ray spatialmath.Ray, tMin, tMax float64) []T {
	var found []T
	index.FindRay(ray, tMin, tMax, func(obj T) bool {
		found = append(found, obj)
		return true
	})
	return found
}

// RangeSearchSlice returns the neighbours found by RangeSearch, nearest first.
func RangeSearchSlice[T any](index Index[T], centre r3.Vector, maxRadius float64, maxCount int) []Neighbour[T] {
	var found []Neighbour[T]
	index.RangeSearch(centre, maxRadius, maxCount, func(n Neighbour[T]) bool {
		found = append(found, n)
		return true
	})
	return found
}
