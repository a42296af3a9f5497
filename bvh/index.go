package bvh

import (
	"github.com/golang/geo/r3"

	"go.viam.com/bvh/spatialmath"
)

// Index is the query contract shared by Tree, PlaneTree and WideTree. Once built, an Index is
// safe for concurrent queries; Reset and ResetObjects must not run concurrently with anything.
type Index[T any] interface {
	Kind() Kind
	AABB() spatialmath.AABB
	IsEmpty() bool
	Len() int
	Objects() []T
	Stats() Stats
	VisitNodes(visit func(NodeInfo) bool)

	Contains(pt r3.Vector) bool
	FindPoint(pt r3.Vector, visit Visitor[T]) bool
	FindAABB(box spatialmath.AABB, visit Visitor[T]) bool
	FindRay(ray spatialmath.Ray, tMin, tMax float64, visit Visitor[T]) bool
	Intersect(ray spatialmath.Ray, tMin float64) (T, float64, bool)
	Intersects(ray spatialmath.Ray, tMin, tMax float64) bool
	NearestNeighbour(pt r3.Vector) (Neighbour[T], bool)
	RangeSearch(centre r3.Vector, maxRadius float64, maxCount int, visit func(Neighbour[T]) bool)

	Reset()
	ResetObjects(objects []T)
}

var (
	_ Index[spatialmath.AABB] = (*Tree[spatialmath.AABB])(nil)
	_ Index[spatialmath.AABB] = (*PlaneTree[spatialmath.AABB])(nil)
	_ Index[spatialmath.AABB] = (*WideTree[spatialmath.AABB])(nil)
)

// NewIndex builds the tree layout named by kind, the config's kind when kind is empty.
func NewIndex[T any](kind Kind, objects []T, traits ObjectTraits[T], opts ...Option) (Index[T], error) {
	if kind == "" {
		kind = newOptions(opts).config.Kind
	}
	switch kind {
	case KindBinary:
		return New(objects, traits, opts...), nil
	case KindPlane:
		return NewPlaneTree(objects, traits, opts...), nil
	case KindWide:
		return NewWideTree(objects, traits, opts...), nil
	default:
		return nil, newUnknownKindError(kind)
	}
}
