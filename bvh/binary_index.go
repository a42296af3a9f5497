package bvh

import (
	"math"
	"time"

	"github.com/golang/geo/r3"

	"go.viam.com/bvh/spatialmath"
)

// stackCapacity bounds the traversal stacks of the binary layouts. A binary traversal holds at
// most one pending sibling per level plus the two children just pushed.
const stackCapacity = MaxDepthLimit + 2

// binaryLayout is the node storage of a binary tree, node 0 being the root.
type binaryLayout interface {
	isEmpty() bool
	rootBox() spatialmath.AABB
	// leafRange returns the object range of index when it is a leaf.
	leafRange(index int32) (first, last int32, ok bool)
	// children returns the children of an internal node and boxes bounding them, given a box
	// bounding the node. axis is the axis the node was split along, the left child holding the
	// smaller coordinates.
	children(index int32, box spatialmath.AABB) (left int32, leftBox spatialmath.AABB, right int32, rightBox spatialmath.AABB, axis int)
}

type binaryEntry struct {
	index int32
	box   spatialmath.AABB
	// key is the ray entry parameter or the squared distance of the box, depending on the query.
	key   float64
	depth int
}

// binaryIndex holds what the two binary trees share: the permuted handles, the node layout
// and every query.
type binaryIndex[T any, L binaryLayout] struct {
	kind    Kind
	layout  L
	objects []T
	traits  ObjectTraits[T]
	opts    options
	stats   Stats
}

// Kind returns the layout of the tree.
func (bi *binaryIndex[T, L]) Kind() Kind {
	return bi.kind
}

// AABB returns the bounds of all objects in the tree, empty for an empty tree.
func (bi *binaryIndex[T, L]) AABB() spatialmath.AABB {
	if bi.layout.isEmpty() {
		return spatialmath.EmptyAABB()
	}
	return bi.layout.rootBox()
}

// IsEmpty reports whether the tree holds no objects.
func (bi *binaryIndex[T, L]) IsEmpty() bool {
	return len(bi.objects) == 0
}

// Len returns the number of objects in the tree.
func (bi *binaryIndex[T, L]) Len() int {
	return len(bi.objects)
}

// Objects returns a copy of the handles in leaf order.
func (bi *binaryIndex[T, L]) Objects() []T {
	return append([]T(nil), bi.objects...)
}

// Stats returns the statistics gathered when the tree was built.
func (bi *binaryIndex[T, L]) Stats() Stats {
	return bi.stats
}

// VisitNodes calls visit for every node in depth first order, left before right, until visit
// returns false.
func (bi *binaryIndex[T, L]) VisitNodes(visit func(NodeInfo) bool) {
	if bi.layout.isEmpty() {
		return
	}
	var stack [stackCapacity]binaryEntry
	stack[0] = binaryEntry{index: 0, box: bi.layout.rootBox()}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if first, last, ok := bi.layout.leafRange(e.index); ok {
			if !visit(NodeInfo{AABB: e.box, Depth: e.depth, Leaf: true, Objects: int(last - first)}) {
				return
			}
			continue
		}
		if !visit(NodeInfo{AABB: e.box, Depth: e.depth}) {
			return
		}
		left, leftBox, right, rightBox, _ := bi.layout.children(e.index, e.box)
		stack[sp] = binaryEntry{index: right, box: rightBox, depth: e.depth + 1}
		stack[sp+1] = binaryEntry{index: left, box: leftBox, depth: e.depth + 1}
		sp += 2
	}
}

func (bi *binaryIndex[T, L]) walk(enter func(box spatialmath.AABB) bool, visitLeaf func(objs []T) bool) bool {
	if bi.layout.isEmpty() {
		return true
	}
	var stack [stackCapacity]binaryEntry
	stack[0] = binaryEntry{index: 0, box: bi.layout.rootBox()}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if !enter(e.box) {
			continue
		}
		if first, last, ok := bi.layout.leafRange(e.index); ok {
			if !visitLeaf(bi.objects[first:last]) {
				return false
			}
			continue
		}
		left, leftBox, right, rightBox, _ := bi.layout.children(e.index, e.box)
		stack[sp] = binaryEntry{index: right, box: rightBox}
		stack[sp+1] = binaryEntry{index: left, box: leftBox}
		sp += 2
	}
	return true
}

// Contains reports whether any object contains the point.
func (bi *binaryIndex[T, L]) Contains(pt r3.Vector) bool {
	return contains[T](bi, bi.traits, pt)
}

// FindPoint visits every object containing the point. It returns false if visit stopped the search.
func (bi *binaryIndex[T, L]) FindPoint(pt r3.Vector, visit Visitor[T]) bool {
	return findPoint[T](bi, bi.traits, pt, visit)
}

// FindAABB visits every object overlapping the box. It returns false if visit stopped the search.
func (bi *binaryIndex[T, L]) FindAABB(box spatialmath.AABB, visit Visitor[T]) bool {
	return findAABB[T](bi, bi.traits, box, visit)
}

// FindRay visits every object the ray hits with tMin <= t < tMax, in no particular order.
// It returns false if visit stopped the search.
func (bi *binaryIndex[T, L]) FindRay(ray spatialmath.Ray, tMin, tMax float64, visit Visitor[T]) bool {
	return findRay[T](bi, bi.traits, ray, tMin, tMax, visit)
}

// Intersects reports whether the ray hits any object with tMin <= t < tMax.
func (bi *binaryIndex[T, L]) Intersects(ray spatialmath.Ray, tMin, tMax float64) bool {
	return intersects[T](bi, bi.traits, ray, tMin, tMax)
}

// Intersect returns the object hit first by the ray at or after tMin, with the hit parameter.
// Children are visited near side first, and boxes entered after the closest hit found so far
// are skipped.
func (bi *binaryIndex[T, L]) Intersect(ray spatialmath.Ray, tMin float64) (T, float64, bool) {
	var bestObj T
	if bi.layout.isEmpty() {
		return bestObj, 0, false
	}
	inv := ray.Inverse()
	best := math.Inf(1)
	found := false

	root := bi.layout.rootBox()
	tNear, _, ok := root.IntersectRayInverse(inv, tMin, best)
	if !ok {
		return bestObj, 0, false
	}
	var stack [stackCapacity]binaryEntry
	stack[0] = binaryEntry{index: 0, box: root, key: tNear}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if e.key >= best {
			continue
		}
		if first, last, ok := bi.layout.leafRange(e.index); ok {
			for _, obj := range bi.objects[first:last] {
				if t, hit := bi.traits.ObjectIntersect(obj, ray, tMin, best); hit && t < best {
					best, bestObj, found = t, obj, true
				}
			}
			continue
		}
		near, nearBox, far, farBox, axis := bi.layout.children(e.index, e.box)
		if !ray.DirectionSign(axis) {
			near, nearBox, far, farBox = far, farBox, near, nearBox
		}
		if t, _, ok := farBox.IntersectRayInverse(inv, tMin, best); ok {
			stack[sp] = binaryEntry{index: far, box: farBox, key: t}
			sp++
		}
		if t, _, ok := nearBox.IntersectRayInverse(inv, tMin, best); ok {
			stack[sp] = binaryEntry{index: near, box: nearBox, key: t}
			sp++
		}
	}
	if !found {
		return bestObj, 0, false
	}
	return bestObj, best, true
}

// NearestNeighbour returns the object closest to the point. ok is false for an empty tree.
func (bi *binaryIndex[T, L]) NearestNeighbour(pt r3.Vector) (Neighbour[T], bool) {
	if bi.layout.isEmpty() {
		return Neighbour[T]{}, false
	}
	best := Neighbour[T]{SquaredDistance: math.Inf(1)}
	found := false

	root := bi.layout.rootBox()
	var stack [stackCapacity]binaryEntry
	stack[0] = binaryEntry{index: 0, box: root, key: root.SquaredDistanceToPoint(pt)}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if e.key >= best.SquaredDistance {
			continue
		}
		if first, last, ok := bi.layout.leafRange(e.index); ok {
			for _, obj := range bi.objects[first:last] {
				if d := bi.traits.ObjectSquaredDistance(obj, pt); d < best.SquaredDistance {
					best, found = Neighbour[T]{Object: obj, SquaredDistance: d}, true
				}
			}
			continue
		}
		near, nearBox, far, farBox, _ := bi.layout.children(e.index, e.box)
		nearDist, farDist := nearBox.SquaredDistanceToPoint(pt), farBox.SquaredDistanceToPoint(pt)
		if farDist < nearDist {
			near, nearBox, nearDist, far, farBox, farDist = far, farBox, farDist, near, nearBox, nearDist
		}
		if farDist < best.SquaredDistance {
			stack[sp] = binaryEntry{index: far, box: farBox, key: farDist}
			sp++
		}
		if nearDist < best.SquaredDistance {
			stack[sp] = binaryEntry{index: near, box: nearBox, key: nearDist}
			sp++
		}
	}
	if !found {
		return Neighbour[T]{}, false
	}
	return best, true
}

// RangeSearch finds the maxCount objects closest to centre within maxRadius and hands them to
// visit nearest first. A maxCount of zero or less means no limit.
func (bi *binaryIndex[T, L]) RangeSearch(centre r3.Vector, maxRadius float64, maxCount int, visit func(Neighbour[T]) bool) {
	if bi.layout.isEmpty() || !(maxRadius >= 0) {
		return
	}
	collector := newRangeCollector[T](maxRadius, maxCount)

	root := bi.layout.rootBox()
	var stack [stackCapacity]binaryEntry
	stack[0] = binaryEntry{index: 0, box: root, key: root.SquaredDistanceToPoint(centre)}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if e.key > collector.bound() {
			continue
		}
		if first, last, ok := bi.layout.leafRange(e.index); ok {
			for _, obj := range bi.objects[first:last] {
				collector.offer(obj, bi.traits.ObjectSquaredDistance(obj, centre))
			}
			continue
		}
		near, nearBox, far, farBox, _ := bi.layout.children(e.index, e.box)
		nearDist, farDist := nearBox.SquaredDistanceToPoint(centre), farBox.SquaredDistanceToPoint(centre)
		if farDist < nearDist {
			near, nearBox, nearDist, far, farBox, farDist = far, farBox, farDist, near, nearBox, nearDist
		}
		if farDist <= collector.bound() {
			stack[sp] = binaryEntry{index: far, box: farBox, key: farDist}
			sp++
		}
		if nearDist <= collector.bound() {
			stack[sp] = binaryEntry{index: near, box: nearBox, key: nearDist}
			sp++
		}
	}
	collector.deliver(visit)
}

// recordBuild computes the statistics of a build started at start and logs them.
func (bi *binaryIndex[T, L]) recordBuild(start time.Time) {
	elapsed := bi.opts.clock.Since(start)
	bi.stats = computeStats(bi.kind, len(bi.objects), bi.AABB(), bi.traits.Dimension(), bi.opts.config, bi.VisitNodes)
	bi.stats.BuildDuration = elapsed
	logBuild(bi.opts.logger, bi.stats)
}
