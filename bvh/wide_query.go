package bvh

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/bvh/spatialmath"
)

// wideStackCapacity bounds the traversal stack of a wide tree: each level replaces one entry
// by at most four, and oversized leaves add a few levels below the depth budget.
const wideStackCapacity = 3*(MaxDepthLimit+16) + 1

type wideEntry struct {
	child wideChild
	key   float64
}

// VisitNodes calls visit for every node in depth first order until visit returns false.
// Leaf lanes are reported as leaves at the depth of the node holding them.
func (t *WideTree[T]) VisitNodes(visit func(NodeInfo) bool) {
	if len(t.nodes) == 0 {
		return
	}
	type visitEntry struct {
		index int32
		box   spatialmath.AABB
		depth int
	}
	stack := []visitEntry{{index: 0, box: t.box}}
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(NodeInfo{AABB: e.box, Depth: e.depth}) {
			return
		}
		n := &t.nodes[e.index]
		for lane := wideLanes - 1; lane >= 0; lane-- {
			c := n.children[lane]
			switch {
			case c.isInternal():
				stack = append(stack, visitEntry{index: c.index(), box: n.laneBox(lane), depth: e.depth + 1})
			case c.isLeaf():
				first, last := c.leafRange()
				info := NodeInfo{AABB: n.laneBox(lane), Depth: e.depth, Leaf: true, Objects: int(last - first)}
				if !visit(info) {
					return
				}
			}
		}
	}
}

// walkMask visits the leaves of every lane selected by mask, depth first.
func (t *WideTree[T]) walkMask(mask func(n *wideNode) uint8, visitLeaf func(objs []T) bool) bool {
	if len(t.nodes) == 0 {
		return true
	}
	var stack [wideStackCapacity]wideChild
	stack[0] = makeWideInternal(0)
	for sp := 1; sp > 0; {
		sp--
		c := stack[sp]
		if c.isLeaf() {
			first, last := c.leafRange()
			if !visitLeaf(t.objects[first:last]) {
				return false
			}
			continue
		}
		n := &t.nodes[c.index()]
		m := mask(n)
		for lane := wideLanes - 1; lane >= 0; lane-- {
			if m&(1<<lane) != 0 {
				stack[sp] = n.children[lane]
				sp++
			}
		}
	}
	return true
}

// Contains reports whether any object contains the point.
func (t *WideTree[T]) Contains(pt r3.Vector) bool {
	return !t.FindPoint(pt, stop[T])
}

// FindPoint visits every object containing the point. It returns false if visit stopped the search.
func (t *WideTree[T]) FindPoint(pt r3.Vector, visit Visitor[T]) bool {
	return t.walkMask(
		func(n *wideNode) uint8 {
			return n.containsMask(pt)
		},
		pointLeaves(t.traits, pt, visit),
	)
}

// FindAABB visits every object overlapping the box. It returns false if visit stopped the search.
func (t *WideTree[T]) FindAABB(box spatialmath.AABB, visit Visitor[T]) bool {
	if box.IsEmpty() {
		return true
	}
	return t.walkMask(
		func(n *wideNode) uint8 {
			return n.overlapMask(box)
		},
		aabbLeaves(t.traits, box, visit),
	)
}

// FindRay visits every object the ray hits with tMin <= t < tMax, in no particular order.
// It returns false if visit stopped the search.
func (t *WideTree[T]) FindRay(ray spatialmath.Ray, tMin, tMax float64, visit Visitor[T]) bool {
	inv := ray.Inverse()
	return t.walkMask(
		func(n *wideNode) uint8 {
			_, mask := n.rayMask(inv, tMin, tMax)
			return mask
		},
		rayLeaves(t.traits, ray, tMin, tMax, visit),
	)
}

// Intersects reports whether the ray hits any object with tMin <= t < tMax.
func (t *WideTree[T]) Intersects(ray spatialmath.Ray, tMin, tMax float64) bool {
	return !t.FindRay(ray, tMin, tMax, stop[T])
}

// Intersect returns the object hit first by the ray at or after tMin, with the hit parameter.
// The lanes of a node are visited front to back along the ray.
func (t *WideTree[T]) Intersect(ray spatialmath.Ray, tMin float64) (T, float64, bool) {
	var bestObj T
	if len(t.nodes) == 0 {
		return bestObj, 0, false
	}
	inv := ray.Inverse()
	best := math.Inf(1)
	found := false

	tNear, _, ok := t.box.IntersectRayInverse(inv, tMin, best)
	if !ok {
		return bestObj, 0, false
	}
	var stack [wideStackCapacity]wideEntry
	stack[0] = wideEntry{child: makeWideInternal(0), key: tNear}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if e.key >= best {
			continue
		}
		if e.child.isLeaf() {
			first, last := e.child.leafRange()
			for _, obj := range t.objects[first:last] {
				if hit, ok := t.traits.ObjectIntersect(obj, ray, tMin, best); ok && hit < best {
					best, bestObj, found = hit, obj, true
				}
			}
			continue
		}
		n := &t.nodes[e.child.index()]
		entries, mask := n.rayMask(inv, tMin, best)
		order := n.rayOrder(ray)
		for i := wideLanes - 1; i >= 0; i-- {
			if lane := order[i]; mask&(1<<lane) != 0 {
				stack[sp] = wideEntry{child: n.children[lane], key: entries[lane]}
				sp++
			}
		}
	}
	if !found {
		return bestObj, 0, false
	}
	return bestObj, best, true
}

// NearestNeighbour returns the object closest to the point. ok is false for an empty tree.
func (t *WideTree[T]) NearestNeighbour(pt r3.Vector) (Neighbour[T], bool) {
	if len(t.nodes) == 0 {
		return Neighbour[T]{}, false
	}
	best := Neighbour[T]{SquaredDistance: math.Inf(1)}
	found := false

	var stack [wideStackCapacity]wideEntry
	stack[0] = wideEntry{child: makeWideInternal(0), key: t.box.SquaredDistanceToPoint(pt)}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if e.key >= best.SquaredDistance {
			continue
		}
		if e.child.isLeaf() {
			first, last := e.child.leafRange()
			for _, obj := range t.objects[first:last] {
				if d := t.traits.ObjectSquaredDistance(obj, pt); d < best.SquaredDistance {
					best, found = Neighbour[T]{Object: obj, SquaredDistance: d}, true
				}
			}
			continue
		}
		n := &t.nodes[e.child.index()]
		dist := n.distances(pt)
		order := distanceOrder(dist)
		for i := wideLanes - 1; i >= 0; i-- {
			if lane := order[i]; dist[lane] < best.SquaredDistance {
				stack[sp] = wideEntry{child: n.children[lane], key: dist[lane]}
				sp++
			}
		}
	}
	if !found {
		return Neighbour[T]{}, false
	}
	return best, true
}

// RangeSearch finds the maxCount objects closest to centre within maxRadius and hands them to
// visit nearest first. A maxCount of zero or less means no limit.
func (t *WideTree[T]) RangeSearch(centre r3.Vector, maxRadius float64, maxCount int, visit func(Neighbour[T]) bool) {
	if len(t.nodes) == 0 || !(maxRadius >= 0) {
		return
	}
	collector := newRangeCollector[T](maxRadius, maxCount)

	var stack [wideStackCapacity]wideEntry
	stack[0] = wideEntry{child: makeWideInternal(0), key: t.box.SquaredDistanceToPoint(centre)}
	for sp := 1; sp > 0; {
		sp--
		e := stack[sp]
		if e.key > collector.bound() {
			continue
		}
		if e.child.isLeaf() {
			first, last := e.child.leafRange()
			for _, obj := range t.objects[first:last] {
				collector.offer(obj, t.traits.ObjectSquaredDistance(obj, centre))
			}
			continue
		}
		n := &t.nodes[e.child.index()]
		dist := n.distances(centre)
		order := distanceOrder(dist)
		for i := wideLanes - 1; i >= 0; i-- {
			if lane := order[i]; n.used&(1<<lane) != 0 && dist[lane] <= collector.bound() {
				stack[sp] = wideEntry{child: n.children[lane], key: dist[lane]}
				sp++
			}
		}
	}
	collector.deliver(visit)
}
