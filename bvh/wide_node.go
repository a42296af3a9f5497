package bvh

import (
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/bvh/spatialmath"
)

const (
	wideLanes     = 4
	wideCountBits = 4
	wideCountMask = 1<<wideCountBits - 1
	// maxWideObjects keeps leaf offsets within the bits left next to the sign and the count.
	maxWideObjects = 1 << (31 - wideCountBits)
)

// wideChild references the content of a wide node lane. Zero is an empty lane, a positive
// value is a node index plus one, and a negative value is a leaf with the sign bit set, the
// first object above the count bits and the object count minus one in them.
type wideChild int32

func makeWideLeaf(first, count int) wideChild {
	return wideChild(math.MinInt32 | int32(first)<<wideCountBits | int32(count-1))
}

func makeWideInternal(index int) wideChild {
	return wideChild(index + 1)
}

func (c wideChild) isEmpty() bool {
	return c == 0
}

func (c wideChild) isLeaf() bool {
	return c < 0
}

func (c wideChild) isInternal() bool {
	return c > 0
}

// index returns the node referenced by an internal child.
func (c wideChild) index() int32 {
	return int32(c) - 1
}

// leafRange returns the objects referenced by a leaf child.
func (c wideChild) leafRange() (first, last int32) {
	v := int32(c) & math.MaxInt32
	first = v >> wideCountBits
	return first, first + v&wideCountMask + 1
}

// wideNode holds up to four children with their boxes stored one axis at a time, so each
// test handles all lanes in one pass.
type wideNode struct {
	lo       [3][wideLanes]float64
	hi       [3][wideLanes]float64
	children [wideLanes]wideChild
	// axes holds the split axis between the two halves, then the axis between lanes 0 and 1
	// and between lanes 2 and 3, or -1 where no split happened.
	axes [3]int8
	used uint8
}

func newWideNode() wideNode {
	n := wideNode{axes: [3]int8{-1, -1, -1}}
	for axis := range n.lo {
		for lane := 0; lane < wideLanes; lane++ {
			n.lo[axis][lane] = math.Inf(1)
			n.hi[axis][lane] = math.Inf(-1)
		}
	}
	return n
}

func (n *wideNode) setLane(lane int, box spatialmath.AABB, child wideChild) {
	for axis := spatialmath.XAxis; axis <= spatialmath.ZAxis; axis++ {
		n.lo[axis][lane] = spatialmath.Coord(box.Min, axis)
		n.hi[axis][lane] = spatialmath.Coord(box.Max, axis)
	}
	n.children[lane] = child
	n.used |= 1 << lane
}

func (n *wideNode) laneBox(lane int) spatialmath.AABB {
	return spatialmath.AABB{
		Min: r3.Vector{X: n.lo[0][lane], Y: n.lo[1][lane], Z: n.lo[2][lane]},
		Max: r3.Vector{X: n.hi[0][lane], Y: n.hi[1][lane], Z: n.hi[2][lane]},
	}
}

// union returns the bounds of all used lanes.
func (n *wideNode) union() spatialmath.AABB {
	box := spatialmath.EmptyAABB()
	for lane := 0; lane < wideLanes; lane++ {
		if n.used&(1<<lane) != 0 {
			box = box.Join(n.laneBox(lane))
		}
	}
	return box
}

func (n *wideNode) containsMask(pt r3.Vector) uint8 {
	mask := n.used
	for axis := spatialmath.XAxis; axis <= spatialmath.ZAxis; axis++ {
		p := spatialmath.Coord(pt, axis)
		for lane := 0; lane < wideLanes; lane++ {
			if !(n.lo[axis][lane] <= p && p <= n.hi[axis][lane]) {
				mask &^= 1 << lane
			}
		}
	}
	return mask
}

func (n *wideNode) overlapMask(box spatialmath.AABB) uint8 {
	mask := n.used
	for axis := spatialmath.XAxis; axis <= spatialmath.ZAxis; axis++ {
		lo, hi := spatialmath.Coord(box.Min, axis), spatialmath.Coord(box.Max, axis)
		for lane := 0; lane < wideLanes; lane++ {
			if !(n.lo[axis][lane] <= hi && lo <= n.hi[axis][lane]) {
				mask &^= 1 << lane
			}
		}
	}
	return mask
}

// rayMask runs the slab test of IntersectRayInverse on all lanes at once and returns the
// entry parameter of every lane hit.
func (n *wideNode) rayMask(ray spatialmath.RayInverse, tMin, tMax float64) ([wideLanes]float64, uint8) {
	tNear := [wideLanes]float64{tMin, tMin, tMin, tMin}
	tFar := [wideLanes]float64{tMax, tMax, tMax, tMax}
	for axis := spatialmath.XAxis; axis <= spatialmath.ZAxis; axis++ {
		o := spatialmath.Coord(ray.Origin, axis)
		inv := spatialmath.Coord(ray.Inv, axis)
		for lane := 0; lane < wideLanes; lane++ {
			t0 := (n.lo[axis][lane] - o) * inv
			t1 := (n.hi[axis][lane] - o) * inv
			if t0 > t1 {
				t0, t1 = t1, t0
			}
			if t0 > tNear[lane] {
				tNear[lane] = t0
			}
			if t1 < tFar[lane] {
				tFar[lane] = t1
			}
		}
	}
	mask := n.used
	for lane := 0; lane < wideLanes; lane++ {
		if tNear[lane] > tFar[lane] {
			mask &^= 1 << lane
		}
	}
	return tNear, mask
}

// distances returns the squared distance from pt to every lane, +Inf for unused lanes.
func (n *wideNode) distances(pt r3.Vector) [wideLanes]float64 {
	var dist [wideLanes]float64
	for axis := spatialmath.XAxis; axis <= spatialmath.ZAxis; axis++ {
		p := spatialmath.Coord(pt, axis)
		for lane := 0; lane < wideLanes; lane++ {
			var d float64
			switch lo, hi := n.lo[axis][lane], n.hi[axis][lane]; {
			case p < lo:
				d = lo - p
			case p > hi:
				d = p - hi
			}
			dist[lane] += d * d
		}
	}
	for lane := 0; lane < wideLanes; lane++ {
		if n.used&(1<<lane) == 0 {
			dist[lane] = math.Inf(1)
		}
	}
	return dist
}

// rayOrder returns the lanes front to back along the ray direction, from the recorded splits.
func (n *wideNode) rayOrder(ray spatialmath.Ray) [wideLanes]int {
	order := [wideLanes]int{0, 1, 2, 3}
	if n.axes[1] >= 0 && !ray.DirectionSign(int(n.axes[1])) {
		order[0], order[1] = 1, 0
	}
	if n.axes[2] >= 0 && !ray.DirectionSign(int(n.axes[2])) {
		order[2], order[3] = 3, 2
	}
	if n.axes[0] >= 0 && !ray.DirectionSign(int(n.axes[0])) {
		order = [wideLanes]int{order[2], order[3], order[0], order[1]}
	}
	return order
}

// distanceOrder returns the lanes sorted by increasing distance.
func distanceOrder(dist [wideLanes]float64) [wideLanes]int {
	order := [wideLanes]int{0, 1, 2, 3}
	for i := 1; i < wideLanes; i++ {
		for j := i; j > 0 && dist[order[j]] < dist[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}
