package bvh

import (
	"math"

	"go.viam.com/bvh/spatialmath"
)

// planeNode is a plane tree node. A leaf holds the objects [a, b). An internal node's left
// child directly follows it, right is the index of its right child, a holds the split axis
// and planes the largest coordinate of the left child and the smallest coordinate of the
// right child along that axis.
type planeNode struct {
	planes [2]float64
	right  int32
	a      int32
	b      int32
}

// planeNodes rebuilds child boxes on the fly by clipping the parent box against the planes.
type planeNodes struct {
	nodes []planeNode
	box   spatialmath.AABB
}

func (pn planeNodes) isEmpty() bool {
	return len(pn.nodes) == 0
}

func (pn planeNodes) rootBox() spatialmath.AABB {
	return pn.box
}

func (pn planeNodes) leafRange(index int32) (int32, int32, bool) {
	n := &pn.nodes[index]
	if n.right != leafNode {
		return 0, 0, false
	}
	return n.a, n.b, true
}

func (pn planeNodes) children(index int32, box spatialmath.AABB) (int32, spatialmath.AABB, int32, spatialmath.AABB, int) {
	n := &pn.nodes[index]
	axis := int(n.a)
	leftBox, rightBox := box, box
	leftBox.Max = spatialmath.SetCoord(box.Max, axis, n.planes[0])
	rightBox.Min = spatialmath.SetCoord(box.Min, axis, n.planes[1])
	return index + 1, leftBox, n.right, rightBox, axis
}

// PlaneTree is a binary bounding volume hierarchy storing only two split planes per node.
// It uses far less memory than Tree at the price of looser boxes below the root.
type PlaneTree[T any] struct {
	binaryIndex[T, planeNodes]
}

// NewPlaneTree builds a plane tree over the objects. The slice itself is not retained.
func NewPlaneTree[T any](objects []T, traits ObjectTraits[T], opts ...Option) *PlaneTree[T] {
	t := &PlaneTree[T]{binaryIndex[T, planeNodes]{
		kind:   KindPlane,
		traits: traits,
		opts:   newOptions(opts),
	}}
	t.build(objects)
	return t
}

// ResetObjects rebuilds the tree over new objects with the same configuration.
func (t *PlaneTree[T]) ResetObjects(objects []T) {
	t.build(objects)
}

// Reset empties the tree.
func (t *PlaneTree[T]) Reset() {
	t.build(nil)
}

// Swap exchanges the contents of two trees.
func (t *PlaneTree[T]) Swap(other *PlaneTree[T]) {
	t.binaryIndex, other.binaryIndex = other.binaryIndex, t.binaryIndex
}

func (t *PlaneTree[T]) build(objects []T) {
	checkObjectCount(len(objects), math.MaxInt32/2)
	start := t.opts.clock.Now()
	t.layout, t.objects = planeNodes{box: spatialmath.EmptyAABB()}, nil
	if len(objects) > 0 {
		b := newBuilder(objects, t.traits, t.opts.heuristic, t.opts.config.MaxDepth)
		t.layout.nodes = make([]planeNode, 0, 2*len(objects)-1)
		t.layout.box = t.balance(b, 0, len(objects), 0)
		t.objects = b.objects
	}
	t.recordBuild(start)
}

// balance appends the subtree over [first, last) and returns the exact bounds of its objects.
func (t *PlaneTree[T]) balance(b *builder[T], first, last, depth int) spatialmath.AABB {
	index := len(t.layout.nodes)
	t.layout.nodes = append(t.layout.nodes, planeNode{})

	info := b.split(first, last)
	mid, ok := b.cut(first, last, depth, info)
	if !ok {
		b.emitLeaf(first, last)
		t.layout.nodes[index] = planeNode{right: leafNode, a: int32(first), b: int32(last)}
		return info.AABB
	}
	leftBox := t.balance(b, first, mid, depth+1)
	right := len(t.layout.nodes)
	rightBox := t.balance(b, mid, last, depth+1)
	t.layout.nodes[index] = planeNode{
		planes: [2]float64{
			spatialmath.Coord(leftBox.Max, info.Axis),
			spatialmath.Coord(rightBox.Min, info.Axis),
		},
		right: int32(right),
		a:     int32(info.Axis),
	}
	return leftBox.Join(rightBox)
}
