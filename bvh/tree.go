package bvh

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/bvh/spatialmath"
)

// leafNode in the right field marks a leaf.
const leafNode = -1

// node is a binary tree node. A leaf holds the objects [first, last). An internal node's left
// child directly follows it, right is the index of its right child and first holds the axis
// the node was split along.
type node struct {
	aabb  spatialmath.AABB
	right int32
	first int32
	last  int32
}

type binaryNodes []node

func (ns binaryNodes) isEmpty() bool {
	return len(ns) == 0
}

func (ns binaryNodes) rootBox() spatialmath.AABB {
	return ns[0].aabb
}

func (ns binaryNodes) leafRange(index int32) (int32, int32, bool) {
	n := &ns[index]
	if n.right != leafNode {
		return 0, 0, false
	}
	return n.first, n.last, true
}

func (ns binaryNodes) children(index int32, _ spatialmath.AABB) (int32, spatialmath.AABB, int32, spatialmath.AABB, int) {
	n := &ns[index]
	left := index + 1
	return left, ns[left].aabb, n.right, ns[n.right].aabb, int(n.first)
}

// Tree is a binary bounding volume hierarchy storing a box per node.
type Tree[T any] struct {
	binaryIndex[T, binaryNodes]
}

// New builds a binary tree over the objects. The slice itself is not retained.
func New[T any](objects []T, traits ObjectTraits[T], opts ...Option) *Tree[T] {
	t := &Tree[T]{binaryIndex[T, binaryNodes]{
		kind:   KindBinary,
		traits: traits,
		opts:   newOptions(opts),
	}}
	t.build(objects)
	return t
}

// ResetObjects rebuilds the tree over new objects with the same configuration.
func (t *Tree[T]) ResetObjects(objects []T) {
	t.build(objects)
}

// Reset empties the tree.
func (t *Tree[T]) Reset() {
	t.build(nil)
}

// Swap exchanges the contents of two trees.
func (t *Tree[T]) Swap(other *Tree[T]) {
	t.binaryIndex, other.binaryIndex = other.binaryIndex, t.binaryIndex
}

func (t *Tree[T]) build(objects []T) {
	checkObjectCount(len(objects), math.MaxInt32/2)
	start := t.opts.clock.Now()
	t.layout, t.objects = nil, nil
	if len(objects) > 0 {
		b := newBuilder(objects, t.traits, t.opts.heuristic, t.opts.config.MaxDepth)
		t.layout = make(binaryNodes, 0, 2*len(objects)-1)
		t.balance(b, 0, len(objects), 0)
		t.objects = b.objects
	}
	t.recordBuild(start)
}

// balance appends the subtree over [first, last) at the end of the node slice.
func (t *Tree[T]) balance(b *builder[T], first, last, depth int) {
	index := len(t.layout)
	t.layout = append(t.layout, node{})

	info := b.split(first, last)
	mid, ok := b.cut(first, last, depth, info)
	if !ok {
		b.emitLeaf(first, last)
		t.layout[index] = node{aabb: info.AABB, right: leafNode, first: int32(first), last: int32(last)}
		return
	}
	t.balance(b, first, mid, depth+1)
	right := len(t.layout)
	t.balance(b, mid, last, depth+1)
	t.layout[index] = node{
		aabb:  t.layout[index+1].aabb.Join(t.layout[right].aabb),
		right: int32(right),
		first: int32(info.Axis),
	}
}

func checkObjectCount(n, limit int) {
	if n > limit {
		panic(errors.Errorf("cannot index %d objects, at most %d are supported", n, limit))
	}
}
