package bvh

import (
	"go.viam.com/bvh/spatialmath"
)

// builder holds the state shared by the recursive constructions of all tree layouts.
// The inputs are permuted in place and never reallocated.
type builder[T any] struct {
	inputs    []Input[T]
	objects   []T
	heuristic SplitHeuristic
	dim       int
	maxDepth  int
}

func newBuilder[T any](objects []T, traits ObjectTraits[T], heuristic SplitHeuristic, maxDepth int) *builder[T] {
	checkMaxObjectsPerLeaf(heuristic.MaxObjectsPerLeaf())
	inputs := make([]Input[T], len(objects))
	for i, obj := range objects {
		inputs[i] = Input[T]{AABB: traits.ObjectAABB(obj), Object: obj}
	}
	return &builder[T]{
		inputs:    inputs,
		objects:   make([]T, len(objects)),
		heuristic: heuristic,
		dim:       traits.Dimension(),
		maxDepth:  maxDepth,
	}
}

func (b *builder[T]) split(first, last int) SplitInfo {
	return b.heuristic.Split(inputSlice[T](b.inputs[first:last]), b.dim)
}

// partition moves the inputs whose centre along the split axis is at most the split position
// to the front of [first, last) and returns the index of the first input that stayed behind.
func (b *builder[T]) partition(first, last int, info SplitInfo) int {
	mid := first
	for i := first; i < last; i++ {
		if centerCoord(b.inputs[i].AABB, info.Axis) <= info.Position {
			b.inputs[mid], b.inputs[i] = b.inputs[i], b.inputs[mid]
			mid++
		}
	}
	return mid
}

// cut partitions the range as the heuristic asked. ok is false when the range must become a
// leaf: the heuristic said so, the depth budget is spent, or every input fell on one side.
func (b *builder[T]) cut(first, last, depth int, info SplitInfo) (mid int, ok bool) {
	if info.IsLeaf() || depth >= b.maxDepth {
		return first, false
	}
	mid = b.partition(first, last, info)
	if mid == first || mid == last {
		return mid, false
	}
	return mid, true
}

// emitLeaf copies the handles of [first, last) to the output slice.
func (b *builder[T]) emitLeaf(first, last int) {
	for i := first; i < last; i++ {
		b.objects[i] = b.inputs[i].Object
	}
}

func (b *builder[T]) bounds(first, last int) spatialmath.AABB {
	return unionAABB(inputSlice[T](b.inputs[first:last]))
}
