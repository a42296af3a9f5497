package bvh

import (
	"go.viam.com/bvh/spatialmath"
)

// LeafAxis is the SplitInfo axis telling the builder not to split.
const LeafAxis = -1

// SplitInfo is the decision of a SplitHeuristic for a range of inputs.
type SplitInfo struct {
	// AABB is the exact union of the boxes of the range.
	AABB spatialmath.AABB
	// Position is where the range is cut: inputs whose box centre along Axis is at most
	// Position go left.
	Position float64
	// Axis is the axis to cut along, or LeafAxis.
	Axis int
}

// IsLeaf reports whether the range should become a leaf.
func (si SplitInfo) IsLeaf() bool {
	return si.Axis == LeafAxis
}

func leafSplit(box spatialmath.AABB) SplitInfo {
	return SplitInfo{AABB: box, Axis: LeafAxis}
}

// Input pairs an object handle with its bounds during construction.
type Input[T any] struct {
	AABB   spatialmath.AABB
	Object T
}

// Inputs is a read-only view of a range of inputs handed to a SplitHeuristic.
type Inputs interface {
	Len() int
	AABB(i int) spatialmath.AABB
}

type inputSlice[T any] []Input[T]

func (in inputSlice[T]) Len() int {
	return len(in)
}

func (in inputSlice[T]) AABB(i int) spatialmath.AABB {
	return in[i].AABB
}

// SplitHeuristic decides whether a range of inputs becomes a leaf or where it is cut.
// Implementations must not keep references to the inputs after Split returns.
type SplitHeuristic interface {
	Split(inputs Inputs, dim int) SplitInfo
	MaxObjectsPerLeaf() int
}

// unionAABB returns the union of the boxes of all inputs.
func unionAABB(inputs Inputs) spatialmath.AABB {
	box := spatialmath.EmptyAABB()
	for i := 0; i < inputs.Len(); i++ {
		box = box.Join(inputs.AABB(i))
	}
	return box
}

func centerCoord(box spatialmath.AABB, axis int) float64 {
	return (spatialmath.Coord(box.Min, axis) + spatialmath.Coord(box.Max, axis)) * 0.5
}

func checkMaxObjectsPerLeaf(maxObjectsPerLeaf int) {
	if maxObjectsPerLeaf < 1 {
		panic(newBadMaxObjectsPerLeafError(maxObjectsPerLeaf))
	}
}
