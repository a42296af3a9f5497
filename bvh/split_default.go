package bvh

// DefaultSplitHeuristic cuts a range at the midpoint of the longest axis of its bounds.
type DefaultSplitHeuristic struct {
	maxObjectsPerLeaf int
}

// NewDefaultSplitHeuristic returns a DefaultSplitHeuristic. It panics if maxObjectsPerLeaf < 1.
func NewDefaultSplitHeuristic(maxObjectsPerLeaf int) *DefaultSplitHeuristic {
	checkMaxObjectsPerLeaf(maxObjectsPerLeaf)
	return &DefaultSplitHeuristic{maxObjectsPerLeaf: maxObjectsPerLeaf}
}

// MaxObjectsPerLeaf returns the largest range turned into a leaf without trying to split.
func (h *DefaultSplitHeuristic) MaxObjectsPerLeaf() int {
	return h.maxObjectsPerLeaf
}

// Split returns a leaf for small ranges and otherwise the midpoint of the longest axis.
func (h *DefaultSplitHeuristic) Split(inputs Inputs, dim int) SplitInfo {
	box := unionAABB(inputs)
	if inputs.Len() <= h.maxObjectsPerLeaf {
		return leafSplit(box)
	}
	axis := box.LongestAxis(dim)
	return SplitInfo{AABB: box, Position: centerCoord(box, axis), Axis: axis}
}
