package bvh

import (
	"cmp"
	"slices"

	"go.viam.com/bvh/spatialmath"
)

// Default surface area heuristic costs.
const (
	DefaultCostNode   = 1.
	DefaultCostObject = 4.
)

// SAHSplitHeuristic picks the cut minimizing the surface area heuristic cost
//
//	2*costNode + (area(left)*count(left) + area(right)*count(right)) * costObject / area(range)
//
// over every cut between object centres along every axis. A range whose best cut is no cheaper
// than one leaf, costObject*count, becomes a leaf.
type SAHSplitHeuristic struct {
	maxObjectsPerLeaf int
	costNode          float64
	costObject        float64
}

// NewSAHSplitHeuristic returns a SAHSplitHeuristic. It panics if maxObjectsPerLeaf < 1.
func NewSAHSplitHeuristic(maxObjectsPerLeaf int, costNode, costObject float64) *SAHSplitHeuristic {
	checkMaxObjectsPerLeaf(maxObjectsPerLeaf)
	return &SAHSplitHeuristic{
		maxObjectsPerLeaf: maxObjectsPerLeaf,
		costNode:          costNode,
		costObject:        costObject,
	}
}

// MaxObjectsPerLeaf returns the largest range turned into a leaf without trying to split.
func (h *SAHSplitHeuristic) MaxObjectsPerLeaf() int {
	return h.maxObjectsPerLeaf
}

// Split evaluates all cuts and returns the cheapest, or a leaf when none pays off.
func (h *SAHSplitHeuristic) Split(inputs Inputs, dim int) SplitInfo {
	n := inputs.Len()
	box := unionAABB(inputs)
	if n <= h.maxObjectsPerLeaf {
		return leafSplit(box)
	}
	// Coincident or collinear objects have nothing to weigh the cuts by.
	totalArea := box.SurfaceArea(dim)
	if !(totalArea > 0) {
		return leafSplit(box)
	}

	order := make([]int, n)
	centers := make([]float64, n)
	leftArea := make([]float64, n)
	best := leafSplit(box)
	bestCost := float64(n) * h.costObject
	for axis := spatialmath.XAxis; axis < dim && axis <= spatialmath.ZAxis; axis++ {
		for i := range order {
			order[i] = i
			centers[i] = centerCoord(inputs.AABB(i), axis)
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return cmp.Compare(centers[a], centers[b])
		})

		// leftArea[k] is the area of the first k objects.
		left := spatialmath.EmptyAABB()
		for k := 1; k < n; k++ {
			left = left.Join(inputs.AABB(order[k-1]))
			leftArea[k] = left.SurfaceArea(dim)
		}

		right := spatialmath.EmptyAABB()
		for k := n - 1; k >= 1; k-- {
			right = right.Join(inputs.AABB(order[k]))
			cLeft, cRight := centers[order[k-1]], centers[order[k]]
			// The builder cannot separate equal centres.
			if !(cLeft < cRight) {
				continue
			}
			cost := 2*h.costNode +
				(leftArea[k]*float64(k)+right.SurfaceArea(dim)*float64(n-k))*h.costObject/totalArea
			if cost < bestCost {
				bestCost = cost
				best = SplitInfo{AABB: box, Position: cutPosition(cLeft, cRight), Axis: axis}
			}
		}
	}
	return best
}

// cutPosition returns a position p with cLeft <= p < cRight.
func cutPosition(cLeft, cRight float64) float64 {
	pos := cLeft*0.5 + cRight*0.5
	if pos >= cRight || pos < cLeft {
		return cLeft
	}
	return pos
}
