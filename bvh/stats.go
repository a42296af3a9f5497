package bvh

import (
	"time"

	"github.com/montanaflynn/stats"

	"go.viam.com/bvh/logging"
	"go.viam.com/bvh/spatialmath"
)

// NodeInfo describes one node of a tree, as handed out by VisitNodes. In a wide tree every
// populated leaf slot is reported as its own leaf at the depth of the node holding it.
type NodeInfo struct {
	AABB    spatialmath.AABB
	Depth   int
	Leaf    bool
	Objects int
}

// Stats summarizes the shape of a built tree.
type Stats struct {
	Kind           Kind
	Objects        int
	Nodes          int
	Leaves         int
	MaxDepth       int
	MeanLeafSize   float64
	StdDevLeafSize float64
	MaxLeafSize    int
	MeanLeafDepth  float64
	BuildDuration  time.Duration
	// SAHCost is the surface area heuristic cost of the whole tree, with node areas taken
	// relative to the root.
	SAHCost float64
}

func computeStats(
	kind Kind,
	objects int,
	root spatialmath.AABB,
	dim int,
	conf Config,
	visitNodes func(func(NodeInfo) bool),
) Stats {
	s := Stats{Kind: kind, Objects: objects}
	if objects == 0 {
		return s
	}
	var sizes, depths stats.Float64Data
	rootArea := root.SurfaceArea(dim)
	visitNodes(func(info NodeInfo) bool {
		s.Nodes++
		if info.Depth > s.MaxDepth {
			s.MaxDepth = info.Depth
		}
		ratio := 1.
		if rootArea > 0 {
			ratio = info.AABB.SurfaceArea(dim) / rootArea
		}
		if !info.Leaf {
			s.SAHCost += conf.CostNode * ratio
			return true
		}
		s.Leaves++
		s.SAHCost += conf.CostObject * float64(info.Objects) * ratio
		sizes = append(sizes, float64(info.Objects))
		depths = append(depths, float64(info.Depth))
		return true
	})

	// Errors are only returned for empty inputs.
	s.MeanLeafSize, _ = sizes.Mean()
	s.StdDevLeafSize, _ = sizes.StandardDeviation()
	maxSize, _ := sizes.Max()
	s.MaxLeafSize = int(maxSize)
	s.MeanLeafDepth, _ = depths.Mean()
	return s
}

func logBuild(logger logging.Logger, s Stats) {
	logger.Debugw("built bounding volume hierarchy",
		"kind", string(s.Kind),
		"objects", s.Objects,
		"nodes", s.Nodes,
		"leaves", s.Leaves,
		"max_depth", s.MaxDepth,
		"max_leaf_size", s.MaxLeafSize,
		"duration", s.BuildDuration,
	)
}
