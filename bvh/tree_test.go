package bvh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.viam.com/test"

	"go.viam.com/bvh/spatialmath"
)

var allKinds = []Kind{KindBinary, KindPlane, KindWide}

var allHeuristics = []HeuristicType{HeuristicDefault, HeuristicSAH}

func lessAABB(a, b spatialmath.AABB) bool {
	for _, pair := range [][2]float64{
		{a.Min.X, b.Min.X}, {a.Min.Y, b.Min.Y}, {a.Min.Z, b.Min.Z},
		{a.Max.X, b.Max.X}, {a.Max.Y, b.Max.Y}, {a.Max.Z, b.Max.Z},
	} {
		if pair[0] != pair[1] {
			return pair[0] < pair[1]
		}
	}
	return false
}

// sameBoxes compares two box collections as multisets.
func sameBoxes(t *testing.T, got, want []spatialmath.AABB) {
	t.Helper()
	diff := cmp.Diff(want, got, cmpopts.SortSlices(lessAABB), cmpopts.EquateEmpty())
	test.That(t, diff, test.ShouldEqual, "")
}

func rowOfBoxes2D(n int) []spatialmath.AABB {
	boxes := make([]spatialmath.AABB, n)
	for i := range boxes {
		x := float64(i)
		boxes[i] = spatialmath.NewAABB2(r2.Point{X: x - 0.5, Y: -0.5}, r2.Point{X: x + 0.5, Y: 0.5})
	}
	return boxes
}

func rowOfBoxes3D(n int) []spatialmath.AABB {
	boxes := make([]spatialmath.AABB, n)
	for i := range boxes {
		boxes[i] = spatialmath.NewAABBFromCenter(r3.Vector{X: float64(i)}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
	}
	return boxes
}

func randomVector(rng *rand.Rand, lo, hi float64) r3.Vector {
	return r3.Vector{
		X: lo + rng.Float64()*(hi-lo),
		Y: lo + rng.Float64()*(hi-lo),
		Z: lo + rng.Float64()*(hi-lo),
	}
}

func randomBoxes(rng *rand.Rand, n int) []spatialmath.AABB {
	boxes := make([]spatialmath.AABB, n)
	for i := range boxes {
		boxes[i] = spatialmath.NewAABBFromCenter(randomVector(rng, 0, 100), randomVector(rng, 0, 2.5))
	}
	return boxes
}

func randomRay(rng *rand.Rand) spatialmath.Ray {
	origin := randomVector(rng, -20, 120)
	target := randomVector(rng, 0, 100)
	return spatialmath.NewRay(origin, target.Sub(origin))
}

func buildIndex[T any](t *testing.T, kind Kind, objects []T, traits ObjectTraits[T], opts ...Option) Index[T] {
	t.Helper()
	index, err := NewIndex(kind, objects, traits, opts...)
	test.That(t, err, test.ShouldBeNil)
	return index
}

func TestScenarios(t *testing.T) {
	for _, kind := range allKinds {
		for _, heuristic := range allHeuristics {
			conf := Config{MaxObjectsPerLeaf: 1, Heuristic: heuristic}
			name := string(kind) + "/" + string(heuristic)

			t.Run("find box in row of 2d boxes "+name, func(t *testing.T) {
				boxes := rowOfBoxes2D(7)
				index := buildIndex[spatialmath.AABB](t, kind, boxes, AABBTraits{Dim: 2}, WithConfig(conf))
				query := spatialmath.NewAABB2(r2.Point{X: 1.5, Y: -1}, r2.Point{X: 3.5, Y: 1})
				sameBoxes(t, CollectAABB(index, query), []spatialmath.AABB{boxes[2], boxes[3]})
			})

			t.Run("nearest ray hit in row of 3d boxes "+name, func(t *testing.T) {
				boxes := rowOfBoxes3D(7)
				index := buildIndex[spatialmath.AABB](t, kind, boxes, AABBTraits{}, WithConfig(conf))
				ray := spatialmath.NewRay(r3.Vector{X: -10}, r3.Vector{X: 1})
				hit, dist, ok := index.Intersect(ray, 0)
				test.That(t, ok, test.ShouldBeTrue)
				test.That(t, hit, test.ShouldResemble, boxes[0])
				test.That(t, dist, test.ShouldAlmostEqual, 9.5)
			})

			t.Run("nearest ray hit on box shapes "+name, func(t *testing.T) {
				shapes := make([]*spatialmath.Box, 7)
				for i := range shapes {
					box, err := spatialmath.NewBox(r3.Vector{X: float64(i)}, r3.Vector{X: 1, Y: 1, Z: 1}, "box")
					test.That(t, err, test.ShouldBeNil)
					shapes[i] = box
				}
				index := buildIndex[*spatialmath.Box](t, kind, shapes, NewShapeTraits[*spatialmath.Box](3), WithConfig(conf))
				ray := spatialmath.NewRay(r3.Vector{X: -10}, r3.Vector{X: 1})
				hit, dist, ok := index.Intersect(ray, 0)
				test.That(t, ok, test.ShouldBeTrue)
				test.That(t, hit, test.ShouldEqual, shapes[0])
				test.That(t, dist, test.ShouldAlmostEqual, 9.5)

				// The last box is left behind at t = 16.5.
				_, _, ok = index.Intersect(ray, 17)
				test.That(t, ok, test.ShouldBeFalse)
				test.That(t, index.Intersects(ray, 0, 9.5), test.ShouldBeFalse)
				test.That(t, index.Intersects(ray, 0, 9.6), test.ShouldBeTrue)
			})
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	ray := spatialmath.NewRay(r3.Vector{X: -10}, r3.Vector{X: 1})
	for _, kind := range allKinds {
		t.Run("empty "+string(kind), func(t *testing.T) {
			index := buildIndex[spatialmath.AABB](t, kind, nil, AABBTraits{})
			test.That(t, index.IsEmpty(), test.ShouldBeTrue)
			test.That(t, index.Len(), test.ShouldEqual, 0)
			test.That(t, index.Kind(), test.ShouldEqual, kind)
			test.That(t, index.AABB().IsEmpty(), test.ShouldBeTrue)
			test.That(t, index.Contains(r3.Vector{}), test.ShouldBeFalse)
			test.That(t, CollectPoint(index, r3.Vector{}), test.ShouldBeEmpty)
			test.That(t, CollectAABB(index, spatialmath.NewAABBFromCenter(r3.Vector{}, r3.Vector{X: 1, Y: 1, Z: 1})),
				test.ShouldBeEmpty)
			test.That(t, CollectRay(index, ray, 0, math.Inf(1)), test.ShouldBeEmpty)
			test.That(t, index.Intersects(ray, 0, math.Inf(1)), test.ShouldBeFalse)
			_, _, ok := index.Intersect(ray, 0)
			test.That(t, ok, test.ShouldBeFalse)
			_, ok = index.NearestNeighbour(r3.Vector{})
			test.That(t, ok, test.ShouldBeFalse)
			test.That(t, RangeSearchSlice(index, r3.Vector{}, 10, 0), test.ShouldBeEmpty)
			test.That(t, index.Stats().Objects, test.ShouldEqual, 0)
			test.That(t, index.Stats().Nodes, test.ShouldEqual, 0)
		})

		t.Run("single object is one leaf at depth zero "+string(kind), func(t *testing.T) {
			box := spatialmath.NewAABBFromCenter(r3.Vector{X: 1}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
			index := buildIndex[spatialmath.AABB](t, kind, []spatialmath.AABB{box}, AABBTraits{})
			stats := index.Stats()
			test.That(t, stats.Leaves, test.ShouldEqual, 1)
			test.That(t, stats.MaxDepth, test.ShouldEqual, 0)
			test.That(t, stats.MaxLeafSize, test.ShouldEqual, 1)
			test.That(t, index.AABB(), test.ShouldResemble, box)

			var leaves []NodeInfo
			index.VisitNodes(func(info NodeInfo) bool {
				if info.Leaf {
					leaves = append(leaves, info)
				}
				return true
			})
			test.That(t, leaves, test.ShouldHaveLength, 1)
			test.That(t, leaves[0].Depth, test.ShouldEqual, 0)
			test.That(t, leaves[0].AABB, test.ShouldResemble, box)
		})

		t.Run("coincident points become one oversized leaf "+string(kind), func(t *testing.T) {
			pt := r3.Vector{X: 1, Y: 2, Z: 3}
			points := make([]spatialmath.AABB, 10)
			for i := range points {
				points[i] = spatialmath.NewAABB(pt, pt)
			}
			index := buildIndex[spatialmath.AABB](t, kind, points, AABBTraits{},
				WithConfig(Config{Heuristic: HeuristicSAH, MaxObjectsPerLeaf: 1}))
			stats := index.Stats()
			test.That(t, stats.Leaves, test.ShouldEqual, 1)
			test.That(t, stats.MaxLeafSize, test.ShouldEqual, 10)
			test.That(t, CollectPoint(index, pt), test.ShouldHaveLength, 10)
		})

		t.Run("coincident points under the default heuristic "+string(kind), func(t *testing.T) {
			pt := r3.Vector{X: 1, Y: 2, Z: 3}
			points := make([]spatialmath.AABB, 40)
			for i := range points {
				points[i] = spatialmath.NewAABB(pt, pt)
			}
			index := buildIndex[spatialmath.AABB](t, kind, points, AABBTraits{},
				WithConfig(Config{Heuristic: HeuristicDefault, MaxObjectsPerLeaf: 1}))
			test.That(t, CollectPoint(index, pt), test.ShouldHaveLength, 40)
			test.That(t, index.Contains(pt.Add(r3.Vector{X: 1})), test.ShouldBeFalse)
			nearest, ok := index.NearestNeighbour(r3.Vector{})
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, nearest.SquaredDistance, test.ShouldEqual, pt.Norm2())
		})
	}

	t.Run("wide tree spreads oversized leaves over nodes", func(t *testing.T) {
		pt := r3.Vector{X: 1, Y: 2, Z: 3}
		points := make([]spatialmath.AABB, 40)
		for i := range points {
			points[i] = spatialmath.NewAABB(pt, pt)
		}
		index := NewWideTree[spatialmath.AABB](points, AABBTraits{})
		stats := index.Stats()
		test.That(t, stats.Leaves, test.ShouldEqual, 4)
		test.That(t, stats.MaxLeafSize, test.ShouldEqual, 10)
		test.That(t, stats.Objects, test.ShouldEqual, 40)
	})

	t.Run("depth budget", func(t *testing.T) {
		boxes := rowOfBoxes3D(20)
		for _, kind := range allKinds {
			index := buildIndex[spatialmath.AABB](t, kind, boxes, AABBTraits{},
				WithConfig(Config{MaxObjectsPerLeaf: 1}), WithHeuristic(NewDefaultSplitHeuristic(1)))
			test.That(t, index.Stats().MaxDepth, test.ShouldBeLessThanOrEqualTo, DefaultMaxDepth)
			test.That(t, CollectPoint(index, r3.Vector{X: 7}), test.ShouldHaveLength, 1)
		}
		shallow := New[spatialmath.AABB](boxes, AABBTraits{}, WithConfig(Config{MaxObjectsPerLeaf: 1, MaxDepth: 1}))
		test.That(t, shallow.Stats().MaxDepth, test.ShouldEqual, 1)
		test.That(t, shallow.Stats().Leaves, test.ShouldEqual, 2)
		test.That(t, CollectPoint[spatialmath.AABB](shallow, r3.Vector{X: 19}), test.ShouldHaveLength, 1)
	})

	t.Run("depth budget holds for every layout", func(t *testing.T) {
		boxes := rowOfBoxes3D(20)
		for _, budget := range []int{1, 2, 3, 4} {
			conf := Config{MaxObjectsPerLeaf: 1, MaxDepth: budget}
			binary := buildIndex[spatialmath.AABB](t, KindBinary, boxes, AABBTraits{}, WithConfig(conf))
			plane := buildIndex[spatialmath.AABB](t, KindPlane, boxes, AABBTraits{}, WithConfig(conf))
			wide := buildIndex[spatialmath.AABB](t, KindWide, boxes, AABBTraits{}, WithConfig(conf))

			test.That(t, binary.Stats().MaxDepth, test.ShouldEqual, budget)
			test.That(t, plane.Stats().MaxDepth, test.ShouldEqual, budget)
			// a wide node holds two binary levels
			test.That(t, wide.Stats().MaxDepth, test.ShouldBeLessThanOrEqualTo, budget/2)

			// the same cuts are made whatever the layout
			test.That(t, plane.Stats().Leaves, test.ShouldEqual, binary.Stats().Leaves)
			test.That(t, wide.Stats().Leaves, test.ShouldEqual, binary.Stats().Leaves)
			test.That(t, wide.Stats().MaxLeafSize, test.ShouldEqual, binary.Stats().MaxLeafSize)

			for _, index := range []Index[spatialmath.AABB]{binary, plane, wide} {
				sameBoxes(t, index.Objects(), boxes)
				for i := range boxes {
					test.That(t, CollectPoint(index, r3.Vector{X: float64(i)}), test.ShouldHaveLength, 1)
				}
			}
		}

		wide := NewWideTree[spatialmath.AABB](boxes, AABBTraits{}, WithConfig(Config{MaxObjectsPerLeaf: 1, MaxDepth: 1}))
		test.That(t, wide.Stats().MaxDepth, test.ShouldEqual, 0)
		test.That(t, wide.Stats().Leaves, test.ShouldEqual, 2)
		test.That(t, wide.Stats().MaxLeafSize, test.ShouldEqual, 10)
	})

	t.Run("leaf size below one panics", func(t *testing.T) {
		test.That(t, func() { NewDefaultSplitHeuristic(0) }, test.ShouldPanic)
		test.That(t, func() { NewSAHSplitHeuristic(-1, 1, 1) }, test.ShouldPanic)
	})
}

// checkBinaryNodes verifies the box of every leaf is the exact union of its objects and the box
// of every internal node covers its children.
func checkBinaryNodes(t *testing.T, tree *Tree[spatialmath.AABB], maxDepth int) {
	t.Helper()
	var check func(index int32, depth int)
	check = func(index int32, depth int) {
		n := tree.layout[index]
		test.That(t, depth, test.ShouldBeLessThanOrEqualTo, maxDepth)
		if n.right == leafNode {
			union := spatialmath.EmptyAABB()
			for _, obj := range tree.objects[n.first:n.last] {
				union = union.Join(obj)
			}
			test.That(t, n.aabb, test.ShouldResemble, union)
			return
		}
		test.That(t, n.aabb.ContainsAABB(tree.layout[index+1].aabb), test.ShouldBeTrue)
		test.That(t, n.aabb.ContainsAABB(tree.layout[n.right].aabb), test.ShouldBeTrue)
		check(index+1, depth+1)
		check(n.right, depth+1)
	}
	check(0, 0)
}

func TestBinaryTreeLayout(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	boxes := randomBoxes(rng, 500)
	for _, heuristic := range allHeuristics {
		for _, leafSize := range []int{1, 4} {
			tree := New[spatialmath.AABB](boxes, AABBTraits{},
				WithConfig(Config{Heuristic: heuristic, MaxObjectsPerLeaf: leafSize, MaxDepth: 20}))
			checkBinaryNodes(t, tree, 20)
			sameBoxes(t, tree.Objects(), boxes)

			stats := tree.Stats()
			test.That(t, stats.Objects, test.ShouldEqual, len(boxes))
			test.That(t, stats.Nodes, test.ShouldEqual, 2*stats.Leaves-1)
			test.That(t, stats.MeanLeafSize*float64(stats.Leaves), test.ShouldAlmostEqual, float64(len(boxes)))
		}
	}

	t.Run("random points respect the leaf size under the default heuristic", func(t *testing.T) {
		points := make([]spatialmath.AABB, 300)
		for i := range points {
			pt := randomVector(rng, 0, 100)
			points[i] = spatialmath.NewAABB(pt, pt)
		}
		tree := New[spatialmath.AABB](points, AABBTraits{},
			WithConfig(Config{Heuristic: HeuristicDefault, MaxObjectsPerLeaf: 3}))
		test.That(t, tree.Stats().MaxLeafSize, test.ShouldBeLessThanOrEqualTo, 3)
	})

	t.Run("plane tree stores the same splits", func(t *testing.T) {
		conf := WithConfig(Config{Heuristic: HeuristicSAH, MaxObjectsPerLeaf: 2})
		tree := New[spatialmath.AABB](boxes, AABBTraits{}, conf)
		plane := NewPlaneTree[spatialmath.AABB](boxes, AABBTraits{}, conf)
		test.That(t, plane.Objects(), test.ShouldResemble, tree.Objects())
		test.That(t, plane.AABB(), test.ShouldResemble, tree.AABB())
		test.That(t, plane.Stats().Leaves, test.ShouldEqual, tree.Stats().Leaves)
		test.That(t, plane.Stats().MaxDepth, test.ShouldEqual, tree.Stats().MaxDepth)
		// Clipped boxes are never smaller than the exact ones.
		test.That(t, plane.Stats().SAHCost, test.ShouldBeGreaterThanOrEqualTo, tree.Stats().SAHCost-1e-9)
	})
}

func TestLifecycle(t *testing.T) {
	small := rowOfBoxes3D(3)
	large := rowOfBoxes3D(5)

	t.Run("binary", func(t *testing.T) {
		a := New[spatialmath.AABB](small, AABBTraits{})
		b := New[spatialmath.AABB](large, AABBTraits{})
		a.Swap(b)
		test.That(t, a.Len(), test.ShouldEqual, 5)
		test.That(t, b.Len(), test.ShouldEqual, 3)
		test.That(t, a.Contains(r3.Vector{X: 4}), test.ShouldBeTrue)
		test.That(t, b.Contains(r3.Vector{X: 4}), test.ShouldBeFalse)

		a.Reset()
		test.That(t, a.IsEmpty(), test.ShouldBeTrue)
		test.That(t, a.Contains(r3.Vector{X: 4}), test.ShouldBeFalse)
		a.ResetObjects(large)
		test.That(t, a.Len(), test.ShouldEqual, 5)
		test.That(t, a.Contains(r3.Vector{X: 4}), test.ShouldBeTrue)
	})

	t.Run("plane", func(t *testing.T) {
		a := NewPlaneTree[spatialmath.AABB](small, AABBTraits{})
		b := NewPlaneTree[spatialmath.AABB](large, AABBTraits{})
		a.Swap(b)
		test.That(t, a.Len(), test.ShouldEqual, 5)
		test.That(t, b.AABB(), test.ShouldResemble, spatialmath.NewAABB(r3.Vector{X: -0.5, Y: -0.5, Z: -0.5}, r3.Vector{X: 2.5, Y: 0.5, Z: 0.5}))
		a.Reset()
		test.That(t, a.IsEmpty(), test.ShouldBeTrue)
		test.That(t, a.AABB().IsEmpty(), test.ShouldBeTrue)
	})

	t.Run("wide", func(t *testing.T) {
		a := NewWideTree[spatialmath.AABB](small, AABBTraits{})
		b := NewWideTree[spatialmath.AABB](large, AABBTraits{})
		a.Swap(b)
		test.That(t, a.Len(), test.ShouldEqual, 5)
		test.That(t, b.Len(), test.ShouldEqual, 3)
		a.ResetObjects(nil)
		test.That(t, a.IsEmpty(), test.ShouldBeTrue)
		_, _, ok := a.Intersect(spatialmath.NewRay(r3.Vector{X: -10}, r3.Vector{X: 1}), 0)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("objects returns a copy", func(t *testing.T) {
		tree := New[spatialmath.AABB](small, AABBTraits{})
		objs := tree.Objects()
		objs[0] = spatialmath.EmptyAABB()
		test.That(t, tree.Objects()[0].IsEmpty(), test.ShouldBeFalse)
	})
}

func TestVisitorStops(t *testing.T) {
	boxes := rowOfBoxes3D(20)
	everything := spatialmath.NewAABBFromCenter(r3.Vector{X: 10}, r3.Vector{X: 100, Y: 100, Z: 100})
	for _, kind := range allKinds {
		index := buildIndex[spatialmath.AABB](t, kind, boxes, AABBTraits{}, WithConfig(Config{MaxObjectsPerLeaf: 1}))
		visited := 0
		completed := index.FindAABB(everything, func(spatialmath.AABB) bool {
			visited++
			return visited < 3
		})
		test.That(t, completed, test.ShouldBeFalse)
		test.That(t, visited, test.ShouldEqual, 3)

		completed = index.FindAABB(everything, func(spatialmath.AABB) bool { return true })
		test.That(t, completed, test.ShouldBeTrue)

		seen := 0
		index.RangeSearch(r3.Vector{}, 100, 0, func(Neighbour[spatialmath.AABB]) bool {
			seen++
			return seen < 5
		})
		test.That(t, seen, test.ShouldEqual, 5)
	}
}

func TestNewIndex(t *testing.T) {
	boxes := rowOfBoxes3D(4)
	index, err := NewIndex[spatialmath.AABB]("", boxes, AABBTraits{}, WithConfig(Config{Kind: KindWide}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, index.Kind(), test.ShouldEqual, KindWide)

	index, err = NewIndex[spatialmath.AABB]("", boxes, AABBTraits{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, index.Kind(), test.ShouldEqual, KindBinary)

	_, err = NewIndex[spatialmath.AABB]("octree", boxes, AABBTraits{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown tree kind")
}
