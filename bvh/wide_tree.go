package bvh

import (
	"go.viam.com/bvh/spatialmath"
)

// WideTree is a 4-ary bounding volume hierarchy. Each node collapses two levels of binary
// splits and stores the boxes of its children one axis at a time, so that every query tests
// all children of a node together. Depth is counted in wide levels.
type WideTree[T any] struct {
	nodes   []wideNode
	box     spatialmath.AABB
	objects []T
	traits  ObjectTraits[T]
	opts    options
	stats   Stats
}

// NewWideTree builds a wide tree over the objects. The slice itself is not retained. A
// configured leaf size above MaxWideObjectsPerLeaf is lowered to it; leaves that still end up
// larger, because no useful split exists, are spread over extra nodes.
func NewWideTree[T any](objects []T, traits ObjectTraits[T], opts ...Option) *WideTree[T] {
	o := newOptions(opts)
	o.clampMaxObjectsPerLeaf(MaxWideObjectsPerLeaf)
	t := &WideTree[T]{traits: traits, opts: o}
	t.build(objects)
	return t
}

// Kind returns KindWide.
func (t *WideTree[T]) Kind() Kind {
	return KindWide
}

// AABB returns the bounds of all objects in the tree, empty for an empty tree.
func (t *WideTree[T]) AABB() spatialmath.AABB {
	return t.box
}

// IsEmpty reports whether the tree holds no objects.
func (t *WideTree[T]) IsEmpty() bool {
	return len(t.objects) == 0
}

// Len returns the number of objects in the tree.
func (t *WideTree[T]) Len() int {
	return len(t.objects)
}

// Objects returns a copy of the handles in leaf order.
func (t *WideTree[T]) Objects() []T {
	return append([]T(nil), t.objects...)
}

// Stats returns the statistics gathered when the tree was built.
func (t *WideTree[T]) Stats() Stats {
	return t.stats
}

// ResetObjects rebuilds the tree over new objects with the same configuration.
func (t *WideTree[T]) ResetObjects(objects []T) {
	t.build(objects)
}

// Reset empties the tree.
func (t *WideTree[T]) Reset() {
	t.build(nil)
}

// Swap exchanges the contents of two trees.
func (t *WideTree[T]) Swap(other *WideTree[T]) {
	*t, *other = *other, *t
}

func (t *WideTree[T]) build(objects []T) {
	checkObjectCount(len(objects), maxWideObjects)
	start := t.opts.clock.Now()
	t.nodes, t.objects, t.box = nil, nil, spatialmath.EmptyAABB()
	if len(objects) > 0 {
		wb := &wideBuilder[T]{
			builder: newBuilder(objects, t.traits, t.opts.heuristic, t.opts.config.MaxDepth),
		}
		t.box = wb.root()
		t.nodes = wb.nodes
		t.objects = wb.objects
	}

	elapsed := t.opts.clock.Since(start)
	t.stats = computeStats(KindWide, len(t.objects), t.box, t.traits.Dimension(), t.opts.config, t.VisitNodes)
	t.stats.BuildDuration = elapsed
	logBuild(t.opts.logger, t.stats)
}

// wideBuilder lays out the binary splits of the builder two levels at a time.
type wideBuilder[T any] struct {
	*builder[T]
	nodes []wideNode
}

func (wb *wideBuilder[T]) newNode() int {
	wb.nodes = append(wb.nodes, newWideNode())
	return len(wb.nodes) - 1
}

// root builds the root node, which always exists, and returns the bounds of all objects.
func (wb *wideBuilder[T]) root() spatialmath.AABB {
	last := len(wb.inputs)
	index := wb.newNode()
	info := wb.split(0, last)
	mid, ok := wb.cut(0, last, 0, info)
	if !ok {
		c := wb.leaf(0, last)
		wb.nodes[index].setLane(0, info.AABB, c)
		return info.AABB
	}
	wb.fill(index, 0, mid, last, info.Axis, 0)
	return info.AABB
}

// child returns the lane content for [first, last), whose binary depth is depth. A wide node
// spans two binary levels, so its lanes sit two levels below it.
func (wb *wideBuilder[T]) child(first, last, depth int, info SplitInfo) wideChild {
	mid, ok := wb.cut(first, last, depth, info)
	if !ok {
		return wb.leaf(first, last)
	}
	index := wb.newNode()
	wb.fill(index, first, mid, last, info.Axis, depth)
	return makeWideInternal(index)
}

// fill populates node index from a range already cut at mid along axis: the left half goes
// to lanes 0 and 1, the right half to lanes 2 and 3.
func (wb *wideBuilder[T]) fill(index, first, mid, last, axis, depth int) {
	wb.nodes[index].axes[0] = int8(axis)
	wb.fillHalf(index, 0, first, mid, depth+1)
	wb.fillHalf(index, 2, mid, last, depth+1)
}

func (wb *wideBuilder[T]) fillHalf(index, lane, first, last, depth int) {
	info := wb.split(first, last)
	mid, ok := wb.cut(first, last, depth, info)
	if !ok {
		c := wb.leaf(first, last)
		wb.nodes[index].setLane(lane, info.AABB, c)
		return
	}
	wb.nodes[index].axes[1+lane/2] = int8(info.Axis)
	for i, r := range [2][2]int{{first, mid}, {mid, last}} {
		childInfo := wb.split(r[0], r[1])
		c := wb.child(r[0], r[1], depth+1, childInfo)
		wb.nodes[index].setLane(lane+i, childInfo.AABB, c)
	}
}

// leaf emits the objects of [first, last) and references them, spreading ranges too large for
// one leaf over extra nodes.
func (wb *wideBuilder[T]) leaf(first, last int) wideChild {
	wb.emitLeaf(first, last)
	return wb.chunk(first, last)
}

func (wb *wideBuilder[T]) chunk(first, last int) wideChild {
	n := last - first
	if n <= MaxWideObjectsPerLeaf {
		return makeWideLeaf(first, n)
	}
	index := wb.newNode()
	per := (n + wideLanes - 1) / wideLanes
	for lane := 0; lane < wideLanes; lane++ {
		f := first + lane*per
		if f >= last {
			break
		}
		l := min(f+per, last)
		c := wb.chunk(f, l)
		wb.nodes[index].setLane(lane, wb.bounds(f, l), c)
	}
	return makeWideInternal(index)
}
