package bvh

import (
	"math"

	"github.com/tidwall/tinyqueue"
)

// Neighbour is an object found by a distance query along with its squared distance to the
// query point.
type Neighbour[T any] struct {
	Object          T
	SquaredDistance float64
}

// farthestFirst orders a tinyqueue so the farthest neighbour is on top.
type farthestFirst[T any] struct {
	Neighbour[T]
}

func (n *farthestFirst[T]) Less(other tinyqueue.Item) bool {
	return n.SquaredDistance > other.(*farthestFirst[T]).SquaredDistance
}

// rangeCollector keeps the maxCount closest objects within a radius. A maxCount of zero or
// less keeps every object within the radius.
type rangeCollector[T any] struct {
	queue         *tinyqueue.Queue
	squaredRadius float64
	maxCount      int
}

func newRangeCollector[T any](maxRadius float64, maxCount int) *rangeCollector[T] {
	return &rangeCollector[T]{
		queue:         tinyqueue.New(nil),
		squaredRadius: maxRadius * maxRadius,
		maxCount:      maxCount,
	}
}

func (c *rangeCollector[T]) full() bool {
	return c.maxCount > 0 && c.queue.Len() >= c.maxCount
}

func (c *rangeCollector[T]) farthest() float64 {
	return c.queue.Peek().(*farthestFirst[T]).SquaredDistance
}

// bound is the squared distance beyond which nothing can be collected any more. It shrinks
// once the collector is full.
func (c *rangeCollector[T]) bound() float64 {
	if c.full() {
		return math.Min(c.squaredRadius, c.farthest())
	}
	return c.squaredRadius
}

func (c *rangeCollector[T]) offer(obj T, squaredDistance float64) {
	if !(squaredDistance <= c.squaredRadius) {
		return
	}
	if c.full() {
		if squaredDistance >= c.farthest() {
			return
		}
		c.queue.Pop()
	}
	c.queue.Push(&farthestFirst[T]{Neighbour[T]{Object: obj, SquaredDistance: squaredDistance}})
}

// deliver hands the collected neighbours to visit, nearest first, until visit returns false.
func (c *rangeCollector[T]) deliver(visit func(Neighbour[T]) bool) {
	sorted := make([]Neighbour[T], c.queue.Len())
	for i := len(sorted) - 1; i >= 0; i-- {
		sorted[i] = c.queue.Pop().(*farthestFirst[T]).Neighbour
	}
	for _, n := range sorted {
		if !visit(n) {
			return
		}
	}
}
