package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func unitBoxAt(x, y, z float64) AABB {
	return NewAABBFromCenter(r3.Vector{X: x, Y: y, Z: z}, r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
}

func TestAABBBasics(t *testing.T) {
	t.Run("empty box", func(t *testing.T) {
		empty := EmptyAABB()
		test.That(t, empty.IsEmpty(), test.ShouldBeTrue)
		test.That(t, empty.Extent(), test.ShouldResemble, r3.Vector{})
		test.That(t, empty.SurfaceArea(3), test.ShouldEqual, 0)
		test.That(t, empty.ContainsPoint(r3.Vector{}), test.ShouldBeFalse)
	})

	t.Run("join with empty is identity", func(t *testing.T) {
		b := unitBoxAt(1, 2, 3)
		test.That(t, EmptyAABB().Join(b), test.ShouldResemble, b)
		test.That(t, b.Join(EmptyAABB()), test.ShouldResemble, b)
	})

	t.Run("join and join point", func(t *testing.T) {
		b := unitBoxAt(0, 0, 0).Join(unitBoxAt(2, 0, 0))
		test.That(t, b.Min, test.ShouldResemble, r3.Vector{X: -0.5, Y: -0.5, Z: -0.5})
		test.That(t, b.Max, test.ShouldResemble, r3.Vector{X: 2.5, Y: 0.5, Z: 0.5})
		b = b.JoinPoint(r3.Vector{Y: 4})
		test.That(t, b.Max.Y, test.ShouldEqual, 4)
	})

	t.Run("corner order does not matter", func(t *testing.T) {
		test.That(t, NewAABB(r3.Vector{X: 1, Y: 1, Z: 1}, r3.Vector{}), test.ShouldResemble,
			AABB{Min: r3.Vector{}, Max: r3.Vector{X: 1, Y: 1, Z: 1}})
		flat := NewAABB2(r2.Point{X: 2, Y: -1}, r2.Point{X: -2, Y: 1})
		test.That(t, flat.Min, test.ShouldResemble, r3.Vector{X: -2, Y: -1})
		test.That(t, flat.Max, test.ShouldResemble, r3.Vector{X: 2, Y: 1})
	})

	t.Run("surface area per dimension", func(t *testing.T) {
		b := NewAABB(r3.Vector{}, r3.Vector{X: 1, Y: 2, Z: 3})
		test.That(t, b.SurfaceArea(1), test.ShouldEqual, 1)
		test.That(t, b.SurfaceArea(2), test.ShouldEqual, 6)
		test.That(t, b.SurfaceArea(3), test.ShouldEqual, 22)
	})

	t.Run("longest axis", func(t *testing.T) {
		b := NewAABB(r3.Vector{}, r3.Vector{X: 1, Y: 2, Z: 3})
		test.That(t, b.LongestAxis(3), test.ShouldEqual, ZAxis)
		test.That(t, b.LongestAxis(2), test.ShouldEqual, YAxis)
		test.That(t, unitBoxAt(0, 0, 0).LongestAxis(3), test.ShouldEqual, XAxis)
	})
}

func TestAABBOverlap(t *testing.T) {
	t.Run("identical boxes overlap", func(t *testing.T) {
		test.That(t, unitBoxAt(0, 0, 0).Intersects(unitBoxAt(0, 0, 0)), test.ShouldBeTrue)
	})

	t.Run("adjacent boxes overlap (touching faces)", func(t *testing.T) {
		test.That(t, unitBoxAt(0, 0, 0).Intersects(unitBoxAt(1, 0, 0)), test.ShouldBeTrue)
	})

	t.Run("separated boxes", func(t *testing.T) {
		test.That(t, unitBoxAt(0, 0, 0).Intersects(unitBoxAt(1.5, 0, 0)), test.ShouldBeFalse)
		test.That(t, unitBoxAt(0, 0, 0).Intersects(unitBoxAt(0, 1.5, 0)), test.ShouldBeFalse)
		test.That(t, unitBoxAt(0, 0, 0).Intersects(unitBoxAt(0, 0, 1.5)), test.ShouldBeFalse)
	})

	t.Run("touching boxes do not share interior", func(t *testing.T) {
		test.That(t, unitBoxAt(0, 0, 0).OverlapsInterior(unitBoxAt(1, 0, 0), 3), test.ShouldBeFalse)
		test.That(t, unitBoxAt(0, 0, 0).OverlapsInterior(unitBoxAt(0.9, 0, 0), 3), test.ShouldBeTrue)
		flat := NewAABB2(r2.Point{X: -1, Y: -1}, r2.Point{X: 1, Y: 1})
		test.That(t, flat.OverlapsInterior(NewAABB2(r2.Point{}, r2.Point{X: 2, Y: 2}), 2), test.ShouldBeTrue)
		test.That(t, flat.OverlapsInterior(NewAABB2(r2.Point{}, r2.Point{X: 2, Y: 2}), 3), test.ShouldBeFalse)
	})

	t.Run("empty box overlaps nothing", func(t *testing.T) {
		test.That(t, unitBoxAt(0, 0, 0).Intersects(EmptyAABB()), test.ShouldBeFalse)
	})

	t.Run("one box contains other", func(t *testing.T) {
		outer := NewAABBFromCenter(r3.Vector{}, r3.Vector{X: 5, Y: 5, Z: 5})
		test.That(t, outer.ContainsAABB(unitBoxAt(1, 1, 1)), test.ShouldBeTrue)
		test.That(t, unitBoxAt(1, 1, 1).ContainsAABB(outer), test.ShouldBeFalse)
		test.That(t, outer.Intersects(unitBoxAt(1, 1, 1)), test.ShouldBeTrue)
	})
}

func TestAABBDistance(t *testing.T) {
	b := unitBoxAt(0, 0, 0)
	t.Run("inside has zero distance", func(t *testing.T) {
		test.That(t, b.SquaredDistanceToPoint(r3.Vector{X: 0.2}), test.ShouldEqual, 0)
		test.That(t, b.ClosestPoint(r3.Vector{X: 0.2}), test.ShouldResemble, r3.Vector{X: 0.2})
	})

	t.Run("separated along X axis", func(t *testing.T) {
		test.That(t, b.SquaredDistanceToPoint(r3.Vector{X: 2.5}), test.ShouldEqual, 4)
	})

	t.Run("separated diagonally", func(t *testing.T) {
		test.That(t, b.SquaredDistanceToPoint(r3.Vector{X: 1.5, Y: 1.5, Z: 1.5}), test.ShouldEqual, 3)
		test.That(t, b.ClosestPoint(r3.Vector{X: 1.5, Y: 1.5, Z: 1.5}), test.ShouldResemble,
			r3.Vector{X: 0.5, Y: 0.5, Z: 0.5})
	})
}

func TestAABBIntersectRay(t *testing.T) {
	b := unitBoxAt(0, 0, 0)

	t.Run("hit from outside", func(t *testing.T) {
		ray := NewRay(r3.Vector{X: -10}, r3.Vector{X: 1})
		tNear, tFar, ok := b.IntersectRay(ray, 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, tNear, test.ShouldAlmostEqual, 9.5)
		test.That(t, tFar, test.ShouldAlmostEqual, 10.5)
	})

	t.Run("interval is clipped", func(t *testing.T) {
		ray := NewRay(r3.Vector{X: -10}, r3.Vector{X: 1})
		_, _, ok := b.IntersectRay(ray, 0, 9)
		test.That(t, ok, test.ShouldBeFalse)
		_, _, ok = b.IntersectRay(ray, 11, 20)
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("miss", func(t *testing.T) {
		ray := NewRay(r3.Vector{X: -10, Y: 2}, r3.Vector{X: 1})
		_, _, ok := b.IntersectRay(ray, 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("ray pointing away", func(t *testing.T) {
		ray := NewRay(r3.Vector{X: -10}, r3.Vector{X: -1})
		_, _, ok := b.IntersectRay(ray, 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("ray lying in a face plane", func(t *testing.T) {
		ray := NewRay(r3.Vector{X: -10, Y: 0.5}, r3.Vector{X: 1})
		tNear, _, ok := b.IntersectRay(ray, 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, tNear, test.ShouldAlmostEqual, 9.5)
	})

	t.Run("flat box", func(t *testing.T) {
		flat := NewAABB2(r2.Point{X: -1, Y: -1}, r2.Point{X: 1, Y: 1})
		ray := NewRay(r3.Vector{Y: -5}, r3.Vector{Y: 1})
		tNear, _, ok := flat.IntersectRay(ray, 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, tNear, test.ShouldAlmostEqual, 4)
	})

	t.Run("empty box is never hit", func(t *testing.T) {
		ray := NewRay(r3.Vector{X: -10}, r3.Vector{X: 1})
		_, _, ok := EmptyAABB().IntersectRay(ray, 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestAxisAccess(t *testing.T) {
	v := r3.Vector{X: 1, Y: 2, Z: 3}
	test.That(t, Coord(v, XAxis), test.ShouldEqual, 1)
	test.That(t, Coord(v, YAxis), test.ShouldEqual, 2)
	test.That(t, Coord(v, ZAxis), test.ShouldEqual, 3)
	test.That(t, SetCoord(v, YAxis, 7), test.ShouldResemble, r3.Vector{X: 1, Y: 7, Z: 3})
	test.That(t, v.Y, test.ShouldEqual, 2)
}
