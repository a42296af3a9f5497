package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBasicTriangleFunctions(t *testing.T) {
	expectedPts := []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 3, Z: 0}, {X: 3, Y: 0, Z: 0}}
	tri := NewTriangle(expectedPts[0], expectedPts[1], expectedPts[2], "tri")

	expectedNormal := r3.Vector{X: 0, Y: 0, Z: 1}
	expectedArea := 4.5
	expectedCentroid := r3.Vector{X: 1, Y: 1, Z: 0}

	t.Run("constructor", func(t *testing.T) {
		test.That(t, tri.Points(), test.ShouldResemble, expectedPts)
		// the cross product of the normal with what is expected should result in nothing
		test.That(t, tri.Normal().Cross(expectedNormal), test.ShouldResemble, r3.Vector{})
		test.That(t, tri.AABB(), test.ShouldResemble, NewAABB(r3.Vector{}, r3.Vector{X: 3, Y: 3}).Expand(floatEpsilon))
	})

	t.Run("area", func(t *testing.T) {
		test.That(t, tri.Area(), test.ShouldEqual, expectedArea)
		test.That(t, tri.SurfaceArea(), test.ShouldEqual, 2*expectedArea)
	})

	t.Run("centroid", func(t *testing.T) {
		test.That(t, tri.Centroid(), test.ShouldResemble, expectedCentroid)
	})

	t.Run("closest triangle inside point", func(t *testing.T) {
		// interior
		closestPoint, isInside := tri.ClosestInsidePoint(r3.Vector{X: 1, Y: 1, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// above vertex
		closestPoint, isInside = tri.ClosestInsidePoint(r3.Vector{X: 0, Y: 3, Z: 1})
		test.That(t, closestPoint, test.ShouldResemble, r3.Vector{X: 0, Y: 3, Z: 0})
		test.That(t, isInside, test.ShouldBeTrue)

		// outside
		_, isInside = tri.ClosestInsidePoint(r3.Vector{X: 1, Y: -1, Z: 1})
		test.That(t, isInside, test.ShouldBeFalse)
	})

	t.Run("closest point", func(t *testing.T) {
		test.That(t, tri.ClosestPointToPoint(r3.Vector{X: 1.5, Y: -1, Z: 0}), test.ShouldResemble, r3.Vector{X: 1.5, Y: 0, Z: 0})
		test.That(t, tri.ClosestPointToPoint(r3.Vector{X: -1, Y: -1, Z: 0}), test.ShouldResemble, r3.Vector{})
		test.That(t, tri.ClosestPointToCoplanarPoint(r3.Vector{X: 1, Y: 1, Z: 0}), test.ShouldResemble, r3.Vector{X: 1, Y: 1, Z: 0})
		test.That(t, tri.SquaredDistanceToPoint(r3.Vector{X: 1, Y: 1, Z: 2}), test.ShouldAlmostEqual, 4)
		test.That(t, tri.ContainsPoint(r3.Vector{X: 1, Y: 1, Z: 0}), test.ShouldBeTrue)
		test.That(t, tri.ContainsPoint(r3.Vector{X: 1, Y: 1, Z: 0.1}), test.ShouldBeFalse)
	})
}

func TestTriangleIntersectRay(t *testing.T) {
	tri := NewTriangle(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 3, Y: 0, Z: 0}, r3.Vector{X: 0, Y: 3, Z: 0}, "")

	t.Run("hit from above", func(t *testing.T) {
		hit, ok := tri.IntersectRay(NewRay(r3.Vector{X: 1, Y: 1, Z: 5}, r3.Vector{X: 0, Y: 0, Z: -1}), 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit, test.ShouldAlmostEqual, 5)
	})

	t.Run("hit from below", func(t *testing.T) {
		hit, ok := tri.IntersectRay(NewRay(r3.Vector{X: 1, Y: 1, Z: -2}, r3.Vector{X: 0, Y: 0, Z: 1}), 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, hit, test.ShouldAlmostEqual, 2)
	})

	t.Run("miss outside the edges", func(t *testing.T) {
		_, ok := tri.IntersectRay(NewRay(r3.Vector{X: 2, Y: 2, Z: 5}, r3.Vector{X: 0, Y: 0, Z: -1}), 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("parallel ray misses", func(t *testing.T) {
		_, ok := tri.IntersectRay(NewRay(r3.Vector{X: -1, Y: 1, Z: 0}, r3.Vector{X: 1, Y: 0, Z: 0}), 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("behind the origin", func(t *testing.T) {
		_, ok := tri.IntersectRay(NewRay(r3.Vector{X: 1, Y: 1, Z: 5}, r3.Vector{X: 0, Y: 0, Z: 1}), 0, math.Inf(1))
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestTriangleOverlapsAABB(t *testing.T) {
	tri := NewTriangle(r3.Vector{X: 0, Y: 0, Z: 0}, r3.Vector{X: 3, Y: 0, Z: 0}, r3.Vector{X: 0, Y: 3, Z: 0}, "")

	t.Run("box around a corner", func(t *testing.T) {
		test.That(t, tri.OverlapsAABB(NewAABB(r3.Vector{X: -1, Y: -1, Z: -1}, r3.Vector{X: 1, Y: 1, Z: 1})), test.ShouldBeTrue)
	})

	t.Run("box past the hypotenuse", func(t *testing.T) {
		// inside the triangle bounds but across the long edge
		test.That(t, tri.OverlapsAABB(NewAABB(r3.Vector{X: 2, Y: 2, Z: -1}, r3.Vector{X: 3, Y: 3, Z: 1})), test.ShouldBeFalse)
	})

	t.Run("box above the plane", func(t *testing.T) {
		test.That(t, tri.OverlapsAABB(NewAABB(r3.Vector{X: 0, Y: 0, Z: 1}, r3.Vector{X: 1, Y: 1, Z: 2})), test.ShouldBeFalse)
	})

	t.Run("box just off the plane", func(t *testing.T) {
		above := r3.Vector{X: 0.5, Y: 0.5, Z: 5e-7}
		test.That(t, tri.ContainsPoint(above), test.ShouldBeTrue)
		test.That(t, tri.AABB().ContainsPoint(above), test.ShouldBeTrue)
		test.That(t, tri.OverlapsAABB(NewAABB(above, r3.Vector{X: 1, Y: 1, Z: 1})), test.ShouldBeTrue)
		test.That(t, tri.OverlapsAABB(NewAABB(r3.Vector{X: 0.5, Y: 0.5, Z: 1e-5}, r3.Vector{X: 1, Y: 1, Z: 1})), test.ShouldBeFalse)
	})

	t.Run("box crossing the interior", func(t *testing.T) {
		test.That(t, tri.OverlapsAABB(NewAABB(r3.Vector{X: 0.5, Y: 0.5, Z: -0.1}, r3.Vector{X: 0.7, Y: 0.7, Z: 0.1})), test.ShouldBeTrue)
	})
}

func TestSegmentHelpers(t *testing.T) {
	a := r3.Vector{}
	b := r3.Vector{X: 2}
	test.That(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: 1, Y: 1}), test.ShouldResemble, r3.Vector{X: 1})
	test.That(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: -1}), test.ShouldResemble, a)
	test.That(t, ClosestPointSegmentPoint(a, b, r3.Vector{X: 5}), test.ShouldResemble, b)
	test.That(t, ClosestPointSegmentPoint(a, a, r3.Vector{X: 5}), test.ShouldResemble, a)
	test.That(t, PlaneNormal(a, b, r3.Vector{X: 4}), test.ShouldResemble, r3.Vector{})
}
