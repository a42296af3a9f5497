package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// floatEpsilon is the tolerance used when deciding whether a point lies on a shape without volume.
const floatEpsilon = 1e-6

// Shape is a bounded object that can be indexed by a bounding volume hierarchy.
type Shape interface {
	fmt.Stringer

	// Label returns the name given to the shape, if any.
	Label() string

	// AABB returns the tightest axis-aligned box around the shape. Shapes that match points
	// within floatEpsilon report a box grown by floatEpsilon, so every point they contain or
	// hit lies inside it.
	AABB() AABB

	// IntersectRay returns the smallest ray parameter t with tMin <= t < tMax at which the ray
	// meets the surface of the shape.
	IntersectRay(ray Ray, tMin, tMax float64) (float64, bool)

	// ContainsPoint reports whether the point is inside the shape. Shapes without volume
	// contain the points lying on them.
	ContainsPoint(pt r3.Vector) bool

	// SquaredDistanceToPoint returns the squared distance from the point to the shape, zero
	// when the shape contains the point.
	SquaredDistanceToPoint(pt r3.Vector) float64

	// OverlapsAABB reports whether the shape and the box share at least one point.
	OverlapsAABB(box AABB) bool

	// SurfaceArea returns the area of the shape boundary.
	SurfaceArea() float64
}

func newBadShapeDimensionsError(shapeType string) error {
	return errors.Errorf("invalid dimension(s) for shape type %q", shapeType)
}

// firstRoot picks the smallest of two ordered ray parameters that lies in [tMin, tMax).
func firstRoot(t0, t1, tMin, tMax float64) (float64, bool) {
	if t0 >= tMin && t0 < tMax {
		return t0, true
	}
	if t1 >= tMin && t1 < tMax {
		return t1, true
	}
	return 0, false
}
