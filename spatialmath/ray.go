package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Ray is a half line starting at Origin. Points along the ray are Origin + t*Direction.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// NewRay returns a ray with a unit length direction, so that the ray parameter t measures
// distance from the origin. A zero direction is kept as is.
func NewRay(origin, direction r3.Vector) Ray {
	if n := direction.Norm(); n > 0 {
		direction = direction.Mul(1 / n)
	}
	return Ray{Origin: origin, Direction: direction}
}

// String returns a human readable string that represents the ray.
func (r Ray) String() string {
	return fmt.Sprintf("Ray: Origin: X:%.3f, Y:%.3f, Z:%.3f | Direction: X:%.3f, Y:%.3f, Z:%.3f",
		r.Origin.X, r.Origin.Y, r.Origin.Z, r.Direction.X, r.Direction.Y, r.Direction.Z)
}

// Support returns the support point of the ray, its origin.
func (r Ray) Support() r3.Vector {
	return r.Origin
}

// At returns the point of the ray at parameter t.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// RayInverse holds a ray origin together with the per-axis reciprocal of its direction.
// Zero direction components map to signed infinities.
type RayInverse struct {
	Origin r3.Vector
	Inv    r3.Vector
}

// Inverse precomputes the reciprocal direction used by slab tests.
func (r Ray) Inverse() RayInverse {
	return RayInverse{
		Origin: r.Origin,
		Inv:    r3.Vector{X: 1 / r.Direction.X, Y: 1 / r.Direction.Y, Z: 1 / r.Direction.Z},
	}
}

// DirectionSign reports whether the ray direction is non-negative along the axis.
func (r Ray) DirectionSign(axis int) bool {
	return Coord(r.Direction, axis) >= 0
}
