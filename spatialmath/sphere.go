package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Sphere is a solid ball. In two-dimensional scenes a sphere centered on the Z=0 plane
// acts as a disc.
type Sphere struct {
	center r3.Vector
	radius float64
	label  string
}

// NewSphere instantiates a new Sphere.
func NewSphere(center r3.Vector, radius float64, label string) (*Sphere, error) {
	if radius < 0 {
		return nil, newBadShapeDimensionsError("sphere")
	}
	return &Sphere{center: center, radius: radius, label: label}, nil
}

// String returns a human readable string that represents the sphere.
func (s *Sphere) String() string {
	return fmt.Sprintf("Type: Sphere | Position: X:%.1f, Y:%.1f, Z:%.1f | Radius: %.1f",
		s.center.X, s.center.Y, s.center.Z, s.radius)
}

// Label returns the label of this sphere.
func (s *Sphere) Label() string {
	return s.label
}

// Center returns the center of the sphere.
func (s *Sphere) Center() r3.Vector {
	return s.center
}

// Radius returns the radius of the sphere.
func (s *Sphere) Radius() float64 {
	return s.radius
}

// AABB returns the bounds of the sphere.
func (s *Sphere) AABB() AABB {
	return NewAABBFromCenter(s.center, r3.Vector{X: s.radius, Y: s.radius, Z: s.radius})
}

// IntersectRay returns the first root of the sphere equation in [tMin, tMax).
func (s *Sphere) IntersectRay(ray Ray, tMin, tMax float64) (float64, bool) {
	t0, t1, ok := s.roots(ray)
	if !ok {
		return 0, false
	}
	return firstRoot(t0, t1, tMin, tMax)
}

// roots solves |o + t*d - c|^2 = r^2, returning the two roots in order.
func (s *Sphere) roots(ray Ray) (float64, float64, bool) {
	oc := ray.Origin.Sub(s.center)
	a := ray.Direction.Norm2()
	if a == 0 {
		return 0, 0, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Norm2() - s.radius*s.radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	return (-halfB - sq) / a, (-halfB + sq) / a, true
}

// ContainsPoint reports whether the point is inside the sphere or on its surface.
func (s *Sphere) ContainsPoint(pt r3.Vector) bool {
	return pt.Sub(s.center).Norm2() <= s.radius*s.radius
}

// SquaredDistanceToPoint returns the squared distance from pt to the sphere.
func (s *Sphere) SquaredDistanceToPoint(pt r3.Vector) float64 {
	d := pt.Sub(s.center).Norm() - s.radius
	if d <= 0 {
		return 0
	}
	return d * d
}

// OverlapsAABB reports whether the sphere and the box overlap.
func (s *Sphere) OverlapsAABB(box AABB) bool {
	return box.SquaredDistanceToPoint(s.center) <= s.radius*s.radius
}

// SurfaceArea returns the area of the sphere.
func (s *Sphere) SurfaceArea() float64 {
	return 4 * math.Pi * s.radius * s.radius
}
