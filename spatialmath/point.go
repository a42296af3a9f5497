package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Point is a shape with no extent.
type Point struct {
	position r3.Vector
	label    string
}

// NewPoint instantiates a new Point.
func NewPoint(pt r3.Vector, label string) *Point {
	return &Point{position: pt, label: label}
}

// String returns a human readable string that represents the point.
func (p *Point) String() string {
	return fmt.Sprintf("Type: Point | Position: X:%.1f, Y:%.1f, Z:%.1f", p.position.X, p.position.Y, p.position.Z)
}

// Label returns the label of this point.
func (p *Point) Label() string {
	return p.label
}

// Position returns the location of the point.
func (p *Point) Position() r3.Vector {
	return p.position
}

// AABB returns the cube of half width floatEpsilon around the point.
func (p *Point) AABB() AABB {
	return AABB{Min: p.position, Max: p.position}.Expand(floatEpsilon)
}

// IntersectRay reports a hit when the ray passes within floatEpsilon of the point.
func (p *Point) IntersectRay(ray Ray, tMin, tMax float64) (float64, bool) {
	a := ray.Direction.Norm2()
	if a == 0 {
		return 0, false
	}
	t := p.position.Sub(ray.Origin).Dot(ray.Direction) / a
	if t < tMin || t >= tMax {
		return 0, false
	}
	if ray.At(t).Sub(p.position).Norm2() > floatEpsilon*floatEpsilon {
		return 0, false
	}
	return t, true
}

// ContainsPoint reports whether pt coincides with the point.
func (p *Point) ContainsPoint(pt r3.Vector) bool {
	return pt.Sub(p.position).Norm2() <= floatEpsilon*floatEpsilon
}

// SquaredDistanceToPoint returns the squared distance between the two points.
func (p *Point) SquaredDistanceToPoint(pt r3.Vector) float64 {
	return pt.Sub(p.position).Norm2()
}

// OverlapsAABB reports whether the point lies within floatEpsilon of the box.
func (p *Point) OverlapsAABB(box AABB) bool {
	return !box.IsEmpty() && box.SquaredDistanceToPoint(p.position) <= floatEpsilon*floatEpsilon
}

// SurfaceArea of a point is zero.
func (p *Point) SurfaceArea() float64 {
	return 0
}
