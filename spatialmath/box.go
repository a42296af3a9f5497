package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Box is a solid axis-aligned rectangular prism.
type Box struct {
	aabb  AABB
	label string
}

// NewBox instantiates a new Box centered at center with the given dimensions.
// Zero dimensions are allowed, which makes flat boxes for two-dimensional scenes.
func NewBox(center, dims r3.Vector, label string) (*Box, error) {
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return nil, newBadShapeDimensionsError("box")
	}
	return &Box{
		aabb:  NewAABBFromCenter(center, dims.Mul(0.5)),
		label: label,
	}, nil
}

// NewBoxFromAABB returns the Box filling the given bounds.
func NewBoxFromAABB(bounds AABB, label string) *Box {
	return &Box{aabb: bounds, label: label}
}

// String returns a human readable string that represents the box.
func (b *Box) String() string {
	c := b.aabb.Center()
	e := b.aabb.Extent()
	return fmt.Sprintf("Type: Box | Position: X:%.1f, Y:%.1f, Z:%.1f | Dims: X:%.1f, Y:%.1f, Z:%.1f",
		c.X, c.Y, c.Z, e.X, e.Y, e.Z)
}

// Label returns the label of this box.
func (b *Box) Label() string {
	return b.label
}

// AABB returns the bounds of the box, which is the box itself.
func (b *Box) AABB() AABB {
	return b.aabb
}

// IntersectRay returns the first crossing of the box boundary at or after tMin.
func (b *Box) IntersectRay(ray Ray, tMin, tMax float64) (float64, bool) {
	t0, t1, ok := b.aabb.IntersectRay(ray, math.Inf(-1), math.Inf(1))
	if !ok {
		return 0, false
	}
	return firstRoot(t0, t1, tMin, tMax)
}

// ContainsPoint reports whether the point is inside the box or on its boundary.
func (b *Box) ContainsPoint(pt r3.Vector) bool {
	return b.aabb.ContainsPoint(pt)
}

// SquaredDistanceToPoint returns the squared distance from pt to the box.
func (b *Box) SquaredDistanceToPoint(pt r3.Vector) float64 {
	return b.aabb.SquaredDistanceToPoint(pt)
}

// OverlapsAABB reports whether the box and other overlap.
func (b *Box) OverlapsAABB(other AABB) bool {
	return b.aabb.Intersects(other)
}

// SurfaceArea returns the area of the six faces of the box.
func (b *Box) SurfaceArea() float64 {
	return b.aabb.SurfaceArea(3)
}
