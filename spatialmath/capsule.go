package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// capsuleSearchSteps bounds the golden section search along the capsule segment.
const capsuleSearchSteps = 64

// Capsule is a solid swept sphere: every point within radius of the segment between its two
// endpoints.
//
// ....___________________
// .../                   \
// .x|  |-------O-------|  |x
// ...\___________________/
//
// Length is the distance between the x's, or internal segment length + 2*radius.
type Capsule struct {
	segA   r3.Vector
	segB   r3.Vector
	radius float64
	label  string
}

// NewCapsule instantiates a new Capsule centered at center and lying along axis. Length is
// measured tip to tip, and so cannot be less than twice the radius.
func NewCapsule(center, axis r3.Vector, radius, length float64, label string) (*Capsule, error) {
	if radius < 0 || length < 0 {
		return nil, newBadShapeDimensionsError("capsule")
	}
	if length < radius*2 {
		return nil, newBadCapsuleLengthError(length, radius)
	}
	half := r3.Vector{}
	if n := axis.Norm(); n > 0 {
		half = axis.Mul((length/2 - radius) / n)
	}
	return &Capsule{segA: center.Sub(half), segB: center.Add(half), radius: radius, label: label}, nil
}

// NewCapsuleFromSegment returns the capsule of the given radius around the segment [a, b].
func NewCapsuleFromSegment(a, b r3.Vector, radius float64, label string) (*Capsule, error) {
	if radius < 0 {
		return nil, newBadShapeDimensionsError("capsule")
	}
	return &Capsule{segA: a, segB: b, radius: radius, label: label}, nil
}

func newBadCapsuleLengthError(length, radius float64) error {
	return errors.Errorf("capsule length %.2f cannot be less than twice its radius %.2f", length, radius)
}

// String returns a human readable string that represents the capsule.
func (c *Capsule) String() string {
	return fmt.Sprintf("Type: Capsule | A: X:%.1f, Y:%.1f, Z:%.1f | B: X:%.1f, Y:%.1f, Z:%.1f | Radius: %.1f",
		c.segA.X, c.segA.Y, c.segA.Z, c.segB.X, c.segB.Y, c.segB.Z, c.radius)
}

// Label returns the label of this capsule.
func (c *Capsule) Label() string {
	return c.label
}

// Segment returns the endpoints of the capsule's inner segment.
func (c *Capsule) Segment() (r3.Vector, r3.Vector) {
	return c.segA, c.segB
}

// Radius returns the radius of the capsule.
func (c *Capsule) Radius() float64 {
	return c.radius
}

// AABB returns the bounds of the capsule.
func (c *Capsule) AABB() AABB {
	r := r3.Vector{X: c.radius, Y: c.radius, Z: c.radius}
	b := NewAABB(c.segA, c.segB)
	return AABB{Min: b.Min.Sub(r), Max: b.Max.Add(r)}
}

// IntersectRay returns the first crossing of the capsule surface in [tMin, tMax). The surface
// is made of the cylinder around the segment and the two end spheres.
func (c *Capsule) IntersectRay(ray Ray, tMin, tMax float64) (float64, bool) {
	d := c.segB.Sub(c.segA)
	dd := d.Norm2()
	best := math.Inf(1)
	consider := func(t float64) {
		if t >= tMin && t < tMax && t < best {
			best = t
		}
	}
	along := func(t float64) float64 {
		if dd == 0 {
			return 0
		}
		return ray.At(t).Sub(c.segA).Dot(d) / dd
	}

	if dd > 0 {
		m := ray.Origin.Sub(c.segA)
		md, nd := m.Dot(d), ray.Direction.Dot(d)
		a := dd*ray.Direction.Norm2() - nd*nd
		b := dd*m.Dot(ray.Direction) - nd*md
		k := dd*(m.Norm2()-c.radius*c.radius) - md*md
		if disc := b*b - a*k; a != 0 && disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / a, (-b + sq) / a} {
				if s := along(t); s >= 0 && s <= 1 {
					consider(t)
				}
			}
		}
	}

	for i, end := range [2]r3.Vector{c.segA, c.segB} {
		ball := Sphere{center: end, radius: c.radius}
		t0, t1, ok := ball.roots(ray)
		if !ok {
			continue
		}
		for _, t := range [2]float64{t0, t1} {
			s := along(t)
			if (i == 0 && s <= 0) || (i == 1 && s >= 1) {
				consider(t)
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// ContainsPoint reports whether the point is inside the capsule or on its surface.
func (c *Capsule) ContainsPoint(pt r3.Vector) bool {
	return pt.Sub(ClosestPointSegmentPoint(c.segA, c.segB, pt)).Norm2() <= c.radius*c.radius
}

// SquaredDistanceToPoint returns the squared distance from pt to the capsule.
func (c *Capsule) SquaredDistanceToPoint(pt r3.Vector) float64 {
	d := pt.Sub(ClosestPointSegmentPoint(c.segA, c.segB, pt)).Norm() - c.radius
	if d <= 0 {
		return 0
	}
	return d * d
}

// OverlapsAABB reports whether the capsule and the box overlap. The distance from a point of
// the segment to the box is convex along the segment, so its minimum is found by a golden
// section search.
func (c *Capsule) OverlapsAABB(box AABB) bool {
	if box.IsEmpty() || !c.AABB().Intersects(box) {
		return false
	}
	r2 := c.radius * c.radius
	dist := func(s float64) float64 {
		return box.SquaredDistanceToPoint(c.segA.Add(c.segB.Sub(c.segA).Mul(s)))
	}
	if dist(0) <= r2 || dist(1) <= r2 {
		return true
	}
	invPhi := (math.Sqrt(5) - 1) / 2
	lo, hi := 0., 1.
	x1, x2 := hi-invPhi*(hi-lo), lo+invPhi*(hi-lo)
	f1, f2 := dist(x1), dist(x2)
	for i := 0; i < capsuleSearchSteps; i++ {
		if f1 <= r2 || f2 <= r2 {
			return true
		}
		if f1 < f2 {
			hi, x2, f2 = x2, x1, f1
			x1 = hi - invPhi*(hi-lo)
			f1 = dist(x1)
		} else {
			lo, x1, f1 = x1, x2, f2
			x2 = lo + invPhi*(hi-lo)
			f2 = dist(x2)
		}
	}
	return math.Min(f1, f2) <= r2
}

// SurfaceArea returns the area of the cylinder side plus the two hemispherical ends.
func (c *Capsule) SurfaceArea() float64 {
	return 2*math.Pi*c.radius*c.segB.Sub(c.segA).Norm() + 4*math.Pi*c.radius*c.radius
}
