// Package mesh provides triangle meshes that index their triangles with a bounding volume
// hierarchy, so that a mesh can itself be placed in a scene level hierarchy.
package mesh

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/bvh/bvh"
	"go.viam.com/bvh/spatialmath"
)

// boxTriangles are the corner indices of two right triangles per box face. Corner i takes
// its X from Max when bit 0 is set, Y when bit 1 is set and Z when bit 2 is set.
var boxTriangles = [12][3]int{
	{0, 1, 3},
	{0, 2, 3},
	{0, 1, 5},
	{0, 4, 5},
	{0, 2, 6},
	{0, 4, 6},
	{7, 1, 3},
	{7, 2, 3},
	{7, 1, 5},
	{7, 4, 5},
	{7, 2, 6},
	{7, 4, 6},
}

// Mesh is a set of triangles. Meshes are not considered solid: a mesh is not guaranteed to
// enclose a volume, so only points on its triangles are contained by it.
type Mesh struct {
	tree  *bvh.Tree[*spatialmath.Triangle]
	label string
}

// NewMesh builds a mesh over the given triangles. The options configure the triangle tree.
func NewMesh(triangles []*spatialmath.Triangle, label string, opts ...bvh.Option) *Mesh {
	return &Mesh{
		tree:  bvh.New(triangles, bvh.NewShapeTraits[*spatialmath.Triangle](3), opts...),
		label: label,
	}
}

// NewMeshFromAABB returns the 12 triangle surface of the box.
func NewMeshFromAABB(box spatialmath.AABB, label string, opts ...bvh.Option) *Mesh {
	var corners [8]r3.Vector
	for i := range corners {
		corners[i] = box.Min
		if i&1 != 0 {
			corners[i].X = box.Max.X
		}
		if i&2 != 0 {
			corners[i].Y = box.Max.Y
		}
		if i&4 != 0 {
			corners[i].Z = box.Max.Z
		}
	}
	triangles := make([]*spatialmath.Triangle, 0, len(boxTriangles))
	for _, tri := range boxTriangles {
		triangles = append(triangles, spatialmath.NewTriangle(corners[tri[0]], corners[tri[1]], corners[tri[2]], ""))
	}
	return NewMesh(triangles, label, opts...)
}

// String returns a human readable string that represents the mesh.
func (m *Mesh) String() string {
	box := m.tree.AABB()
	return fmt.Sprintf("Type: Mesh | Triangles: %d | Bounds: %v", m.tree.Len(), box)
}

// Label returns the label of this mesh.
func (m *Mesh) Label() string {
	return m.label
}

// Triangles returns the triangles of the mesh, in tree order.
func (m *Mesh) Triangles() []*spatialmath.Triangle {
	return m.tree.Objects()
}

// Stats returns the statistics of the triangle tree.
func (m *Mesh) Stats() bvh.Stats {
	return m.tree.Stats()
}

// AABB returns the bounds of all triangles.
func (m *Mesh) AABB() spatialmath.AABB {
	return m.tree.AABB()
}

// IntersectRay returns the nearest triangle hit in [tMin, tMax).
func (m *Mesh) IntersectRay(ray spatialmath.Ray, tMin, tMax float64) (float64, bool) {
	_, t, ok := m.tree.Intersect(ray, tMin)
	if !ok || t >= tMax {
		return 0, false
	}
	return t, true
}

// ContainsPoint reports whether the point lies on one of the triangles.
func (m *Mesh) ContainsPoint(pt r3.Vector) bool {
	return m.tree.Contains(pt)
}

// SquaredDistanceToPoint returns the squared distance from pt to the nearest triangle, or
// +Inf for a mesh without triangles.
func (m *Mesh) SquaredDistanceToPoint(pt r3.Vector) float64 {
	nearest, ok := m.tree.NearestNeighbour(pt)
	if !ok {
		return math.Inf(1)
	}
	return nearest.SquaredDistance
}

// OverlapsAABB reports whether any triangle overlaps the box.
func (m *Mesh) OverlapsAABB(box spatialmath.AABB) bool {
	return !m.tree.FindAABB(box, func(*spatialmath.Triangle) bool { return false })
}

// SurfaceArea returns the total surface area of the triangles.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for _, tri := range m.tree.Objects() {
		area += tri.SurfaceArea()
	}
	return area
}
