package spatialmath

import "github.com/golang/geo/r3"

// Axis indices used for per-axis access on r3.Vector.
const (
	XAxis = iota
	YAxis
	ZAxis
)

// Coord returns the coordinate of v along the axis.
func Coord(v r3.Vector, axis int) float64 {
	switch axis {
	case XAxis:
		return v.X
	case YAxis:
		return v.Y
	default:
		return v.Z
	}
}

// SetCoord returns a copy of v with the coordinate along the axis replaced by value.
func SetCoord(v r3.Vector, axis int, value float64) r3.Vector {
	switch axis {
	case XAxis:
		v.X = value
	case YAxis:
		v.Y = value
	default:
		v.Z = value
	}
	return v
}
