package geometry

import (
	"github.com/voxely/voxelize-go/math32"
)

// ErrTypeInvalidGeometry tags errors caused by degenerate input geometry,
// such as a zero-area triangle or a box with a non-positive half extent.
const ErrTypeInvalidGeometry = "invalid_geometry"

// Shape is a generalized convex shape: an ordered collection of vertices
// with cached per-axis extents and a subtype-specific set of test axes
// used by the separating axis theorem.
type Shape struct {
	vertices []math32.Vector3
	axes     []math32.Vector3

	min math32.Vector3
	max math32.Vector3
}

func newShape(vertices, axes []math32.Vector3) Shape {
	s := Shape{vertices: vertices, axes: axes}

	s.min = vertices[0]
	s.max = vertices[0]
	for _, v := range vertices[1:] {
		s.min.X = math32.Min(s.min.X, v.X)
		s.min.Y = math32.Min(s.min.Y, v.Y)
		s.min.Z = math32.Min(s.min.Z, v.Z)
		s.max.X = math32.Max(s.max.X, v.X)
		s.max.Y = math32.Max(s.max.Y, v.Y)
		s.max.Z = math32.Max(s.max.Z, v.Z)
	}
	return s
}

// Vertices returns the shape's vertices in construction order.
func (s *Shape) Vertices() []math32.Vector3 {
	return s.vertices
}

// Axes returns the shape's SAT test axes.
func (s *Shape) Axes() []math32.Vector3 {
	return s.axes
}

// Bounds returns the cached minimum and maximum corner of the shape.
func (s *Shape) Bounds() (math32.Vector3, math32.Vector3) {
	return s.min, s.max
}

// Project projects the shape onto the given axis and returns the minimum
// and maximum of the projected vertices.
func (s *Shape) Project(axis math32.Vector3) (float32, float32) {
	min := axis.Dot(s.vertices[0])
	max := min
	for _, v := range s.vertices[1:] {
		p := axis.Dot(v)
		if p < min {
			min = p
		} else if p > max {
			max = p
		}
	}
	return min, max
}

// QuickReject reports whether intersection with the other shape is
// impossible, using only the cached bounding extents.
func (s *Shape) QuickReject(other *Shape) bool {
	if s.max.X < other.min.X || s.min.X > other.max.X {
		return true
	}
	if s.max.Y < other.min.Y || s.min.Y > other.max.Y {
		return true
	}
	if s.max.Z < other.min.Z || s.min.Z > other.max.Z {
		return true
	}
	return false
}

// Intersects reports whether this shape intersects the other one. The test
// is exact for convex shape pairs: if the projections overlap on every axis
// of both shapes' axis sets, no separating axis exists.
func (s *Shape) Intersects(other *Shape) bool {
	if s.QuickReject(other) {
		return false
	}

	for _, axis := range s.axes {
		min0, max0 := s.Project(axis)
		min1, max1 := other.Project(axis)
		if !overlaps(min0, max0, min1, max1) {
			return false
		}
	}
	for _, axis := range other.axes {
		min0, max0 := s.Project(axis)
		min1, max1 := other.Project(axis)
		if !overlaps(min0, max0, min1, max1) {
			return false
		}
	}
	return true
}

// orient flips an axis when needed so that its first nonzero component is
// positive. Separation is direction-invariant, but the half-open overlap
// rule below is not: the axis direction decides which of two touching cells
// claims a shape lying exactly on their shared plane, so every test axis
// must point the same way.
func orient(axis math32.Vector3) math32.Vector3 {
	switch {
	case axis.X != 0:
		if axis.X < 0 {
			axis = axis.Scale(-1)
		}
	case axis.Y != 0:
		if axis.Y < 0 {
			axis = axis.Scale(-1)
		}
	case axis.Z < 0:
		axis = axis.Scale(-1)
	}
	return axis.Canonical()
}

// overlaps reports whether the two projection ranges share interior under
// half-open [min,max) semantics. Ranges touching only at a single shared
// endpoint do not overlap; a degenerate range is a point and lands in the
// range whose half-open interval contains it. This is what assigns a
// boundary-plane triangle to exactly one of two sibling cells.
func overlaps(min0, max0, min1, max1 float32) bool {
	if min0 == max0 {
		if min1 == max1 {
			return min0 == min1
		}
		return min1 <= min0 && min0 < max1
	}
	if min1 == max1 {
		return min0 <= min1 && min1 < max0
	}
	return min0 < max1 && min1 < max0
}
