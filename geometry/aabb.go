package geometry

import (
	"github.com/aukilabs/go-tooling/pkg/errors"

	"github.com/voxely/voxelize-go/math32"
)

// CardinalAxes are the SAT test axes shared by every axis-aligned box.
var CardinalAxes = []math32.Vector3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
}

// AABB is an axis-aligned bounding box described by its center and half
// extents. Depth counts how many subdivisions separate it from the box it
// was originally carved out of.
type AABB struct {
	Shape

	Center math32.Vector3
	Half   math32.Vector3
	Depth  int
}

// NewAABB builds an axis-aligned box. Every half extent must be positive.
func NewAABB(center, half math32.Vector3, depth int) (*AABB, error) {
	if half.X <= 0 || half.Y <= 0 || half.Z <= 0 {
		return nil, errors.New("box half extents must be positive").
			WithType(ErrTypeInvalidGeometry).
			WithTag("half", half)
	}

	vertices := make([]math32.Vector3, 0, 8)
	for _, x := range [2]float32{center.X - half.X, center.X + half.X} {
		for _, y := range [2]float32{center.Y - half.Y, center.Y + half.Y} {
			for _, z := range [2]float32{center.Z - half.Z, center.Z + half.Z} {
				vertices = append(vertices, math32.Vector3{X: x, Y: y, Z: z})
			}
		}
	}

	return &AABB{
		Shape:  newShape(vertices, CardinalAxes),
		Center: center,
		Half:   half,
		Depth:  depth,
	}, nil
}

// Subdivide splits the box into 8 children at depth+1. The children halve
// every half extent and reposition their centers at the 8 sign combinations
// of ±half/2, so their volumes partition the parent exactly, touching only
// on shared faces.
func (b *AABB) Subdivide() []*AABB {
	children := make([]*AABB, 0, 8)
	half := b.Half.Scale(0.5)

	for _, x := range [2]float32{b.Center.X - half.X, b.Center.X + half.X} {
		for _, y := range [2]float32{b.Center.Y - half.Y, b.Center.Y + half.Y} {
			for _, z := range [2]float32{b.Center.Z - half.Z, b.Center.Z + half.Z} {
				child, _ := NewAABB(math32.Vector3{X: x, Y: y, Z: z}, half, b.Depth+1)
				children = append(children, child)
			}
		}
	}
	return children
}
