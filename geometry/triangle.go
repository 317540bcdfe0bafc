package geometry

import (
	"github.com/aukilabs/go-tooling/pkg/errors"

	"github.com/voxely/voxelize-go/math32"
)

// Triangle is a 3-vertex convex shape. Its SAT axis set is the face normal
// plus the cross products of each edge with each cardinal axis, with
// degenerate (zero-length) cross products discarded before normalization,
// so the axis set has variable length.
type Triangle struct {
	Shape

	A math32.Vector3
	B math32.Vector3
	C math32.Vector3

	Normal math32.Vector3
}

// NewTriangle builds a triangle from three vertices. Vertices that are
// coincident or collinear span no area and yield no face normal; they are
// rejected instead of producing NaN axes.
func NewTriangle(a, b, c math32.Vector3) (*Triangle, error) {
	f0 := b.Sub(a)
	f1 := c.Sub(b)
	f2 := a.Sub(c)

	normal, err := f0.Cross(f1).Normalize()
	if err != nil {
		return nil, errors.New("triangle has zero area").
			WithType(ErrTypeInvalidGeometry).
			Wrap(err)
	}

	axes := make([]math32.Vector3, 0, 10)
	axes = append(axes, orient(normal))
	for _, edge := range []math32.Vector3{f0, f1, f2} {
		for _, cardinal := range CardinalAxes {
			cross := cardinal.Cross(edge).Canonical()
			if cross.IsZero() {
				continue
			}
			axis, _ := cross.Normalize()
			axes = append(axes, orient(axis))
		}
	}

	return &Triangle{
		Shape:  newShape([]math32.Vector3{a, b, c}, axes),
		A:      a,
		B:      b,
		C:      c,
		Normal: normal,
	}, nil
}
