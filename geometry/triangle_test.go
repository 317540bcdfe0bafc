package geometry

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/voxely/voxelize-go/math32"
)

func TestNewTriangleCoincidentVertices(t *testing.T) {
	v := math32.Vector3{X: 1, Y: 2, Z: 3}
	_, err := NewTriangle(v, v, math32.Vector3{X: 4, Y: 5, Z: 6})
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidGeometry, errors.Type(err))
}

func TestNewTriangleCollinearVertices(t *testing.T) {
	_, err := NewTriangle(
		math32.Vector3{X: 0, Y: 0, Z: 0},
		math32.Vector3{X: 1, Y: 1, Z: 1},
		math32.Vector3{X: 2, Y: 2, Z: 2},
	)
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidGeometry, errors.Type(err))
}

func TestTriangleAxes(t *testing.T) {
	// Axis-aligned right triangle in the z=0 plane. Each edge parallel to a
	// cardinal axis loses one degenerate cross product.
	tri, err := NewTriangle(
		math32.Vector3{X: 0, Y: 0, Z: 0},
		math32.Vector3{X: 1, Y: 0, Z: 0},
		math32.Vector3{X: 0, Y: 1, Z: 0},
	)
	require.NoError(t, err)

	require.True(t, tri.Normal.Equals(math32.Vector3{Z: 1}))
	for _, axis := range tri.Axes() {
		require.False(t, axis.IsZero())
		require.InDelta(t, 1.0, float64(axis.Length()), 1e-6)
	}
	// Normal plus 7 surviving edge crosses (two of nine are degenerate).
	require.Len(t, tri.Axes(), 8)
}

func TestTriangleAxesGeneric(t *testing.T) {
	tri, err := NewTriangle(
		math32.Vector3{X: 0.3, Y: 0.1, Z: 0.7},
		math32.Vector3{X: 1.2, Y: 0.4, Z: 0.2},
		math32.Vector3{X: 0.5, Y: 1.1, Z: 0.9},
	)
	require.NoError(t, err)

	// No edge is cardinal-parallel, so all nine crosses survive.
	require.Len(t, tri.Axes(), 10)
	for _, axis := range tri.Axes() {
		require.False(t, axis.IsZero())
	}
}
