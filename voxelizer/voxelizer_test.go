package voxelizer

import (
	"context"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/voxely/voxelize-go/math32"
)

// unitCube returns the 12 triangles of the axis-aligned cube [0,1]^3.
func unitCube() []Triangle {
	corner := func(x, y, z float32) math32.Vector3 {
		return math32.Vector3{X: x, Y: y, Z: z}
	}
	quads := [][4]math32.Vector3{
		{corner(0, 0, 0), corner(1, 0, 0), corner(1, 1, 0), corner(0, 1, 0)},
		{corner(0, 0, 1), corner(1, 0, 1), corner(1, 1, 1), corner(0, 1, 1)},
		{corner(0, 0, 0), corner(1, 0, 0), corner(1, 0, 1), corner(0, 0, 1)},
		{corner(0, 1, 0), corner(1, 1, 0), corner(1, 1, 1), corner(0, 1, 1)},
		{corner(0, 0, 0), corner(0, 1, 0), corner(0, 1, 1), corner(0, 0, 1)},
		{corner(1, 0, 0), corner(1, 1, 0), corner(1, 1, 1), corner(1, 0, 1)},
	}

	tris := make([]Triangle, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			Triangle{A: q[0], B: q[1], C: q[2]},
			Triangle{A: q[0], B: q[2], C: q[3]},
		)
	}
	return tris
}

func TestNewNegativeDepth(t *testing.T) {
	_, err := New(-1)
	require.Error(t, err)
	require.Equal(t, ErrTypeConfig, errors.Type(err))
}

func TestVoxelizeUnitCubeDepthOne(t *testing.T) {
	v, err := New(1)
	require.NoError(t, err)

	result, err := v.Voxelize(context.Background(), unitCube())
	require.NoError(t, err)
	require.False(t, result.Incomplete)
	require.Zero(t, result.SkippedTriangles)
	require.Equal(t, 1, result.Depth)

	// The cube surface crosses all 8 octants of its own bounding cube.
	require.Len(t, result.Voxels, 8)

	parentHalf := math32.Vector3{X: 0.25, Y: 0.25, Z: 0.25}
	seen := make(map[math32.Vector3]bool)
	for _, voxel := range result.Voxels {
		require.True(t, voxel.HalfExtent.Equals(parentHalf))
		require.False(t, seen[voxel.Center])
		seen[voxel.Center] = true

		// Centers sit at the 8 offsets of ±0.25 around the cube center.
		for i := 0; i < 3; i++ {
			off := math32.Abs(voxel.Center.Get(i) - 0.5)
			require.Equal(t, float32(0.25), off)
		}
	}
}

func TestVoxelizeDepthZero(t *testing.T) {
	v, err := New(0)
	require.NoError(t, err)

	result, err := v.Voxelize(context.Background(), unitCube())
	require.NoError(t, err)
	require.Len(t, result.Voxels, 1)
	require.True(t, result.Voxels[0].Center.Equals(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))
	require.True(t, result.Voxels[0].HalfExtent.Equals(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))
}

func TestVoxelizeSkipsMalformedTriangles(t *testing.T) {
	v, err := New(1)
	require.NoError(t, err)

	tris := unitCube()
	point := math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}
	tris = append(tris,
		// Coincident and collinear vertices, both inside the mesh bounds.
		Triangle{A: point, B: point, C: point},
		Triangle{A: math32.Vector3{}, B: point, C: math32.Vector3{X: 1, Y: 1, Z: 1}},
	)

	result, err := v.Voxelize(context.Background(), tris)
	require.NoError(t, err)
	require.Equal(t, 2, result.SkippedTriangles)
	require.Len(t, result.Voxels, 8)
}

func TestVoxelizeOnlyMalformedTriangles(t *testing.T) {
	v, err := New(2)
	require.NoError(t, err)

	point := math32.Vector3{X: 1, Y: 2, Z: 3}
	result, err := v.Voxelize(context.Background(), []Triangle{{A: point, B: point, C: point}})
	require.NoError(t, err)
	require.Equal(t, 1, result.SkippedTriangles)
	require.Empty(t, result.Voxels)
	require.False(t, result.Incomplete)
}

func TestVoxelizeCancelled(t *testing.T) {
	v, err := New(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := v.Voxelize(ctx, unitCube())
	require.NoError(t, err)
	require.True(t, result.Incomplete)
	require.Empty(t, result.Voxels)
}

func TestVoxelizeProgress(t *testing.T) {
	v, err := New(1)
	require.NoError(t, err)

	var calls int
	var lastDone, lastTotal int
	v.SetProgress(func(done, total int) {
		calls++
		lastDone = done
		lastTotal = total
	})

	_, err = v.Voxelize(context.Background(), unitCube())
	require.NoError(t, err)
	require.Equal(t, 12, calls)
	require.Equal(t, 12, lastDone)
	require.Equal(t, 12, lastTotal)
}

func TestVoxelizeVertices(t *testing.T) {
	v, err := New(1)
	require.NoError(t, err)

	result, err := v.VoxelizeVertices(context.Background(), unitCube())
	require.NoError(t, err)
	require.False(t, result.Incomplete)

	// The cube's 8 corners land in 8 distinct leaves, shared vertices
	// deduplicated. Corners on the outer max face are clamped inside.
	require.Len(t, result.Voxels, 8)

	half := math32.Vector3{X: 0.25, Y: 0.25, Z: 0.25}
	for _, voxel := range result.Voxels {
		require.True(t, voxel.HalfExtent.Equals(half))
	}
}

func TestVoxelizeVerticesEmpty(t *testing.T) {
	v, err := New(3)
	require.NoError(t, err)

	result, err := v.VoxelizeVertices(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, result.Voxels)
}

func TestVoxelizeLattice(t *testing.T) {
	v, err := New(0)
	require.NoError(t, err)

	tris := []Triangle{{
		A: math32.Vector3{X: 0.2, Y: 0.2, Z: 0.2},
		B: math32.Vector3{X: 0.7, Y: 0.3, Z: 0.1},
		C: math32.Vector3{X: 1.4, Y: 0.5, Z: 0.5},
	}}

	result, err := v.VoxelizeLattice(context.Background(), tris)
	require.NoError(t, err)
	require.Len(t, result.Voxels, 2)
	require.True(t, result.Voxels[0].Center.Equals(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))
	require.True(t, result.Voxels[1].Center.Equals(math32.Vector3{X: 1.5, Y: 0.5, Z: 0.5}))
	for _, voxel := range result.Voxels {
		require.True(t, voxel.HalfExtent.Equals(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))
	}
}
