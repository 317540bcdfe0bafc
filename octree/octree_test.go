package octree

import (
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/voxely/voxelize-go/math32"
)

func unitTree(t *testing.T) *OctTree {
	t.Helper()
	tree, err := New(math32.Vector3{}, math32.Vector3{X: 1, Y: 1, Z: 1})
	require.NoError(t, err)
	return tree
}

func TestNewInvalidBounds(t *testing.T) {
	_, err := New(math32.Vector3{X: 1, Y: 0, Z: 0}, math32.Vector3{X: 1, Y: 1, Z: 1})
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidBounds, errors.Type(err))

	_, err = New(math32.Vector3{X: 0, Y: 2, Z: 0}, math32.Vector3{X: 1, Y: 1, Z: 1})
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidBounds, errors.Type(err))
}

func TestContainsHalfOpen(t *testing.T) {
	tree := unitTree(t)

	require.True(t, tree.Root.Contains(math32.Vector3{}))
	require.True(t, tree.Root.Contains(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))
	require.False(t, tree.Root.Contains(math32.Vector3{X: 1, Y: 0.5, Z: 0.5}))
	require.False(t, tree.Root.Contains(math32.Vector3{X: 0.5, Y: 0.5, Z: -0.1}))
}

func TestOctantIndexBijection(t *testing.T) {
	root := unitTree(t).Root

	seen := make(map[int]bool)
	for _, x := range []float32{0.25, 0.75} {
		for _, y := range []float32{0.25, 0.75} {
			for _, z := range []float32{0.25, 0.75} {
				index := root.OctantIndex(math32.Vector3{X: x, Y: y, Z: z})
				require.GreaterOrEqual(t, index, 0)
				require.Less(t, index, 8)
				require.False(t, seen[index])
				seen[index] = true
			}
		}
	}
	require.Len(t, seen, 8)

	// Index 0 is the all-min octant, index 7 touches max on every axis.
	require.Equal(t, 0, root.OctantIndex(math32.Vector3{X: 0.25, Y: 0.25, Z: 0.25}))
	require.Equal(t, 7, root.OctantIndex(math32.Vector3{X: 0.75, Y: 0.75, Z: 0.75}))
}

func TestOctantIndexMidpointGoesUp(t *testing.T) {
	root := unitTree(t).Root
	require.Equal(t, 7, root.OctantIndex(root.Midpoint()))
	require.Equal(t, 2, root.OctantIndex(math32.Vector3{X: 0.25, Y: 0.5, Z: 0.25}))
}

func TestSubdivideChildBoxes(t *testing.T) {
	root := unitTree(t).Root
	root.Subdivide()
	require.Len(t, root.Children, 8)
	require.False(t, root.IsLeaf())

	for i, child := range root.Children {
		require.Equal(t, 1, child.Depth)
		require.True(t, child.IsLeaf())

		// The child's own midpoint maps back to its octant code.
		require.Equal(t, i, root.OctantIndex(child.Midpoint()))
	}

	first := root.Children[0]
	require.True(t, first.Min.Equals(math32.Vector3{}))
	require.True(t, first.Max.Equals(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))

	last := root.Children[7]
	require.True(t, last.Min.Equals(math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}))
	require.True(t, last.Max.Equals(math32.Vector3{X: 1, Y: 1, Z: 1}))
}

func TestSubdivideInternalNodeIsNoop(t *testing.T) {
	root := unitTree(t).Root
	root.Subdivide()
	children := root.Children
	root.Subdivide()
	require.Equal(t, children, root.Children)
}

func TestSubdivideToUniformDepth(t *testing.T) {
	tree := unitTree(t)
	tree.SubdivideTo(3)

	leaves := tree.Leaves()
	require.Len(t, leaves, 8*8*8)
	for _, leaf := range leaves {
		require.Equal(t, 3, leaf.Depth)
	}
}

func TestLocate(t *testing.T) {
	tree := unitTree(t)
	tree.SubdivideTo(2)

	leaf, err := tree.Locate(math32.Vector3{X: 0.1, Y: 0.1, Z: 0.1})
	require.NoError(t, err)
	require.Equal(t, 2, leaf.Depth)
	require.True(t, leaf.Contains(math32.Vector3{X: 0.1, Y: 0.1, Z: 0.1}))
	require.True(t, leaf.Min.Equals(math32.Vector3{}))

	// A point on an interior shared face lands in the upper cell.
	leaf, err = tree.Locate(math32.Vector3{X: 0.5, Y: 0.1, Z: 0.1})
	require.NoError(t, err)
	require.Equal(t, float32(0.5), leaf.Min.X)
}

func TestLocateOutOfBounds(t *testing.T) {
	tree := unitTree(t)
	tree.SubdivideTo(1)

	_, err := tree.Locate(math32.Vector3{X: 1.5, Y: 0.5, Z: 0.5})
	require.Error(t, err)
	require.Equal(t, ErrTypeOutOfBounds, errors.Type(err))

	// The outer max face is excluded by the half-open bounds.
	_, err = tree.Locate(math32.Vector3{X: 1, Y: 0.5, Z: 0.5})
	require.Error(t, err)
	require.Equal(t, ErrTypeOutOfBounds, errors.Type(err))
}

func TestCellSize(t *testing.T) {
	tree, err := New(math32.Vector3{X: -2, Y: -2, Z: -2}, math32.Vector3{X: 2, Y: 2, Z: 2})
	require.NoError(t, err)

	require.True(t, tree.CellSize(0).Equals(math32.Vector3{X: 4, Y: 4, Z: 4}))
	require.True(t, tree.CellSize(2).Equals(math32.Vector3{X: 1, Y: 1, Z: 1}))
}
