package octree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"

	"github.com/voxely/voxelize-go/math32"
)

const (
	// ErrTypeInvalidBounds tags errors from constructing a tree whose box
	// has no volume.
	ErrTypeInvalidBounds = "invalid_bounds"

	// ErrTypeOutOfBounds tags errors from locating a point outside the
	// root volume.
	ErrTypeOutOfBounds = "out_of_bounds"
)

// OctTree recursively subdivides an axis-aligned box into octants. The tree
// owns its root and each node exclusively owns its subtree.
type OctTree struct {
	Root *Node `json:"root"`
}

// New builds a tree spanning [min, max) with a single leaf at depth 0. The
// box must have positive extent on every axis.
func New(min, max math32.Vector3) (*OctTree, error) {
	if min.X >= max.X || min.Y >= max.Y || min.Z >= max.Z {
		return nil, errors.New("octree bounds must have positive extent on every axis").
			WithType(ErrTypeInvalidBounds).
			WithTag("min", min).
			WithTag("max", max)
	}
	return &OctTree{Root: newNode(min, max, 0)}, nil
}

// SubdivideTo expands the tree breadth-first until every leaf sits at
// exactly the given depth.
func (tree *OctTree) SubdivideTo(depth int) {
	queue := []*Node{tree.Root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		if node.Depth >= depth {
			continue
		}
		node.Subdivide()
		queue = append(queue, node.Children...)
	}
}

// Locate descends from the root to the leaf whose half-open box holds the
// point.
func (tree *OctTree) Locate(p math32.Vector3) (*Node, error) {
	if !tree.Root.Contains(p) {
		return nil, errors.New("point is outside the octree volume").
			WithType(ErrTypeOutOfBounds).
			WithTag("point", p)
	}
	return tree.Root.locate(p), nil
}

// Leaves returns every leaf of the tree in octant order.
func (tree *OctTree) Leaves() []*Node {
	var leaves []*Node
	var walk func(node *Node)
	walk = func(node *Node) {
		if node.IsLeaf() {
			leaves = append(leaves, node)
			return
		}
		for _, child := range node.Children {
			walk(child)
		}
	}
	walk(tree.Root)
	return leaves
}

// CellSize returns the edge lengths of a leaf cell at the given depth.
func (tree *OctTree) CellSize(depth int) math32.Vector3 {
	size := tree.Root.Max.Sub(tree.Root.Min)
	return size.Scale(1 / float32(int(1)<<depth))
}
