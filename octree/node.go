package octree

import (
	"github.com/voxely/voxelize-go/math32"
)

// Node is one cell of the octree. An internal node always owns exactly 8
// children ordered by octant code; a node with no children is a leaf.
type Node struct {
	Min      math32.Vector3 `json:"min"`
	Max      math32.Vector3 `json:"max"`
	Depth    int            `json:"depth"`
	Children []*Node        `json:"children,omitempty"`

	mid math32.Vector3
}

func newNode(min, max math32.Vector3, depth int) *Node {
	return &Node{
		Min:   min,
		Max:   max,
		Depth: depth,
		mid:   min.Add(max).Scale(0.5),
	}
}

// Midpoint returns the per-axis average of the node's corners, cached at
// construction.
func (node *Node) Midpoint() math32.Vector3 {
	return node.mid
}

// IsLeaf reports whether the node has no children.
func (node *Node) IsLeaf() bool {
	return len(node.Children) == 0
}

// Contains reports whether the point lies in the node's box. Bounds are
// half-open [min, max) on every axis, so a point on a face shared by two
// nodes belongs to exactly one of them.
func (node *Node) Contains(p math32.Vector3) bool {
	return p.X >= node.Min.X && p.X < node.Max.X &&
		p.Y >= node.Min.Y && p.Y < node.Max.Y &&
		p.Z >= node.Min.Z && p.Z < node.Max.Z
}

// OctantIndex returns the 3-bit child code for a point: bit k is set when
// the point's k-th component is at or above the midpoint. Index 0 is the
// (min,min,min) octant, index 7 the octant touching max on all axes.
func (node *Node) OctantIndex(p math32.Vector3) int {
	index := 0
	if p.X >= node.mid.X {
		index |= 1
	}
	if p.Y >= node.mid.Y {
		index |= 2
	}
	if p.Z >= node.mid.Z {
		index |= 4
	}
	return index
}

// Subdivide gives a leaf 8 children at depth+1. Each child's box is
// assembled per axis from {min, mid} or {mid, max} according to that
// axis's bit in the child's octant code. Subdividing an internal node is
// a no-op.
func (node *Node) Subdivide() {
	if !node.IsLeaf() {
		return
	}

	node.Children = make([]*Node, 8)
	for i := range node.Children {
		min := node.Min
		max := node.mid
		if i&1 != 0 {
			min.X = node.mid.X
			max.X = node.Max.X
		}
		if i&2 != 0 {
			min.Y = node.mid.Y
			max.Y = node.Max.Y
		}
		if i&4 != 0 {
			min.Z = node.mid.Z
			max.Z = node.Max.Z
		}
		node.Children[i] = newNode(min, max, node.Depth+1)
	}
}

func (node *Node) locate(p math32.Vector3) *Node {
	if node.IsLeaf() {
		return node
	}
	return node.Children[node.OctantIndex(p)].locate(p)
}
