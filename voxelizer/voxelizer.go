package voxelizer

import (
	"context"

	"github.com/aukilabs/go-tooling/pkg/errors"

	"github.com/voxely/voxelize-go/geometry"
	"github.com/voxely/voxelize-go/math32"
	"github.com/voxely/voxelize-go/octree"
)

// ErrTypeConfig tags errors caused by invalid driver configuration.
const ErrTypeConfig = "config_error"

// Triangle is an input triangle in world space.
type Triangle struct {
	A math32.Vector3 `json:"a"`
	B math32.Vector3 `json:"b"`
	C math32.Vector3 `json:"c"`
}

// Voxel is one occupied cell of the subdivided volume.
type Voxel struct {
	Center     math32.Vector3 `json:"center"`
	HalfExtent math32.Vector3 `json:"half_extent"`
}

// Result is the outcome of one voxelization pass. Voxels are deduplicated.
// Incomplete is set when the pass was cancelled and the voxel list only
// covers the work done so far.
type Result struct {
	Voxels           []Voxel `json:"voxels"`
	SkippedTriangles int     `json:"skipped_triangles"`
	Incomplete       bool    `json:"incomplete"`
	Depth            int     `json:"depth"`
}

// ProgressFunc receives the number of processed work units (triangles or
// vertices) out of the total, once per unit.
type ProgressFunc func(done, total int)

// Voxelizer discretizes triangle meshes into occupied cells at a fixed
// subdivision depth. All per-pass state is call-scoped, so a Voxelizer may
// be reused across passes.
type Voxelizer struct {
	depth    int
	progress ProgressFunc
}

// New builds a voxelizer subdividing to the given depth. Depth 0 leaves the
// volume as a single cell.
func New(depth int) (*Voxelizer, error) {
	if depth < 0 {
		return nil, errors.New("subdivision depth cannot be negative").
			WithType(ErrTypeConfig).
			WithTag("depth", depth)
	}
	return &Voxelizer{depth: depth}, nil
}

// SetProgress installs an optional progress callback invoked once per outer
// unit of work.
func (v *Voxelizer) SetProgress(fn ProgressFunc) {
	v.progress = fn
}

// Voxelize runs the grid algorithm: the mesh bounds are expanded to a cube
// using the largest half extent, the cube is subdivided uniformly and every
// triangle is SAT-tested against the leaf cells that are not yet occupied.
// Zero-area triangles are skipped and counted. Cancelling the context
// returns the cells accumulated so far, marked incomplete.
func (v *Voxelizer) Voxelize(ctx context.Context, triangles []Triangle) (*Result, error) {
	result := &Result{Depth: v.depth}
	if len(triangles) == 0 {
		return result, nil
	}

	vertices := make([]math32.Vector3, 0, len(triangles)*3)
	for _, t := range triangles {
		vertices = append(vertices, t.A, t.B, t.C)
	}
	min, max := bounds(vertices)
	center := min.Add(max).Scale(0.5)
	size := max.Sub(min).Scale(0.5)
	h := math32.Max(size.X, math32.Max(size.Y, size.Z))
	if h == 0 {
		// Every vertex coincides: nothing spans any volume.
		result.SkippedTriangles = len(triangles)
		return result, nil
	}

	cube, err := geometry.NewAABB(center, math32.Vector3{X: h, Y: h, Z: h}, 0)
	if err != nil {
		return nil, err
	}
	leaves := v.cells(cube)
	occupied := make(map[math32.Vector3]bool, len(leaves))

	// Geometry exactly on the cube's outer max face has no upper cell to
	// land in under the half-open rule, so it is nudged inside.
	_, cubeMax := cube.Bounds()

	for done, t := range triangles {
		select {
		case <-ctx.Done():
			result.Incomplete = true
			return result, nil
		default:
		}

		tri, err := geometry.NewTriangle(
			clampBelow(t.A, cubeMax),
			clampBelow(t.B, cubeMax),
			clampBelow(t.C, cubeMax),
		)
		if err != nil {
			result.SkippedTriangles++
			continue
		}

		for _, leaf := range leaves {
			key := leaf.Center.Canonical()
			if occupied[key] {
				continue
			}
			if tri.Intersects(&leaf.Shape) {
				occupied[key] = true
				result.Voxels = append(result.Voxels, Voxel{
					Center:     leaf.Center,
					HalfExtent: leaf.Half,
				})
			}
		}

		if v.progress != nil {
			v.progress(done+1, len(triangles))
		}
	}
	return result, nil
}

// VoxelizeVertices runs the approximate vertex algorithm: an octree is built
// over the mesh bounds and each vertex is located to a leaf, whose midpoint
// becomes an occupied cell. Vertices on the volume's outer max face are
// nudged inside the half-open bounds instead of being rejected.
func (v *Voxelizer) VoxelizeVertices(ctx context.Context, triangles []Triangle) (*Result, error) {
	result := &Result{Depth: v.depth}

	vertices := make([]math32.Vector3, 0, len(triangles)*3)
	for _, t := range triangles {
		vertices = append(vertices, t.A, t.B, t.C)
	}
	if len(vertices) == 0 {
		return result, nil
	}

	min, max := bounds(vertices)
	tree, err := octree.New(min, max)
	if err != nil {
		return nil, errors.New("mesh bounds cannot hold an octree").Wrap(err)
	}
	tree.SubdivideTo(v.depth)

	half := tree.CellSize(v.depth).Scale(0.5)
	seen := make(map[*octree.Node]bool)

	for done, p := range vertices {
		select {
		case <-ctx.Done():
			result.Incomplete = true
			return result, nil
		default:
		}

		leaf, err := tree.Locate(clampBelow(p, max))
		if err != nil {
			return nil, err
		}
		if !seen[leaf] {
			seen[leaf] = true
			result.Voxels = append(result.Voxels, Voxel{
				Center:     leaf.Midpoint(),
				HalfExtent: half,
			})
		}

		if v.progress != nil {
			v.progress(done+1, len(vertices))
		}
	}
	return result, nil
}

// VoxelizeLattice snaps every vertex to the unit integer lattice and emits
// one unit cell per occupied lattice cube, ignoring the configured depth.
func (v *Voxelizer) VoxelizeLattice(ctx context.Context, triangles []Triangle) (*Result, error) {
	result := &Result{Depth: v.depth}

	vertices := make([]math32.Vector3, 0, len(triangles)*3)
	for _, t := range triangles {
		vertices = append(vertices, t.A, t.B, t.C)
	}

	half := math32.Vector3{X: 0.5, Y: 0.5, Z: 0.5}
	seen := make(map[math32.Vector3]bool)

	for done, p := range vertices {
		select {
		case <-ctx.Done():
			result.Incomplete = true
			return result, nil
		default:
		}

		center := math32.Vector3{
			X: math32.Floor(p.X) + 0.5,
			Y: math32.Floor(p.Y) + 0.5,
			Z: math32.Floor(p.Z) + 0.5,
		}
		if !seen[center] {
			seen[center] = true
			result.Voxels = append(result.Voxels, Voxel{Center: center, HalfExtent: half})
		}

		if v.progress != nil {
			v.progress(done+1, len(vertices))
		}
	}
	return result, nil
}

// cells subdivides the root box uniformly to the configured depth and
// returns the resulting leaf cells.
func (v *Voxelizer) cells(root *geometry.AABB) []*geometry.AABB {
	leaves := []*geometry.AABB{root}
	for d := 0; d < v.depth; d++ {
		next := make([]*geometry.AABB, 0, len(leaves)*8)
		for _, leaf := range leaves {
			next = append(next, leaf.Subdivide()...)
		}
		leaves = next
	}
	return leaves
}

func bounds(points []math32.Vector3) (math32.Vector3, math32.Vector3) {
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min.X = math32.Min(min.X, p.X)
		min.Y = math32.Min(min.Y, p.Y)
		min.Z = math32.Min(min.Z, p.Z)
		max.X = math32.Max(max.X, p.X)
		max.Y = math32.Max(max.Y, p.Y)
		max.Z = math32.Max(max.Z, p.Z)
	}
	return min, max
}

// clampBelow nudges components lying exactly on the outer max face just
// inside the half-open bounds.
func clampBelow(p, max math32.Vector3) math32.Vector3 {
	if p.X == max.X {
		p.X = math32.NextBelow(p.X)
	}
	if p.Y == max.Y {
		p.Y = math32.NextBelow(p.Y)
	}
	if p.Z == max.Z {
		p.Z = math32.NextBelow(p.Z)
	}
	return p
}
