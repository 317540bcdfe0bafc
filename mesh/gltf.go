package mesh

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxely/voxelize-go/math32"
	"github.com/voxely/voxelize-go/voxelizer"
)

// LoadGLTF opens a .gltf or .glb file and flattens every triangle primitive
// of every mesh into a triangle soup. Node transforms are ignored: vertices
// are taken in mesh-local space, matching the OBJ loader.
func LoadGLTF(path string) ([]voxelizer.Triangle, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.New("opening gltf file").
			WithType(ErrTypeMesh).
			WithTag("path", path).
			Wrap(err)
	}

	var triangles []voxelizer.Triangle
	for _, m := range doc.Meshes {
		for _, primitive := range m.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				continue
			}

			posIndex, ok := primitive.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIndex], nil)
			if err != nil {
				return nil, errors.New("reading gltf positions").
					WithType(ErrTypeMesh).
					WithTag("mesh", m.Name).
					Wrap(err)
			}

			var indices []uint32
			if primitive.Indices != nil {
				indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil)
				if err != nil {
					return nil, errors.New("reading gltf indices").
						WithType(ErrTypeMesh).
						WithTag("mesh", m.Name).
						Wrap(err)
				}
			} else {
				indices = make([]uint32, len(positions))
				for i := range indices {
					indices[i] = uint32(i)
				}
			}

			for i := 0; i+2 < len(indices); i += 3 {
				triangles = append(triangles, voxelizer.Triangle{
					A: gltfVector(positions[indices[i]]),
					B: gltfVector(positions[indices[i+1]]),
					C: gltfVector(positions[indices[i+2]]),
				})
			}
		}
	}
	return triangles, nil
}

func gltfVector(p [3]float32) math32.Vector3 {
	return math32.Vector3{X: p[0], Y: p[1], Z: p[2]}
}
