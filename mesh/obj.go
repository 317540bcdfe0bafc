package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"

	"github.com/voxely/voxelize-go/math32"
	"github.com/voxely/voxelize-go/voxelizer"
)

// ErrTypeMesh tags errors caused by unreadable or malformed mesh files.
const ErrTypeMesh = "invalid_mesh"

// LoadOBJ parses a Wavefront .obj file into a triangle soup. Only v and f
// records are used; faces with more than 3 vertices are fan-triangulated.
func LoadOBJ(path string) ([]voxelizer.Triangle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("opening obj file").
			WithType(ErrTypeMesh).
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	return ReadOBJ(f)
}

// ReadOBJ parses Wavefront OBJ data into a triangle soup.
func ReadOBJ(r io.Reader) ([]voxelizer.Triangle, error) {
	var positions []math32.Vector3
	var triangles []voxelizer.Triangle

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, errors.New("vertex record needs 3 coordinates").
					WithType(ErrTypeMesh).
					WithTag("line", line)
			}
			var coords [3]float32
			for i := 0; i < 3; i++ {
				c, err := strconv.ParseFloat(fields[i+1], 32)
				if err != nil {
					return nil, errors.New("parsing vertex coordinate").
						WithType(ErrTypeMesh).
						WithTag("line", line).
						Wrap(err)
				}
				coords[i] = float32(c)
			}
			positions = append(positions, math32.Vector3{X: coords[0], Y: coords[1], Z: coords[2]})

		case "f":
			if len(fields) < 4 {
				return nil, errors.New("face record needs at least 3 vertices").
					WithType(ErrTypeMesh).
					WithTag("line", line)
			}
			face := make([]math32.Vector3, 0, len(fields)-1)
			for _, field := range fields[1:] {
				p, err := facePosition(field, positions)
				if err != nil {
					return nil, errors.New("parsing face record").
						WithType(ErrTypeMesh).
						WithTag("line", line).
						Wrap(err)
				}
				face = append(face, p)
			}
			for i := 1; i < len(face)-1; i++ {
				triangles = append(triangles, voxelizer.Triangle{
					A: face[0],
					B: face[i],
					C: face[i+1],
				})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New("reading obj data").
			WithType(ErrTypeMesh).
			Wrap(err)
	}
	return triangles, nil
}

// facePosition resolves one "v", "v/vt" or "v/vt/vn" face field against the
// positions read so far. Indices are 1-based; negative indices count back
// from the end.
func facePosition(field string, positions []math32.Vector3) (math32.Vector3, error) {
	raw := field
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return math32.Vector3{}, err
	}

	if index < 0 {
		index += len(positions)
	} else {
		index--
	}
	if index < 0 || index >= len(positions) {
		return math32.Vector3{}, errors.New("face vertex index out of range").
			WithTag("index", field).
			WithTag("vertices", len(positions))
	}
	return positions[index], nil
}

// ExportVoxelsOBJ writes one cube per voxel as a Wavefront OBJ, quads kept
// as quads.
func ExportVoxelsOBJ(w io.Writer, voxels []voxelizer.Voxel) error {
	bw := bufio.NewWriter(w)

	for _, voxel := range voxels {
		min := voxel.Center.Sub(voxel.HalfExtent)
		max := voxel.Center.Add(voxel.HalfExtent)
		for _, z := range [2]float32{min.Z, max.Z} {
			for _, y := range [2]float32{min.Y, max.Y} {
				for _, x := range [2]float32{min.X, max.X} {
					if _, err := fmt.Fprintf(bw, "v %g %g %g\n", x, y, z); err != nil {
						return errors.New("writing obj vertex").Wrap(err)
					}
				}
			}
		}
	}

	// Cube corners above are ordered x fastest, then y, then z.
	faces := [6][4]int{
		{1, 2, 4, 3}, // z = min
		{5, 7, 8, 6}, // z = max
		{1, 5, 6, 2}, // y = min
		{3, 4, 8, 7}, // y = max
		{1, 3, 7, 5}, // x = min
		{2, 6, 8, 4}, // x = max
	}
	for i := range voxels {
		base := i * 8
		for _, face := range faces {
			if _, err := fmt.Fprintf(bw, "f %d %d %d %d\n",
				base+face[0], base+face[1], base+face[2], base+face[3]); err != nil {
				return errors.New("writing obj face").Wrap(err)
			}
		}
	}
	return bw.Flush()
}
