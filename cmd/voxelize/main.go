package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/segmentio/encoding/json"

	"github.com/voxely/voxelize-go/builder"
	"github.com/voxely/voxelize-go/mesh"
	"github.com/voxely/voxelize-go/voxelizer"
)

type config struct {
	Input     string `cli:"" env:"VOXELIZE_INPUT"      help:"Input mesh file (.obj, .gltf or .glb)."`
	Output    string `cli:"" env:"VOXELIZE_OUTPUT"     help:"Output file (.obj for cube geometry, anything else for a voxel file)."`
	Depth     int    `cli:"" env:"VOXELIZE_DEPTH"      help:"Number of uniform subdivisions of the bounding volume."`
	Mode      string `cli:"" env:"VOXELIZE_MODE"       help:"Voxelization mode (sat|vertex|lattice)."`
	LogLevel  string `cli:"" env:"VOXELIZE_LOG_LEVEL"  help:"Log level (debug|info|warning|error)."`
	LogIndent bool   `cli:"" env:"VOXELIZE_LOG_INDENT" help:"Indent logs."`
	Help      bool   `cli:"" env:"-"                   help:"Show help."`
}

func main() {
	conf := config{
		Depth:    4,
		Mode:     "sat",
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Voxelizes a triangle mesh into occupied cells.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := run(ctx, conf); err != nil {
		logs.Fatal(err)
	}
}

func run(ctx context.Context, conf config) error {
	if conf.Input == "" || conf.Output == "" {
		return errors.New("both input and output files are required").
			WithType(voxelizer.ErrTypeConfig)
	}

	triangles, err := loadMesh(conf.Input)
	if err != nil {
		return errors.New("loading input mesh").Wrap(err)
	}
	logs.WithTag("input", conf.Input).
		WithTag("triangles", len(triangles)).
		Info("mesh loaded")

	v, err := voxelizer.New(conf.Depth)
	if err != nil {
		return err
	}
	v.SetProgress(func(done, total int) {
		if done%500 == 0 || done == total {
			logs.WithTag("done", done).WithTag("total", total).Debug("voxelizing")
		}
	})

	var result *voxelizer.Result
	switch conf.Mode {
	case "sat":
		result, err = v.Voxelize(ctx, triangles)
	case "vertex":
		result, err = v.VoxelizeVertices(ctx, triangles)
	case "lattice":
		result, err = v.VoxelizeLattice(ctx, triangles)
	default:
		return errors.New("unknown voxelization mode").
			WithType(voxelizer.ErrTypeConfig).
			WithTag("mode", conf.Mode)
	}
	if err != nil {
		return errors.New("voxelization failed").Wrap(err)
	}

	logs.WithTag("voxels", len(result.Voxels)).
		WithTag("skipped_triangles", result.SkippedTriangles).
		WithTag("incomplete", result.Incomplete).
		Info("voxelization completed")

	if err := saveResult(result, conf.Output); err != nil {
		return errors.New("saving result").Wrap(err)
	}
	logs.WithTag("output", conf.Output).Info("result saved")
	return nil
}

func loadMesh(path string) ([]voxelizer.Triangle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return mesh.LoadOBJ(path)
	case ".gltf", ".glb":
		return mesh.LoadGLTF(path)
	default:
		return nil, errors.New("unsupported mesh format").
			WithType(mesh.ErrTypeMesh).
			WithTag("path", path)
	}
}

func saveResult(result *voxelizer.Result, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".obj") {
		f, err := os.Create(path)
		if err != nil {
			return errors.New("creating output file").Wrap(err)
		}
		defer f.Close()
		return mesh.ExportVoxelsOBJ(f, result.Voxels)
	}
	return builder.Save(result, path)
}
