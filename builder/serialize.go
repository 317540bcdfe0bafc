package builder

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/voxely/voxelize-go/voxelizer"
)

// Save writes a voxelization result to a gzip-compressed binary file. The
// layout after decompression is a FileHeader followed by the checksummed
// payload: result fields, then one fixed-size record per voxel.
func Save(result *voxelizer.Result, filename string) error {
	content, err := Encode(result)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, content, 0644); err != nil {
		return errors.New("writing voxel file").
			WithTag("filename", filename).
			Wrap(err)
	}
	return nil
}

// Load reads a voxelization result written by Save.
func Load(filename string) (*voxelizer.Result, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New("reading voxel file").
			WithType(ErrTypeFile).
			WithTag("filename", filename).
			Wrap(err)
	}
	return Decode(content)
}

// Encode serializes a result to its compressed file representation.
func Encode(result *voxelizer.Result) ([]byte, error) {
	payload := bytes.NewBuffer(nil)
	if err := binary.Write(payload, binary.LittleEndian, newPayloadHeader(result)); err != nil {
		return nil, errors.New("encoding result header").Wrap(err)
	}
	for _, voxel := range result.Voxels {
		if err := binary.Write(payload, binary.LittleEndian, voxel); err != nil {
			return nil, errors.New("encoding voxel record").Wrap(err)
		}
	}

	buf := bytes.NewBuffer(nil)
	header := FileHeader{
		Magic:    VoxelFileMagic,
		Version:  VoxelFileVersion,
		Checksum: xxhash.Sum64(payload.Bytes()),
	}
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, errors.New("encoding file header").Wrap(err)
	}
	if _, err := payload.WriteTo(buf); err != nil {
		return nil, errors.New("encoding payload").Wrap(err)
	}

	return compress(buf.Bytes())
}

// Decode deserializes a result from its compressed file representation.
func Decode(content []byte) (*voxelizer.Result, error) {
	content, err := decompress(content)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(content)
	var header FileHeader
	if err := binary.Read(buf, binary.LittleEndian, &header); err != nil {
		return nil, errors.New("reading file header").
			WithType(ErrTypeFile).
			Wrap(err)
	}
	if header.Magic != VoxelFileMagic {
		return nil, errors.New("magic number mismatch").
			WithType(ErrTypeFile).
			WithTag("magic", header.Magic)
	}
	if header.Version != VoxelFileVersion {
		return nil, errors.New("unsupported file version").
			WithType(ErrTypeFile).
			WithTag("version", header.Version)
	}
	if header.Checksum != xxhash.Sum64(buf.Bytes()) {
		return nil, errors.New("payload checksum mismatch").
			WithType(ErrTypeFile)
	}

	var ph payloadHeader
	if err := binary.Read(buf, binary.LittleEndian, &ph); err != nil {
		return nil, errors.New("reading result header").
			WithType(ErrTypeFile).
			Wrap(err)
	}

	result := &voxelizer.Result{
		Depth:            int(ph.Depth),
		SkippedTriangles: int(ph.Skipped),
		Incomplete:       ph.Incomplete != 0,
	}
	if ph.VoxelCount > 0 {
		result.Voxels = make([]voxelizer.Voxel, ph.VoxelCount)
		for i := range result.Voxels {
			if err := binary.Read(buf, binary.LittleEndian, &result.Voxels[i]); err != nil {
				return nil, errors.New("reading voxel record").
					WithType(ErrTypeFile).
					Wrap(err)
			}
		}
	}
	return result, nil
}

// FileInfo summarizes a voxel file without fully materializing it.
type FileInfo struct {
	Filename   string    `json:"filename"`
	FileSize   int64     `json:"file_size"`
	Version    uint32    `json:"version"`
	Depth      int       `json:"depth"`
	VoxelCount int       `json:"voxel_count"`
	Incomplete bool      `json:"incomplete"`
	ModTime    time.Time `json:"mod_time"`
}

// GetFileInfo reads a voxel file's headers and returns its summary.
func GetFileInfo(filename string) (*FileInfo, error) {
	stat, err := os.Stat(filename)
	if err != nil {
		return nil, errors.New("stat voxel file").
			WithType(ErrTypeFile).
			WithTag("filename", filename).
			Wrap(err)
	}

	result, err := Load(filename)
	if err != nil {
		return nil, err
	}

	return &FileInfo{
		Filename:   filename,
		FileSize:   stat.Size(),
		Version:    VoxelFileVersion,
		Depth:      result.Depth,
		VoxelCount: len(result.Voxels),
		Incomplete: result.Incomplete,
		ModTime:    stat.ModTime(),
	}, nil
}

func compress(content []byte) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	zw := gzip.NewWriter(buf)
	if _, err := zw.Write(content); err != nil {
		return nil, errors.New("compressing voxel file").Wrap(err)
	}
	if err := zw.Close(); err != nil {
		return nil, errors.New("compressing voxel file").Wrap(err)
	}
	return buf.Bytes(), nil
}

func decompress(content []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewBuffer(content))
	if err != nil {
		return nil, errors.New("decompressing voxel file").
			WithType(ErrTypeFile).
			Wrap(err)
	}
	defer zr.Close()

	decompressed, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.New("decompressing voxel file").
			WithType(ErrTypeFile).
			Wrap(err)
	}
	return decompressed, nil
}
