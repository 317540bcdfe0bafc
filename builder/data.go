package builder

import (
	"github.com/voxely/voxelize-go/voxelizer"
)

// File format constants.
const (
	VoxelFileMagic   uint32 = 0x564F5853 // "VOXS"
	VoxelFileVersion uint32 = 1
)

// ErrTypeFile tags errors caused by unreadable or corrupted voxel files.
const ErrTypeFile = "invalid_file"

// FileHeader prefixes the uncompressed payload. The checksum covers every
// payload byte following the header.
type FileHeader struct {
	Magic    uint32
	Version  uint32
	Checksum uint64
}

// payloadHeader carries the result fields preceding the voxel records.
type payloadHeader struct {
	Depth      int32
	Skipped    uint32
	Incomplete uint8
	VoxelCount uint32
}

func newPayloadHeader(result *voxelizer.Result) payloadHeader {
	h := payloadHeader{
		Depth:      int32(result.Depth),
		Skipped:    uint32(result.SkippedTriangles),
		VoxelCount: uint32(len(result.Voxels)),
	}
	if result.Incomplete {
		h.Incomplete = 1
	}
	return h
}
