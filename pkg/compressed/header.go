// Package compressed reads and writes block-compressed containers: the
// payload of compressed binary resources (RSCC) and standalone compressed
// files (GCPF).
package compressed

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic bytes of the two container flavours.
var (
	MagicFile     = [4]byte{'G', 'C', 'P', 'F'}
	MagicResource = [4]byte{'R', 'S', 'C', 'C'}
)

// HeaderSize is the fixed binary size of a container header.
const HeaderSize = 16 // 4 + 4 + 4 + 4 bytes

// Mode is the compression algorithm used for every block.
type Mode uint32

const (
	ModeFastLZ Mode = iota
	ModeDeflate
	ModeZstd
	ModeGzip
	ModeBrotli
)

func (m Mode) String() string {
	switch m {
	case ModeFastLZ:
		return "fastlz"
	case ModeDeflate:
		return "deflate"
	case ModeZstd:
		return "zstd"
	case ModeGzip:
		return "gzip"
	case ModeBrotli:
		return "brotli"
	default:
		return fmt.Sprintf("mode(%d)", uint32(m))
	}
}

var (
	ErrInvalidMagic    = errors.New("invalid magic")
	ErrUnsupportedMode = errors.New("unsupported compression mode")
)

// Header is the fixed part of a compressed container. It is followed by
// one u32 compressed size per block, then the blocks.
type Header struct {
	Magic     [4]byte
	Mode      Mode
	BlockSize uint32
	Length    uint32 // Uncompressed size
}

// Blocks returns the number of blocks in the table. The writer always
// emits a trailing block, even when Length is a multiple of BlockSize.
func (h *Header) Blocks() int {
	return int(h.Length/h.BlockSize) + 1
}

// BlockLength returns the uncompressed size of block i.
func (h *Header) BlockLength(i int) int {
	start := uint64(i) * uint64(h.BlockSize)
	if start >= uint64(h.Length) {
		return 0
	}
	return int(min(uint64(h.BlockSize), uint64(h.Length)-start))
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != MagicFile && h.Magic != MagicResource {
		return fmt.Errorf("%w: %q", ErrInvalidMagic, h.Magic[:])
	}
	if h.BlockSize == 0 {
		return fmt.Errorf("block size is zero")
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.Mode))
	binary.LittleEndian.PutUint32(buf[8:12], h.BlockSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.Length)
}

// UnmarshalBinary decodes and validates the header.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.Mode = Mode(binary.LittleEndian.Uint32(data[4:8]))
	h.BlockSize = binary.LittleEndian.Uint32(data[8:12])
	h.Length = binary.LittleEndian.Uint32(data[12:16])
}
