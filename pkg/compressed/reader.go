package compressed

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/DataDog/zstd"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// maxBlocks bounds the block table of a container.
const maxBlocks = 1 << 20

// Reader decompresses a container block by block.
type Reader struct {
	src       io.Reader
	header    *Header
	sizes     []uint32
	block     int
	pending   []byte
	headerBuf [HeaderSize]byte // Reusable buffer for header decoding
}

// NewReader reads and validates the header and block table from r.
func NewReader(r io.Reader) (*Reader, error) {
	reader := &Reader{
		src:    r,
		header: &Header{},
	}

	if _, err := io.ReadFull(r, reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if err := reader.header.UnmarshalBinary(reader.headerBuf[:]); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	n := reader.header.Blocks()
	if n > maxBlocks {
		return nil, fmt.Errorf("too many blocks: %d", n)
	}
	table := make([]byte, 4*n)
	if _, err := io.ReadFull(r, table); err != nil {
		return nil, fmt.Errorf("read block table: %w", err)
	}
	reader.sizes = make([]uint32, n)
	for i := range reader.sizes {
		reader.sizes[i] = binary.LittleEndian.Uint32(table[i*4:])
	}
	return reader, nil
}

// Header returns the container header.
func (r *Reader) Header() *Header {
	return r.header
}

// Length returns the uncompressed data length.
func (r *Reader) Length() int {
	return int(r.header.Length)
}

// Read reads decompressed data into p.
func (r *Reader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.block >= len(r.sizes) {
			return 0, io.EOF
		}
		if err := r.next(); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func (r *Reader) next() error {
	i := r.block
	r.block++
	src := make([]byte, r.sizes[i])
	if _, err := io.ReadFull(r.src, src); err != nil {
		return fmt.Errorf("read block %d: %w", i, err)
	}
	size := r.header.BlockLength(i)
	if size == 0 {
		return nil
	}
	out, err := Decompress(r.header.Mode, src, size)
	if err != nil {
		return fmt.Errorf("block %d: %w", i, err)
	}
	r.pending = out
	return nil
}

// Decompress inflates one block that is expected to hold size bytes.
func Decompress(mode Mode, src []byte, size int) ([]byte, error) {
	var out []byte
	switch mode {
	case ModeZstd:
		var err error
		out, err = zstd.Decompress(nil, src)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
	case ModeDeflate, ModeGzip:
		var zr io.ReadCloser
		var err error
		if mode == ModeDeflate {
			zr, err = zlib.NewReader(bytes.NewReader(src))
		} else {
			zr, err = gzip.NewReader(bytes.NewReader(src))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", mode, err)
		}
		defer zr.Close()
		out = make([]byte, size)
		if _, err := io.ReadFull(zr, out); err != nil {
			return nil, fmt.Errorf("%s: %w", mode, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	if len(out) != size {
		return nil, fmt.Errorf("decompressed %d bytes, expected %d", len(out), size)
	}
	return out, nil
}

// ReadAll reads the entire decompressed content of a container.
func ReadAll(r io.Reader) ([]byte, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	data := make([]byte, reader.Length())
	n, err := io.ReadFull(reader, data)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if n != reader.Length() {
		return nil, fmt.Errorf("incomplete read: expected %d, got %d", reader.Length(), n)
	}

	return data, nil
}
