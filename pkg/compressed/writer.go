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

const (
	// DefaultBlockSize matches the block size engines write.
	DefaultBlockSize = 4096

	// DefaultCompressionLevel is the default zstd level for encoding.
	DefaultCompressionLevel = zstd.BestSpeed
)

// Writer buffers data and writes it as a compressed container on Close.
type Writer struct {
	dst       io.Writer
	buf       bytes.Buffer
	magic     [4]byte
	mode      Mode
	blockSize uint32
	level     int
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithMode sets the block compression algorithm.
func WithMode(mode Mode) WriterOption {
	return func(w *Writer) {
		w.mode = mode
	}
}

// WithBlockSize sets the uncompressed block size.
func WithBlockSize(size uint32) WriterOption {
	return func(w *Writer) {
		w.blockSize = size
	}
}

// WithMagic selects the container flavour.
func WithMagic(magic [4]byte) WriterOption {
	return func(w *Writer) {
		w.magic = magic
	}
}

// WithCompressionLevel sets the zstd compression level.
func WithCompressionLevel(level int) WriterOption {
	return func(w *Writer) {
		w.level = level
	}
}

// NewWriter creates a writer that emits a container to dst on Close.
func NewWriter(dst io.Writer, opts ...WriterOption) *Writer {
	w := &Writer{
		dst:       dst,
		magic:     MagicFile,
		mode:      ModeZstd,
		blockSize: DefaultBlockSize,
		level:     DefaultCompressionLevel,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write buffers uncompressed data.
func (w *Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Close compresses the buffered data and writes the container.
func (w *Writer) Close() error {
	header := &Header{
		Magic:     w.magic,
		Mode:      w.mode,
		BlockSize: w.blockSize,
		Length:    uint32(w.buf.Len()),
	}
	if err := header.Validate(); err != nil {
		return err
	}

	data := w.buf.Bytes()
	blocks := make([][]byte, header.Blocks())
	for i := range blocks {
		start := i * int(w.blockSize)
		end := start + header.BlockLength(i)
		if start > len(data) {
			start, end = len(data), len(data)
		}
		c, err := w.compress(data[start:end])
		if err != nil {
			return fmt.Errorf("compress block %d: %w", i, err)
		}
		blocks[i] = c
	}

	out := make([]byte, HeaderSize+4*len(blocks))
	header.EncodeTo(out)
	for i, b := range blocks {
		binary.LittleEndian.PutUint32(out[HeaderSize+4*i:], uint32(len(b)))
	}
	if _, err := w.dst.Write(out); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, b := range blocks {
		if _, err := w.dst.Write(b); err != nil {
			return fmt.Errorf("write block %d: %w", i, err)
		}
	}
	return nil
}

func (w *Writer) compress(p []byte) ([]byte, error) {
	switch w.mode {
	case ModeZstd:
		return zstd.CompressLevel(nil, p, w.level)
	case ModeDeflate, ModeGzip:
		var buf bytes.Buffer
		var zw io.WriteCloser
		if w.mode == ModeDeflate {
			zw = zlib.NewWriter(&buf)
		} else {
			zw = gzip.NewWriter(&buf)
		}
		if _, err := zw.Write(p); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, w.mode)
	}
}

// Encode compresses data and writes it as a container to dst.
func Encode(dst io.Writer, data []byte, opts ...WriterOption) error {
	w := NewWriter(dst, opts...)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return w.Close()
}
