package compressed

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func TestHeader(t *testing.T) {
	t.Run("MarshalUnmarshal", func(t *testing.T) {
		original := &Header{
			Magic:     MagicResource,
			Mode:      ModeZstd,
			BlockSize: 4096,
			Length:    10000,
		}

		data, err := original.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		decoded := &Header{}
		if err := decoded.UnmarshalBinary(data); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		if *decoded != *original {
			t.Errorf("mismatch: got %+v, want %+v", decoded, original)
		}
	})

	t.Run("InvalidMagic", func(t *testing.T) {
		h := &Header{Magic: [4]byte{'Z', 'S', 'T', 'D'}, BlockSize: 4096}
		if err := h.Validate(); !errors.Is(err, ErrInvalidMagic) {
			t.Errorf("expected ErrInvalidMagic, got %v", err)
		}
	})

	t.Run("ZeroBlockSize", func(t *testing.T) {
		h := &Header{Magic: MagicFile}
		if err := h.Validate(); err == nil {
			t.Error("expected error for zero block size")
		}
	})

	t.Run("Blocks", func(t *testing.T) {
		tests := []struct {
			length, blockSize uint32
			blocks            int
			last              int
		}{
			{0, 16, 1, 0},
			{10, 16, 1, 10},
			{16, 16, 2, 0},
			{40, 16, 3, 8},
		}
		for _, tt := range tests {
			h := &Header{Magic: MagicFile, BlockSize: tt.blockSize, Length: tt.length}
			if got := h.Blocks(); got != tt.blocks {
				t.Errorf("Blocks(%d/%d) = %d, want %d", tt.length, tt.blockSize, got, tt.blocks)
			}
			if got := h.BlockLength(tt.blocks - 1); got != tt.last {
				t.Errorf("last block of %d/%d = %d, want %d", tt.length, tt.blockSize, got, tt.last)
			}
		}
	})
}

func TestReadWrite(t *testing.T) {
	original := bytes.Repeat([]byte("Hello, World! This is test data for compression. "), 40)

	for _, mode := range []Mode{ModeZstd, ModeDeflate, ModeGzip} {
		t.Run(mode.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, original, WithMode(mode), WithBlockSize(256), WithMagic(MagicResource)); err != nil {
				t.Fatalf("encode: %v", err)
			}

			decoded, err := ReadAll(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !bytes.Equal(decoded, original) {
				t.Errorf("data mismatch: got %d bytes, want %d", len(decoded), len(original))
			}
		})
	}

	t.Run("ExactBlockMultiple", func(t *testing.T) {
		data := make([]byte, 512)
		for i := range data {
			data[i] = byte(i)
		}
		var buf bytes.Buffer
		if err := Encode(&buf, data, WithBlockSize(256)); err != nil {
			t.Fatalf("encode: %v", err)
		}
		decoded, err := ReadAll(&buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(decoded, data) {
			t.Error("data mismatch")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, nil); err != nil {
			t.Fatalf("encode: %v", err)
		}
		decoded, err := ReadAll(&buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(decoded) != 0 {
			t.Errorf("expected no data, got %d bytes", len(decoded))
		}
	})
}

func TestUnsupportedMode(t *testing.T) {
	h := &Header{Magic: MagicFile, Mode: ModeFastLZ, BlockSize: 16, Length: 4}
	buf := make([]byte, HeaderSize+4+4)
	h.EncodeTo(buf)
	binary.LittleEndian.PutUint32(buf[HeaderSize:], 4)

	_, err := ReadAll(bytes.NewReader(buf))
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("expected ErrUnsupportedMode, got %v", err)
	}

	var out bytes.Buffer
	if err := Encode(&out, []byte("data"), WithMode(ModeBrotli)); !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("expected ErrUnsupportedMode from writer, got %v", err)
	}
}

func TestTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, bytes.Repeat([]byte{7}, 1000)); err != nil {
		t.Fatalf("encode: %v", err)
	}
	data := buf.Bytes()[:buf.Len()-3]
	if _, err := ReadAll(bytes.NewReader(data)); err == nil {
		t.Error("expected error for truncated container")
	}
}
