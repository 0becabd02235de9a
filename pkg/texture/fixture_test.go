package texture

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// fixture builds little-endian container bytes.
type fixture struct {
	bytes.Buffer
}

func (f *fixture) magic(m string) *fixture {
	f.WriteString(m)
	return f
}

func (f *fixture) u16(vs ...uint16) *fixture {
	for _, v := range vs {
		var b [2]byte
		binary.LittleEndian.PutUint16(b[:], v)
		f.Write(b[:])
	}
	return f
}

func (f *fixture) u32(vs ...uint32) *fixture {
	for _, v := range vs {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		f.Write(b[:])
	}
	return f
}

func (f *fixture) raw(p []byte) *fixture {
	f.Write(p)
	return f
}

// blobs writes each blob prefixed with its u32 length.
func (f *fixture) blobs(bs ...[]byte) *fixture {
	for _, b := range bs {
		f.u32(uint32(len(b)))
		f.Write(b)
	}
	return f
}

func pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func grayPNG(t testing.TB, w, h int, v uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return encodePNG(t, img)
}

func rgbaPNG(t testing.TB, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return encodePNG(t, img)
}

func encodePNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t testing.TB, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// gdst builds a v3 2D stream texture header.
func gdst(w, h int, flags, df uint32) *fixture {
	f := &fixture{}
	return f.magic("GDST").u16(uint16(w), 0, uint16(h), 0).u32(flags, df)
}

// gst2 builds a v4 2D stream texture header followed by a body prologue.
func gst2(version, flags, dataFormat uint32, w, h int, mipmaps uint32, format Format) *fixture {
	f := &fixture{}
	f.magic("GST2").u32(version, 0, 0, flags, 0, 0, 0, 0)
	return f.u32(dataFormat).u16(uint16(w), uint16(h)).u32(mipmaps, uint32(format))
}

// v4body appends an image body prologue.
func (f *fixture) v4body(dataFormat uint32, w, h int, mipmaps uint32, format Format) *fixture {
	return f.u32(dataFormat).u16(uint16(w), uint16(h)).u32(mipmaps, uint32(format))
}
