package main

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/goopsie/texcompat/pkg/texture"
)

// solidStex builds a raw 2x2 RGBA8 stream texture of a single color.
func solidStex(c [4]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("GDST")
	for _, v := range []uint16{2, 0, 2, 0} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint32(texture.V3FormatRGBA8))
	for i := 0; i < 4; i++ {
		buf.Write(c[:])
	}
	return buf.Bytes()
}

func TestAssemble(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"tiles/a.stex": solidStex([4]byte{255, 0, 0, 255}),
		"tiles/b.stex": solidStex([4]byte{0, 0, 255, 255}),
		"big.yaml": []byte(`whole_size: [4, 3]
pieces:
  - {offset: [2, 0], path: tiles/b.stex}
  - {offset: [0, 0], path: tiles/a.stex}
`),
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}
	}

	out := filepath.Join(dir, "out", "big.png")
	if err := run([]string{"assemble", "--log-level", "error", filepath.Join(dir, "big.yaml"), out}); err != nil {
		t.Fatalf("assemble: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{1, 1, color.NRGBA{255, 0, 0, 255}},
		{3, 0, color.NRGBA{0, 0, 255, 255}},
		{1, 2, color.NRGBA{}},
	}
	for _, tt := range tests {
		if got := color.NRGBAModel.Convert(img.At(tt.x, tt.y)); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestAssembleErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name string
		args []string
	}{
		{"Usage", []string{"assemble", "only-one-arg"}},
		{"MissingLayout", []string{"assemble", filepath.Join(dir, "none.yaml"), out}},
		{"NoPieces", []string{"assemble", write("empty.yaml", "whole_size: [4, 4]\n"), out}},
		{"MissingPiece", []string{"assemble", write("gone.yaml", "whole_size: [2, 2]\npieces:\n  - {offset: [0, 0], path: gone.stex}\n"), out}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := os.Stat(out); err == nil {
		t.Error("output written for a failed assembly")
	}
}
