package texture

import (
	"bytes"
	"errors"
	"testing"
)

func TestLevelSize(t *testing.T) {
	tests := []struct {
		w, h int
		f    Format
		want int
	}{
		{4, 4, FormatRGBA8, 64},
		{3, 1, FormatRGB8, 9},
		{4, 4, FormatDXT1, 8},
		{1, 1, FormatDXT1, 8},
		{8, 8, FormatDXT5, 64},
		{5, 5, FormatDXT5, 64},
		{8, 8, FormatASTC8x8, 16},
		{0, 4, FormatRGBA8, 0},
		{4, 4, FormatMax, 0},
	}

	for _, tt := range tests {
		if got := LevelSize(tt.w, tt.h, tt.f); got != tt.want {
			t.Errorf("LevelSize(%d, %d, %s) = %d, want %d", tt.w, tt.h, tt.f, got, tt.want)
		}
	}
}

func TestMipmapChain(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		f      Format
		count  int
		size   int
		level1 int
	}{
		{"RGBA8Square", 4, 4, FormatRGBA8, 2, 84, 64},
		{"L8Wide", 8, 2, FormatL8, 3, 23, 16},
		{"DXT1", 8, 8, FormatDXT1, 3, 56, 32},
		{"Single", 1, 1, FormatRGBA8, 0, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MipmapCount(tt.w, tt.h); got != tt.count {
				t.Errorf("MipmapCount = %d, want %d", got, tt.count)
			}
			if got := DataSize(tt.w, tt.h, tt.f, true); got != tt.size {
				t.Errorf("DataSize = %d, want %d", got, tt.size)
			}
			if got := MipmapOffset(tt.w, tt.h, tt.f, 1); got != tt.level1 {
				t.Errorf("MipmapOffset(1) = %d, want %d", got, tt.level1)
			}
			if got := DataSize(tt.w, tt.h, tt.f, false); got != LevelSize(tt.w, tt.h, tt.f) {
				t.Errorf("DataSize without mipmaps = %d, want %d", got, LevelSize(tt.w, tt.h, tt.f))
			}
		})
	}
}

func TestTranslateV3(t *testing.T) {
	tests := []struct {
		code uint32
		want Format
		kind error
	}{
		{uint32(V3FormatRGBA8), FormatRGBA8, nil},
		{uint32(V3FormatRF), FormatRF, nil},
		{uint32(V3FormatETC), FormatETC, nil},
		{uint32(V3FormatDXT5RAAsRG), FormatDXT5RAAsRG, nil},
		{uint32(V3FormatRGBA5551), FormatMax, ErrUnsupportedFormat},
		{uint32(V3FormatPVRTC4A), FormatMax, ErrUnsupportedFormat},
		{uint32(V3FormatMax), FormatMax, ErrCorrupt},
		{1 << 19, FormatMax, ErrCorrupt},
	}

	for _, tt := range tests {
		got, err := TranslateV3(tt.code)
		if tt.kind != nil {
			if !errors.Is(err, tt.kind) {
				t.Errorf("TranslateV3(%d) error = %v, want %v", tt.code, err, tt.kind)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("TranslateV3(%d) = %s, %v, want %s", tt.code, got, err, tt.want)
		}
	}
}

func TestParseV3Format(t *testing.T) {
	f, ok := ParseV3Format("DXT5")
	if !ok || f != V3FormatDXT5 {
		t.Errorf("ParseV3Format(DXT5) = %v, %v", f, ok)
	}
	if _, ok := ParseV3Format("NOPE"); ok {
		t.Error("ParseV3Format accepted an unknown name")
	}
}

func TestNewImage(t *testing.T) {
	if _, err := NewImage(4, 4, FormatRGBA8, false, make([]byte, 64)); err != nil {
		t.Fatalf("NewImage: %v", err)
	}

	tests := []struct {
		name string
		w, h int
		f    Format
		n    int
	}{
		{"Short", 4, 4, FormatRGBA8, 63},
		{"Long", 4, 4, FormatRGBA8, 65},
		{"Empty", 0, 4, FormatRGBA8, 0},
		{"BadFormat", 4, 4, FormatMax, 64},
		{"TooLarge", MaxDimension + 1, 1, FormatL8, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewImage(tt.w, tt.h, tt.f, false, make([]byte, tt.n))
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestImageLevel(t *testing.T) {
	img, err := NewImage(4, 4, FormatRGBA8, true, pattern(84))
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if img.Levels() != 3 {
		t.Errorf("Levels = %d, want 3", img.Levels())
	}
	data, w, h := img.Level(1)
	if w != 2 || h != 2 || !bytes.Equal(data, pattern(84)[64:80]) {
		t.Errorf("Level(1) = %dx%d %v", w, h, data)
	}
}

func TestConvert(t *testing.T) {
	src, _ := NewImage(2, 1, FormatRGB8, false, []byte{30, 60, 90, 255, 0, 0})

	t.Run("RGBA8", func(t *testing.T) {
		out, err := src.Convert(FormatRGBA8)
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		want := []byte{30, 60, 90, 255, 255, 0, 0, 255}
		if !bytes.Equal(out.Data, want) {
			t.Errorf("got %v, want %v", out.Data, want)
		}
		if src.Format != FormatRGB8 || len(src.Data) != 6 {
			t.Error("source image was modified")
		}
	})

	t.Run("L8", func(t *testing.T) {
		out, err := src.Convert(FormatL8)
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if !bytes.Equal(out.Data, []byte{60, 85}) {
			t.Errorf("got %v", out.Data)
		}
	})

	t.Run("Same", func(t *testing.T) {
		out, err := src.Convert(FormatRGB8)
		if err != nil || out != src {
			t.Errorf("Convert to own format = %v, %v", out, err)
		}
	})

	t.Run("Compressed", func(t *testing.T) {
		_, err := src.Convert(FormatDXT1)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat, got %v", err)
		}
	})
}
