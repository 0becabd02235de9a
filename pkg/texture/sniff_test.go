package texture

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/goopsie/texcompat/pkg/compressed"
	"github.com/goopsie/texcompat/pkg/resource"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Variant
		kind error
	}{
		{"a.stex", "GDST....", V3StreamTexture2D, nil},
		{"a.tex3d", "GD3T....", V3StreamTexture3D, nil},
		{"a.texarr", "GDAT....", V3StreamTextureArray, nil},
		{"a.ctex", "GST2....", V4CompressedTexture2D, nil},
		{"a.ctex3d", "GSTL....", V4CompressedTexture3D, nil},
		{"a.ctexarray", "GSTL....", V4CompressedTextureLayered, nil},
		{"a.ccube", "GSTL....", V4CompressedTextureLayered, nil},
		{"A.CCUBEARRAY", "GSTL....", V4CompressedTextureLayered, nil},
		{"a.bin", "GSTL....", V4CompressedTexture3D, nil},
		{"a.png", "\x89PNG....", VariantNone, ErrUnrecognized},
		{"a.stex", "GDS", VariantNone, ErrUnrecognized},
		{"a.stex", "", VariantNone, ErrUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.data, func(t *testing.T) {
			v, err := Sniff(bytes.NewReader([]byte(tt.data)), tt.name)
			if v != tt.want {
				t.Errorf("variant = %s, want %s", v, tt.want)
			}
			if tt.kind == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.kind != nil && !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }
func (failingReader) Seek(int64, int) (int64, error) { return 0, nil }

func TestSniffUnreadable(t *testing.T) {
	v, err := Sniff(failingReader{}, "broken.stex")
	if v != VariantNone || !errors.Is(err, ErrUnreadable) {
		t.Errorf("got %s, %v", v, err)
	}
	var e *Error
	if !errors.As(err, &e) || e.Path != "broken.stex" {
		t.Errorf("error does not carry the path: %v", err)
	}
}

func TestSniffResource(t *testing.T) {
	probeReturning := func(typ string, ver int, err error) Option {
		return WithProbe(ProbeFunc(func(r io.Reader) (*resource.Info, error) {
			return &resource.Info{Type: typ, VerMajor: ver}, err
		}))
	}

	tests := []struct {
		typ  string
		ver  int
		want Variant
	}{
		{"AtlasTexture", 1, V2AtlasTexture},
		{"AtlasTexture", 2, V2AtlasTexture},
		{"AtlasTexture", 3, V3AtlasTexture},
		{"AtlasTexture", 4, V4AtlasTexture},
		{"AtlasTexture", 5, V4AtlasTexture},
		{"ImageTexture", 1, V2ImageTexture},
		{"ImageTexture", 2, V2ImageTexture},
		{"ImageTexture", 3, V3ImageTexture},
		{"ImageTexture", 4, V4ImageTexture},
		{"Texture", 2, V2Texture},
		{"LargeTexture", 2, V2LargeTexture},
		{"CubeMap", 2, V2Cubemap},
	}
	for _, tt := range tests {
		v, err := Sniff(bytes.NewReader([]byte("RSRC....")), "a.tex", probeReturning(tt.typ, tt.ver, nil))
		if err != nil || v != tt.want {
			t.Errorf("%s v%d: got %s, %v, want %s", tt.typ, tt.ver, v, err, tt.want)
		}
	}

	t.Run("NoMetadataIsSuccess", func(t *testing.T) {
		v, err := Sniff(bytes.NewReader([]byte("RSCC....")), "a.atex", probeReturning("AtlasTexture", 3, resource.ErrNoMetadata))
		if err != nil || v != V3AtlasTexture {
			t.Errorf("got %s, %v", v, err)
		}
	})

	t.Run("ProbeFailure", func(t *testing.T) {
		v, err := Sniff(bytes.NewReader([]byte("RSRC....")), "a.tex", probeReturning("", 0, errors.New("bad header")))
		if v != VariantNone || !errors.Is(err, ErrUnreadable) {
			t.Errorf("got %s, %v", v, err)
		}
	})

	t.Run("NotATexture", func(t *testing.T) {
		v, err := Sniff(bytes.NewReader([]byte("RSRC....")), "a.res", probeReturning("Mesh", 3, nil))
		if v != VariantNone || !errors.Is(err, ErrUnrecognized) {
			t.Errorf("got %s, %v", v, err)
		}
	})

	t.Run("ProbeSeesWholeFile", func(t *testing.T) {
		var seen []byte
		probe := ProbeFunc(func(r io.Reader) (*resource.Info, error) {
			seen, _ = io.ReadAll(r)
			return &resource.Info{Type: "Texture", VerMajor: 2}, nil
		})
		if _, err := Sniff(bytes.NewReader([]byte("RSRCbody")), "a.tex", WithProbe(probe)); err != nil {
			t.Fatalf("Sniff: %v", err)
		}
		if string(seen) != "RSRCbody" {
			t.Errorf("probe read %q", seen)
		}
	})
}

func TestSniffResourceHeader(t *testing.T) {
	header := &resource.Header{VerMajor: 3, VerMinor: 1, Type: "ImageTexture"}
	data, _ := header.MarshalBinary()

	t.Run("Plain", func(t *testing.T) {
		v, err := Sniff(bytes.NewReader(data), "icon.tex")
		if err != nil || v != V3ImageTexture {
			t.Errorf("got %s, %v", v, err)
		}
	})

	t.Run("Compressed", func(t *testing.T) {
		var buf bytes.Buffer
		if err := compressed.Encode(&buf, data[4:], compressed.WithMagic(compressed.MagicResource)); err != nil {
			t.Fatalf("encode: %v", err)
		}
		v, err := Sniff(bytes.NewReader(buf.Bytes()), "icon.tex")
		if err != nil || v != V3ImageTexture {
			t.Errorf("got %s, %v", v, err)
		}
	})

	t.Run("Atlas", func(t *testing.T) {
		for ver, want := range map[uint32]Variant{2: V2AtlasTexture, 3: V3AtlasTexture, 5: V4AtlasTexture} {
			h := &resource.Header{VerMajor: ver, Type: "AtlasTexture", ImportMetadata: 64}
			b, _ := h.MarshalBinary()
			v, err := Sniff(bytes.NewReader(b), "a.atex")
			if err != nil || v != want {
				t.Errorf("v%d: got %s, %v, want %s", ver, v, err, want)
			}
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Sniff(bytes.NewReader(data[:10]), "icon.tex")
		if !errors.Is(err, ErrUnreadable) {
			t.Errorf("expected ErrUnreadable, got %v", err)
		}
	})
}

func TestRecognize(t *testing.T) {
	path := writeFile(t, "tex.stex", gdst(1, 1, 0, uint32(V3FormatL8)).raw([]byte{7}).Bytes())
	v, err := Recognize(path)
	if err != nil || v != V3StreamTexture2D {
		t.Errorf("Recognize = %s, %v", v, err)
	}

	_, err = Recognize(path + ".missing")
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
}

func TestVariants(t *testing.T) {
	vs := Variants()
	if len(vs) != 15 {
		t.Fatalf("got %d variants", len(vs))
	}
	seen := map[string]bool{}
	for _, v := range vs {
		if seen[v.String()] {
			t.Errorf("duplicate name %s", v)
		}
		seen[v.String()] = true
		if v.MajorVersion() < 2 || v.MajorVersion() > 4 {
			t.Errorf("%s: major version %d", v, v.MajorVersion())
		}
		if v.Shape() == ShapeUnknown {
			t.Errorf("%s: unknown shape", v)
		}
		if len(v.Extensions()) == 0 {
			t.Errorf("%s: no extensions", v)
		}
	}
	if VariantNone.MajorVersion() != -1 || Variant(99).String() != "none" {
		t.Error("sentinel facts are wrong")
	}
	if !IsTextureFile("x/y.CTEX") || IsTextureFile("x/y.png") {
		t.Error("IsTextureFile is wrong")
	}
}
