package resource

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goopsie/texcompat/pkg/compressed"
)

func TestMerge(t *testing.T) {
	fresh := NewInfo(3, "StreamTexture", "res://icon.stex")
	fresh.Extra[KeyDataFormat] = 1
	fresh.Extra["own"] = "kept"

	source := NewInfo(2, "Texture", "res://old.tex")
	source.ResourceFormat = "binary"
	source.Extra[KeyTextureFlags] = 7
	source.Extra["gap"] = true

	merged := Merge(fresh, source, 4)

	if merged.VerMajor != 2 || merged.Type != "Texture" || merged.ResourceFormat != "binary" {
		t.Errorf("version/type/format not taken from source: %+v", merged)
	}
	if merged.OriginalPath != "res://icon.stex" {
		t.Errorf("original path = %q, want fresh path kept", merged.OriginalPath)
	}
	if v, _ := merged.Int(KeyTextureFlags); v != 7 {
		t.Errorf("texture_flags = %d, want 7", v)
	}
	if v, _ := merged.Int(KeyDataFormat); v != 1 {
		t.Errorf("data_format = %d, want fresh value 1", v)
	}
	if merged.Extra["own"] != "kept" || merged.Extra["gap"] != true {
		t.Errorf("extras not combined: %v", merged.Extra)
	}

	t.Run("InputsUnchanged", func(t *testing.T) {
		if fresh.VerMajor != 3 || fresh.Type != "StreamTexture" {
			t.Errorf("fresh modified: %+v", fresh)
		}
		if _, ok := fresh.Extra[KeyTextureFlags]; ok {
			t.Error("fresh extras modified")
		}
		if len(source.Extra) != 2 {
			t.Errorf("source extras modified: %v", source.Extra)
		}
	})

	t.Run("DefaultFlags", func(t *testing.T) {
		m := Merge(fresh, NewInfo(3, "Texture", ""), 5)
		if v, _ := m.Int(KeyTextureFlags); v != 5 {
			t.Errorf("texture_flags = %d, want default 5", v)
		}
	})

	t.Run("EmptyPathTakenFromSource", func(t *testing.T) {
		m := Merge(NewInfo(3, "ImageTexture", ""), source, 0)
		if m.OriginalPath != "res://old.tex" {
			t.Errorf("original path = %q", m.OriginalPath)
		}
	})

	t.Run("SourceDataFormatWins", func(t *testing.T) {
		m := Merge(fresh, source.With(KeyDataFormat, 2), 0)
		if v, _ := m.Int(KeyDataFormat); v != 2 {
			t.Errorf("data_format = %d, want 2", v)
		}
	})
}

func TestProbe(t *testing.T) {
	header := &Header{
		VerMajor:       2,
		VerMinor:       1,
		VerFormat:      1,
		Type:           "AtlasTexture",
		ImportMetadata: 512,
	}

	t.Run("Plain", func(t *testing.T) {
		data, _ := header.MarshalBinary()
		info, err := Probe(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("probe: %v", err)
		}
		if info.Type != "AtlasTexture" || info.VerMajor != 2 || info.VerMinor != 1 {
			t.Errorf("unexpected info: %+v", info)
		}
	})

	t.Run("BigEndian", func(t *testing.T) {
		h := *header
		h.BigEndian = true
		h.VerMajor = 3
		data, _ := h.MarshalBinary()
		info, err := Probe(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("probe: %v", err)
		}
		if info.VerMajor != 3 || info.Type != "AtlasTexture" {
			t.Errorf("unexpected info: %+v", info)
		}
	})

	t.Run("NoMetadata", func(t *testing.T) {
		h := *header
		h.ImportMetadata = 0
		data, _ := h.MarshalBinary()
		info, err := Probe(bytes.NewReader(data))
		if !errors.Is(err, ErrNoMetadata) {
			t.Fatalf("expected ErrNoMetadata, got %v", err)
		}
		if info == nil || info.Type != "AtlasTexture" {
			t.Errorf("info should still be returned, got %+v", info)
		}
	})

	t.Run("Compressed", func(t *testing.T) {
		data, _ := header.MarshalBinary()
		var buf bytes.Buffer
		// The compressed payload starts after the RSRC magic.
		if err := compressed.Encode(&buf, data[4:], compressed.WithMagic(compressed.MagicResource), compressed.WithMode(compressed.ModeDeflate)); err != nil {
			t.Fatalf("encode: %v", err)
		}
		h, err := ReadHeader(&buf)
		if err != nil {
			t.Fatalf("read header: %v", err)
		}
		if !h.Compressed || h.Type != "AtlasTexture" || h.ImportMetadata != 512 {
			t.Errorf("unexpected header: %+v", h)
		}
	})

	t.Run("NotResource", func(t *testing.T) {
		_, err := Probe(bytes.NewReader([]byte("GDST0000")))
		if !errors.Is(err, ErrNotResource) {
			t.Errorf("expected ErrNotResource, got %v", err)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		data, _ := header.MarshalBinary()
		if _, err := Probe(bytes.NewReader(data[:20])); err == nil {
			t.Error("expected error for truncated header")
		}
	})
}

func TestMergeSourceIdentityWins(t *testing.T) {
	tests := []struct {
		name   string
		fresh  *Info
		source *Info
	}{
		{"V3ForV2", NewInfo(3, "StreamTexture", "a.stex"), NewInfo(2, "Texture", "a.tex")},
		{"V4ForV3", NewInfo(4, "CompressedTexture2D", "a.ctex"), NewInfo(3, "ImageTexture", "a.tres")},
		{"OlderFresh", NewInfo(2, "Texture", "a.tex"), NewInfo(4, "CompressedTexture2D", "a.ctex")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Merge(tt.fresh, tt.source, 0)
			if m.VerMajor != tt.source.VerMajor || m.Type != tt.source.Type {
				t.Errorf("got %s v%d, want %s v%d", m.Type, m.VerMajor, tt.source.Type, tt.source.VerMajor)
			}
		})
	}
}
