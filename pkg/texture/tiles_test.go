package texture

import (
	"errors"
	"image"
	"testing"
)

func tile(t *testing.T, x, y, w, h int) Tile {
	t.Helper()
	img, err := NewImage(w, h, FormatRGBA8, false, pattern(w*h*4))
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	return Tile{Offset: image.Pt(x, y), Image: img}
}

func TestReassemble(t *testing.T) {
	t.Run("Example", func(t *testing.T) {
		tiles := []Tile{tile(t, 8, 0, 2, 4), tile(t, 0, 0, 4, 4)}
		a, err := Reassemble(tiles, image.Pt(10, 6))
		if err != nil {
			t.Fatalf("Reassemble: %v", err)
		}

		want := []struct {
			at    image.Point
			w, h  int
			blank bool
		}{
			{image.Pt(0, 0), 4, 4, false},
			{image.Pt(4, 0), 4, 4, true},
			{image.Pt(8, 0), 2, 4, false},
			{image.Pt(0, 4), 4, 2, true},
			{image.Pt(4, 4), 4, 2, true},
			{image.Pt(8, 4), 2, 2, true},
		}
		if a.Len() != len(want) {
			t.Fatalf("got %d cells, want %d", a.Len(), len(want))
		}
		for i, w := range want {
			img := a.Images[i]
			if a.Offsets[i] != w.at || img.Width != w.w || img.Height != w.h || a.Blank[i] != w.blank {
				t.Errorf("cell %d: %v %dx%d blank=%t, want %v %dx%d blank=%t",
					i, a.Offsets[i], img.Width, img.Height, a.Blank[i], w.at, w.w, w.h, w.blank)
			}
		}
		if a.Images[0] != tiles[1].Image || a.Images[2] != tiles[0].Image {
			t.Error("real tiles were not passed through")
		}
		if a.TileSize != image.Pt(4, 4) {
			t.Errorf("tile size = %v", a.TileSize)
		}
	})

	t.Run("CompleteSetIsSorted", func(t *testing.T) {
		var tiles []Tile
		for y := 4; y >= 0; y -= 4 {
			for x := 8; x >= 0; x -= 4 {
				tiles = append(tiles, tile(t, x, y, min(4, 10-x), min(4, 6-y)))
			}
		}
		a, err := Reassemble(tiles, image.Pt(10, 6))
		if err != nil {
			t.Fatalf("Reassemble: %v", err)
		}
		for i := range a.Images {
			if a.Blank[i] {
				t.Errorf("cell %d is blank", i)
			}
			if a.Images[i] != tiles[len(tiles)-1-i].Image {
				t.Errorf("cell %d out of order", i)
			}
		}
	})

	t.Run("Coverage", func(t *testing.T) {
		tests := []struct {
			w, h, tsize int
			present     []image.Point
		}{
			{10, 6, 4, []image.Point{{0, 0}, {4, 4}}},
			{16, 16, 8, []image.Point{{0, 0}}},
			{17, 9, 8, []image.Point{{0, 0}, {16, 8}}},
			{5, 5, 4, []image.Point{{0, 0}, {0, 4}, {4, 0}}},
		}
		for _, tt := range tests {
			var tiles []Tile
			for _, p := range tt.present {
				tiles = append(tiles, tile(t, p.X, p.Y, min(tt.tsize, tt.w-p.X), min(tt.tsize, tt.h-p.Y)))
			}

			a, err := Reassemble(tiles, image.Pt(tt.w, tt.h))
			if err != nil {
				t.Fatalf("%dx%d: %v", tt.w, tt.h, err)
			}
			cols := (tt.w + tt.tsize - 1) / tt.tsize
			rows := (tt.h + tt.tsize - 1) / tt.tsize
			if a.Len() != cols*rows {
				t.Errorf("%dx%d: %d cells, want %d", tt.w, tt.h, a.Len(), cols*rows)
			}
			area, blanks := 0, 0
			for i, img := range a.Images {
				area += img.Width * img.Height
				if a.Blank[i] {
					blanks++
				}
			}
			if area != tt.w*tt.h {
				t.Errorf("%dx%d: cells cover %d pixels", tt.w, tt.h, area)
			}
			if blanks != cols*rows-len(tt.present) {
				t.Errorf("%dx%d: %d blanks", tt.w, tt.h, blanks)
			}
		}
	})

	t.Run("BlankFormat", func(t *testing.T) {
		img, _ := NewImage(4, 4, FormatDXT1, false, make([]byte, 8))
		a, err := Reassemble([]Tile{{Offset: image.Pt(4, 0), Image: img}}, image.Pt(8, 4))
		if err != nil {
			t.Fatalf("Reassemble: %v", err)
		}
		if a.Images[0].Format != FormatDXT1 || len(a.Images[0].Data) != 8 {
			t.Errorf("blank = %s", a.Images[0])
		}
	})
}

func TestReassembleRejects(t *testing.T) {
	whole := image.Pt(10, 6)
	other, _ := NewImage(4, 4, FormatL8, false, make([]byte, 16))

	tests := []struct {
		name  string
		tiles []Tile
		whole image.Point
	}{
		{"NoTiles", nil, whole},
		{"EmptyCanvas", []Tile{tile(t, 0, 0, 4, 4)}, image.Pt(0, 6)},
		{"NilImage", []Tile{{Offset: image.Pt(0, 0)}}, whole},
		{"OutsideCanvas", []Tile{tile(t, 12, 0, 4, 4)}, whole},
		{"NegativeOffset", []Tile{tile(t, -4, 0, 4, 4)}, whole},
		{"Overflow", []Tile{tile(t, 0, 0, 4, 4), tile(t, 8, 0, 4, 4)}, whole},
		{"Duplicate", []Tile{tile(t, 0, 0, 4, 4), tile(t, 0, 0, 4, 4)}, whole},
		{"OffGrid", []Tile{tile(t, 0, 0, 4, 4), tile(t, 2, 0, 4, 4)}, whole},
		{"Irregular", []Tile{tile(t, 0, 0, 4, 4), tile(t, 4, 0, 3, 4)}, whole},
		{"FormatMismatch", []Tile{tile(t, 0, 0, 4, 4), {Offset: image.Pt(4, 0), Image: other}}, whole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Reassemble(tt.tiles, tt.whole)
			if a != nil || !errors.Is(err, ErrCorrupt) {
				t.Errorf("got %v, %v", a, err)
			}
		})
	}
}

func TestCompose(t *testing.T) {
	left, _ := NewImage(2, 1, FormatL8, false, []byte{1, 2})
	right, _ := NewImage(1, 1, FormatL8, false, []byte{3})
	a, err := Reassemble([]Tile{{Offset: image.Pt(2, 0), Image: right}, {Offset: image.Pt(0, 0), Image: left}}, image.Pt(3, 2))
	if err != nil {
		t.Fatalf("Reassemble: %v", err)
	}
	img, err := a.Compose()
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := []byte{1, 2, 3, 0, 0, 0}
	if string(img.Data) != string(want) {
		t.Errorf("got %v, want %v", img.Data, want)
	}

	dxt, _ := NewImage(4, 4, FormatDXT1, false, make([]byte, 8))
	a, _ = Reassemble([]Tile{{Image: dxt}}, image.Pt(4, 4))
	if _, err := a.Compose(); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
