package texture

import (
	"image"
	"sort"
)

// Tile is one piece of a large texture placed at Offset on the canvas.
type Tile struct {
	Offset image.Point
	Image  *Image
}

// Assembly is a canvas covered by tiles in row-major order. Blank[i] is set
// for cells that had no stored tile and were filled with a zeroed image.
type Assembly struct {
	Whole    image.Point
	TileSize image.Point
	Offsets  []image.Point
	Images   []*Image
	Blank    []bool
}

// Len returns the number of cells.
func (a *Assembly) Len() int { return len(a.Images) }

// Reassemble orders tiles row-major and fills every grid cell of the whole
// canvas that has no tile with a blank image. The tile size is the largest
// tile seen; only tiles clipped by the right or bottom canvas edge may be
// smaller.
func Reassemble(tiles []Tile, whole image.Point) (*Assembly, error) {
	if len(tiles) == 0 {
		return nil, corruptf("large texture has no tiles")
	}
	if whole.X <= 0 || whole.Y <= 0 {
		return nil, corruptf("large texture canvas %dx%d", whole.X, whole.Y)
	}

	var size image.Point
	for i, t := range tiles {
		if t.Image == nil || t.Image.Width <= 0 || t.Image.Height <= 0 || len(t.Image.Data) == 0 {
			return nil, corruptf("tile %d is empty", i)
		}
		o := t.Offset
		if o.X < 0 || o.Y < 0 || o.X >= whole.X || o.Y >= whole.Y {
			return nil, corruptf("tile %d offset %v outside %dx%d canvas", i, o, whole.X, whole.Y)
		}
		if o.X+t.Image.Width > whole.X || o.Y+t.Image.Height > whole.Y {
			return nil, corruptf("tile %d at %v (%dx%d) overflows %dx%d canvas", i, o, t.Image.Width, t.Image.Height, whole.X, whole.Y)
		}
		size.X = max(size.X, t.Image.Width)
		size.Y = max(size.Y, t.Image.Height)
	}

	sorted := make([]Tile, len(tiles))
	copy(sorted, tiles)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Offset, sorted[j].Offset
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	first := sorted[0].Image
	for i, t := range sorted {
		o := t.Offset
		if i > 0 && sorted[i-1].Offset == o {
			return nil, corruptf("duplicate tile at %v", o)
		}
		if o.X%size.X != 0 || o.Y%size.Y != 0 {
			return nil, corruptf("tile at %v is off the %dx%d grid", o, size.X, size.Y)
		}
		if w, h := cellSize(o, size, whole); t.Image.Width != w || t.Image.Height != h {
			return nil, corruptf("tile at %v is %dx%d, grid cell is %dx%d", o, t.Image.Width, t.Image.Height, w, h)
		}
		if t.Image.Format != first.Format || t.Image.Mipmaps != first.Mipmaps {
			return nil, corruptf("tile at %v is %s, first tile is %s", o, t.Image.Format, first.Format)
		}
	}

	a := &Assembly{Whole: whole, TileSize: size}
	var cursor image.Point
	advance := func(w int) {
		cursor.X += w
		if cursor.X >= whole.X {
			cursor.X = 0
			cursor.Y += size.Y
		}
	}
	blank := func(like *Image) error {
		w, h := cellSize(cursor, size, whole)
		img, err := NewBlankImage(w, h, like.Format, like.Mipmaps)
		if err != nil {
			return err
		}
		a.Offsets = append(a.Offsets, cursor)
		a.Images = append(a.Images, img)
		a.Blank = append(a.Blank, true)
		advance(w)
		return nil
	}

	for _, t := range sorted {
		for cursor != t.Offset {
			if cursor.Y >= whole.Y {
				return nil, corruptf("tile at %v was never reached", t.Offset)
			}
			if err := blank(t.Image); err != nil {
				return nil, err
			}
		}
		a.Offsets = append(a.Offsets, t.Offset)
		a.Images = append(a.Images, t.Image)
		a.Blank = append(a.Blank, false)
		advance(t.Image.Width)
	}
	for cursor.Y < whole.Y {
		if err := blank(first); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// cellSize is the tile size clipped to the canvas at o.
func cellSize(o, size, whole image.Point) (int, int) {
	return min(size.X, whole.X-o.X), min(size.Y, whole.Y-o.Y)
}

// Compose copies the top level of every cell into a single image. Only
// uncompressed formats can be composed.
func (a *Assembly) Compose() (*Image, error) {
	if len(a.Images) == 0 {
		return nil, corruptf("empty assembly")
	}
	f := a.Images[0].Format
	bpp := f.BytesPerPixel()
	if bpp == 0 {
		return nil, newError(ErrUnsupportedFormat, "cannot compose %s tiles", f)
	}
	out, err := NewBlankImage(a.Whole.X, a.Whole.Y, f, false)
	if err != nil {
		return nil, err
	}
	stride := a.Whole.X * bpp
	for i, img := range a.Images {
		o := a.Offsets[i]
		src, w, h := img.Level(0)
		for y := 0; y < h; y++ {
			dst := (o.Y+y)*stride + o.X*bpp
			copy(out.Data[dst:dst+w*bpp], src[y*w*bpp:(y+1)*w*bpp])
		}
	}
	return out, nil
}
