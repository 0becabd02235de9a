package texture

import "fmt"

const (
	// MaxDimension is the largest edge length a decoder accepts.
	MaxDimension = 1 << 24
	// MaxPixels bounds width*height of a single image.
	MaxPixels = 1 << 28
)

// Image is one decoded image: a single level, or a full mip chain stored
// level after level when Mipmaps is set. Images are never modified after
// construction.
type Image struct {
	Width   int
	Height  int
	Format  Format
	Mipmaps bool
	Data    []byte
}

// NewImage validates data against the size formula and wraps it.
func NewImage(w, h int, f Format, mipmaps bool, data []byte) (*Image, error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	if !f.Valid() {
		return nil, corruptf("invalid image format %d", uint32(f))
	}
	if want := DataSize(w, h, f, mipmaps); len(data) != want {
		return nil, corruptf("image data is %d bytes, %dx%d %s (mipmaps=%t) needs %d", len(data), w, h, f, mipmaps, want)
	}
	return &Image{Width: w, Height: h, Format: f, Mipmaps: mipmaps, Data: data}, nil
}

// NewBlankImage returns a zero-filled image.
func NewBlankImage(w, h int, f Format, mipmaps bool) (*Image, error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	return NewImage(w, h, f, mipmaps, make([]byte, DataSize(w, h, f, mipmaps)))
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return corruptf("empty image %dx%d", w, h)
	}
	if w > MaxDimension || h > MaxDimension || w*h > MaxPixels {
		return corruptf("image too large %dx%d", w, h)
	}
	return nil
}

func (img *Image) String() string {
	return fmt.Sprintf("%dx%d %s mipmaps=%t (%d bytes)", img.Width, img.Height, img.Format, img.Mipmaps, len(img.Data))
}

// Levels returns the number of stored levels.
func (img *Image) Levels() int {
	if !img.Mipmaps {
		return 1
	}
	return MipmapCount(img.Width, img.Height) + 1
}

// Level returns the bytes and dimensions of one stored level.
func (img *Image) Level(i int) ([]byte, int, int) {
	w, h := MipmapDimensions(img.Width, img.Height, i)
	ofs := MipmapOffset(img.Width, img.Height, img.Format, i)
	return img.Data[ofs : ofs+LevelSize(w, h, img.Format)], w, h
}

// channels describes the 8-bit formats Convert can translate between:
// which of luminance, red, green, blue and alpha are stored, in order.
var channels = map[Format]string{
	FormatL8:    "l",
	FormatLA8:   "la",
	FormatR8:    "r",
	FormatRG8:   "rg",
	FormatRGB8:  "rgb",
	FormatRGBA8: "rgba",
}

// Convert returns a copy of img in format f. Only the 8-bit uncompressed
// formats can be converted.
func (img *Image) Convert(f Format) (*Image, error) {
	if img.Format == f {
		return img, nil
	}
	src, ok := channels[img.Format]
	dst, ok2 := channels[f]
	if !ok || !ok2 {
		return nil, newError(ErrUnsupportedFormat, "cannot convert %s to %s", img.Format, f)
	}

	spp, dpp := len(src), len(dst)
	pixels := len(img.Data) / spp
	out := make([]byte, pixels*dpp)
	for i := 0; i < pixels; i++ {
		r, g, b, a := unpack(src, img.Data[i*spp:i*spp+spp])
		pack(dst, out[i*dpp:i*dpp+dpp], r, g, b, a)
	}
	return NewImage(img.Width, img.Height, f, img.Mipmaps, out)
}

func unpack(layout string, px []byte) (r, g, b, a byte) {
	a = 255
	for i, c := range layout {
		switch c {
		case 'l':
			r, g, b = px[i], px[i], px[i]
		case 'r':
			r = px[i]
		case 'g':
			g = px[i]
		case 'b':
			b = px[i]
		case 'a':
			a = px[i]
		}
	}
	return r, g, b, a
}

func pack(layout string, px []byte, r, g, b, a byte) {
	for i, c := range layout {
		switch c {
		case 'l':
			px[i] = byte((int(r) + int(g) + int(b)) / 3)
		case 'r':
			px[i] = r
		case 'g':
			px[i] = g
		case 'b':
			px[i] = b
		case 'a':
			px[i] = a
		}
	}
}
