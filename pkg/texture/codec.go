package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/webp"
)

// Codec decodes one embedded still image.
type Codec interface {
	Decode(data []byte) (*Image, error)
}

// CodecFunc adapts a function to Codec.
type CodecFunc func(data []byte) (*Image, error)

func (f CodecFunc) Decode(data []byte) (*Image, error) {
	return f(data)
}

// Codecs holds the lossless and lossy embedded image decoders.
type Codecs struct {
	Lossless Codec
	Lossy    Codec
}

// DefaultCodecs decodes PNG and WebP.
var DefaultCodecs = Codecs{
	Lossless: CodecFunc(DecodePNG),
	Lossy:    CodecFunc(DecodeWebP),
}

const (
	pngColorGray      = 0
	pngColorRGB       = 2
	pngColorPalette   = 3
	pngColorGrayAlpha = 4
	pngColorRGBA      = 6
)

// DecodePNG decodes a PNG blob, optionally prefixed with "PNG ", into an
// 8-bit image in the format matching its color type.
func DecodePNG(data []byte) (*Image, error) {
	data = bytes.TrimPrefix(data, []byte("PNG "))
	if len(data) < 26 {
		return nil, corruptf("embedded PNG is %d bytes", len(data))
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Kind: ErrCorrupt, Reason: "embedded PNG", Err: err}
	}

	var f Format
	switch data[25] {
	case pngColorGray:
		f = FormatL8
		if _, ok := src.(*image.NRGBA); ok {
			f = FormatLA8
		}
	case pngColorGrayAlpha:
		f = FormatLA8
	case pngColorRGB:
		f = FormatRGB8
		if _, ok := src.(*image.NRGBA); ok {
			f = FormatRGBA8
		}
	case pngColorPalette:
		f = FormatRGB8
		if p, ok := src.(*image.Paletted); ok && !opaquePalette(p.Palette) {
			f = FormatRGBA8
		}
	default:
		f = FormatRGBA8
	}
	return fromStdImage(src, f)
}

// DecodeWebP decodes a WebP blob, optionally prefixed with "WEBP".
func DecodeWebP(data []byte) (*Image, error) {
	if len(data) > 4 && string(data[:4]) == "WEBP" {
		data = data[4:]
	}
	src, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Kind: ErrCorrupt, Reason: "embedded WebP", Err: err}
	}

	f := FormatRGBA8
	switch img := src.(type) {
	case *image.YCbCr:
		f = FormatRGB8
	case *image.NRGBA:
		if img.Opaque() {
			f = FormatRGB8
		}
	}
	return fromStdImage(src, f)
}

func opaquePalette(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return false
		}
	}
	return true
}

func fromStdImage(src image.Image, f Format) (*Image, error) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	layout := channels[f]
	pp := len(layout)
	out := make([]byte, w*h*pp)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			if layout[0] == 'l' {
				out[i] = c.R
				if pp == 2 {
					out[i+1] = c.A
				}
			} else {
				pack(layout, out[i:i+pp], c.R, c.G, c.B, c.A)
			}
			i += pp
		}
	}
	return NewImage(w, h, f, false, out)
}
