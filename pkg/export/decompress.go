package export

import (
	"fmt"
	"image"

	"github.com/goopsie/texcompat/pkg/texture"
)

// ToNRGBA converts the top level of img to an 8-bit RGBA image. The 8-bit
// uncompressed formats and the BC1 to BC5 block formats are supported.
func ToNRGBA(img *texture.Image) (*image.NRGBA, error) {
	data, width, height := img.Level(0)

	switch img.Format {
	case texture.FormatDXT1:
		return decompressBC1(data, width, height)
	case texture.FormatDXT3:
		return decompressBC2(data, width, height)
	case texture.FormatDXT5, texture.FormatDXT5RAAsRG:
		return decompressBC3(data, width, height)
	case texture.FormatRGTCR:
		return decompressBC4(data, width, height)
	case texture.FormatRGTCRG:
		return decompressBC5(data, width, height)
	}

	level, err := texture.NewImage(width, height, img.Format, false, data)
	if err != nil {
		return nil, err
	}
	rgba, err := level.Convert(texture.FormatRGBA8)
	if err != nil {
		return nil, err
	}
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	copy(nrgba.Pix, rgba.Data)
	return nrgba, nil
}

// blocks calls fn for every 4x4 block of a w×h image stored as size-byte
// blocks, passing the block data and its top-left pixel.
func blocks(data []byte, width, height, size int, fn func(block []byte, x, y int)) error {
	blockW := (width + 3) / 4
	blockH := (height + 3) / 4
	if len(data) < blockW*blockH*size {
		return fmt.Errorf("data truncated: %d bytes for %d blocks", len(data), blockW*blockH)
	}
	offset := 0
	for by := 0; by < blockH; by++ {
		for bx := 0; bx < blockW; bx++ {
			fn(data[offset:offset+size], bx*4, by*4)
			offset += size
		}
	}
	return nil
}

// rgb565 expands a 16-bit color to 8 bits per channel.
func rgb565(c uint16) [3]int {
	r := int(c>>11) & 0x1F
	g := int(c>>5) & 0x3F
	b := int(c) & 0x1F
	return [3]int{r<<3 | r>>2, g<<2 | g>>4, b<<3 | b>>2}
}

// colorPalette decodes the color half of a BC1/BC2/BC3 block.
func colorPalette(block []byte, fourColor bool) [4][4]uint8 {
	c0 := uint16(block[0]) | uint16(block[1])<<8
	c1 := uint16(block[2]) | uint16(block[3])<<8
	e0, e1 := rgb565(c0), rgb565(c1)

	var colors [4][4]uint8
	for ch := 0; ch < 3; ch++ {
		colors[0][ch] = uint8(e0[ch])
		colors[1][ch] = uint8(e1[ch])
		if fourColor || c0 > c1 {
			colors[2][ch] = uint8((2*e0[ch] + e1[ch]) / 3)
			colors[3][ch] = uint8((e0[ch] + 2*e1[ch]) / 3)
		} else {
			colors[2][ch] = uint8((e0[ch] + e1[ch]) / 2)
		}
	}
	colors[0][3], colors[1][3], colors[2][3] = 255, 255, 255
	if fourColor || c0 > c1 {
		colors[3][3] = 255
	}
	return colors
}

// alphaPalette decodes an interpolated 8-byte alpha block (BC3, BC4, BC5)
// into its palette and 48 bits of 3-bit indices.
func alphaPalette(block []byte) ([8]uint8, uint64) {
	a0, a1 := int(block[0]), int(block[1])
	var alphas [8]uint8
	alphas[0], alphas[1] = uint8(a0), uint8(a1)
	if a0 > a1 {
		for i := 2; i < 8; i++ {
			alphas[i] = uint8((a0*(8-i) + a1*(i-1)) / 7)
		}
	} else {
		for i := 2; i < 6; i++ {
			alphas[i] = uint8((a0*(6-i) + a1*(i-1)) / 5)
		}
		alphas[6] = 0
		alphas[7] = 255
	}
	var indices uint64
	for i := 0; i < 6; i++ {
		indices |= uint64(block[2+i]) << (i * 8)
	}
	return alphas, indices
}

func setPixels(nrgba *image.NRGBA, x0, y0 int, fn func(i int) [4]uint8) {
	b := nrgba.Bounds()
	for py := 0; py < 4; py++ {
		for px := 0; px < 4; px++ {
			x, y := x0+px, y0+py
			if x >= b.Max.X || y >= b.Max.Y {
				continue
			}
			c := fn(py*4 + px)
			o := nrgba.PixOffset(x, y)
			copy(nrgba.Pix[o:o+4], c[:])
		}
	}
}

func colorIndices(block []byte) uint32 {
	return uint32(block[0]) | uint32(block[1])<<8 | uint32(block[2])<<16 | uint32(block[3])<<24
}

// decompressBC1 decompresses BC1/DXT1 to RGBA
func decompressBC1(data []byte, width, height int) (*image.NRGBA, error) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	err := blocks(data, width, height, 8, func(block []byte, x, y int) {
		colors := colorPalette(block, false)
		indices := colorIndices(block[4:])
		setPixels(nrgba, x, y, func(i int) [4]uint8 {
			return colors[(indices>>(2*i))&3]
		})
	})
	if err != nil {
		return nil, err
	}
	return nrgba, nil
}

// decompressBC2 decompresses BC2/DXT3 (explicit 4-bit alpha) to RGBA
func decompressBC2(data []byte, width, height int) (*image.NRGBA, error) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	err := blocks(data, width, height, 16, func(block []byte, x, y int) {
		colors := colorPalette(block[8:], true)
		indices := colorIndices(block[12:])
		setPixels(nrgba, x, y, func(i int) [4]uint8 {
			c := colors[(indices>>(2*i))&3]
			a := block[i/2] >> (4 * (i % 2)) & 0xF
			c[3] = a<<4 | a
			return c
		})
	})
	if err != nil {
		return nil, err
	}
	return nrgba, nil
}

// decompressBC3 decompresses BC3/DXT5 to RGBA
func decompressBC3(data []byte, width, height int) (*image.NRGBA, error) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	err := blocks(data, width, height, 16, func(block []byte, x, y int) {
		alphas, alphaIndices := alphaPalette(block)
		colors := colorPalette(block[8:], true)
		indices := colorIndices(block[12:])
		setPixels(nrgba, x, y, func(i int) [4]uint8 {
			c := colors[(indices>>(2*i))&3]
			c[3] = alphas[(alphaIndices>>(3*i))&7]
			return c
		})
	})
	if err != nil {
		return nil, err
	}
	return nrgba, nil
}

// decompressBC4 decompresses single-channel BC4 to grayscale
func decompressBC4(data []byte, width, height int) (*image.NRGBA, error) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	err := blocks(data, width, height, 8, func(block []byte, x, y int) {
		reds, indices := alphaPalette(block)
		setPixels(nrgba, x, y, func(i int) [4]uint8 {
			r := reds[(indices>>(3*i))&7]
			return [4]uint8{r, r, r, 255}
		})
	})
	if err != nil {
		return nil, err
	}
	return nrgba, nil
}

// decompressBC5 decompresses two-channel BC5 to red and green
func decompressBC5(data []byte, width, height int) (*image.NRGBA, error) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	err := blocks(data, width, height, 16, func(block []byte, x, y int) {
		reds, ri := alphaPalette(block[:8])
		greens, gi := alphaPalette(block[8:])
		setPixels(nrgba, x, y, func(i int) [4]uint8 {
			return [4]uint8{reds[(ri>>(3*i))&7], greens[(gi>>(3*i))&7], 0, 255}
		})
	})
	if err != nil {
		return nil, err
	}
	return nrgba, nil
}
