package texture

// Compression modes of v3 volume and array containers.
const (
	CompressionLossless     = 0
	CompressionVRAM         = 1
	CompressionUncompressed = 2
)

// maxLayers bounds the depth a container may declare.
const maxLayers = 1 << 16

// decodeLayeredV3 reads a GD3T or GDAT container:
//
//	magic "GD3T" / "GDAT"
//	u32 width, u32 height, u32 depth
//	u32 texture flags (bit 0: mipmaps)
//	u32 v3 format
//	u32 compression
//	depth × layer
//
// Lossless layers carry their own embedded PNG chain; other layers are
// raw blocks sized by the size formula.
func (d *decoder) decodeLayeredV3() (*Texture, error) {
	d.r.magic()
	w := int(d.r.u32())
	h := int(d.r.u32())
	depth := int(d.r.u32())
	flags := d.r.u32()
	code := d.r.u32()
	compression := d.r.u32()
	if d.r.err != nil {
		return nil, d.r.err
	}

	f, err := TranslateV3(code)
	if err != nil {
		return nil, err
	}
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	if depth <= 0 || depth > maxLayers {
		return nil, corruptf("invalid depth %d", depth)
	}

	t := &Texture{
		Width:       w,
		Height:      h,
		Depth:       depth,
		Flags:       flags,
		Compression: compression,
		Mipmaps:     flags&1 != 0,
		Format:      f,
	}

	for layer := 0; layer < depth; layer++ {
		var img *Image
		if compression == CompressionLossless {
			img, err = d.losslessLayer(w, h, f)
			if err == nil && img.Mipmaps {
				t.Mipmaps = true
			}
		} else {
			mipmaps := flags&1 != 0
			data := d.r.bytes(DataSize(w, h, f, mipmaps), "layer data")
			if d.r.err != nil {
				return nil, d.r.err
			}
			img, err = NewImage(w, h, f, mipmaps, data)
		}
		if err != nil {
			return nil, err
		}
		t.Images = append(t.Images, img)
	}
	return t, nil
}

// losslessLayer reads one layer stored as a chain of PNG levels. Every
// level must decode to exactly the layer format.
func (d *decoder) losslessLayer(w, h int, f Format) (*Image, error) {
	count := int(d.r.u32())
	if d.r.err != nil {
		return nil, d.r.err
	}
	if count <= 0 {
		return nil, corruptf("layer has no levels")
	}
	var levels []*Image
	total := 0
	for i := 0; i < count; i++ {
		size := int(d.r.u32())
		blob := d.r.bytes(size, "embedded image")
		if d.r.err != nil {
			return nil, d.r.err
		}
		if size == 0 {
			return nil, corruptf("layer level %d is empty", i)
		}
		img, err := decodeEmbedded(d.codecs.Lossless, blob)
		if err != nil {
			return nil, err
		}
		if img.Format != f {
			return nil, corruptf("layer level %d is %s, layer format is %s", i, img.Format, f)
		}
		levels = append(levels, img)
		total += len(img.Data)
	}
	if len(levels) == 1 {
		return levels[0], nil
	}
	data := make([]byte, 0, total)
	for _, l := range levels {
		data = append(data, l.Data...)
	}
	return NewImage(w, h, f, true, data)
}

// decodeLayeredV4 reads a GSTL container:
//
//	magic "GSTL"
//	u32 version
//	u32 depth or layer count
//	u32 layered type
//	2 × u32 unused
//	u32 mipmap count
//	2 × u32 ignored
//	n × v4 body
//
// n is the depth for layered textures and depth + mipmap count for
// volumes, which store their smaller mip slices after the full slices.
func (d *decoder) decodeLayeredV4() (*Texture, error) {
	d.r.magic()
	version := d.r.u32()
	if d.r.err != nil {
		return nil, d.r.err
	}
	if version > MaxStreamVersion {
		return nil, newError(ErrFileTooNew, "stream version %d, newest supported is %d", version, MaxStreamVersion)
	}
	depth := int(d.r.u32())
	layeredType := d.r.u32()
	d.r.u32()
	d.r.u32()
	mipmaps := int(d.r.u32())
	d.r.u32()
	d.r.u32()
	if d.r.err != nil {
		return nil, d.r.err
	}

	n := depth
	if d.variant != V4CompressedTextureLayered {
		n += mipmaps
	}
	if depth <= 0 || n > maxLayers || mipmaps < 0 {
		return nil, corruptf("invalid depth %d with %d mipmaps", depth, mipmaps)
	}

	t := &Texture{
		Depth:       depth,
		LayeredType: layeredType,
		Mipmaps:     mipmaps != 0,
	}
	for i := 0; i < n; i++ {
		img, hdr, err := d.v4Body(d.limit)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			t.DataFormat = hdr.dataFormat
			t.Lossy = hdr.dataFormat == DataFormatWebP
			t.Format = img.Format
			t.Width = img.Width
			t.Height = img.Height
		}
		t.Images = append(t.Images, img)
	}
	return t, nil
}
