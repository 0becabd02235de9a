package texture

import "log/slog"

// Data format word of v3 stream containers.
const (
	formatMaskImage  = 1<<20 - 1
	formatBitPNG     = 1 << 20
	formatBitWebP    = 1 << 21
	formatBitStream  = 1 << 22
	formatBitMipmaps = 1 << 23
)

// Data format codes of the v4 image body.
const (
	DataFormatImage = 0
	DataFormatPNG   = 1
	DataFormatWebP  = 2
	DataFormatBasis = 3
)

// decoder holds the state of one decode call.
type decoder struct {
	r        *reader
	path     string
	variant  Variant
	limit    int
	codecs   Codecs
	logger   *slog.Logger
	warnings []string
}

func (d *decoder) warn(msg string, args ...any) {
	d.logger.Warn(msg, append([]any{"path", d.path}, args...)...)
	d.warnings = append(d.warnings, msg)
}

// overLimit reports whether a w×h level must be skipped under limit.
func overLimit(w, h, limit int) bool {
	return limit > 0 && (w > limit || h > limit)
}

// embeddedChain reads count levels, each a u32 length followed by a blob
// for codec. Leading levels larger than limit are seeked over while more
// than one level remains. Later levels are converted to the format of the
// first kept level and the result is a single image.
func (d *decoder) embeddedChain(codec Codec, count, w, h, limit int) (*Image, error) {
	if count <= 0 {
		return nil, corruptf("embedded image has no levels")
	}
	sw, sh := w, h
	var levels []*Image
	total := 0
	for i := 0; i < count; i++ {
		size := int(d.r.u32())
		if d.r.err != nil {
			return nil, d.r.err
		}
		if len(levels) == 0 && count-i > 1 && overLimit(sw, sh, limit) {
			d.r.skip(int64(size))
			sw, sh = max(1, sw>>1), max(1, sh>>1)
			continue
		}
		if size == 0 {
			return nil, corruptf("embedded level %d is empty", i)
		}
		blob := d.r.bytes(size, "embedded image")
		if d.r.err != nil {
			return nil, d.r.err
		}
		img, err := decodeEmbedded(codec, blob)
		if err != nil {
			return nil, err
		}
		if len(levels) > 0 {
			if img, err = img.Convert(levels[0].Format); err != nil {
				return nil, err
			}
		}
		levels = append(levels, img)
		total += len(img.Data)
		sw, sh = max(1, sw>>1), max(1, sh>>1)
	}

	if len(levels) == 1 {
		return levels[0], nil
	}
	data := make([]byte, 0, total)
	for _, l := range levels {
		data = append(data, l.Data...)
	}
	first := levels[0]
	return NewImage(first.Width, first.Height, first.Format, true, data)
}

func decodeEmbedded(codec Codec, blob []byte) (*Image, error) {
	img, err := codec.Decode(blob)
	if err != nil {
		if KindOf(err) == nil {
			return nil, &Error{Kind: ErrCorrupt, Reason: "embedded image", Err: err}
		}
		return nil, err
	}
	if img == nil || img.Width == 0 || img.Height == 0 || len(img.Data) == 0 {
		return nil, corruptf("embedded image is empty")
	}
	return img, nil
}

// rawChain reads uncompressed or block-compressed pixel data of a w×h
// image. With mipmaps, levels above limit are seeked over and the rest of
// the chain is read. Missing trailing bytes are zero-filled and reported,
// but a chain with no bytes at all is corrupt.
func (d *decoder) rawChain(w, h int, f Format, mipmaps bool, limit int) (*Image, error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	if !mipmaps {
		data := d.r.bytes(DataSize(w, h, f, false), "pixel data")
		if d.r.err != nil {
			return nil, d.r.err
		}
		return NewImage(w, h, f, false, data)
	}

	levels := MipmapCount(w, h) + 1
	level := 0
	sw, sh := w, h
	for levels-level > 1 && overLimit(sw, sh, limit) {
		level++
		sw, sh = MipmapDimensions(w, h, level)
	}

	ofs := MipmapOffset(w, h, f, level)
	want := DataSize(w, h, f, true) - ofs
	if want <= 0 {
		return nil, corruptf("no pixel data for %dx%d %s", w, h, f)
	}
	d.r.seek(d.r.pos() + int64(ofs))
	data := d.r.atMost(want, "pixel data")
	if d.r.err != nil {
		return nil, d.r.err
	}
	if len(data) == 0 {
		return nil, corruptf("no pixel data for %dx%d %s", sw, sh, f)
	}
	if got := len(data); got < want {
		d.warn("zero-filled missing mipmap data", "expected", want, "got", got)
		data = append(data, make([]byte, want-got)...)
	}
	return NewImage(sw, sh, f, true, data)
}

// v3Body reads the pixel payload of a v2/v3 stream container described by
// the data format word df.
func (d *decoder) v3Body(w, h int, df uint32, limit int) (*Image, bool, error) {
	if df&formatBitPNG != 0 || df&formatBitWebP != 0 {
		codec, lossy := d.codecs.Lossless, false
		if df&formatBitPNG == 0 {
			codec, lossy = d.codecs.Lossy, true
		}
		count := int(d.r.u32())
		if d.r.err != nil {
			return nil, false, d.r.err
		}
		img, err := d.embeddedChain(codec, count, w, h, limit)
		return img, lossy, err
	}

	f, err := TranslateV3(df & formatMaskImage)
	if err != nil {
		return nil, false, err
	}
	img, err := d.rawChain(w, h, f, df&formatBitMipmaps != 0, limit)
	return img, false, err
}

// v4Header is the prologue of a v4 image body.
type v4Header struct {
	dataFormat uint32
	width      int
	height     int
	mipmaps    int
	format     Format
}

// v4Body reads one image body of a v4 stream container.
func (d *decoder) v4Body(limit int) (*Image, v4Header, error) {
	var hdr v4Header
	hdr.dataFormat = d.r.u32()
	hdr.width = int(d.r.u16())
	hdr.height = int(d.r.u16())
	hdr.mipmaps = int(d.r.u32())
	hdr.format = Format(d.r.u32())
	if d.r.err != nil {
		return nil, hdr, d.r.err
	}

	var img *Image
	var err error
	switch hdr.dataFormat {
	case DataFormatPNG:
		img, err = d.embeddedChain(d.codecs.Lossless, hdr.mipmaps+1, hdr.width, hdr.height, limit)
	case DataFormatWebP:
		img, err = d.embeddedChain(d.codecs.Lossy, hdr.mipmaps+1, hdr.width, hdr.height, limit)
	case DataFormatImage:
		if !hdr.format.Valid() {
			return nil, hdr, corruptf("invalid texture format %d", uint32(hdr.format))
		}
		img, err = d.rawChain(hdr.width, hdr.height, hdr.format, hdr.mipmaps != 0, limit)
	case DataFormatBasis:
		return nil, hdr, newError(ErrUnsupportedFormat, "basis universal textures")
	default:
		return nil, hdr, corruptf("unknown data format %d", hdr.dataFormat)
	}
	return img, hdr, err
}
