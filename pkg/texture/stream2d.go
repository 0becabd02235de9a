package texture

// MaxStreamVersion is the newest v4 stream container version understood.
const MaxStreamVersion = 1

// decodeStream2DV3 reads a GDST container:
//
//	magic "GDST"
//	u16 width, u16 custom width, u16 height, u16 custom height
//	u32 texture flags
//	u32 data format
//	v3 body
func (d *decoder) decodeStream2DV3() (*Texture, error) {
	d.r.magic()
	w := int(d.r.u16())
	wc := int(d.r.u16())
	h := int(d.r.u16())
	hc := int(d.r.u16())
	flags := d.r.u32()
	df := d.r.u32()
	if d.r.err != nil {
		return nil, d.r.err
	}

	limit := d.limit
	if df&formatBitStream == 0 {
		limit = 0
	}
	img, lossy, err := d.v3Body(w, h, df, limit)
	if err != nil {
		return nil, err
	}

	return &Texture{
		Width:        w,
		Height:       h,
		CustomWidth:  wc,
		CustomHeight: hc,
		Flags:        flags,
		DataFormat:   df,
		Mipmaps:      img.Mipmaps,
		Format:       img.Format,
		Lossy:        lossy,
		Images:       []*Image{img},
	}, nil
}

// decodeStream2DV4 reads a GST2 container:
//
//	magic "GST2"
//	u32 version
//	u32 custom width, u32 custom height
//	u32 texture flags
//	u32 mipmap limit (unused), 3 × u32 reserved
//	v4 body
func (d *decoder) decodeStream2DV4() (*Texture, error) {
	d.r.magic()
	version := d.r.u32()
	if d.r.err != nil {
		return nil, d.r.err
	}
	if version > MaxStreamVersion {
		return nil, newError(ErrFileTooNew, "stream version %d, newest supported is %d", version, MaxStreamVersion)
	}
	wc := int(d.r.u32())
	hc := int(d.r.u32())
	flags := d.r.u32()
	d.r.u32()
	d.r.u32()
	d.r.u32()
	d.r.u32()
	if d.r.err != nil {
		return nil, d.r.err
	}

	limit := d.limit
	if flags&formatBitStream == 0 {
		limit = 0
	}
	img, hdr, err := d.v4Body(limit)
	if err != nil {
		return nil, err
	}

	return &Texture{
		Width:        hdr.width,
		Height:       hdr.height,
		CustomWidth:  wc,
		CustomHeight: hc,
		Flags:        flags,
		DataFormat:   hdr.dataFormat,
		Mipmaps:      img.Mipmaps,
		Format:       img.Format,
		Lossy:        hdr.dataFormat == DataFormatWebP,
		Images:       []*Image{img},
	}, nil
}
