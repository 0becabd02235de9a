// Package export writes decoded textures to DDS and PNG files.
package export

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/goopsie/texcompat/pkg/texture"
)

// DXGI_FORMAT constants for the formats textures map to.
const (
	DXGI_FORMAT_UNKNOWN            = 0
	DXGI_FORMAT_R32G32B32A32_FLOAT = 2
	DXGI_FORMAT_R32G32B32_FLOAT    = 6
	DXGI_FORMAT_R16G16B16A16_FLOAT = 10
	DXGI_FORMAT_R32G32_FLOAT       = 16
	DXGI_FORMAT_R8G8B8A8_UNORM     = 28
	DXGI_FORMAT_R16G16_FLOAT       = 34
	DXGI_FORMAT_R32_FLOAT          = 41
	DXGI_FORMAT_R8G8_UNORM         = 49
	DXGI_FORMAT_R16_FLOAT          = 54
	DXGI_FORMAT_R8_UNORM           = 61
	DXGI_FORMAT_R9G9B9E5_SHAREDEXP = 67
	DXGI_FORMAT_BC1_UNORM          = 71
	DXGI_FORMAT_BC2_UNORM          = 74
	DXGI_FORMAT_BC3_UNORM          = 77
	DXGI_FORMAT_BC4_UNORM          = 80
	DXGI_FORMAT_BC5_UNORM          = 83
	DXGI_FORMAT_BC6H_UF16          = 95
	DXGI_FORMAT_BC6H_SF16          = 96
	DXGI_FORMAT_BC7_UNORM          = 98
)

var dxgiFormats = map[texture.Format]uint32{
	texture.FormatL8:         DXGI_FORMAT_R8_UNORM,
	texture.FormatLA8:        DXGI_FORMAT_R8G8_UNORM,
	texture.FormatR8:         DXGI_FORMAT_R8_UNORM,
	texture.FormatRG8:        DXGI_FORMAT_R8G8_UNORM,
	texture.FormatRGBA8:      DXGI_FORMAT_R8G8B8A8_UNORM,
	texture.FormatRF:         DXGI_FORMAT_R32_FLOAT,
	texture.FormatRGF:        DXGI_FORMAT_R32G32_FLOAT,
	texture.FormatRGBF:       DXGI_FORMAT_R32G32B32_FLOAT,
	texture.FormatRGBAF:      DXGI_FORMAT_R32G32B32A32_FLOAT,
	texture.FormatRH:         DXGI_FORMAT_R16_FLOAT,
	texture.FormatRGH:        DXGI_FORMAT_R16G16_FLOAT,
	texture.FormatRGBAH:      DXGI_FORMAT_R16G16B16A16_FLOAT,
	texture.FormatRGBE9995:   DXGI_FORMAT_R9G9B9E5_SHAREDEXP,
	texture.FormatDXT1:       DXGI_FORMAT_BC1_UNORM,
	texture.FormatDXT3:       DXGI_FORMAT_BC2_UNORM,
	texture.FormatDXT5:       DXGI_FORMAT_BC3_UNORM,
	texture.FormatDXT5RAAsRG: DXGI_FORMAT_BC3_UNORM,
	texture.FormatRGTCR:      DXGI_FORMAT_BC4_UNORM,
	texture.FormatRGTCRG:     DXGI_FORMAT_BC5_UNORM,
	texture.FormatBPTCRGBA:   DXGI_FORMAT_BC7_UNORM,
	texture.FormatBPTCRGBF:   DXGI_FORMAT_BC6H_SF16,
	texture.FormatBPTCRGBFU:  DXGI_FORMAT_BC6H_UF16,
}

// DXGIFormat returns the DXGI format a texture format is stored as in DDS.
func DXGIFormat(f texture.Format) (uint32, bool) {
	v, ok := dxgiFormats[f]
	return v, ok
}

// FormatName returns a human-readable name for a DXGI_FORMAT value.
func FormatName(format uint32) string {
	switch format {
	case DXGI_FORMAT_R32G32B32A32_FLOAT:
		return "R32G32B32A32_FLOAT"
	case DXGI_FORMAT_R32G32B32_FLOAT:
		return "R32G32B32_FLOAT"
	case DXGI_FORMAT_R16G16B16A16_FLOAT:
		return "R16G16B16A16_FLOAT"
	case DXGI_FORMAT_R32G32_FLOAT:
		return "R32G32_FLOAT"
	case DXGI_FORMAT_R8G8B8A8_UNORM:
		return "R8G8B8A8_UNORM"
	case DXGI_FORMAT_R16G16_FLOAT:
		return "R16G16_FLOAT"
	case DXGI_FORMAT_R32_FLOAT:
		return "R32_FLOAT"
	case DXGI_FORMAT_R8G8_UNORM:
		return "R8G8_UNORM"
	case DXGI_FORMAT_R16_FLOAT:
		return "R16_FLOAT"
	case DXGI_FORMAT_R8_UNORM:
		return "R8_UNORM"
	case DXGI_FORMAT_R9G9B9E5_SHAREDEXP:
		return "R9G9B9E5_SHAREDEXP"
	case DXGI_FORMAT_BC1_UNORM:
		return "BC1_UNORM"
	case DXGI_FORMAT_BC2_UNORM:
		return "BC2_UNORM"
	case DXGI_FORMAT_BC3_UNORM:
		return "BC3_UNORM"
	case DXGI_FORMAT_BC4_UNORM:
		return "BC4_UNORM"
	case DXGI_FORMAT_BC5_UNORM:
		return "BC5_UNORM"
	case DXGI_FORMAT_BC6H_UF16:
		return "BC6H_UF16"
	case DXGI_FORMAT_BC6H_SF16:
		return "BC6H_SF16"
	case DXGI_FORMAT_BC7_UNORM:
		return "BC7_UNORM"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", format)
	}
}

// DDS header constants
const (
	DDS_MAGIC                    = 0x20534444 // "DDS "
	DDS_HEADER_SIZE              = 124
	DDS_HEADER_FLAGS_CAPS        = 0x1
	DDS_HEADER_FLAGS_HEIGHT      = 0x2
	DDS_HEADER_FLAGS_WIDTH       = 0x4
	DDS_HEADER_FLAGS_PITCH       = 0x8
	DDS_HEADER_FLAGS_PIXELFORMAT = 0x1000
	DDS_HEADER_FLAGS_MIPMAPCOUNT = 0x20000
	DDS_HEADER_FLAGS_LINEARSIZE  = 0x80000
	DDS_HEADER_FLAGS_DEPTH       = 0x800000

	DDS_SURFACE_FLAGS_TEXTURE = 0x1000
	DDS_SURFACE_FLAGS_MIPMAP  = 0x400000
	DDS_SURFACE_FLAGS_COMPLEX = 0x8

	DDS_CUBEMAP_ALLFACES = 0xfe00
	DDS_FLAGS_VOLUME     = 0x200000

	DDS_PIXELFORMAT_SIZE = 32
	DDS_FOURCC           = 0x4

	DX10_FOURCC = 0x30315844 // "DX10"

	DDS_DIMENSION_TEXTURE2D = 3
	DDS_DIMENSION_TEXTURE3D = 4
	DDS_RESOURCE_MISC_CUBE  = 0x4

	// DDSHeaderSize is the magic, the header and the DX10 extension.
	DDSHeaderSize = 4 + DDS_HEADER_SIZE + 20
)

// DDSInfo describes the surface a DDS file holds.
type DDSInfo struct {
	Width      uint32
	Height     uint32
	Depth      uint32 // slices of a volume, 0 otherwise
	MipLevels  uint32
	DXGIFormat uint32
	ArraySize  uint32 // cubes for a cubemap, layers otherwise
	Cubemap    bool
	LinearSize uint32 // bytes of the top level
}

func (d *DDSInfo) String() string {
	return fmt.Sprintf("%dx%d depth=%d, %d mips, format=%s, array=%d cube=%t",
		d.Width, d.Height, d.Depth, d.MipLevels, FormatName(d.DXGIFormat), d.ArraySize, d.Cubemap)
}

// createDDSHeader creates a complete DDS header with DX10 extension.
func createDDSHeader(meta *DDSInfo) []byte {
	header := make([]byte, DDSHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], DDS_MAGIC)

	// DDS_HEADER starts at offset 4
	offset := 4
	put := func(v uint32) {
		binary.LittleEndian.PutUint32(header[offset:offset+4], v)
		offset += 4
	}

	put(DDS_HEADER_SIZE)

	flags := uint32(DDS_HEADER_FLAGS_CAPS | DDS_HEADER_FLAGS_HEIGHT | DDS_HEADER_FLAGS_WIDTH |
		DDS_HEADER_FLAGS_PIXELFORMAT | DDS_HEADER_FLAGS_LINEARSIZE)
	if meta.MipLevels > 1 {
		flags |= DDS_HEADER_FLAGS_MIPMAPCOUNT
	}
	if meta.Depth > 0 {
		flags |= DDS_HEADER_FLAGS_DEPTH
	}
	put(flags)
	put(meta.Height)
	put(meta.Width)
	put(meta.LinearSize)
	put(meta.Depth)
	put(meta.MipLevels)

	// dwReserved1[11]
	offset += 44

	// DDS_PIXELFORMAT
	put(DDS_PIXELFORMAT_SIZE)
	put(DDS_FOURCC)
	put(DX10_FOURCC)
	// dwRGBBitCount and the four masks are zero for DX10
	offset += 20

	caps := uint32(DDS_SURFACE_FLAGS_TEXTURE)
	if meta.MipLevels > 1 {
		caps |= DDS_SURFACE_FLAGS_MIPMAP | DDS_SURFACE_FLAGS_COMPLEX
	}
	if meta.Cubemap || meta.Depth > 0 {
		caps |= DDS_SURFACE_FLAGS_COMPLEX
	}
	put(caps)

	var caps2 uint32
	switch {
	case meta.Cubemap:
		caps2 = 0x200 | DDS_CUBEMAP_ALLFACES
	case meta.Depth > 0:
		caps2 = DDS_FLAGS_VOLUME
	}
	put(caps2)

	// dwCaps3, dwCaps4, dwReserved2
	offset += 12

	// DX10 extension
	put(meta.DXGIFormat)
	if meta.Depth > 0 {
		put(DDS_DIMENSION_TEXTURE3D)
	} else {
		put(DDS_DIMENSION_TEXTURE2D)
	}
	if meta.Cubemap {
		put(DDS_RESOURCE_MISC_CUBE)
	} else {
		put(0)
	}
	put(max(meta.ArraySize, 1))
	put(0)

	return header
}

// ReadDDSInfo parses the header written by WriteDDS.
func ReadDDSInfo(r io.Reader) (*DDSInfo, error) {
	header := make([]byte, DDSHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	u32 := func(ofs int) uint32 { return binary.LittleEndian.Uint32(header[ofs : ofs+4]) }
	if u32(0) != DDS_MAGIC || u32(4) != DDS_HEADER_SIZE {
		return nil, fmt.Errorf("not a DDS file")
	}
	if u32(84) != DX10_FOURCC {
		return nil, fmt.Errorf("DDS file without DX10 header")
	}
	return &DDSInfo{
		Height:     u32(12),
		Width:      u32(16),
		LinearSize: u32(20),
		Depth:      u32(24),
		MipLevels:  u32(28),
		DXGIFormat: u32(128),
		Cubemap:    u32(136)&DDS_RESOURCE_MISC_CUBE != 0,
		ArraySize:  u32(140),
	}, nil
}

// Cubemap layered types of layered containers.
const (
	layeredTypeCubemap      = 1
	layeredTypeCubemapArray = 2
)

// WriteDDS writes the images of tex as a DDS file: a single surface, an
// array, a cubemap or a volume. RGB8 data is expanded to RGBA8 since DDS
// has no matching DXGI format.
func WriteDDS(w io.Writer, tex *texture.Texture) (*DDSInfo, error) {
	images := tex.Images
	if len(images) == 0 {
		return nil, fmt.Errorf("texture has no images")
	}

	volume := tex.Variant.Shape() == texture.Shape3D
	if volume && tex.Depth > 0 && tex.Depth < len(images) {
		// Trailing images of a v4 volume are its smaller mip slices.
		images = images[:tex.Depth]
	}

	first := images[0]
	format := first.Format
	if format == texture.FormatRGB8 {
		format = texture.FormatRGBA8
	}
	dxgi, ok := DXGIFormat(format)
	if !ok {
		return nil, fmt.Errorf("%w: no DDS format for %s", texture.ErrUnsupportedFormat, first.Format)
	}

	meta := &DDSInfo{
		Width:      uint32(first.Width),
		Height:     uint32(first.Height),
		MipLevels:  uint32(first.Levels()),
		DXGIFormat: dxgi,
		ArraySize:  uint32(len(images)),
		LinearSize: uint32(texture.LevelSize(first.Width, first.Height, format)),
	}
	if volume {
		meta.Depth = uint32(len(images))
		meta.ArraySize = 1
		meta.MipLevels = 1
	}
	if tex.Variant.Shape() == texture.ShapeLayered && len(images)%6 == 0 &&
		(tex.LayeredType == layeredTypeCubemap || tex.LayeredType == layeredTypeCubemapArray) {
		meta.Cubemap = true
		meta.ArraySize = uint32(len(images) / 6)
	}

	var body []byte
	for i, img := range images {
		if img.Width != first.Width || img.Height != first.Height || img.Mipmaps != first.Mipmaps || img.Format != first.Format {
			return nil, fmt.Errorf("image %d is %s, first image is %s", i, img, first)
		}
		if img.Format != format {
			converted, err := img.Convert(format)
			if err != nil {
				return nil, err
			}
			img = converted
		}
		if volume {
			level, _, _ := img.Level(0)
			body = append(body, level...)
			continue
		}
		body = append(body, img.Data...)
	}

	if _, err := w.Write(createDDSHeader(meta)); err != nil {
		return nil, err
	}
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	return meta, nil
}
