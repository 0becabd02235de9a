package texture

import "fmt"

// Format is a pixel format code as stored by v4 containers.
type Format uint32

const (
	FormatL8 Format = iota
	FormatLA8
	FormatR8
	FormatRG8
	FormatRGB8
	FormatRGBA8
	FormatRGBA4444
	FormatRGB565
	FormatRF
	FormatRGF
	FormatRGBF
	FormatRGBAF
	FormatRH
	FormatRGH
	FormatRGBH
	FormatRGBAH
	FormatRGBE9995
	FormatDXT1
	FormatDXT3
	FormatDXT5
	FormatRGTCR
	FormatRGTCRG
	FormatBPTCRGBA
	FormatBPTCRGBF
	FormatBPTCRGBFU
	FormatETC
	FormatETC2R11
	FormatETC2R11S
	FormatETC2RG11
	FormatETC2RG11S
	FormatETC2RGB8
	FormatETC2RGBA8
	FormatETC2RGB8A1
	FormatETC2RAAsRG
	FormatDXT5RAAsRG
	FormatASTC4x4
	FormatASTC4x4HDR
	FormatASTC8x8
	FormatASTC8x8HDR
	FormatMax
)

// formatInfo describes the storage of one level: a w×h level occupies
// (roundUp(w, block) * roundUp(h, block) * pixelSize) >> shift bytes.
type formatInfo struct {
	name      string
	pixelSize int
	shift     uint
	block     int
}

var formatTable = [FormatMax]formatInfo{
	FormatL8:         {"L8", 1, 0, 1},
	FormatLA8:        {"LA8", 2, 0, 1},
	FormatR8:         {"R8", 1, 0, 1},
	FormatRG8:        {"RG8", 2, 0, 1},
	FormatRGB8:       {"RGB8", 3, 0, 1},
	FormatRGBA8:      {"RGBA8", 4, 0, 1},
	FormatRGBA4444:   {"RGBA4444", 2, 0, 1},
	FormatRGB565:     {"RGB565", 2, 0, 1},
	FormatRF:         {"RFloat", 4, 0, 1},
	FormatRGF:        {"RGFloat", 8, 0, 1},
	FormatRGBF:       {"RGBFloat", 12, 0, 1},
	FormatRGBAF:      {"RGBAFloat", 16, 0, 1},
	FormatRH:         {"RHalf", 2, 0, 1},
	FormatRGH:        {"RGHalf", 4, 0, 1},
	FormatRGBH:       {"RGBHalf", 6, 0, 1},
	FormatRGBAH:      {"RGBAHalf", 8, 0, 1},
	FormatRGBE9995:   {"RGBE9995", 4, 0, 1},
	FormatDXT1:       {"DXT1", 1, 1, 4},
	FormatDXT3:       {"DXT3", 1, 0, 4},
	FormatDXT5:       {"DXT5", 1, 0, 4},
	FormatRGTCR:      {"RGTC_R", 1, 1, 4},
	FormatRGTCRG:     {"RGTC_RG", 1, 0, 4},
	FormatBPTCRGBA:   {"BPTC_RGBA", 1, 0, 4},
	FormatBPTCRGBF:   {"BPTC_RGBF", 1, 0, 4},
	FormatBPTCRGBFU:  {"BPTC_RGBFU", 1, 0, 4},
	FormatETC:        {"ETC", 1, 1, 4},
	FormatETC2R11:    {"ETC2_R11", 1, 1, 4},
	FormatETC2R11S:   {"ETC2_R11S", 1, 1, 4},
	FormatETC2RG11:   {"ETC2_RG11", 1, 0, 4},
	FormatETC2RG11S:  {"ETC2_RG11S", 1, 0, 4},
	FormatETC2RGB8:   {"ETC2_RGB8", 1, 1, 4},
	FormatETC2RGBA8:  {"ETC2_RGBA8", 1, 0, 4},
	FormatETC2RGB8A1: {"ETC2_RGB8A1", 1, 1, 4},
	FormatETC2RAAsRG: {"ETC2_RA_AS_RG", 1, 0, 4},
	FormatDXT5RAAsRG: {"DXT5_RA_AS_RG", 1, 0, 4},
	FormatASTC4x4:    {"ASTC_4x4", 1, 0, 4},
	FormatASTC4x4HDR: {"ASTC_4x4_HDR", 1, 0, 4},
	FormatASTC8x8:    {"ASTC_8x8", 1, 2, 8},
	FormatASTC8x8HDR: {"ASTC_8x8_HDR", 1, 2, 8},
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f < FormatMax
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("UNKNOWN(%d)", uint32(f))
	}
	return formatTable[f].name
}

// Compressed reports whether f stores pixels in blocks.
func (f Format) Compressed() bool {
	return f.Valid() && formatTable[f].block > 1
}

// BytesPerPixel is the pixel size of an uncompressed format, 0 otherwise.
func (f Format) BytesPerPixel() int {
	if !f.Valid() || f.Compressed() {
		return 0
	}
	return formatTable[f].pixelSize
}

// MipmapDimensions returns the size of the given level of a w×h image.
func MipmapDimensions(w, h, level int) (int, int) {
	return max(1, w>>level), max(1, h>>level)
}

// MipmapCount returns the number of levels below the top one in a full chain.
func MipmapCount(w, h int) int {
	n := 0
	for w > 1 || h > 1 {
		w = max(1, w>>1)
		h = max(1, h>>1)
		n++
	}
	return n
}

// LevelSize returns the byte size of a single w×h level.
func LevelSize(w, h int, f Format) int {
	if !f.Valid() || w <= 0 || h <= 0 {
		return 0
	}
	info := formatTable[f]
	bw, bh := roundUp(w, info.block), roundUp(h, info.block)
	return (bw * bh * info.pixelSize) >> info.shift
}

// DataSize returns the byte size of a w×h image, including the full mip
// chain when mipmaps is set.
func DataSize(w, h int, f Format, mipmaps bool) int {
	if !mipmaps {
		return LevelSize(w, h, f)
	}
	return MipmapOffset(w, h, f, MipmapCount(w, h)+1)
}

// MipmapOffset returns the byte offset of a level within a full chain.
func MipmapOffset(w, h int, f Format, level int) int {
	ofs := 0
	for i := 0; i < level; i++ {
		lw, lh := MipmapDimensions(w, h, i)
		ofs += LevelSize(lw, lh, f)
		if lw == 1 && lh == 1 {
			break
		}
	}
	return ofs
}

func roundUp(v, block int) int {
	if r := v % block; r != 0 {
		return v + block - r
	}
	return v
}

// V3Format is a pixel format code as stored by v2 and v3 containers.
type V3Format uint32

const (
	V3FormatL8 V3Format = iota
	V3FormatLA8
	V3FormatR8
	V3FormatRG8
	V3FormatRGB8
	V3FormatRGBA8
	V3FormatRGBA4444
	V3FormatRGBA5551
	V3FormatRF
	V3FormatRGF
	V3FormatRGBF
	V3FormatRGBAF
	V3FormatRH
	V3FormatRGH
	V3FormatRGBH
	V3FormatRGBAH
	V3FormatRGBE9995
	V3FormatDXT1
	V3FormatDXT3
	V3FormatDXT5
	V3FormatRGTCR
	V3FormatRGTCRG
	V3FormatBPTCRGBA
	V3FormatBPTCRGBF
	V3FormatBPTCRGBFU
	V3FormatPVRTC2
	V3FormatPVRTC2A
	V3FormatPVRTC4
	V3FormatPVRTC4A
	V3FormatETC
	V3FormatETC2R11
	V3FormatETC2R11S
	V3FormatETC2RG11
	V3FormatETC2RG11S
	V3FormatETC2RGB8
	V3FormatETC2RGBA8
	V3FormatETC2RGB8A1
	V3FormatETC2RAAsRG
	V3FormatDXT5RAAsRG
	V3FormatMax
)

var v3Names = [V3FormatMax]string{
	"L8", "LA8", "R8", "RG8", "RGB8", "RGBA8", "RGBA4444", "RGBA5551",
	"RFloat", "RGFloat", "RGBFloat", "RGBAFloat", "RHalf", "RGHalf", "RGBHalf", "RGBAHalf",
	"RGBE9995", "DXT1", "DXT3", "DXT5", "RGTC_R", "RGTC_RG", "BPTC_RGBA", "BPTC_RGBF",
	"BPTC_RGBFU", "PVRTC2", "PVRTC2A", "PVRTC4", "PVRTC4A", "ETC", "ETC2_R11", "ETC2_R11S",
	"ETC2_RG11", "ETC2_RG11S", "ETC2_RGB8", "ETC2_RGBA8", "ETC2_RGB8A1", "ETC2_RA_AS_RG",
	"DXT5_RA_AS_RG",
}

func (f V3Format) String() string {
	if f >= V3FormatMax {
		return fmt.Sprintf("UNKNOWN(%d)", uint32(f))
	}
	return v3Names[f]
}

// Deprecated reports whether f names a format later versions dropped.
func (f V3Format) Deprecated() bool {
	switch f {
	case V3FormatRGBA5551, V3FormatPVRTC2, V3FormatPVRTC2A, V3FormatPVRTC4, V3FormatPVRTC4A:
		return true
	}
	return false
}

// ParseV3Format looks a format up by its serialized name.
func ParseV3Format(name string) (V3Format, bool) {
	for i, n := range v3Names {
		if n == name {
			return V3Format(i), true
		}
	}
	return V3FormatMax, false
}

var v3ToV4 = map[V3Format]Format{
	V3FormatL8:         FormatL8,
	V3FormatLA8:        FormatLA8,
	V3FormatR8:         FormatR8,
	V3FormatRG8:        FormatRG8,
	V3FormatRGB8:       FormatRGB8,
	V3FormatRGBA8:      FormatRGBA8,
	V3FormatRGBA4444:   FormatRGBA4444,
	V3FormatRF:         FormatRF,
	V3FormatRGF:        FormatRGF,
	V3FormatRGBF:       FormatRGBF,
	V3FormatRGBAF:      FormatRGBAF,
	V3FormatRH:         FormatRH,
	V3FormatRGH:        FormatRGH,
	V3FormatRGBH:       FormatRGBH,
	V3FormatRGBAH:      FormatRGBAH,
	V3FormatRGBE9995:   FormatRGBE9995,
	V3FormatDXT1:       FormatDXT1,
	V3FormatDXT3:       FormatDXT3,
	V3FormatDXT5:       FormatDXT5,
	V3FormatRGTCR:      FormatRGTCR,
	V3FormatRGTCRG:     FormatRGTCRG,
	V3FormatBPTCRGBA:   FormatBPTCRGBA,
	V3FormatBPTCRGBF:   FormatBPTCRGBF,
	V3FormatBPTCRGBFU:  FormatBPTCRGBFU,
	V3FormatETC:        FormatETC,
	V3FormatETC2R11:    FormatETC2R11,
	V3FormatETC2R11S:   FormatETC2R11S,
	V3FormatETC2RG11:   FormatETC2RG11,
	V3FormatETC2RG11S:  FormatETC2RG11S,
	V3FormatETC2RGB8:   FormatETC2RGB8,
	V3FormatETC2RGBA8:  FormatETC2RGBA8,
	V3FormatETC2RGB8A1: FormatETC2RGB8A1,
	V3FormatETC2RAAsRG: FormatETC2RAAsRG,
	V3FormatDXT5RAAsRG: FormatDXT5RAAsRG,
}

// TranslateV3 maps a v3 format code to its v4 equivalent. Deprecated codes
// fail with ErrUnsupportedFormat, anything else unknown with ErrCorrupt.
func TranslateV3(code uint32) (Format, error) {
	f := V3Format(code)
	if v4, ok := v3ToV4[f]; ok {
		return v4, nil
	}
	if f < V3FormatMax && f.Deprecated() {
		return FormatMax, newError(ErrUnsupportedFormat, "deprecated texture format %s", f)
	}
	return FormatMax, corruptf("invalid texture format %d", code)
}
