package texture

import (
	"path/filepath"
	"strings"
)

// Variant identifies one recognized texture container kind.
type Variant int

const (
	VariantNone Variant = iota
	V2Texture
	V2ImageTexture
	V2AtlasTexture
	V2LargeTexture
	V2Cubemap
	V3AtlasTexture
	V3ImageTexture
	V3StreamTexture2D
	V3StreamTexture3D
	V3StreamTextureArray
	V4AtlasTexture
	V4ImageTexture
	V4CompressedTexture2D
	V4CompressedTexture3D
	V4CompressedTextureLayered
	variantCount
)

// Shape is the geometric class of a variant.
type Shape int

const (
	ShapeUnknown Shape = iota
	Shape2D
	Shape3D
	ShapeLayered
	ShapeAtlas
)

func (s Shape) String() string {
	switch s {
	case Shape2D:
		return "2d"
	case Shape3D:
		return "3d"
	case ShapeLayered:
		return "layered"
	case ShapeAtlas:
		return "atlas"
	default:
		return "unknown"
	}
}

type variantInfo struct {
	name     string
	typeName string
	major    int
	shape    Shape
	binary   bool
}

var variants = [variantCount]variantInfo{
	VariantNone:                {"none", "Unknown", -1, ShapeUnknown, false},
	V2Texture:                  {"v2-texture", "Texture", 2, Shape2D, true},
	V2ImageTexture:             {"v2-image-texture", "ImageTexture", 2, Shape2D, true},
	V2AtlasTexture:             {"v2-atlas-texture", "AtlasTexture", 2, ShapeAtlas, true},
	V2LargeTexture:             {"v2-large-texture", "LargeTexture", 2, ShapeLayered, true},
	V2Cubemap:                  {"v2-cubemap", "CubeMap", 2, ShapeLayered, true},
	V3AtlasTexture:             {"v3-atlas-texture", "AtlasTexture", 3, ShapeAtlas, true},
	V3ImageTexture:             {"v3-image-texture", "ImageTexture", 3, Shape2D, true},
	V3StreamTexture2D:          {"v3-stream-texture-2d", "StreamTexture", 3, Shape2D, false},
	V3StreamTexture3D:          {"v3-stream-texture-3d", "StreamTexture3D", 3, Shape3D, false},
	V3StreamTextureArray:       {"v3-stream-texture-array", "StreamTextureArray", 3, ShapeLayered, false},
	V4AtlasTexture:             {"v4-atlas-texture", "AtlasTexture", 4, ShapeAtlas, true},
	V4ImageTexture:             {"v4-image-texture", "ImageTexture", 4, Shape2D, true},
	V4CompressedTexture2D:      {"v4-compressed-texture-2d", "CompressedTexture2D", 4, Shape2D, false},
	V4CompressedTexture3D:      {"v4-compressed-texture-3d", "CompressedTexture3D", 4, Shape3D, false},
	V4CompressedTextureLayered: {"v4-compressed-texture-layered", "CompressedTextureLayered", 4, ShapeLayered, false},
}

func (v Variant) info() variantInfo {
	if v < 0 || v >= variantCount {
		return variants[VariantNone]
	}
	return variants[v]
}

func (v Variant) String() string { return v.info().name }

// MajorVersion is the engine generation that wrote the variant, -1 for none.
func (v Variant) MajorVersion() int { return v.info().major }

func (v Variant) Shape() Shape { return v.info().shape }

// TypeName is the engine class the container deserializes to.
func (v Variant) TypeName() string { return v.info().typeName }

// IsBinaryResource reports whether the variant is stored in the key-value
// resource encoding rather than a fixed-header stream.
func (v Variant) IsBinaryResource() bool { return v.info().binary }

// Variants lists every recognized variant.
func Variants() []Variant {
	out := make([]Variant, 0, variantCount-1)
	for v := V2Texture; v < variantCount; v++ {
		out = append(out, v)
	}
	return out
}

// Extension sets by loader family.
var (
	Extensions2D       = []string{"stex", "ctex"}
	Extensions3D       = []string{"tex3d", "ctex3d"}
	ExtensionsLayered  = []string{"texarr", "ctexarray", "ccube", "ccubearray"}
	ExtensionsResource = []string{"tex", "atex", "ltex", "cbm", "res"}
)

// Extensions returns the file extensions the loader of v accepts.
func (v Variant) Extensions() []string {
	switch {
	case v == VariantNone:
		return nil
	case v.IsBinaryResource():
		return ExtensionsResource
	case v.Shape() == Shape3D:
		return Extensions3D
	case v.Shape() == ShapeLayered:
		return ExtensionsLayered
	}
	return Extensions2D
}

// layeredExtensions pick the layered shape for GSTL containers.
var layeredExtensions = []string{"ctexarray", "ccube", "ccubearray"}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

func hasExtension(name string, set []string) bool {
	ext := extension(name)
	for _, e := range set {
		if e == ext {
			return true
		}
	}
	return false
}

// IsTextureFile reports whether name carries an extension any texture
// loader recognizes.
func IsTextureFile(name string) bool {
	return hasExtension(name, Extensions2D) || hasExtension(name, Extensions3D) ||
		hasExtension(name, ExtensionsLayered) || hasExtension(name, ExtensionsResource)
}

// variantFromResource maps the type and version a binary resource declares.
func variantFromResource(typeName string, verMajor int) Variant {
	switch typeName {
	case "Texture":
		return V2Texture
	case "ImageTexture":
		switch {
		case verMajor <= 2:
			return V2ImageTexture
		case verMajor == 3:
			return V3ImageTexture
		}
		return V4ImageTexture
	case "AtlasTexture":
		switch verMajor {
		case 1, 2:
			return V2AtlasTexture
		case 3:
			return V3AtlasTexture
		}
		return V4AtlasTexture
	case "LargeTexture":
		return V2LargeTexture
	case "CubeMap":
		return V2Cubemap
	}
	return VariantNone
}
