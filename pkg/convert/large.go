package convert

import (
	"fmt"
	"image"

	"github.com/goopsie/texcompat/pkg/resource"
	"github.com/goopsie/texcompat/pkg/texture"
)

// LargeTexture converts v2 tiled textures. Their _data property lists
// offset and texture pairs followed by the size of the whole canvas:
//
//	[offset0, texture0, offset1, texture1, ..., wholeSize]
//
// Pieces are reassembled into a texture array covering the canvas, with
// blank cells where the source left gaps.
type LargeTexture struct{}

func (LargeTexture) HandlesType(typeName string, _ int) bool {
	return typeName == "LargeTexture"
}

func (LargeTexture) Convert(reg *Registry, p *Placeholder, mode LoadMode) (*Resource, error) {
	data, ok := p.Properties["_data"].([]any)
	if !ok || len(data)%2 != 1 {
		return nil, fmt.Errorf("%s: %w: _data must hold offset and texture pairs and the whole size", p.Path, ErrInvalidProperty)
	}
	whole, ok := toPoint(data[len(data)-1])
	if !ok {
		return nil, fmt.Errorf("%s: %w: whole size is %T", p.Path, ErrInvalidProperty, data[len(data)-1])
	}

	tiles := make([]texture.Tile, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		offset, ok := toPoint(data[i])
		if !ok {
			return nil, fmt.Errorf("%s: %w: piece %d offset is %T", p.Path, ErrInvalidProperty, i/2, data[i])
		}
		img, err := piece(reg, data[i+1], mode)
		if err != nil {
			return nil, fmt.Errorf("%s: piece %d: %w", p.Path, i/2, err)
		}
		tiles = append(tiles, texture.Tile{Offset: offset, Image: img})
	}

	asm, err := texture.Reassemble(tiles, whole)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}

	fresh := resource.NewInfo(texture.V2LargeTexture.MajorVersion(), texture.V2LargeTexture.TypeName(), p.Path)
	fresh.Extra[resource.KeyOffsets] = asm.Offsets
	fresh.Extra[resource.KeyWholeSize] = whole
	return &Resource{
		State:    StateResolved,
		Class:    "CompressedTexture2DArray",
		Path:     p.Path,
		Width:    whole.X,
		Height:   whole.Y,
		Format:   asm.Images[0].Format,
		Mipmaps:  asm.Images[0].Mipmaps,
		Images:   asm.Images,
		Assembly: asm,
		Info:     resource.Merge(fresh, p.Info, 0),
	}, nil
}

// piece resolves one texture of a LargeTexture.
func piece(reg *Registry, v any, mode LoadMode) (*texture.Image, error) {
	switch t := v.(type) {
	case *Placeholder:
		if t == nil {
			break
		}
		// Pieces are needed in memory to be reassembled.
		if mode == LoadNonGlobal {
			mode = LoadReal
		}
		res, err := reg.Convert(t, mode)
		if err != nil {
			return nil, err
		}
		return resourceImage(res)
	case *Resource:
		if t != nil {
			return resourceImage(t)
		}
	case *texture.Image:
		if t != nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: texture is %T", ErrInvalidProperty, v)
}

// Offsets returns the tile offsets recorded for a large texture.
func Offsets(info *resource.Info) ([]image.Point, bool) {
	if info == nil {
		return nil, false
	}
	offsets, ok := info.Extra[resource.KeyOffsets].([]image.Point)
	return offsets, ok
}
