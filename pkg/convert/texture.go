package convert

import (
	"fmt"

	"github.com/goopsie/texcompat/pkg/resource"
	"github.com/goopsie/texcompat/pkg/texture"
)

// Texture2D converts texture resources that reference a stream texture
// file through their load_path property.
type Texture2D struct{}

func (Texture2D) HandlesType(typeName string, verMajor int) bool {
	switch typeName {
	case "Texture":
		return verMajor <= 3
	case "Texture2D", "StreamTexture", "CompressedTexture2D":
		return true
	}
	return false
}

func (Texture2D) Convert(reg *Registry, p *Placeholder, mode LoadMode) (*Resource, error) {
	flags, err := intProp(p.Properties, "flags")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}

	loadPath, ok := p.Properties["load_path"].(string)
	if !ok {
		if v, present := p.Properties["load_path"]; present && v != nil {
			return nil, fmt.Errorf("%s: %w: load_path is %T", p.Path, ErrInvalidProperty, v)
		}
		// Nothing to load: the host gets an empty texture.
		return &Resource{State: StateResolved, Class: "CompressedTexture2D", Path: p.Path, Info: p.Info.Clone()}, nil
	}

	res := &Resource{
		State:        StateLazy,
		Class:        "CompressedTexture2D",
		Path:         loadPath,
		Info:         p.Info.Clone(),
		reg:          reg,
		defaultFlags: flags,
	}
	if mode == LoadNonGlobal {
		return res, nil
	}
	if err := res.Resolve(); err != nil {
		return nil, fmt.Errorf("load texture %s: %w", loadPath, err)
	}
	return res, nil
}

// ImageTexture converts textures that embed their image in the resource.
type ImageTexture struct{}

func (ImageTexture) HandlesType(typeName string, _ int) bool {
	return typeName == "ImageTexture"
}

func (ImageTexture) Convert(reg *Registry, p *Placeholder, mode LoadMode) (*Resource, error) {
	img, err := nestedImage(reg, p, mode)
	if err != nil {
		return nil, fmt.Errorf("%s: image: %w", p.Path, err)
	}
	size, err := pointProp(p.Properties, "size")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	flags, err := intProp(p.Properties, "flags")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}

	res := &Resource{
		State:   StateResolved,
		Class:   "ImageTexture",
		Path:    p.Path,
		Width:   img.Width,
		Height:  img.Height,
		Mipmaps: flags&1 != 0 || img.Mipmaps,
		Format:  img.Format,
		Images:  []*texture.Image{img},
	}
	if size.X != 0 && size.X != img.Width {
		res.CustomWidth = size.X
	}
	if size.Y != 0 && size.Y != img.Height {
		res.CustomHeight = size.Y
	}

	v := texture.V2ImageTexture
	switch ver := p.VerMajor(); {
	case ver >= 4:
		v = texture.V4CompressedTexture2D
	case ver == 3:
		v = texture.V3ImageTexture
	}
	fresh := resource.NewInfo(v.MajorVersion(), v.TypeName(), p.Path)
	res.Info = resource.Merge(fresh, p.Info, flags)
	return res, nil
}

// nestedImage resolves the image property of p, converting it first if it
// is itself a placeholder.
func nestedImage(reg *Registry, p *Placeholder, mode LoadMode) (*texture.Image, error) {
	switch v := p.Properties["image"].(type) {
	case *texture.Image:
		if v != nil {
			return v, nil
		}
	case *Resource:
		if v != nil {
			return resourceImage(v)
		}
	case *Placeholder:
		if v != nil {
			res, err := reg.Convert(v, mode)
			if err != nil {
				return nil, err
			}
			return resourceImage(res)
		}
	case nil:
	default:
		return nil, fmt.Errorf("%w: image is %T", ErrInvalidProperty, v)
	}
	return nil, fmt.Errorf("%w: image is missing", ErrInvalidProperty)
}

func resourceImage(res *Resource) (*texture.Image, error) {
	if err := res.Resolve(); err != nil {
		return nil, err
	}
	img := res.Image()
	if img == nil {
		return nil, fmt.Errorf("%w: %s has no image data", ErrInvalidProperty, res.Class)
	}
	return img, nil
}
