package convert

import (
	"fmt"

	"github.com/goopsie/texcompat/pkg/texture"
)

// Image converts v3 Image resources, which store their pixels in a data
// dictionary:
//
//	width, height  int
//	format         v3 format name, e.g. "RGBA8"
//	mipmaps        bool
//	data           []byte
type Image struct{}

func (Image) HandlesType(typeName string, verMajor int) bool {
	return typeName == "Image" && verMajor == 3
}

func (Image) Convert(_ *Registry, p *Placeholder, _ LoadMode) (*Resource, error) {
	data, ok := p.Properties["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: %w: data is %T, want a dictionary", p.Path, ErrInvalidProperty, p.Properties["data"])
	}
	w, err := intProp(data, "width")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	h, err := intProp(data, "height")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	mipmaps, err := boolProp(data, "mipmaps")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}

	name, _ := data["format"].(string)
	v3, ok := texture.ParseV3Format(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w: unknown image format %q", p.Path, ErrInvalidProperty, name)
	}
	format, err := texture.TranslateV3(uint32(v3))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}

	pixels, _ := data["data"].([]byte)
	img, err := texture.NewImage(w, h, format, mipmaps, pixels)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	return &Resource{
		State:   StateResolved,
		Class:   "Image",
		Path:    p.Path,
		Width:   w,
		Height:  h,
		Mipmaps: mipmaps,
		Format:  format,
		Images:  []*texture.Image{img},
		Info:    p.Info.Clone(),
	}, nil
}
