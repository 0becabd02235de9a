package convert

import (
	"fmt"

	"github.com/goopsie/texcompat/pkg/resource"
	"github.com/goopsie/texcompat/pkg/texture"
)

// State tells whether a Resource holds pixel data.
type State int

const (
	// StateResolved resources hold their images in memory.
	StateResolved State = iota
	// StateLazy resources only know the file to load them from.
	StateLazy
)

func (s State) String() string {
	if s == StateLazy {
		return "lazy"
	}
	return "resolved"
}

// Resource is the typed result of a conversion.
type Resource struct {
	State State
	Class string // class the host instantiates, e.g. CompressedTexture2D
	Path  string // file to load from, set for lazy resources and decoded textures

	Width        int
	Height       int
	CustomWidth  int
	CustomHeight int
	Mipmaps      bool
	Format       texture.Format
	Images       []*texture.Image

	// Assembly is set for reassembled large textures.
	Assembly *texture.Assembly

	Info *resource.Info

	reg          *Registry
	defaultFlags int
}

// Image returns the first image, or nil for lazy and empty resources.
func (r *Resource) Image() *texture.Image {
	if len(r.Images) == 0 {
		return nil
	}
	return r.Images[0]
}

// Resolve loads the pixel data of a lazy resource. It is a no-op for
// resolved resources. Resolve is not safe for concurrent use.
func (r *Resource) Resolve() error {
	if r.State == StateResolved {
		return nil
	}
	if r.reg == nil {
		return fmt.Errorf("%s: lazy resource has no registry", r.Path)
	}
	tex, err := r.reg.decode(r.Path)
	if err != nil {
		return err
	}
	r.fill(tex)
	r.Info = resource.Merge(tex.Info, r.Info, r.defaultFlags)
	r.State = StateResolved
	return nil
}

func (r *Resource) fill(tex *texture.Texture) {
	r.Width, r.Height = tex.Width, tex.Height
	r.CustomWidth, r.CustomHeight = tex.CustomWidth, tex.CustomHeight
	r.Mipmaps = tex.Mipmaps
	r.Format = tex.Format
	r.Images = tex.Images
}

// Size returns the display size, honoring custom dimensions.
func (r *Resource) Size() (int, int) {
	w, h := r.Width, r.Height
	if r.CustomWidth != 0 {
		w = r.CustomWidth
	}
	if r.CustomHeight != 0 {
		h = r.CustomHeight
	}
	return w, h
}
