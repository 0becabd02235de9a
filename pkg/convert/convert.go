// Package convert turns placeholder resources read from a legacy resource
// graph into typed texture resources.
//
// A placeholder carries the class name it was saved as, its serialized
// properties and the metadata recorded when it was read. Converters are
// picked by (type, major version); nested placeholders such as the image of
// an ImageTexture or the pieces of a LargeTexture are converted through the
// same registry.
package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/goopsie/texcompat/pkg/resource"
	"github.com/goopsie/texcompat/pkg/texture"
)

var (
	ErrNoConverter     = errors.New("no converter for type")
	ErrNoInfo          = errors.New("placeholder has no resource info")
	ErrInvalidProperty = errors.New("invalid property")
)

// LoadMode selects how much work a conversion does.
type LoadMode int

const (
	// LoadReal decodes referenced texture files.
	LoadReal LoadMode = iota
	// LoadNonGlobal leaves referenced files unread; the result is lazy.
	LoadNonGlobal
)

func (m LoadMode) String() string {
	if m == LoadNonGlobal {
		return "non-global"
	}
	return "real"
}

// Placeholder is a resource whose class was not instantiated when the
// resource graph was read.
type Placeholder struct {
	Class      string
	Path       string
	Properties map[string]any
	Info       *resource.Info
}

// TypeName returns the type recorded in the metadata, or the class.
func (p *Placeholder) TypeName() string {
	if p.Info != nil && p.Info.Type != "" {
		return p.Info.Type
	}
	return p.Class
}

// VerMajor returns the engine major version the placeholder was saved by.
func (p *Placeholder) VerMajor() int {
	if p.Info == nil {
		return 0
	}
	return p.Info.VerMajor
}

// Converter builds a typed resource from a placeholder.
type Converter interface {
	HandlesType(typeName string, verMajor int) bool
	Convert(reg *Registry, p *Placeholder, mode LoadMode) (*Resource, error)
}

// Registry dispatches placeholders to converters. It is not modified after
// New returns and may be shared between goroutines.
type Registry struct {
	converters []Converter
	logger     *slog.Logger
	fsys       fs.FS
	sizeLimit  int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used by conversions and the texture decoder.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithFS resolves load paths inside fsys instead of the host file system.
func WithFS(fsys fs.FS) Option {
	return func(r *Registry) {
		r.fsys = fsys
	}
}

// WithSizeLimit caps the edge length of decoded streamed textures.
func WithSizeLimit(n int) Option {
	return func(r *Registry) {
		r.sizeLimit = n
	}
}

// WithConverter adds c ahead of the built-in converters.
func WithConverter(c Converter) Option {
	return func(r *Registry) {
		r.converters = append([]Converter{c}, r.converters...)
	}
}

// DefaultConverters returns the built-in converters.
func DefaultConverters() []Converter {
	return []Converter{Texture2D{}, ImageTexture{}, Image{}, LargeTexture{}}
}

// New returns a Registry holding the built-in converters.
func New(opts ...Option) *Registry {
	r := &Registry{
		converters: DefaultConverters(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the first converter handling typeName at verMajor.
func (r *Registry) Lookup(typeName string, verMajor int) (Converter, bool) {
	for _, c := range r.converters {
		if c.HandlesType(typeName, verMajor) {
			return c, true
		}
	}
	return nil, false
}

// Convert converts p with the converter registered for its type.
func (r *Registry) Convert(p *Placeholder, mode LoadMode) (*Resource, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil placeholder", ErrInvalidProperty)
	}
	if p.Info == nil {
		return nil, fmt.Errorf("%s: %w", p.Path, ErrNoInfo)
	}
	typeName, ver := p.TypeName(), p.VerMajor()
	c, ok := r.Lookup(typeName, ver)
	if !ok {
		return nil, fmt.Errorf("%s: %w %s (v%d)", p.Path, ErrNoConverter, typeName, ver)
	}
	res, err := c.Convert(r, p, mode)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("converted resource", "path", p.Path, "type", typeName, "class", res.Class, "state", res.State.String())
	return res, nil
}

// decode loads a texture file referenced by a resource.
func (r *Registry) decode(path string) (*texture.Texture, error) {
	opts := []texture.Option{texture.WithLogger(r.logger)}
	if r.fsys != nil {
		return texture.DecodeFS(r.fsys, path, r.sizeLimit, opts...)
	}
	return texture.Decode(path, r.sizeLimit, opts...)
}
