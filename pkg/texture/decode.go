// Package texture recognizes and decodes the texture containers written by
// three generations (v2, v3, v4) of the engine.
//
// Stream containers carry a four byte magic and a fixed header:
//
//	GDST  v3 2D texture
//	GD3T  v3 volume texture
//	GDAT  v3 texture array
//	GST2  v4 2D texture
//	GSTL  v4 volume or layered texture, told apart by file extension
//
// Binary resources (RSRC, RSCC) are classified through their declared type
// and version; their pixel data lives in the resource graph and is
// assembled by package convert.
package texture

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/goopsie/texcompat/pkg/resource"
)

// Texture is the result of a decode call.
type Texture struct {
	Variant      Variant
	Path         string
	Width        int
	Height       int
	CustomWidth  int // 0 if not overridden
	CustomHeight int // 0 if not overridden
	Depth        int // layers or slices, 0 for 2D
	Flags        uint32
	DataFormat   uint32
	Compression  uint32 // v3 volume and array containers only
	LayeredType  uint32 // v4 layered containers only
	Mipmaps      bool
	Format       Format
	Lossy        bool // pixels went through a lossy embedded codec
	Images       []*Image
	Info         *resource.Info
	Warnings     []string
}

// Image returns the first decoded image.
func (t *Texture) Image() *Image {
	if len(t.Images) == 0 {
		return nil
	}
	return t.Images[0]
}

// Size returns the display size, honoring custom dimensions.
func (t *Texture) Size() (int, int) {
	w, h := t.Width, t.Height
	if t.CustomWidth != 0 {
		w = t.CustomWidth
	}
	if t.CustomHeight != 0 {
		h = t.CustomHeight
	}
	return w, h
}

type options struct {
	sizeLimit int
	logger    *slog.Logger
	codecs    Codecs
	probe     MetadataProbe
}

// Option configures recognition and decoding.
type Option func(*options)

// WithSizeLimit caps the edge length of decoded streamed textures by
// skipping mip levels. Zero or less means no limit.
func WithSizeLimit(n int) Option {
	return func(o *options) {
		o.sizeLimit = n
	}
}

// WithLogger sets the logger for non-fatal conditions.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCodecs replaces the embedded image decoders.
func WithCodecs(c Codecs) Option {
	return func(o *options) {
		if c.Lossless != nil {
			o.codecs.Lossless = c.Lossless
		}
		if c.Lossy != nil {
			o.codecs.Lossy = c.Lossy
		}
	}
}

// WithProbe replaces the binary resource metadata probe.
func WithProbe(p MetadataProbe) Option {
	return func(o *options) {
		o.probe = p
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: slog.Default(),
		codecs: DefaultCodecs,
		probe:  ProbeFunc(resource.Probe),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// decoders maps every stream variant to its decoder.
var decoders = map[Variant]func(*decoder) (*Texture, error){
	V3StreamTexture2D:          (*decoder).decodeStream2DV3,
	V4CompressedTexture2D:      (*decoder).decodeStream2DV4,
	V3StreamTexture3D:          (*decoder).decodeLayeredV3,
	V3StreamTextureArray:       (*decoder).decodeLayeredV3,
	V4CompressedTexture3D:      (*decoder).decodeLayeredV4,
	V4CompressedTextureLayered: (*decoder).decodeLayeredV4,
}

// Decode recognizes and decodes the file at path. sizeLimit caps the edge
// length of streamed textures; 0 means no limit.
func Decode(path string, sizeLimit int, opts ...Option) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: ErrUnreadable, Path: path, Err: err}
	}
	defer f.Close()
	return DecodeReader(f, path, withLimit(opts, sizeLimit)...)
}

// withLimit appends the size limit to a copy of opts, leaving the caller's
// slice untouched.
func withLimit(opts []Option, sizeLimit int) []Option {
	return append(append([]Option(nil), opts...), WithSizeLimit(sizeLimit))
}

// DecodeFS decodes the named file of fsys.
func DecodeFS(fsys fs.FS, name string, sizeLimit int, opts ...Option) (*Texture, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, &Error{Kind: ErrUnreadable, Path: name, Err: err}
	}
	return DecodeReader(bytes.NewReader(data), name, withLimit(opts, sizeLimit)...)
}

// DecodeReader recognizes and decodes the data in r. name supplies the
// extension for GSTL containers and the path recorded in the result.
func DecodeReader(r io.ReadSeeker, name string, opts ...Option) (*Texture, error) {
	o := newOptions(opts)
	v, err := sniff(r, name, o)
	if err != nil {
		return nil, withPath(name, err)
	}
	t, err := decodeVariant(r, name, v, o)
	return t, withPath(name, err)
}

func decodeVariant(r io.ReadSeeker, name string, v Variant, o *options) (*Texture, error) {
	decode, ok := decoders[v]
	if !ok {
		return nil, newError(ErrInvalidRequest, "%s is a binary resource, convert it from its resource graph", v.TypeName())
	}
	br, err := newReader(r)
	if err != nil {
		return nil, err
	}
	d := &decoder{
		r:       br,
		path:    name,
		variant: v,
		limit:   o.sizeLimit,
		codecs:  o.codecs,
		logger:  o.logger,
	}
	t, err := decode(d)
	if err != nil {
		return nil, err
	}

	t.Variant = v
	t.Path = name
	t.Warnings = d.warnings
	t.Info = infoFor(name, v)
	t.Info.CachedID = name
	t.Info.Extra[resource.KeyTextureFlags] = int(t.Flags)
	if v.MajorVersion() >= 4 {
		t.Info.Extra[resource.KeyDataFormat] = int(t.DataFormat)
	}
	return t, nil
}

func infoFor(path string, v Variant) *resource.Info {
	return resource.NewInfo(v.MajorVersion(), v.TypeName(), path)
}

// decodeShape decodes path only if its variant has the wanted shape.
func decodeShape(path string, want Shape, opts []Option) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: ErrUnreadable, Path: path, Err: err}
	}
	defer f.Close()

	o := newOptions(opts)
	v, err := sniff(f, path, o)
	if err != nil {
		return nil, withPath(path, err)
	}
	if v.Shape() != want {
		return nil, &Error{Kind: ErrInvalidRequest, Path: path, Reason: "requested " + want.String() + " texture, file is " + v.Shape().String()}
	}
	t, err := decodeVariant(f, path, v, o)
	return t, withPath(path, err)
}

// Decode2D decodes a 2D stream texture.
func Decode2D(path string, sizeLimit int, opts ...Option) (*Texture, error) {
	return decodeShape(path, Shape2D, withLimit(opts, sizeLimit))
}

// Decode3D decodes a volume texture.
func Decode3D(path string, opts ...Option) (*Texture, error) {
	return decodeShape(path, Shape3D, opts)
}

// DecodeLayered decodes an array or cubemap texture.
func DecodeLayered(path string, opts ...Option) (*Texture, error) {
	return decodeShape(path, ShapeLayered, opts)
}

// LoadLayeredImages returns the slices of a volume texture or the layers
// of a layered texture, in stored order.
func LoadLayeredImages(path string, opts ...Option) ([]*Image, error) {
	v, err := Recognize(path, opts...)
	if err != nil {
		return nil, err
	}
	switch v.Shape() {
	case Shape3D:
		t, err := Decode3D(path, opts...)
		if err != nil {
			return nil, err
		}
		return t.Images, nil
	case ShapeLayered:
		t, err := DecodeLayered(path, opts...)
		if err != nil {
			return nil, err
		}
		return t.Images, nil
	}
	return nil, &Error{Kind: ErrInvalidRequest, Path: path, Reason: "not a 3d or layered texture"}
}

// ResourceInfoOf returns the metadata of the texture at path without
// decoding pixel data. Binary resources report what their header declares.
func ResourceInfoOf(path string, opts ...Option) (*resource.Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: ErrUnreadable, Path: path, Err: err}
	}
	defer f.Close()

	o := newOptions(opts)
	v, err := sniff(f, path, o)
	if err != nil {
		return nil, withPath(path, err)
	}
	if !v.IsBinaryResource() {
		return infoFor(path, v), nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, &Error{Kind: ErrUnreadable, Path: path, Err: err}
	}
	info, err := o.probe.Probe(f)
	if info == nil {
		return nil, &Error{Kind: ErrUnreadable, Path: path, Reason: "resource header", Err: err}
	}
	info = info.Clone()
	info.OriginalPath = path
	return info, nil
}
