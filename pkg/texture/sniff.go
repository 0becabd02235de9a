package texture

import (
	"errors"
	"io"
	"os"

	"github.com/goopsie/texcompat/pkg/resource"
)

// MetadataProbe reads the declared type and version of a binary resource.
// It may return a valid Info together with resource.ErrNoMetadata.
type MetadataProbe interface {
	Probe(r io.Reader) (*resource.Info, error)
}

// ProbeFunc adapts a function to MetadataProbe.
type ProbeFunc func(r io.Reader) (*resource.Info, error)

func (f ProbeFunc) Probe(r io.Reader) (*resource.Info, error) {
	return f(r)
}

// Recognize classifies the file at path.
func Recognize(path string, opts ...Option) (Variant, error) {
	f, err := os.Open(path)
	if err != nil {
		return VariantNone, &Error{Kind: ErrUnreadable, Path: path, Err: err}
	}
	defer f.Close()
	return Sniff(f, path, opts...)
}

// Sniff classifies the data in r from its first four bytes. name is used
// for the extension check of GSTL containers and in errors. Binary
// resources are passed to the metadata probe, positioned at their start.
func Sniff(r io.ReadSeeker, name string, opts ...Option) (Variant, error) {
	o := newOptions(opts)
	v, err := sniff(r, name, o)
	return v, withPath(name, err)
}

func sniff(r io.ReadSeeker, name string, o *options) (Variant, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return VariantNone, newError(ErrUnrecognized, "file shorter than magic")
		}
		return VariantNone, &Error{Kind: ErrUnreadable, Reason: "read magic", Err: err}
	}

	switch string(magic[:]) {
	case "GDST":
		return V3StreamTexture2D, nil
	case "GD3T":
		return V3StreamTexture3D, nil
	case "GDAT":
		return V3StreamTextureArray, nil
	case "GSTL":
		if hasExtension(name, layeredExtensions) {
			return V4CompressedTextureLayered, nil
		}
		return V4CompressedTexture3D, nil
	case "GST2":
		return V4CompressedTexture2D, nil
	case "RSRC", "RSCC":
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return VariantNone, &Error{Kind: ErrUnreadable, Reason: "seek", Err: err}
		}
		info, err := o.probe.Probe(r)
		if err != nil && !errors.Is(err, resource.ErrNoMetadata) {
			return VariantNone, &Error{Kind: ErrUnreadable, Reason: "resource header", Err: err}
		}
		if info == nil {
			return VariantNone, newError(ErrUnreadable, "resource header")
		}
		if v := variantFromResource(info.Type, info.VerMajor); v != VariantNone {
			return v, nil
		}
		return VariantNone, newError(ErrUnrecognized, "resource type %q is not a texture", info.Type)
	}
	return VariantNone, newError(ErrUnrecognized, "magic %q", magic[:])
}
