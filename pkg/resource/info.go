// Package resource describes decode-time metadata of engine resources and
// reads the headers of binary resource files.
package resource

import (
	"fmt"
	"maps"
)

// Extra keys written by the texture loaders.
const (
	KeyTextureFlags = "texture_flags"
	KeyDataFormat   = "data_format"
	KeyOffsets      = "offsets"
	KeyWholeSize    = "whole_size"
)

// Info is the metadata recorded when a resource is loaded. Values are
// treated as immutable: Clone and Merge return new records.
type Info struct {
	VerMajor       int
	VerMinor       int
	Type           string
	ResourceFormat string
	OriginalPath   string
	CachedID       string
	Extra          map[string]any
}

// NewInfo returns an Info for a texture-family resource.
func NewInfo(verMajor int, typeName, originalPath string) *Info {
	return &Info{
		VerMajor:       verMajor,
		Type:           typeName,
		ResourceFormat: "Texture",
		OriginalPath:   originalPath,
		Extra:          map[string]any{},
	}
}

// Clone returns a copy with its own Extra map.
func (i *Info) Clone() *Info {
	if i == nil {
		return nil
	}
	c := *i
	c.Extra = maps.Clone(i.Extra)
	if c.Extra == nil {
		c.Extra = map[string]any{}
	}
	return &c
}

// With returns a copy with key set to value.
func (i *Info) With(key string, value any) *Info {
	c := i.Clone()
	c.Extra[key] = value
	return c
}

// Int reads an integer extra.
func (i *Info) Int(key string) (int, bool) {
	switch v := i.Extra[key].(type) {
	case int:
		return v, true
	case uint32:
		return int(v), true
	case int64:
		return int(v), true
	}
	return 0, false
}

func (i *Info) String() string {
	return fmt.Sprintf("%s v%d (%s) %s", i.Type, i.VerMajor, i.ResourceFormat, i.OriginalPath)
}

// Merge combines the metadata produced while loading a resource (fresh)
// with the metadata the resource graph recorded for it (source).
//
// Version, type and format come from source, even when fresh names a
// newer container: a v3 StreamTexture loaded on behalf of a v2 Texture
// still reports itself as the v2 Texture, so callers see the resource as
// the graph declared it. The original path of fresh
// is kept if set. texture_flags comes from source, falling back to
// defaultFlags; data_format from source when present. Any other extra
// of source fills a gap in fresh.
func Merge(fresh, source *Info, defaultFlags int) *Info {
	if fresh == nil {
		return source.Clone()
	}
	out := fresh.Clone()
	if source == nil {
		return out
	}
	out.VerMajor = source.VerMajor
	out.VerMinor = source.VerMinor
	out.Type = source.Type
	out.ResourceFormat = source.ResourceFormat
	if out.OriginalPath == "" {
		out.OriginalPath = source.OriginalPath
	}
	for k, v := range source.Extra {
		if _, ok := out.Extra[k]; !ok {
			out.Extra[k] = v
		}
	}
	if v, ok := source.Extra[KeyTextureFlags]; ok {
		out.Extra[KeyTextureFlags] = v
	} else {
		out.Extra[KeyTextureFlags] = defaultFlags
	}
	if v, ok := source.Extra[KeyDataFormat]; ok {
		out.Extra[KeyDataFormat] = v
	}
	return out
}
