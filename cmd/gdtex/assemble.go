package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/goopsie/texcompat/pkg/convert"
	"github.com/goopsie/texcompat/pkg/export"
	"github.com/goopsie/texcompat/pkg/resource"
)

// Layout describes a v2 LargeTexture: the canvas size and the stream
// texture placed at each offset. Piece paths are relative to the layout
// file.
type Layout struct {
	WholeSize [2]int  `yaml:"whole_size"`
	Pieces    []Piece `yaml:"pieces"`
}

// Piece is one texture of a Layout.
type Piece struct {
	Offset [2]int `yaml:"offset"`
	Path   string `yaml:"path"`
}

// LoadLayout reads a layout file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(l.Pieces) == 0 {
		return nil, fmt.Errorf("%s: no pieces", path)
	}
	return &l, nil
}

// placeholder builds the LargeTexture resource the layout stands for.
// Pieces are plain v2 textures loaded through their load_path.
func (l *Layout) placeholder(name string) *convert.Placeholder {
	data := make([]any, 0, 2*len(l.Pieces)+1)
	for _, p := range l.Pieces {
		data = append(data, image.Pt(p.Offset[0], p.Offset[1]), &convert.Placeholder{
			Class:      "Texture",
			Path:       p.Path,
			Properties: map[string]any{"load_path": filepath.ToSlash(p.Path)},
			Info:       resource.NewInfo(2, "Texture", p.Path),
		})
	}
	data = append(data, image.Pt(l.WholeSize[0], l.WholeSize[1]))
	return &convert.Placeholder{
		Class:      "LargeTexture",
		Path:       name,
		Properties: map[string]any{"_data": data},
		Info:       resource.NewInfo(2, "LargeTexture", name),
	}
}

func runAssemble(args []string) error {
	set, o := newFlagSet("assemble")
	if err := o.parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("usage: gdtex assemble <layout.yaml> <out.png>")
	}
	layoutPath, outPath := set.Arg(0), set.Arg(1)

	layout, err := LoadLayout(layoutPath)
	if err != nil {
		return err
	}
	reg := convert.New(
		convert.WithLogger(o.logger),
		convert.WithFS(os.DirFS(filepath.Dir(layoutPath))),
		convert.WithSizeLimit(o.cfg.SizeLimit),
	)
	res, err := reg.Convert(layout.placeholder(layoutPath), convert.LoadReal)
	if err != nil {
		return err
	}

	asm := res.Assembly
	blank := 0
	for _, b := range asm.Blank {
		if b {
			blank++
		}
	}
	o.logger.Info("reassembled large texture", "cells", asm.Len(), "blank", blank, "tile", asm.TileSize)

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := export.WriteAssemblyPNG(outPath, asm); err != nil {
		return err
	}
	fmt.Printf("%s: %dx%d %s, %d cells (%d blank) -> %s\n", layoutPath, res.Width, res.Height, res.Format, asm.Len(), blank, outPath)
	return nil
}
