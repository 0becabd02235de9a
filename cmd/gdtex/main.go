// gdtex - inspect and export legacy engine textures
//
// Reads the v2, v3 and v4 texture containers (.stex, .ctex, .tex3d,
// .ctex3d, .texarr, .ctexarray, .ccube, .ccubearray) and the binary
// texture resources that reference them.
//
// Usage:
//
//	gdtex classify <file>...            # Print the container variant
//	gdtex info <file>                   # Show header and metadata
//	gdtex export <file> <out_dir>       # Write PNG or DDS
//	gdtex batch <in_dir> <out_dir>      # Export every texture in a tree
//	gdtex assemble <layout> <out.png>   # Reassemble a tiled LargeTexture
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/goopsie/texcompat/pkg/export"
	"github.com/goopsie/texcompat/pkg/texture"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the flags every subcommand accepts.
type options struct {
	configPath string
	cfg        *Config
	flags      *pflag.FlagSet
	logger     *slog.Logger
}

func newFlagSet(name string) (*pflag.FlagSet, *options) {
	o := &options{cfg: Default()}
	set := pflag.NewFlagSet("gdtex "+name, pflag.ContinueOnError)
	set.StringVarP(&o.configPath, "config", "c", "", "YAML config file")
	set.IntVar(&o.cfg.SizeLimit, "size-limit", o.cfg.SizeLimit, "largest edge to decode from streamed textures (0 = no limit)")
	set.StringVarP(&o.cfg.Format, "format", "f", o.cfg.Format, "export format: auto, png or dds")
	set.StringVar(&o.cfg.LogLevel, "log-level", o.cfg.LogLevel, "log level: debug, info, warn, error")
	set.IntVarP(&o.cfg.Jobs, "jobs", "j", o.cfg.Jobs, "files to export in parallel")
	o.flags = set
	return set, o
}

// parse parses args, loads the config file and reapplies explicit flags
// over it.
func (o *options) parse(args []string) error {
	if err := o.flags.Parse(args); err != nil {
		return err
	}
	if o.configPath != "" {
		fileCfg, err := LoadFile(o.configPath)
		if err != nil {
			return err
		}
		o.flags.Visit(func(f *pflag.Flag) {
			switch f.Name {
			case "size-limit":
				fileCfg.SizeLimit = o.cfg.SizeLimit
			case "format":
				fileCfg.Format = o.cfg.Format
			case "log-level":
				fileCfg.LogLevel = o.cfg.LogLevel
			case "jobs":
				fileCfg.Jobs = o.cfg.Jobs
			}
		})
		o.cfg = fileCfg
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	level, _ := o.cfg.Level()
	o.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (o *options) exporter() *export.Exporter {
	return export.New(
		export.WithLogger(o.logger),
		export.WithFormat(o.cfg.Format),
		export.WithSizeLimit(o.cfg.SizeLimit),
		export.WithJobs(o.cfg.Jobs),
	)
}

func run(args []string) error {
	if len(args) < 1 {
		printUsage()
		return fmt.Errorf("missing command")
	}

	command, args := args[0], args[1:]
	switch command {
	case "classify":
		return runClassify(args)
	case "info":
		return runInfo(args)
	case "export":
		return runExport(args)
	case "batch":
		return runBatch(args)
	case "assemble":
		return runAssemble(args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage() {
	fmt.Println("gdtex - legacy engine texture reader")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  gdtex classify <file>...           # Print the container variant")
	fmt.Println("  gdtex info <file>                  # Show header and metadata")
	fmt.Println("  gdtex export <file> <out_dir>      # Write PNG or DDS")
	fmt.Println("  gdtex batch <in_dir> <out_dir>     # Export every texture in a tree")
	fmt.Println("  gdtex assemble <layout> <out.png>  # Reassemble a tiled LargeTexture")
	fmt.Println()
	fmt.Println("Flags:")
	set, _ := newFlagSet("")
	fmt.Print(set.FlagUsages())
}

func runClassify(args []string) error {
	set, o := newFlagSet("classify")
	if err := o.parse(args); err != nil {
		return err
	}
	if set.NArg() == 0 {
		return fmt.Errorf("usage: gdtex classify <file>...")
	}

	failed := 0
	for _, path := range set.Args() {
		v, err := texture.Recognize(path)
		if err != nil {
			fmt.Printf("%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: %s (%s v%d, %s)\n", path, v, v.TypeName(), v.MajorVersion(), v.Shape())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files not recognized", failed, set.NArg())
	}
	return nil
}

func runInfo(args []string) error {
	set, o := newFlagSet("info")
	if err := o.parse(args); err != nil {
		return err
	}
	if set.NArg() != 1 {
		return fmt.Errorf("usage: gdtex info <file>")
	}
	path := set.Arg(0)

	if strings.EqualFold(filepath.Ext(path), ".dds") {
		return showDDSInfo(path)
	}

	info, err := texture.ResourceInfoOf(path, texture.WithLogger(o.logger))
	if err != nil {
		return err
	}
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Type: %s (v%d, %s)\n", info.Type, info.VerMajor, info.ResourceFormat)
	for k, v := range info.Extra {
		fmt.Printf("  %s: %v\n", k, v)
	}

	tex, err := texture.Decode(path, o.cfg.SizeLimit, texture.WithLogger(o.logger))
	if errors.Is(err, texture.ErrInvalidRequest) {
		// Binary resources have no pixel data of their own.
		return nil
	}
	if err != nil {
		return err
	}
	w, h := tex.Size()
	fmt.Printf("Variant: %s\n", tex.Variant)
	fmt.Printf("Dimensions: %dx%d", tex.Width, tex.Height)
	if w != tex.Width || h != tex.Height {
		fmt.Printf(" (displayed %dx%d)", w, h)
	}
	fmt.Println()
	if tex.Depth > 0 {
		fmt.Printf("Depth: %d\n", tex.Depth)
	}
	fmt.Printf("Format: %s\n", tex.Format)
	fmt.Printf("Mipmaps: %t (%d levels)\n", tex.Mipmaps, tex.Image().Levels())
	fmt.Printf("Images: %d\n", len(tex.Images))
	fmt.Printf("Flags: 0x%x, data format: 0x%x\n", tex.Flags, tex.DataFormat)
	if tex.Lossy {
		fmt.Println("Lossy: true")
	}
	for _, w := range tex.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	fmt.Printf("Digest: %s\n", export.Digest(tex.Images))
	return nil
}

func showDDSInfo(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	info, err := export.ReadDDSInfo(f)
	if err != nil {
		return fmt.Errorf("parse header: %w", err)
	}
	fmt.Printf("File: %s\n", path)
	fmt.Printf("DDS: %s\n", info)
	return nil
}

func runExport(args []string) error {
	set, o := newFlagSet("export")
	if err := o.parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("usage: gdtex export <file> <out_dir>")
	}

	r := o.exporter().Export(set.Arg(0), set.Arg(1))
	if !r.Ok() {
		return r.Err
	}
	fmt.Println(r)
	return nil
}

func runBatch(args []string) error {
	set, o := newFlagSet("batch")
	if err := o.parse(args); err != nil {
		return err
	}
	if set.NArg() != 2 {
		return fmt.Errorf("usage: gdtex batch <in_dir> <out_dir>")
	}
	inputDir, outputDir := set.Arg(0), set.Arg(1)

	paths, err := findTextures(inputDir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no texture files found in %s", inputDir)
	}
	o.logger.Info("exporting textures", "count", len(paths), "jobs", o.cfg.Jobs)

	// Keep the input tree layout under the output directory.
	byDir := make(map[string][]string)
	for _, p := range paths {
		rel, _ := filepath.Rel(inputDir, filepath.Dir(p))
		byDir[rel] = append(byDir[rel], p)
	}

	exp := o.exporter()
	var ok, skipped, failed int
	for rel, group := range byDir {
		for _, r := range exp.ExportAll(group, filepath.Join(outputDir, rel)) {
			if errors.Is(r.Err, texture.ErrInvalidRequest) {
				// Binary resources are exported through their resource graph.
				skipped++
				continue
			}
			if r.Ok() {
				ok++
				if r.Message != "" {
					fmt.Printf("  %s\n", r)
				}
				continue
			}
			failed++
			fmt.Printf("  FAILED %s\n", r)
		}
	}

	fmt.Printf("Exported %d textures, %d skipped, %d failed\n", ok, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d exports failed", failed)
	}
	return nil
}

// findTextures lists texture files under dir in lexical order.
func findTextures(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && texture.IsTextureFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
