package export

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zeebo/blake3"

	"github.com/goopsie/texcompat/pkg/texture"
)

// Output formats.
const (
	FormatAuto = "auto" // PNG when the pixels can be expanded to RGBA, DDS otherwise
	FormatPNG  = "png"
	FormatDDS  = "dds"
)

// Report describes the outcome of exporting one file.
type Report struct {
	SourcePath string
	SavedPaths []string
	Variant    texture.Variant
	Format     string
	Lossy      bool
	Digest     string // blake3 of the decoded pixel data
	Message    string
	Err        error
}

// Ok reports whether the export succeeded.
func (r *Report) Ok() bool { return r.Err == nil }

func (r *Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.SourcePath, r.Err)
	}
	s := fmt.Sprintf("%s -> %s (%s)", r.SourcePath, strings.Join(r.SavedPaths, ", "), r.Variant)
	if r.Message != "" {
		s += ": " + r.Message
	}
	return s
}

// Exporter decodes textures and writes them to an output directory.
type Exporter struct {
	logger    *slog.Logger
	format    string
	sizeLimit int
	jobs      int
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) {
		e.logger = l
	}
}

// WithFormat selects FormatAuto, FormatPNG or FormatDDS.
func WithFormat(format string) Option {
	return func(e *Exporter) {
		e.format = format
	}
}

// WithSizeLimit caps the edge length of streamed textures.
func WithSizeLimit(n int) Option {
	return func(e *Exporter) {
		e.sizeLimit = n
	}
}

// WithJobs sets how many files ExportAll decodes in parallel.
func WithJobs(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.jobs = n
		}
	}
}

// New returns an Exporter.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		logger: slog.Default(),
		format: FormatAuto,
		jobs:   1,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export decodes src and writes it into dir. Errors are recorded in the
// report.
func (e *Exporter) Export(src, dir string) *Report {
	r := &Report{SourcePath: src}
	tex, err := texture.Decode(src, e.sizeLimit, texture.WithLogger(e.logger))
	if err != nil {
		r.Err = err
		return r
	}
	r.Variant = tex.Variant
	r.Lossy = tex.Lossy
	r.Digest = Digest(tex.Images)
	r.Message = strings.Join(tex.Warnings, "; ")
	if tex.Lossy {
		r.Message = joinMessage(r.Message, "source was lossy compressed")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		r.Err = fmt.Errorf("create output dir: %w", err)
		return r
	}
	base := filepath.Join(dir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))

	format := e.format
	if format == FormatAuto {
		format = FormatDDS
		if _, err := ToNRGBA(tex.Images[0]); err == nil {
			format = FormatPNG
		}
	}
	r.Format = format

	switch format {
	case FormatPNG:
		r.SavedPaths, r.Err = writePNGs(base, tex)
	case FormatDDS:
		path := base + ".dds"
		r.Err = writeDDSFile(path, tex)
		if r.Err == nil {
			r.SavedPaths = []string{path}
		}
	default:
		r.Err = fmt.Errorf("unknown output format %q", format)
	}

	if r.Err != nil {
		e.logger.Error("export failed", "path", src, "error", r.Err)
	} else {
		e.logger.Debug("exported", "path", src, "saved", r.SavedPaths, "variant", r.Variant.String())
	}
	return r
}

// ExportAll exports every path into dir with a pool of workers. Reports are
// returned in the order of paths.
func (e *Exporter) ExportAll(paths []string, dir string) []*Report {
	reports := make([]*Report, len(paths))
	jobs := make(chan int, e.jobs*2)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for i := range jobs {
			reports[i] = e.Export(paths[i], dir)
		}
	}
	for i := 0; i < e.jobs; i++ {
		wg.Add(1)
		go worker()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return reports
}

// Digest hashes the pixel data of images in order.
func Digest(images []*texture.Image) string {
	h := blake3.New()
	for _, img := range images {
		h.Write(img.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func joinMessage(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}

// writePNGs saves the top level of every image, numbering layers.
func writePNGs(base string, tex *texture.Texture) ([]string, error) {
	var saved []string
	for i, img := range tex.Images {
		path := base + ".png"
		if len(tex.Images) > 1 {
			path = fmt.Sprintf("%s_%d.png", base, i)
		}
		if err := WritePNG(path, img); err != nil {
			return saved, err
		}
		saved = append(saved, path)
	}
	return saved, nil
}

// WritePNG saves the top level of img as a PNG file.
func WritePNG(path string, img *texture.Image) error {
	nrgba, err := ToNRGBA(img)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, nrgba); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeDDSFile(path string, tex *texture.Texture) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	_, err = WriteDDS(f, tex)
	return errors.Join(err, f.Close())
}

// WriteAssemblyPNG composes a reassembled large texture into one canvas and
// saves it as a PNG file.
func WriteAssemblyPNG(path string, a *texture.Assembly) error {
	img, err := a.Compose()
	if err != nil {
		return err
	}
	return WritePNG(path, img)
}
