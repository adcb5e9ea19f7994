// Package report writes the artifacts of a step counting run: a static
// chart, an interactive HTML chart and a JSON summary.
package report

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/Rosa-Hornero/Footstep-Counter/internal/fsutil"
	"github.com/Rosa-Hornero/Footstep-Counter/internal/monitoring"
)

// ErrUnsupportedFormat is returned when a chart path has no known image extension.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Formats understood by plot.WriterTo, keyed by file extension.
var plotFormats = map[string]string{
	".png":  "png",
	".svg":  "svg",
	".pdf":  "pdf",
	".eps":  "eps",
	".jpg":  "jpg",
	".jpeg": "jpg",
	".tif":  "tif",
	".tiff": "tif",
}

// Writer saves reports through a FileSystem.
type Writer struct {
	fs fsutil.FileSystem

	// Static chart size.
	Width, Height vg.Length
}

// NewWriter returns a Writer with a 14x6 inch chart size.
func NewWriter(fsys fsutil.FileSystem) *Writer {
	return &Writer{
		fs:     fsys,
		Width:  14 * vg.Inch,
		Height: 6 * vg.Inch,
	}
}

// SavePlot renders p in the format implied by the extension of path.
func (w *Writer) SavePlot(p *plot.Plot, path string) error {
	if p == nil {
		return fmt.Errorf("save plot %s: nil plot", path)
	}
	format, ok := plotFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("save plot %s: %w %q", path, ErrUnsupportedFormat, filepath.Ext(path))
	}

	wt, err := p.WriterTo(w.Width, w.Height, format)
	if err != nil {
		return fmt.Errorf("render plot %s: %w", path, err)
	}

	if err := w.ensureDir(path); err != nil {
		return err
	}
	f, err := w.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}

	monitoring.Debugf("report: wrote %s chart to %s", format, path)
	return nil
}

func (w *Writer) ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || w.fs.Exists(dir) {
		return nil
	}
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
