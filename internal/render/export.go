package render

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/templates"
)

// DefaultExportName is the file name used when no export path is given.
const DefaultExportName = "wedding-invitation.png"

// previewDPI is the resolution canvas units are assumed to have when the
// canvas matches no known card size.
const previewDPI = 150

// Export writes src to path, choosing PNG or PDF by extension.
func Export(path string, src Source, reg *fonts.Registry, multiplier float64) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExportPDF(path, src, reg, multiplier)
	case ".png", "":
		return ExportPNG(path, src, reg, multiplier)
	default:
		return fmt.Errorf("export %s: unsupported format %q", path, filepath.Ext(path))
	}
}

// ExportPNG rasterizes src at multiplier and writes a PNG file.
func ExportPNG(path string, src Source, reg *fonts.Registry, multiplier float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	dc, err := draw(src, reg, Options{Multiplier: multiplier})
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	logger.Infof("Exported %dx%d PNG to %s", dc.Width(), dc.Height(), path)
	return nil
}

// PageSize returns the printed card size in millimetres for a canvas.
func PageSize(width, height int) (wmm, hmm float64) {
	if s, ok := templates.SizeFor(width, height); ok {
		return s.WidthMM, s.HeightMM
	}
	const mmPerInch = 25.4
	return float64(width) / previewDPI * mmPerInch, float64(height) / previewDPI * mmPerInch
}

// ExportPDF writes a single-page PDF the size of the printed card with the
// rasterized invitation placed full-bleed.
func ExportPDF(path string, src Source, reg *fonts.Registry, multiplier float64) error {
	img, err := Rasterize(src, reg, Options{Multiplier: multiplier})
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("export %s: encode page: %w", path, err)
	}

	w, h := src.Size()
	wmm, hmm := PageSize(w, h)
	orientation := "P"
	if wmm > hmm {
		orientation = "L"
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: wmm, Ht: hmm},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Wedding invitation", true)
	pdf.SetCreator("invite", true)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("card", opts, &buf)
	pdf.ImageOptions("card", 0, 0, wmm, hmm, false, opts, 0, "")
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	logger.Infof("Exported %.0fx%.0fmm PDF to %s", wmm, hmm, path)
	return nil
}
