// Package render draws a scene with gg and exports it as PNG, PDF or a
// terminal half-block preview.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/scene"
)

// Source is the read-only view of a scene the renderer needs.
type Source interface {
	Size() (width, height int)
	Background() scene.Background
	Objects() []scene.Object
}

// Options control a rasterization.
type Options struct {
	Multiplier float64 // output pixels per canvas unit, 1 when <= 0
	Highlight  string  // object ID to outline, "" for none
}

const (
	placeholderColor = "#c8c8c8"
	highlightColor   = "#1e90ff"
)

// Rasterize draws src into a new image.
func Rasterize(src Source, reg *fonts.Registry, opts Options) (image.Image, error) {
	dc, err := draw(src, reg, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	return dc.Image(), nil
}

func draw(src Source, reg *fonts.Registry, opts Options) (*gg.Context, error) {
	m := opts.Multiplier
	if m <= 0 {
		m = 1
	}
	w, h := src.Size()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	dc := gg.NewContext(int(math.Round(float64(w)*m)), int(math.Round(float64(h)*m)))

	bg := src.Background()
	dc.ClearWithColor(gg.Hex(bg.Color))
	if bg.Image != nil {
		if px := bg.Image.Pixels(); px != nil {
			b := px.Bounds()
			dc.DrawImageEx(gg.ImageBufFromImage(px), gg.DrawImageOptions{
				DstWidth:  float64(b.Dx()) * bg.Image.ScaleX * m,
				DstHeight: float64(b.Dy()) * bg.Image.ScaleY * m,
				Opacity:   1,
			})
		}
	}

	r := &renderer{dc: dc, fonts: reg, m: m}
	for _, o := range src.Objects() {
		if err := r.object(o); err != nil {
			// One bad object should not blank the card.
			logger.Warnf("render: object %s (%s): %v", o.ID, o.Type, err)
		}
		if o.ID == opts.Highlight && o.ID != "" {
			r.highlight(o)
		}
	}
	return dc, nil
}

type renderer struct {
	dc    *gg.Context
	fonts *fonts.Registry
	m     float64
}

// setColor sets the brush to hex with the object's opacity applied.
func (r *renderer) setColor(hex string, opacity float64) {
	c := gg.Hex(hex)
	r.dc.SetRGBA(c.R, c.G, c.B, c.A*opacity)
}

func (r *renderer) object(o scene.Object) error {
	if o.Opacity <= 0 {
		return nil
	}
	x, y, w, h := o.Bounds()
	if o.Angle != 0 && o.Type != scene.KindText {
		r.dc.Push()
		defer r.dc.Pop()
		r.dc.RotateAbout(o.Angle*math.Pi/180, (x+w/2)*r.m, (y+h/2)*r.m)
	}

	switch o.Type {
	case scene.KindText:
		return r.text(o)
	case scene.KindLine:
		if o.Stroke == "" || o.StrokeWidth <= 0 {
			return nil
		}
		r.setColor(o.Stroke, o.Opacity)
		r.dc.SetLineWidth(o.StrokeWidth * r.m)
		r.dc.DrawLine(o.X1*r.m, o.Y1*r.m, o.X2*r.m, o.Y2*r.m)
		return r.dc.Stroke()
	case scene.KindRect:
		path := func() {
			if o.Rx > 0 {
				r.dc.DrawRoundedRectangle(x*r.m, y*r.m, w*r.m, h*r.m, o.Rx*r.m)
			} else {
				r.dc.DrawRectangle(x*r.m, y*r.m, w*r.m, h*r.m)
			}
		}
		return r.paint(o, path)
	case scene.KindCircle:
		return r.paint(o, func() {
			r.dc.DrawCircle((x+o.Radius)*r.m, (y+o.Radius)*r.m, o.Radius*r.m)
		})
	case scene.KindImage:
		px := o.Pixels()
		if px == nil {
			return r.placeholder(x, y)
		}
		r.dc.DrawImageEx(gg.ImageBufFromImage(px), gg.DrawImageOptions{
			X:         x * r.m,
			Y:         y * r.m,
			DstWidth:  w * r.m,
			DstHeight: h * r.m,
			Opacity:   o.Opacity,
		})
		return nil
	}
	return fmt.Errorf("unknown object type %q", o.Type)
}

// paint fills then strokes the path built by path.
func (r *renderer) paint(o scene.Object, path func()) error {
	if o.Fill != "" {
		path()
		r.setColor(o.Fill, o.Opacity)
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}
	if o.Stroke != "" && o.StrokeWidth > 0 {
		path()
		r.setColor(o.Stroke, o.Opacity)
		r.dc.SetLineWidth(o.StrokeWidth * r.m)
		return r.dc.Stroke()
	}
	return nil
}

// placeholder marks an image whose file could not be loaded.
func (r *renderer) placeholder(x, y float64) error {
	const size = 80
	r.setColor(placeholderColor, 1)
	r.dc.SetLineWidth(r.m)
	r.dc.DrawRectangle(x*r.m, y*r.m, size*r.m, size*r.m)
	if err := r.dc.Stroke(); err != nil {
		return err
	}
	r.dc.DrawLine(x*r.m, y*r.m, (x+size)*r.m, (y+size)*r.m)
	r.dc.DrawLine((x+size)*r.m, y*r.m, x*r.m, (y+size)*r.m)
	return r.dc.Stroke()
}

func (r *renderer) highlight(o scene.Object) {
	x, y, w, h := o.Bounds()
	if o.Type == scene.KindText {
		h = r.textHeight(o)
	}
	const pad = 4
	r.setColor(highlightColor, 1)
	r.dc.SetLineWidth(2 * r.m)
	r.dc.SetDash(6*r.m, 4*r.m)
	r.dc.DrawRectangle((x-pad)*r.m, (y-pad)*r.m, (w+2*pad)*r.m, (h+2*pad)*r.m)
	_ = r.dc.Stroke()
	r.dc.SetDash()
}
