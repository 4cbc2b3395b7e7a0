package render

import (
	"strings"

	"github.com/gogpu/gg/text"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/invite/internal/scene"
)

// textLayout is a textbox broken into lines at output scale.
type textLayout struct {
	face    text.Face
	lines   []string
	spacing float64 // extra advance per grapheme
	advance float64 // baseline to baseline
	ascent  float64
}

func (r *renderer) layout(o scene.Object) (*textLayout, error) {
	size := o.FontSize * r.m
	face, err := r.fonts.Face(o.FontFamily, o.FontWeight == scene.WeightBold, o.FontStyle == scene.StyleItalic, size)
	if err != nil {
		return nil, err
	}
	lineHeight := o.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1
	}
	l := &textLayout{
		face:    face,
		spacing: o.CharSpacing / 1000 * size,
		advance: size * lineHeight,
		ascent:  face.Metrics().Ascent,
	}

	maxWidth := o.Width * r.m
	for _, paragraph := range strings.Split(o.Text, "\n") {
		if paragraph == "" || maxWidth <= 0 {
			l.lines = append(l.lines, paragraph)
			continue
		}
		for _, wrapped := range text.WrapText(paragraph, face, maxWidth, text.WrapWordChar) {
			l.lines = append(l.lines, strings.TrimRight(wrapped.Text, " "))
		}
	}
	return l, nil
}

// width measures a line including letter spacing.
func (l *textLayout) width(line string) float64 {
	w, _ := text.Measure(line, l.face)
	if l.spacing != 0 {
		if n := uniseg.GraphemeClusterCount(line); n > 1 {
			w += l.spacing * float64(n-1)
		}
	}
	return w
}

func (r *renderer) textHeight(o scene.Object) float64 {
	l, err := r.layout(o)
	if err != nil || len(l.lines) == 0 {
		return o.FontSize * o.LineHeight
	}
	return float64(len(l.lines)) * l.advance / r.m
}

// text draws a textbox. Rotation is not applied to text.
func (r *renderer) text(o scene.Object) error {
	if o.Text == "" {
		return nil
	}
	l, err := r.layout(o)
	if err != nil {
		return err
	}
	r.dc.SetFont(l.face)
	r.setColor(fillOr(o.Fill, "#000000"), o.Opacity)

	boxWidth := o.Width * r.m
	left := o.AlignedLeft(o.Width) * r.m
	baseline := o.Top*r.m + l.ascent
	for _, line := range l.lines {
		lw := l.width(line)
		x := left
		switch o.TextAlign {
		case scene.OriginCenter:
			x += (boxWidth - lw) / 2
		case scene.OriginRight:
			x += boxWidth - lw
		}
		r.drawLine(l, line, x, baseline)
		baseline += l.advance
	}
	return nil
}

func (r *renderer) drawLine(l *textLayout, line string, x, y float64) {
	if l.spacing == 0 {
		r.dc.DrawString(line, x, y)
		return
	}
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		cluster := g.Str()
		r.dc.DrawString(cluster, x, y)
		w, _ := text.Measure(cluster, l.face)
		x += w + l.spacing
	}
}

func fillOr(fill, fallback string) string {
	if fill == "" {
		return fallback
	}
	return fill
}
