package scene

import (
	"image"
	"math"

	"github.com/google/uuid"
)

// Kind names the type of a scene object as it appears in documents.
type Kind string

const (
	KindText   Kind = "textbox"
	KindLine   Kind = "line"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindImage  Kind = "image"
)

// Horizontal origins and text alignments.
const (
	OriginLeft   = "left"
	OriginCenter = "center"
	OriginRight  = "right"

	WeightNormal = "normal"
	WeightBold   = "bold"
	StyleNormal  = "normal"
	StyleItalic  = "italic"
)

// Object is one element on the canvas. Fields that do not apply to an
// object's Kind stay zero and are omitted from documents.
type Object struct {
	ID      string  `json:"id"`
	Type    Kind    `json:"type"`
	Left    float64 `json:"left"`
	Top     float64 `json:"top"`
	OriginX string  `json:"originX,omitempty"`
	Angle   float64 `json:"angle,omitempty"`
	Opacity float64 `json:"opacity"`

	// textbox
	Text        string  `json:"text,omitempty"`
	TextAlign   string  `json:"textAlign,omitempty"`
	FontFamily  string  `json:"fontFamily,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	FontWeight  string  `json:"fontWeight,omitempty"`
	FontStyle   string  `json:"fontStyle,omitempty"`
	CharSpacing float64 `json:"charSpacing,omitempty"` // thousandths of an em
	LineHeight  float64 `json:"lineHeight,omitempty"`

	// textbox, rect
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// paint
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`

	// line
	X1 float64 `json:"x1,omitempty"`
	Y1 float64 `json:"y1,omitempty"`
	X2 float64 `json:"x2,omitempty"`
	Y2 float64 `json:"y2,omitempty"`

	Rx     float64 `json:"rx,omitempty"`     // rect corner radius
	Radius float64 `json:"radius,omitempty"` // circle

	// image
	Src    string  `json:"src,omitempty"`
	ScaleX float64 `json:"scaleX,omitempty"`
	ScaleY float64 `json:"scaleY,omitempty"`

	// View state, see VolatileKeys.
	Selectable bool `json:"selectable"`
	Evented    bool `json:"evented"`
	Preview    bool `json:"preview"`

	img image.Image
}

// Background is the canvas fill plus an optional image drawn beneath all objects.
type Background struct {
	Color string           `json:"color"`
	Image *BackgroundImage `json:"image,omitempty"`
}

// BackgroundImage is positioned at the canvas origin and scaled.
type BackgroundImage struct {
	Src    string  `json:"src"`
	ScaleX float64 `json:"scaleX"`
	ScaleY float64 `json:"scaleY"`

	img image.Image
}

// Pixels returns the decoded background image, or nil if it failed to load.
func (b *BackgroundImage) Pixels() image.Image {
	return b.img
}

// NewID returns a fresh object identifier.
func NewID() string {
	return uuid.NewString()
}

// defaultObject holds the values assumed for keys missing from a document.
func defaultObject() Object {
	return Object{
		Opacity:    1,
		Selectable: true,
		Evented:    true,
	}
}

// NewTextbox returns a centred textbox of the given width.
func NewTextbox(text string, left, top, width float64) Object {
	o := defaultObject()
	o.Type = KindText
	o.Text = text
	o.Left, o.Top = left, top
	o.OriginX = OriginCenter
	o.Width = width
	o.TextAlign = OriginCenter
	o.FontFamily = "Georgia"
	o.FontSize = 28
	o.FontWeight = WeightNormal
	o.FontStyle = StyleNormal
	o.Fill = "#111111"
	o.LineHeight = 1.16
	return o
}

// NewLine returns a hairline from (x1,y1) to (x2,y2).
func NewLine(x1, y1, x2, y2 float64) Object {
	o := defaultObject()
	o.Type = KindLine
	o.X1, o.Y1, o.X2, o.Y2 = x1, y1, x2, y2
	o.Left, o.Top = math.Min(x1, x2), math.Min(y1, y2)
	o.Stroke = "#222222"
	o.StrokeWidth = 1
	return o
}

// NewRect returns an outlined rectangle.
func NewRect(left, top, width, height float64) Object {
	o := defaultObject()
	o.Type = KindRect
	o.Left, o.Top = left, top
	o.Width, o.Height = width, height
	o.Stroke = "#222222"
	o.StrokeWidth = 1
	return o
}

// NewCircle returns an outlined circle whose bounding box starts at left/top.
func NewCircle(left, top, radius float64) Object {
	o := defaultObject()
	o.Type = KindCircle
	o.Left, o.Top = left, top
	o.Radius = radius
	o.Stroke = "#222222"
	o.StrokeWidth = 1
	return o
}

// NewImage returns an image object referencing src.
func NewImage(src string, left, top, scale float64) Object {
	o := defaultObject()
	o.Type = KindImage
	o.Src = src
	o.Left, o.Top = left, top
	o.ScaleX, o.ScaleY = scale, scale
	return o
}

// IsText reports whether the object holds editable text.
func (o Object) IsText() bool {
	return o.Type == KindText
}

// Pixels returns the decoded image of an image object, or nil.
func (o Object) Pixels() image.Image {
	return o.img
}

// Bounds returns the object's axis-aligned box in canvas units, ignoring rotation.
// Textbox height is not known without a font, so a single line is assumed.
func (o Object) Bounds() (x, y, w, h float64) {
	switch o.Type {
	case KindLine:
		return math.Min(o.X1, o.X2), math.Min(o.Y1, o.Y2), math.Abs(o.X2 - o.X1), math.Abs(o.Y2 - o.Y1)
	case KindCircle:
		w, h = 2*o.Radius, 2*o.Radius
	case KindImage:
		if o.img != nil {
			b := o.img.Bounds()
			w, h = float64(b.Dx())*o.ScaleX, float64(b.Dy())*o.ScaleY
		}
	case KindText:
		w = o.Width
		h = o.FontSize * o.LineHeight
	default:
		w, h = o.Width, o.Height
	}
	return o.AlignedLeft(w), o.Top, w, h
}

// AlignedLeft converts Left to the box's left edge according to OriginX.
func (o Object) AlignedLeft(width float64) float64 {
	switch o.OriginX {
	case OriginCenter:
		return o.Left - width/2
	case OriginRight:
		return o.Left - width
	default:
		return o.Left
	}
}

// Move shifts the object by dx, dy.
func (o *Object) Move(dx, dy float64) {
	o.Left += dx
	o.Top += dy
	if o.Type == KindLine {
		o.X1 += dx
		o.X2 += dx
		o.Y1 += dy
		o.Y2 += dy
	}
}

// normalize replaces non-finite numbers so the object always encodes.
func (o *Object) normalize() {
	for _, f := range []*float64{
		&o.Left, &o.Top, &o.Angle, &o.Opacity, &o.FontSize, &o.CharSpacing,
		&o.LineHeight, &o.Width, &o.Height, &o.StrokeWidth, &o.X1, &o.Y1,
		&o.X2, &o.Y2, &o.Rx, &o.Radius, &o.ScaleX, &o.ScaleY,
	} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	if o.Opacity < 0 {
		o.Opacity = 0
	} else if o.Opacity > 1 {
		o.Opacity = 1
	}
}
