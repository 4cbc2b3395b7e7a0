// Package templates provides starting layouts for new invitations.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/scene"
)

// ErrUnknownTemplate is returned when no template matches a name.
var ErrUnknownTemplate = errors.New("unknown template")

// DefaultName is the template used for new documents and reset.
const DefaultName = "classic"

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Template is a named layout.
type Template struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Background  string       `yaml:"background"`
	Select      *int         `yaml:"select"` // index of the object selected after applying
	Objects     []ObjectSpec `yaml:"objects"`
}

// ObjectSpec describes one object; geometry may use canvas-relative expressions.
type ObjectSpec struct {
	Type string `yaml:"type"`
	Text string `yaml:"text"`

	Left   Expr `yaml:"left"`
	Top    Expr `yaml:"top"`
	Width  Expr `yaml:"width"`
	Height Expr `yaml:"height"`
	X1     Expr `yaml:"x1"`
	Y1     Expr `yaml:"y1"`
	X2     Expr `yaml:"x2"`
	Y2     Expr `yaml:"y2"`
	Radius Expr `yaml:"radius"`

	OriginX     string  `yaml:"originX"`
	Angle       float64 `yaml:"angle"`
	Opacity     float64 `yaml:"opacity"`
	TextAlign   string  `yaml:"textAlign"`
	FontFamily  string  `yaml:"fontFamily"`
	FontSize    float64 `yaml:"fontSize"`
	FontWeight  string  `yaml:"fontWeight"`
	FontStyle   string  `yaml:"fontStyle"`
	CharSpacing float64 `yaml:"charSpacing"`
	LineHeight  float64 `yaml:"lineHeight"`
	Fill        string  `yaml:"fill"`
	Stroke      string  `yaml:"stroke"`
	StrokeWidth float64 `yaml:"strokeWidth"`
	Rx          float64 `yaml:"rx"`
	Src         string  `yaml:"src"`
	Scale       float64 `yaml:"scale"`
}

// Parse decodes a YAML template.
func Parse(data []byte) (*Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	if t.Name == "" {
		return nil, errors.New("parse template: missing name")
	}
	if t.Background == "" {
		t.Background = scene.DefaultBackground
	}
	return &t, nil
}

// Build lays the template out on a canvas of the given size.
// Each object gets a fresh ID.
func (t *Template) Build(width, height int) ([]scene.Object, error) {
	w, h := float64(width), float64(height)
	objects := make([]scene.Object, 0, len(t.Objects))
	for i, spec := range t.Objects {
		obj, err := spec.build(w, h)
		if err != nil {
			return nil, fmt.Errorf("template %s object %d: %w", t.Name, i, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// SelectedIndex returns the object to select after applying, or -1.
func (t *Template) SelectedIndex() int {
	if t.Select == nil || *t.Select < 0 || *t.Select >= len(t.Objects) {
		return -1
	}
	return *t.Select
}

func (s ObjectSpec) build(w, h float64) (scene.Object, error) {
	var evalErr error
	eval := func(e Expr) float64 {
		v, err := e.Eval(w, h)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}

	var o scene.Object
	switch scene.Kind(s.Type) {
	case scene.KindText:
		o = scene.NewTextbox(s.Text, eval(s.Left), eval(s.Top), eval(s.Width))
		if s.FontFamily != "" {
			o.FontFamily = s.FontFamily
		}
		if s.FontSize > 0 {
			o.FontSize = s.FontSize
		}
		if s.FontWeight != "" {
			o.FontWeight = s.FontWeight
		}
		if s.FontStyle != "" {
			o.FontStyle = s.FontStyle
		}
		if s.TextAlign != "" {
			o.TextAlign = s.TextAlign
		}
		if s.LineHeight > 0 {
			o.LineHeight = s.LineHeight
		}
		o.CharSpacing = s.CharSpacing
	case scene.KindLine:
		o = scene.NewLine(eval(s.X1), eval(s.Y1), eval(s.X2), eval(s.Y2))
	case scene.KindRect:
		o = scene.NewRect(eval(s.Left), eval(s.Top), eval(s.Width), eval(s.Height))
		o.Rx = s.Rx
	case scene.KindCircle:
		o = scene.NewCircle(eval(s.Left), eval(s.Top), eval(s.Radius))
	case scene.KindImage:
		scale := s.Scale
		if scale <= 0 {
			scale = 1
		}
		o = scene.NewImage(s.Src, eval(s.Left), eval(s.Top), scale)
	default:
		return o, fmt.Errorf("unknown object type %q", s.Type)
	}
	if evalErr != nil {
		return o, evalErr
	}

	if s.Fill != "" {
		o.Fill = s.Fill
	}
	if s.Stroke != "" {
		o.Stroke = s.Stroke
	}
	if s.StrokeWidth > 0 {
		o.StrokeWidth = s.StrokeWidth
	}
	if s.OriginX != "" {
		o.OriginX = s.OriginX
	}
	if s.Opacity > 0 {
		o.Opacity = s.Opacity
	}
	o.Angle = s.Angle
	o.ID = scene.NewID()
	return o, nil
}

// Library holds the built-in templates and any found in a user directory.
type Library struct {
	templates map[string]*Template
}

// NewLibrary loads the built-in templates, then *.yaml files from userDir
// (if non-empty and present). User templates replace built-ins of the same name.
func NewLibrary(userDir string) (*Library, error) {
	lib := &Library{templates: make(map[string]*Template)}

	entries, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return nil, err
	}
	for _, name := range entries {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		lib.templates[strings.ToLower(t.Name)] = t
	}

	if userDir == "" {
		return lib, nil
	}
	files, err := filepath.Glob(filepath.Join(userDir, "*.yaml"))
	if err != nil {
		return lib, err
	}
	var errs []error
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err == nil {
			var t *Template
			if t, err = Parse(data); err == nil {
				lib.templates[strings.ToLower(t.Name)] = t
				logger.DebugTagf("templates", "Loaded template %s from %s", t.Name, file)
				continue
			}
		}
		errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(file), err))
	}
	return lib, errors.Join(errs...)
}

// Names returns the template names, sorted.
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.templates))
	for _, t := range l.templates {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}

// Get finds a template by exact (case-insensitive) name, falling back to the best fuzzy match.
func (l *Library) Get(name string) (*Template, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := l.templates[key]; ok {
		return t, nil
	}
	if key != "" {
		if matches := fuzzy.Find(key, l.Names()); len(matches) > 0 {
			return l.templates[strings.ToLower(matches[0].Str)], nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownTemplate, name)
}
