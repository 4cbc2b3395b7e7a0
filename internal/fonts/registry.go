// Package fonts resolves the font families named in documents to gg faces.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"github.com/sahilm/fuzzy"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"

	"github.com/bethropolis/invite/internal/logger"
)

// DefaultFamily is used when nothing else matches.
const DefaultFamily = "Go"

// Variant indexes a family's faces.
type Variant int

const (
	Regular Variant = iota
	Bold
	Italic
	BoldItalic
	variantCount
)

// VariantOf maps bold/italic flags to a Variant.
func VariantOf(bold, italic bool) Variant {
	switch {
	case bold && italic:
		return BoldItalic
	case bold:
		return Bold
	case italic:
		return Italic
	default:
		return Regular
	}
}

// fallbacks lists which variants to try, in order, when one is missing.
var fallbacks = [variantCount][]Variant{
	Regular:    {Regular, Bold, Italic, BoldItalic},
	Bold:       {Bold, Regular, BoldItalic, Italic},
	Italic:     {Italic, Regular, BoldItalic, Bold},
	BoldItalic: {BoldItalic, Bold, Italic, Regular},
}

// aliases map the families used by the stock templates onto built-in ones.
var aliases = map[string]string{
	"garamond":        "Go Smallcaps",
	"georgia":         "Go",
	"times new roman": "Go",
	"serif":           "Go",
	"sans-serif":      "Go",
	"monospace":       "Go Mono",
	"courier new":     "Go Mono",
}

// Family groups the font sources of one typeface.
type Family struct {
	Name    string
	sources [variantCount]*text.FontSource
}

type faceKey struct {
	family  string
	variant Variant
	size    float64
}

// Registry holds font families and caches faces by size.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*Family // keyed by lower-case name
	faces    map[faceKey]text.Face
}

// NewRegistry returns a registry with the Go font families loaded.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		families: make(map[string]*Family),
		faces:    make(map[faceKey]text.Face),
	}
	builtin := []struct {
		family  string
		variant Variant
		data    []byte
	}{
		{"Go", Regular, goregular.TTF},
		{"Go", Bold, gobold.TTF},
		{"Go", Italic, goitalic.TTF},
		{"Go", BoldItalic, gobolditalic.TTF},
		{"Go Medium", Regular, gomedium.TTF},
		{"Go Medium", Italic, gomediumitalic.TTF},
		{"Go Mono", Regular, gomono.TTF},
		{"Go Mono", Bold, gomonobold.TTF},
		{"Go Mono", Italic, gomonoitalic.TTF},
		{"Go Mono", BoldItalic, gomonobolditalic.TTF},
		{"Go Smallcaps", Regular, gosmallcaps.TTF},
		{"Go Smallcaps", Italic, gosmallcapsitalic.TTF},
	}
	for _, b := range builtin {
		if err := r.add(b.family, b.variant, b.data); err != nil {
			return nil, fmt.Errorf("built-in font %s: %w", b.family, err)
		}
	}
	return r, nil
}

func (r *Registry) add(family string, v Variant, data []byte) error {
	src, err := text.NewFontSource(data)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(family)
	f, ok := r.families[key]
	if !ok {
		f = &Family{Name: family}
		r.families[key] = f
	}
	f.sources[v] = src
	for k := range r.faces {
		if k.family == key {
			delete(r.faces, k)
		}
	}
	return nil
}

// LoadDir adds every .ttf/.otf file in dir. The family is the file name with
// a -Bold, -Italic, -BoldItalic or -Regular suffix removed. Unreadable files
// are skipped and reported together.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read font dir: %w", err)
	}

	loaded := 0
	var failed []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		family, variant := parseFileName(e.Name())
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err == nil {
			err = r.add(family, variant, data)
		}
		if err != nil {
			logger.Warnf("fonts: skipping %s: %v", e.Name(), err)
			failed = append(failed, e.Name())
			continue
		}
		loaded++
	}
	logger.DebugTagf("fonts", "Loaded %d font files from %s", loaded, dir)
	if len(failed) > 0 {
		return loaded, fmt.Errorf("could not load fonts: %s", strings.Join(failed, ", "))
	}
	return loaded, nil
}

// parseFileName splits "EB Garamond-BoldItalic.ttf" into family and variant.
func parseFileName(name string) (string, Variant) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	suffixes := []struct {
		suffix  string
		variant Variant
	}{
		{"-bolditalic", BoldItalic},
		{"-bold", Bold},
		{"-italic", Italic},
		{"-regular", Regular},
	}
	lower := strings.ToLower(base)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			return base[:len(base)-len(s.suffix)], s.variant
		}
	}
	return base, Regular
}

// Families returns the family names, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.families))
	for _, f := range r.families {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the family names that fuzzily match pattern, best first.
func (r *Registry) Lookup(pattern string) []string {
	names := r.Families()
	if pattern == "" {
		return names
	}
	matches := fuzzy.Find(pattern, names)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}
	return out
}

// Resolve maps a requested family to a loaded one: exact name, then the
// alias table, then the best fuzzy match, then DefaultFamily.
func (r *Registry) Resolve(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	f, ok := r.families[key]
	r.mu.RUnlock()
	if ok {
		return f.Name
	}
	if alias, ok := aliases[key]; ok {
		return alias
	}
	if matches := r.Lookup(name); len(matches) > 0 && key != "" {
		return matches[0]
	}
	return DefaultFamily
}

// Face returns a face for the family at size, falling back to the nearest variant.
func (r *Registry) Face(family string, bold, italic bool, size float64) (text.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	resolved := r.Resolve(family)
	variant := VariantOf(bold, italic)
	key := faceKey{family: strings.ToLower(resolved), variant: variant, size: size}

	r.mu.RLock()
	face, ok := r.faces[key]
	f := r.families[key.family]
	r.mu.RUnlock()
	if ok {
		return face, nil
	}
	if f == nil {
		return nil, fmt.Errorf("font family %q not loaded", resolved)
	}

	for _, v := range fallbacks[variant] {
		if src := f.sources[v]; src != nil {
			face = src.Face(size)
			break
		}
	}
	if face == nil {
		return nil, fmt.Errorf("font family %q has no faces", resolved)
	}

	r.mu.Lock()
	r.faces[key] = face
	r.mu.Unlock()
	return face, nil
}

// HasVariant reports whether the family has its own face for v (no fallback).
func (r *Registry) HasVariant(family string, v Variant) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.families[strings.ToLower(family)]
	return ok && f.sources[v] != nil
}

// Has reports whether name is a loaded family or a known alias.
func (r *Registry) Has(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if _, ok := aliases[key]; ok {
		return true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.families[key]
	return ok
}
