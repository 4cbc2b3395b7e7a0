package templates

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownSize is returned for a canvas preset that does not exist.
var ErrUnknownSize = errors.New("unknown canvas size")

// Size is a canvas preset: on-screen pixels (about 150 dpi) and the printed card in millimetres.
type Size struct {
	Name     string
	Width    int
	Height   int
	WidthMM  float64
	HeightMM float64
}

var sizes = map[string]Size{
	"5x7": {Name: "5x7", Width: 750, Height: 1050, WidthMM: 127, HeightMM: 177.8},
	"a5":  {Name: "a5", Width: 874, Height: 1240, WidthMM: 148, HeightMM: 210},
}

// LookupSize returns the preset with the given name (case-insensitive).
func LookupSize(name string) (Size, error) {
	s, ok := sizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Size{}, fmt.Errorf("%w %q (have %s)", ErrUnknownSize, name, strings.Join(SizeNames(), ", "))
	}
	return s, nil
}

// SizeFor returns the preset matching the given pixel dimensions, if any.
func SizeFor(width, height int) (Size, bool) {
	for _, s := range sizes {
		if s.Width == width && s.Height == height {
			return s, true
		}
	}
	return Size{}, false
}

// SizeNames lists the preset names, sorted.
func SizeNames() []string {
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
