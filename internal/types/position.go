// internal/types/position.go
package types

// Position is a caret location inside a textbox's text.
// Line is the 0-based line index.
// Col is the 0-based column (grapheme) index within the line.
type Position struct {
	Line int
	Col  int // Grapheme index
}

// Rect is an axis-aligned box in canvas units.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
