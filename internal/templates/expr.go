package templates

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expr is a coordinate relative to the canvas: a number, or one of
// width, height, center, middle optionally followed by +N, -N or *N.
// center is half the width and middle half the height.
type Expr string

// UnmarshalYAML accepts numbers and strings alike.
func (e *Expr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or expression", node.Line)
	}
	*e = Expr(node.Value)
	return nil
}

// Eval resolves the expression for a canvas of the given size. An empty expression is 0.
func (e Expr) Eval(width, height float64) (float64, error) {
	s := strings.ReplaceAll(strings.ToLower(string(e)), " ", "")
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	bases := []struct {
		name  string
		value float64
	}{
		{"width", width},
		{"height", height},
		{"center", width / 2},
		{"middle", height / 2},
	}
	for _, b := range bases {
		if !strings.HasPrefix(s, b.name) {
			continue
		}
		rest := s[len(b.name):]
		if rest == "" {
			return b.value, nil
		}
		n, err := strconv.ParseFloat(rest[1:], 64)
		if err != nil {
			return 0, fmt.Errorf("bad expression %q: %w", string(e), err)
		}
		switch rest[0] {
		case '+':
			return b.value + n, nil
		case '-':
			return b.value - n, nil
		case '*':
			return b.value * n, nil
		}
		return 0, fmt.Errorf("bad expression %q: unknown operator %q", string(e), rest[0])
	}
	return 0, fmt.Errorf("bad expression %q", string(e))
}
