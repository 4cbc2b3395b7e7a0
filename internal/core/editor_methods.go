package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/scene"
)

const (
	newTextLabel  = "Double-click to edit"
	newTextMargin = 200 // textbox width is the canvas width minus this
	newLineInset  = 140
	newShapeSize  = 200
	imageMaxShare = 0.6 // new images fit within this share of the canvas
)

// --- Adding objects ---

// add places obj on top, selects it and records one step.
func (e *Editor) add(obj scene.Object) (string, error) {
	e.endEdit()
	id, err := e.scene.Add(obj)
	if id == "" {
		return "", err
	}
	e.selection.Select(id)
	e.commit()
	return id, err
}

// AddText adds a centred textbox in the middle of the canvas.
func (e *Editor) AddText() (string, error) {
	w, h := e.scene.Size()
	width := math.Max(float64(w-newTextMargin), 50)
	return e.add(scene.NewTextbox(newTextLabel, float64(w)/2, float64(h)/2, width))
}

// AddLine adds a horizontal hairline across the middle of the canvas.
func (e *Editor) AddLine() (string, error) {
	w, h := e.scene.Size()
	y := float64(h) / 2
	return e.add(scene.NewLine(newLineInset, y, float64(w-newLineInset), y))
}

// AddRect adds an outlined square in the middle of the canvas.
func (e *Editor) AddRect() (string, error) {
	w, h := e.scene.Size()
	return e.add(scene.NewRect(float64(w-newShapeSize)/2, float64(h-newShapeSize)/2, newShapeSize, newShapeSize))
}

// AddCircle adds an outlined circle in the middle of the canvas.
func (e *Editor) AddCircle() (string, error) {
	w, h := e.scene.Size()
	r := float64(newShapeSize) / 2
	return e.add(scene.NewCircle(float64(w)/2-r, float64(h)/2-r, r))
}

// AddImage adds the image at path, scaled down to fit and centred.
func (e *Editor) AddImage(path string) (string, error) {
	iw, ih, err := e.scene.ImageSize(path)
	if err != nil {
		return "", err
	}
	if iw == 0 || ih == 0 {
		return "", fmt.Errorf("image %s is empty", path)
	}
	w, h := e.scene.Size()
	scale := math.Min(1, math.Min(float64(w)*imageMaxShare/float64(iw), float64(h)*imageMaxShare/float64(ih)))
	left := (float64(w) - float64(iw)*scale) / 2
	top := (float64(h) - float64(ih)*scale) / 2
	return e.add(scene.NewImage(path, left, top, scale))
}

// --- Modifying the selection ---

// selected returns the selected object.
func (e *Editor) selected() (scene.Object, error) {
	id, ok := e.selection.Selected()
	if !ok {
		return scene.Object{}, ErrNoSelection
	}
	obj, ok := e.scene.Object(id)
	if !ok {
		e.selection.Validate()
		return scene.Object{}, ErrNoSelection
	}
	return obj, nil
}

// modifySelected applies fn to the selected object and records one step.
// Text typed in an open edit session is committed as its own step first.
func (e *Editor) modifySelected(fn func(*scene.Object)) error {
	obj, err := e.selected()
	if err != nil {
		return err
	}
	e.flushEdit()
	if err := e.scene.Modify(obj.ID, fn); err != nil {
		return err
	}
	e.commit()
	return nil
}

// modifySelectedText is modifySelected restricted to textboxes.
func (e *Editor) modifySelectedText(fn func(*scene.Object)) error {
	obj, err := e.selected()
	if err != nil {
		return err
	}
	if !obj.IsText() {
		return fmt.Errorf("%s: %w", obj.Type, scene.ErrNotText)
	}
	return e.modifySelected(fn)
}

// DeleteSelected removes the selected object. It is refused while a
// text edit session is open, where Delete edits text instead.
func (e *Editor) DeleteSelected() error {
	if e.IsEditingText() {
		return nil
	}
	obj, err := e.selected()
	if err != nil {
		return err
	}
	if err := e.scene.Remove(obj.ID); err != nil {
		return err
	}
	e.selection.Clear()
	e.commit()
	logger.Debugf("Editor: deleted %s %s", obj.Type, obj.ID)
	return nil
}

// Nudge moves the selected object by (dx, dy) nudge steps.
func (e *Editor) Nudge(dx, dy int) error {
	step := e.nudgeStep
	return e.modifySelected(func(o *scene.Object) {
		o.Move(float64(dx)*step, float64(dy)*step)
	})
}

// SetFontFamily sets the selected textbox's font. The name must be a
// loaded family, a known alias or fuzzily match one.
func (e *Editor) SetFontFamily(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrUnknownFont
	}
	family := name
	if e.fonts.Has(name) {
		if canon := e.fonts.Resolve(name); strings.EqualFold(canon, name) {
			family = canon // loaded family, keep its own spelling
		}
	} else {
		matches := e.fonts.Lookup(name)
		if len(matches) == 0 {
			return fmt.Errorf("%w %q", ErrUnknownFont, name)
		}
		family = matches[0]
	}
	return e.modifySelectedText(func(o *scene.Object) { o.FontFamily = family })
}

// SetFontSize sets the selected textbox's font size in points.
func (e *Editor) SetFontSize(size float64) error {
	if math.IsNaN(size) || size < MinFontSize || size > MaxFontSize {
		return fmt.Errorf("font size %v out of range %d-%d", size, MinFontSize, MaxFontSize)
	}
	return e.modifySelectedText(func(o *scene.Object) { o.FontSize = size })
}

// SetColor sets the selected object's colour: stroke for lines, fill
// for everything else that has one.
func (e *Editor) SetColor(hex string) error {
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}
	obj, err := e.selected()
	if err != nil {
		return err
	}
	if obj.Type == scene.KindImage {
		return fmt.Errorf("images have no colour")
	}
	return e.modifySelected(func(o *scene.Object) {
		if o.Type == scene.KindLine {
			o.Stroke = c
		} else {
			o.Fill = c
		}
	})
}

// ToggleBold flips the selected textbox between bold and normal weight.
func (e *Editor) ToggleBold() error {
	return e.modifySelectedText(func(o *scene.Object) {
		if o.FontWeight == scene.WeightBold {
			o.FontWeight = scene.WeightNormal
		} else {
			o.FontWeight = scene.WeightBold
		}
	})
}

// ToggleItalic flips the selected textbox between italic and normal style.
func (e *Editor) ToggleItalic() error {
	return e.modifySelectedText(func(o *scene.Object) {
		if o.FontStyle == scene.StyleItalic {
			o.FontStyle = scene.StyleNormal
		} else {
			o.FontStyle = scene.StyleItalic
		}
	})
}

// --- Background ---

// SetBackgroundColor sets the canvas colour.
func (e *Editor) SetBackgroundColor(hex string) error {
	c, err := ParseColor(hex)
	if err != nil {
		return err
	}
	e.scene.SetBackgroundColor(c)
	e.commit()
	return nil
}

// SetBackgroundImage loads path as a cover-scaled background image.
func (e *Editor) SetBackgroundImage(path string) error {
	if err := e.scene.SetBackgroundImage(path); err != nil {
		return err
	}
	e.commit()
	return nil
}

// ClearBackground removes the background image.
func (e *Editor) ClearBackground() {
	e.scene.ClearBackgroundImage()
	e.commit()
}

// ParseColor validates a #rgb or #rrggbb colour and returns it as
// lowercase #rrggbb.
func ParseColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return "", fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", fmt.Errorf("%w %q", ErrInvalidColor, s)
	}
	return c.Hex(), nil
}
