// Package scene holds the invitation document: an ordered list of objects
// on a fixed-size canvas, plus its background.
package scene

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
)

var (
	// ErrNotFound is returned when an object ID does not exist in the scene.
	ErrNotFound = errors.New("object not found")
	// ErrNotText is returned for text operations on a non-text object.
	ErrNotText = errors.New("object is not a textbox")
)

// DefaultBackground is the colour of a cleared canvas.
const DefaultBackground = "#ffffff"

// Scene is the mutable document. All methods are safe for concurrent use.
type Scene struct {
	mu         sync.RWMutex
	width      int
	height     int
	objects    []Object
	background Background

	images     *imageCache
	events     *event.Manager // may be nil
	renderHook func()
}

// New creates an empty scene with the given canvas size.
func New(width, height int, events *event.Manager) *Scene {
	return &Scene{
		width:      width,
		height:     height,
		background: Background{Color: DefaultBackground},
		images:     newImageCache(decodeFile),
		events:     events,
	}
}

// SetImageLoader replaces how image sources are decoded. Used by tests.
func (s *Scene) SetImageLoader(load ImageLoader) {
	s.mu.Lock()
	s.images = newImageCache(load)
	s.mu.Unlock()
}

// SetRenderHook installs the function Render calls to request a repaint.
func (s *Scene) SetRenderHook(hook func()) {
	s.mu.Lock()
	s.renderHook = hook
	s.mu.Unlock()
}

// Render requests a repaint of the canvas.
func (s *Scene) Render() {
	s.mu.RLock()
	hook := s.renderHook
	s.mu.RUnlock()
	if hook != nil {
		hook()
	}
}

func (s *Scene) cache() *imageCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.images
}

func (s *Scene) dispatch(t event.Type, data interface{}) {
	if s.events != nil {
		s.events.Dispatch(t, data)
	}
}

// Size returns the canvas dimensions.
func (s *Scene) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

// SetSize changes the canvas dimensions. Objects are left where they are.
func (s *Scene) SetSize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
	s.dispatch(event.TypeCanvasResized, event.CanvasResizedData{Width: width, Height: height})
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Objects returns a copy of the objects in stacking order (bottom first).
func (s *Scene) Objects() []Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Object returns a copy of the object with the given ID.
func (s *Scene) Object(id string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.objects[i], true
	}
	return Object{}, false
}

// IndexOf returns the stacking index of id, or -1.
func (s *Scene) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id)
}

func (s *Scene) indexLocked(id string) int {
	for i := range s.objects {
		if s.objects[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends obj on top of the stack and returns its ID, assigning one if empty.
// Image objects have their pixels loaded; a load failure keeps the object and is returned.
func (s *Scene) Add(obj Object) (string, error) {
	if obj.ID == "" {
		obj.ID = NewID()
	}
	obj.normalize()

	var loadErr error
	if obj.Type == KindImage && obj.img == nil && obj.Src != "" {
		obj.img, loadErr = s.cache().get(obj.Src)
	}

	s.mu.Lock()
	s.objects = append(s.objects, obj)
	s.mu.Unlock()

	logger.DebugTagf("scene", "Added %s %s", obj.Type, obj.ID)
	s.dispatch(event.TypeObjectAdded, event.ObjectData{ID: obj.ID, Kind: string(obj.Type)})
	return obj.ID, loadErr
}

// Remove deletes the object with the given ID.
func (s *Scene) Remove(id string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	kind := s.objects[i].Type
	s.objects = append(s.objects[:i], s.objects[i+1:]...)
	s.mu.Unlock()

	s.dispatch(event.TypeObjectRemoved, event.ObjectData{ID: id, Kind: string(kind)})
	return nil
}

// Modify applies fn to the object with the given ID. fn must not call back into the scene.
func (s *Scene) Modify(id string, fn func(*Object)) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("modify %s: %w", id, ErrNotFound)
	}
	obj := &s.objects[i]
	fn(obj)
	obj.ID = id // identity is not editable
	obj.normalize()
	kind := obj.Type
	s.mu.Unlock()

	s.dispatch(event.TypeObjectModified, event.ObjectData{ID: id, Kind: string(kind)})
	return nil
}

// SetText replaces the text of a textbox and fires a text-changed notification.
func (s *Scene) SetText(id, text string) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("set text %s: %w", id, ErrNotFound)
	}
	if !s.objects[i].IsText() {
		s.mu.Unlock()
		return fmt.Errorf("set text %s: %w", id, ErrNotText)
	}
	s.objects[i].Text = text
	s.mu.Unlock()

	s.dispatch(event.TypeTextChanged, event.ObjectData{ID: id, Kind: string(KindText)})
	return nil
}

// Background returns a copy of the current background.
func (s *Scene) Background() Background {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bg := s.background
	if bg.Image != nil {
		img := *bg.Image
		bg.Image = &img
	}
	return bg
}

// SetBackgroundColor sets the canvas fill.
func (s *Scene) SetBackgroundColor(color string) {
	s.mu.Lock()
	s.background.Color = color
	s.mu.Unlock()
	s.dispatch(event.TypeBackgroundChanged, nil)
}

// SetBackgroundImage loads src and scales it to cover the canvas.
// On error the background is unchanged.
func (s *Scene) SetBackgroundImage(src string) error {
	img, err := s.cache().get(src)
	if err != nil {
		return fmt.Errorf("background image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return fmt.Errorf("background image %s: empty image", src)
	}

	s.mu.Lock()
	scale := math.Max(float64(s.width)/float64(b.Dx()), float64(s.height)/float64(b.Dy()))
	s.background.Image = &BackgroundImage{Src: src, ScaleX: scale, ScaleY: scale, img: img}
	s.mu.Unlock()

	s.dispatch(event.TypeBackgroundChanged, nil)
	return nil
}

// ClearBackgroundImage removes the background image, keeping the colour.
func (s *Scene) ClearBackgroundImage() {
	s.mu.Lock()
	s.background.Image = nil
	s.mu.Unlock()
	s.dispatch(event.TypeBackgroundChanged, nil)
}

// Clear removes every object and resets the background.
func (s *Scene) Clear() {
	s.mu.Lock()
	s.objects = nil
	s.background = Background{Color: DefaultBackground}
	s.mu.Unlock()
	s.dispatch(event.TypeSceneLoaded, event.SceneLoadedData{})
}

// ImageSize returns the pixel size of src, loading it if needed.
func (s *Scene) ImageSize(src string) (int, int, error) {
	img, err := s.cache().get(src)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
