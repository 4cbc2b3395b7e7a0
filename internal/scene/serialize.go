package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
)

// VolatileKeys are view-state fields that never enter snapshots or saved documents.
var VolatileKeys = []string{"selectable", "evented", "preview"}

const documentVersion = 1

// maxImageLoaders bounds concurrent image decoding during Deserialize.
const maxImageLoaders = 4

// Snapshot is an immutable serialized scene. Two snapshots are equal when their bytes are.
type Snapshot []byte

// Equal reports whether two snapshots hold the same document.
func (s Snapshot) Equal(other Snapshot) bool {
	return bytes.Equal(s, other)
}

type documentJSON struct {
	Version    int               `json:"version"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Background Background        `json:"background"`
	Objects    []json.RawMessage `json:"objects"`
}

// encodeObject marshals o with the excluded keys removed. Keys come out sorted,
// so equal objects always produce equal bytes.
func encodeObject(o Object, exclude []string) (json.RawMessage, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, key := range exclude {
		delete(fields, key)
	}
	return json.Marshal(fields)
}

func decodeObject(raw []byte) (Object, error) {
	obj := defaultObject()
	if err := json.Unmarshal(raw, &obj); err != nil {
		return obj, err
	}
	switch obj.Type {
	case KindText, KindLine, KindRect, KindCircle, KindImage:
	default:
		return obj, fmt.Errorf("unknown type %q", obj.Type)
	}
	if obj.ID == "" {
		obj.ID = NewID()
	}
	obj.normalize()
	return obj, nil
}

// MarshalObject encodes a single object the way documents store it.
func MarshalObject(o Object) ([]byte, error) {
	return encodeObject(o, VolatileKeys)
}

// UnmarshalObject decodes an object produced by MarshalObject. Pixels are not loaded.
func UnmarshalObject(data []byte) (Object, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return Object{}, fmt.Errorf("decode object: %w", err)
	}
	return obj, nil
}

// Serialize encodes the canvas size, background and objects, omitting the excluded keys.
func (s *Scene) Serialize(exclude []string) Snapshot {
	s.mu.RLock()
	doc := documentJSON{
		Version:    documentVersion,
		Width:      s.width,
		Height:     s.height,
		Background: s.background,
		Objects:    make([]json.RawMessage, 0, len(s.objects)),
	}
	objects := make([]Object, len(s.objects))
	copy(objects, s.objects)
	s.mu.RUnlock()

	for _, o := range objects {
		raw, err := encodeObject(o, exclude)
		if err != nil {
			// normalize keeps every field encodable, so this is a programming error.
			logger.Errorf("scene: encode object %s: %v", o.ID, err)
			continue
		}
		doc.Objects = append(doc.Objects, raw)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		logger.Errorf("scene: encode document: %v", err)
		return nil
	}
	return data
}

// Document returns the canonical persisted form of the scene.
func (s *Scene) Document() Snapshot {
	return s.Serialize(VolatileKeys)
}

// decodeDocument parses data without touching the scene.
func decodeDocument(data []byte) (documentJSON, []Object, error) {
	var doc documentJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, nil, fmt.Errorf("decode document: %w", err)
	}
	if doc.Version > documentVersion {
		return doc, nil, fmt.Errorf("decode document: unsupported version %d", doc.Version)
	}

	objects := make([]Object, 0, len(doc.Objects))
	for i, raw := range doc.Objects {
		obj, err := decodeObject(raw)
		if err != nil {
			return doc, nil, fmt.Errorf("decode object %d: %w", i, err)
		}
		objects = append(objects, obj)
	}
	if doc.Background.Color == "" {
		doc.Background.Color = DefaultBackground
	}
	return doc, objects, nil
}

// Deserialize replaces the scene with the document in snap and then calls
// onComplete exactly once. Referenced images are decoded concurrently; a
// missing image keeps its object without pixels and its error is passed to
// onComplete. A malformed document leaves the scene unchanged.
//
// Loading finishes before Deserialize returns, so onComplete runs on the
// caller's goroutine.
func (s *Scene) Deserialize(snap Snapshot, onComplete func(error)) {
	if onComplete == nil {
		onComplete = func(error) {}
	}

	doc, objects, err := decodeDocument(snap)
	if err != nil {
		logger.Warnf("scene: %v", err)
		onComplete(err)
		return
	}

	cache := s.cache()
	// One slot per object plus one for the background; no mutex needed.
	loadErrs := make([]error, len(objects)+1)
	var g errgroup.Group
	g.SetLimit(maxImageLoaders)
	for i := range objects {
		if objects[i].Type != KindImage || objects[i].Src == "" {
			continue
		}
		g.Go(func() error {
			objects[i].img, loadErrs[i] = cache.get(objects[i].Src)
			return nil
		})
	}
	if bgImg := doc.Background.Image; bgImg != nil {
		g.Go(func() error {
			bgImg.img, loadErrs[len(objects)] = cache.get(bgImg.Src)
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	if doc.Width > 0 && doc.Height > 0 {
		s.width, s.height = doc.Width, doc.Height
	}
	s.objects = objects
	s.background = doc.Background
	s.mu.Unlock()

	for _, o := range objects {
		s.dispatch(event.TypeObjectAdded, event.ObjectData{ID: o.ID, Kind: string(o.Type)})
	}

	loadErr := errors.Join(loadErrs...)
	s.dispatch(event.TypeSceneLoaded, event.SceneLoadedData{Objects: len(objects), Err: loadErr})
	logger.DebugTagf("scene", "Deserialized %d objects", len(objects))
	onComplete(loadErr)
}

// Save writes the document to path atomically.
func (s *Scene) Save(path string) error {
	data := s.Document()
	if data == nil {
		return fmt.Errorf("save %s: document could not be encoded", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, ".invite-*.json")
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Open replaces the scene with the document stored at path.
func (s *Scene) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	var loadErr error
	s.Deserialize(data, func(err error) { loadErr = err })
	if loadErr != nil {
		return fmt.Errorf("open %s: %w", path, loadErr)
	}
	return nil
}
