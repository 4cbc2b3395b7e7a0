package scene

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/invite/internal/event"
)

func fakeLoader(sizes map[string]image.Point) ImageLoader {
	return func(src string) (image.Image, error) {
		size, ok := sizes[src]
		if !ok {
			return nil, os.ErrNotExist
		}
		img := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
		img.Set(0, 0, color.RGBA{R: 255, A: 255})
		return img, nil
	}
}

func newTestScene(t *testing.T) *Scene {
	t.Helper()
	s := New(750, 1050, event.NewManager())
	s.SetImageLoader(fakeLoader(map[string]image.Point{
		"photo.png": {X: 100, Y: 50},
		"bg.png":    {X: 375, Y: 350},
	}))
	return s
}

func mustAdd(t *testing.T, s *Scene, o Object) string {
	t.Helper()
	id, err := s.Add(o)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return id
}

func TestSerializeExcludesVolatileKeys(t *testing.T) {
	s := newTestScene(t)
	o := NewTextbox("Hello", 375, 100, 500)
	o.Preview = true
	mustAdd(t, s, o)

	var doc struct {
		Objects []map[string]any `json:"objects"`
	}
	if err := json.Unmarshal(s.Serialize(VolatileKeys), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(doc.Objects) != 1 {
		t.Fatalf("got %d objects", len(doc.Objects))
	}
	for _, key := range VolatileKeys {
		if _, ok := doc.Objects[0][key]; ok {
			t.Errorf("snapshot contains volatile key %q", key)
		}
	}
	if doc.Objects[0]["text"] != "Hello" {
		t.Errorf("text = %v", doc.Objects[0]["text"])
	}

	full := string(s.Serialize(nil))
	if !strings.Contains(full, `"selectable":true`) {
		t.Errorf("unfiltered serialization lost selectable: %s", full)
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	a := newTestScene(t)
	b := newTestScene(t)
	for _, s := range []*Scene{a, b} {
		o := NewLine(10, 20, 30, 20)
		o.ID = "fixed"
		mustAdd(t, s, o)
		s.SetBackgroundColor("#fafafa")
	}
	if !a.Document().Equal(b.Document()) {
		t.Fatalf("equal scenes produced different documents:\n%s\n%s", a.Document(), b.Document())
	}
}

func TestDeserializeRoundTrip(t *testing.T) {
	s := newTestScene(t)
	textID := mustAdd(t, s, NewTextbox("A", 10, 10, 100))
	mustAdd(t, s, NewImage("photo.png", 5, 5, 2))
	if err := s.SetBackgroundImage("bg.png"); err != nil {
		t.Fatalf("SetBackgroundImage: %v", err)
	}
	snap := s.Document()

	s.Clear()
	s.SetSize(874, 1240)

	var calls int
	var gotErr error
	s.Deserialize(snap, func(err error) {
		calls++
		gotErr = err
	})
	if calls != 1 {
		t.Fatalf("onComplete called %d times", calls)
	}
	if gotErr != nil {
		t.Fatalf("unexpected error: %v", gotErr)
	}
	if !s.Document().Equal(snap) {
		t.Fatalf("round trip mismatch:\n%s\n%s", s.Document(), snap)
	}
	if w, h := s.Size(); w != 750 || h != 1050 {
		t.Fatalf("size = %dx%d", w, h)
	}
	obj, ok := s.Object(textID)
	if !ok || !obj.Selectable || !obj.Evented {
		t.Fatalf("volatile defaults not restored: %+v", obj)
	}
	objs := s.Objects()
	if objs[1].Pixels() == nil {
		t.Fatal("image pixels not loaded")
	}
	if bg := s.Background(); bg.Image == nil || bg.Image.Pixels() == nil {
		t.Fatal("background image not loaded")
	}
}

func TestDeserializeMalformedLeavesSceneUnchanged(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", `{"objects": [`},
		{"unknown type", `{"objects": [{"type": "star"}]}`},
		{"future version", `{"version": 99, "objects": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene(t)
			mustAdd(t, s, NewTextbox("keep", 0, 0, 10))
			before := s.Document()

			calls := 0
			var gotErr error
			s.Deserialize(Snapshot(tt.data), func(err error) {
				calls++
				gotErr = err
			})
			if calls != 1 || gotErr == nil {
				t.Fatalf("calls=%d err=%v", calls, gotErr)
			}
			if !s.Document().Equal(before) {
				t.Fatal("scene changed after a failed load")
			}
		})
	}
}

func TestDeserializeMissingImageKeepsObject(t *testing.T) {
	s := newTestScene(t)
	doc := `{"version":1,"width":750,"height":1050,"background":{"color":"#fff"},
		"objects":[{"id":"a","type":"image","src":"gone.png","left":1,"top":2,"opacity":1}]}`

	var gotErr error
	s.Deserialize(Snapshot(doc), func(err error) { gotErr = err })
	if !errors.Is(gotErr, os.ErrNotExist) {
		t.Fatalf("err = %v, want ErrNotExist", gotErr)
	}
	obj, ok := s.Object("a")
	if !ok {
		t.Fatal("object with missing image was dropped")
	}
	if obj.Pixels() != nil {
		t.Fatal("missing image should have no pixels")
	}
}

func TestDeserializeDispatchesBeforeCompletion(t *testing.T) {
	events := event.NewManager()
	s := New(750, 1050, events)
	src := New(750, 1050, nil)
	mustAdd(t, src, NewRect(0, 0, 10, 10))
	mustAdd(t, src, NewCircle(0, 0, 5))

	var order []string
	events.Subscribe(event.TypeObjectAdded, func(event.Event) bool {
		order = append(order, "added")
		return false
	})
	events.Subscribe(event.TypeSceneLoaded, func(event.Event) bool {
		order = append(order, "loaded")
		return false
	})
	s.Deserialize(src.Document(), func(error) { order = append(order, "complete") })

	want := "added,added,loaded,complete"
	if got := strings.Join(order, ","); got != want {
		t.Fatalf("order = %s, want %s", got, want)
	}
}

func TestMutationErrors(t *testing.T) {
	s := newTestScene(t)
	lineID := mustAdd(t, s, NewLine(0, 0, 10, 0))

	if err := s.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove: %v", err)
	}
	if err := s.Modify("nope", func(*Object) {}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Modify: %v", err)
	}
	if err := s.SetText(lineID, "x"); !errors.Is(err, ErrNotText) {
		t.Errorf("SetText: %v", err)
	}
	if err := s.SetBackgroundImage("gone.png"); err == nil {
		t.Error("SetBackgroundImage: expected error")
	}
}

func TestModifyKeepsIdentityAndNormalizes(t *testing.T) {
	s := newTestScene(t)
	id := mustAdd(t, s, NewRect(0, 0, 10, 10))
	if err := s.Modify(id, func(o *Object) {
		o.ID = "hijacked"
		o.Opacity = 3
		o.Width = 0.0 / zero()
	}); err != nil {
		t.Fatalf("Modify: %v", err)
	}
	obj, ok := s.Object(id)
	if !ok {
		t.Fatal("object lost its ID")
	}
	if obj.Opacity != 1 || obj.Width != 0 {
		t.Fatalf("not normalized: %+v", obj)
	}
}

func zero() float64 { return 0 }

func TestBackgroundImageCoversCanvas(t *testing.T) {
	s := newTestScene(t)
	if err := s.SetBackgroundImage("bg.png"); err != nil {
		t.Fatalf("SetBackgroundImage: %v", err)
	}
	bg := s.Background()
	// 750/375 = 2, 1050/350 = 3; cover takes the larger.
	if bg.Image.ScaleX != 3 || bg.Image.ScaleY != 3 {
		t.Fatalf("scale = %v,%v", bg.Image.ScaleX, bg.Image.ScaleY)
	}
	s.ClearBackgroundImage()
	if s.Background().Image != nil {
		t.Fatal("background image not cleared")
	}
}

func TestSaveAndOpen(t *testing.T) {
	s := newTestScene(t)
	mustAdd(t, s, NewTextbox("Saved", 1, 2, 3))
	path := filepath.Join(t.TempDir(), "nested", "doc.json")
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other := newTestScene(t)
	if err := other.Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !other.Document().Equal(s.Document()) {
		t.Fatal("opened document differs from saved one")
	}
	if err := other.Open(filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestMoveLine(t *testing.T) {
	o := NewLine(10, 10, 20, 30)
	o.Move(5, -5)
	if o.X1 != 15 || o.X2 != 25 || o.Y1 != 5 || o.Y2 != 25 || o.Left != 15 || o.Top != 5 {
		t.Fatalf("Move: %+v", o)
	}
}

func TestMarshalObjectRoundTrip(t *testing.T) {
	o := NewCircle(10, 20, 30)
	o.ID = "c1"
	o.Preview = true
	data, err := MarshalObject(o)
	if err != nil {
		t.Fatalf("MarshalObject: %v", err)
	}
	if strings.Contains(string(data), "preview") {
		t.Fatalf("volatile key encoded: %s", data)
	}
	got, err := UnmarshalObject(data)
	if err != nil {
		t.Fatalf("UnmarshalObject: %v", err)
	}
	if got.ID != "c1" || got.Radius != 30 || got.Preview || !got.Selectable {
		t.Fatalf("got %+v", got)
	}
	if _, err := UnmarshalObject([]byte(`{"type":"star"}`)); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
