package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/invite/internal/core"
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/fonts"
	"github.com/bethropolis/invite/internal/plugin"
	"github.com/bethropolis/invite/internal/scene"
	"github.com/bethropolis/invite/internal/templates"
	"github.com/bethropolis/invite/internal/theme"
)

type fakeAPI struct {
	commands map[string]plugin.CommandFunc
	status   string
	theme    *theme.Theme
	quit     []bool
}

func (f *fakeAPI) RegisterCommand(name string, fn plugin.CommandFunc) error {
	if _, ok := f.commands[name]; ok {
		return fmt.Errorf("command '%s' already registered", name)
	}
	f.commands[name] = fn
	return nil
}

func (f *fakeAPI) SetStatusMessage(format string, args ...interface{}) {
	f.status = fmt.Sprintf(format, args...)
}

func (f *fakeAPI) SetTheme(name string) error {
	switch strings.ToLower(name) {
	case "invite dark":
		f.theme = &theme.InviteDark
	case "invite light":
		f.theme = &theme.InviteLight
	default:
		return errors.New("not found")
	}
	return nil
}

func (f *fakeAPI) GetTheme() *theme.Theme { return f.theme }
func (f *fakeAPI) ListThemes() []string   { return []string{"Invite Dark", "Invite Light"} }
func (f *fakeAPI) RequestQuit(force bool) { f.quit = append(f.quit, force) }

func setup(t *testing.T) (*fakeAPI, *core.Editor) {
	t.Helper()
	em := event.NewManager()
	sc := scene.New(750, 1050, em)
	reg, err := fonts.NewRegistry()
	if err != nil {
		t.Fatal(err)
	}
	lib, err := templates.NewLibrary("")
	if err != nil {
		t.Fatal(err)
	}
	ed, err := core.NewEditor(sc, em, reg, lib, core.Options{ExportDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	api := &fakeAPI{commands: map[string]plugin.CommandFunc{}, theme: &theme.InviteDark}
	RegisterAppCommands(api, ed)
	return api, ed
}

func run(t *testing.T, api *fakeAPI, line string) error {
	t.Helper()
	parts := strings.Fields(line)
	fn, ok := api.commands[parts[0]]
	if !ok {
		t.Fatalf("command %q not registered", parts[0])
	}
	return fn(parts[1:])
}

func TestAllCommandsRegistered(t *testing.T) {
	api, _ := setup(t)
	for _, name := range []string{
		"font", "size", "color", "bold", "italic", "text", "line", "rect", "circle",
		"image", "delete", "bg", "bgimage", "clearbg", "canvas", "reset", "template",
		"templates", "export", "w", "e", "undo", "redo", "theme", "themes", "fonts",
		"q", "q!",
	} {
		if _, ok := api.commands[name]; !ok {
			t.Errorf(":%s not registered", name)
		}
	}
}

func TestStyleCommands(t *testing.T) {
	api, ed := setup(t)

	if err := run(t, api, "size 48"); err != nil {
		t.Fatalf(":size: %v", err)
	}
	if obj, _ := ed.SelectedObject(); obj.FontSize != 48 {
		t.Errorf("font size = %v, want 48", obj.FontSize)
	}
	if err := run(t, api, "size big"); err == nil {
		t.Errorf(":size big should fail")
	}
	if err := run(t, api, "size"); err == nil {
		t.Errorf(":size without argument should fail")
	}
	if err := run(t, api, "font go mono"); err != nil {
		t.Fatalf(":font: %v", err)
	}
	if obj, _ := ed.SelectedObject(); obj.FontFamily != "Go Mono" {
		t.Errorf("font family = %q, want Go Mono", obj.FontFamily)
	}
	if err := run(t, api, "color #C0A060"); err != nil {
		t.Fatalf(":color: %v", err)
	}
	if obj, _ := ed.SelectedObject(); obj.Fill != "#c0a060" {
		t.Errorf("fill = %q", obj.Fill)
	}
}

func TestUndoRedoCommands(t *testing.T) {
	api, ed := setup(t)
	n := ed.Scene().Len()

	if err := run(t, api, "circle"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, api, "undo"); err != nil {
		t.Fatal(err)
	}
	if ed.Scene().Len() != n {
		t.Errorf("undo did not remove the circle")
	}
	if err := run(t, api, "redo"); err != nil {
		t.Fatal(err)
	}
	if ed.Scene().Len() != n+1 {
		t.Errorf("redo did not restore the circle")
	}
	if err := run(t, api, "redo"); err != nil || api.status != "Nothing to redo" {
		t.Errorf(":redo at boundary: err=%v status=%q", err, api.status)
	}
}

func TestQuitRefusesUnsavedChanges(t *testing.T) {
	api, _ := setup(t)
	if err := run(t, api, "q"); err != nil {
		t.Fatalf(":q on fresh document: %v", err)
	}
	if err := run(t, api, "rect"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, api, "q"); err == nil {
		t.Errorf(":q with changes should fail")
	}
	if err := run(t, api, "q!"); err != nil {
		t.Fatal(err)
	}
	if len(api.quit) != 2 || api.quit[0] || !api.quit[1] {
		t.Errorf("quit requests = %v, want [false true]", api.quit)
	}
}

func TestSaveAndOpen(t *testing.T) {
	api, ed := setup(t)
	path := filepath.Join(t.TempDir(), "card.json")

	if err := run(t, api, "w "+path); err != nil {
		t.Fatalf(":w: %v", err)
	}
	if ed.IsModified() {
		t.Errorf("document modified after save")
	}
	if err := run(t, api, "line"); err != nil {
		t.Fatal(err)
	}
	if err := run(t, api, "e "+path); err != nil {
		t.Fatalf(":e: %v", err)
	}
	if ed.IsModified() {
		t.Errorf("document modified after open")
	}
	if err := run(t, api, "e"); err == nil {
		t.Errorf(":e without path should fail")
	}
}

func TestThemeCommands(t *testing.T) {
	api, _ := setup(t)
	if err := run(t, api, "theme invite light"); err != nil {
		t.Fatal(err)
	}
	if api.status != "Theme set to: Invite Light" {
		t.Errorf("status = %q", api.status)
	}
	if err := run(t, api, "theme neon"); err == nil || !strings.Contains(err.Error(), "Available") {
		t.Errorf(":theme neon error = %v", err)
	}
	if err := run(t, api, "themes"); err != nil || !strings.Contains(api.status, "Invite Dark") {
		t.Errorf(":themes status = %q, err = %v", api.status, err)
	}
}

func TestCanvasAndTemplates(t *testing.T) {
	api, ed := setup(t)
	if err := run(t, api, "canvas a5"); err != nil {
		t.Fatal(err)
	}
	size, _ := templates.LookupSize("a5")
	if w, h := ed.Scene().Size(); w != size.Width || h != size.Height {
		t.Errorf("canvas = %dx%d, want %dx%d", w, h, size.Width, size.Height)
	}
	if err := run(t, api, "canvas huge"); !errors.Is(err, templates.ErrUnknownSize) {
		t.Errorf(":canvas huge error = %v", err)
	}
	if err := run(t, api, "template framed"); err != nil {
		t.Fatal(err)
	}
	if ed.TemplateName() != "framed" {
		t.Errorf("template = %q", ed.TemplateName())
	}
	if err := run(t, api, "template nope"); !errors.Is(err, templates.ErrUnknownTemplate) {
		t.Errorf(":template nope error = %v", err)
	}
}
