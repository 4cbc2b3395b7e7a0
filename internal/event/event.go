// Package event provides the synchronous event bus that decouples the
// scene, the editor core, the UI and plugins.
package event

import (
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Scene mutations
	TypeObjectAdded       // An object was added to the scene
	TypeObjectRemoved     // An object was removed from the scene
	TypeObjectModified    // Geometry or style of an object changed
	TypeTextChanged       // Text content of a textbox changed (per keystroke)
	TypeBackgroundChanged // Background colour or image changed
	TypeSceneLoaded       // Scene replaced wholesale (restore, open, reset)
	TypeCanvasResized     // Canvas dimensions changed

	// Editing lifecycle
	TypeSelectionChanged // Active object changed
	TypeTextEditEntered  // A text edit session started
	TypeTextEditExited   // A text edit session ended
	TypeHistoryChanged   // Undo/redo depth changed
	TypeDocumentSaved    // Document written to disk
	TypeDocumentExported // PNG/PDF written to disk
	TypeModeChanged      // Input mode changed

	// Input
	TypeKeyPressed // Raw key press forwarded for plugins

	// Application lifecycle
	TypeAppReady
	TypeAppQuit

	TypeThemeChanged
)

var typeNames = map[Type]string{
	TypeUnknown:           "unknown",
	TypeObjectAdded:       "object:added",
	TypeObjectRemoved:     "object:removed",
	TypeObjectModified:    "object:modified",
	TypeTextChanged:       "text:changed",
	TypeBackgroundChanged: "background:changed",
	TypeSceneLoaded:       "scene:loaded",
	TypeCanvasResized:     "canvas:resized",
	TypeSelectionChanged:  "selection:changed",
	TypeTextEditEntered:   "text:editing:entered",
	TypeTextEditExited:    "text:editing:exited",
	TypeHistoryChanged:    "history:changed",
	TypeDocumentSaved:     "document:saved",
	TypeDocumentExported:  "document:exported",
	TypeModeChanged:       "mode:changed",
	TypeKeyPressed:        "key:pressed",
	TypeAppReady:          "app:ready",
	TypeAppQuit:           "app:quit",
	TypeThemeChanged:      "theme:changed",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// ObjectData identifies the object an event refers to.
type ObjectData struct {
	ID   string
	Kind string
}

// SceneLoadedData reports a wholesale scene replacement.
type SceneLoadedData struct {
	Objects int
	Err     error // Non-nil when the load was partial
}

// CanvasResizedData carries the new canvas dimensions.
type CanvasResizedData struct {
	Width, Height int
}

// SelectionChangedData carries the newly selected object ID ("" when cleared).
type SelectionChangedData struct {
	ID string
}

// HistoryChangedData reports stack depths after an operation.
type HistoryChangedData struct {
	UndoDepth int
	RedoDepth int
}

// DocumentData carries the path a document was written to.
type DocumentData struct {
	Path string
}

// ModeChangedData carries the new mode name.
type ModeChangedData struct {
	Mode string
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
