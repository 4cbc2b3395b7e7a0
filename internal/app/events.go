package app

import (
	"github.com/bethropolis/invite/internal/event"
	"github.com/bethropolis/invite/internal/logger"
)

// subscribeEvents wires app-level reactions to editor events.
func (a *App) subscribeEvents() {
	a.eventManager.Subscribe(event.TypeSelectionChanged, a.handleSelectionChanged)
	a.eventManager.Subscribe(event.TypeHistoryChanged, a.handleHistoryChanged)
	a.eventManager.Subscribe(event.TypeDocumentSaved, a.handleDocumentSaved)
	a.eventManager.Subscribe(event.TypeDocumentExported, a.handleDocumentExported)
	a.eventManager.Subscribe(event.TypeSceneLoaded, a.handleSceneLoaded)
	a.eventManager.Subscribe(event.TypeModeChanged, a.handleModeChanged)
}

// handleSelectionChanged moves the highlight outline in the preview.
func (a *App) handleSelectionChanged(e event.Event) bool {
	a.schedulePreview()
	return false // Not consumed
}

// handleHistoryChanged updates the undo/redo depth on the status bar.
func (a *App) handleHistoryChanged(e event.Event) bool {
	if data, ok := e.Data.(event.HistoryChangedData); ok {
		a.statusBar.SetHistoryInfo(data.UndoDepth, data.RedoDepth)
	}
	return false
}

func (a *App) handleDocumentSaved(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentData); ok {
		a.statusBar.SetFileInfo(data.Path, false)
	}
	return false
}

func (a *App) handleDocumentExported(e event.Event) bool {
	if data, ok := e.Data.(event.DocumentData); ok {
		logger.Infof("App: exported %s", data.Path)
	}
	return false
}

// handleSceneLoaded reports images that could not be decoded on open,
// reset or restore.
func (a *App) handleSceneLoaded(e event.Event) bool {
	if data, ok := e.Data.(event.SceneLoadedData); ok && data.Err != nil {
		a.statusBar.SetTemporaryMessage("Some images could not be loaded: %v", data.Err)
	}
	return false
}

func (a *App) handleModeChanged(e event.Event) bool {
	a.requestRedraw()
	return false
}
