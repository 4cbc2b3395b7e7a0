package app

import (
	"fmt"

	"github.com/bethropolis/invite/internal/config"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/modehandler"
	"github.com/bethropolis/invite/internal/tui"
)

// layout splits the current screen into preview and panel areas.
func (a *App) layout() (canvas, panel tui.Area) {
	width, height := a.tuiManager.Size()
	return tui.Layout(width, height, a.cfg.Editor.StatusBarHeight, config.ObjectPanelWidth)
}

// drawEditor clears screen and redraws all components.
func (a *App) drawEditor() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.updateStatusBarContent()
	activeTheme := a.themeManager.Current()
	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()
	canvas, panel := a.layout()
	logger.DebugTagf("draw", "drawEditor: screen %dx%d, canvas %+v, panel %+v", width, height, canvas, panel)

	a.tuiManager.Clear()
	tui.DrawPreview(a.tuiManager, canvas, a.preview.Cells(), activeTheme)
	if panel.W > 0 {
		tui.DrawObjectPanel(a.tuiManager, panel, a.editor, activeTheme)
	}
	a.statusBar.Draw(screen, width, height)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current editor state to the status bar component.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.editor.DocumentPath(), a.editor.IsModified())
	if obj, ok := a.editor.SelectedObject(); ok {
		a.statusBar.SetSelectionInfo(tui.Describe(obj))
	} else {
		a.statusBar.SetSelectionInfo("")
	}
	h := a.editor.GetHistoryManager()
	a.statusBar.SetHistoryInfo(h.UndoDepth(), h.RedoDepth())
	a.statusBar.SetCursorInfo(a.editor.IsEditingText(), a.editor.CaretPosition())
	a.statusBar.SetEditorMode(a.modeHandler.GetCurrentModeString())
	a.statusBar.SetCommandLine(a.modeHandler.GetCurrentMode() == modehandler.ModeCommand, a.modeHandler.GetCommandBuffer())
}

// resizePreview matches the preview to the canvas area and repaints it
// when the area changed.
func (a *App) resizePreview() {
	a.mu.Lock()
	defer a.mu.Unlock()
	canvas, _ := a.layout()
	if a.preview.Resize(canvas.W, canvas.H) {
		a.schedulePreview()
	}
}

// schedulePreview repaints the preview with the selection outlined.
// It runs on the goroutine that owns the editor.
func (a *App) schedulePreview() {
	a.preview.Schedule(a.editor.SelectedID())
}

// SetStatusMessage shows a temporary message on the status bar.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage("%s", fmt.Sprintf(format, args...))
	a.requestRedraw()
}
