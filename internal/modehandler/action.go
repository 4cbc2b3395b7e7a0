package modehandler

import (
	"errors"

	"github.com/bethropolis/invite/internal/core/clipboard"
	"github.com/bethropolis/invite/internal/input"
	"github.com/bethropolis/invite/internal/logger"
)

// report shows err on the status bar and reports whether op succeeded.
func (mh *ModeHandler) report(op string, err error) bool {
	if err == nil {
		return true
	}
	logger.Debugf("ModeHandler: %s: %v", op, err)
	mh.statusBar.SetTemporaryMessage("%s failed: %v", op, err)
	return false
}

// handleCommon runs the actions that behave the same in every mode.
// handled is false when the action is not one of them.
func (mh *ModeHandler) handleCommon(ae input.ActionEvent) (processed, handled bool) {
	switch ae.Action {
	case input.ActionForceQuit:
		mh.RequestQuit(true)
		return false, true

	case input.ActionUndo:
		undone, err := mh.editor.Undo()
		if !mh.report("Undo", err) {
			return true, true
		}
		if !undone {
			mh.statusBar.SetTemporaryMessage("Nothing to undo")
		}
		return true, true

	case input.ActionRedo:
		redone, err := mh.editor.Redo()
		if !mh.report("Redo", err) {
			return true, true
		}
		if !redone {
			mh.statusBar.SetTemporaryMessage("Nothing to redo")
		}
		return true, true

	case input.ActionSave:
		path, err := mh.editor.Save("")
		if mh.report("Save", err) {
			mh.statusBar.SetTemporaryMessage("Saved %s", path)
		}
		return true, true

	case input.ActionExport:
		path, err := mh.editor.Export("")
		if mh.report("Export", err) {
			mh.statusBar.SetTemporaryMessage("Exported %s", path)
		}
		return true, true
	}
	return false, false
}

// handleActionNormal handles actions when in ModeNormal.
func (mh *ModeHandler) handleActionNormal(ae input.ActionEvent) bool {
	if processed, handled := mh.handleCommon(ae); handled {
		return processed
	}

	step := 1
	if ae.Shift {
		step = mh.nudgeMultiplier
	}

	switch ae.Action {
	case input.ActionEnterCommandMode:
		mh.cmdBuffer = ""
		mh.setMode(ModeCommand)
		return true

	case input.ActionQuit:
		mh.RequestQuit(false)
		return true

	// --- Nudge ---
	case input.ActionMoveUp:
		return mh.report("Move", mh.editor.Nudge(0, -step))
	case input.ActionMoveDown:
		return mh.report("Move", mh.editor.Nudge(0, step))
	case input.ActionMoveLeft:
		return mh.report("Move", mh.editor.Nudge(-step, 0))
	case input.ActionMoveRight:
		return mh.report("Move", mh.editor.Nudge(step, 0))

	// --- Selection ---
	case input.ActionSelectNext:
		return mh.editor.SelectNext()
	case input.ActionSelectPrev:
		return mh.editor.SelectPrev()

	// --- Objects ---
	case input.ActionAddText:
		_, err := mh.editor.AddText()
		return mh.report("Add text", err)
	case input.ActionAddLine:
		_, err := mh.editor.AddLine()
		return mh.report("Add line", err)
	case input.ActionAddRect:
		_, err := mh.editor.AddRect()
		return mh.report("Add rectangle", err)
	case input.ActionAddCircle:
		_, err := mh.editor.AddCircle()
		return mh.report("Add circle", err)
	case input.ActionDeleteForward, input.ActionDeleteBackward:
		return mh.report("Delete", mh.editor.DeleteSelected())

	// --- Style ---
	case input.ActionToggleBold:
		return mh.report("Bold", mh.editor.ToggleBold())
	case input.ActionToggleItalic:
		return mh.report("Italic", mh.editor.ToggleItalic())

	// --- Clipboard ---
	case input.ActionCopy:
		if mh.report("Copy", mh.editor.Copy()) {
			mh.statusBar.SetTemporaryMessage("Copied")
		}
		return true
	case input.ActionPaste:
		return mh.paste()

	// --- Text editing ---
	case input.ActionEnter:
		if !mh.report("Edit", mh.editor.BeginTextEdit()) {
			return true
		}
		mh.setMode(ModeTextEdit)
		return true
	}
	return false
}

func (mh *ModeHandler) paste() bool {
	_, err := mh.editor.Paste()
	if errors.Is(err, clipboard.ErrEmpty) {
		mh.statusBar.SetTemporaryMessage("Clipboard empty")
		return true
	}
	return mh.report("Paste", err)
}

// handleActionTextEdit handles actions when in ModeTextEdit. Printable
// keys are typed even when Normal mode binds them.
func (mh *ModeHandler) handleActionTextEdit(ae input.ActionEvent) bool {
	if processed, handled := mh.handleCommon(ae); handled {
		return processed
	}
	if ae.Rune != 0 {
		return mh.report("Insert", mh.editor.InsertRune(ae.Rune))
	}

	switch ae.Action {
	case input.ActionQuit:
		mh.editor.EndTextEdit()
		mh.setMode(ModeNormal)
		return true

	case input.ActionEnter:
		return mh.report("Insert", mh.editor.InsertNewLine())
	case input.ActionDeleteBackward:
		_, err := mh.editor.DeleteBackward()
		return mh.report("Delete", err)
	case input.ActionDeleteForward:
		_, err := mh.editor.DeleteForward()
		return mh.report("Delete", err)

	// --- Caret ---
	case input.ActionMoveLeft:
		mh.editor.MoveCaret(-1)
		return true
	case input.ActionMoveRight:
		mh.editor.MoveCaret(1)
		return true
	case input.ActionMoveHome, input.ActionMoveUp:
		mh.editor.CaretHome()
		return true
	case input.ActionMoveEnd, input.ActionMoveDown:
		mh.editor.CaretEnd()
		return true

	// --- Leaving the textbox ---
	case input.ActionSelectNext:
		return mh.editor.SelectNext()
	case input.ActionSelectPrev:
		return mh.editor.SelectPrev()

	case input.ActionToggleBold:
		return mh.report("Bold", mh.editor.ToggleBold())
	case input.ActionToggleItalic:
		return mh.report("Italic", mh.editor.ToggleItalic())
	case input.ActionCopy:
		if mh.report("Copy", mh.editor.Copy()) {
			mh.statusBar.SetTemporaryMessage("Copied")
		}
		return true
	case input.ActionPaste:
		return mh.paste()
	}
	return false
}
