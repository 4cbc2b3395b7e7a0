package modehandler

import (
	"strings"

	"github.com/bethropolis/invite/internal/input"
	"github.com/bethropolis/invite/internal/logger"
	"github.com/bethropolis/invite/internal/utils"
	"github.com/sahilm/fuzzy"
)

// handleActionCommand handles actions when in ModeCommand.
func (mh *ModeHandler) handleActionCommand(ae input.ActionEvent) bool {
	if processed, handled := mh.handleCommon(ae); handled {
		return processed
	}
	if ae.Rune != 0 {
		mh.cmdBuffer += string(ae.Rune)
		mh.statusBar.SetCommandLine(true, mh.cmdBuffer)
		return true
	}

	switch ae.Action {
	case input.ActionDeleteBackward:
		if mh.cmdBuffer == "" {
			mh.setMode(ModeNormal)
			logger.Debugf("ModeHandler: Exiting Command Mode via Backspace")
			return true
		}
		g := utils.Graphemes(mh.cmdBuffer)
		mh.cmdBuffer = strings.Join(g[:len(g)-1], "")
		mh.statusBar.SetCommandLine(true, mh.cmdBuffer)

	case input.ActionSelectNext:
		mh.completeCommand()

	case input.ActionEnter:
		cmd := mh.cmdBuffer
		mh.cmdBuffer = ""
		mh.setMode(ModeNormal)
		mh.executeCommand(cmd)

	case input.ActionQuit:
		mh.cmdBuffer = ""
		mh.setMode(ModeNormal)
		logger.Debugf("ModeHandler: Canceled Command Mode via Escape")

	default:
		return false
	}
	return true
}

// completeCommand replaces a partial command name with the best fuzzy
// match among registered commands.
func (mh *ModeHandler) completeCommand() {
	if mh.cmdBuffer == "" || strings.ContainsRune(mh.cmdBuffer, ' ') {
		return
	}
	matches := fuzzy.Find(mh.cmdBuffer, mh.CommandNames())
	if len(matches) == 0 {
		mh.statusBar.SetTemporaryMessage("No command matches '%s'", mh.cmdBuffer)
		return
	}
	mh.cmdBuffer = matches[0].Str + " "
	mh.statusBar.SetCommandLine(true, mh.cmdBuffer)
}

// executeCommand parses and runs a ":" command line.
func (mh *ModeHandler) executeCommand(cmdStr string) {
	parts := strings.Fields(cmdStr)
	if len(parts) == 0 {
		return
	}
	cmdName, args := parts[0], parts[1:]

	cmdFunc, exists := mh.commands[cmdName]
	if !exists {
		mh.statusBar.SetTemporaryMessage("Unknown command: %s", cmdName)
		return
	}
	logger.DebugTagf("command", "ModeHandler: Executing command ':%s' with args %v", cmdName, args)
	if err := cmdFunc(args); err != nil {
		mh.statusBar.SetTemporaryMessage("Error executing command '%s': %v", cmdName, err)
	}
}
