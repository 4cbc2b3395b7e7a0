package core

// Copy puts the selected object on the clipboard.
func (e *Editor) Copy() error {
	obj, err := e.selected()
	if err != nil {
		return err
	}
	return e.clipboard.Copy(obj)
}

// Paste adds a copy of the clipboard object, offset from the original,
// and selects it.
func (e *Editor) Paste() (string, error) {
	obj, err := e.clipboard.Paste()
	if err != nil {
		return "", err
	}
	return e.add(obj)
}
