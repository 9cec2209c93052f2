package tui

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// PathPicker wraps the bubbles file picker for selecting a single input
// path, in either file or directory mode.
type PathPicker struct {
	picker filepicker.Model
	field  int
	dirs   bool
}

// NewPathPicker creates a picker for the given form field. Directory mode is
// used for the multimedia folder field. The picker opens at the directory of
// the current value when one is set.
func NewPathPicker(field int, current string, height int) *PathPicker {
	fp := filepicker.New()
	dirs := field == FieldMultimediaFolder
	fp.DirAllowed = dirs
	fp.FileAllowed = !dirs
	fp.ShowHidden = false
	fp.AutoHeight = false
	if height < 8 {
		height = 8
	}
	if height > 18 {
		height = 18
	}
	fp.Height = height
	fp.CurrentDirectory = pickerStartDir(current)

	return &PathPicker{picker: fp, field: field, dirs: dirs}
}

// pickerStartDir resolves the directory the picker should open in.
func pickerStartDir(current string) string {
	if current != "" {
		dir := filepath.Dir(current)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// Init implements the picker's startup command.
func (p *PathPicker) Init() tea.Cmd {
	return p.picker.Init()
}

// Update handles messages for the picker. Selection and cancellation are
// reported through PathSelectedMsg and PickerCancelledMsg.
func (p *PathPicker) Update(msg tea.Msg) (*PathPicker, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return p, func() tea.Msg { return PickerCancelledMsg{} }
	}

	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)

	if ok, path := p.picker.DidSelectFile(msg); ok {
		field := p.field
		return p, func() tea.Msg { return PathSelectedMsg{Field: field, Path: path} }
	}
	return p, cmd
}

// View renders the picker.
func (p *PathPicker) View() string {
	heading := "Select file"
	if p.dirs {
		heading = "Select folder"
	}
	return titleStyle.Render(heading) + "\n\n" + p.picker.View() + "\n" +
		footerStyle.Render("Enter select  |  Esc cancel")
}
