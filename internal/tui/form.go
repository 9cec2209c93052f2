package tui

import (
	"strings"

	"github.com/itaxotools/abcd-validator/internal/session"
)

// Field indices for the input form.
const (
	FieldSpecimen = iota
	FieldMeasurement
	FieldMultimediaFile
	FieldMultimediaFolder
	fieldRun
	fieldCount
)

var fieldLabels = [...]string{
	"Specimen table",
	"Measurement table",
	"Multimedia table",
	"Multimedia folder",
}

// PathForm is the input selection form. Values are read live from the
// session's path properties so folder propagation shows up immediately.
type PathForm struct {
	session    *session.Session
	focusIndex int
	width      int
}

// NewPathForm creates the input form for the given session.
func NewPathForm(s *session.Session) *PathForm {
	return &PathForm{session: s, width: 80}
}

// SetWidth sets the rendering width of the form.
func (f *PathForm) SetWidth(width int) {
	f.width = width
}

// FocusIndex returns the currently focused row.
func (f *PathForm) FocusIndex() int {
	return f.focusIndex
}

// FocusNext moves focus to the next row.
func (f *PathForm) FocusNext() {
	f.focusIndex = (f.focusIndex + 1) % fieldCount
}

// FocusPrev moves focus to the previous row.
func (f *PathForm) FocusPrev() {
	f.focusIndex--
	if f.focusIndex < 0 {
		f.focusIndex = fieldCount - 1
	}
}

// OnRunRow reports whether the run row is focused.
func (f *PathForm) OnRunRow() bool {
	return f.focusIndex == fieldRun
}

// ClearFocused unsets the path property of the focused row.
func (f *PathForm) ClearFocused() {
	if f.focusIndex < fieldRun {
		f.session.PathProperties()[f.focusIndex].Set("")
	}
}

// FieldValue returns the current value of the given field.
func (f *PathForm) FieldValue(field int) string {
	return f.session.PathProperties()[field].Get()
}

// View renders the form.
func (f *PathForm) View() string {
	props := f.session.PathProperties()

	var b strings.Builder
	for i, label := range fieldLabels {
		style := labelStyle
		marker := "  "
		if i == f.focusIndex {
			style = focusedLabelStyle
			marker = "> "
		}
		b.WriteString(marker)
		b.WriteString(style.Render(label + ":"))
		b.WriteString("\n    ")

		value := props[i].Get()
		if value == "" {
			b.WriteString(placeholderStyle.Render("(not set — press Enter to browse)"))
		} else {
			b.WriteString(valueStyle.Render(truncatePath(value, f.width-6)))
		}
		b.WriteString("\n\n")
	}

	runLabel := "[ Validate ]"
	switch {
	case !f.session.Ready.Get():
		runLabel = placeholderStyle.Render("[ Validate ] (select all inputs first)")
	case f.focusIndex == fieldRun:
		runLabel = focusedLabelStyle.Render(runLabel)
	default:
		runLabel = labelStyle.Render(runLabel)
	}
	marker := "  "
	if f.focusIndex == fieldRun {
		marker = "> "
	}
	b.WriteString(marker)
	b.WriteString(runLabel)

	return b.String()
}

// truncatePath shortens long paths from the left so the filename stays
// visible.
func truncatePath(path string, max int) string {
	if max < 8 || len(path) <= max {
		return path
	}
	return "…" + path[len(path)-max+1:]
}
