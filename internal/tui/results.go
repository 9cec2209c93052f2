package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/itaxotools/abcd-validator/internal/session"
	"github.com/itaxotools/abcd-validator/pkg/models"
)

// ResultsView shows the diagnostics of the most recent completed run in a
// scrollable viewport.
type ResultsView struct {
	viewport viewport.Model
	logs     *session.LogModel
	glyphs   bool
	warnings int
	errors   int
}

// NewResultsView creates the results view over the given log model. When
// glyphs is false, entries render with text labels instead of severity glyphs.
func NewResultsView(logs *session.LogModel, width, height int, glyphs bool) *ResultsView {
	vp := viewport.New(width, height)
	rv := &ResultsView{viewport: vp, logs: logs, glyphs: glyphs}
	rv.Refresh()
	return rv
}

// SetSize resizes the viewport.
func (rv *ResultsView) SetSize(width, height int) {
	if height < 3 {
		height = 3
	}
	rv.viewport.Width = width
	rv.viewport.Height = height
	rv.Refresh()
}

// Refresh re-renders the viewport content from the log model.
func (rv *ResultsView) Refresh() {
	rv.warnings, rv.errors = 0, 0

	var b strings.Builder
	for i := 0; i < rv.logs.Count(); i++ {
		entry := rv.logs.At(i)
		line := entry.String()
		if !rv.glyphs {
			line = entry.ExportText()
		}
		switch entry.Severity {
		case models.SeverityWarning:
			rv.warnings++
			b.WriteString(warningStyle.Render(line))
		case models.SeverityError:
			rv.errors++
			b.WriteString(errorStyle.Render(line))
		default:
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	rv.viewport.SetContent(b.String())
	rv.viewport.GotoTop()
}

// Update forwards scrolling messages to the viewport.
func (rv *ResultsView) Update(msg tea.Msg) (*ResultsView, tea.Cmd) {
	var cmd tea.Cmd
	rv.viewport, cmd = rv.viewport.Update(msg)
	return rv, cmd
}

// Summary returns the one-line verdict for the run.
func (rv *ResultsView) Summary() string {
	if rv.logs.Count() == 0 {
		return successStyle.Render("✓ Validation completed with no issues")
	}
	return fmt.Sprintf("Validation completed: %s, %s",
		errorStyle.Render(fmt.Sprintf("%d errors", rv.errors)),
		warningStyle.Render(fmt.Sprintf("%d warnings", rv.warnings)))
}

// View renders the results view.
func (rv *ResultsView) View() string {
	body := rv.viewport.View()
	if rv.logs.Count() == 0 {
		body = placeholderStyle.Render("No diagnostics to show.")
	}
	return rv.Summary() + "\n\n" + body
}
