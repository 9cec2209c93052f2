// Package tui provides the terminal user interface for the ABCD validator.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/itaxotools/abcd-validator/internal/session"
	"github.com/itaxotools/abcd-validator/internal/watcher"
)

// UI states.
const (
	stateForm = iota
	statePicking
	stateRunning
	stateResults
	stateSaving
)

// App is the main bubbletea model for the validator TUI.
type App struct {
	// session owns the observable validation state.
	session *session.Session
	// watcher reports input files that disappear from disk. May be nil.
	watcher *watcher.Watcher

	// state is the current UI state.
	state int
	// form is the input selection form.
	form *PathForm
	// picker is the active file picker, set while picking.
	picker *PathPicker
	// results shows the diagnostics of the last completed run.
	results *ResultsView
	// saveInput is the destination prompt for saving logs.
	saveInput textinput.Model
	// busy is the spinner shown while a run is in flight.
	busy spinner.Model
	// glyphs selects glyph or label rendering for diagnostics.
	glyphs bool

	// notice is a transient warning line, cleared on the next key press.
	notice string
	// status is a transient confirmation line shown under the results.
	status string

	width    int
	height   int
	quitting bool
}

// New creates the TUI app around an existing session.
func New(s *session.Session, w *watcher.Watcher, glyphs bool) *App {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	return &App{
		session:   s,
		watcher:   w,
		form:      NewPathForm(s),
		saveInput: ti,
		busy:      sp,
		glyphs:    glyphs,
		width:     80,
		height:    24,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	if a.watcher == nil {
		return nil
	}
	return a.watchRemoved()
}

// watchRemoved waits for the next removal notification.
func (a *App) watchRemoved() tea.Cmd {
	ch := a.watcher.Removed()
	return func() tea.Msg {
		return InputRemovedMsg{Path: <-ch}
	}
}

// waitForRun waits for the single completion message of the running batch.
func (a *App) waitForRun() tea.Cmd {
	ch := a.session.Results()
	return func() tea.Msg {
		return RunDoneMsg{Result: <-ch}
	}
}

// syncWatcher replaces the watched path set with the current selections.
func (a *App) syncWatcher() {
	if a.watcher == nil {
		return
	}
	props := a.session.PathProperties()
	paths := make([]string, 0, len(props))
	for _, p := range props {
		paths = append(paths, p.Get())
	}
	a.watcher.SetPaths(paths)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.form.SetWidth(msg.Width)
		if a.results != nil {
			a.results.SetSize(msg.Width-2, msg.Height-8)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true
			return a, tea.Quit
		}
		a.notice = ""

	case InputRemovedMsg:
		a.session.ClearPath(msg.Path)
		a.notice = fmt.Sprintf("Input removed from disk: %s", msg.Path)
		return a, a.watchRemoved()

	case RunDoneMsg:
		a.session.Finish(msg.Result)
		a.results = NewResultsView(a.session.Logs, a.width-2, a.height-8, a.glyphs)
		a.state = stateResults
		a.status = ""
		return a, nil

	case spinner.TickMsg:
		if a.state != stateRunning {
			return a, nil
		}
		var cmd tea.Cmd
		a.busy, cmd = a.busy.Update(msg)
		return a, cmd
	}

	switch a.state {
	case stateForm:
		return a.updateForm(msg)
	case statePicking:
		return a.updatePicking(msg)
	case stateResults:
		return a.updateResults(msg)
	case stateSaving:
		return a.updateSaving(msg)
	}
	return a, nil
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch key.String() {
	case "q":
		a.quitting = true
		return a, tea.Quit
	case "tab", "down":
		a.form.FocusNext()
	case "shift+tab", "up":
		a.form.FocusPrev()
	case "backspace", "delete":
		a.form.ClearFocused()
		a.syncWatcher()
	case "enter":
		if a.form.OnRunRow() {
			if err := a.session.Start(); err == nil {
				a.state = stateRunning
				return a, tea.Batch(a.busy.Tick, a.waitForRun())
			}
			return a, nil
		}
		field := a.form.FocusIndex()
		a.picker = NewPathPicker(field, a.form.FieldValue(field), a.height-8)
		a.state = statePicking
		return a, a.picker.Init()
	}
	return a, nil
}

func (a *App) updatePicking(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PathSelectedMsg:
		a.session.PathProperties()[msg.Field].Set(msg.Path)
		a.syncWatcher()
		a.picker = nil
		a.state = stateForm
		return a, nil
	case PickerCancelledMsg:
		a.picker = nil
		a.state = stateForm
		return a, nil
	}

	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	return a, cmd
}

func (a *App) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "q":
			a.quitting = true
			return a, tea.Quit
		case "esc", "b":
			a.state = stateForm
			return a, nil
		case "s":
			a.saveInput.SetValue(a.session.DefaultLogPath())
			a.saveInput.CursorEnd()
			a.state = stateSaving
			return a, a.saveInput.Focus()
		}
	}

	var cmd tea.Cmd
	a.results, cmd = a.results.Update(msg)
	return a, cmd
}

func (a *App) updateSaving(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			a.saveInput.Blur()
			a.state = stateResults
			return a, nil
		case "enter":
			path := a.saveInput.Value()
			if path == "" {
				return a, nil
			}
			if err := a.session.SaveLogs(path); err != nil {
				a.status = errorStyle.Render(fmt.Sprintf("Save failed: %v", err))
			} else {
				a.status = successStyle.Render(fmt.Sprintf("Logs saved to %s", path))
			}
			a.saveInput.Blur()
			a.state = stateResults
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.saveInput, cmd = a.saveInput.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	header := titleStyle.Render("ABCD Validator")
	if a.notice != "" {
		header += "\n" + noticeStyle.Render(a.notice)
	}

	var body, footer string
	switch a.state {
	case stateForm:
		body = a.form.View()
		footer = "Tab/↑↓ move  |  Enter browse or run  |  Backspace clear  |  q quit"
	case statePicking:
		body = a.picker.View()
		footer = ""
	case stateRunning:
		body = a.busy.View() + " Validating..."
		footer = "Ctrl+c quit"
	case stateResults:
		body = a.results.View()
		if a.status != "" {
			body += "\n" + a.status
		}
		footer = "↑↓ scroll  |  s save logs  |  Esc back  |  q quit"
	case stateSaving:
		body = a.results.Summary() + "\n\n" +
			labelStyle.Render("Save logs to:") + "\n" +
			boxStyle.Render(a.saveInput.View())
		footer = "Enter save  |  Esc cancel"
	}

	out := header + "\n\n" + body
	if footer != "" {
		out += "\n\n" + footerStyle.Render(footer)
	}
	return out
}

// Run starts the TUI application over the given session.
func Run(s *session.Session, w *watcher.Watcher, glyphs bool) error {
	app := New(s, w, glyphs)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
