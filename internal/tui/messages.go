package tui

import "github.com/itaxotools/abcd-validator/internal/runner"

// RunDoneMsg carries the single completion message of a background run.
type RunDoneMsg struct {
	Result runner.Result
}

// InputRemovedMsg is sent when a watched input file disappears from disk.
type InputRemovedMsg struct {
	Path string
}

// PathSelectedMsg is sent when the file picker confirms a selection.
type PathSelectedMsg struct {
	Field int
	Path  string
}

// PickerCancelledMsg is sent when the file picker is dismissed.
type PickerCancelledMsg struct{}
