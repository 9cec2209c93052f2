package session

import (
	"bufio"
	"fmt"
	"iter"
	"os"

	"github.com/itaxotools/abcd-validator/internal/bindings"
	"github.com/itaxotools/abcd-validator/pkg/models"
)

// LogModel holds the ordered diagnostics of the most recent run. Contents are
// replaced wholesale when a run completes, never mutated incrementally; the
// reset notification tells consumers that everything may have changed.
type LogModel struct {
	entries []models.LogEntry
	reset   *bindings.Event[struct{}]
}

// NewLogModel creates an empty log model.
func NewLogModel() *LogModel {
	return &LogModel{reset: bindings.NewEvent[struct{}]()}
}

// Replace atomically swaps the contents for the given entries and fires the
// reset notification. The input slice is copied.
func (m *LogModel) Replace(entries []models.LogEntry) {
	m.entries = make([]models.LogEntry, len(entries))
	copy(m.entries, entries)
	m.reset.Emit(struct{}{})
}

// OnReset registers a handler for bulk-replace notifications. The returned
// function cancels the registration.
func (m *LogModel) OnReset(fn func()) func() {
	return m.reset.Subscribe(func(struct{}) { fn() })
}

// Count returns the number of entries.
func (m *LogModel) Count() int {
	return len(m.entries)
}

// At returns the entry at index i.
func (m *LogModel) At(i int) models.LogEntry {
	return m.entries[i]
}

// ExportLines returns a restartable sequence of plain-text renderings of each
// entry, in collection order.
func (m *LogModel) ExportLines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, entry := range m.entries {
			if !yield(entry.ExportText()) {
				return
			}
		}
	}
}

// Export writes one newline-terminated export line per entry to path,
// overwriting any existing file.
func (m *LogModel) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create log file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for line := range m.ExportLines() {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("write log file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write log file: %w", err)
	}
	return nil
}
