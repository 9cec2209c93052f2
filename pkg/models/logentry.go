package models

import "strings"

// Severity classifies a diagnostic produced during a validation run.
type Severity string

const (
	// SeverityWarning indicates a recoverable problem in the input tables.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a problem that makes the input invalid.
	SeverityError Severity = "error"
)

// Valid returns true if the severity is a known value.
func (s Severity) Valid() bool {
	switch s {
	case SeverityWarning, SeverityError:
		return true
	default:
		return false
	}
}

// Glyph returns the symbol shown before interactive renderings.
func (s Severity) Glyph() string {
	switch s {
	case SeverityWarning:
		return "❗"
	case SeverityError:
		return "❌"
	default:
		return "?"
	}
}

// Label returns the uppercase severity name used in export renderings.
func (s Severity) Label() string {
	return strings.ToUpper(string(s))
}

// Context keys recognized on a LogEntry.
const (
	// ContextFile identifies the input table that produced the diagnostic,
	// or ContextFileResult for the schema-validation stage.
	ContextFile = "file"
	// ContextMessage carries a secondary detail string.
	ContextMessage = "message"
	// ContextFileResult is the ContextFile value for schema-validation diagnostics.
	ContextFileResult = "result"
)

// LogEntry is an immutable classified diagnostic record collected during a run.
type LogEntry struct {
	// Severity is the diagnostic classification.
	Severity Severity `json:"severity"`
	// Message is the primary description.
	Message string `json:"message"`
	// Context holds auxiliary structured payload from the converter.
	Context map[string]string `json:"context,omitempty"`
}

// body builds the rendering shared by String and ExportText.
func (e LogEntry) body() string {
	var b strings.Builder
	if file, ok := e.Context[ContextFile]; ok {
		if file == ContextFileResult {
			b.WriteString("In schema validation: ")
		} else if file != "" {
			b.WriteString("In ")
			b.WriteString(strings.ToLower(file))
			b.WriteString(" table: ")
		}
	}
	b.WriteString(e.Message)
	if detail := e.Context[ContextMessage]; detail != "" {
		detail = strings.ReplaceAll(detail, "\r", "")
		detail = strings.ReplaceAll(detail, "\n", "")
		b.WriteString(" <")
		b.WriteString(detail)
		b.WriteString(">")
	}
	return b.String()
}

// String returns the interactive rendering, prefixed with a severity glyph.
func (e LogEntry) String() string {
	return e.Severity.Glyph() + " " + e.body()
}

// ExportText returns the plain-text rendering used for file export.
func (e LogEntry) ExportText() string {
	return e.Severity.Label() + ": " + e.body()
}
