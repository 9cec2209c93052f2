package models

import "testing"

func TestSeverityValid(t *testing.T) {
	if !SeverityWarning.Valid() || !SeverityError.Valid() {
		t.Error("known severities should be valid")
	}
	if Severity("info").Valid() {
		t.Error("unknown severity should be invalid")
	}
}

func TestLogEntryExportText(t *testing.T) {
	tests := []struct {
		name  string
		entry LogEntry
		want  string
	}{
		{
			name: "table context without detail",
			entry: LogEntry{
				Severity: SeverityError,
				Message:  "bad header",
				Context:  map[string]string{ContextFile: "specimen"},
			},
			want: "ERROR: In specimen table: bad header",
		},
		{
			name: "table name is lowercased",
			entry: LogEntry{
				Severity: SeverityWarning,
				Message:  "column skipped",
				Context:  map[string]string{ContextFile: "Measurement"},
			},
			want: "WARNING: In measurement table: column skipped",
		},
		{
			name: "schema validation stage",
			entry: LogEntry{
				Severity: SeverityError,
				Message:  "document rejected",
				Context:  map[string]string{ContextFile: ContextFileResult},
			},
			want: "ERROR: In schema validation: document rejected",
		},
		{
			name: "detail wrapped in angle brackets",
			entry: LogEntry{
				Severity: SeverityError,
				Message:  "bad header",
				Context: map[string]string{
					ContextFile:    "specimen",
					ContextMessage: "unexpected 'Foo'",
				},
			},
			want: "ERROR: In specimen table: bad header <unexpected 'Foo'>",
		},
		{
			name: "newlines stripped from detail",
			entry: LogEntry{
				Severity: SeverityWarning,
				Message:  "parse problem",
				Context: map[string]string{
					ContextMessage: "line one\r\nline two",
				},
			},
			want: "WARNING: parse problem <line oneline two>",
		},
		{
			name:  "no context",
			entry: LogEntry{Severity: SeverityWarning, Message: "plain"},
			want:  "WARNING: plain",
		},
		{
			name: "empty file context omits prefix",
			entry: LogEntry{
				Severity: SeverityError,
				Message:  "plain",
				Context:  map[string]string{ContextFile: ""},
			},
			want: "ERROR: plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.ExportText(); got != tt.want {
				t.Errorf("ExportText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogEntryStringMatchesExportBody(t *testing.T) {
	entry := LogEntry{
		Severity: SeverityError,
		Message:  "bad header",
		Context: map[string]string{
			ContextFile:    "specimen",
			ContextMessage: "details",
		},
	}

	// Interactive and export renderings differ only in their prefix.
	wantBody := "In specimen table: bad header <details>"
	if got := entry.String(); got != SeverityError.Glyph()+" "+wantBody {
		t.Errorf("String() = %q", got)
	}
	if got := entry.ExportText(); got != "ERROR: "+wantBody {
		t.Errorf("ExportText() = %q", got)
	}
}
