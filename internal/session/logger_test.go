package session

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugLoggerWritesTimestampedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")

	l, err := NewDebugLogger(path)
	if err != nil {
		t.Fatalf("NewDebugLogger failed: %v", err)
	}
	l.Log("run %s started", "abc")
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "run abc started") {
		t.Errorf("log file missing message:\n%s", content)
	}
	if !strings.Contains(content, "=== Session started") {
		t.Errorf("log file missing header:\n%s", content)
	}
}

func TestDebugLoggerAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	for i := 0; i < 2; i++ {
		l, err := NewDebugLogger(path)
		if err != nil {
			t.Fatalf("open %d failed: %v", i, err)
		}
		l.Log("line %d", i)
		l.Close()
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "line 0") || !strings.Contains(string(data), "line 1") {
		t.Errorf("log should hold both sessions:\n%s", data)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	l := NopLogger()
	l.Log("nothing happens")
	if err := l.Close(); err != nil {
		t.Errorf("Close on nop logger = %v", err)
	}

	var nilLogger *DebugLogger
	nilLogger.Log("also safe")
}
