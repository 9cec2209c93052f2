package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/itaxotools/abcd-validator/internal/converter"
	"github.com/itaxotools/abcd-validator/internal/runner"
	"github.com/itaxotools/abcd-validator/pkg/models"
)

// fakeConverter reports scripted diagnostics through the sinks.
type fakeConverter struct {
	mu    sync.Mutex
	calls int
	warn  []string
	errs  []string
	block chan struct{} // if non-nil, Convert waits on it
}

func (f *fakeConverter) Convert(ctx context.Context, specimen, measurement, multimedia string, io *converter.IOHandler) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	for _, w := range f.warn {
		io.Warning(w, nil)
	}
	for _, e := range f.errs {
		io.Error(e, nil)
	}
	return nil
}

func (f *fakeConverter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// setAllPaths drives the session to the ready state.
func setAllPaths(t *testing.T, s *Session) {
	t.Helper()
	s.SpecimenFilePath.Set("/data/specimen.csv")
	s.MeasurementFilePath.Set("/data/measurement.csv")
	s.MultimediaFilePath.Set("/data/media/multimedia.csv")
	if !s.Ready.Get() {
		t.Fatal("session not ready after setting all paths")
	}
}

// finishRun waits for the worker's completion and processes it, the way the
// owning loop would.
func finishRun(t *testing.T, s *Session) runner.Result {
	t.Helper()
	select {
	case res := <-s.Results():
		s.Finish(res)
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for run completion")
		return runner.Result{}
	}
}

func TestReadyIsConjunctionOfAllPaths(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()

	if s.Ready.Get() {
		t.Fatal("new session must not be ready")
	}

	s.SpecimenFilePath.Set("/a")
	s.MeasurementFilePath.Set("/b")
	if s.Ready.Get() {
		t.Error("ready with only two paths set")
	}

	s.MultimediaFilePath.Set("/c/multimedia.csv")
	// Folder was propagated, so all four are now set.
	if !s.Ready.Get() {
		t.Error("not ready with all four paths set")
	}

	s.MeasurementFilePath.Set("")
	if s.Ready.Get() {
		t.Error("ready after unsetting a path")
	}

	s.MeasurementFilePath.Set("/b")
	if !s.Ready.Get() {
		t.Error("not ready after restoring the path")
	}
}

func TestReadyRecomputedOnEveryPathChange(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()

	var transitions []bool
	s.Ready.Subscribe(func(v bool) { transitions = append(transitions, v) })

	setAllPaths(t, s)
	s.SpecimenFilePath.Set("")
	s.SpecimenFilePath.Set("/data/specimen.csv")

	// false→true, true→false, false→true; intermediate sets that do not
	// change readiness produce no notifications.
	want := []bool{true, false, true}
	if len(transitions) != len(want) {
		t.Fatalf("ready transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("ready transitions = %v, want %v", transitions, want)
		}
	}
}

func TestMultimediaPathPropagation(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()

	s.MultimediaFilePath.Set(filepath.Join("/data", "media", "multimedia.csv"))
	if got, want := s.MultimediaFolderPath.Get(), filepath.Join("/data", "media"); got != want {
		t.Errorf("folder = %q, want %q", got, want)
	}
}

func TestPropagationSettlesBeforeReadiness(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()

	s.SpecimenFilePath.Set("/a")
	s.MeasurementFilePath.Set("/b")

	readyNotifications := 0
	s.Ready.Subscribe(func(v bool) {
		readyNotifications++
		if !v {
			t.Error("ready notified false during propagation")
		}
		// Both multimedia properties must already hold their final values.
		if s.MultimediaFilePath.Get() == "" || s.MultimediaFolderPath.Get() == "" {
			t.Error("ready observer saw unsettled multimedia paths")
		}
	})

	// One user action satisfies both the file and the folder requirement.
	s.MultimediaFilePath.Set("/c/multimedia.csv")

	if readyNotifications != 1 {
		t.Errorf("ready notified %d times, want 1", readyNotifications)
	}
}

func TestExplicitFolderWinsOverPropagation(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()

	s.SetPaths("/a", "/b", "/c/multimedia.csv", "/elsewhere")
	if got := s.MultimediaFolderPath.Get(); filepath.Base(got) != "elsewhere" {
		t.Errorf("folder = %q, want the explicitly supplied one", got)
	}
}

func TestSetPathsResolvesAbsolute(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()

	s.SetPaths("specimen.csv", "", "", "")
	if !filepath.IsAbs(s.SpecimenFilePath.Get()) {
		t.Errorf("path not resolved to absolute: %q", s.SpecimenFilePath.Get())
	}
	if s.MeasurementFilePath.Get() != "" {
		t.Error("empty input overwrote a property")
	}
}

func TestStartIsNoOpWhenNotReady(t *testing.T) {
	conv := &fakeConverter{}
	s := New(conv)
	defer s.Close()

	if err := s.Start(); !errors.Is(err, ErrNotReady) {
		t.Errorf("Start on a not-ready session = %v, want ErrNotReady", err)
	}
	if s.Busy.Get() {
		t.Error("busy set by a refused start")
	}
	if conv.callCount() != 0 {
		t.Error("backend called by a refused start")
	}
}

func TestStartIsNoOpWhileBusy(t *testing.T) {
	conv := &fakeConverter{block: make(chan struct{})}
	s := New(conv)
	defer s.Close()
	setAllPaths(t, s)

	if err := s.Start(); err != nil {
		t.Fatalf("first Start refused: %v", err)
	}
	if !s.Busy.Get() {
		t.Fatal("busy not set synchronously by Start")
	}
	if err := s.Start(); !errors.Is(err, ErrBusy) {
		t.Errorf("second Start while busy = %v, want ErrBusy", err)
	}

	close(conv.block)
	finishRun(t, s)

	if s.Busy.Get() {
		t.Error("busy still set after Finish")
	}
	if conv.callCount() != 1 {
		t.Errorf("backend called %d times, want 1", conv.callCount())
	}
}

func TestRunWithDiagnostics(t *testing.T) {
	conv := &fakeConverter{warn: []string{"A"}, errs: []string{"B"}}
	s := New(conv)
	defer s.Close()
	setAllPaths(t, s)

	var reports []bool
	s.Report.Subscribe(func(got bool) { reports = append(reports, got) })

	resets := 0
	s.Logs.OnReset(func() { resets++ })

	if err := s.Start(); err != nil {
		t.Fatalf("Start refused: %v", err)
	}
	finishRun(t, s)

	if s.Logs.Count() != 2 {
		t.Fatalf("log model holds %d entries, want 2", s.Logs.Count())
	}
	if s.Logs.At(0).Severity != models.SeverityWarning || s.Logs.At(0).Message != "A" {
		t.Errorf("first entry = %+v", s.Logs.At(0))
	}
	if s.Logs.At(1).Severity != models.SeverityError || s.Logs.At(1).Message != "B" {
		t.Errorf("second entry = %+v", s.Logs.At(1))
	}
	if len(reports) != 1 || !reports[0] {
		t.Errorf("report events = %v, want one true", reports)
	}
	if resets != 1 {
		t.Errorf("log model reset %d times, want 1", resets)
	}
}

func TestRunWithoutDiagnostics(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()
	setAllPaths(t, s)

	var reports []bool
	s.Report.Subscribe(func(got bool) { reports = append(reports, got) })

	if err := s.Start(); err != nil {
		t.Fatalf("Start refused: %v", err)
	}
	finishRun(t, s)

	if s.Logs.Count() != 0 {
		t.Errorf("log model holds %d entries, want 0", s.Logs.Count())
	}
	if len(reports) != 1 || reports[0] {
		t.Errorf("report events = %v, want one false", reports)
	}
}

func TestSessionReusableAcrossRuns(t *testing.T) {
	conv := &fakeConverter{errs: []string{"problem"}}
	s := New(conv)
	defer s.Close()
	setAllPaths(t, s)

	for i := 0; i < 2; i++ {
		if err := s.Start(); err != nil {
			t.Fatalf("run %d refused: %v", i, err)
		}
		finishRun(t, s)
	}
	if conv.callCount() != 2 {
		t.Errorf("backend called %d times, want 2", conv.callCount())
	}
	if s.Logs.Count() != 1 {
		t.Errorf("log model holds %d entries after replacement, want 1", s.Logs.Count())
	}
}

func TestClearPath(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()
	setAllPaths(t, s)

	s.ClearPath("/data/specimen.csv")
	if s.SpecimenFilePath.Get() != "" {
		t.Error("specimen path not cleared")
	}
	if s.Ready.Get() {
		t.Error("still ready after a watched input disappeared")
	}

	// Unknown paths are ignored.
	s.ClearPath("/nowhere")
	if s.MeasurementFilePath.Get() == "" {
		t.Error("unrelated property cleared")
	}
}

func TestDefaultLogPath(t *testing.T) {
	s := New(&fakeConverter{})
	defer s.Close()

	s.SpecimenFilePath.Set(filepath.Join("/data", "specimen.csv"))
	if got, want := s.DefaultLogPath(), filepath.Join("/data", "specimen.txt"); got != want {
		t.Errorf("DefaultLogPath() = %q, want %q", got, want)
	}
}
