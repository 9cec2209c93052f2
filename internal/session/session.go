// Package session implements the validation session: the observable input
// paths, the derived readiness flag, the busy gate, the diagnostic log model,
// and the orchestration of background validation runs.
//
// A session and everything it owns belong to one interactive goroutine. The
// only other goroutine involved is the runner's worker, which communicates
// back exclusively through the Results channel; the owning goroutine must
// pass each received Result to Finish exactly once.
package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/itaxotools/abcd-validator/internal/bindings"
	"github.com/itaxotools/abcd-validator/internal/converter"
	"github.com/itaxotools/abcd-validator/internal/history"
	"github.com/itaxotools/abcd-validator/internal/runner"
	"github.com/itaxotools/abcd-validator/pkg/models"
)

var (
	// ErrNotReady is returned by Start while any input path is unset.
	ErrNotReady = errors.New("session: inputs incomplete")
	// ErrBusy is returned by Start while a run is already in flight.
	ErrBusy = errors.New("session: run in flight")
)

// Session owns the observable state of one validation workflow.
type Session struct {
	// SpecimenFilePath is the specimen table location.
	SpecimenFilePath *bindings.Property[string]
	// MeasurementFilePath is the measurement table location.
	MeasurementFilePath *bindings.Property[string]
	// MultimediaFilePath is the multimedia table location. Setting it also
	// sets MultimediaFolderPath to its parent directory.
	MultimediaFilePath *bindings.Property[string]
	// MultimediaFolderPath is the directory holding the multimedia files.
	MultimediaFolderPath *bindings.Property[string]

	// Ready is true iff all four path properties are set.
	Ready *bindings.Property[bool]
	// Busy is true for the duration of one background run.
	Busy *bindings.Property[bool]

	// Report fires once per completed run; the payload is true when the run
	// logged any diagnostics.
	Report *bindings.Event[bool]

	// Logs holds the diagnostics of the most recent completed run.
	Logs *LogModel

	binder  *bindings.Binder
	runner  *runner.Runner
	history *history.Store
	debug   *DebugLogger
	verbose bool
	outFile string

	ctx    context.Context
	cancel context.CancelFunc

	runID     string
	startedAt time.Time
	runInputs runner.Inputs
}

// Option configures a Session.
type Option func(*Session)

// WithHistory records completed runs in the given store.
func WithHistory(store *history.Store) Option {
	return func(s *Session) { s.history = store }
}

// WithDebugLogger routes session troubleshooting output to the given logger.
func WithDebugLogger(l *DebugLogger) Option {
	return func(s *Session) { s.debug = l }
}

// WithConverterOutput sets the converter's verbosity and result filename.
func WithConverterOutput(verbose bool, outFile string) Option {
	return func(s *Session) {
		s.verbose = verbose
		if outFile != "" {
			s.outFile = outFile
		}
	}
}

// New creates a session driving the given converter backend.
func New(conv converter.Converter, opts ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		SpecimenFilePath:     bindings.NewProperty("specimen_file_path", ""),
		MeasurementFilePath:  bindings.NewProperty("measurement_file_path", ""),
		MultimediaFilePath:   bindings.NewProperty("multimedia_file_path", ""),
		MultimediaFolderPath: bindings.NewProperty("multimedia_folder_path", ""),
		Ready:                bindings.NewProperty("ready", false),
		Busy:                 bindings.NewProperty("busy", false),
		Report:               bindings.NewEvent[bool](),
		Logs:                 NewLogModel(),
		binder:               bindings.NewBinder(),
		runner:               runner.New(conv),
		debug:                NopLogger(),
		outFile:              "result.xml",
		ctx:                  ctx,
		cancel:               cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Path propagation binds before the readiness recomputation so a single
	// file selection settles both the file and the folder property.
	bindings.BindProperty(s.binder, s.MultimediaFilePath, s.propagateMultimediaPath)
	for _, p := range s.PathProperties() {
		bindings.BindProperty(s.binder, p, func(string) { s.updateReady() })
	}

	return s
}

// PathProperties returns the four input path properties.
func (s *Session) PathProperties() []*bindings.Property[string] {
	return []*bindings.Property[string]{
		s.SpecimenFilePath,
		s.MeasurementFilePath,
		s.MultimediaFilePath,
		s.MultimediaFolderPath,
	}
}

// SetPaths pre-populates the path properties from optional command-line
// inputs, resolving each supplied value to an absolute path. Empty values
// leave the corresponding property unchanged. The folder, when supplied,
// is applied last so it wins over file propagation.
func (s *Session) SetPaths(specimen, measurement, multimediaFile, multimediaFolder string) {
	set := func(p *bindings.Property[string], value string) {
		if value == "" {
			return
		}
		if abs, err := filepath.Abs(value); err == nil {
			value = abs
		}
		p.Set(value)
	}
	set(s.SpecimenFilePath, specimen)
	set(s.MeasurementFilePath, measurement)
	set(s.MultimediaFilePath, multimediaFile)
	set(s.MultimediaFolderPath, multimediaFolder)
}

// ClearPath unsets whichever path property currently holds the given value.
// Used when a watched input file disappears.
func (s *Session) ClearPath(path string) {
	for _, p := range s.PathProperties() {
		if p.Get() == path {
			s.debug.Log("input removed from disk, clearing %s", p.Name())
			p.Set("")
		}
	}
}

func (s *Session) propagateMultimediaPath(path string) {
	if path != "" {
		s.MultimediaFolderPath.Set(filepath.Dir(path))
	}
}

func (s *Session) checkReady() bool {
	for _, p := range s.PathProperties() {
		if p.Get() == "" {
			return false
		}
	}
	return true
}

func (s *Session) updateReady() {
	s.Ready.Set(s.checkReady())
}

// Start submits one background run. It fails with ErrNotReady or ErrBusy
// unless the session is ready and idle; on success Busy is true before Start
// returns.
func (s *Session) Start() error {
	if !s.Ready.Get() {
		return ErrNotReady
	}
	if s.Busy.Get() {
		return ErrBusy
	}

	s.runID = uuid.NewString()
	s.startedAt = time.Now()
	s.runInputs = runner.Inputs{
		SpecimenFile:     s.SpecimenFilePath.Get(),
		MeasurementFile:  s.MeasurementFilePath.Get(),
		MultimediaFile:   s.MultimediaFilePath.Get(),
		MultimediaFolder: s.MultimediaFolderPath.Get(),
		Verbose:          s.verbose,
		OutFile:          s.outFile,
	}

	s.Busy.Set(true)
	if err := s.runner.Start(s.ctx, s.runInputs); err != nil {
		s.Busy.Set(false)
		return err
	}
	s.debug.Log("run %s started: specimen=%s measurement=%s multimedia=%s folder=%s",
		s.runID, s.runInputs.SpecimenFile, s.runInputs.MeasurementFile,
		s.runInputs.MultimediaFile, s.runInputs.MultimediaFolder)
	return nil
}

// Results returns the channel carrying each run's single completion message.
// The owning goroutine must pass every received Result to Finish.
func (s *Session) Results() <-chan runner.Result {
	return s.runner.Results()
}

// Finish processes one run completion on the owning goroutine: the log model
// is bulk-replaced, Busy clears, the run is recorded in history, and the
// report event fires with whether any diagnostics were logged.
func (s *Session) Finish(res runner.Result) {
	s.Logs.Replace(res.Entries)
	s.Busy.Set(false)
	s.recordRun(res)
	s.debug.Log("run %s finished: %d diagnostics, err=%v", s.runID, len(res.Entries), res.Err)
	s.Report.Emit(len(res.Entries) > 0)
}

// recordRun stores the completed run in the history store, if configured.
// History is best-effort; a storage failure never disturbs the session.
func (s *Session) recordRun(res runner.Result) {
	if s.history == nil {
		return
	}

	var warnings, errors int
	for _, e := range res.Entries {
		switch e.Severity {
		case models.SeverityWarning:
			warnings++
		case models.SeverityError:
			errors++
		}
	}

	_ = s.history.RecordRun(&models.RunRecord{
		ID:               s.runID,
		StartedAt:        s.startedAt,
		FinishedAt:       time.Now(),
		SpecimenFile:     s.runInputs.SpecimenFile,
		MeasurementFile:  s.runInputs.MeasurementFile,
		MultimediaFile:   s.runInputs.MultimediaFile,
		MultimediaFolder: s.runInputs.MultimediaFolder,
		Warnings:         warnings,
		Errors:           errors,
		Success:          len(res.Entries) == 0,
	})
}

// SaveLogs writes the export rendering of the current log entries to path.
func (s *Session) SaveLogs(path string) error {
	return s.Logs.Export(path)
}

// DefaultLogPath suggests a destination for saved logs: the specimen table
// path with a .txt suffix.
func (s *Session) DefaultLogPath() string {
	spec := s.SpecimenFilePath.Get()
	if spec == "" {
		return "validation-logs.txt"
	}
	ext := filepath.Ext(spec)
	return strings.TrimSuffix(spec, ext) + ".txt"
}

// Close cancels any in-flight run at its next checkpoint and releases every
// binding made by the session.
func (s *Session) Close() {
	s.cancel()
	s.binder.UnbindAll()
}
