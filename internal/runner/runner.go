// Package runner executes validation runs on a worker goroutine and delivers
// each run's collected diagnostics back across the goroutine boundary as a
// single message.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/itaxotools/abcd-validator/internal/converter"
	"github.com/itaxotools/abcd-validator/pkg/models"
)

// ErrRunInFlight is returned by Start while a previous run has not delivered.
var ErrRunInFlight = errors.New("a validation run is already in flight")

// Inputs describes one validation run.
type Inputs struct {
	// SpecimenFile is the specimen table path.
	SpecimenFile string
	// MeasurementFile is the measurement table path.
	MeasurementFile string
	// MultimediaFile is the multimedia table path.
	MultimediaFile string
	// MultimediaFolder is the base directory holding the multimedia files.
	MultimediaFolder string
	// Verbose enables the converter's informational output channel.
	Verbose bool
	// OutFile is the result document filename passed to the converter.
	OutFile string
}

// Result is the single completion message delivered per run. Entries holds
// every diagnostic collected, in the order the converter produced them. Err
// is non-nil only for a hard converter failure; the failure is also appended
// to Entries as a final error diagnostic so the consumer sees one batch.
type Result struct {
	Entries []models.LogEntry
	Err     error
}

// Runner executes one run at a time on a worker goroutine. One Runner serves
// a session for its lifetime and is reused across runs; the diagnostic list
// is private to the worker until the run completes, and each run delivers
// exactly one Result on the Results channel.
type Runner struct {
	conv    converter.Converter
	results chan Result
	running atomic.Bool
}

// New creates a Runner backed by the given converter.
func New(conv converter.Converter) *Runner {
	return &Runner{
		conv: conv,
		// Buffered so the worker never blocks on delivery: the consumer
		// processes the prior result before the next run can start.
		results: make(chan Result, 1),
	}
}

// Results returns the channel on which each run delivers exactly one Result.
func (r *Runner) Results() <-chan Result {
	return r.results
}

// Running reports whether a run is currently in flight.
func (r *Runner) Running() bool {
	return r.running.Load()
}

// Start launches one run on a new worker goroutine. The session's busy flag
// is the real mutual-exclusion gate; this guard only catches misuse.
func (r *Runner) Start(ctx context.Context, in Inputs) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRunInFlight
	}
	go r.run(ctx, in)
	return nil
}

// run executes the converter call on the worker goroutine. Diagnostics
// accumulate in a list owned by this goroutine only; nothing is shared with
// the interactive context until the single delivery at the end.
func (r *Runner) run(ctx context.Context, in Inputs) {
	var entries []models.LogEntry

	collect := func(severity models.Severity) converter.Sink {
		return func(description string, context map[string]string) {
			entries = append(entries, models.LogEntry{
				Severity: severity,
				Message:  description,
				Context:  context,
			})
		}
	}

	io := &converter.IOHandler{
		Verbose:       in.Verbose,
		OutFile:       in.OutFile,
		FileDirectory: in.MultimediaFolder,
		Log:           converter.Discard,
		Warning:       collect(models.SeverityWarning),
		Error:         collect(models.SeverityError),
		ResultFile:    converter.Discard,
	}

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("converter panic: %v", rec)
			r.deliver(Result{Entries: append(entries, fatalEntry(err)), Err: err})
		}
	}()

	err := r.conv.Convert(ctx, in.SpecimenFile, in.MeasurementFile, in.MultimediaFile, io)
	if err != nil {
		entries = append(entries, fatalEntry(err))
	}
	r.deliver(Result{Entries: entries, Err: err})
}

func (r *Runner) deliver(res Result) {
	r.running.Store(false)
	r.results <- res
}

// fatalEntry turns a hard converter failure into a final error diagnostic so
// the run still completes with a batch rather than leaving the session stuck.
func fatalEntry(err error) models.LogEntry {
	return models.LogEntry{
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("Conversion failed: %v", err),
	}
}
