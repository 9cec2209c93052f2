// Package converter defines the call contract for the schema conversion
// backend and provides a built-in CSV implementation of it.
//
// The contract mirrors the gfbio converter interface: the caller supplies an
// IOHandler with one sink per output channel, and the converter reports every
// validation problem as a diagnostic callback rather than a hard failure. A
// non-nil error from Convert means the conversion itself could not run
// (unreadable input, cancelled context), not that the data was invalid.
package converter

import "context"

// Sink receives one callback from the converter: a free-form description and
// a structured context mapping.
type Sink func(description string, context map[string]string)

// Discard is the no-op sink.
func Discard(string, map[string]string) {}

// IOHandler carries converter configuration and the four output channels the
// converter distinguishes. Nil sinks are treated as Discard.
type IOHandler struct {
	// Verbose enables informational output on the Log sink.
	Verbose bool
	// OutFile is the filename reported with the result document.
	OutFile string
	// FileDirectory is the base directory holding the multimedia files.
	FileDirectory string

	// Log receives informational progress output.
	Log Sink
	// Warning receives warning diagnostics.
	Warning Sink
	// Error receives error diagnostics.
	Error Sink
	// ResultFile receives the assembled result document.
	ResultFile Sink
}

// fillDefaults replaces nil sinks with Discard so converters can invoke the
// channels unconditionally.
func (h *IOHandler) fillDefaults() {
	if h.Log == nil {
		h.Log = Discard
	}
	if h.Warning == nil {
		h.Warning = Discard
	}
	if h.Error == nil {
		h.Error = Discard
	}
	if h.ResultFile == nil {
		h.ResultFile = Discard
	}
}

// Converter turns the three input tables into an ABCD document, reporting
// problems through the IOHandler sinks.
type Converter interface {
	Convert(ctx context.Context, specimenPath, measurementPath, multimediaPath string, io *IOHandler) error
}
