package docslice

import (
	"errors"
	"fmt"

	"github.com/docslice/docslice/reader"
)

var (
	// ErrUnsupportedFormat is returned when the declared format is not
	// one of pdf, docx, or txt.
	ErrUnsupportedFormat = errors.New("docslice: unsupported document format")

	// ErrReadFailure is returned when a document file is missing,
	// unreadable, or corrupt at the format level.
	ErrReadFailure = errors.New("docslice: document read failed")

	// ErrDecodeFailure is returned when plain-text decoding fails
	// mid-read. Encoding detection itself never fails: when no encoding
	// in the fallback list decodes cleanly, the reader falls back to
	// lossy UTF-8 with replacement characters and the parse succeeds.
	ErrDecodeFailure = errors.New("docslice: text decoding failed")
)

// ProcessingError wraps any failure inside a Parse call with the format
// and path of the document being processed. It matches the package
// sentinels via errors.Is and exposes the underlying cause via Unwrap.
type ProcessingError struct {
	Format reader.Format
	Path   string
	Kind   error // one of the package sentinels
	Err    error // underlying cause, may be nil
}

func (e *ProcessingError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("processing %s document %q: %v", e.Format, e.Path, e.Kind)
	}
	return fmt.Sprintf("processing %s document %q: %v: %v", e.Format, e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause so callers
// can test either with errors.Is.
func (e *ProcessingError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// processingError builds a ProcessingError for the given document.
func processingError(format reader.Format, path string, kind, cause error) *ProcessingError {
	return &ProcessingError{Format: format, Path: path, Kind: kind, Err: cause}
}
