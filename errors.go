package pdfconv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/tsawler/pdfconv/extract"
	"github.com/tsawler/pdfconv/format"
	"github.com/tsawler/pdfconv/reader"
)

var (
	// ErrSourceUnreadable is returned when the input cannot be read, is
	// empty, or is not a PDF. Nothing has been parsed.
	ErrSourceUnreadable = errors.New("source unreadable")
	// ErrSinkWrite is returned when the output writer rejects the document.
	ErrSinkWrite = errors.New("output write failed")
	// ErrInvalidTarget is returned for an unknown target format, before
	// any extraction runs.
	ErrInvalidTarget = format.ErrInvalidTarget
	// ErrPageOutOfRange is returned when a selected page does not exist.
	ErrPageOutOfRange = extract.ErrPageOutOfRange
)

// ParseError reports a document whose structure or page content could not
// be parsed. Page is 1-based, or 0 when the failure is not tied to a page.
type ParseError struct {
	Page int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Page == 0 {
		return fmt.Sprintf("parse error: %v", e.Err)
	}
	return fmt.Sprintf("parse error on page %d: %v", e.Page, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Warning is a non-fatal problem found during extraction.
type Warning = extract.Warning

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// openError classifies a failure to open the source.
func openError(err error) error {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, reader.ErrEmpty),
		errors.Is(err, reader.ErrNotPDF),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.As(err, &pathErr):
		return fmt.Errorf("%w: %w", ErrSourceUnreadable, err)
	}
	return &ParseError{Err: err}
}

// extractError classifies a failure returned by extract.Document.
func extractError(err error) error {
	var pe *extract.PageError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, extract.ErrPageOutOfRange):
		return err
	case errors.As(err, &pe):
		return &ParseError{Page: pe.Page, Err: pe.Err}
	}
	return &ParseError{Err: err}
}
