package pdfconv

import (
	"io"
	"log/slog"

	"github.com/tsawler/pdfconv/extract"
)

// convertOptions holds the configuration of a Converter.
type convertOptions struct {
	// Page selection, 1-indexed. nil means all pages.
	pages []int

	layout extract.Layout
	title  string
	logger *slog.Logger

	// OCR of image-only pages
	ocr         bool
	ocrLanguage string
}

// discardLogger drops every record.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// defaultOptions returns the default conversion options.
func defaultOptions() convertOptions {
	return convertOptions{
		layout: extract.DefaultLayout,
		logger: discardLogger,
	}
}

// clone creates a deep copy of convertOptions.
func (o convertOptions) clone() convertOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	return newOpts
}
