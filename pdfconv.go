// Package pdfconv converts PDF documents into other formats through a
// fluent API.
//
// Basic usage:
//
//	var buf bytes.Buffer
//	res, err := pdfconv.Open("report.pdf").Convert(ctx, format.RichDoc, &buf)
//	if err != nil {
//	    // handle error
//	}
//	if len(res.Skipped) > 0 {
//	    log.Println("skipped images:", len(res.Skipped))
//	}
//
// With options:
//
//	res, err := pdfconv.Open("scan.pdf").
//	    Pages(1, 2).
//	    OCR("eng").
//	    Logger(slog.Default()).
//	    ConvertFile(ctx, format.HTML, "out/")
//
// Extraction runs once per request and produces a model.Document: one
// page per source page, with text lines at synthetic positions and images
// at the position and size they are painted at. Each target format is
// written by its own package (plaintext, docx, pptx, rtf, msdoc and
// htmldoc), which may be used directly with a model.Document.
package pdfconv

import (
	"io"

	"github.com/tsawler/pdfconv/model"
)

// Open returns a Converter for the PDF file at path. The file is read on
// the first terminal operation; the Converter should be closed when done.
//
// Example:
//
//	c := pdfconv.Open("document.pdf")
//	defer c.Close()
//	doc, warnings, err := c.Document(ctx)
func Open(path string) *Converter {
	c := newConverter()
	c.path = path
	return c
}

// FromReader returns a Converter reading size bytes from r. The caller
// keeps ownership of r.
func FromReader(r io.ReaderAt, size int64) *Converter {
	c := newConverter()
	c.src = r
	c.size = size
	return c
}

// FromBytes returns a Converter over a document held in memory. data must
// not be modified while the Converter is in use.
func FromBytes(data []byte) *Converter {
	if data == nil {
		data = []byte{}
	}
	c := newConverter()
	c.data = data
	return c
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := pdfconv.Must(pdfconv.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustDocument wraps a call to Document and panics if the error is
// non-nil. Warnings are discarded.
//
// Example:
//
//	doc := pdfconv.MustDocument(pdfconv.Open("document.pdf").Document(ctx))
func MustDocument(doc *model.Document, _ []Warning, err error) *model.Document {
	if err != nil {
		panic(err)
	}
	return doc
}
