package pdfconv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tsawler/pdfconv/docx"
	"github.com/tsawler/pdfconv/extract"
	"github.com/tsawler/pdfconv/format"
	"github.com/tsawler/pdfconv/htmldoc"
	"github.com/tsawler/pdfconv/model"
	"github.com/tsawler/pdfconv/msdoc"
	"github.com/tsawler/pdfconv/ocr"
	"github.com/tsawler/pdfconv/plaintext"
	"github.com/tsawler/pdfconv/pptx"
	"github.com/tsawler/pdfconv/reader"
	"github.com/tsawler/pdfconv/rtf"
)

// Converter provides a fluent interface for converting one PDF document.
// Each configuration method returns a new Converter, so a configured
// Converter can be shared and specialised without affecting other users.
// A Converter is safe for concurrent use.
type Converter struct {
	// Source: exactly one of path, src and data is set.
	path string
	src  io.ReaderAt
	size int64
	data []byte

	// doc is shared with every clone. Only the Converter created by Open,
	// FromReader or FromBytes owns it and may close it.
	doc        *sharedReader
	ownsReader bool

	options convertOptions
}

// sharedReader is the lazily opened source. Requests hold the read lock
// for as long as they use r; opening and closing take the write lock.
type sharedReader struct {
	mu sync.RWMutex
	r  *reader.Reader
}

func newConverter() *Converter {
	return &Converter{
		doc:        &sharedReader{},
		ownsReader: true,
		options:    defaultOptions(),
	}
}

// clone creates a shallow copy of the Converter with a deep copy of
// options. The copy shares the source but does not own it.
func (c *Converter) clone() *Converter {
	return &Converter{
		path:    c.path,
		src:     c.src,
		size:    c.size,
		data:    c.data,
		doc:     c.doc,
		options: c.options.clone(),
	}
}

// acquire returns the open reader, opening it on first use. The caller
// must call release when done with the reader.
func (c *Converter) acquire() (r *reader.Reader, release func(), err error) {
	d := c.doc
	for {
		d.mu.RLock()
		if d.r != nil {
			return d.r, d.mu.RUnlock, nil
		}
		d.mu.RUnlock()

		d.mu.Lock()
		if d.r == nil {
			if d.r, err = c.open(); err != nil {
				d.mu.Unlock()
				return nil, nil, err
			}
		}
		d.mu.Unlock()
	}
}

func (c *Converter) open() (*reader.Reader, error) {
	var r *reader.Reader
	var err error
	switch {
	case c.data != nil:
		r, err = reader.FromBytes(c.data)
	case c.src != nil:
		r, err = reader.New(c.src, c.size)
	case c.path != "":
		r, err = reader.Open(c.path)
	default:
		return nil, fmt.Errorf("%w: no source specified", ErrSourceUnreadable)
	}
	if err != nil {
		return nil, openError(err)
	}
	return r, nil
}

// Close releases the source document. It waits for conversions in
// progress, and a later conversion opens the source again. Close on a
// Converter returned by a configuration method does nothing. It is safe
// to call Close multiple times.
func (c *Converter) Close() error {
	if !c.ownsReader {
		return nil
	}
	d := c.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.r == nil {
		return nil
	}
	err := d.r.Close()
	d.r = nil
	return err
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Pages selects pages to convert (1-indexed). Multiple calls are
// cumulative.
//
// Example:
//
//	res, err := pdfconv.Open("doc.pdf").Pages(1, 3, 5).Convert(ctx, format.Text, w)
func (c *Converter) Pages(pages ...int) *Converter {
	newConv := c.clone()
	newConv.options.pages = append(newConv.options.pages, pages...)
	return newConv
}

// PageRange selects a range of pages (1-indexed, inclusive).
//
// Example:
//
//	res, err := pdfconv.Open("doc.pdf").PageRange(5, 10).Convert(ctx, format.HTML, w)
func (c *Converter) PageRange(start, end int) *Converter {
	newConv := c.clone()
	for i := start; i <= end; i++ {
		newConv.options.pages = append(newConv.options.pages, i)
	}
	return newConv
}

// Logger sets the logger for extraction and synthesis events. A nil
// logger restores the default, which discards everything.
func (c *Converter) Logger(l *slog.Logger) *Converter {
	newConv := c.clone()
	if l == nil {
		l = discardLogger
	}
	newConv.options.logger = l
	return newConv
}

// OCR enables text recognition of pages that show images but no text.
// Recognition needs a binary built with the ocr tag; without it a warning
// is reported and conversion continues.
//
// Example:
//
//	doc, _, err := pdfconv.Open("scan.pdf").OCR("eng+deu").Document(ctx)
func (c *Converter) OCR(language string) *Converter {
	newConv := c.clone()
	newConv.options.ocr = true
	newConv.options.ocrLanguage = language
	return newConv
}

// Layout sets the synthetic text position: every line is placed at x =
// left, the first at y = top, each following one advance lower.
func (c *Converter) Layout(left, top, advance float64) *Converter {
	newConv := c.clone()
	newConv.options.layout = extract.Layout{Left: left, Top: top, Advance: advance}
	return newConv
}

// Title sets the title written to targets that carry one. By default the
// document's own title is used, then the source file name.
func (c *Converter) Title(title string) *Converter {
	newConv := c.clone()
	newConv.options.title = title
	return newConv
}

// ============================================================================
// Terminal Methods
// ============================================================================

// PageCount returns the number of pages in the source.
func (c *Converter) PageCount() (int, error) {
	r, release, err := c.acquire()
	if err != nil {
		return 0, err
	}
	defer release()
	n, err := r.PageCount()
	if err != nil {
		return 0, &ParseError{Err: err}
	}
	return n, nil
}

// Document extracts the selected pages. A page whose content cannot be
// parsed fails the whole document with a *ParseError.
func (c *Converter) Document(ctx context.Context) (*model.Document, []Warning, error) {
	r, release, err := c.acquire()
	if err != nil {
		return nil, nil, err
	}
	defer release()
	log := c.options.logger

	opts := extract.Options{Layout: c.options.layout, Pages: c.options.pages}
	var warnings []Warning
	if c.options.ocr {
		client, err := ocr.New(c.ocrLanguages()...)
		if err != nil {
			log.Warn("OCR unavailable", "error", err)
			warnings = append(warnings, Warning{Message: fmt.Sprintf("OCR unavailable: %v", err)})
		} else {
			defer client.Close()
			opts.OCR = client
		}
	}

	log.Debug("extracting", "source", c.sourceName(), "pages", len(c.options.pages))
	doc, ws, err := extract.Document(ctx, r, opts)
	warnings = append(warnings, ws...)
	if err != nil {
		err = extractError(err)
		log.Error("extraction failed", "source", c.sourceName(), "error", err)
		return nil, warnings, err
	}
	for _, w := range warnings {
		log.Warn("extraction warning", "page", w.Page, "message", w.Message)
	}
	log.Info("extracted",
		"source", c.sourceName(),
		"pages", doc.PageCount(),
		"elements", doc.ElementCount(),
		"images", doc.ImageCount())
	return doc, warnings, nil
}

// Convert extracts the document once and writes it to w as target. The
// output is produced in memory and written with a single call, so a
// failed conversion writes nothing. Image failures do not fail the
// conversion; they are listed in Result.Skipped.
//
// The returned Result is never nil and records the failure when err is
// non-nil.
func (c *Converter) Convert(ctx context.Context, target format.Target, w io.Writer) (*Result, error) {
	res := newResult(c.sourceName(), target)
	log := c.options.logger
	if !target.Valid() {
		return res.fail(fmt.Errorf("%w: %v", ErrInvalidTarget, target))
	}

	doc, warnings, err := c.Document(ctx)
	res.Warnings = warnings
	if err != nil {
		return res.fail(err)
	}
	res.observe(doc)

	var buf bytes.Buffer
	skipped, err := c.synthesize(target, doc, &buf)
	res.Skipped = skipped
	for _, s := range skipped {
		log.Warn("image skipped", "target", target, "page", s.Page, "index", s.Index, "reason", s.Reason)
	}
	if err != nil {
		err = fmt.Errorf("writing %s: %w", target, err)
		log.Error("synthesis failed", "target", target, "error", err)
		return res.fail(err)
	}

	n, err := w.Write(buf.Bytes())
	if err == nil && n < buf.Len() {
		err = io.ErrShortWrite
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSinkWrite, err)
		log.Error("write failed", "target", target, "error", err)
		return res.fail(err)
	}
	log.Info("converted", "source", res.Source, "target", target, "bytes", n, "skipped", len(skipped))
	return res.succeed(int64(n)), nil
}

// ConvertFile converts the document into dstDir, naming the output after
// the source file with the target's extension. The output is written to
// a temporary file and renamed into place, so a failed conversion leaves
// no file behind.
func (c *Converter) ConvertFile(ctx context.Context, target format.Target, dstDir string) (*Result, error) {
	if !target.Valid() {
		return newResult(c.sourceName(), target).fail(fmt.Errorf("%w: %v", ErrInvalidTarget, target))
	}
	dst := filepath.Join(dstDir, OutputName(c.sourceName(), target))

	tmp, err := os.CreateTemp(dstDir, ".pdfconv-*"+target.Extension())
	if err != nil {
		return newResult(c.sourceName(), target).fail(fmt.Errorf("%w: %w", ErrSinkWrite, err))
	}
	defer os.Remove(tmp.Name())

	res, err := c.Convert(ctx, target, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		return res.fail(fmt.Errorf("%w: %w", ErrSinkWrite, cerr))
	}
	if err != nil {
		return res, err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return res.fail(fmt.Errorf("%w: %w", ErrSinkWrite, err))
	}
	res.Output = dst
	return res, nil
}

// ConvertFile converts the PDF at src into dstDir. See
// Converter.ConvertFile.
func ConvertFile(ctx context.Context, src string, target format.Target, dstDir string) (*Result, error) {
	c := Open(src)
	defer c.Close()
	return c.ConvertFile(ctx, target, dstDir)
}

// OutputName returns the file name a source converts to: its base name
// with the extension replaced by the target's.
func OutputName(src string, target format.Target) string {
	base := filepath.Base(src)
	return strings.TrimSuffix(base, filepath.Ext(base)) + target.Extension()
}

// ============================================================================
// Internal helpers
// ============================================================================

// synthesize writes doc to w as target.
func (c *Converter) synthesize(target format.Target, doc *model.Document, w io.Writer) ([]model.SkippedAsset, error) {
	title := c.title(doc)
	switch target {
	case format.Text:
		return nil, plaintext.Write(w, doc)
	case format.RichDoc:
		return docx.Write(w, doc, docx.Options{Title: title})
	case format.Presentation:
		return nil, pptx.Write(w, doc, pptx.Options{Title: title})
	case format.Markup:
		return nil, rtf.Write(w, doc)
	case format.LegacyText:
		return nil, msdoc.Write(w, doc)
	case format.HTML:
		return htmldoc.Write(w, doc, htmldoc.Options{Title: title})
	}
	return nil, fmt.Errorf("%w: %v", ErrInvalidTarget, target)
}

// title picks the explicit title, then the document's, then the source
// file name.
func (c *Converter) title(doc *model.Document) string {
	if c.options.title != "" {
		return c.options.title
	}
	if doc.Metadata.Title != "" {
		return doc.Metadata.Title
	}
	if c.path != "" {
		base := filepath.Base(c.path)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return ""
}

// sourceName identifies the source in logs and results.
func (c *Converter) sourceName() string {
	if c.path != "" {
		return c.path
	}
	return "document.pdf"
}

func (c *Converter) ocrLanguages() []string {
	lang := c.options.ocrLanguage
	if lang == "" {
		return nil
	}
	return strings.Split(lang, "+")
}
