package extract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tsawler/pdfconv/model"
	"github.com/tsawler/pdfconv/pages"
	"github.com/tsawler/pdfconv/reader"
)

// ErrPageOutOfRange is returned when a selected page does not exist.
var ErrPageOutOfRange = errors.New("page out of range")

// Recognizer reads text from an encoded image. ocr.Client implements it.
type Recognizer interface {
	Recognize(image []byte) (string, error)
}

// Options control Document.
type Options struct {
	Layout Layout
	// Pages selects 1-based page numbers. Empty selects every page.
	Pages []int
	// OCR, when set, reads the images of pages that show no text.
	OCR Recognizer
}

// Document extracts the selected pages of r. It stops at the first page
// whose content cannot be read, returning no document. ctx is checked
// between pages.
func Document(ctx context.Context, r *reader.Reader, opts Options) (*model.Document, []Warning, error) {
	all, err := r.Pages()
	if err != nil {
		return nil, nil, fmt.Errorf("reading page tree: %w", err)
	}
	selected, err := selectPages(all, opts.Pages)
	if err != nil {
		return nil, nil, err
	}

	doc := model.NewDocument()
	doc.Metadata = r.Info()
	w := NewWalker(r, opts.Layout)

	var warnings []Warning
	for _, page := range selected {
		events, content, ws, err := w.walk(ctx, page)
		if err != nil {
			return nil, warnings, err
		}
		warnings = append(warnings, ws...)

		if opts.OCR != nil && !hasText(events) && len(content.Images) > 0 {
			ocrEvents, ws := recognize(opts.OCR, page.Number, content.Images, w.layout)
			warnings = append(warnings, ws...)
			events = append(ocrEvents, events...)
		}
		doc.AddPage(Build(page.Number, events))
	}
	return doc, warnings, nil
}

func selectPages(all []*pages.Page, numbers []int) ([]*pages.Page, error) {
	if len(numbers) == 0 {
		return all, nil
	}
	seen := make(map[int]bool, len(numbers))
	var picked []int
	for _, n := range numbers {
		if n < 1 || n > len(all) {
			return nil, fmt.Errorf("%w: %d not in 1-%d", ErrPageOutOfRange, n, len(all))
		}
		if !seen[n] {
			seen[n] = true
			picked = append(picked, n)
		}
	}
	sort.Ints(picked)
	out := make([]*pages.Page, len(picked))
	for i, n := range picked {
		out[i] = all[n-1]
	}
	return out, nil
}

func hasText(events []Event) bool {
	for _, ev := range events {
		if ev.Kind == TextShown {
			return true
		}
	}
	return false
}

func recognize(rec Recognizer, page int, images []reader.Image, layout Layout) ([]Event, []Warning) {
	var texts []string
	var warnings []Warning
	for _, img := range images {
		s, err := rec.Recognize(img.Data)
		if err != nil {
			warnings = append(warnings, Warning{Page: page, Message: fmt.Sprintf("OCR of image /%s: %v", img.Name, err)})
			continue
		}
		if s != "" {
			texts = append(texts, s)
		}
	}
	return PlainTextEvents(strings.Join(texts, "\n"), layout), warnings
}
