package extract

import (
	"context"
	"fmt"

	"github.com/tsawler/pdfconv/pages"
	"github.com/tsawler/pdfconv/reader"
)

// Warning is a non-fatal problem found on a page.
type Warning struct {
	Page    int    `json:"page" yaml:"page"`
	Message string `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("page %d: %s", w.Page, w.Message)
}

// PageError reports a page whose content could not be read.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// Walker emits the events of a page.
type Walker struct {
	r      *reader.Reader
	layout Layout
}

// NewWalker returns a walker over r's pages.
func NewWalker(r *reader.Reader, layout Layout) *Walker {
	return &Walker{r: r, layout: layout.orDefault()}
}

// Walk interprets page and returns its text events followed by its image
// events. A content stream that cannot be parsed is a *PageError.
func (w *Walker) Walk(ctx context.Context, page *pages.Page) ([]Event, []Warning, error) {
	events, _, warnings, err := w.walk(ctx, page)
	return events, warnings, err
}

func (w *Walker) walk(ctx context.Context, page *pages.Page) ([]Event, *reader.PageContent, []Warning, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	content, err := w.r.Interpret(page)
	if err != nil {
		return nil, nil, nil, &PageError{Page: page.Number, Err: err}
	}
	warnings := make([]Warning, 0, len(content.Warnings))
	for _, msg := range content.Warnings {
		warnings = append(warnings, Warning{Page: page.Number, Message: msg})
	}
	events := TextEvents(content.Lines, w.layout)
	events = append(events, ImageEvents(content.Images)...)
	return events, content, warnings, nil
}
