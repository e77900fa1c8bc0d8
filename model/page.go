package model

import "strings"

// Page is one source page. Number is 1-based and matches the source PDF.
type Page struct {
	Number   int
	Elements []Element
}

// NewPage returns an empty page.
func NewPage(number int) *Page {
	return &Page{Number: number}
}

// Add appends elements and re-establishes reading order.
func (p *Page) Add(elems ...Element) {
	p.Elements = append(p.Elements, elems...)
	SortElements(p.Elements)
}

// Texts returns the contents of the text elements in order.
func (p *Page) Texts() []string {
	var out []string
	for _, e := range p.Elements {
		if e.IsText() {
			out = append(out, e.Content)
		}
	}
	return out
}

// Text returns the text elements joined with newlines.
func (p *Page) Text() string {
	return strings.Join(p.Texts(), "\n")
}

// Images returns the image elements in order.
func (p *Page) Images() []Element {
	var out []Element
	for _, e := range p.Elements {
		if e.IsImage() {
			out = append(out, e)
		}
	}
	return out
}

// IsOrdered reports whether the page satisfies the ordering invariant.
func (p *Page) IsOrdered() bool {
	return IsOrdered(p.Elements)
}
