package model

import "time"

// Document is the ordered list of pages extracted from one source.
type Document struct {
	Metadata Metadata
	Pages    []*Page
}

// Metadata holds the source's document information dictionary.
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate time.Time
	ModDate      time.Time
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// AddPage appends a page. A page without a number gets the next index.
func (d *Document) AddPage(page *Page) {
	if page.Number <= 0 {
		page.Number = len(d.Pages) + 1
	}
	d.Pages = append(d.Pages, page)
}

// Page returns the page with the given source number, or nil.
func (d *Document) Page(number int) *Page {
	for _, p := range d.Pages {
		if p.Number == number {
			return p
		}
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// ElementCount returns the total number of elements.
func (d *Document) ElementCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Elements)
	}
	return n
}

// ImageCount returns the total number of image elements.
func (d *Document) ImageCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Images())
	}
	return n
}
