// Package extract turns PDF pages into the positioned element model.
//
// A [Walker] interprets one page and emits [Event] values: a TextShown
// event per non-blank line of page text and an ImagePainted event per
// image with data. Text lines do not keep their glyph positions. They are
// stacked from the top of the page at a fixed advance, one step per line
// of the page text including blank ones, so their order is stable and
// matches the text read from the page.
//
// [Build] sorts a page's events into a model.Page, and [Document] runs
// both over every selected page of a reader.
package extract
