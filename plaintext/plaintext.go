// Package plaintext flattens a document to UTF-8 text: one line per text
// element, a placeholder line per image and a separator after each page.
package plaintext

import (
	"bufio"
	"io"

	"github.com/tsawler/pdfconv/model"
)

const (
	// ImagePlaceholder stands in for an image element.
	ImagePlaceholder = "[image]"
	// PageSeparator follows every page.
	PageSeparator = "\n-----\n"
)

// Write writes the text of doc to w.
func Write(w io.Writer, doc *model.Document) error {
	bw := bufio.NewWriter(w)
	for _, page := range doc.Pages {
		for _, e := range page.Elements {
			switch e.Kind {
			case model.KindText:
				bw.WriteString(e.Content)
			case model.KindImage:
				bw.WriteString(ImagePlaceholder)
			default:
				continue
			}
			bw.WriteByte('\n')
		}
		bw.WriteString(PageSeparator)
	}
	return bw.Flush()
}
