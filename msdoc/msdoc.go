// Package msdoc writes Word 97 binary (.doc) documents.
//
// The whole text of the document is stored as a single piece: one
// paragraph per text element, with an empty paragraph between source
// pages. Styling and images are not carried over. The file holds the
// minimum Word needs to open it: a FIB, the piece table, one character
// and one paragraph property run per paragraph, a stylesheet with the
// Normal style, a font table and default document properties.
package msdoc

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/pdfconv/model"
)

// Class id of a Word 97 document, {00020906-0000-0000-C000-000000000046}.
var wordCLSID = [16]byte{0x06, 0x09, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0xC0, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x46}

const paragraphMark = '\r'

// Write writes doc as a Word 97 document.
func Write(w io.Writer, doc *model.Document) error {
	text := Text(doc)
	data, compressed := encodeText(text)
	wordDoc, table := buildStreams(data, compressed)
	return writeCompoundFile(w, wordCLSID, []cfbStream{
		{name: "WordDocument", data: wordDoc},
		{name: "1Table", data: table},
	})
}

// Text returns the document text as stored: each text element is a
// paragraph ended by a carriage return and an empty paragraph separates
// pages. A document without text is a single empty paragraph.
func Text(doc *model.Document) string {
	var sb strings.Builder
	for i, page := range doc.Pages {
		if i > 0 {
			sb.WriteRune(paragraphMark)
		}
		for _, e := range page.Elements {
			if !e.IsText() {
				continue
			}
			sb.WriteString(clean(e.Content))
			sb.WriteRune(paragraphMark)
		}
	}
	if sb.Len() == 0 {
		return string(paragraphMark)
	}
	return sb.String()
}

// clean drops characters Word treats as structure (cell marks, field
// delimiters, breaks). Tabs are kept.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\t' || r >= 0x20 && r != 0x7f {
			return r
		}
		return -1
	}, s)
}

// encodeText stores text as Windows-1252 when every character fits,
// otherwise as UTF-16LE.
func encodeText(text string) (data []byte, compressed bool) {
	if b, err := charmap.Windows1252.NewEncoder().String(text); err == nil {
		return []byte(b), true
	}
	b, _ := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder().String(text)
	return []byte(b), false
}
