// Package rtf writes documents as Rich Text Format.
//
// Text elements are written in order, each ended by \line, and \page
// separates source pages. Styling and images are not carried over.
// Characters in Windows-1252 are written as \'hh escapes and everything
// else as \uN? escapes.
package rtf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/tsawler/pdfconv/model"
)

const header = `{\rtf1\ansi\ansicpg1252\deff0{\fonttbl{\f0\fswiss Helvetica;}}`

// Write writes doc to w as RTF.
func Write(w io.Writer, doc *model.Document) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(header)
	bw.WriteByte('\n')
	if info := infoGroup(doc.Metadata); info != "" {
		bw.WriteString(info)
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, `\f0\fs%d`+"\n", int(model.DefaultFontSize*2))

	for i, page := range doc.Pages {
		if i > 0 {
			bw.WriteString(`\page` + "\n")
		}
		for _, e := range page.Elements {
			if !e.IsText() {
				continue
			}
			bw.WriteString(Escape(e.Content))
			bw.WriteString(`\line` + "\n")
		}
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

func infoGroup(m model.Metadata) string {
	var sb strings.Builder
	for _, f := range []struct{ word, val string }{
		{"title", m.Title},
		{"author", m.Author},
		{"subject", m.Subject},
		{"keywords", m.Keywords},
	} {
		if f.val != "" {
			fmt.Fprintf(&sb, `{\%s %s}`, f.word, Escape(f.val))
		}
	}
	if sb.Len() == 0 {
		return ""
	}
	return `{\info` + sb.String() + `}`
}

// Escape encodes s as RTF text. Control characters other than tab are
// dropped.
func Escape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '\\' || r == '{' || r == '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case r == '\t':
			sb.WriteString(`\tab `)
		case r < 0x20 || r == 0x7f:
		case r < 0x80:
			sb.WriteRune(r)
		default:
			if b, ok := charmap.Windows1252.EncodeRune(r); ok {
				fmt.Fprintf(&sb, `\'%02x`, b)
				continue
			}
			for _, unit := range utf16.Encode([]rune{r}) {
				// \u takes a signed 16-bit value; ? is the fallback for
				// readers without Unicode support.
				fmt.Fprintf(&sb, `\u%d?`, int16(unit))
			}
		}
	}
	return sb.String()
}
