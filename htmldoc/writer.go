// Package htmldoc writes documents as a single HTML5 page.
//
// Each source page is a block of paragraphs and images in reading order,
// followed by a horizontal rule. Images are embedded as base64 data URIs
// with their extracted width and height.
package htmldoc

import (
	"encoding/base64"
	"errors"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/pdfconv/format"
	"github.com/tsawler/pdfconv/model"
)

// DefaultTitle is used when neither the options nor the metadata name
// the document.
const DefaultTitle = "Converted document"

const stylesheet = `
body { font-family: Helvetica, Arial, sans-serif; margin: 2em; }
.page p { margin: 0.2em 0; }
`

var (
	errEmptyImage = errors.New("empty image data")
	errUnknown    = errors.New("unrecognized image format")
)

// Options controls the page head.
type Options struct {
	// Title is written to <title>. It defaults to the metadata title.
	Title string
}

// Write renders doc as HTML. Images that cannot be embedded are returned
// as skipped assets.
func Write(w io.Writer, doc *model.Document, opts Options) ([]model.SkippedAsset, error) {
	root, skipped := Render(doc, opts)
	if _, err := io.WriteString(w, "<!DOCTYPE html>\n"); err != nil {
		return skipped, err
	}
	if err := html.Render(w, root); err != nil {
		return skipped, err
	}
	_, err := io.WriteString(w, "\n")
	return skipped, err
}

// Render builds the <html> node for doc.
func Render(doc *model.Document, opts Options) (*html.Node, []model.SkippedAsset) {
	title := opts.Title
	if title == "" {
		title = doc.Metadata.Title
	}
	if title == "" {
		title = DefaultTitle
	}

	head := element(atom.Head,
		element(atom.Meta, attr("charset", "utf-8")),
		element(atom.Title, textNode(title)),
		element(atom.Style, textNode(stylesheet)),
	)
	if doc.Metadata.Author != "" {
		head.AppendChild(element(atom.Meta, attr("name", "author"), attr("content", doc.Metadata.Author)))
	}

	body := element(atom.Body)
	var skipped []model.SkippedAsset
	for _, page := range doc.Pages {
		block := element(atom.Div,
			attr("class", "page"),
			attr("data-page", strconv.Itoa(page.Number)),
		)
		for i, e := range model.Sorted(page.Elements) {
			switch e.Kind {
			case model.KindText:
				block.AppendChild(element(atom.P, textNode(e.Content)))
			case model.KindImage:
				img, err := imageNode(e)
				if err != nil {
					skipped = append(skipped, model.SkippedAsset{Page: page.Number, Index: i, Reason: err.Error()})
					continue
				}
				block.AppendChild(img)
			}
		}
		body.AppendChild(block)
		body.AppendChild(element(atom.Hr))
	}

	root := element(atom.Html, attr("lang", "en"))
	root.AppendChild(head)
	root.AppendChild(body)
	return root, skipped
}

func imageNode(e model.Element) (*html.Node, error) {
	if len(e.ImageData) == 0 {
		return nil, errEmptyImage
	}
	kind := format.DetectImage(e.ImageData)
	if kind == format.ImageUnknown {
		return nil, errUnknown
	}
	src := "data:" + kind.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(e.ImageData)
	n := element(atom.Img, attr("src", src), attr("alt", ""))
	if e.Width != nil {
		n.Attr = append(n.Attr, attr("width", formatLength(*e.Width)))
	}
	if e.Height != nil {
		n.Attr = append(n.Attr, attr("height", formatLength(*e.Height)))
	}
	return n, nil
}

func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// element returns a new element node. Each child is either a *html.Node,
// appended as a child, or an html.Attribute, added to the element.
func element(a atom.Atom, children ...any) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		switch v := c.(type) {
		case *html.Node:
			n.AppendChild(v)
		case html.Attribute:
			n.Attr = append(n.Attr, v)
		}
	}
	return n
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
