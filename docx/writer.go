// Package docx writes DOCX (Office Open XML word-processing) documents.
//
// Each text element becomes one paragraph. The element's x position sets
// the paragraph's left indent, a vertical gap wider than 1.2 times the
// previous element's font size adds space before the paragraph, and a
// page break separates source pages. Images are embedded inline at their
// extracted size; an image that cannot be embedded is skipped and
// reported.
package docx

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/tsawler/pdfconv/internal/opc"
	"github.com/tsawler/pdfconv/model"
)

// Unit conversions from PDF points.
const (
	TwipsPerPoint = 20
	EMUPerPoint   = 12700
)

// GapFactor is the multiple of the previous font size a vertical gap must
// exceed before extra paragraph spacing is added.
const GapFactor = 1.2

// DefaultFont is used for runs whose element has no font family.
const DefaultFont = "Arial"

// A4 portrait, in twips.
const (
	pageWidth  = 11906
	pageHeight = 16838
)

// Options controls document properties.
type Options struct {
	// Title overrides the document metadata title.
	Title string
}

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"

	typeDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	typeStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
)

// Write encodes doc as a DOCX package. Images that cannot be embedded
// are returned as skipped assets; the error is only set when the
// package itself cannot be written.
func Write(w io.Writer, doc *model.Document, opts Options) ([]model.SkippedAsset, error) {
	b := &builder{rels: opc.NewRelationships()}
	b.rels.Add(opc.RelStyles, "styles.xml")
	for i, page := range doc.Pages {
		if i > 0 {
			b.pageBreak()
		}
		b.page(page)
	}

	pkg := opc.NewPackage(w)
	pkg.Override(documentPart, typeDocument)
	pkg.Override(stylesPart, typeStyles)
	for _, m := range b.media {
		pkg.Default(m.pic.extension(), m.pic.contentType())
	}

	root := opc.NewRelationships()
	root.Add(opc.RelOfficeDocument, documentPart)
	root.Add(opc.RelCoreProperties, "docProps/core.xml")

	title := opts.Title
	if title == "" {
		title = doc.Metadata.Title
	}
	parts := []struct {
		name string
		v    any
	}{
		{opc.RelsName(""), root},
		{documentPart, b.document()},
		{opc.RelsName(documentPart), b.rels},
		{stylesPart, defaultStyles()},
	}
	for _, p := range parts {
		if err := pkg.WriteXML(p.name, p.v); err != nil {
			return b.skipped, err
		}
	}
	for _, m := range b.media {
		if err := pkg.WriteFile("word/"+m.name, m.pic.data); err != nil {
			return b.skipped, err
		}
	}
	err := pkg.WriteCoreProperties(opc.CoreProperties{
		Title:    title,
		Subject:  doc.Metadata.Subject,
		Creator:  doc.Metadata.Author,
		Keywords: doc.Metadata.Keywords,
		Created:  doc.Metadata.CreationDate,
		Modified: doc.Metadata.ModDate,
	})
	if err != nil {
		return b.skipped, err
	}
	return b.skipped, pkg.Close()
}

type media struct {
	name string // relative to word/
	pic  *picture
}

type builder struct {
	paragraphs []paragraphXML
	rels       *opc.Relationships
	media      []media
	skipped    []model.SkippedAsset
}

func (b *builder) page(page *model.Page) {
	var prev *model.Element
	for i := range page.Elements {
		e := &page.Elements[i]
		var spacing *spacingXML
		if prev != nil {
			if gap := prev.Y - e.Y; gap > GapFactor*prev.Size() {
				spacing = &spacingXML{Before: twips(gap)}
			}
		}
		switch e.Kind {
		case model.KindText:
			b.text(e, spacing)
		case model.KindImage:
			if err := b.image(e, spacing); err != nil {
				b.skipped = append(b.skipped, model.SkippedAsset{Page: page.Number, Index: i, Reason: err.Error()})
				continue
			}
		}
		prev = e
	}
}

func (b *builder) text(e *model.Element, spacing *spacingXML) {
	props := &paragraphPropsXML{Spacing: spacing}
	if e.X > 0 {
		props.Indent = &indentXML{Left: twips(e.X)}
	}
	b.paragraphs = append(b.paragraphs, paragraphXML{
		Properties: props,
		Runs: []runXML{{
			Properties: runProps(e),
			Text:       &textXML{Space: "preserve", Value: e.Content},
		}},
	})
}

func runProps(e *model.Element) *runPropsXML {
	family := e.FontFamily
	if family == "" {
		family = DefaultFont
	}
	size := strconv.Itoa(int(math.Round(e.Size() * 2)))
	rp := &runPropsXML{
		Font:       &fontXML{ASCII: family, HAnsi: family, CS: family},
		FontSize:   &valXML{Val: size},
		FontSizeCS: &valXML{Val: size},
	}
	if e.Bold {
		rp.Bold = &onXML{}
	}
	if e.Italic {
		rp.Italic = &onXML{}
	}
	if e.CharSpacing != 0 {
		rp.Spacing = &valXML{Val: twips(e.CharSpacing)}
	}
	return rp
}

func (b *builder) image(e *model.Element, spacing *spacingXML) error {
	pic, err := preparePicture(e.ImageData)
	if err != nil {
		return err
	}
	w, h := e.Extent()
	if w <= 0 || h <= 0 {
		// No usable extent: assume 72 dpi.
		w, h = float64(pic.width), float64(pic.height)
	}
	if w <= 0 || h <= 0 {
		return errNoImageSize
	}

	n := len(b.media) + 1
	name := fmt.Sprintf("media/image%d.%s", n, pic.extension())
	b.media = append(b.media, media{name: name, pic: pic})
	rid := b.rels.Add(opc.RelImage, name)

	ext := extentXML{CX: emu(w), CY: emu(h)}
	pr := docPrXML{ID: n, Name: fmt.Sprintf("Picture %d", n)}
	drawing := &drawingXML{Inline: inlineXML{
		DistT:   "0",
		DistB:   "0",
		DistL:   "0",
		DistR:   "0",
		Extent:  ext,
		DocPr:   pr,
		FramePr: graphicFramePrXML{Locks: frameLocksXML{NoChangeAspect: "1"}},
		Graphic: graphicXML{Data: graphicDataXML{
			URI: nsPic,
			Pic: picXML{
				NvPicPr:  nvPicPrXML{CNvPr: docPrXML{ID: n, Name: name}},
				BlipFill: blipFillXML{Blip: blipXML{Embed: rid}},
				SpPr: picSpPrXML{
					Xfrm: xfrmXML{Ext: ext},
					Geom: prstGeomXML{Prst: "rect"},
				},
			},
		}},
	}}

	props := &paragraphPropsXML{Spacing: spacing}
	if e.X > 0 {
		props.Indent = &indentXML{Left: twips(e.X)}
	}
	b.paragraphs = append(b.paragraphs, paragraphXML{
		Properties: props,
		Runs:       []runXML{{Drawing: drawing}},
	})
	return nil
}

func (b *builder) pageBreak() {
	b.paragraphs = append(b.paragraphs, paragraphXML{
		Runs: []runXML{{Break: &breakXML{Type: "page"}}},
	})
}

// document wraps the paragraphs in the body. The left page margin is
// zero so a paragraph's indent equals its distance from the page edge.
func (b *builder) document() documentXML {
	return documentXML{
		XmlnsW:   nsW,
		XmlnsR:   nsR,
		XmlnsWP:  nsWP,
		XmlnsA:   nsA,
		XmlnsPic: nsPic,
		Body: bodyXML{
			Paragraphs: b.paragraphs,
			SectPr: sectPrXML{
				PageSize: pageSizeXML{W: strconv.Itoa(pageWidth), H: strconv.Itoa(pageHeight)},
				PageMargin: pageMarginXML{
					Top: "720", Right: "720", Bottom: "720", Left: "0",
					Header: "360", Footer: "360", Gutter: "0",
				},
			},
		},
	}
}

func defaultStyles() stylesXML {
	size := strconv.Itoa(int(model.DefaultFontSize * 2))
	return stylesXML{
		XmlnsW: nsW,
		DocDefaults: docDefaultsXML{
			RPr: runPropsXML{
				Font:       &fontXML{ASCII: DefaultFont, HAnsi: DefaultFont, CS: DefaultFont},
				FontSize:   &valXML{Val: size},
				FontSizeCS: &valXML{Val: size},
			},
			PPr: paragraphPropsXML{Spacing: &spacingXML{After: "0", Line: "240"}},
		},
	}
}

func twips(pt float64) string {
	return strconv.Itoa(int(math.Round(pt * TwipsPerPoint)))
}

func emu(pt float64) int64 {
	return int64(math.Round(pt * EMUPerPoint))
}
