// Package pptx writes PPTX (Office Open XML presentation) documents.
//
// Every source page becomes one slide holding a single text box. The
// page's text elements are joined with newlines in reading order and each
// line is a paragraph of the box. Slides carry no pictures and no source
// styling.
package pptx

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdfconv/internal/opc"
	"github.com/tsawler/pdfconv/model"
)

// Slide geometry in EMUs: 4:3 at 720x540 points.
const (
	SlideWidth  = 9144000
	SlideHeight = 6858000

	boxMargin = 457200 // half an inch
)

// MaxSlideChars caps the text placed on one slide.
const MaxSlideChars = 2000

// Options controls document properties.
type Options struct {
	// Title overrides the document metadata title.
	Title string
}

const (
	presentationPart = "ppt/presentation.xml"
	masterPart       = "ppt/slideMasters/slideMaster1.xml"
	layoutPart       = "ppt/slideLayouts/slideLayout1.xml"
	themePart        = "ppt/theme/theme1.xml"

	typePresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	typeSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	typeLayout       = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	typeMaster       = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	typeTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"

	firstSlideID  = 256
	firstMasterID = 2147483648
)

// SlideText returns the text placed on the slide for page: the text
// elements joined with newlines, truncated to MaxSlideChars characters.
func SlideText(page *model.Page) string {
	s := strings.Join(page.Texts(), "\n")
	if utf8.RuneCountInString(s) <= MaxSlideChars {
		return s
	}
	r := []rune(s)
	return string(r[:MaxSlideChars])
}

// Write encodes doc as a PPTX package with one slide per page.
func Write(w io.Writer, doc *model.Document, opts Options) error {
	pkg := opc.NewPackage(w)
	pkg.Override(presentationPart, typePresentation)
	pkg.Override(masterPart, typeMaster)
	pkg.Override(layoutPart, typeLayout)
	pkg.Override(themePart, typeTheme)

	root := opc.NewRelationships()
	root.Add(opc.RelOfficeDocument, presentationPart)
	root.Add(opc.RelCoreProperties, "docProps/core.xml")
	if err := pkg.WriteXML(opc.RelsName(""), root); err != nil {
		return err
	}

	presRels := opc.NewRelationships()
	masterID := presRels.Add(opc.RelSlideMaster, "slideMasters/slideMaster1.xml")
	presRels.Add(opc.RelTheme, "theme/theme1.xml")

	pres := presentationXML{
		namespaces:   rootNamespaces(),
		MasterIDList: masterIDListXML{IDs: []idXML{{ID: firstMasterID, RID: masterID}}},
		SlideSz:      slideSzXML{Cx: SlideWidth, Cy: SlideHeight},
		NotesSz:      slideSzXML{Cx: SlideHeight, Cy: SlideWidth},
	}
	if len(doc.Pages) > 0 {
		pres.SlideIDList = &slideIDListXML{}
	}

	layoutRels := opc.NewRelationships()
	layoutRels.Add(opc.RelSlideLayout, "../slideLayouts/slideLayout1.xml")

	for i, page := range doc.Pages {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		pkg.Override(name, typeSlide)
		if err := pkg.WriteXML(name, slide(SlideText(page))); err != nil {
			return err
		}
		if err := pkg.WriteXML(opc.RelsName(name), layoutRels); err != nil {
			return err
		}
		rid := presRels.Add(opc.RelSlide, fmt.Sprintf("slides/slide%d.xml", i+1))
		pres.SlideIDList.IDs = append(pres.SlideIDList.IDs, idXML{ID: firstSlideID + i, RID: rid})
	}

	if err := pkg.WriteXML(presentationPart, pres); err != nil {
		return err
	}
	if err := pkg.WriteXML(opc.RelsName(presentationPart), presRels); err != nil {
		return err
	}
	if err := writeMaster(pkg); err != nil {
		return err
	}

	title := opts.Title
	if title == "" {
		title = doc.Metadata.Title
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
		return err
	}
	return pkg.Close()
}

// slide builds a slide with one text box. Each line of text is a
// paragraph; an empty text still gets one empty paragraph.
func slide(text string) slideXML {
	var paras []pXML
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			paras = append(paras, pXML{EndParaRPr: &rPrXML{Lang: "en-US"}})
			continue
		}
		paras = append(paras, pXML{R: []rXML{{RPr: rPrXML{Lang: "en-US"}, T: line}}})
	}

	box := spXML{
		NvSpPr: nvSpPrXML{
			CNvPr:   cNvPrXML{ID: 2, Name: "TextBox 1"},
			CNvSpPr: cNvSpPrXML{TxBox: "1"},
		},
		SpPr: spPrXML{
			Xfrm: xfrmXML{
				Off: offXML{X: boxMargin, Y: boxMargin},
				Ext: extXML{Cx: SlideWidth - 2*boxMargin, Cy: SlideHeight - 2*boxMargin},
			},
			PrstGeom: prstGeomXML{Prst: "rect"},
		},
		TxBody: txBodyXML{
			BodyPr: bodyPrXML{Wrap: "square", Anchor: "t"},
			P:      paras,
		},
	}
	return slideXML{
		namespaces: rootNamespaces(),
		CSld:       cSldXML{SpTree: emptyTree(box)},
	}
}

func emptyTree(shapes ...spXML) spTreeXML {
	return spTreeXML{
		NvGrpSpPr: nvGrpSpPrXML{CNvPr: cNvPrXML{ID: 1, Name: ""}},
		Sp:        shapes,
	}
}

func writeMaster(pkg *opc.Package) error {
	masterRels := opc.NewRelationships()
	layoutID := masterRels.Add(opc.RelSlideLayout, "../slideLayouts/slideLayout1.xml")
	masterRels.Add(opc.RelTheme, "../theme/theme1.xml")

	master := slideMasterXML{
		namespaces: rootNamespaces(),
		CSld:       cSldXML{SpTree: emptyTree()},
		ClrMap: clrMapXML{
			Bg1: "lt1", Tx1: "dk1", Bg2: "lt2", Tx2: "dk2",
			Accent1: "accent1", Accent2: "accent2", Accent3: "accent3",
			Accent4: "accent4", Accent5: "accent5", Accent6: "accent6",
			Hlink: "hlink", FolHlink: "folHlink",
		},
		LayoutList: layoutIDListXML{IDs: []idXML{{ID: firstMasterID + 1, RID: layoutID}}},
	}
	layout := slideLayoutXML{
		namespaces: rootNamespaces(),
		Type:       "blank",
		Preserve:   "1",
		CSld:       cSldXML{Name: "Blank", SpTree: emptyTree()},
	}
	toMaster := opc.NewRelationships()
	toMaster.Add(opc.RelSlideMaster, "../slideMasters/slideMaster1.xml")

	parts := []struct {
		name string
		v    any
	}{
		{masterPart, master},
		{opc.RelsName(masterPart), masterRels},
		{layoutPart, layout},
		{opc.RelsName(layoutPart), toMaster},
	}
	for _, p := range parts {
		if err := pkg.WriteXML(p.name, p.v); err != nil {
			return err
		}
	}
	return pkg.WriteFile(themePart, []byte(themeXML))
}
