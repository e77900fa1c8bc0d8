package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// documentXML represents the structure of word/document.xml
type documentXML struct {
	XMLName  xml.Name `xml:"w:document"`
	XmlnsW   string   `xml:"xmlns:w,attr"`
	XmlnsR   string   `xml:"xmlns:r,attr"`
	XmlnsWP  string   `xml:"xmlns:wp,attr"`
	XmlnsA   string   `xml:"xmlns:a,attr"`
	XmlnsPic string   `xml:"xmlns:pic,attr"`
	Body     bodyXML  `xml:"w:body"`
}

// bodyXML represents the document body.
type bodyXML struct {
	Paragraphs []paragraphXML `xml:"w:p"`
	SectPr     sectPrXML      `xml:"w:sectPr"`
}

// paragraphXML represents a paragraph element (<w:p>).
type paragraphXML struct {
	Properties *paragraphPropsXML `xml:"w:pPr"`
	Runs       []runXML           `xml:"w:r"`
}

// paragraphPropsXML represents paragraph properties (<w:pPr>).
type paragraphPropsXML struct {
	Spacing *spacingXML `xml:"w:spacing"`
	Indent  *indentXML  `xml:"w:ind"`
}

// spacingXML represents paragraph spacing.
type spacingXML struct {
	Before string `xml:"w:before,attr,omitempty"` // Space before in twips
	After  string `xml:"w:after,attr,omitempty"`  // Space after in twips
	Line   string `xml:"w:line,attr,omitempty"`   // Line spacing
}

// indentXML represents paragraph indentation.
type indentXML struct {
	Left string `xml:"w:left,attr"`
}

// runXML represents a text run (<w:r>).
type runXML struct {
	Properties *runPropsXML `xml:"w:rPr"`
	Break      *breakXML    `xml:"w:br"`
	Text       *textXML     `xml:"w:t"`
	Drawing    *drawingXML  `xml:"w:drawing"`
}

// runPropsXML represents run properties (<w:rPr>). Field order follows
// the schema sequence.
type runPropsXML struct {
	Font       *fontXML `xml:"w:rFonts"`
	Bold       *onXML   `xml:"w:b"`
	Italic     *onXML   `xml:"w:i"`
	Spacing    *valXML  `xml:"w:spacing"` // Character spacing in twips
	FontSize   *valXML  `xml:"w:sz"`      // Half-points
	FontSizeCS *valXML  `xml:"w:szCs"`
}

// onXML is a toggle property that is on when present.
type onXML struct{}

type valXML struct {
	Val string `xml:"w:val,attr"`
}

// fontXML represents font settings.
type fontXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

// textXML represents text content (<w:t>).
type textXML struct {
	Space string `xml:"xml:space,attr,omitempty"` // preserve
	Value string `xml:",chardata"`
}

// breakXML represents a break (line or page).
type breakXML struct {
	Type string `xml:"w:type,attr,omitempty"` // page, column, textWrapping
}

// sectPrXML holds the page setup of the single section.
type sectPrXML struct {
	PageSize   pageSizeXML   `xml:"w:pgSz"`
	PageMargin pageMarginXML `xml:"w:pgMar"`
}

type pageSizeXML struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type pageMarginXML struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
	Header string `xml:"w:header,attr"`
	Footer string `xml:"w:footer,attr"`
	Gutter string `xml:"w:gutter,attr"`
}

// drawingXML represents an embedded drawing/image.
type drawingXML struct {
	Inline inlineXML `xml:"wp:inline"`
}

// inlineXML represents an inline image.
type inlineXML struct {
	DistT   string            `xml:"distT,attr"`
	DistB   string            `xml:"distB,attr"`
	DistL   string            `xml:"distL,attr"`
	DistR   string            `xml:"distR,attr"`
	Extent  extentXML         `xml:"wp:extent"`
	DocPr   docPrXML          `xml:"wp:docPr"`
	FramePr graphicFramePrXML `xml:"wp:cNvGraphicFramePr"`
	Graphic graphicXML        `xml:"a:graphic"`
}

// extentXML represents image dimensions.
type extentXML struct {
	CX int64 `xml:"cx,attr"` // Width in EMUs
	CY int64 `xml:"cy,attr"` // Height in EMUs
}

// docPrXML represents document properties of an image.
type docPrXML struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"` // Alt text
}

type graphicFramePrXML struct {
	Locks frameLocksXML `xml:"a:graphicFrameLocks"`
}

type frameLocksXML struct {
	NoChangeAspect string `xml:"noChangeAspect,attr"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"a:graphicData"`
}

type graphicDataXML struct {
	URI string `xml:"uri,attr"`
	Pic picXML `xml:"pic:pic"`
}

type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"pic:nvPicPr"`
	BlipFill blipFillXML `xml:"pic:blipFill"`
	SpPr     picSpPrXML  `xml:"pic:spPr"`
}

type nvPicPrXML struct {
	CNvPr    docPrXML `xml:"pic:cNvPr"`
	CNvPicPr struct{} `xml:"pic:cNvPicPr"`
}

type blipFillXML struct {
	Blip    blipXML    `xml:"a:blip"`
	Stretch stretchXML `xml:"a:stretch"`
}

// blipXML represents an image reference.
type blipXML struct {
	Embed string `xml:"r:embed,attr"` // Relationship ID
}

type stretchXML struct {
	FillRect struct{} `xml:"a:fillRect"`
}

type picSpPrXML struct {
	Xfrm xfrmXML     `xml:"a:xfrm"`
	Geom prstGeomXML `xml:"a:prstGeom"`
}

type xfrmXML struct {
	Off offXML    `xml:"a:off"`
	Ext extentXML `xml:"a:ext"`
}

type offXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst struct{} `xml:"a:avLst"`
}

// stylesXML represents word/styles.xml. Only document defaults are
// written.
type stylesXML struct {
	XMLName     xml.Name       `xml:"w:styles"`
	XmlnsW      string         `xml:"xmlns:w,attr"`
	DocDefaults docDefaultsXML `xml:"w:docDefaults"`
}

// docDefaultsXML represents document default styles.
type docDefaultsXML struct {
	RPr runPropsXML       `xml:"w:rPrDefault>w:rPr"`
	PPr paragraphPropsXML `xml:"w:pPrDefault>w:pPr"`
}
