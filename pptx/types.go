package pptx

import "encoding/xml"

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
)

// namespaces carries the xmlns attributes of a PresentationML root.
type namespaces struct {
	A string `xml:"xmlns:a,attr"`
	R string `xml:"xmlns:r,attr"`
	P string `xml:"xmlns:p,attr"`
}

func rootNamespaces() namespaces {
	return namespaces{A: nsDrawingML, R: nsRelationships, P: nsPresentationML}
}

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName xml.Name `xml:"p:presentation"`
	namespaces
	MasterIDList masterIDListXML `xml:"p:sldMasterIdLst"`
	SlideIDList  *slideIDListXML `xml:"p:sldIdLst"`
	SlideSz      slideSzXML      `xml:"p:sldSz"`
	NotesSz      slideSzXML      `xml:"p:notesSz"`
}

type masterIDListXML struct {
	IDs []idXML `xml:"p:sldMasterId"`
}

type slideIDListXML struct {
	IDs []idXML `xml:"p:sldId"`
}

type idXML struct {
	ID  int    `xml:"id,attr"`
	RID string `xml:"r:id,attr"` // relationship id
}

type slideSzXML struct {
	Cx   int    `xml:"cx,attr"` // Width in EMUs
	Cy   int    `xml:"cy,attr"` // Height in EMUs
	Type string `xml:"type,attr,omitempty"`
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"p:sld"`
	namespaces
	CSld      cSldXML      `xml:"p:cSld"`
	ClrMapOvr clrMapOvrXML `xml:"p:clrMapOvr"`
}

// slideLayoutXML represents ppt/slideLayouts/slideLayout*.xml.
type slideLayoutXML struct {
	XMLName xml.Name `xml:"p:sldLayout"`
	namespaces
	Type      string       `xml:"type,attr"`
	Preserve  string       `xml:"preserve,attr"`
	CSld      cSldXML      `xml:"p:cSld"`
	ClrMapOvr clrMapOvrXML `xml:"p:clrMapOvr"`
}

// slideMasterXML represents ppt/slideMasters/slideMaster*.xml.
type slideMasterXML struct {
	XMLName xml.Name `xml:"p:sldMaster"`
	namespaces
	CSld       cSldXML         `xml:"p:cSld"`
	ClrMap     clrMapXML       `xml:"p:clrMap"`
	LayoutList layoutIDListXML `xml:"p:sldLayoutIdLst"`
}

type layoutIDListXML struct {
	IDs []idXML `xml:"p:sldLayoutId"`
}

type cSldXML struct {
	Name   string    `xml:"name,attr,omitempty"`
	SpTree spTreeXML `xml:"p:spTree"`
}

type clrMapOvrXML struct {
	Master struct{} `xml:"a:masterClrMapping"`
}

// clrMapXML maps the theme colours onto their slide roles.
type clrMapXML struct {
	Bg1      string `xml:"bg1,attr"`
	Tx1      string `xml:"tx1,attr"`
	Bg2      string `xml:"bg2,attr"`
	Tx2      string `xml:"tx2,attr"`
	Accent1  string `xml:"accent1,attr"`
	Accent2  string `xml:"accent2,attr"`
	Accent3  string `xml:"accent3,attr"`
	Accent4  string `xml:"accent4,attr"`
	Accent5  string `xml:"accent5,attr"`
	Accent6  string `xml:"accent6,attr"`
	Hlink    string `xml:"hlink,attr"`
	FolHlink string `xml:"folHlink,attr"`
}

// spTreeXML represents the shape tree containing all shapes on a slide.
type spTreeXML struct {
	NvGrpSpPr nvGrpSpPrXML `xml:"p:nvGrpSpPr"`
	GrpSpPr   struct{}     `xml:"p:grpSpPr"`
	Sp        []spXML      `xml:"p:sp"`
}

type nvGrpSpPrXML struct {
	CNvPr      cNvPrXML `xml:"p:cNvPr"`
	CNvGrpSpPr struct{} `xml:"p:cNvGrpSpPr"`
	NvPr       struct{} `xml:"p:nvPr"`
}

type cNvPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML `xml:"p:nvSpPr"`
	SpPr   spPrXML   `xml:"p:spPr"`
	TxBody txBodyXML `xml:"p:txBody"`
}

type nvSpPrXML struct {
	CNvPr   cNvPrXML   `xml:"p:cNvPr"`
	CNvSpPr cNvSpPrXML `xml:"p:cNvSpPr"`
	NvPr    struct{}   `xml:"p:nvPr"`
}

type cNvSpPrXML struct {
	TxBox string `xml:"txBox,attr,omitempty"`
}

type spPrXML struct {
	Xfrm     xfrmXML     `xml:"a:xfrm"`
	PrstGeom prstGeomXML `xml:"a:prstGeom"`
}

type xfrmXML struct {
	Off offXML `xml:"a:off"`
	Ext extXML `xml:"a:ext"`
}

type offXML struct {
	X int `xml:"x,attr"` // X position in EMUs
	Y int `xml:"y,attr"` // Y position in EMUs
}

type extXML struct {
	Cx int `xml:"cx,attr"` // Width in EMUs
	Cy int `xml:"cy,attr"` // Height in EMUs
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst struct{} `xml:"a:avLst"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	BodyPr   bodyPrXML `xml:"a:bodyPr"`
	LstStyle struct{}  `xml:"a:lstStyle"`
	P        []pXML    `xml:"a:p"` // Paragraphs
}

type bodyPrXML struct {
	Wrap   string `xml:"wrap,attr"`
	Anchor string `xml:"anchor,attr"` // t, ctr, b (top, center, bottom)
}

// pXML represents a paragraph.
type pXML struct {
	R          []rXML  `xml:"a:r"` // Text runs
	EndParaRPr *rPrXML `xml:"a:endParaRPr"`
}

// rXML represents a text run.
type rXML struct {
	RPr rPrXML `xml:"a:rPr"`
	T   string `xml:"a:t"`
}

type rPrXML struct {
	Lang string `xml:"lang,attr"`
}
