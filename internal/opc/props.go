package opc

import (
	"encoding/xml"
	"time"
)

// CoreProperties is docProps/core.xml (Dublin Core metadata).
type CoreProperties struct {
	Title    string
	Subject  string
	Creator  string
	Keywords string
	Created  time.Time
	Modified time.Time
}

type corePropertiesXML struct {
	XMLName  xml.Name   `xml:"cp:coreProperties"`
	XmlnsCP  string     `xml:"xmlns:cp,attr"`
	XmlnsDC  string     `xml:"xmlns:dc,attr"`
	XmlnsDCT string     `xml:"xmlns:dcterms,attr"`
	XmlnsXSI string     `xml:"xmlns:xsi,attr"`
	Title    string     `xml:"dc:title,omitempty"`
	Subject  string     `xml:"dc:subject,omitempty"`
	Creator  string     `xml:"dc:creator,omitempty"`
	Keywords string     `xml:"cp:keywords,omitempty"`
	Created  *w3cdtfXML `xml:"dcterms:created,omitempty"`
	Modified *w3cdtfXML `xml:"dcterms:modified,omitempty"`
}

type w3cdtfXML struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func w3cdtf(t time.Time) *w3cdtfXML {
	if t.IsZero() {
		return nil
	}
	return &w3cdtfXML{Type: "dcterms:W3CDTF", Value: t.UTC().Format(time.RFC3339)}
}

// WriteCoreProperties adds docProps/core.xml and registers its content
// type. The caller links it from the package relationships.
func (p *Package) WriteCoreProperties(props CoreProperties) error {
	const name = "docProps/core.xml"
	p.Override(name, TypeCoreProperties)
	return p.WriteXML(name, corePropertiesXML{
		XmlnsCP:  nsCoreProps,
		XmlnsDC:  nsDC,
		XmlnsDCT: nsDCTerms,
		XmlnsXSI: nsXSI,
		Title:    props.Title,
		Subject:  props.Subject,
		Creator:  props.Creator,
		Keywords: props.Keywords,
		Created:  w3cdtf(props.Created),
		Modified: w3cdtf(props.Modified),
	})
}
