package opc

import (
	"encoding/xml"
	"strconv"
)

// Relationships is the content of a .rels part.
type Relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Items   []Relationship `xml:"Relationship"`
}

// Relationship links a source part to a target.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"` // External or empty (internal)
}

// NewRelationships returns an empty relationship set.
func NewRelationships() *Relationships {
	return &Relationships{Xmlns: NSPackageRels}
}

// Add appends a relationship and returns its id (rId1, rId2, ...).
func (r *Relationships) Add(typ, target string) string {
	id := "rId" + strconv.Itoa(len(r.Items)+1)
	r.Items = append(r.Items, Relationship{ID: id, Type: typ, Target: target})
	return id
}

// Len returns the number of relationships.
func (r *Relationships) Len() int { return len(r.Items) }
