// Package opc writes Open Packaging Conventions containers, the zip
// layout shared by DOCX and PPTX files.
package opc

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"
)

// Namespaces and relationship types used by package parts.
const (
	NSContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSPicture       = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	nsCoreProps = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC        = "http://purl.org/dc/elements/1.1/"
	nsDCTerms   = "http://purl.org/dc/terms/"
	nsXSI       = "http://www.w3.org/2001/XMLSchema-instance"

	RelOfficeDocument = NSRelationships + "/officeDocument"
	RelCoreProperties = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelImage          = NSRelationships + "/image"
	RelStyles         = NSRelationships + "/styles"
	RelSlide          = NSRelationships + "/slide"
	RelSlideLayout    = NSRelationships + "/slideLayout"
	RelSlideMaster    = NSRelationships + "/slideMaster"
	RelTheme          = NSRelationships + "/theme"

	TypeRelationships  = "application/vnd.openxmlformats-package.relationships+xml"
	TypeXML            = "application/xml"
	TypeCoreProperties = "application/vnd.openxmlformats-package.core-properties+xml"
)

// Package is a container being written. Parts are written in the order
// they are added; [Content_Types].xml is written by Close.
type Package struct {
	zw        *zip.Writer
	defaults  map[string]string
	overrides map[string]string
	names     map[string]bool
	closed    bool
}

// NewPackage starts a package on w. The rels and xml extensions are
// registered by default.
func NewPackage(w io.Writer) *Package {
	return &Package{
		zw: zip.NewWriter(w),
		defaults: map[string]string{
			"rels": TypeRelationships,
			"xml":  TypeXML,
		},
		overrides: make(map[string]string),
		names:     make(map[string]bool),
	}
}

// Default registers the content type of every part with extension ext.
func (p *Package) Default(ext, contentType string) {
	p.defaults[strings.TrimPrefix(strings.ToLower(ext), ".")] = contentType
}

// Override registers the content type of a single part.
func (p *Package) Override(name, contentType string) {
	p.overrides[partName(name)] = contentType
}

// WriteFile adds a part with the given content.
func (p *Package) WriteFile(name string, data []byte) error {
	if p.closed {
		return fmt.Errorf("package closed")
	}
	name = strings.TrimPrefix(name, "/")
	if p.names[name] {
		return fmt.Errorf("duplicate part %s", name)
	}
	p.names[name] = true

	fw, err := p.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// WriteXML marshals v with an XML declaration and adds it as a part.
func (p *Package) WriteXML(name string, v any) error {
	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	return p.WriteFile(name, data)
}

// Has reports whether a part has been written.
func (p *Package) Has(name string) bool {
	return p.names[strings.TrimPrefix(name, "/")]
}

// Close writes the content types part and finishes the zip archive.
func (p *Package) Close() error {
	if p.closed {
		return nil
	}
	types := contentTypesXML{Xmlns: NSContentTypes}
	exts := make([]string, 0, len(p.defaults))
	for ext := range p.defaults {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		types.Defaults = append(types.Defaults, defaultXML{Extension: ext, ContentType: p.defaults[ext]})
	}
	parts := make([]string, 0, len(p.overrides))
	for name := range p.overrides {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	for _, name := range parts {
		types.Overrides = append(types.Overrides, overrideXML{PartName: name, ContentType: p.overrides[name]})
	}
	if err := p.WriteXML("[Content_Types].xml", types); err != nil {
		return err
	}
	p.closed = true
	return p.zw.Close()
}

// Marshal encodes v as a standalone XML document.
func Marshal(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(body)+len(declaration))
	out = append(out, declaration...)
	return append(out, body...), nil
}

const declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// RelsName returns the relationships part for a part, for example
// word/_rels/document.xml.rels for word/document.xml. The package
// relationships live in _rels/.rels.
func RelsName(part string) string {
	part = strings.TrimPrefix(part, "/")
	if part == "" {
		return "_rels/.rels"
	}
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

func partName(name string) string {
	return "/" + strings.TrimPrefix(name, "/")
}

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []defaultXML  `xml:"Default"`
	Overrides []overrideXML `xml:"Override"`
}

type defaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}
