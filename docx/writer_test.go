package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/tsawler/pdfconv/model"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	img.SetGray(0, 0, color.Gray{Y: 200})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func bmpBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatalf("bmp.Encode: %v", err)
	}
	return buf.Bytes()
}

// unpack writes doc and returns the package parts by name.
func unpack(t *testing.T, doc *model.Document, opts Options) (map[string]string, []model.SkippedAsset) {
	t.Helper()
	var buf bytes.Buffer
	skipped, err := Write(&buf, doc, opts)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	parts := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		parts[f.Name] = string(data)
	}
	return parts, skipped
}

func textElem(content string, x, y, size float64) model.Element {
	e := model.NewText(content, x, y)
	if size > 0 {
		e.FontSize = &size
	}
	return e
}

func docOf(pages ...[]model.Element) *model.Document {
	doc := model.NewDocument()
	for _, elems := range pages {
		p := model.NewPage(0)
		p.Add(elems...)
		doc.AddPage(p)
	}
	return doc
}

func TestWriteParagraphSpacing(t *testing.T) {
	tests := []struct {
		name       string
		elems      []model.Element
		wantBefore string
	}{
		{
			name:       "gap wider than 1.2 times font size",
			elems:      []model.Element{textElem("Title", 40, 800, 12), textElem("Body", 40, 750, 10)},
			wantBefore: `w:before="1000"`,
		},
		{
			name:       "default font size when absent",
			elems:      []model.Element{textElem("a", 40, 800, 0), textElem("b", 40, 782, 0)},
			wantBefore: `w:before="360"`,
		},
		{
			name:  "gap within threshold",
			elems: []model.Element{textElem("a", 40, 800, 12), textElem("b", 40, 786, 12)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, _ := unpack(t, docOf(tt.elems), Options{})
			body := parts["word/document.xml"]
			if tt.wantBefore == "" {
				if strings.Contains(body, "w:before=") {
					t.Errorf("unexpected spacing in %s", body)
				}
				return
			}
			if n := strings.Count(body, tt.wantBefore); n != 1 {
				t.Errorf("found %d of %s in %s", n, tt.wantBefore, body)
			}
		})
	}
}

func TestWriteRunFormatting(t *testing.T) {
	e := textElem("Heading", 72, 800, 12)
	e.Bold = true
	e.Italic = true
	e.FontFamily = "Times"
	e.CharSpacing = 0.5
	plain := textElem("plain", 40, 700, 0)

	parts, _ := unpack(t, docOf([]model.Element{e, plain}), Options{})
	body := parts["word/document.xml"]

	for _, want := range []string{
		`<w:ind w:left="1440">`,
		`<w:ind w:left="800">`,
		`w:ascii="Times"`,
		`<w:b></w:b>`,
		`<w:i></w:i>`,
		`<w:spacing w:val="10">`,
		`<w:sz w:val="24">`,
		`<w:sz w:val="20">`,
		`w:ascii="` + DefaultFont + `"`,
		`<w:t xml:space="preserve">Heading</w:t>`,
		`<w:t xml:space="preserve">plain</w:t>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %s", want)
		}
	}
	if strings.Count(body, "<w:b>") != 1 {
		t.Error("only the first run should be bold")
	}
}

func TestWritePageBreaks(t *testing.T) {
	doc := docOf(
		[]model.Element{textElem("one", 40, 800, 0)},
		nil,
		[]model.Element{textElem("three", 40, 800, 0)},
	)
	parts, _ := unpack(t, doc, Options{})
	body := parts["word/document.xml"]
	if n := strings.Count(body, `<w:br w:type="page">`); n != 2 {
		t.Errorf("expected 2 page breaks, got %d", n)
	}
	if n := strings.Count(body, "<w:p>"); n != 4 {
		t.Errorf("expected 4 paragraphs, got %d", n)
	}
	if strings.Index(body, "one") > strings.Index(body, "three") {
		t.Error("pages out of order")
	}
}

func TestWriteImages(t *testing.T) {
	good := model.NewImage(pngBytes(t, 4, 2), 10, 700, 100, 50)
	empty := model.NewImage(nil, 10, 600, 100, 50)
	garbage := model.NewImage([]byte("not an image"), 10, 500, 20, 20)
	converted := model.NewImage(bmpBytes(t), 10, 400, 30, 20)

	doc := docOf([]model.Element{good, empty, garbage, converted})
	parts, skipped := unpack(t, doc, Options{})

	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped images, got %v", skipped)
	}
	if skipped[0].Index != 1 || skipped[1].Index != 2 || skipped[0].Page != 1 {
		t.Errorf("unexpected skipped assets %v", skipped)
	}
	if !strings.Contains(skipped[0].Reason, "empty") {
		t.Errorf("reason = %q", skipped[0].Reason)
	}

	if _, ok := parts["word/media/image1.png"]; !ok {
		t.Error("missing word/media/image1.png")
	}
	bmpAsPNG, ok := parts["word/media/image2.png"]
	if !ok || !strings.HasPrefix(bmpAsPNG, "\x89PNG") {
		t.Error("BMP was not re-encoded as PNG")
	}

	body := parts["word/document.xml"]
	if n := strings.Count(body, "<w:drawing>"); n != 2 {
		t.Errorf("expected 2 drawings, got %d", n)
	}
	if !strings.Contains(body, `<wp:extent cx="1270000" cy="635000">`) {
		t.Error("image extent not converted to EMU")
	}
	rels := parts["word/_rels/document.xml.rels"]
	if !strings.Contains(rels, `Target="media/image1.png"`) || !strings.Contains(rels, `Target="media/image2.png"`) {
		t.Errorf("image relationships missing: %s", rels)
	}
	if !strings.Contains(parts["[Content_Types].xml"], `Extension="png"`) {
		t.Error("png content type not registered")
	}
}

func TestWriteImageWithoutExtent(t *testing.T) {
	e := model.Element{Kind: model.KindImage, ImageData: pngBytes(t, 8, 4), X: 0, Y: 100}
	parts, skipped := unpack(t, docOf([]model.Element{e}), Options{})
	if len(skipped) != 0 {
		t.Fatalf("unexpected skip %v", skipped)
	}
	if !strings.Contains(parts["word/document.xml"], `cx="101600" cy="50800"`) {
		t.Error("pixel size not used as fallback extent")
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	parts, skipped := unpack(t, model.NewDocument(), Options{})
	if len(skipped) != 0 {
		t.Errorf("unexpected skipped %v", skipped)
	}
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"docProps/core.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	body := parts["word/document.xml"]
	if strings.Contains(body, "<w:p>") || !strings.Contains(body, "<w:sectPr>") {
		t.Errorf("unexpected empty body: %s", body)
	}
}

func TestWriteTitle(t *testing.T) {
	doc := model.NewDocument()
	doc.Metadata.Title = "From metadata"
	doc.Metadata.Author = "Ada"

	parts, _ := unpack(t, doc, Options{})
	if !strings.Contains(parts["docProps/core.xml"], "<dc:title>From metadata</dc:title>") {
		t.Error("metadata title not written")
	}
	if !strings.Contains(parts["docProps/core.xml"], "<dc:creator>Ada</dc:creator>") {
		t.Error("author not written")
	}

	parts, _ = unpack(t, doc, Options{Title: "report.pdf"})
	if !strings.Contains(parts["docProps/core.xml"], "<dc:title>report.pdf</dc:title>") {
		t.Error("option title should win")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteSinkFailure(t *testing.T) {
	doc := docOf([]model.Element{textElem(strings.Repeat("x", 70000), 40, 800, 0)})
	if _, err := Write(failingWriter{}, doc, Options{}); err == nil {
		t.Fatal("expected error from failing writer")
	}
}
