package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tsawler/pdfconv/model"
)

func unpack(t *testing.T, doc *model.Document, opts Options) map[string]string {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, doc, opts); err != nil {
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
	return parts
}

var runText = regexp.MustCompile(`<a:t>([^<]*)</a:t>`)

// slideLines returns the paragraph texts of a slide, with "" for empty
// paragraphs.
func slideLines(slide string) []string {
	var lines []string
	for _, p := range strings.Split(slide, "<a:p>")[1:] {
		m := runText.FindStringSubmatch(p)
		if m == nil {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, m[1])
	}
	return lines
}

func page(texts ...string) *model.Page {
	p := model.NewPage(0)
	y := 800.0
	for _, s := range texts {
		p.Add(model.NewText(s, 40, y))
		y -= 18
	}
	return p
}

func TestWriteOneSlidePerPage(t *testing.T) {
	doc := model.NewDocument()
	doc.AddPage(page("Intro", "Agenda"))
	doc.AddPage(page("Results"))
	third := page("A", "B", "C")
	third.Add(model.NewImage([]byte{1, 2, 3}, 10, 300, 20, 20))
	doc.AddPage(third)

	parts := unpack(t, doc, Options{})

	want := [][]string{{"Intro", "Agenda"}, {"Results"}, {"A", "B", "C"}}
	for i, lines := range want {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		slide, ok := parts[name]
		if !ok {
			t.Fatalf("missing %s", name)
		}
		if n := strings.Count(slide, "<p:sp>"); n != 1 {
			t.Errorf("%s has %d shapes, want 1", name, n)
		}
		got := slideLines(slide)
		if strings.Join(got, "|") != strings.Join(lines, "|") {
			t.Errorf("%s lines = %q, want %q", name, got, lines)
		}
		if strings.Contains(slide, "p:pic") {
			t.Errorf("%s should not contain pictures", name)
		}
		if _, ok := parts["ppt/slides/_rels/slide"+fmt.Sprint(i+1)+".xml.rels"]; !ok {
			t.Errorf("missing relationships for %s", name)
		}
	}
	if _, ok := parts["ppt/slides/slide4.xml"]; ok {
		t.Error("unexpected fourth slide")
	}

	pres := parts["ppt/presentation.xml"]
	if n := strings.Count(pres, "<p:sldId "); n != 3 {
		t.Errorf("presentation lists %d slides, want 3", n)
	}
	if !strings.Contains(pres, `<p:sldSz cx="9144000" cy="6858000">`) {
		t.Error("unexpected slide size")
	}
	types := parts["[Content_Types].xml"]
	if strings.Count(types, typeSlide) != 3 {
		t.Error("slides not registered in content types")
	}
	for _, name := range []string{masterPart, layoutPart, themePart, "ppt/_rels/presentation.xml.rels"} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
}

func TestWriteEmptyPage(t *testing.T) {
	doc := model.NewDocument()
	doc.AddPage(model.NewPage(1))
	parts := unpack(t, doc, Options{})
	lines := slideLines(parts["ppt/slides/slide1.xml"])
	if len(lines) != 1 || lines[0] != "" {
		t.Errorf("empty page lines = %q", lines)
	}
}

func TestWriteEmptyDocument(t *testing.T) {
	parts := unpack(t, model.NewDocument(), Options{Title: "empty"})
	pres := parts["ppt/presentation.xml"]
	if strings.Contains(pres, "sldIdLst") {
		t.Error("empty presentation must omit the slide list")
	}
	for name := range parts {
		if strings.HasPrefix(name, "ppt/slides/") {
			t.Errorf("unexpected part %s", name)
		}
	}
	if !strings.Contains(parts["docProps/core.xml"], "<dc:title>empty</dc:title>") {
		t.Error("title not written")
	}
}

func TestSlideText(t *testing.T) {
	tests := []struct {
		name  string
		texts []string
		want  int
	}{
		{"short", []string{"a", "b"}, 3},
		{"exactly the cap", []string{strings.Repeat("x", MaxSlideChars)}, MaxSlideChars},
		{"over the cap", []string{strings.Repeat("x", 1500), strings.Repeat("y", 1500)}, MaxSlideChars},
		{"multibyte", []string{strings.Repeat("é", 2500)}, MaxSlideChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlideText(page(tt.texts...))
			if n := utf8.RuneCountInString(got); n != tt.want {
				t.Errorf("rune count = %d, want %d", n, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Error("truncation split a character")
			}
		})
	}
}

func TestWriteEscapesText(t *testing.T) {
	doc := model.NewDocument()
	doc.AddPage(page("R&D <draft>"))
	parts := unpack(t, doc, Options{})
	if !strings.Contains(parts["ppt/slides/slide1.xml"], "<a:t>R&amp;D &lt;draft&gt;</a:t>") {
		t.Error("text not escaped")
	}
}
