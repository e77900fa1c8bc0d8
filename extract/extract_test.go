package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/pdfconv/model"
	"github.com/tsawler/pdfconv/reader"
	"github.com/tsawler/pdfconv/text"
)

func buildPDF(objects ...string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}

func stream(dict, data string) string {
	return fmt.Sprintf("<< /Length %d %s >>\nstream\n%s\nendstream", len(data), dict, data)
}

// twoPagePDF has "Hello" and "World" on page 1 and a 100x50 image at
// (10,700) on page 2. The third page's content is broken when broken is
// set.
func twoPagePDF(broken bool) []byte {
	kids, count := "[3 0 R 4 0 R]", 2
	if broken {
		kids, count = "[3 0 R 4 0 R 9 0 R]", 3
	}
	return buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids %s /Count %d /Resources << /Font << /F1 5 0 R >> /XObject << /Im1 6 0 R >> >> >>", kids, count),
		"<< /Type /Page /Parent 2 0 R /Contents 7 0 R >>",
		"<< /Type /Page /Parent 2 0 R /Contents 8 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold >>",
		stream("/Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8", "\x7f"),
		stream("", "BT /F1 12 Tf 72 720 Td (Hello) Tj 0 -14 Td (World) Tj ET"),
		stream("", "q 100 0 0 50 10 700 cm /Im1 Do Q"),
		"<< /Type /Page /Parent 2 0 R /Contents 10 0 R >>",
		stream("", "BT (unterminated Tj"),
	)
}

func openReader(t *testing.T, data []byte) *reader.Reader {
	t.Helper()
	r, err := reader.FromBytes(data)
	require.NoError(t, err)
	return r
}

func line(s string, size float64) text.Line {
	return text.Line{
		Text:      s,
		Style:     text.Style{FontFamily: "Times", FontSize: size},
		Fragments: []text.Fragment{{Text: s}},
	}
}

func TestTextEventsPolicy(t *testing.T) {
	lines := []text.Line{line("Hello", 12), {}, line("   ", 12), line("  World  ", 9)}
	events := TextEvents(lines, DefaultLayout)

	require.Len(t, events, 2)
	assert.Equal(t, Event{Kind: TextShown, Text: "Hello", X: 40, Y: 800, Style: &text.Style{FontFamily: "Times", FontSize: 12}}, events[0])
	assert.Equal(t, "World", events[1].Text)
	assert.Equal(t, 800-3*18.0, events[1].Y, "blank lines still advance")
	assert.Equal(t, 9.0, events[1].Style.FontSize)
}

func TestTextEventsEmbeddedNewline(t *testing.T) {
	events := TextEvents([]text.Line{line("one\ntwo", 10)}, Layout{Left: 10, Top: 100, Advance: 10})
	require.Len(t, events, 2)
	assert.Equal(t, 10.0, events[0].X)
	assert.Equal(t, 100.0, events[0].Y)
	assert.Equal(t, 90.0, events[1].Y)
}

func TestPlainTextEvents(t *testing.T) {
	events := PlainTextEvents("alpha\n\n beta \n", Layout{})
	require.Len(t, events, 2)
	assert.Equal(t, "beta", events[1].Text)
	assert.Equal(t, 764.0, events[1].Y)
	assert.Nil(t, events[0].Style)
}

func TestImageEventsSkipEmpty(t *testing.T) {
	images := []reader.Image{
		{Name: "a", Data: []byte{1}, CTM: model.Translate(1, 2)},
		{Name: "b"},
	}
	events := ImageEvents(images)
	require.Len(t, events, 1)
	assert.Equal(t, ImagePainted, events[0].Kind)
	assert.Equal(t, "ImagePainted", events[0].Kind.String())
}

func TestBuild(t *testing.T) {
	events := []Event{
		{Kind: ImagePainted, Image: []byte{1, 2}, CTM: model.Matrix{100, 0, 0, 50, 10, 700}},
		{Kind: TextShown, Text: "second", X: 40, Y: 782},
		{Kind: TextShown, Text: "first", X: 40, Y: 800, Style: &text.Style{FontFamily: "Arial", FontSize: 14, Bold: true, WordSpacing: 1}},
		{Kind: ImagePainted},
		{Kind: TextShown, Text: "right", X: 300, Y: 782},
	}
	page := Build(3, events)

	assert.Equal(t, 3, page.Number)
	require.Len(t, page.Elements, 4)
	assert.True(t, page.IsOrdered())
	assert.Equal(t, []string{"first", "second", "right"}, page.Texts())

	first := page.Elements[0]
	require.NotNil(t, first.FontSize)
	assert.Equal(t, 14.0, *first.FontSize)
	assert.Equal(t, "Arial", first.FontFamily)
	assert.True(t, first.Bold)
	assert.Equal(t, 1.0, first.WordSpacing)
	assert.Nil(t, page.Elements[1].FontSize)

	img := page.Elements[3]
	require.True(t, img.IsImage())
	assert.Equal(t, 10.0, img.X)
	assert.Equal(t, 700.0, img.Y)
	w, h := img.Extent()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)
}

func TestWalk(t *testing.T) {
	r := openReader(t, twoPagePDF(false))
	page, err := r.Page(0)
	require.NoError(t, err)

	events, warnings, err := NewWalker(r, DefaultLayout).Walk(context.Background(), page)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, events, 2)
	assert.Equal(t, "Hello", events[0].Text)
	assert.True(t, events[0].Style.Bold)
	assert.Equal(t, 782.0, events[1].Y)
}

func TestDocument(t *testing.T) {
	r := openReader(t, twoPagePDF(false))
	doc, warnings, err := Document(context.Background(), r, Options{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Equal(t, 2, doc.PageCount())

	p1 := doc.Pages[0]
	assert.Equal(t, []string{"Hello", "World"}, p1.Texts())
	assert.Equal(t, 800.0, p1.Elements[0].Y)
	assert.Equal(t, 40.0, p1.Elements[0].X)

	p2 := doc.Pages[1]
	require.Len(t, p2.Elements, 1)
	img := p2.Elements[0]
	assert.True(t, img.IsImage())
	assert.Equal(t, 10.0, img.X)
	assert.Equal(t, 700.0, img.Y)
	w, h := img.Extent()
	assert.Equal(t, 100.0, w)
	assert.Equal(t, 50.0, h)
}

func TestDocumentIdempotent(t *testing.T) {
	data := twoPagePDF(false)
	a, _, err := Document(context.Background(), openReader(t, data), Options{})
	require.NoError(t, err)
	b, _, err := Document(context.Background(), openReader(t, data), Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDocumentPageSelection(t *testing.T) {
	r := openReader(t, twoPagePDF(false))
	doc, _, err := Document(context.Background(), r, Options{Pages: []int{2, 2}})
	require.NoError(t, err)
	require.Equal(t, 1, doc.PageCount())
	assert.Equal(t, 2, doc.Pages[0].Number)

	_, _, err = Document(context.Background(), r, Options{Pages: []int{3}})
	assert.ErrorContains(t, err, "out of range")
}

func TestDocumentParseError(t *testing.T) {
	r := openReader(t, twoPagePDF(true))
	doc, _, err := Document(context.Background(), r, Options{})
	assert.Nil(t, doc)

	var pe *PageError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, 3, pe.Page)
}

func TestDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Document(ctx, openReader(t, twoPagePDF(false)), Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

type fakeOCR struct {
	text string
	err  error
}

func (f fakeOCR) Recognize([]byte) (string, error) { return f.text, f.err }

func TestDocumentOCRFallback(t *testing.T) {
	r := openReader(t, twoPagePDF(false))
	doc, warnings, err := Document(context.Background(), r, Options{OCR: fakeOCR{text: "Scanned line\nAnother"}})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// Page 1 has text and is left alone.
	assert.Equal(t, []string{"Hello", "World"}, doc.Pages[0].Texts())
	p2 := doc.Pages[1]
	assert.Equal(t, []string{"Scanned line", "Another"}, p2.Texts())
	assert.Equal(t, 1, len(p2.Images()))
	assert.True(t, p2.IsOrdered())
}

func TestDocumentOCRFailure(t *testing.T) {
	r := openReader(t, twoPagePDF(false))
	doc, warnings, err := Document(context.Background(), r, Options{OCR: fakeOCR{err: errors.New("engine down")}})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, 2, warnings[0].Page)
	assert.Contains(t, warnings[0].String(), "engine down")
	assert.Empty(t, doc.Pages[1].Texts())
}
