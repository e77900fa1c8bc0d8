package reader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// buildPDF lays out numbered objects (1-based) with a correct xref table.
// Object 1 must be the catalog.
func buildPDF(trailerExtra string, objects ...string) []byte {
	var b bytes.Buffer
	b.WriteString("%PDF-1.7\n")
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
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R %s >>\nstartxref\n%d\n%%%%EOF\n",
		len(objects)+1, trailerExtra, xref)
	return b.Bytes()
}

func stream(dict, data string) string {
	return fmt.Sprintf("<< /Length %d %s >>\nstream\n%s\nendstream", len(data), dict, data)
}

// samplePDF has one page with two lines of Helvetica text and a 2x1 grey
// image drawn at (10,700) with size 100x50.
func samplePDF() []byte {
	content := "BT /F1 12 Tf 72 720 Td (Hello) Tj 0 -14 Td (World) Tj ET\nq 100 0 0 50 10 700 cm /Im1 Do Q"
	return buildPDF("/Info 7 0 R",
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> /XObject << /Im1 5 0 R >> >> /Contents 6 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
		stream("/Type /XObject /Subtype /Image /Width 2 /Height 1 /ColorSpace /DeviceGray /BitsPerComponent 8", "\x00\xff"),
		stream("", content),
		"<< /Title (Quarterly Report) /Author (Ada) /CreationDate (D:20240131120000+01'00') >>",
	)
}

func createTempPDF(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create temp PDF: %v", err)
	}
	return path
}

func mustReader(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	return r
}
