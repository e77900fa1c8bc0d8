package font

import (
	"math"
	"testing"

	"github.com/tsawler/pdfconv/core"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLoadStandardFont(t *testing.T) {
	f, err := Load(core.Dict{
		"Type":     core.Name("Font"),
		"Subtype":  core.Name("Type1"),
		"BaseFont": core.Name("Helvetica"),
		"Encoding": core.Name("WinAnsiEncoding"),
	}, core.ObjectTable{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := f.Text([]byte("Hello")); got != "Hello" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Width([]byte("Hi")); !approx(got, 0.944) {
		t.Errorf("Width = %v, want 0.944", got)
	}
	if f.Family != "Helvetica" || f.Bold || f.Italic {
		t.Errorf("unexpected style %q bold=%v italic=%v", f.Family, f.Bold, f.Italic)
	}
	glyphs := f.Decode([]byte("a b"))
	if len(glyphs) != 3 || !glyphs[1].Space || glyphs[0].Space {
		t.Errorf("space detection wrong: %+v", glyphs)
	}
}

func TestStandardEncodingDefault(t *testing.T) {
	f, _ := Load(core.Dict{"Subtype": core.Name("Type1"), "BaseFont": core.Name("Foo")}, core.ObjectTable{})
	if got := f.Text([]byte("it's")); got != "it’s" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Width([]byte("x")); !approx(got, DefaultWidth/1000) {
		t.Errorf("Width = %v", got)
	}
}

func TestCourierIsMonospaced(t *testing.T) {
	f, _ := Load(core.Dict{"Subtype": core.Name("Type1"), "BaseFont": core.Name("Courier-Bold")}, core.ObjectTable{})
	if got := f.Width([]byte("iW")); !approx(got, 1.2) {
		t.Errorf("Width = %v, want 1.2", got)
	}
	if !f.Bold {
		t.Error("Courier-Bold should be bold")
	}
}

func TestDifferences(t *testing.T) {
	objs := core.ObjectTable{
		5: core.Dict{
			"BaseEncoding": core.Name("WinAnsiEncoding"),
			"Differences":  core.Array{core.Int(65), core.Name("eacute"), core.Name("uni2022"), core.Int(90), core.Name("fi")},
		},
	}
	f, err := Load(core.Dict{
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("Custom"),
		"Encoding":  core.IndirectRef{Number: 5},
		"FirstChar": core.Int(65),
		"Widths":    core.Array{core.Int(400), core.Real(450.5)},
	}, objs)
	if err != nil {
		t.Fatal(err)
	}
	if got := f.Text([]byte("ABCZ")); got != "é•Cﬁ" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Width([]byte("AB")); !approx(got, 0.8505) {
		t.Errorf("Width = %v", got)
	}
}

func TestCompositeFontWithToUnicode(t *testing.T) {
	cmap := `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
1 beginbfchar
<0003> <0020>
endbfchar
2 beginbfrange
<0010> <0012> <0041>
<0020> <0021> [<0048> <00690021>]
endbfrange
endcmap
end
end`
	objs := core.ObjectTable{
		7: &core.Stream{Dict: core.Dict{}, Data: []byte(cmap)},
		8: core.Dict{
			"Type":     core.Name("Font"),
			"Subtype":  core.Name("CIDFontType2"),
			"BaseFont": core.Name("ABCDEF+NotoSans-Italic"),
			"DW":       core.Int(1000),
			"W":        core.Array{core.Int(3), core.Array{core.Int(250)}, core.Int(16), core.Int(18), core.Int(600)},
		},
	}
	f, err := Load(core.Dict{
		"Subtype":         core.Name("Type0"),
		"BaseFont":        core.Name("ABCDEF+NotoSans-Italic"),
		"Encoding":        core.Name("Identity-H"),
		"DescendantFonts": core.Array{core.IndirectRef{Number: 8}},
		"ToUnicode":       core.IndirectRef{Number: 7},
	}, objs)
	if err != nil {
		t.Fatal(err)
	}
	if !f.IsComposite() || f.Vertical {
		t.Fatal("expected horizontal composite font")
	}

	glyphs := f.Decode([]byte{0x00, 0x03, 0x00, 0x11, 0x00, 0x21, 0x00, 0x40})
	want := []struct {
		text  string
		width float64
	}{
		{" ", 0.25},
		{"B", 0.6},
		{"i!", 1},
		{"@", 1},
	}
	if len(glyphs) != len(want) {
		t.Fatalf("got %d glyphs, want %d", len(glyphs), len(want))
	}
	for i, w := range want {
		if glyphs[i].Text != w.text || !approx(glyphs[i].Width, w.width) {
			t.Errorf("glyph %d = %+v, want %q width %v", i, glyphs[i], w.text, w.width)
		}
		if glyphs[i].Space {
			t.Errorf("glyph %d: two-byte codes never take word spacing", i)
		}
	}
	if f.Family != "NotoSans" || !f.Italic {
		t.Errorf("style = %q italic=%v", f.Family, f.Italic)
	}
}

func TestCompositeUCS2(t *testing.T) {
	f, _ := Load(core.Dict{
		"Subtype":  core.Name("Type0"),
		"BaseFont": core.Name("STSong-Light"),
		"Encoding": core.Name("UniGB-UCS2-V"),
	}, core.ObjectTable{})
	if got := f.Text([]byte{0x4E, 0x2D, 0x65, 0x87}); got != "中文" {
		t.Errorf("Text = %q", got)
	}
	if !f.Vertical {
		t.Error("expected vertical writing mode")
	}
}

func TestType3FontMatrix(t *testing.T) {
	f, _ := Load(core.Dict{
		"Subtype":    core.Name("Type3"),
		"FontMatrix": core.Array{core.Real(0.01), core.Int(0), core.Int(0), core.Real(0.01), core.Int(0), core.Int(0)},
		"FirstChar":  core.Int(65),
		"Widths":     core.Array{core.Int(50)},
		"Encoding":   core.Dict{"Differences": core.Array{core.Int(65), core.Name("A")}},
	}, core.ObjectTable{})
	if got := f.Width([]byte("A")); !approx(got, 0.5) {
		t.Errorf("Width = %v, want 0.5", got)
	}
	if got := f.Text([]byte("A")); got != "A" {
		t.Errorf("Text = %q", got)
	}
}

func TestStyleFromName(t *testing.T) {
	tests := []struct {
		base   string
		flags  int
		family string
		bold   bool
		italic bool
	}{
		{"ABCDEF+TimesNewRomanPS-BoldItalicMT", 0, "TimesNewRoman", true, true},
		{"Arial,Bold", 0, "Arial", true, false},
		{"ArialMT", flagItalic, "Arial", false, true},
		{"Calibri", flagForceBold, "Calibri", true, false},
		{"abcdef+Odd", 0, "abcdef+Odd", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			f, _ := Load(core.Dict{
				"Subtype":        core.Name("TrueType"),
				"BaseFont":       core.Name(tt.base),
				"FontDescriptor": core.Dict{"Flags": core.Int(tt.flags)},
			}, core.ObjectTable{})
			if f.Family != tt.family || f.Bold != tt.bold || f.Italic != tt.italic {
				t.Errorf("got family=%q bold=%v italic=%v", f.Family, f.Bold, f.Italic)
			}
		})
	}
}

func TestLoadNilDict(t *testing.T) {
	if _, err := Load(nil, core.ObjectTable{}); err == nil {
		t.Error("expected error for nil dictionary")
	}
	if f := Fallback(); f == nil || f.Text([]byte("A")) != "A" {
		t.Error("fallback font should decode ASCII")
	}
}
